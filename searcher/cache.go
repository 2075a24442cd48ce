package searcher

type bound uint8

const (
	exact bound = iota
	lowerBound
	upperBound
)

type cacheEntry struct {
	score int
	depth int
	bound bound
}

// cache maps a serialized grid to the result of searching it. Keys are the
// full grid, never a hash, so two positions can never share an entry.
type cache struct {
	entries map[string]cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

func (c *cache) reset() {
	clear(c.entries)
}

func (c *cache) len() int {
	return len(c.entries)
}

// lookup returns a stored score usable for a search of depth plies within
// (alpha, beta).
func (c *cache) lookup(key string, depth, alpha, beta int) (int, bool) {
	entry, ok := c.entries[key]
	if !ok || entry.depth < depth {
		return 0, false
	}
	switch entry.bound {
	case exact:
		return entry.score, true
	case lowerBound:
		if entry.score >= beta {
			return entry.score, true
		}
	case upperBound:
		if entry.score <= alpha {
			return entry.score, true
		}
	}
	return 0, false
}

// store records score for a search of depth plies that started with the
// window (alpha, beta).
func (c *cache) store(key string, depth, score, alpha, beta int) {
	entry := cacheEntry{score: score, depth: depth, bound: exact}
	if score <= alpha {
		entry.bound = upperBound
	} else if score >= beta {
		entry.bound = lowerBound
	}
	c.entries[key] = entry
}
