package searcher

import (
	"fmt"
	"time"

	"kinrow/experiments/metrics"
	"kinrow/game"

	"github.com/rs/zerolog/log"
)

type Option func(ab *AlphaBeta)

// WithMetrics counts nodes, cache hits and cutoffs for every search.
func WithMetrics() Option {
	return func(ab *AlphaBeta) {
		ab.metrics = metrics.NewCollector()
	}
}

// WithRetainedCache keeps the transposition cache between calls instead of
// starting each search with an empty one.
func WithRetainedCache() Option {
	return func(ab *AlphaBeta) {
		ab.retainCache = true
	}
}

func WithClock(now Clock) Option {
	return func(ab *AlphaBeta) {
		if now != nil {
			ab.now = now
		}
	}
}

// AlphaBeta is a time-bounded iterative deepening minimax searcher. It is not
// safe for concurrent use.
type AlphaBeta struct {
	cfg         Config
	now         Clock
	metrics     metrics.Collector
	cache       *cache
	retainCache bool

	// Per search state
	deadline *deadline
	trace    []string
}

func NewAlphaBeta(cfg Config, options ...Option) *AlphaBeta {
	ab := &AlphaBeta{ // Default values
		cfg:     cfg,
		now:     time.Now,
		metrics: metrics.NewDummyCollector(),
		cache:   newCache(),
	}
	for _, option := range options {
		option(ab)
	}
	return ab
}

func (ab *AlphaBeta) Config() Config {
	return ab.cfg
}

// FindBestMove returns the chosen cell, or game.NoMove when g is full.
func (ab *AlphaBeta) FindBestMove(g *game.Grid) game.Move {
	result, _ := ab.Search(g)
	return result.Move
}

// Thinking returns the trace of the last search. It is empty unless the
// searcher was configured as verbose.
func (ab *AlphaBeta) Thinking() []string {
	return append([]string(nil), ab.trace...)
}

// Search picks a move for the AI mark on a private copy of g. The caller's
// grid is never modified.
func (ab *AlphaBeta) Search(g *game.Grid) (Result, metrics.SearchMetric) {
	ab.metrics.Start()
	ab.trace = nil
	if !ab.retainCache {
		ab.cache.reset()
	}
	ab.deadline = newDeadline(ab.now, ab.cfg.TimeBudget)

	result := ab.search(g.Copy())
	result.Trace = ab.Thinking()

	metric := ab.metrics.Complete(string(result.Reason), result.Score)
	log.Debug().Msgf("searched move %s for %s: reason=%s depth=%d score=%d",
		result.Move, ab.cfg.AIMark, result.Reason, result.Depth, result.Score)
	return result, metric
}

func (ab *AlphaBeta) search(g *game.Grid) Result {
	ai, opp := ab.cfg.AIMark, ab.cfg.OpponentMark

	if g.IsFull() {
		ab.think("no empty cell left")
		return Result{Move: game.NoMove, Reason: StopNoMove}
	}

	if move, ok := ab.findCompletingMove(g, ai); ok {
		ab.think("immediate win at %s", move)
		return Result{Move: move, Score: WinScore, Reason: StopWin}
	}
	if move, ok := ab.findCompletingMove(g, opp); ok {
		ab.think("blocking opponent at %s", move)
		return Result{Move: move, Score: ab.scoreAfter(g, move), Reason: StopBlock}
	}

	result := ab.deepen(g)
	if result.Depth == 0 {
		move := ab.fallback(g)
		ab.think("no depth completed, falling back to %s", move)
		return Result{Move: move, Score: ab.scoreAfter(g, move), Reason: StopFallback}
	}
	return result
}

// findCompletingMove returns the first empty cell, row-major, where mark
// would complete a run.
func (ab *AlphaBeta) findCompletingMove(g *game.Grid, mark game.Mark) (game.Move, bool) {
	for _, move := range g.EmptyCells() {
		prior := mustPlace(g, move, mark)
		won := g.CheckWin(mark, ab.cfg.RunLength)
		mustRestore(g, move, prior)
		if won {
			return move, true
		}
	}
	return game.NoMove, false
}

// deepen runs depth 1, 2, ... until the budget runs out, MaxDepth is done or
// a forced win shows up. Only completed iterations update the result.
func (ab *AlphaBeta) deepen(g *game.Grid) Result {
	result := Result{Move: game.NoMove, Reason: StopDepth}
	empties := len(g.EmptyCells())

	for depth := 1; depth <= ab.cfg.MaxDepth; depth++ {
		move, score, root, ok := ab.searchRoot(g, depth)
		if !ok {
			log.Debug().Msgf("ran out of time at depth %d", depth)
			result.Reason = StopTime
			break
		}

		result.Move, result.Score, result.Depth, result.Root = move, score, depth, root
		ab.metrics.CompleteDepth(depth)
		ab.think("depth %d: best move %s score %d", depth, move, score)
		log.Debug().Msgf("completed depth %d with move %s and score %d (cache size %d)", depth, move, score, ab.cache.len())

		if score > WinScore/2 {
			result.Reason = StopForcedWin
			break
		}
		// Searching past the last empty cell cannot reveal anything new
		if depth >= empties {
			break
		}
	}
	return result
}

// searchRoot returns the best root move at depth, or ok=false if the budget
// ran out before every root move was searched.
func (ab *AlphaBeta) searchRoot(g *game.Grid, depth int) (game.Move, int, []ScoredMove, bool) {
	ai, opp := ab.cfg.AIMark, ab.cfg.OpponentMark
	moves := orderedMoves(g, ai, opp, ab.cfg.RunLength)

	best, bestScore := game.NoMove, NegInf
	alpha, beta := NegInf, Inf
	root := make([]ScoredMove, 0, len(moves))
	for _, move := range moves {
		if ab.deadline.Exceeded() {
			return game.NoMove, 0, nil, false
		}
		prior := mustPlace(g, move, ai)
		score := ab.minimax(g, depth-1, alpha, beta, false)
		mustRestore(g, move, prior)
		if ab.deadline.expired {
			return game.NoMove, 0, nil, false
		}

		// Depth 1 children are scored statically, whatever the window
		exact := score > alpha || depth == 1
		root = append(root, ScoredMove{Move: move, Score: score, Exact: exact})
		if score > bestScore {
			best, bestScore = move, score
		}
		alpha = max(alpha, bestScore)
	}
	return best, bestScore, root, true
}

// minimax scores g with the AI to move when maximizing. A search cut short by
// the deadline returns 0, which callers must discard.
func (ab *AlphaBeta) minimax(g *game.Grid, depth, alpha, beta int, maximizing bool) int {
	ab.metrics.AddNode()
	if ab.deadline.Exceeded() {
		return 0
	}

	ai, opp := ab.cfg.AIMark, ab.cfg.OpponentMark
	if depth == 0 || ab.isTerminal(g) {
		return Evaluate(g, ai, opp, ab.cfg.RunLength)
	}

	key := g.Serialize(keyPlaceholder)
	if score, ok := ab.cache.lookup(key, depth, alpha, beta); ok {
		ab.metrics.AddCacheHit()
		return score
	}

	mover, other := ai, opp
	best := NegInf
	if !maximizing {
		mover, other = opp, ai
		best = Inf
	}

	alphaOrig, betaOrig := alpha, beta
	for _, move := range orderedMoves(g, mover, other, ab.cfg.RunLength) {
		if ab.deadline.Exceeded() {
			return 0
		}
		prior := mustPlace(g, move, mover)
		score := ab.minimax(g, depth-1, alpha, beta, !maximizing)
		mustRestore(g, move, prior)
		if ab.deadline.expired {
			return 0
		}

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if beta <= alpha {
			ab.metrics.AddCutoff()
			break
		}
	}

	ab.cache.store(key, depth, best, alphaOrig, betaOrig)
	return best
}

func (ab *AlphaBeta) isTerminal(g *game.Grid) bool {
	return g.CheckWin(ab.cfg.AIMark, ab.cfg.RunLength) ||
		g.CheckWin(ab.cfg.OpponentMark, ab.cfg.RunLength) ||
		g.IsFull()
}

// fallback picks the empty cell with the best quickMoveScore, first wins ties.
func (ab *AlphaBeta) fallback(g *game.Grid) game.Move {
	best, bestScore := game.NoMove, NegInf
	for _, move := range g.EmptyCells() {
		score := quickMoveScore(g, move, ab.cfg.AIMark, ab.cfg.OpponentMark, ab.cfg.RunLength)
		if score > bestScore {
			best, bestScore = move, score
		}
	}
	return best
}

func (ab *AlphaBeta) scoreAfter(g *game.Grid, move game.Move) int {
	prior := mustPlace(g, move, ab.cfg.AIMark)
	defer mustRestore(g, move, prior)
	return Evaluate(g, ab.cfg.AIMark, ab.cfg.OpponentMark, ab.cfg.RunLength)
}

func (ab *AlphaBeta) think(format string, args ...any) {
	if ab.cfg.Verbose {
		ab.trace = append(ab.trace, fmt.Sprintf(format, args...))
	}
}
