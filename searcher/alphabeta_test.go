package searcher

import (
	"testing"
	"time"

	"kinrow/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newConfig(ai, opp game.Mark, size, runLength, depth int) Config {
	return Config{
		AIMark:       ai,
		OpponentMark: opp,
		EmptyMark:    '.',
		Size:         size,
		RunLength:    runLength,
		MaxDepth:     depth,
		TimeBudget:   10 * time.Second,
	}
}

// expiredClock reads a start time once and is past any budget afterwards.
func expiredClock() Clock {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(time.Hour)
	}
}

// stepClock advances by one step every time it is read.
func stepClock(step time.Duration) Clock {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestSearchFullGrid(t *testing.T) {
	g := mustParse(t, "XOX", "XOO", "OXO")
	ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 4))
	result, _ := ab.Search(g)
	require.Equal(t, game.NoMove, result.Move)
	require.Equal(t, StopNoMove, result.Reason)
}

func TestSearchSingleEmptyCell(t *testing.T) {
	g := mustParse(t, "XOX", "XOO", "OX.")
	ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 4))
	require.Equal(t, game.Move{Row: 2, Col: 2}, ab.FindBestMove(g))
}

func TestSearchImmediateWin(t *testing.T) {
	g := mustParse(t,
		"X X .",
		"O O .",
		". . .",
	)
	cfg := newConfig('X', 'O', 3, 3, 9)
	cfg.TimeBudget = time.Nanosecond
	ab := NewAlphaBeta(cfg, WithClock(expiredClock()))

	result, _ := ab.Search(g)
	require.Equal(t, game.Move{Row: 0, Col: 2}, result.Move, "Winning beats blocking")
	require.Equal(t, StopWin, result.Reason)
	require.Equal(t, WinScore, result.Score)
	require.Zero(t, result.Depth, "No search should run")
}

func TestSearchImmediateBlock(t *testing.T) {
	g := mustParse(t,
		"X X .",
		". O .",
		". . .",
	)

	t.Run("without time to search", func(t *testing.T) {
		cfg := newConfig('O', 'X', 3, 3, 9)
		cfg.TimeBudget = time.Nanosecond
		ab := NewAlphaBeta(cfg, WithClock(expiredClock()))
		result, _ := ab.Search(g)
		require.Equal(t, game.Move{Row: 0, Col: 2}, result.Move)
		require.Equal(t, StopBlock, result.Reason)
	})

	t.Run("with the real clock", func(t *testing.T) {
		ab := NewAlphaBeta(newConfig('O', 'X', 3, 3, 6))
		require.Equal(t, game.Move{Row: 0, Col: 2}, ab.FindBestMove(g))
	})
}

func TestSearchDoesNotMutateCallerGrid(t *testing.T) {
	g := mustParse(t, "X..", ".O.", "...")
	before := g.Copy()
	ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 9))
	ab.FindBestMove(g)
	require.True(t, g.Equal(before))
}

func TestSearchFallback(t *testing.T) {
	g := mustParse(t, "...", ".X.", "...")
	ab := NewAlphaBeta(newConfig('O', 'X', 3, 3, 9), WithClock(expiredClock()))

	result, _ := ab.Search(g)
	require.Equal(t, StopFallback, result.Reason)
	require.Zero(t, result.Depth)
	require.Equal(t, game.Move{Row: 0, Col: 1}, result.Move, "First edge cell has the best quick score")
	require.True(t, g.IsEmptyCell(result.Move.Row, result.Move.Col))
}

func TestSearchFindsForcedWin(t *testing.T) {
	g := mustParse(t,
		"X . .",
		". O .",
		". . X",
	)
	ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 5))

	result, _ := ab.Search(g)
	require.Equal(t, StopForcedWin, result.Reason)
	require.Equal(t, WinScore, result.Score)
	require.Equal(t, 3, result.Depth)
	require.Contains(t, []game.Move{{Row: 0, Col: 2}, {Row: 2, Col: 0}}, result.Move, "Only the corners fork")
}

func TestSearchCompletesEveryDepth(t *testing.T) {
	g := mustParse(t, "....", ".X..", "..O.", "....")
	ab := NewAlphaBeta(newConfig('X', 'O', 4, 3, 2))

	result, _ := ab.Search(g)
	require.Equal(t, StopDepth, result.Reason)
	require.Equal(t, 2, result.Depth)
	require.NotEmpty(t, result.Root)
	require.True(t, g.IsEmptyCell(result.Move.Row, result.Move.Col))
}

func TestSearchIsDeterministic(t *testing.T) {
	g := mustParse(t, ".....", ".X...", "..O..", "...X.", ".....")
	ab := NewAlphaBeta(newConfig('O', 'X', 5, 4, 3), WithMetrics())

	first, firstMetric := ab.Search(g)
	second, secondMetric := ab.Search(g)
	require.Equal(t, first.Move, second.Move)
	require.Equal(t, first.Score, second.Score)
	require.Equal(t, firstMetric.Nodes, secondMetric.Nodes, "A fresh cache per call should repeat the same search")
}

func TestSearchRetainedCache(t *testing.T) {
	g := mustParse(t, ".....", ".X...", "..O..", "...X.", ".....")
	ab := NewAlphaBeta(newConfig('O', 'X', 5, 4, 3), WithMetrics(), WithRetainedCache())

	_, first := ab.Search(g)
	_, second := ab.Search(g)
	require.Less(t, second.Nodes, first.Nodes)
	require.Greater(t, second.CacheHits, 0)
}

func TestSearchMetrics(t *testing.T) {
	g := mustParse(t, "X..", ".O.", "...")
	ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 3), WithMetrics())

	result, metric := ab.Search(g)
	require.Equal(t, result.Depth, metric.Depth)
	require.Equal(t, string(result.Reason), metric.Reason)
	require.Equal(t, result.Score, metric.Score)
	require.Greater(t, metric.Nodes, 0)
}

func TestThinking(t *testing.T) {
	g := mustParse(t, "X..", ".O.", "...")

	t.Run("verbose records one line per depth", func(t *testing.T) {
		cfg := newConfig('X', 'O', 3, 3, 2)
		cfg.Verbose = true
		ab := NewAlphaBeta(cfg)
		result, _ := ab.Search(g)
		require.Len(t, ab.Thinking(), 2)
		require.Contains(t, ab.Thinking()[0], "depth 1")
		require.Equal(t, ab.Thinking(), result.Trace)
	})

	t.Run("quiet records nothing", func(t *testing.T) {
		ab := NewAlphaBeta(newConfig('X', 'O', 3, 3, 2))
		ab.FindBestMove(g)
		require.Empty(t, ab.Thinking())
	})
}

func TestSearchBudgetIsMonotonic(t *testing.T) {
	g := mustParse(t, "....", ".X..", "..O.", "....")

	var previous Result
	for budget := time.Duration(1); budget <= 1<<20; budget *= 2 {
		cfg := newConfig('X', 'O', 4, 3, 3)
		cfg.TimeBudget = budget
		ab := NewAlphaBeta(cfg, WithClock(stepClock(1)))

		result, _ := ab.Search(g)
		require.True(t, g.IsEmptyCell(result.Move.Row, result.Move.Col), "Every budget should yield a legal move")
		require.GreaterOrEqual(t, result.Depth, previous.Depth, "budget=%d", budget)
		if result.Depth == previous.Depth && result.Depth > 0 {
			require.Equal(t, previous.Move, result.Move, "budget=%d", budget)
			require.Equal(t, previous.Score, result.Score, "budget=%d", budget)
		}
		previous = result
	}
	require.Equal(t, 3, previous.Depth, "The largest budget should finish every depth")
}

func TestSearchExampleBlocksTopRow(t *testing.T) {
	g := mustParse(t,
		"X X .",
		". O .",
		". . .",
	)
	for _, depth := range []int{1, 3, 9} {
		ab := NewAlphaBeta(newConfig('O', 'X', 3, 3, depth))
		require.Equal(t, game.Move{Row: 0, Col: 2}, ab.FindBestMove(g), "depth=%d", depth)
	}
}

// replyValue is the depth 2 minimax value of ai playing move, with every
// opponent reply searched.
func replyValue(g *game.Grid, move game.Move, ai, opp game.Mark, runLength int) int {
	prior := mustPlace(g, move, ai)
	defer mustRestore(g, move, prior)
	if g.CheckWin(ai, runLength) || g.CheckWin(opp, runLength) || g.IsFull() {
		return Evaluate(g, ai, opp, runLength)
	}
	value := Inf
	for _, reply := range orderedMoves(g, opp, ai, runLength) {
		replyPrior := mustPlace(g, reply, opp)
		value = min(value, Evaluate(g, ai, opp, runLength))
		mustRestore(g, reply, replyPrior)
	}
	return value
}

func TestSearchRootScores(t *testing.T) {
	g := mustParse(t, ".....", ".X...", "..O..", ".....", ".....")
	ab := NewAlphaBeta(newConfig('X', 'O', 5, 4, 2))

	result, _ := ab.Search(g)
	require.Equal(t, 2, result.Depth)
	require.True(t, result.Root[0].Exact, "The first root move is searched with a full window")

	inexact := 0
	for _, scored := range result.Root {
		value := replyValue(g, scored.Move, 'X', 'O', 4)
		if scored.Exact {
			require.Equal(t, value, scored.Score, "move=%s", scored.Move)
		} else {
			inexact++
			require.GreaterOrEqual(t, scored.Score, value, "move=%s", scored.Move)
			require.LessOrEqual(t, scored.Score, result.Score, "move=%s", scored.Move)
		}
		if scored.Move == result.Move {
			require.True(t, scored.Exact, "The chosen move always has an exact score")
		}
	}
	require.Greater(t, inexact, 0, "Some root moves should fail low")

	t.Run("depth 1 scores are all exact", func(t *testing.T) {
		result, _ := NewAlphaBeta(newConfig('X', 'O', 5, 4, 1)).Search(g)
		for _, scored := range result.Root {
			require.True(t, scored.Exact, "move=%s", scored.Move)
		}
	})
}

func TestSearchReturnsEmptyCellOnRandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 300; i++ {
		size := 3 + rng.Intn(4)
		run := 3 + rng.Intn(size-2)
		g := randomGrid(rng, size)
		for _, budget := range []time.Duration{1, 4, 16, 64, 256} {
			cfg := newConfig('X', 'O', size, run, 4)
			cfg.TimeBudget = budget
			ab := NewAlphaBeta(cfg, WithClock(stepClock(1)))

			result, _ := ab.Search(g)
			if g.IsFull() {
				require.Equal(t, game.NoMove, result.Move, "grid:\n%s", g)
				continue
			}
			require.True(t, g.IsEmptyCell(result.Move.Row, result.Move.Col),
				"grid:\n%srun=%d budget=%d move=%s reason=%s", g, run, budget, result.Move, result.Reason)
		}
	}
}
