package searcher

import (
	"time"

	"kinrow/game"
)

const (
	WinScore  = 1000000
	LossScore = -WinScore

	Inf    = 1000000000
	NegInf = -Inf
)

// Score of a window holding n marks of one side only, before the open-cell
// scaling. Counts past the table score like its last entry.
var lineScores = []int{0, 1, 10, 100, 1000, 10000}

const (
	centerWeight   = 3            // Per step of closeness to the center in move ordering
	centerBonus    = 5            // Per mark in the 3x3 center block
	winMoveBonus   = WinScore / 10
	blockMoveBonus = WinScore / 20
)

// Cache keys map empty cells to NUL, which never collides with a printable mark.
const keyPlaceholder game.Mark = 0

// Config is the immutable snapshot a searcher is built with. The caller
// guarantees 1 <= RunLength <= Size, MaxDepth >= 1 and TimeBudget > 0.
type Config struct {
	AIMark       game.Mark
	OpponentMark game.Mark
	EmptyMark    game.Mark
	Size         int
	RunLength    int
	MaxDepth     int
	TimeBudget   time.Duration
	Verbose      bool // Record a human-readable thinking trace
}

type StopReason string

const (
	StopWin       StopReason = "win"        // Immediate win found before searching
	StopBlock     StopReason = "block"      // Opponent's immediate win blocked
	StopDepth     StopReason = "depth"      // Every depth up to MaxDepth completed
	StopTime      StopReason = "time"       // Budget ran out during deepening
	StopForcedWin StopReason = "forced-win" // Best score above WinScore/2
	StopFallback  StopReason = "fallback"   // No depth completed, cheap move score used
	StopNoMove    StopReason = "no-move"    // Grid full
)

type ScoredMove struct {
	Move  game.Move
	Score int
	Exact bool // False when the move failed low and Score is only an upper bound
}

type Result struct {
	Move   game.Move
	Score  int
	Depth  int // Deepest completed iteration, 0 when no search ran
	Reason StopReason
	// Root holds the root moves of the deepest completed iteration in search
	// order. Moves that failed low carry an upper bound and are not Exact.
	Root  []ScoredMove
	Trace []string
}
