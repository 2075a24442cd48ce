package player

import (
	"context"
	"errors"

	"kinrow/experiments/metrics"
	"kinrow/game"
)

// ErrAborted is returned when a contestant can no longer provide moves,
// e.g. the human closed the input.
var ErrAborted = errors.New("contestant aborted the game")

type Kind string

const (
	HumanKind    Kind = "human"
	ComputerKind Kind = "ai"
)

// Profile is what the rest of the game knows about a contestant.
type Profile struct {
	Name string
	Mark game.Mark
	Kind Kind
}

type Contestant interface {
	Profile() Profile
	// Move returns a cell for the contestant's mark on g. g is a copy and may be
	// modified freely.
	Move(ctx context.Context, g *game.Grid) (game.Move, error)
}

// Thinker is implemented by contestants that search for their moves.
type Thinker interface {
	Thinking() []string
	LastMetric() metrics.SearchMetric
}
