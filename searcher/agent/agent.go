package agent

import (
	"kinrow/experiments/metrics"
	"kinrow/game"
)

type Agent interface {
	// FindMove returns the chosen cell and performance metrics (if collected) from the search
	FindMove(g *game.Grid) (game.Move, metrics.SearchMetric)
	// Thinking returns the reasoning trace of the last search, if recorded
	Thinking() []string
}
