package engine

import (
	"context"

	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/gamemaster"
)

type Outcome struct {
	Status     gamemaster.Status
	Winner     game.Mark // 0 on a draw
	WinnerName string
	Line       []game.Move // Winning cells
	Grid       *game.Grid
}

type Engine interface {
	// Run plays a game till there's a winner or the grid is full
	Run(ctx context.Context) (Outcome, metrics.GameMetric, []metrics.MoveMetric, error)
}
