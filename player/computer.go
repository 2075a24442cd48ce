package player

import (
	"context"
	"time"

	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/searcher/agent"

	"github.com/rs/zerolog/log"
)

type Computer struct {
	profile    Profile
	agent      agent.Agent
	delay      time.Duration
	lastMetric metrics.SearchMetric
}

// NewComputer returns a contestant driven by a. A positive delay pauses
// before every move so a human can follow the game.
func NewComputer(name string, mark game.Mark, a agent.Agent, delay time.Duration) *Computer {
	return &Computer{
		profile: Profile{Name: name, Mark: mark, Kind: ComputerKind},
		agent:   a,
		delay:   delay,
	}
}

func (c *Computer) Profile() Profile {
	return c.profile
}

func (c *Computer) Move(ctx context.Context, g *game.Grid) (game.Move, error) {
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return game.NoMove, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	move, metric := c.agent.FindMove(g)
	c.lastMetric = metric
	if move.IsNone() || !g.IsEmptyCell(move.Row, move.Col) {
		cells := g.EmptyCells()
		if len(cells) == 0 {
			return game.NoMove, ErrAborted
		}
		log.Warn().Msgf("%s got unusable move %s from its agent, playing %s instead", c.profile.Name, move, cells[0])
		move = cells[0]
	}
	return move, nil
}

func (c *Computer) Thinking() []string {
	return c.agent.Thinking()
}

func (c *Computer) LastMetric() metrics.SearchMetric {
	return c.lastMetric
}
