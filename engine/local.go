package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/gamemaster"
	"kinrow/meta"
	"kinrow/player"
	"kinrow/render"

	"github.com/rs/zerolog/log"
)

type Option func(e *LocalEngine)

// WithRenderer prints the board before every turn and after the game.
func WithRenderer(r *render.Renderer) Option {
	return func(e *LocalEngine) {
		e.renderer = r
	}
}

// WithOutput sets where turn prompts and announcements go.
func WithOutput(w io.Writer) Option {
	return func(e *LocalEngine) {
		if w != nil {
			e.out = w
		}
	}
}

// WithThinking prints the searcher's trace after every computer move.
func WithThinking() Option {
	return func(e *LocalEngine) {
		e.showThinking = true
	}
}

// WithPosition starts from a copy of position instead of a clear grid.
func WithPosition(position *game.Grid) Option {
	return func(e *LocalEngine) {
		e.position = position
	}
}

type LocalEngine struct {
	master       gamemaster.Master
	contestants  map[game.Mark]player.Contestant
	start        game.Mark
	position     *game.Grid
	renderer     *render.Renderer
	out          io.Writer
	showThinking bool
}

func NewLocalEngine(master gamemaster.Master, contestants []player.Contestant, start game.Mark, options ...Option) *LocalEngine {
	if len(contestants) != 2 {
		panic("need exactly two contestants")
	}
	byMark := make(map[game.Mark]player.Contestant, len(contestants))
	for _, c := range contestants {
		byMark[c.Profile().Mark] = c
	}
	if len(byMark) != len(contestants) {
		panic("contestants must have distinct marks")
	}

	e := &LocalEngine{ // Default values
		master:      master,
		contestants: byMark,
		start:       start,
		out:         io.Discard,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until a winner is found or the grid
// fills. A human's illegal move is asked again; anything else that goes wrong
// ends the game with an error.
func (e *LocalEngine) Run(ctx context.Context) (Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	grid, getUpdate, err := e.master.Init(e.start, e.position)
	if err != nil {
		return Outcome{}, metrics.GameMetric{}, nil, fmt.Errorf("failed to start game: %w", err)
	}

	starter := e.contestants[e.master.Turn()].Profile()
	log.Info().Msgf("%s (%s) is starting", starter.Name, starter.Mark)
	gameMetric := metrics.GameMetric{
		Starter:   starter.Mark.String(),
		StartTime: time.Now(),
	}

	// Every accepted move fills a cell
	maxTurns := grid.Size() * grid.Size()
	var moveMetrics []metrics.MoveMetric
	for turn := 0; e.master.Status() == gamemaster.InProgress; turn++ {
		if turn >= maxTurns {
			return e.outcome(), gameMetric, moveMetrics, fmt.Errorf("game still in progress after %d turns", maxTurns)
		}
		c := e.contestants[e.master.Turn()]
		profile := c.Profile()
		if e.renderer != nil {
			e.renderer.Render(grid, nil)
		}
		fmt.Fprintf(e.out, "%s's turn (%s):\n", profile.Name, profile.Mark)

		move, err := e.play(ctx, c, grid)
		if err != nil {
			return e.outcome(), gameMetric, moveMetrics, err
		}
		if profile.Kind == player.ComputerKind {
			fmt.Fprintf(e.out, "%s (%s) moves to %s\n", profile.Name, profile.Mark, move)
		}

		update, ok := getUpdate()
		if !ok {
			return e.outcome(), gameMetric, moveMetrics, fmt.Errorf("no update after move %s", move)
		}
		grid = update.Grid
		moveMetric := metrics.MoveMetric{
			Step: update.Step,
			Mark: profile.Mark.String(),
			Row:  move.Row,
			Col:  move.Col,
		}
		if thinker, ok := c.(player.Thinker); ok {
			moveMetric.SearchMetric = thinker.LastMetric()
			if e.showThinking {
				for _, line := range thinker.Thinking() {
					fmt.Fprintf(e.out, "  %s\n", line)
				}
			}
		}
		moveMetrics = append(moveMetrics, moveMetric)
		log.Debug().Msgf("step %d: %s (%s) played %s", update.Step, profile.Name, profile.Mark, move)
	}

	outcome := e.outcome()
	if e.renderer != nil {
		e.renderer.Render(outcome.Grid, outcome.Line)
	}
	e.announce(outcome)

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	if outcome.Winner != 0 {
		gameMetric.Winner = outcome.Winner.String()
	}
	return outcome, gameMetric, moveMetrics, nil
}

// play asks c for moves until the master accepts one.
func (e *LocalEngine) play(ctx context.Context, c player.Contestant, grid *game.Grid) (game.Move, error) {
	profile := c.Profile()
	for rejects := 0; ; {
		move, err := c.Move(ctx, grid.Copy())
		if err != nil {
			return game.NoMove, fmt.Errorf("%s (%s) could not move: %w", profile.Name, profile.Mark, err)
		}

		err = e.master.Play(move)
		if err == nil {
			return move, nil
		}
		if !errors.Is(err, gamemaster.ErrIllegalMove) || profile.Kind != player.HumanKind {
			return game.NoMove, fmt.Errorf("%s (%s) played %s: %w", profile.Name, profile.Mark, move, err)
		}

		rejects++
		log.Warn().Err(err).Msgf("rejected move %d of %d from %s", rejects, meta.MAX_REJECTS, profile.Name)
		if rejects >= meta.MAX_REJECTS {
			return game.NoMove, fmt.Errorf("%s (%s) made %d illegal moves: %w", profile.Name, profile.Mark, rejects, err)
		}
		fmt.Fprintln(e.out, "Invalid move, try again.")
	}
}

func (e *LocalEngine) outcome() Outcome {
	outcome := Outcome{
		Status: e.master.Status(),
		Winner: e.master.Winner(),
		Line:   e.master.WinningLine(),
		Grid:   e.master.Grid(),
	}
	if c, ok := e.contestants[outcome.Winner]; ok {
		outcome.WinnerName = c.Profile().Name
	}
	return outcome
}

func (e *LocalEngine) announce(outcome Outcome) {
	switch outcome.Status {
	case gamemaster.Won:
		winner := e.contestants[outcome.Winner].Profile()
		fmt.Fprintf(e.out, "%s (%s) wins!\n", winner.Name, winner.Mark)
		if winner.Kind == player.HumanKind {
			fmt.Fprintf(e.out, "Congratulations %s!\n", winner.Name)
		}
		log.Info().Msgf("%s (%s) won after %d moves", winner.Name, winner.Mark, len(e.master.History()))
	case gamemaster.Draw:
		fmt.Fprintln(e.out, "It's a draw!")
		log.Info().Msgf("draw after %d moves", len(e.master.History()))
	}
}
