package experiments

import (
	"context"
	"fmt"
	"time"

	"kinrow/engine"
	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/gamemaster"
	"kinrow/meta"
	"kinrow/player"
	"kinrow/searcher"
	"kinrow/searcher/agent"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	TimeBudget  = 10 * time.Millisecond
	SearchDepth = 8
	Temperature = 20.0 // Score units; enough to vary openings between equal agents
)

const (
	firstMark  game.Mark = 'X'
	secondMark game.Mark = 'O'
	emptyMark  game.Mark = '.'
)

type Settings struct {
	Size       int
	WinLength  int
	NumGames   int // Per matchup
	Goroutines int // Games played at once
	MaxDepth   int // Deepest search in the throughput experiment
	Dir        string
	Seed       uint64
}

func DefaultSettings() Settings {
	return Settings{
		Size:       7,
		WinLength:  4,
		NumGames:   meta.NUM_GAMES,
		Goroutines: meta.GO_ROUTINES,
		MaxDepth:   5,
		Dir:        meta.EXPERIMENTS_DIR,
		Seed:       1,
	}
}

type MatchupSummary struct {
	Agent1     int
	Agent2     int
	Agent1Wins int
	Agent2Wins int
	Draws      int
}

type ThinkTime struct {
	Mean   time.Duration
	StdDev time.Duration
	Moves  int
}

type Report struct {
	Dir        string // Where the records were written
	Matchups   []MatchupSummary
	ThinkTimes map[int]ThinkTime // By AgentConfig.ID
}

// RunBudgetExperiment pairs a baseline agent against agents with larger time
// budgets at the same depth cap.
func RunBudgetExperiment(ctx context.Context, s Settings) (Report, error) {
	baseline := metrics.AgentConfig{ID: 1, Depth: SearchDepth, Duration: TimeBudget, Temperature: Temperature}
	budgetConfigs := []metrics.AgentConfig{
		{ID: 2, Depth: SearchDepth, Duration: TimeBudget, Temperature: Temperature}, // Baseline equivalent
		{ID: 3, Depth: SearchDepth, Duration: 2 * TimeBudget, Temperature: Temperature},
		{ID: 4, Depth: SearchDepth, Duration: 4 * TimeBudget, Temperature: Temperature},
		{ID: 5, Depth: SearchDepth, Duration: 8 * TimeBudget, Temperature: Temperature},
	}

	// Each matchup pairs the baseline agent against a budget agent
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range budgetConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, "budget", s, append(budgetConfigs, baseline), matchUps)
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
}

func runExperiment(ctx context.Context, name string, s Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (Report, error) {
	writer, err := metrics.NewWriter(s.Dir, name)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}

	log.Info().Msgf("starting %s experiment...", name)
	startTime := time.Now()

	// Games are independent; each slot is written by exactly one goroutine
	results := make([]gameResult, len(matchUps)*s.NumGames)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Goroutines))
	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])
		for i := 0; i < s.NumGames; i++ {
			mi, i := mi, i // per-iteration copies (go directive lowered to 1.21)
			id := mi*s.NumGames + i + 1
			// Alternate the starting agent
			first, second := matchup[0], matchup[1]
			if i%2 == 1 {
				first, second = second, first
			}
			g.Go(func() error {
				result, err := runGame(ctx, s, id, first, second)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				results[id-1] = result
				log.Info().Msgf("completed matchup %d of %d game %d of %d with winner agent: %d", mi+1, len(matchUps), i+1, s.NumGames, result.record.WinnerAgent)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	endTime := time.Now()
	log.Info().Msgf("completed %s experiment", name)

	gameRecords := lo.Map(results, func(r gameResult, _ int) metrics.GameRecord { return r.record })
	moveRecords := lo.FlatMap(results, func(r gameResult, _ int) []metrics.MoveRecord { return r.moves })
	report := Report{
		Dir:        writer.Dir(),
		Matchups:   summarize(matchUps, gameRecords),
		ThinkTimes: thinkTimes(moveRecords),
	}
	for _, summary := range report.Matchups {
		log.Info().Msgf("agent %d vs agent %d: %d-%d with %d draws", summary.Agent1, summary.Agent2, summary.Agent1Wins, summary.Agent2Wins, summary.Draws)
	}
	for _, config := range configs {
		if tt, ok := report.ThinkTimes[config.ID]; ok {
			log.Info().Msgf("agent %d thought %v ± %v over %d moves", config.ID, tt.Mean, tt.StdDev, tt.Moves)
		}
	}

	// Store experiment metadata
	err = writer.WriteSetup(metrics.Setup{
		Name:      name,
		BoardSize: s.Size,
		WinLength: s.WinLength,
		NumGames:  s.NumGames,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
	})
	if err != nil {
		return report, fmt.Errorf("failed to store setup: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return report, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return report, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return report, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return report, nil
}

// runGame plays one game where first places firstMark and moves first.
func runGame(ctx context.Context, s Settings, id int, first, second metrics.AgentConfig) (gameResult, error) {
	agentByMark := map[game.Mark]metrics.AgentConfig{firstMark: first, secondMark: second}
	contestants := []player.Contestant{
		player.NewComputer(fmt.Sprintf("agent%d", first.ID), firstMark, createAgent(s, first, firstMark, secondMark, s.Seed+uint64(2*id)), 0),
		player.NewComputer(fmt.Sprintf("agent%d", second.ID), secondMark, createAgent(s, second, secondMark, firstMark, s.Seed+uint64(2*id+1)), 0),
	}
	master := gamemaster.NewLocalMaster(s.Size, emptyMark, s.WinLength, firstMark, secondMark)
	e := engine.NewLocalEngine(master, contestants, firstMark)

	outcome, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	record := metrics.GameRecord{
		ID:         id,
		Agent1:     first.ID,
		Agent2:     second.ID,
		GameMetric: gameMetric,
	}
	if winner, ok := agentByMark[outcome.Winner]; ok {
		record.WinnerAgent = winner.ID
	}
	moves := lo.Map(moveMetrics, func(mm metrics.MoveMetric, _ int) metrics.MoveRecord {
		return metrics.MoveRecord{
			Game:       id,
			Agent:      agentByMark[game.Mark(mm.Mark[0])].ID,
			MoveMetric: mm,
		}
	})
	return gameResult{record: record, moves: moves}, nil
}

func createAgent(s Settings, config metrics.AgentConfig, ai, opp game.Mark, seed uint64) agent.Agent {
	ab := searcher.NewAlphaBeta(searcher.Config{
		AIMark:       ai,
		OpponentMark: opp,
		EmptyMark:    emptyMark,
		Size:         s.Size,
		RunLength:    s.WinLength,
		MaxDepth:     config.Depth,
		TimeBudget:   config.Duration,
	}, searcher.WithMetrics())

	if config.Temperature > 0 {
		return agent.NewExplorationAgent(ab, config.Temperature, seed)
	}
	return agent.NewEvaluationAgent(ab)
}

func summarize(matchUps [][]metrics.AgentConfig, records []metrics.GameRecord) []MatchupSummary {
	return lo.Map(matchUps, func(matchup []metrics.AgentConfig, _ int) MatchupSummary {
		a1, a2 := matchup[0].ID, matchup[1].ID
		games := lo.Filter(records, func(r metrics.GameRecord, _ int) bool {
			return (r.Agent1 == a1 && r.Agent2 == a2) || (r.Agent1 == a2 && r.Agent2 == a1)
		})
		return MatchupSummary{
			Agent1:     a1,
			Agent2:     a2,
			Agent1Wins: lo.CountBy(games, func(r metrics.GameRecord) bool { return r.WinnerAgent == a1 }),
			Agent2Wins: lo.CountBy(games, func(r metrics.GameRecord) bool { return r.WinnerAgent == a2 }),
			Draws:      lo.CountBy(games, func(r metrics.GameRecord) bool { return r.WinnerAgent == 0 }),
		}
	})
}

func thinkTimes(records []metrics.MoveRecord) map[int]ThinkTime {
	byAgent := lo.GroupBy(records, func(r metrics.MoveRecord) int { return r.Agent })
	return lo.MapValues(byAgent, func(moves []metrics.MoveRecord, _ int) ThinkTime {
		durations := lo.Map(moves, func(r metrics.MoveRecord, _ int) float64 { return float64(r.Duration) })
		mean, std := stat.MeanStdDev(durations, nil)
		if len(durations) < 2 {
			std = 0
		}
		return ThinkTime{Mean: time.Duration(mean), StdDev: time.Duration(std), Moves: len(moves)}
	})
}
