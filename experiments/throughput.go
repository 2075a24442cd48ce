package experiments

import (
	"context"
	"fmt"
	"time"

	"kinrow/experiments/metrics"
	"kinrow/game"
	"kinrow/searcher"

	"github.com/rs/zerolog/log"
)

// Positions searched by the throughput experiment, X to move.
var throughputPositions = map[string][]string{
	"opening": {
		".......",
		".......",
		".......",
		"...X...",
		".......",
		".......",
		".......",
	},
	"middlegame": {
		".......",
		"..O....",
		"...XX..",
		"...OX..",
		"..O....",
		".......",
		".......",
	},
	"crowded": {
		"X.O.X..",
		".OX.O..",
		"..XO...",
		".O.X.O.",
		"..X....",
		".......",
		".......",
	},
}

var throughputOrder = []string{"opening", "middlegame", "crowded"}

// RunThroughputExperiment searches fixed positions at every depth up to
// s.MaxDepth with an ample budget, recording nodes, cache hits and time.
func RunThroughputExperiment(ctx context.Context, s Settings) (string, error) {
	const Duration = time.Minute

	writer, err := metrics.NewWriter(s.Dir, "throughput")
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	log.Info().Msg("starting throughput experiment...")
	startTime := time.Now()

	records := []metrics.ThroughputRecord{}
	for _, name := range throughputOrder {
		position, err := game.ParseGrid(throughputPositions[name], emptyMark)
		if err != nil {
			return "", fmt.Errorf("position %s: %w", name, err)
		}
		for depth := 1; depth <= s.MaxDepth; depth++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			ab := searcher.NewAlphaBeta(searcher.Config{
				AIMark:       firstMark,
				OpponentMark: secondMark,
				EmptyMark:    emptyMark,
				Size:         position.Size(),
				RunLength:    s.WinLength,
				MaxDepth:     depth,
				TimeBudget:   Duration,
			}, searcher.WithMetrics())

			_, metric := ab.Search(position)
			records = append(records, metrics.ThroughputRecord{
				Position:     fmt.Sprintf("%s/%d", name, depth),
				SearchMetric: metric,
			})
			log.Info().Msgf("searched %s at depth %d: %d nodes, %d cache hits in %v", name, depth, metric.Nodes, metric.CacheHits, metric.Duration)
		}
	}

	endTime := time.Now()
	log.Info().Msg("completed throughput experiment")

	err = writer.WriteSetup(metrics.Setup{
		Name:      "throughput",
		BoardSize: len(throughputPositions[throughputOrder[0]]),
		WinLength: s.WinLength,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store setup: %w", err)
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		return "", fmt.Errorf("failed to write throughput records: %w", err)
	}
	log.Info().Msg("stored throughput records")
	return writer.Dir(), nil
}
