package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kinrow/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunExperiment(t *testing.T) {
	s := Settings{Size: 3, WinLength: 3, NumGames: 2, Goroutines: 2, Dir: t.TempDir(), Seed: 1}
	fast := metrics.AgentConfig{ID: 1, Depth: 2, Duration: time.Second}
	slow := metrics.AgentConfig{ID: 2, Depth: 3, Duration: time.Second, Temperature: 5}

	report, err := runExperiment(context.Background(), "test", s,
		[]metrics.AgentConfig{fast, slow}, [][]metrics.AgentConfig{{fast, slow}})
	require.NoError(t, err)

	require.Len(t, report.Matchups, 1)
	summary := report.Matchups[0]
	require.Equal(t, 2, summary.Agent1Wins+summary.Agent2Wins+summary.Draws, "Every game should be tallied once")
	require.Contains(t, report.ThinkTimes, 1)
	require.Contains(t, report.ThinkTimes, 2)

	games := readCSV(t, filepath.Join(report.Dir, "game_records.csv"))
	require.Len(t, games, 3, "Header plus one row per game")
	require.Equal(t, []string{"1", "1", "2"}, games[1][:3])
	require.Equal(t, []string{"2", "2", "1"}, games[2][:3], "The second game should swap the starting agent")

	moves := readCSV(t, filepath.Join(report.Dir, "move_records.csv"))
	require.Greater(t, len(moves), 5)
	require.FileExists(t, filepath.Join(report.Dir, "agent_configs.csv"))
	require.FileExists(t, filepath.Join(report.Dir, "setup.json"))
}

func TestRunThroughputExperiment(t *testing.T) {
	s := Settings{WinLength: 4, MaxDepth: 2, Dir: t.TempDir()}
	dir, err := RunThroughputExperiment(context.Background(), s)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "throughput_records.csv"))
	require.Len(t, rows, 1+len(throughputOrder)*2)
	require.Equal(t, "opening/1", rows[1][0])
}

func TestThinkTimes(t *testing.T) {
	records := []metrics.MoveRecord{
		{Agent: 1, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Duration: 10 * time.Millisecond}}},
		{Agent: 1, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Duration: 30 * time.Millisecond}}},
		{Agent: 2, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Duration: 5 * time.Millisecond}}},
	}
	tt := thinkTimes(records)
	require.Equal(t, 20*time.Millisecond, tt[1].Mean)
	require.Equal(t, 2, tt[1].Moves)
	require.InDelta(t, float64(14142135), float64(tt[1].StdDev), 1)
	require.Equal(t, ThinkTime{Mean: 5 * time.Millisecond, Moves: 1}, tt[2])
}
