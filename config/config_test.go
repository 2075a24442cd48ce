package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kinrow/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 3, cfg.Board.Size)
	require.Equal(t, game.Mark('X'), cfg.StartMark())
	require.True(t, cfg.Player1.IsHuman())
	require.False(t, cfg.Player2.IsHuman())
	require.Equal(t, time.Second, cfg.TimeBudget())
}

func TestParse(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`
game:
  win_length: 4
board:
  size: 6
ai:
  depth: 3
  show_thinking: true
`))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Game.WinLength)
		require.Equal(t, 6, cfg.Board.Size)
		require.Equal(t, "Player", cfg.Player1.Name, "Absent keys should keep their defaults")
		require.Equal(t, 1000, cfg.AI.TimeLimit)

		search := cfg.SearchConfig('O', 'X')
		require.Equal(t, game.Mark('O'), search.AIMark)
		require.Equal(t, game.Mark('.'), search.EmptyMark)
		require.Equal(t, 4, search.RunLength)
		require.Equal(t, 3, search.MaxDepth)
		require.True(t, search.Verbose)
	})

	t.Run("empty file is the default config", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := Parse([]byte("board:\n  sise: 4\n"))
		require.Error(t, err)
	})

	t.Run("starting position", func(t *testing.T) {
		cfg, err := Parse([]byte("board:\n  position: [\"X . .\", \". O .\", \". . .\"]\n"))
		require.NoError(t, err)
		position, err := cfg.Position()
		require.NoError(t, err)
		require.Equal(t, game.Mark('O'), position.At(1, 1))
	})
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"run longer than board", func(cfg *Config) { cfg.Game.WinLength = 4 }},
		{"zero run", func(cfg *Config) { cfg.Game.WinLength = 0 }},
		{"zero depth", func(cfg *Config) { cfg.AI.Depth = 0 }},
		{"zero time limit", func(cfg *Config) { cfg.AI.TimeLimit = 0 }},
		{"negative sleep", func(cfg *Config) { cfg.Debug.Sleep = -1 }},
		{"same marks", func(cfg *Config) { cfg.Player2.Mark = "X" }},
		{"mark equal to empty", func(cfg *Config) { cfg.Player1.Mark = "." }},
		{"long mark", func(cfg *Config) { cfg.Player1.Mark = "XX" }},
		{"unknown player type", func(cfg *Config) { cfg.Player2.Type = "robot" }},
		{"start not a player mark", func(cfg *Config) { cfg.Game.Start = "Z" }},
		{"bad log level", func(cfg *Config) { cfg.Debug.LogLevel = "loud" }},
		{"position of the wrong size", func(cfg *Config) { cfg.Board.Position = []string{"X.", ".."} }},
		{"ragged position", func(cfg *Config) { cfg.Board.Position = []string{"X..", "..", "..."} }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug:\n  log_level: debug\n  sleep: 250\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	require.Equal(t, 250*time.Millisecond, cfg.Sleep())
}
