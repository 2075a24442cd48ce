package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"kinrow/game"
	"kinrow/meta"
	"kinrow/searcher"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Game    GameConfig   `yaml:"game"`
	Board   BoardConfig  `yaml:"board"`
	Player1 PlayerConfig `yaml:"player1"`
	Player2 PlayerConfig `yaml:"player2"`
	AI      AIConfig     `yaml:"ai"`
	Debug   DebugConfig  `yaml:"debug"`
}

type GameConfig struct {
	WinLength int    `yaml:"win_length"`
	Start     string `yaml:"start"` // Mark of the contestant who moves first
	Color     bool   `yaml:"color"`
}

type BoardConfig struct {
	Size     int      `yaml:"size"`
	Empty    string   `yaml:"empty"`
	Position []string `yaml:"position"` // Optional starting rows, e.g. "X . O"
}

type PlayerConfig struct {
	Type string `yaml:"type"` // human or ai
	Mark string `yaml:"mark"`
	Name string `yaml:"name"`
}

type AIConfig struct {
	Depth        int  `yaml:"depth"`
	TimeLimit    int  `yaml:"time_limit"` // Milliseconds per move
	ShowThinking bool `yaml:"show_thinking"`
}

type DebugConfig struct {
	ClearConsole bool   `yaml:"clear_console"`
	Sleep        int    `yaml:"sleep"` // Milliseconds before every computer move
	LogLevel     string `yaml:"log_level"`
}

var playerTypes = []string{"human", "ai"}

func Default() Config {
	return Config{
		Game: GameConfig{
			WinLength: meta.WIN_LENGTH,
			Start:     "X",
			Color:     true,
		},
		Board: BoardConfig{
			Size:  meta.BOARD_SIZE,
			Empty: meta.EMPTY_MARK,
		},
		Player1: PlayerConfig{Type: "human", Mark: "X", Name: "Player"},
		Player2: PlayerConfig{Type: "ai", Mark: "O", Name: "AI"},
		AI: AIConfig{
			Depth:     meta.SEARCH_DEPTH,
			TimeLimit: meta.TIME_LIMIT,
		},
		Debug: DebugConfig{LogLevel: "info"},
	}
}

// Load reads a YAML config on top of the defaults; keys absent from the file
// keep their default values. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.Board.Size < 1 {
		errs = append(errs, fmt.Errorf("board.size must be positive, got %d", c.Board.Size))
	}
	if c.Game.WinLength < 1 || c.Game.WinLength > c.Board.Size {
		errs = append(errs, fmt.Errorf("game.win_length must be in [1, %d], got %d", c.Board.Size, c.Game.WinLength))
	}
	if c.AI.Depth < 1 {
		errs = append(errs, fmt.Errorf("ai.depth must be at least 1, got %d", c.AI.Depth))
	}
	if c.AI.TimeLimit <= 0 {
		errs = append(errs, fmt.Errorf("ai.time_limit must be positive, got %d", c.AI.TimeLimit))
	}
	if c.Debug.Sleep < 0 {
		errs = append(errs, fmt.Errorf("debug.sleep must not be negative, got %d", c.Debug.Sleep))
	}
	if _, err := zerolog.ParseLevel(c.Debug.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("debug.log_level: %w", err))
	}

	marks := map[string]string{
		"board.empty":  c.Board.Empty,
		"player1.mark": c.Player1.Mark,
		"player2.mark": c.Player2.Mark,
	}
	for key, mark := range marks {
		if len(mark) != 1 || mark == " " {
			errs = append(errs, fmt.Errorf("%s must be a single visible character, got %q", key, mark))
		}
	}
	if len(lo.Uniq(lo.Values(marks))) != len(marks) {
		errs = append(errs, fmt.Errorf("player marks and the empty mark must differ, got %q, %q and %q",
			c.Player1.Mark, c.Player2.Mark, c.Board.Empty))
	}
	if !lo.Contains([]string{c.Player1.Mark, c.Player2.Mark}, c.Game.Start) {
		errs = append(errs, fmt.Errorf("game.start must be one of the player marks, got %q", c.Game.Start))
	}

	for key, player := range map[string]PlayerConfig{"player1": c.Player1, "player2": c.Player2} {
		if !lo.Contains(playerTypes, player.Type) {
			errs = append(errs, fmt.Errorf("%s.type must be one of %v, got %q", key, playerTypes, player.Type))
		}
	}

	if len(c.Board.Position) > 0 && len(c.Board.Empty) == 1 {
		if position, err := c.Position(); err != nil {
			errs = append(errs, err)
		} else if position.Size() != c.Board.Size {
			errs = append(errs, fmt.Errorf("board.position has %d rows, want %d", position.Size(), c.Board.Size))
		}
	}
	return errors.Join(errs...)
}

func (c Config) EmptyMark() game.Mark {
	return game.Mark(c.Board.Empty[0])
}

func (p PlayerConfig) MarkValue() game.Mark {
	return game.Mark(p.Mark[0])
}

func (p PlayerConfig) IsHuman() bool {
	return p.Type == "human"
}

func (c Config) StartMark() game.Mark {
	return game.Mark(c.Game.Start[0])
}

// Position returns the configured starting grid, or nil for a clear one.
func (c Config) Position() (*game.Grid, error) {
	if len(c.Board.Position) == 0 {
		return nil, nil
	}
	position, err := game.ParseGrid(c.Board.Position, c.EmptyMark())
	if err != nil {
		return nil, fmt.Errorf("board.position: %w", err)
	}
	return position, nil
}

func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.AI.TimeLimit) * time.Millisecond
}

func (c Config) Sleep() time.Duration {
	return time.Duration(c.Debug.Sleep) * time.Millisecond
}

func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Debug.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// SearchConfig is the searcher setup for the contestant playing ai against opp.
func (c Config) SearchConfig(ai, opp game.Mark) searcher.Config {
	return searcher.Config{
		AIMark:       ai,
		OpponentMark: opp,
		EmptyMark:    c.EmptyMark(),
		Size:         c.Board.Size,
		RunLength:    c.Game.WinLength,
		MaxDepth:     c.AI.Depth,
		TimeBudget:   c.TimeBudget(),
		Verbose:      c.AI.ShowThinking,
	}
}
