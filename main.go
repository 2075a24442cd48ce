package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"kinrow/config"
	"kinrow/engine"
	"kinrow/experiments"
	"kinrow/game"
	"kinrow/gamemaster"
	"kinrow/player"
	"kinrow/render"
	"kinrow/searcher"
	"kinrow/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultConfigPath = "config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to the YAML config")
	experiment := flag.String("experiment", "", "Run an experiment instead of a game: budget or throughput")
	numGames := flag.Int("games", 0, "Games per experiment matchup (0 keeps the default)")
	outDir := flag.String("out", "", "Directory for experiment records (empty keeps the default)")
	logLevel := flag.String("log-level", "", "Log level, overrides the config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := loadConfig(*configPath, isFlagSet("config"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	level := cfg.LogLevel()
	if *logLevel != "" {
		if level, err = zerolog.ParseLevel(*logLevel); err != nil {
			log.Fatal().Err(err).Msg("invalid log level")
		}
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *experiment {
	case "":
		err = play(ctx, cfg)
	case "budget", "throughput":
		err = runExperiment(ctx, *experiment, *numGames, *outDir)
	default:
		err = fmt.Errorf("unknown experiment %q", *experiment)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// loadConfig falls back to the defaults only when the default path is missing.
func loadConfig(path string, explicit bool) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		log.Debug().Msgf("no %s found, using the default config", path)
		return config.Default(), nil
	}
	return cfg, err
}

func play(ctx context.Context, cfg config.Config) error {
	first, second := cfg.Player1.MarkValue(), cfg.Player2.MarkValue()

	var terminal *player.Terminal
	if cfg.Player1.IsHuman() || cfg.Player2.IsHuman() {
		var err error
		if terminal, err = player.NewTerminal(); err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer terminal.Close()
	}

	newContestant := func(p config.PlayerConfig, opp game.Mark) player.Contestant {
		if p.IsHuman() {
			return player.NewHuman(p.Name, p.MarkValue(), terminal, os.Stdout)
		}
		ab := searcher.NewAlphaBeta(cfg.SearchConfig(p.MarkValue(), opp), searcher.WithMetrics())
		return player.NewComputer(p.Name, p.MarkValue(), agent.NewEvaluationAgent(ab), cfg.Sleep())
	}
	contestants := []player.Contestant{
		newContestant(cfg.Player1, second),
		newContestant(cfg.Player2, first),
	}

	position, err := cfg.Position()
	if err != nil {
		return err
	}
	options := []engine.Option{
		engine.WithOutput(os.Stdout),
		engine.WithRenderer(render.NewRenderer(os.Stdout, first, second,
			render.WithColor(cfg.Game.Color),
			render.WithClearScreen(cfg.Debug.ClearConsole))),
		engine.WithPosition(position),
	}
	if cfg.AI.ShowThinking {
		options = append(options, engine.WithThinking())
	}

	master := gamemaster.NewLocalMaster(cfg.Board.Size, cfg.EmptyMark(), cfg.Game.WinLength, first, second)
	e := engine.NewLocalEngine(master, contestants, cfg.StartMark(), options...)
	if _, _, _, err := e.Run(ctx); err != nil {
		if errors.Is(err, player.ErrAborted) || errors.Is(err, context.Canceled) {
			log.Info().Msg("game aborted")
			return nil
		}
		return err
	}
	return nil
}

func runExperiment(ctx context.Context, name string, numGames int, outDir string) error {
	s := experiments.DefaultSettings()
	if numGames > 0 {
		s.NumGames = numGames
	}
	if outDir != "" {
		s.Dir = outDir
	}

	switch name {
	case "budget":
		report, err := experiments.RunBudgetExperiment(ctx, s)
		if err != nil {
			return err
		}
		log.Info().Msgf("records written to %s", report.Dir)
	case "throughput":
		dir, err := experiments.RunThroughputExperiment(ctx, s)
		if err != nil {
			return err
		}
		log.Info().Msgf("records written to %s", dir)
	}
	return nil
}
