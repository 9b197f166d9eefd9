package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lpdglow/internal/app"
	"github.com/coreman2200/lpdglow/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := configure(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Error().Err(err).Msg("bad configuration")
		return 2
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := log.Logger.Level(level)

	core, err := app.InitCore(cfg, app.Options{Stdin: os.Stdin, Log: logger})
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Str("device", cfg.Device).Msg("device init failed")
		return 1
	}

	// ---- Run until the effect ends or we are told to stop ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := core.Run(ctx)
	if err := core.Close(); err != nil {
		logger.Warn().Err(err).Msg("shutdown")
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("effect stopped")
		return 1
	}
	return 0
}

// configure resolves defaults < config file < environment < flags and
// validates the result.
func configure(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("lpdglow", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg := config.Default()
	if flags.ConfigPath != "" {
		c, err := config.Load(flags.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(flags.EnvFile); err != nil {
		return nil, err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
