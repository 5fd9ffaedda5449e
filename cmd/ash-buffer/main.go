package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/Borislavv/go-ash-buffer"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/rs/zerolog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a yaml config; prompts interactively when empty")
		level      = flag.String("level", "debug", "log level: debug prints every push and pop")
	)
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		lvl = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "ashBuffer").
		Logger()

	cfg := loadConfig(*configPath, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = ashbuffer.Run(ctx, cfg, logger); err != nil {
		if errors.Is(err, ashbuffer.ErrShutdownTimeout) {
			logger.Warn().Err(err).Msg("forcing exit")
		} else {
			logger.Error().Err(err).Msg("run failed")
		}
		stop()
		os.Exit(1)
	}
}

// loadConfig never fails: unreadable files and bad answers fall back to defaults.
func loadConfig(path string, logger zerolog.Logger) *config.Config {
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("config is not loaded, using defaults")
			return config.Default()
		}
		return cfg
	}

	cfg, savePath, err := config.Prompt(os.Stdin, os.Stdout)
	if err != nil {
		logger.Warn().Err(err).Msg("prompt interrupted, using collected values")
	}
	if savePath != "" {
		if err = config.SaveConfig(savePath, cfg); err != nil {
			logger.Warn().Err(err).Msg("config is not saved")
		} else {
			_, _ = fmt.Fprintf(os.Stdout, "Configuration saved to %s\n", savePath)
		}
	}
	return cfg
}
