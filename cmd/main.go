package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env", "error", err)
	}

	config := loadConfig(logger, "config.toml")
	config.ApplyEnv(nil)
	if err := shared.SetLogLevelString(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "jukebox",
		Usage:    "Play a remote song catalog from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

// loadConfig reads path when it exists and falls back to the embedded defaults otherwise.
func loadConfig(logger *log.Logger, path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig()
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}
	return config
}
