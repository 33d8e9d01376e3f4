package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("✓ Wrote %s\n", configPath)
}

// SetupDatabase initializes the play history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using current settings", "error", err)
			config = r.config
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", config.History.Path)

	db, err := shared.NewDatabase(config.History.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.History.MaxOpenConns, config.History.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.History.Path)
	if !config.History.Enabled {
		r.writePlain("Play history is disabled; set [history] enabled = true in %s to record plays\n", configPath)
	}
	return nil
}
