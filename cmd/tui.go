package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jukebox/internal/app"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/desertthunder/jukebox/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := cmd.String("log-file")
	if logPath == "" {
		logPath = r.config.Log.File
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevelString(fileLogger, r.config.Log.Level); err != nil {
		fileLogger.Warn("ignoring log level", "error", err)
	}
	r.SetLogger(fileLogger)

	state, err := app.New(ctx, app.Options{
		Config:  r.config,
		Catalog: r.catalog,
		Logger:  fileLogger,
	})
	if err != nil {
		return err
	}
	defer state.Close()

	model := ui.NewModel(state, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
