package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/jukebox/internal/formatter"
	"github.com/desertthunder/jukebox/internal/repositories"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// History prints recent plays or per-song play counts from the history database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.History
	if _, err := os.Stat(cfg.Path); err != nil {
		return fmt.Errorf("%w: no history database at %s (enable [history] and run 'jukebox setup database')",
			shared.ErrMissingConfig, cfg.Path)
	}

	db, err := shared.OpenHistoryDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	repo := repositories.NewPlayRepository(db)

	if cmd.Bool("clear") {
		n, err := repo.Clear()
		if err != nil {
			return err
		}
		r.logger.Info("cleared play history", "rows", n)
		return r.writePlain("Removed %d plays\n", n)
	}

	limit := int(cmd.Int("limit"))
	if cmd.Bool("top") {
		counts, err := repo.CountByTrack(limit)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(counts, true)
		}
		out, err := formatter.PlayCountsToText(counts)
		if err != nil {
			return err
		}
		return r.write(out)
	}

	plays, err := repo.Recent(limit)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(plays, true)
	}
	out, err := formatter.PlaysToText(plays)
	if err != nil {
		return err
	}
	return r.write(out)
}
