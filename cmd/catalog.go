package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/jukebox/internal/formatter"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/desertthunder/jukebox/internal/tasks"
	"github.com/urfave/cli/v3"
)

// collector is a [tasks.Sink] that keeps whatever the loader applies.
type collector struct {
	mu     sync.Mutex
	songs  []models.Track
	albums []models.Album
}

func (c *collector) SetSongs(tracks []models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.songs = tracks
}

func (c *collector) SetAlbums(albums []models.Album) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.albums = albums
}

// loadCatalog runs one catalog load, logging progress at debug level.
func (r *Runner) loadCatalog(ctx context.Context) (*collector, tasks.LoadResult) {
	sink := &collector{}
	loader := tasks.NewLoader(r.catalog, sink, r.logger)

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result := loader.Load(ctx, progress)
	close(progress)
	<-done
	return sink, result
}

// loadFailure returns the error that should abort a listing command, if any.
func loadFailure(ctx context.Context, what string, result tasks.LoadResult, err error) error {
	if result.Stale {
		return fmt.Errorf("%s load discarded: %w", what, context.Cause(ctx))
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", what, err)
	}
	return nil
}

// Songs prints the song catalog, optionally restricted to one album.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	sink, result := r.loadCatalog(ctx)
	if err := loadFailure(ctx, "songs", result, result.SongsErr); err != nil {
		return err
	}

	title := "Songs"
	songs := sink.songs
	if album := cmd.String("album"); album != "" {
		title = album
		songs = models.NewCatalog(songs).ByAlbum(album)
		if len(songs) == 0 {
			return fmt.Errorf("%w: no songs in album %q", shared.ErrTrackNotFound, album)
		}
	}

	r.logger.Info("listing songs", "count", len(songs))
	out, err := formatter.Tracks(format, title, songs, cmd.Bool("pretty"))
	if err != nil {
		return err
	}
	return r.write(out)
}

// Albums prints the album catalog.
func (r *Runner) Albums(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	sink, result := r.loadCatalog(ctx)
	if err := loadFailure(ctx, "albums", result, result.AlbumsErr); err != nil {
		return err
	}

	r.logger.Info("listing albums", "count", len(sink.albums))
	out, err := formatter.Albums(format, sink.albums, cmd.Bool("pretty"))
	if err != nil {
		return err
	}
	return r.write(out)
}
