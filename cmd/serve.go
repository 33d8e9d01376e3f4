package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/jukebox/internal/library"
	"github.com/desertthunder/jukebox/internal/server"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	shutdownTimeout = 5 * time.Second
	watchDebounce   = 250 * time.Millisecond
)

// fixtureSource loads the served catalog from a JSON file or by scanning a music directory.
type fixtureSource struct {
	path     string
	mediaDir string
	load     func() (*server.Fixture, error)
}

func (r *Runner) fixtureSource(cmd *cli.Command) (*fixtureSource, error) {
	path, dir := cmd.StringArg("path"), cmd.String("library")
	switch {
	case path != "" && dir != "":
		return nil, fmt.Errorf("%w: pass a fixture path or --library, not both", shared.ErrInvalidArgument)
	case path != "":
		return &fixtureSource{path: path, load: func() (*server.Fixture, error) { return server.LoadFixture(path) }}, nil
	case dir != "":
		opts := library.Options{
			BaseURL: publicURL(cmd.String("public-url"), cmd.String("addr")) + strings.TrimSuffix(server.MediaPath, "/"),
			Logger:  r.logger,
		}
		load := func() (*server.Fixture, error) {
			songs, albums, err := library.Scan(dir, opts)
			if err != nil {
				return nil, err
			}
			return &server.Fixture{Songs: songs, Albums: albums}, nil
		}
		return &fixtureSource{path: dir, mediaDir: dir, load: load}, nil
	default:
		return nil, fmt.Errorf("%w: fixture path or --library", shared.ErrMissingArgument)
	}
}

// publicURL is the origin clients use to reach the fixture server.
func publicURL(explicit, addr string) string {
	if explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// ServeFixture serves a catalog fixture until ctx is cancelled.
func (r *Runner) ServeFixture(ctx context.Context, cmd *cli.Command) error {
	source, err := r.fixtureSource(cmd)
	if err != nil {
		return err
	}

	id, secret := cmd.String("client-id"), cmd.String("client-secret")
	if (id == "") != (secret == "") {
		return fmt.Errorf("%w: --client-id and --client-secret must be set together", shared.ErrInvalidArgument)
	}

	fixture, err := source.load()
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "fixture")
	router, catalog := server.NewFixtureRouter(fixture, server.FixtureOptions{
		Delay:        cmd.Duration("delay"),
		ClientID:     id,
		ClientSecret: secret,
		TokenTTL:     cmd.Duration("token-ttl"),
		MediaDir:     source.mediaDir,
		Logger:       logger,
	})

	if cmd.Bool("watch") {
		watcher, err := server.NewWatcher(logger, source.path)
		if err != nil {
			return err
		}
		go watcher.Run(ctx, watchDebounce, func() {
			f, err := source.load()
			if err != nil {
				logger.Error("failed to reload fixture, keeping previous", "error", err)
				return
			}
			catalog.SetFixture(f)
			logger.Info("fixture reloaded", "songs", len(f.Songs), "albums", len(f.Albums))
		})
	}

	srv := &http.Server{
		Addr:              cmd.String("addr"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return r.serve(ctx, srv, len(fixture.Songs), len(fixture.Albums))
}

func (r *Runner) serve(ctx context.Context, srv *http.Server, songs, albums int) error {
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("serving fixture", "addr", srv.Addr, "songs", songs, "albums", albums)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("fixture server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down fixture server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down fixture server: %w", err)
	}
	return nil
}
