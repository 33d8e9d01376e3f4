// package app wires the catalog loader, playback controller and play history into one session
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/player"
	"github.com/desertthunder/jukebox/internal/repositories"
	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/desertthunder/jukebox/internal/tasks"
)

var _ tasks.Sink = (*State)(nil)

// Options contains the dependencies for a [State]. Zero values are filled from Config.
type Options struct {
	Config    *shared.Config
	Catalog   services.Catalog
	Element   player.Element
	History   *sql.DB // opened from Config.History when nil and history is enabled
	Logger    *log.Logger
	AfterFunc player.AfterFunc
}

// State is the single owner of a player session: the controller, the album collection,
// the load context and the optional play history.
type State struct {
	ctx    context.Context
	cancel context.CancelFunc

	controller *player.Controller
	element    player.Element
	loader     *tasks.Loader
	history    *repositories.PlayRepository
	db         *sql.DB
	config     *shared.Config
	logger     *log.Logger

	mu     sync.RWMutex
	albums []models.Album

	closeOnce sync.Once
	closeErr  error
}

// New builds a State. The parent context bounds every catalog load.
func New(parent context.Context, opts Options) (*State, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	cfg := opts.Config

	if opts.Catalog == nil {
		opts.Catalog = services.NewAPIServiceFromConfig(parent, cfg.API)
	}
	if opts.Element == nil {
		opts.Element = player.NewClockElement(cfg.Player.TickInterval)
	}

	db := opts.History
	if db == nil && cfg.History.Enabled {
		var err error
		if db, err = shared.OpenHistoryDatabase(cfg.History); err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}

	s := &State{
		element: opts.Element,
		db:      db,
		config:  cfg,
		logger:  opts.Logger,
		albums:  []models.Album{},
	}
	s.ctx, s.cancel = context.WithCancel(parent)

	popts := player.Options{
		PlayDelay: cfg.Player.PlayDelay,
		Logger:    opts.Logger,
		AfterFunc: opts.AfterFunc,
	}
	if db != nil {
		s.history = repositories.NewPlayRepository(db)
		popts.Recorder = s.history
	}

	s.controller = player.NewController(opts.Element, popts)
	s.loader = tasks.NewLoader(opts.Catalog, s, opts.Logger)
	return s, nil
}

// SetSongs replaces the song catalog. Called by the loader.
func (s *State) SetSongs(tracks []models.Track) {
	s.controller.SetCatalog(tracks)
}

// SetAlbums replaces the album collection. Called by the loader.
func (s *State) SetAlbums(albums []models.Album) {
	cp := make([]models.Album, len(albums))
	copy(cp, albums)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums = cp
}

// Load fetches the catalog under the session context. A load that outlives [State.Close] is discarded.
func (s *State) Load(progress chan<- tasks.ProgressUpdate) tasks.LoadResult {
	return s.loader.Load(s.ctx, progress)
}

// Songs returns the current song catalog in server order.
func (s *State) Songs() []models.Track {
	return s.controller.Catalog().Tracks()
}

// Albums returns a copy of the album collection.
func (s *State) Albums() []models.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]models.Album, len(s.albums))
	copy(cp, s.albums)
	return cp
}

// AlbumTracks returns the songs belonging to the named album.
func (s *State) AlbumTracks(name string) []models.Track {
	return s.controller.Catalog().ByAlbum(name)
}

func (s *State) Controller() *player.Controller { return s.controller }

// History is nil unless play history is enabled.
func (s *State) History() *repositories.PlayRepository { return s.history }

func (s *State) Context() context.Context { return s.ctx }

// SeekStep is the relative seek distance for the arrow keys.
func (s *State) SeekStep() time.Duration {
	if s.config.Player.SeekStep <= 0 {
		return 5 * time.Second
	}
	return s.config.Player.SeekStep
}

// Close cancels in-flight loads, stops the controller and releases the element and database.
// Safe to call more than once.
func (s *State) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.controller.Close()

		var errs []error
		if err := s.element.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close element: %w", err))
		}
		if s.db != nil {
			if err := s.db.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close history: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
		s.logger.Debug("session closed")
	})
	return s.closeErr
}
