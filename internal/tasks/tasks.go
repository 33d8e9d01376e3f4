package tasks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
)

// Sink receives the collections produced by a successful fetch. Each call replaces the collection wholesale.
type Sink interface {
	SetSongs(tracks []models.Track)
	SetAlbums(albums []models.Album)
}

// LoadResult summarizes a single [Loader.Load] call.
type LoadResult struct {
	Songs     int   // Number of songs handed to the sink
	Albums    int   // Number of albums handed to the sink
	SongsErr  error // Fetch error for songs, if any
	AlbumsErr error // Fetch error for albums, if any
	Stale     bool  // At least one result was discarded
}

// Applied reports whether any collection reached the sink.
func (r LoadResult) Applied() bool {
	return !r.Stale && (r.SongsErr == nil || r.AlbumsErr == nil)
}

// Loader fetches the catalog and feeds it into a [Sink].
type Loader struct {
	catalog    services.Catalog
	sink       Sink
	logger     *log.Logger
	generation atomic.Uint64
	mu         sync.Mutex // serializes the staleness check with the sink call
}

// NewLoader creates a Loader. A nil logger falls back to [shared.NewLogger] on stderr.
func NewLoader(catalog services.Catalog, sink Sink, logger *log.Logger) *Loader {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Loader{catalog: catalog, sink: sink, logger: shared.WithLogger(logger, "component", "loader")}
}

// sendProgress sends a progress update through the channel without blocking.
func (l *Loader) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load runs both catalog requests concurrently and blocks until both have settled.
//
// Errors are logged and reported in the result but never returned: a failed load is not fatal.
func (l *Loader) Load(ctx context.Context, progress chan<- ProgressUpdate) LoadResult {
	var result LoadResult
	if l.catalog == nil || l.sink == nil {
		result.SongsErr = shared.ErrServiceUnavailable
		result.AlbumsErr = shared.ErrServiceUnavailable
		l.logger.Error("catalog load skipped", "error", shared.ErrServiceUnavailable)
		return result
	}

	gen := l.generation.Add(1)
	const total = 2
	var (
		wg   sync.WaitGroup
		rmu  sync.Mutex
		done int
	)

	finish := func(phase Phase, o outcome) {
		rmu.Lock()
		done++
		step := done
		switch {
		case o.stale:
			result.Stale = true
		case o.err != nil && phase == FetchSongs:
			result.SongsErr = o.err
		case o.err != nil:
			result.AlbumsErr = o.err
		case phase == FetchSongs:
			result.Songs = o.count
		default:
			result.Albums = o.count
		}
		rmu.Unlock()

		switch {
		case o.stale:
			l.sendProgress(progress, discardedUpdate(step, total, phase.noun()))
		case o.err != nil:
			l.sendProgress(progress, fetchFailedUpdate(phase, step, total, o.err))
		default:
			l.sendProgress(progress, fetchedUpdate(phase, step, total, o.count))
		}
	}

	wg.Add(total)
	go func() {
		defer wg.Done()
		finish(FetchSongs, fetch(ctx, l, gen, FetchSongs, l.catalog.ListSongs, l.sink.SetSongs))
	}()
	go func() {
		defer wg.Done()
		finish(FetchAlbums, fetch(ctx, l, gen, FetchAlbums, l.catalog.ListAlbums, l.sink.SetAlbums))
	}()

	wg.Wait()
	l.sendProgress(progress, completeUpdate(result))
	return result
}

// Generation returns the number of loads started so far.
func (l *Loader) Generation() uint64 { return l.generation.Load() }

type outcome struct {
	count int
	err   error
	stale bool
}

func fetch[T any](ctx context.Context, l *Loader, gen uint64, phase Phase, call func(context.Context) ([]T, error), set func([]T)) outcome {
	items, err := call(ctx)
	if err != nil {
		if ctx.Err() != nil {
			l.logger.Debug("fetch abandoned", "collection", phase.noun(), "error", err)
			return outcome{stale: true}
		}
		l.logger.Error("failed to fetch "+phase.noun(), "error", err)
		return outcome{err: err}
	}
	if !l.apply(ctx, gen, phase.noun(), func() { set(items) }) {
		return outcome{stale: true}
	}
	return outcome{count: len(items)}
}

// apply hands a result to the sink unless ctx is done or a newer load has started.
func (l *Loader) apply(ctx context.Context, gen uint64, what string, set func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		l.logger.Debug("discarding fetch result", "collection", what, "reason", err)
		return false
	}
	if current := l.generation.Load(); current != gen {
		l.logger.Debug("discarding fetch result", "collection", what, "generation", gen, "current", current)
		return false
	}

	set()
	return true
}
