package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
)

// Fixture is the on-disk catalog served by [CatalogHandler].
type Fixture struct {
	Songs  []models.Track `json:"songs"`
	Albums []models.Album `json:"albums"`
}

// LoadFixture reads a fixture JSON file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: fixture %s: %w", shared.ErrInvalidInput, path, err)
	}
	if f.Songs == nil {
		f.Songs = []models.Track{}
	}
	if f.Albums == nil {
		f.Albums = []models.Album{}
	}
	return &f, nil
}

// CatalogHandler serves the song and album lists from a [Fixture].
type CatalogHandler struct {
	mu      sync.RWMutex
	fixture *Fixture
	delay   time.Duration
	fail    bool
}

// NewCatalogHandler serves f, sleeping delay before each response.
func NewCatalogHandler(f *Fixture, delay time.Duration) *CatalogHandler {
	return &CatalogHandler{fixture: f, delay: delay}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{services.SongListPath, services.AlbumListPath}
}

// SetFixture swaps the served catalog.
func (h *CatalogHandler) SetFixture(f *Fixture) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fixture = f
}

// SetFailing makes every response a success:false envelope.
func (h *CatalogHandler) SetFailing(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail = fail
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-r.Context().Done():
			return
		}
	}

	h.mu.RLock()
	fixture, fail := h.fixture, h.fail
	h.mu.RUnlock()

	if fail {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "fixture configured to fail"})
		return
	}

	switch r.URL.Path {
	case services.SongListPath:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "songs": fixture.Songs})
	case services.AlbumListPath:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "albums": fixture.Albums})
	default:
		http.NotFound(w, r)
	}
}

// Health reports liveness.
func Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
