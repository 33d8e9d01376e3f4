// API service for the catalog backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:4000"
	SongListPath   = "/api/song/list"
	AlbumListPath  = "/api/album/list"
)

var _ Catalog = (*APIService)(nil)

// APIService talks to the catalog backend over HTTP.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// APIOption configures an [APIService].
type APIOption func(*APIService)

// WithRateLimit paces requests to rps per second with a burst of one. Zero or negative disables pacing.
func WithRateLimit(rps float64) APIOption {
	return func(a *APIService) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewAPIService creates a new API service instance for the catalog backend.
func NewAPIService(baseURL string, client *http.Client, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the backend base URL without a trailing slash.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// ListSongs calls GET /api/song/list.
func (a *APIService) ListSongs(ctx context.Context) ([]models.Track, error) {
	var body songListResponse
	if err := a.getJSON(ctx, SongListPath, &body); err != nil {
		return nil, err
	}
	if failed(body.Success) {
		return nil, fmt.Errorf("%w: song list: %s", shared.ErrAPIRequest, body.Message)
	}
	if body.Songs == nil {
		body.Songs = []models.Track{}
	}
	return body.Songs, nil
}

// ListAlbums calls GET /api/album/list.
func (a *APIService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	var body albumListResponse
	if err := a.getJSON(ctx, AlbumListPath, &body); err != nil {
		return nil, err
	}
	if failed(body.Success) {
		return nil, fmt.Errorf("%w: album list: %s", shared.ErrAPIRequest, body.Message)
	}
	if body.Albums == nil {
		body.Albums = []models.Album{}
	}
	return body.Albums, nil
}

// Get performs a GET request to the specified path and returns the raw response.
//
// Unlike the typed list calls it does not treat non-2xx statuses as errors.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	resp, err := a.do(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func (a *APIService) getJSON(ctx context.Context, path string, result any) error {
	resp, err := a.do(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%w: %s (status %d): %s", shared.ErrAPIRequest, path, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %w", shared.ErrAPIRequest, path, err)
	}
	return nil
}

func (a *APIService) do(ctx context.Context, path string) (*http.Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", shared.ErrAPIRequest, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	return resp, nil
}
