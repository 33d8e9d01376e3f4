package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// FixtureOptions configures [NewFixtureRouter].
type FixtureOptions struct {
	Delay        time.Duration // artificial latency per catalog response
	ClientID     string        // with ClientSecret, protects the catalog with client-credentials tokens
	ClientSecret string
	TokenTTL     time.Duration
	MediaDir     string // when set, files under it are served at MediaPath without auth
	Logger       *log.Logger
}

// MediaPath is the route prefix for audio files served from [FixtureOptions.MediaDir].
const MediaPath = "/media/"

// NewFixtureRouter builds the development catalog API around f.
//
// The returned handler can be used to swap the fixture or force failures while serving.
func NewFixtureRouter(f *Fixture, opts FixtureOptions) (*BasicRouter, *CatalogHandler) {
	router := NewBasicRouter()
	if opts.Logger != nil {
		router.Use(Logging(opts.Logger))
	}

	catalog := NewCatalogHandler(f, opts.Delay)
	var guarded http.Handler = catalog

	if opts.ClientID != "" && opts.ClientSecret != "" {
		tokens := NewTokenHandler(opts.ClientID, opts.ClientSecret, opts.TokenTTL)
		router.Handler(tokens)
		guarded = tokens.Require()(catalog)
	}

	router.Handle(http.MethodGet, "/health", Health())
	if opts.MediaDir != "" {
		media := http.StripPrefix(strings.TrimSuffix(MediaPath, "/"), http.FileServer(http.Dir(opts.MediaDir)))
		router.Handle(http.MethodGet, MediaPath, media)
	}
	for _, route := range catalog.Routes() {
		router.Handle(http.MethodGet, route, guarded)
	}
	return router, catalog
}
