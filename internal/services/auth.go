package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/jukebox/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewHTTPClient builds the client used by [APIService].
//
// With OAuth configured it returns a client-credentials client whose token requests and API
// calls both go through a base client honoring cfg.Timeout.
func NewHTTPClient(ctx context.Context, cfg shared.APIConfig) *http.Client {
	base := &http.Client{Timeout: cfg.Timeout}
	if !cfg.OAuth.Enabled() {
		return base
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		TokenURL:     cfg.OAuth.TokenURL,
		Scopes:       cfg.OAuth.Scopes,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = cfg.Timeout
	return client
}

// NewAPIServiceFromConfig wires [NewHTTPClient] and the configured rate limit into an [APIService].
func NewAPIServiceFromConfig(ctx context.Context, cfg shared.APIConfig) *APIService {
	return NewAPIService(cfg.BaseURL, NewHTTPClient(ctx, cfg), WithRateLimit(cfg.RateLimit))
}
