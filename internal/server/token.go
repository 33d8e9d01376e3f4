package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/jukebox/internal/shared"
	"golang.org/x/oauth2"
)

// TokenHandler issues client-credentials tokens and validates them on protected routes.
type TokenHandler struct {
	clientID     string
	clientSecret string
	ttl          time.Duration
	now          func() time.Time

	mu     sync.Mutex
	issued map[string]*oauth2.Token
}

// NewTokenHandler accepts the given client pair. Tokens expire after ttl.
func NewTokenHandler(clientID, clientSecret string, ttl time.Duration) *TokenHandler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenHandler{
		clientID:     clientID,
		clientSecret: clientSecret,
		ttl:          ttl,
		now:          time.Now,
		issued:       make(map[string]*oauth2.Token),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenHandler) Routes() []string {
	return []string{"/oauth/token"}
}

// ServeHTTP implements the token endpoint of the client-credentials grant.
//
// Credentials may arrive as HTTP basic auth or form fields; the oauth2 client tries both.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok {
		id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	if !h.matches(id, secret) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	token := &oauth2.Token{
		AccessToken: shared.GenerateID(),
		TokenType:   "Bearer",
		Expiry:      h.now().Add(h.ttl),
	}

	h.mu.Lock()
	h.prune()
	h.issued[token.AccessToken] = token
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_in":   int(h.ttl.Seconds()),
	})
}

// Require rejects requests without a live bearer token issued by h.
func (h *TokenHandler) Require() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !h.valid(r.Header.Get("Authorization")) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="jukebox"`)
				writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "missing or expired token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *TokenHandler) matches(id, secret string) bool {
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(h.clientID))
	secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(h.clientSecret))
	return idOK&secretOK == 1
}

// prune drops expired tokens. Callers hold h.mu.
func (h *TokenHandler) prune() {
	now := h.now()
	for value, token := range h.issued {
		if now.After(token.Expiry) {
			delete(h.issued, value)
		}
	}
}

func (h *TokenHandler) valid(header string) bool {
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	token, ok := h.issued[value]
	if !ok {
		return false
	}
	if h.now().After(token.Expiry) {
		delete(h.issued, value)
		return false
	}
	return true
}
