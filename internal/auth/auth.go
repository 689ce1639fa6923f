package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	// DefaultRedirectURI uses explicit IPv4 loopback as required by Spotify.
	// See: https://developer.spotify.com/documentation/web-api/concepts/redirect-uri
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"
	callbackTimeout    = 2 * time.Minute
)

var (
	// ErrMissingCredentials is returned when the client ID or secret is empty.
	ErrMissingCredentials = errors.New("missing Spotify client ID or client secret")

	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Config holds everything needed to authenticate.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string // defaults to DefaultRedirectURI
	TokenBlob    string // optional token JSON used to seed an empty cache
	CachePath    string // optional token cache override
}

// Authenticator handles Spotify OAuth2 authentication.
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	cache       *TokenCache
	redirectURI string
}

// New creates an Authenticator from the given configuration.
// Returns ErrMissingCredentials if the client ID or secret is empty.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	var cache *TokenCache
	if cfg.CachePath != "" {
		cache = NewTokenCache(cfg.CachePath)
	} else {
		var err error
		cache, err = DefaultTokenCache()
		if err != nil {
			return nil, fmt.Errorf("creating token cache: %w", err)
		}
	}

	if cfg.TokenBlob != "" {
		if err := cache.Seed(cfg.TokenBlob); err != nil {
			return nil, fmt.Errorf("seeding token cache: %w", err)
		}
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(spotifyauth.ScopeUserReadRecentlyPlayed),
	)

	return &Authenticator{
		auth:        auth,
		cache:       cache,
		redirectURI: redirectURI,
	}, nil
}

// Authenticate returns an authenticated HTTP client for the Spotify Web
// API. It first checks for a cached token and uses it if valid or
// refreshable; otherwise it runs the full OAuth flow. In a scheduled run
// the cache is expected to be seeded, so the interactive path is only
// reached on a fresh machine.
func (a *Authenticator) Authenticate(ctx context.Context) (*http.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading cached token: %w", err)
	}

	if token != nil {
		// oauth2 auto-refreshes through this client as needed.
		httpClient := a.auth.Client(ctx, token)
		api := spotify.New(httpClient, spotify.WithRetry(true))

		// Verify the token works with a cheap API call.
		if _, err := api.CurrentUser(ctx); err == nil {
			// Persist a refreshed token so the next run skips the refresh.
			if newToken, tokenErr := api.Token(); tokenErr == nil && newToken.AccessToken != token.AccessToken {
				_ = a.cache.Save(newToken)
			}
			return httpClient, nil
		}

		fmt.Println("Cached token invalid, starting new authentication...")
	}

	return a.runOAuthFlow(ctx)
}

// runOAuthFlow performs the full OAuth authorization code flow, serving
// the callback on the configured redirect URI.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*http.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	callback, err := url.Parse(a.redirectURI)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URI: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	router := chi.NewRouter()
	router.Get(callback.Path, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})

	server := &http.Server{
		Addr:    callback.Host,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	authURL := a.auth.AuthURL(state)
	fmt.Println("\nTo authenticate, open this URL in your browser:")
	fmt.Println(authURL)
	fmt.Println("\nWaiting for authentication...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
		// Success
	case err := <-errCh:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-time.After(callbackTimeout):
		_ = server.Shutdown(ctx)
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		_ = server.Shutdown(ctx)
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := a.cache.Save(token); err != nil {
		// Auth succeeded; losing the cache only costs the next run a re-auth.
		fmt.Printf("Warning: failed to cache token: %v\n", err)
	}

	return a.auth.Client(ctx, token), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		errCh <- ErrStateMismatch
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		errCh <- fmt.Errorf("spotify auth error: %s", errMsg)
		return
	}

	token, err := a.auth.Token(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		errCh <- fmt.Errorf("exchanging code for token: %w", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)

	tokenCh <- token
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}
