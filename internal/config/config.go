// Package config reads the logger's configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"
	DefaultCSVPath     = "spotify_history.csv"
	DefaultFetchLimit  = 50
)

// Config holds everything a run needs. DatabaseURL is optional: without it
// a run updates only the CSV mirror.
type Config struct {
	SpotifyID     string
	SpotifySecret string
	RedirectURI   string
	TokenBlob     string // cached OAuth token JSON, injected as a scheduler secret
	DatabaseURL   string
	CSVPath       string
	FetchLimit    int
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SpotifyID:     os.Getenv("SPOTIFY_ID"),
		SpotifySecret: os.Getenv("SPOTIFY_SECRET"),
		RedirectURI:   getenv("SPOTIFY_REDIRECT_URI", DefaultRedirectURI),
		TokenBlob:     os.Getenv("SPOTIFY_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		CSVPath:       getenv("HISTORY_CSV", DefaultCSVPath),
		FetchLimit:    getenvLimit("FETCH_LIMIT", DefaultFetchLimit),
	}
}

func getenv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getenvLimit parses a fetch limit, falling back to the default when the
// value is missing, malformed, or outside the API's 1..50 page range.
func getenvLimit(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > DefaultFetchLimit {
		return defaultValue
	}
	return n
}
