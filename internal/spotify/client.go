// Package spotify provides a wrapper around the Spotify Web API for the
// history logger: the recently-played feed plus the artist and album
// lookups used to enrich each play.
package spotify

import (
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/zmb3/spotify/v2"
)

const apiBaseURL = "https://api.spotify.com/v1"

// Client wraps the Spotify API with convenience methods and per-run
// lookup caches, so a batch full of plays by the same artist costs one
// artist request.
type Client struct {
	api  *spotify.Client
	rest *resty.Client

	artistMu    sync.RWMutex
	artistCache map[string]ArtistDetail

	albumMu    sync.RWMutex
	albumCache map[string]AlbumDetail
}

// New creates a Client from an authenticated HTTP client.
func New(httpClient *http.Client) *Client {
	return &Client{
		api:         spotify.New(httpClient, spotify.WithRetry(true)),
		rest:        resty.NewWithClient(httpClient).SetBaseURL(apiBaseURL),
		artistCache: make(map[string]ArtistDetail),
		albumCache:  make(map[string]AlbumDetail),
	}
}
