package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// ArtistDetail resolves an artist's genres and images.
// Results are cached for the lifetime of the client.
func (c *Client) ArtistDetail(ctx context.Context, id string) (*ArtistDetail, error) {
	c.artistMu.RLock()
	if cached, ok := c.artistCache[id]; ok {
		c.artistMu.RUnlock()
		return &cached, nil
	}
	c.artistMu.RUnlock()

	full, err := c.api.GetArtist(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("fetching artist %s: %w", id, err)
	}

	detail := ArtistDetail{
		Genres: full.Genres,
		Images: convertImages(full.Images),
	}

	c.artistMu.Lock()
	c.artistCache[id] = detail
	c.artistMu.Unlock()

	return &detail, nil
}
