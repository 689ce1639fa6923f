package spotify

import (
	"context"
	"fmt"
)

// albumResponse is the subset of the full album object the feed payload
// does not already carry.
type albumResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// AlbumDetail resolves the album fields absent from the feed's embedded
// album object, currently just the label. Results are cached for the
// lifetime of the client.
func (c *Client) AlbumDetail(ctx context.Context, id string) (*AlbumDetail, error) {
	c.albumMu.RLock()
	if cached, ok := c.albumCache[id]; ok {
		c.albumMu.RUnlock()
		return &cached, nil
	}
	c.albumMu.RUnlock()

	var album albumResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&album).
		Get("/albums/{id}")
	if err != nil {
		return nil, fmt.Errorf("fetching album %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching album %s: %s", id, resp.Status())
	}

	var detail AlbumDetail
	if album.Label != "" {
		label := album.Label
		detail.Label = &label
	}

	c.albumMu.Lock()
	c.albumCache[id] = detail
	c.albumMu.Unlock()

	return &detail, nil
}
