package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// MaxFeedLimit is the Spotify page cap for the recently-played endpoint.
const MaxFeedLimit = 50

// RecentlyPlayed fetches one page of the user's most recent plays.
// The limit is clamped to 1..MaxFeedLimit. Items outside the API's
// lookback window are unreachable; this is a poll, not a backfill.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]Play, error) {
	if limit <= 0 || limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(limit)})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	plays := make([]Play, 0, len(items))
	for _, item := range items {
		plays = append(plays, convertPlay(item))
	}
	return plays, nil
}

// convertPlay maps a feed item to a Play, keeping the first credited artist.
func convertPlay(item spotify.RecentlyPlayedItem) Play {
	play := Play{
		PlayedAt:    item.PlayedAt,
		TrackID:     item.Track.ID.String(),
		TrackName:   item.Track.Name,
		DurationMs:  int(item.Track.Duration),
		AlbumID:     item.Track.Album.ID.String(),
		AlbumName:   item.Track.Album.Name,
		ReleaseDate: item.Track.Album.ReleaseDate,
		AlbumImages: convertImages(item.Track.Album.Images),
	}
	if len(item.Track.Artists) > 0 {
		play.ArtistID = item.Track.Artists[0].ID.String()
		play.ArtistName = item.Track.Artists[0].Name
	}
	return play
}

func convertImages(images []spotify.Image) []Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]Image, len(images))
	for i, img := range images {
		out[i] = Image{
			URL:    img.URL,
			Height: int(img.Height),
			Width:  int(img.Width),
		}
	}
	return out
}
