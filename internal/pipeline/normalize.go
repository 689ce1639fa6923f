package pipeline

import (
	"github.com/adelarosa/spotify-history-logger/internal/history"
	"github.com/adelarosa/spotify-history-logger/internal/spotify"
)

// newEvent maps a play and its enrichment lookups into the flat row
// schema. Either lookup may be nil; the corresponding fields stay
// null/empty.
func newEvent(play spotify.Play, artist *spotify.ArtistDetail, album *spotify.AlbumDetail) history.PlayEvent {
	event := history.PlayEvent{
		PlayedAt:         play.PlayedAt,
		TrackName:        play.TrackName,
		TrackID:          play.TrackID,
		DurationMs:       play.DurationMs,
		ArtistName:       play.ArtistName,
		ArtistID:         play.ArtistID,
		AlbumName:        play.AlbumName,
		AlbumID:          play.AlbumID,
		AlbumReleaseYear: releaseYear(play.ReleaseDate),
		AlbumImg:         spotify.PickImage(play.AlbumImages),
	}

	if artist != nil {
		event.ArtistGenres = artist.Genres
		event.ArtistImg = spotify.PickImage(artist.Images)
	}
	if album != nil {
		event.AlbumLabel = album.Label
	}

	return event
}

// releaseYear extracts the 4-digit year from a release date. Spotify
// reports "2007", "2007-10" or "2007-10-10" depending on precision.
func releaseYear(releaseDate string) string {
	if len(releaseDate) > 4 {
		return releaseDate[:4]
	}
	return releaseDate
}
