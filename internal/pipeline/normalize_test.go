package pipeline

import (
	"testing"
	"time"

	"github.com/adelarosa/spotify-history-logger/internal/spotify"
)

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		name        string
		releaseDate string
		want        string
	}{
		{name: "full date", releaseDate: "2007-10-10", want: "2007"},
		{name: "year and month", releaseDate: "2007-10", want: "2007"},
		{name: "year only", releaseDate: "2007", want: "2007"},
		{name: "empty", releaseDate: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := releaseYear(tt.releaseDate); got != tt.want {
				t.Errorf("releaseYear(%q) = %q, want %q", tt.releaseDate, got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	playedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	label := "XL Recordings"

	play := spotify.Play{
		PlayedAt:    playedAt,
		TrackID:     "t1",
		TrackName:   "Weird Fishes",
		DurationMs:  318000,
		ArtistID:    "a1",
		ArtistName:  "Radiohead",
		AlbumID:     "al1",
		AlbumName:   "In Rainbows",
		ReleaseDate: "2007-10-10",
		AlbumImages: []spotify.Image{
			{URL: "https://i.scdn.co/image/big"},
			{URL: "https://i.scdn.co/image/mid"},
		},
	}
	artist := &spotify.ArtistDetail{
		Genres: []string{"art rock", "alternative rock"},
		Images: []spotify.Image{
			{URL: "https://i.scdn.co/image/artist-big"},
			{URL: "https://i.scdn.co/image/artist-mid"},
			{URL: "https://i.scdn.co/image/artist-small"},
		},
	}
	album := &spotify.AlbumDetail{Label: &label}

	event := newEvent(play, artist, album)

	if !event.PlayedAt.Equal(playedAt) {
		t.Errorf("PlayedAt = %v, want %v", event.PlayedAt, playedAt)
	}
	if event.AlbumReleaseYear != "2007" {
		t.Errorf("AlbumReleaseYear = %q, want 2007", event.AlbumReleaseYear)
	}
	if event.AlbumImg == nil || *event.AlbumImg != "https://i.scdn.co/image/mid" {
		t.Errorf("AlbumImg = %v, want the mid album variant", event.AlbumImg)
	}
	if event.ArtistImg == nil || *event.ArtistImg != "https://i.scdn.co/image/artist-mid" {
		t.Errorf("ArtistImg = %v, want the mid artist variant", event.ArtistImg)
	}
	if len(event.ArtistGenres) != 2 || event.ArtistGenres[0] != "art rock" {
		t.Errorf("ArtistGenres = %v", event.ArtistGenres)
	}
	if event.AlbumLabel == nil || *event.AlbumLabel != label {
		t.Errorf("AlbumLabel = %v, want %q", event.AlbumLabel, label)
	}
}

func TestNewEventDegraded(t *testing.T) {
	play := spotify.Play{
		PlayedAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		TrackID:    "t1",
		TrackName:  "Weird Fishes",
		ArtistID:   "a1",
		ArtistName: "Radiohead",
		AlbumID:    "al1",
	}

	event := newEvent(play, nil, nil)

	if event.ArtistGenres != nil {
		t.Errorf("ArtistGenres = %v, want nil", event.ArtistGenres)
	}
	if event.ArtistImg != nil {
		t.Errorf("ArtistImg = %v, want nil", event.ArtistImg)
	}
	if event.AlbumLabel != nil {
		t.Errorf("AlbumLabel = %v, want nil", event.AlbumLabel)
	}
	// Feed-sourced fields survive even with no enrichment.
	if event.TrackName != "Weird Fishes" || event.ArtistName != "Radiohead" {
		t.Errorf("feed fields lost: %+v", event)
	}
}
