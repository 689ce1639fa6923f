package csvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adelarosa/spotify-history-logger/internal/history"
)

func strPtr(s string) *string { return &s }

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "spotify_history.csv"))

	events, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if events != nil {
		t.Errorf("Load() = %v, want nil for missing file", events)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "spotify_history.csv"))

	saved := []history.PlayEvent{
		{
			PlayedAt:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			TrackName:        "Track, with comma",
			TrackID:          "t1",
			DurationMs:       201000,
			ArtistName:       "Artist",
			ArtistID:         "a1",
			ArtistGenres:     []string{"indie pop", "shoegaze"},
			ArtistImg:        strPtr("https://i.scdn.co/image/a"),
			AlbumName:        "Album",
			AlbumID:          "al1",
			AlbumReleaseYear: "2019",
			AlbumLabel:       strPtr("Subpop"),
			AlbumImg:         strPtr("https://i.scdn.co/image/b"),
		},
		{
			PlayedAt:   time.Date(2025, 3, 1, 10, 4, 0, 0, time.UTC),
			TrackName:  "Second",
			TrackID:    "t2",
			DurationMs: 180000,
			ArtistName: "Artist",
			ArtistID:   "a1",
			AlbumName:  "Album",
			AlbumID:    "al1",
		},
	}

	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded) != len(saved) {
		t.Fatalf("Load() returned %d events, want %d", len(loaded), len(saved))
	}
	for i := range saved {
		if !loaded[i].PlayedAt.Equal(saved[i].PlayedAt) {
			t.Errorf("event %d PlayedAt = %v, want %v", i, loaded[i].PlayedAt, saved[i].PlayedAt)
		}
		if loaded[i].TrackName != saved[i].TrackName {
			t.Errorf("event %d TrackName = %q, want %q", i, loaded[i].TrackName, saved[i].TrackName)
		}
	}
	if len(loaded[0].ArtistGenres) != 2 || loaded[0].ArtistGenres[1] != "shoegaze" {
		t.Errorf("ArtistGenres = %v, want [indie pop shoegaze]", loaded[0].ArtistGenres)
	}
	if loaded[1].AlbumLabel != nil {
		t.Errorf("AlbumLabel = %q, want nil", *loaded[1].AlbumLabel)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "history", "spotify_history.csv"))

	first := []history.PlayEvent{
		{PlayedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), TrackName: "a", DurationMs: 1},
	}
	second := []history.PlayEvent{
		{PlayedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), TrackName: "a", DurationMs: 1},
		{PlayedAt: time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC), TrackName: "b", DurationMs: 2},
	}

	if err := store.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("Load() returned %d events after rewrite, want 2", len(loaded))
	}
}

func TestLoadRejectsWrongHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not a history file",
			content: "name,age,score\nAlice,30,88.5\n",
		},
		{
			name:    "reordered columns",
			content: "track_name,played_at,track_id,duration_ms,artist_name,artist_id,artist_genres,artist_img,album_name,album_id,album_release_year,album_label,album_img\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "spotify_history.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}

			if _, err := New(path).Load(); err == nil {
				t.Error("Load() error = nil, want header validation error")
			}
		})
	}
}

func TestSaveLeavesOnlyHistoryFile(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "spotify_history.csv"))

	events := []history.PlayEvent{
		{PlayedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), TrackName: "a", DurationMs: 1},
	}
	if err := store.Save(events); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(events); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "spotify_history.csv" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contains %v, want only spotify_history.csv", names)
	}
}
