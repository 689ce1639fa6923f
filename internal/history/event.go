// Package history defines the listening-history row schema and the
// dedup-merge logic shared by both sinks.
package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Columns is the flat row schema, in file column order.
var Columns = []string{
	"played_at",
	"track_name",
	"track_id",
	"duration_ms",
	"artist_name",
	"artist_id",
	"artist_genres",
	"artist_img",
	"album_name",
	"album_id",
	"album_release_year",
	"album_label",
	"album_img",
}

// genreSeparator joins artist genres into a single cell and splits them back.
const genreSeparator = ", "

// PlayEvent is one record of a track played at a specific instant.
// PlayedAt is the natural key: unique across the full persisted history.
// Events are never updated or deleted once persisted.
type PlayEvent struct {
	PlayedAt         time.Time
	TrackName        string
	TrackID          string
	DurationMs       int
	ArtistName       string
	ArtistID         string
	ArtistGenres     []string
	ArtistImg        *string // mid-resolution thumbnail URL, nil if none
	AlbumName        string
	AlbumID          string
	AlbumReleaseYear string // 4-digit year derived from the release date
	AlbumLabel       *string
	AlbumImg         *string
}

// Key returns the dedup key: the play instant in UTC nanoseconds.
func (e PlayEvent) Key() int64 {
	return e.PlayedAt.UTC().UnixNano()
}

// Record maps the event to a row of cells matching Columns.
// Nil optional fields become empty cells.
func (e PlayEvent) Record() []string {
	return []string{
		e.PlayedAt.UTC().Format(time.RFC3339Nano),
		e.TrackName,
		e.TrackID,
		strconv.Itoa(e.DurationMs),
		e.ArtistName,
		e.ArtistID,
		strings.Join(e.ArtistGenres, genreSeparator),
		deref(e.ArtistImg),
		e.AlbumName,
		e.AlbumID,
		e.AlbumReleaseYear,
		deref(e.AlbumLabel),
		deref(e.AlbumImg),
	}
}

// ParseRecord converts a row of cells back into a PlayEvent.
func ParseRecord(record []string) (PlayEvent, error) {
	if len(record) != len(Columns) {
		return PlayEvent{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(record))
	}

	playedAt, err := time.Parse(time.RFC3339Nano, record[0])
	if err != nil {
		return PlayEvent{}, fmt.Errorf("parsing played_at %q: %w", record[0], err)
	}

	duration, err := strconv.Atoi(record[3])
	if err != nil {
		return PlayEvent{}, fmt.Errorf("parsing duration_ms %q: %w", record[3], err)
	}

	return PlayEvent{
		PlayedAt:         playedAt,
		TrackName:        record[1],
		TrackID:          record[2],
		DurationMs:       duration,
		ArtistName:       record[4],
		ArtistID:         record[5],
		ArtistGenres:     splitGenres(record[6]),
		ArtistImg:        optional(record[7]),
		AlbumName:        record[8],
		AlbumID:          record[9],
		AlbumReleaseYear: record[10],
		AlbumLabel:       optional(record[11]),
		AlbumImg:         optional(record[12]),
	}, nil
}

func splitGenres(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, genreSeparator)
}

func optional(cell string) *string {
	if cell == "" {
		return nil
	}
	return &cell
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
