package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adelarosa/spotify-history-logger/internal/history"
)

// PlayRepository handles the spotify_recently_played table.
type PlayRepository struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS spotify_recently_played (
		played_at          timestamptz PRIMARY KEY,
		track_name         text NOT NULL,
		duration_ms        integer,
		track_id           text,
		artist_name        text,
		artist_id          text,
		artist_genres      text[],
		artist_img         text,
		album_name         text,
		album_id           text,
		album_release_year text,
		album_label        text,
		album_img          text
	)
`

const insertSQL = `
	INSERT INTO spotify_recently_played (
		played_at,
		track_name,
		duration_ms,
		track_id,
		artist_name,
		artist_id,
		artist_genres,
		artist_img,
		album_name,
		album_id,
		album_release_year,
		album_label,
		album_img
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (played_at) DO NOTHING
`

// EnsureSchema creates the history table if it does not exist.
// The primary key on played_at is what makes re-inserting a seen play a no-op.
func (r *PlayRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating spotify_recently_played table: %w", err)
	}
	return nil
}

// InsertBatch inserts new events, silently skipping any whose played_at is
// already stored. Existing rows are never modified. Returns the number of
// rows actually inserted.
func (r *PlayRepository) InsertBatch(ctx context.Context, events []history.PlayEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(insertSQL, insertArgs(e)...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range events {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("inserting play: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, results.Close()
}

// insertArgs maps an event to the 13 insert parameters, in column order.
func insertArgs(e history.PlayEvent) []any {
	var genres []string
	if len(e.ArtistGenres) > 0 {
		genres = e.ArtistGenres
	}
	return []any{
		e.PlayedAt.UTC(),
		e.TrackName,
		e.DurationMs,
		e.TrackID,
		e.ArtistName,
		e.ArtistID,
		genres,
		e.ArtistImg,
		e.AlbumName,
		e.AlbumID,
		e.AlbumReleaseYear,
		e.AlbumLabel,
		e.AlbumImg,
	}
}

// Count returns the number of persisted plays.
func (r *PlayRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM spotify_recently_played`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

// Latest returns the most recent persisted play instant, or nil when the
// table is empty.
func (r *PlayRepository) Latest(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, `SELECT max(played_at) FROM spotify_recently_played`).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("querying latest play: %w", err)
	}
	return latest, nil
}
