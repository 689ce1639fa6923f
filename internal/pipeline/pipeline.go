// Package pipeline runs one ingestion pass: fetch the recently-played
// feed, enrich each play, and merge the batch into the configured sinks.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/adelarosa/spotify-history-logger/internal/history"
	"github.com/adelarosa/spotify-history-logger/internal/spotify"
)

// Source supplies the feed and the enrichment lookups.
// *spotify.Client satisfies it.
type Source interface {
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.Play, error)
	ArtistDetail(ctx context.Context, id string) (*spotify.ArtistDetail, error)
	AlbumDetail(ctx context.Context, id string) (*spotify.AlbumDetail, error)
}

// FileStore is the flat-file mirror of the full history.
// *csvstore.Store satisfies it.
type FileStore interface {
	Load() ([]history.PlayEvent, error)
	Save(events []history.PlayEvent) error
	Path() string
}

// PlayStore is the relational sink. *db.PlayRepository satisfies it.
type PlayStore interface {
	InsertBatch(ctx context.Context, events []history.PlayEvent) (int64, error)
	Count(ctx context.Context) (int64, error)
	Latest(ctx context.Context) (*time.Time, error)
}

// Service runs the ingestion pipeline. The two sinks are maintained
// independently: the file is the full local mirror, the table is
// authoritative for querying, and each protects itself against
// re-inserted keys.
type Service struct {
	source Source
	file   FileStore
	plays  PlayStore // nil when no database is configured
	limit  int
}

// Option configures a Service.
type Option func(*Service)

// WithPlayStore enables the relational sink.
func WithPlayStore(plays PlayStore) Option {
	return func(s *Service) {
		s.plays = plays
	}
}

// WithFetchLimit sets the feed page size.
func WithFetchLimit(limit int) Option {
	return func(s *Service) {
		s.limit = limit
	}
}

// New creates a pipeline service.
func New(source Source, file FileStore, opts ...Option) *Service {
	s := &Service{
		source: source,
		file:   file,
		limit:  spotify.MaxFeedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes one run.
type Result struct {
	RunID      uuid.UUID
	Fetched    int        // plays returned by the feed
	Degraded   int        // plays persisted with missing enrichment fields
	FileRows   int        // rows in the file mirror after the merge
	Inserted   int64      // rows actually added to the table
	TableRows  int64      // rows in the table after the insert
	LatestPlay *time.Time // most recent play stored in the table, nil when empty
}

// Run performs one ingestion pass. Feed and sink failures abort the run;
// a failed enrichment lookup only degrades the affected play's optional
// fields to null.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New()}

	plays, err := s.source.RecentlyPlayed(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	res.Fetched = len(plays)

	events := make([]history.PlayEvent, 0, len(plays))
	for _, play := range plays {
		artist, album, degraded := s.enrich(ctx, play)
		if degraded {
			res.Degraded++
		}
		events = append(events, newEvent(play, artist, album))
	}

	existing, err := s.file.Load()
	if err != nil {
		return nil, fmt.Errorf("loading history file: %w", err)
	}
	merged := history.Merge(existing, events)
	if err := s.file.Save(merged); err != nil {
		return nil, fmt.Errorf("saving history file: %w", err)
	}
	res.FileRows = len(merged)

	if s.plays != nil {
		inserted, err := s.plays.InsertBatch(ctx, events)
		if err != nil {
			return nil, fmt.Errorf("inserting plays: %w", err)
		}
		res.Inserted = inserted

		total, err := s.plays.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting plays: %w", err)
		}
		res.TableRows = total

		latest, err := s.plays.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying latest play: %w", err)
		}
		res.LatestPlay = latest
	}

	return res, nil
}

// enrich resolves the artist and album details for one play. A failed
// lookup is logged and reported as degraded rather than aborting the
// batch; the event keeps null enrichment fields.
func (s *Service) enrich(ctx context.Context, play spotify.Play) (*spotify.ArtistDetail, *spotify.AlbumDetail, bool) {
	var (
		artist   *spotify.ArtistDetail
		album    *spotify.AlbumDetail
		degraded bool
	)

	if play.ArtistID != "" {
		detail, err := s.source.ArtistDetail(ctx, play.ArtistID)
		if err != nil {
			log.Printf("artist lookup failed for %q (%s): %v", play.ArtistName, play.ArtistID, err)
			degraded = true
		} else {
			artist = detail
		}
	}

	if play.AlbumID != "" {
		detail, err := s.source.AlbumDetail(ctx, play.AlbumID)
		if err != nil {
			log.Printf("album lookup failed for %q (%s): %v", play.AlbumName, play.AlbumID, err)
			degraded = true
		} else {
			album = detail
		}
	}

	return artist, album, degraded
}
