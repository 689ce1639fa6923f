// Command spotify-history-logger appends the user's recently-played
// Spotify tracks to a CSV history file and, when a database is
// configured, to the spotify_recently_played table. It is meant to be
// invoked periodically by a scheduler; each run processes one feed page.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/adelarosa/spotify-history-logger/internal/auth"
	"github.com/adelarosa/spotify-history-logger/internal/config"
	"github.com/adelarosa/spotify-history-logger/internal/csvstore"
	"github.com/adelarosa/spotify-history-logger/internal/db"
	"github.com/adelarosa/spotify-history-logger/internal/pipeline"
	"github.com/adelarosa/spotify-history-logger/internal/spotify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	ctx := context.Background()

	authenticator, err := auth.New(auth.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		RedirectURI:  cfg.RedirectURI,
		TokenBlob:    cfg.TokenBlob,
	})
	if err != nil {
		return err
	}

	httpClient, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating with Spotify: %w", err)
	}

	source := spotify.New(httpClient)
	store := csvstore.New(cfg.CSVPath)

	opts := []pipeline.Option{pipeline.WithFetchLimit(cfg.FetchLimit)}
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		plays := database.Plays()
		if err := plays.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, pipeline.WithPlayStore(plays))
	}

	result, err := pipeline.New(source, store, opts...).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: fetched %d plays", result.RunID, result.Fetched)
	if result.Degraded > 0 {
		fmt.Printf(" (%d with degraded metadata)", result.Degraded)
	}
	fmt.Println()
	fmt.Printf("History updated: %d rows in %s\n", result.FileRows, store.Path())
	if cfg.DatabaseURL != "" {
		fmt.Printf("Database updated: %d new rows, %d total\n", result.Inserted, result.TableRows)
		if result.LatestPlay != nil {
			fmt.Printf("Latest play: %s\n", result.LatestPlay.Format(time.RFC3339))
		}
	}
	return nil
}
