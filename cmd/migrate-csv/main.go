// Command migrate-csv loads the CSV history mirror and inserts every row
// into the spotify_recently_played table, skipping rows whose played_at
// is already stored. Because the insert is a conflict-no-op, the table
// can be rebuilt from the mirror at any time.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adelarosa/spotify-history-logger/internal/config"
	"github.com/adelarosa/spotify-history-logger/internal/csvstore"
	"github.com/adelarosa/spotify-history-logger/internal/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	ctx := context.Background()

	store := csvstore.New(cfg.CSVPath)
	events, err := store.Load()
	if err != nil {
		return err
	}
	if events == nil {
		return fmt.Errorf("no history file at %s", store.Path())
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	plays := database.Plays()
	if err := plays.EnsureSchema(ctx); err != nil {
		return err
	}

	inserted, err := plays.InsertBatch(ctx, events)
	if err != nil {
		return err
	}
	total, err := plays.Count(ctx)
	if err != nil {
		return err
	}
	latest, err := plays.Latest(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Migrated %s: %d of %d rows inserted, %d total in table\n",
		store.Path(), inserted, len(events), total)
	if latest != nil {
		fmt.Printf("Latest play in table: %s\n", latest.Format(time.RFC3339))
	}
	return nil
}
