// Package csvstore persists the listening history as a flat CSV mirror.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adelarosa/spotify-history-logger/internal/history"
)

// Store reads and rewrites the history file. Each save replaces the file
// with the full reconciled history, so the file always holds every row
// ever merged, sorted by the caller.
type Store struct {
	path string
}

// New creates a Store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all persisted events from the history file.
// Returns (nil, nil) if the file does not exist yet.
func (s *Store) Load() ([]history.PlayEvent, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if err := validateHeader(records[0]); err != nil {
		return nil, err
	}

	events := make([]history.PlayEvent, 0, len(records)-1)
	for i, record := range records[1:] {
		event, err := history.ParseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("parsing history row %d: %w", i+2, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// validateHeader checks the first record against the expected column set,
// so a file that is not a history mirror fails loudly instead of being
// parsed as rows.
func validateHeader(header []string) error {
	if len(header) != len(history.Columns) {
		return fmt.Errorf("history header has %d columns, want %d", len(header), len(history.Columns))
	}
	for i, col := range history.Columns {
		if header[i] != col {
			return fmt.Errorf("unexpected history header column %d: %q, want %q", i+1, header[i], col)
		}
	}
	return nil
}

// Save rewrites the history file with header and all given events,
// creating the parent directory if needed. The rows are written to a
// temporary file that replaces the mirror only once fully flushed, so a
// failed save never truncates the existing history.
func (s *Store) Save(events []history.PlayEvent) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating history directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary history file: %w", err)
	}
	discard := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	writer := csv.NewWriter(tmp)
	if err := writer.Write(history.Columns); err != nil {
		return discard(fmt.Errorf("writing header: %w", err))
	}
	for _, event := range events {
		if err := writer.Write(event.Record()); err != nil {
			return discard(fmt.Errorf("writing row: %w", err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return discard(fmt.Errorf("flushing history file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}
