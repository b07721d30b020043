package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// InteractionAction is the kind of gallery interaction being reported
type InteractionAction string

const (
	ActionClick        InteractionAction = "click"
	ActionLightboxOpen InteractionAction = "lightbox_open"
	ActionView         InteractionAction = "view"
)

// InteractionEvent is one notification for the analytics collaborator
type InteractionEvent struct {
	ItemID          string
	Action          InteractionAction
	DurationSeconds *int // set for "view" only
	At              time.Time
}

// AnalyticsSink accepts interaction events. Implementations must not block.
type AnalyticsSink interface {
	Track(event InteractionEvent)
}

// durationSeconds rounds an in-view duration to whole seconds
func durationSeconds(d time.Duration) *int {
	if d < 0 {
		d = 0
	}
	secs := int(math.Round(d.Seconds()))
	return &secs
}

// NopSink discards events
type NopSink struct{}

func (NopSink) Track(InteractionEvent) {}

// LogSink writes events to the standard logger
type LogSink struct{}

func (LogSink) Track(event InteractionEvent) {
	if event.DurationSeconds != nil {
		log.Printf("analytics: %s %s (%ds)", event.Action, event.ItemID, *event.DurationSeconds)
		return
	}
	log.Printf("analytics: %s %s", event.Action, event.ItemID)
}

// MultiSink fans events out to every sink in order
type MultiSink []AnalyticsSink

func (m MultiSink) Track(event InteractionEvent) {
	for _, sink := range m {
		sink.Track(event)
	}
}

// SQLiteSink persists events in a SQLite database from a worker goroutine
type SQLiteSink struct {
	db     *sql.DB
	events chan InteractionEvent
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
}

// OpenSQLiteSink opens or creates the events database at dbPath
func OpenSQLiteSink(dbPath string, buffer int) (*SQLiteSink, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create analytics directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}
	// A single writer connection keeps SQLite from reporting busy errors
	db.SetMaxOpenConns(1)

	if err := initAnalyticsSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init analytics schema: %w", err)
	}

	if buffer <= 0 {
		buffer = 64
	}
	s := &SQLiteSink{
		db:     db,
		events: make(chan InteractionEvent, buffer),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s, nil
}

func initAnalyticsSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS gallery_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id TEXT NOT NULL,
		action TEXT NOT NULL,
		duration_seconds INTEGER,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_gallery_events_item ON gallery_events(item_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Track queues an event; when the queue is full the event is dropped and logged
func (s *SQLiteSink) Track(event InteractionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.events <- event:
	default:
		s.dropped++
		log.Printf("Warning: Analytics queue full, dropping %s event for %s", event.Action, event.ItemID)
	}
}

// Dropped returns how many events were dropped because the queue was full
func (s *SQLiteSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *SQLiteSink) worker() {
	defer close(s.done)
	for event := range s.events {
		if err := s.insert(event); err != nil {
			log.Printf("Error: Failed to record %s event for %s: %v", event.Action, event.ItemID, err)
		}
	}
}

func (s *SQLiteSink) insert(event InteractionEvent) error {
	var duration sql.NullInt64
	if event.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: int64(*event.DurationSeconds), Valid: true}
	}
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO gallery_events (item_id, action, duration_seconds, created_at) VALUES (?, ?, ?, ?)`,
		event.ItemID, string(event.Action), duration, at.UnixMilli(),
	)
	return err
}

// Close flushes queued events and closes the database
func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	<-s.done
	return s.db.Close()
}

// Events returns the recorded events in insertion order
func (s *SQLiteSink) Events(ctx context.Context) ([]InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, action, duration_seconds, created_at FROM gallery_events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []InteractionEvent
	for rows.Next() {
		var (
			event    InteractionEvent
			action   string
			duration sql.NullInt64
			at       int64
		)
		if err := rows.Scan(&event.ItemID, &action, &duration, &at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Action = InteractionAction(action)
		event.At = time.UnixMilli(at)
		if duration.Valid {
			secs := int(duration.Int64)
			event.DurationSeconds = &secs
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
