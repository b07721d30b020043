package main

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{400 * time.Millisecond, 0},
		{500 * time.Millisecond, 1},
		{1499 * time.Millisecond, 1},
		{2500 * time.Millisecond, 3},
		{-time.Second, 0},
	}

	for _, tt := range tests {
		if got := *durationSeconds(tt.in); got != tt.want {
			t.Errorf("durationSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	sink := MultiSink{a, NopSink{}, b}
	sink.Track(InteractionEvent{ItemID: "x", Action: ActionClick})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("fan-out reached %d and %d sinks", len(a.events), len(b.events))
	}
}

func TestSQLiteSinkPersistsEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "events.db")

	sink, err := OpenSQLiteSink(dbPath, 16)
	if err != nil {
		t.Fatalf("OpenSQLiteSink() error = %v", err)
	}

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	secs := 7
	input := []InteractionEvent{
		{ItemID: "a", Action: ActionClick, At: at},
		{ItemID: "a", Action: ActionLightboxOpen, At: at},
		{ItemID: "a", Action: ActionView, DurationSeconds: &secs, At: at.Add(7 * time.Second)},
	}
	for _, event := range input {
		sink.Track(event)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	sink.Track(InteractionEvent{ItemID: "late", Action: ActionClick})

	reopened, err := OpenSQLiteSink(dbPath, 16)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Events(context.Background())
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(got) != len(input) {
		t.Fatalf("got %d events, want %d", len(got), len(input))
	}
	for i := range input {
		if got[i].ItemID != input[i].ItemID || got[i].Action != input[i].Action {
			t.Errorf("event %d = %s/%s, want %s/%s", i, got[i].ItemID, got[i].Action, input[i].ItemID, input[i].Action)
		}
		if !got[i].At.Equal(input[i].At) {
			t.Errorf("event %d at %v, want %v", i, got[i].At, input[i].At)
		}
		if !reflect.DeepEqual(got[i].DurationSeconds, input[i].DurationSeconds) {
			t.Errorf("event %d duration = %v, want %v", i, got[i].DurationSeconds, input[i].DurationSeconds)
		}
	}
}
