package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleEvents() []model.UsageEvent {
	return []model.UsageEvent{
		{
			Timestamp:       time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			Agent:           "gladys",
			Model:           "claude-opus-4",
			Cost:            0.25,
			InputTokens:     100,
			OutputTokens:    50,
			CacheReadTokens: 900,
		},
		{
			Timestamp: time.Date(2026, 1, 2, 11, 0, 0, 0, time.UTC),
			Agent:     "gladys",
			Model:     "claude-haiku-4",
			Cost:      0.01,
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileEvents("/logs/a.jsonl", 1000, 2048, sampleEvents()); err != nil {
		t.Fatalf("SaveFileEvents: %v", err)
	}

	tracked, err := c.TrackedFiles()
	if err != nil {
		t.Fatalf("TrackedFiles: %v", err)
	}
	fi, ok := tracked["/logs/a.jsonl"]
	if !ok {
		t.Fatal("file not tracked")
	}
	if fi.MtimeNs != 1000 || fi.SizeBytes != 2048 {
		t.Errorf("tracked = %+v", fi)
	}

	events, err := c.EventsForFiles(map[string]struct{}{"/logs/a.jsonl": {}})
	if err != nil {
		t.Fatalf("EventsForFiles: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	want := sampleEvents()[0]
	var got model.UsageEvent
	for _, e := range events {
		if e.Model == want.Model {
			got = e
		}
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestCacheReplaceOnResave(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileEvents("/logs/a.jsonl", 1, 1, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	// Re-save with one event: previous rows for the file must be gone.
	if err := c.SaveFileEvents("/logs/a.jsonl", 2, 2, sampleEvents()[:1]); err != nil {
		t.Fatal(err)
	}

	n, err := c.EventCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("EventCount = %d, want 1", n)
	}
}

func TestCacheFileScoping(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileEvents("/logs/a.jsonl", 1, 1, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveFileEvents("/logs/b.jsonl", 1, 1, sampleEvents()[:1]); err != nil {
		t.Fatal(err)
	}

	events, err := c.EventsForFiles(map[string]struct{}{"/logs/b.jsonl": {}})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("events = %d, want 1 (only b.jsonl)", len(events))
	}
}

func TestCacheDeleteFile(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveFileEvents("/logs/a.jsonl", 1, 1, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteFile("/logs/a.jsonl"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	tracked, err := c.TrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(tracked) != 0 {
		t.Errorf("tracked = %v, want empty", tracked)
	}
	n, _ := c.EventCount()
	if n != 0 {
		t.Errorf("EventCount = %d, want 0", n)
	}
}
