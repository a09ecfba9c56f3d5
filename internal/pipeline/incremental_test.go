package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openclaw/clawmon/internal/store"
)

func writeAgentLog(t *testing.T, root, agent, name, body string) string {
	t.Helper()
	dir := filepath.Join(root, agent, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const (
	line1 = `{"type":"message","timestamp":"2026-01-01T10:00:00Z","message":{"model":"m1","usage":{"input":10,"cost":{"total":0.10}}}}` + "\n"
	line2 = `{"type":"message","timestamp":"2026-01-02T10:00:00Z","message":{"model":"m1","usage":{"input":20,"cost":{"total":0.20}}}}` + "\n"
)

func TestLoadWithCache(t *testing.T) {
	root := t.TempDir()
	path := writeAgentLog(t, root, "gladys", "s1.jsonl", line1)

	cache, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	// First load: everything is parsed fresh.
	r1, err := LoadWithCache(root, "", cache, nil)
	if err != nil {
		t.Fatalf("LoadWithCache: %v", err)
	}
	if r1.Reparsed != 1 || r1.CacheHits != 0 {
		t.Errorf("first load: reparsed=%d hits=%d, want 1/0", r1.Reparsed, r1.CacheHits)
	}
	if len(r1.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(r1.Events))
	}

	// Second load: unchanged file is served from cache.
	r2, err := LoadWithCache(root, "", cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r2.Reparsed != 0 || r2.CacheHits != 1 {
		t.Errorf("second load: reparsed=%d hits=%d, want 0/1", r2.Reparsed, r2.CacheHits)
	}
	if len(r2.Events) != 1 || r2.Events[0].Cost != 0.10 {
		t.Errorf("cached events = %+v", r2.Events)
	}

	// Append to the log: size changes, so the file is reparsed whole.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(line2); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	bump := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, bump, bump); err != nil {
		t.Fatal(err)
	}

	r3, err := LoadWithCache(root, "", cache, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r3.Reparsed != 1 {
		t.Errorf("after append: reparsed=%d, want 1", r3.Reparsed)
	}
	if len(r3.Events) != 2 {
		t.Errorf("after append: events=%d, want 2", len(r3.Events))
	}
}

func TestLoad_Uncached(t *testing.T) {
	root := t.TempDir()
	writeAgentLog(t, root, "gladys", "s1.jsonl", line1+line2)
	writeAgentLog(t, root, "scribe", "s2.jsonl", "garbage\n"+line1)

	r, err := Load(root, "", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.TotalFiles != 2 || r.AgentCount != 2 {
		t.Errorf("files=%d agents=%d, want 2/2", r.TotalFiles, r.AgentCount)
	}
	if len(r.Events) != 3 {
		t.Errorf("events = %d, want 3", len(r.Events))
	}
	if r.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", r.ParseErrors)
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope"), "", nil); err == nil {
		t.Fatal("expected error for missing agents root")
	}
}
