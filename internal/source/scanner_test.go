package source

import (
	"os"
	"path/filepath"
	"testing"
)

func mkLog(t *testing.T, root, agent, name string) {
	t.Helper()
	dir := filepath.Join(root, agent, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanAgents(t *testing.T) {
	root := t.TempDir()
	mkLog(t, root, "gladys", "a.jsonl")
	mkLog(t, root, "gladys", "b.jsonl")
	mkLog(t, root, "scribe", "c.jsonl")

	// Agent directory without a sessions subdirectory: skipped, no error.
	if err := os.MkdirAll(filepath.Join(root, "idle-agent"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Stray file at the root level is not an agent.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	// Non-log files inside a sessions dir are ignored.
	if err := os.WriteFile(filepath.Join(root, "gladys", "sessions", "index.json"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	logs, err := ScanAgents(root)
	if err != nil {
		t.Fatalf("ScanAgents: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("logs = %d, want 3", len(logs))
	}
	if got := CountAgents(logs); got != 2 {
		t.Errorf("CountAgents = %d, want 2", got)
	}
	for _, l := range logs {
		if l.Agent != "gladys" && l.Agent != "scribe" {
			t.Errorf("unexpected agent %q", l.Agent)
		}
	}
}

func TestScanAgents_MissingRoot(t *testing.T) {
	if _, err := ScanAgents(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestScanAgents_EmptyRoot(t *testing.T) {
	logs, err := ScanAgents(t.TempDir())
	if err != nil {
		t.Fatalf("ScanAgents: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("logs = %d, want 0", len(logs))
	}
}
