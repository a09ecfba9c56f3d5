package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.General.DefaultDays != 30 {
		t.Errorf("DefaultDays = %d, want 30", c.General.DefaultDays)
	}
	if c.Monitor.Account != "transcriber" {
		t.Errorf("Account = %q, want transcriber", c.Monitor.Account)
	}
	if c.IdleThreshold() != time.Hour {
		t.Errorf("IdleThreshold = %v, want 1h", c.IdleThreshold())
	}
	if c.Accounting.MirrorModel != "delivery-mirror" {
		t.Errorf("MirrorModel = %q, want delivery-mirror", c.Accounting.MirrorModel)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := DefaultConfig()
	c.General.RootDir = "/srv/openclaw"
	c.General.DefaultDays = 7
	c.Monitor.Account = "operator"
	c.Monitor.IdleThresholdSecs = 1800

	if err := Save(c); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General.RootDir != "/srv/openclaw" || got.General.DefaultDays != 7 {
		t.Errorf("general section = %+v", got.General)
	}
	if got.Monitor.Account != "operator" || got.Monitor.IdleThresholdSecs != 1800 {
		t.Errorf("monitor section = %+v", got.Monitor)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "clawmon")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[general]\ndefault_days = 7\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.General.DefaultDays != 7 {
		t.Errorf("DefaultDays = %d, want 7", c.General.DefaultDays)
	}
	// Sections absent from the file keep their defaults.
	if c.Monitor.Account != "transcriber" || c.Monitor.IdleThresholdSecs != 3600 {
		t.Errorf("monitor defaults lost: %+v", c.Monitor)
	}
}

func TestDirHelpers(t *testing.T) {
	c := DefaultConfig()
	c.General.RootDir = "/srv/openclaw"

	if got := c.AgentsDir(); got != filepath.Join("/srv/openclaw", "agents") {
		t.Errorf("AgentsDir = %q", got)
	}
	if got := c.SessionsDir(); got != filepath.Join("/srv/openclaw", "sessions") {
		t.Errorf("SessionsDir = %q", got)
	}
	if got := c.OutputDir(); got != filepath.Join("/srv/openclaw", "workspace", "output") {
		t.Errorf("OutputDir = %q", got)
	}
}
