// Package config loads and saves clawmon configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all clawmon configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Monitor    MonitorConfig    `toml:"monitor"`
	Accounting AccountingConfig `toml:"accounting"`
}

// GeneralConfig holds paths and reporting preferences.
type GeneralConfig struct {
	// RootDir is the OpenClaw installation root. Agent logs live under
	// <root>/agents, session documents under <root>/sessions, and report
	// artifacts are written to <root>/workspace/output.
	RootDir     string `toml:"root_dir,omitempty"`
	DefaultDays int    `toml:"default_days"`
}

// MonitorConfig holds inactivity monitor settings.
type MonitorConfig struct {
	// Account is the monitored account class; only sessions belonging to
	// it are ever reset.
	Account             string `toml:"account"`
	IdleThresholdSecs   int    `toml:"idle_threshold_secs"`
	Command             string `toml:"command"`
	DispatchTimeoutSecs int    `toml:"dispatch_timeout_secs"`
}

// AccountingConfig holds usage accounting settings.
type AccountingConfig struct {
	// MirrorModel is the sentinel model identifier for internal relay
	// traffic, excluded from all aggregates.
	MirrorModel string `toml:"mirror_model"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		General: GeneralConfig{
			RootDir:     filepath.Join(home, "openclaw"),
			DefaultDays: 30,
		},
		Monitor: MonitorConfig{
			Account:             "transcriber",
			IdleThresholdSecs:   3600,
			Command:             "openclaw",
			DispatchTimeoutSecs: 10,
		},
		Accounting: AccountingConfig{
			MirrorModel: "delivery-mirror",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clawmon")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "clawmon")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// AgentsDir returns the agent logs root.
func (c Config) AgentsDir() string {
	return filepath.Join(c.General.RootDir, "agents")
}

// SessionsDir returns the session document store.
func (c Config) SessionsDir() string {
	return filepath.Join(c.General.RootDir, "sessions")
}

// OutputDir returns the directory for report artifacts.
func (c Config) OutputDir() string {
	return filepath.Join(c.General.RootDir, "workspace", "output")
}

// IdleThreshold returns the inactivity threshold as a duration.
func (c Config) IdleThreshold() time.Duration {
	return time.Duration(c.Monitor.IdleThresholdSecs) * time.Second
}

// DispatchTimeout returns the reset dispatch timeout as a duration.
func (c Config) DispatchTimeout() time.Duration {
	return time.Duration(c.Monitor.DispatchTimeoutSecs) * time.Second
}
