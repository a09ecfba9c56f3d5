package source

import (
	"os"
	"path/filepath"
)

// LogExt is the session log file extension.
const LogExt = ".jsonl"

// ScanAgents discovers every session log under the agents root. Each
// immediate subdirectory of the root is one agent; agents without a
// sessions subdirectory are skipped without error. Scan order is
// unspecified — aggregation downstream is order-independent.
func ScanAgents(agentsDir string) ([]DiscoveredLog, error) {
	entries, err := os.ReadDir(agentsDir)
	if err != nil {
		return nil, err
	}

	var logs []DiscoveredLog
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		agent := entry.Name()
		sessionsDir := filepath.Join(agentsDir, agent, "sessions")

		files, err := os.ReadDir(sessionsDir)
		if err != nil {
			// No sessions directory (or unreadable): zero contribution.
			continue
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != LogExt {
				continue
			}
			logs = append(logs, DiscoveredLog{
				Path:  filepath.Join(sessionsDir, f.Name()),
				Agent: agent,
			})
		}
	}

	return logs, nil
}

// CountAgents returns the number of distinct agents in a set of logs.
func CountAgents(logs []DiscoveredLog) int {
	seen := make(map[string]struct{})
	for _, l := range logs {
		seen[l.Agent] = struct{}{}
	}
	return len(seen)
}
