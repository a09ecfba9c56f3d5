// Package monitor watches session documents for inactivity and resets
// idle conversations.
package monitor

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/openclaw/clawmon/internal/model"
	"github.com/openclaw/clawmon/internal/source"
)

// Monitor scans a session store and dispatches resets for sessions that
// have been idle past the threshold.
type Monitor struct {
	SessionsDir string
	Account     string
	Threshold   time.Duration
	Dispatcher  Dispatcher
	DryRun      bool
	Logger      *log.Logger
}

// PassResult summarizes a single monitoring pass.
type PassResult struct {
	Scanned    int // session files belonging to the monitored account
	Candidates int // idle past the threshold
	Resets     int // resets dispatched (or would-be, under dry run)
	Skipped    int // unreadable documents or nothing to reset
	Errors     int // dispatch failures
}

// Pass runs one monitoring pass at the given instant. A missing or empty
// session store is not an error; the pass simply finds nothing. Dispatch
// failures are logged and counted but never abort the pass.
func (m *Monitor) Pass(ctx context.Context, now time.Time) (PassResult, error) {
	var res PassResult

	entries, err := os.ReadDir(m.SessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return res, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := model.KeyFromFilename(e.Name())
		if !ok {
			continue
		}
		if key.Account != m.Account {
			continue
		}
		res.Scanned++

		path := filepath.Join(m.SessionsDir, e.Name())
		last := source.LastActivity(path)
		if last.IsZero() {
			res.Skipped++
			continue
		}
		age := now.Sub(last)
		if age < m.Threshold {
			continue
		}
		res.Candidates++

		// Re-read the document for the message count. A session we can
		// see is idle but cannot read is left for the next pass.
		sess, err := source.LoadSession(path)
		if err != nil {
			m.logf("monitor: skipping %s: %v", key, err)
			res.Skipped++
			continue
		}
		if sess.Quiescent() {
			res.Skipped++
			continue
		}

		if m.DryRun {
			m.logf("monitor: would reset %s (idle %s)", key, age.Round(time.Second))
			res.Resets++
			continue
		}

		if err := m.Dispatcher.Reset(ctx, key); err != nil {
			m.logf("monitor: %v", err)
			res.Errors++
			continue
		}
		m.logf("monitor: reset %s (idle %s)", key, age.Round(time.Second))
		res.Resets++
	}

	return res, nil
}

// Run repeats passes on the given interval until ctx is canceled. The
// first pass runs immediately.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	if _, err := m.Pass(ctx, time.Now()); err != nil {
		m.logf("monitor: pass failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Pass(ctx, time.Now()); err != nil {
				m.logf("monitor: pass failed: %v", err)
			}
		}
	}
}

func (m *Monitor) logf(format string, args ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, args...)
	}
}
