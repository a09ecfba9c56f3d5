package monitor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

// Dispatcher delivers a session reset to the agent runtime.
type Dispatcher interface {
	Reset(ctx context.Context, key model.SessionKey) error
}

// ExecDispatcher resets sessions by shelling out to the openclaw CLI:
//
//	openclaw sessions send --session <agent>:<account>:<user> --message /new
type ExecDispatcher struct {
	Command string
	Timeout time.Duration
}

// NewExecDispatcher returns a dispatcher invoking the given binary.
func NewExecDispatcher(command string, timeout time.Duration) *ExecDispatcher {
	if command == "" {
		command = "openclaw"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExecDispatcher{Command: command, Timeout: timeout}
}

// Reset runs the send command, bounded by the dispatcher timeout.
func (d *ExecDispatcher) Reset(ctx context.Context, key model.SessionKey) error {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.Command,
		"sessions", "send",
		"--session", key.String(),
		"--message", "/new",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("dispatching reset for %s: %w: %s", key, err, msg)
		}
		return fmt.Errorf("dispatching reset for %s: %w", key, err)
	}
	return nil
}
