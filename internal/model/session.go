package model

import (
	"fmt"
	"strings"
	"time"
)

// SessionKey is the composite identity of one conversation thread.
// The agent runtime persists each session as <agent>_<account>_<user>.json
// and addresses it on its control surface as "agent:account:user".
type SessionKey struct {
	Agent   string
	Account string
	UserID  string
}

// String renders the key in the runtime's control-surface form.
func (k SessionKey) String() string {
	return k.Agent + ":" + k.Account + ":" + k.UserID
}

// Filename renders the key as the session store filename.
func (k SessionKey) Filename() string {
	return k.Agent + "_" + k.Account + "_" + k.UserID + ".json"
}

// ParseSessionKey parses the "agent:account:user" form.
func ParseSessionKey(s string) (SessionKey, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return SessionKey{}, fmt.Errorf("invalid session key %q (want agent:account:user)", s)
	}
	return SessionKey{Agent: parts[0], Account: parts[1], UserID: parts[2]}, nil
}

// KeyFromFilename parses a session store filename into its key.
// Filenames with fewer than three segments are not session documents.
func KeyFromFilename(name string) (SessionKey, bool) {
	base := strings.TrimSuffix(name, ".json")
	if base == name {
		return SessionKey{}, false
	}
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 {
		return SessionKey{}, false
	}
	return SessionKey{Agent: parts[0], Account: parts[1], UserID: parts[2]}, true
}

// Message is one entry in a session's message sequence.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TS      int64  `json:"ts,omitempty"` // epoch milliseconds, optional
}

// Session is the in-memory view of one persisted session document.
// clawmon only reads these; mutation is delegated to the owning runtime.
type Session struct {
	Key      SessionKey
	Path     string
	ModTime  time.Time
	Messages []Message
}

// LastActivity returns the instant of the session's most recent activity:
// the last message's ts when present, else the file modification time.
func (s Session) LastActivity() time.Time {
	if n := len(s.Messages); n > 0 {
		if ts := s.Messages[n-1].TS; ts > 0 {
			return time.UnixMilli(ts).UTC()
		}
	}
	return s.ModTime
}

// Quiescent reports whether the session holds at most one message. A
// quiescent session is never a reset candidate; the runtime leaves a single
// greeting message behind after a reset, so this is what keeps the monitor
// from resetting the same session forever.
func (s Session) Quiescent() bool {
	return len(s.Messages) <= 1
}
