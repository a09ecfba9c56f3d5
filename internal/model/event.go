// Package model defines domain types for clawmon usage accounting and sessions.
package model

import "time"

// UsageEvent is one accounted unit of model usage decoded from an agent's
// session log. Events are immutable and derived fresh from the logs on every
// run; they are never persisted except in the parse cache.
type UsageEvent struct {
	Timestamp       time.Time
	Agent           string
	Model           string
	Cost            float64
	InputTokens     int64
	OutputTokens    int64
	CacheReadTokens int64
}

// TotalTokens returns the combined token count of the event.
func (e UsageEvent) TotalTokens() int64 {
	return e.InputTokens + e.OutputTokens + e.CacheReadTokens
}
