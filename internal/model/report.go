package model

import "time"

// DailyUsage accumulates cost and token sums for one UTC calendar day.
type DailyUsage struct {
	Date            time.Time // midnight UTC
	Cost            float64
	InputTokens     int64
	OutputTokens    int64
	CacheReadTokens int64
}

// TotalTokens returns input + output + cache-read for the day.
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens + d.CacheReadTokens
}

// ModelCost is the accumulated cost attributed to one model identifier.
type ModelCost struct {
	Model string
	Cost  float64
}

// AgentCost is the accumulated cost attributed to one agent.
type AgentCost struct {
	Agent string
	Cost  float64
}

// Report holds the windowed aggregates consumed by the renderers.
// Daily is sorted chronologically; ByModel and ByAgent by descending cost.
// The sum of Daily costs, ByModel costs, and ByAgent costs each equal
// TotalCost within floating-point tolerance.
type Report struct {
	Days       int // requested window size
	Daily      []DailyUsage
	ByModel    []ModelCost
	ByAgent    []AgentCost
	TotalCost  float64
	ActiveDays int // days with at least one event
}

// DailyAverage returns TotalCost spread over the active days.
// Zero when there are no active days; callers must not divide themselves.
func (r Report) DailyAverage() float64 {
	if r.ActiveDays == 0 {
		return 0
	}
	return r.TotalCost / float64(r.ActiveDays)
}

// Empty reports whether the window contained no usage at all.
func (r Report) Empty() bool {
	return r.ActiveDays == 0
}
