package source

import "encoding/json"

// rawRecord is one line of an agent session log. Every field is optional;
// the parser decides whether the record qualifies as a usage event.
type rawRecord struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Message   *rawMessage `json:"message"`
}

// rawMessage is the nested message object carrying model and usage.
type rawMessage struct {
	Model string    `json:"model"`
	Usage *rawUsage `json:"usage"`
}

// rawUsage holds token counts and the cost sub-field. Cost is kept raw
// because upstream emits it as an object ({"total": ...}) but nothing
// guarantees that shape; the parser must never crash on it.
type rawUsage struct {
	Input     int64           `json:"input"`
	Output    int64           `json:"output"`
	CacheRead int64           `json:"cacheRead"`
	Cost      json.RawMessage `json:"cost"`
}

// rawCost is the structured shape of the cost sub-field.
type rawCost struct {
	Total *float64 `json:"total"`
}

// DiscoveredLog is one session log file found under the agents root.
type DiscoveredLog struct {
	Path  string
	Agent string
}
