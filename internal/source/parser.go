// Package source discovers and parses OpenClaw agent session logs and
// persisted session documents.
package source

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/openclaw/clawmon/internal/model"
)

// DefaultMirrorModel is the sentinel model identifier used for internal
// relay traffic. It carries no billable usage and is excluded from
// accounting.
const DefaultMirrorModel = "delivery-mirror"

// LineParser decodes physical log lines into usage events for one agent.
type LineParser struct {
	Agent       string
	MirrorModel string // sentinel to exclude; DefaultMirrorModel when empty
}

// Parse decodes one log line. ok is false when the line is not a usage
// event: malformed JSON (including a partially written trailing line), a
// non-message record, or a record missing timestamp, usage, or model.
// Parse never fails hard; one corrupt line must not lose the rest of the
// file.
func (p LineParser) Parse(line []byte) (model.UsageEvent, bool) {
	ev, ok, _ := p.parse(line)
	return ev, ok
}

// parse additionally reports whether the record carried a bare scalar cost
// value. Such costs are dropped (accounted as 0), which may undercount;
// callers surface the count instead of silently accepting the shape.
func (p LineParser) parse(line []byte) (ev model.UsageEvent, ok, scalarCost bool) {
	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return model.UsageEvent{}, false, false
	}
	if rec.Type != "message" || rec.Timestamp == "" || rec.Message == nil {
		return model.UsageEvent{}, false, false
	}

	msg := rec.Message
	if msg.Usage == nil || msg.Model == "" {
		return model.UsageEvent{}, false, false
	}
	mirror := p.MirrorModel
	if mirror == "" {
		mirror = DefaultMirrorModel
	}
	if msg.Model == mirror {
		return model.UsageEvent{}, false, false
	}

	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return model.UsageEvent{}, false, false
	}

	cost, scalar := costTotal(msg.Usage.Cost)

	return model.UsageEvent{
		Timestamp:       ts.UTC(),
		Agent:           p.Agent,
		Model:           msg.Model,
		Cost:            cost,
		InputTokens:     msg.Usage.Input,
		OutputTokens:    msg.Usage.Output,
		CacheReadTokens: msg.Usage.CacheRead,
	}, true, scalar
}

// costTotal extracts the "total" attribute when cost is a structured
// object, defaulting to 0 when absent or non-numeric. Any other shape
// yields 0; a bare scalar is reported separately.
func costTotal(raw json.RawMessage) (cost float64, scalar bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var obj rawCost
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Total != nil {
			return *obj.Total, false
		}
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return 0, true
	}
	return 0, false
}

// FileResult holds the outcome of parsing one session log file.
type FileResult struct {
	Events      []model.UsageEvent
	ParseErrors int // undecodable lines (corrupt or partially written)
	ScalarCosts int // events whose cost field was a bare scalar (kept, cost 0)
	Err         error
}

// ParseFile scans one session log line by line. An unreadable file returns
// Err; malformed lines inside a readable file are skipped and counted.
func ParseFile(df DiscoveredLog, mirrorModel string) FileResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return FileResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	parser := LineParser{Agent: df.Agent, MirrorModel: mirrorModel}

	var res FileResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ev, ok, scalar := parser.parse(line)
		if !ok {
			if !json.Valid(line) {
				res.ParseErrors++
			}
			continue
		}
		if scalar {
			res.ScalarCosts++
		}
		res.Events = append(res.Events, ev)
	}

	if err := scanner.Err(); err != nil {
		// Mid-scan read error (rotation, truncation). Keep what we have;
		// the caller decides whether partial data counts.
		res.Err = err
	}

	return res
}
