package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/openclaw/clawmon/internal/model"
	"github.com/openclaw/clawmon/internal/source"
)

// LoadResult holds the output of the full log loading pipeline. Events is
// the unfiltered event set; the window cutoff is applied by Aggregate.
type LoadResult struct {
	Events      []model.UsageEvent
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	ScalarCosts int
	FileErrors  int
	AgentCount  int
}

// ProgressFunc is called during loading to report progress.
type ProgressFunc func(current, total int)

// Load discovers and parses every session log under the agents root,
// using a bounded worker pool. A file that cannot be read contributes
// zero events and is counted in FileErrors; it never aborts the run.
func Load(agentsDir, mirrorModel string, progressFn ProgressFunc) (*LoadResult, error) {
	logs, err := source.ScanAgents(agentsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", agentsDir, err)
	}

	result := &LoadResult{
		TotalFiles: len(logs),
		AgentCount: source.CountAgents(logs),
	}
	if len(logs) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(logs) {
		numWorkers = len(logs)
	}

	work := make(chan int, len(logs))
	results := make([]source.FileResult, len(logs))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range logs {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(logs[idx], mirrorModel)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(logs))
				}
			}
		}()
	}

	wg.Wait()

	for _, fr := range results {
		if fr.Err != nil && len(fr.Events) == 0 {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += fr.ParseErrors
		result.ScalarCosts += fr.ScalarCosts
		result.Events = append(result.Events, fr.Events...)
	}

	return result, nil
}
