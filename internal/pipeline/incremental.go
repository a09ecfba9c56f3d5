package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/openclaw/clawmon/internal/source"
	"github.com/openclaw/clawmon/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers logs, diffs against the cache by mtime and size,
// reparses only changed files, and returns the combined event set. Agents
// append to live logs, so a grown file simply shows up as changed and is
// re-cached whole.
func LoadWithCache(agentsDir, mirrorModel string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	logs, err := source.ScanAgents(agentsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", agentsDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles: len(logs),
			AgentCount: source.CountAgents(logs),
		},
	}
	if len(logs) == 0 {
		return result, nil
	}

	tracked, err := cache.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var toReparse []source.DiscoveredLog
	unchanged := make(map[string]struct{})

	for _, l := range logs {
		info, err := os.Stat(l.Path)
		if err != nil {
			continue
		}
		cached, ok := tracked[l.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[l.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, l)
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		events, err := cache.EventsForFiles(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached events: %w", err)
		}
		result.Events = append(result.Events, events...)
		result.ParsedFiles += len(unchanged)
	}

	if len(toReparse) > 0 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers < 1 {
			numWorkers = 4
		}
		if numWorkers > len(toReparse) {
			numWorkers = len(toReparse)
		}

		work := make(chan int, len(toReparse))
		results := make([]source.FileResult, len(toReparse))
		var wg sync.WaitGroup
		var processed atomic.Int64

		for i := range toReparse {
			work <- i
		}
		close(work)

		wg.Add(numWorkers)
		for w := 0; w < numWorkers; w++ {
			go func() {
				defer wg.Done()
				for idx := range work {
					results[idx] = source.ParseFile(toReparse[idx], mirrorModel)
					n := processed.Add(1)
					if progressFn != nil {
						progressFn(int(n)+result.CacheHits, result.TotalFiles)
					}
				}
			}()
		}

		wg.Wait()

		for i, fr := range results {
			if fr.Err != nil && len(fr.Events) == 0 {
				result.FileErrors++
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += fr.ParseErrors
			result.ScalarCosts += fr.ScalarCosts
			result.Events = append(result.Events, fr.Events...)

			// A file with a mid-scan read error keeps its partial events
			// for this run but is not cached, so the next run retries.
			if fr.Err != nil {
				continue
			}
			if info, err := os.Stat(toReparse[i].Path); err == nil {
				_ = cache.SaveFileEvents(toReparse[i].Path, info.ModTime().UnixNano(), info.Size(), fr.Events)
			}
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "clawmon")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "clawmon")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "usage.db")
}
