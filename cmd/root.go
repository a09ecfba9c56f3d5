// Package cmd implements the clawmon command tree.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/model"
	"github.com/openclaw/clawmon/internal/pipeline"
	"github.com/openclaw/clawmon/internal/report"
	"github.com/openclaw/clawmon/internal/store"
)

var (
	flagDays      int
	flagRootDir   string
	flagAgentsDir string
	flagNoCache   bool
	flagQuiet     bool
	flagChart     bool
)

// cfg is loaded once at startup; flags default from it.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "clawmon",
	Short: "OpenClaw usage and session monitor",
	Long:  "Track OpenClaw agent usage: costs, tokens, sessions, and idle-session resets.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg, _ = config.Load()

	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", cfg.General.DefaultDays, "Time window in days")
	rootCmd.PersistentFlags().StringVarP(&flagRootDir, "root", "d", cfg.General.RootDir, "OpenClaw root directory")
	rootCmd.PersistentFlags().StringVar(&flagAgentsDir, "agents-dir", "", "Agent log root (default <root>/agents)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.Flags().BoolVar(&flagChart, "chart", false, "Append the daily cost chart to the summary")
}

func agentsDir() string {
	if flagAgentsDir != "" {
		return flagAgentsDir
	}
	return filepath.Join(flagRootDir, "agents")
}

func sessionsDir() string {
	return filepath.Join(flagRootDir, "sessions")
}

func outputDir() string {
	return filepath.Join(flagRootDir, "workspace", "output")
}

// loadEvents is the shared loading path used by the reporting commands.
// It prefers the SQLite cache and falls back to a full parse when the
// cache is unavailable.
func loadEvents() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning agent logs...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer cache.Close()

			cr, err := pipeline.LoadWithCache(agentsDir(), cfg.Accounting.MirrorModel, cache, progressFn)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
				}
			} else {
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %d files from cache (%d agents)    \n",
							cr.CacheHits, cr.AgentCount)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed (%d agents)    \n",
							cr.CacheHits, cr.Reparsed, cr.AgentCount)
					}
				}
				reportParseErrors(&cr.LoadResult)
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(agentsDir(), cfg.Accounting.MirrorModel, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d files across %d agents    \n",
			result.ParsedFiles, result.AgentCount)
	}
	reportParseErrors(result)

	return result, nil
}

func reportParseErrors(lr *pipeline.LoadResult) {
	if flagQuiet {
		return
	}
	if lr.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped %d malformed lines\n", lr.ParseErrors)
	}
	if lr.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d files could not be read\n", lr.FileErrors)
	}
	if lr.ScalarCosts > 0 {
		fmt.Fprintf(os.Stderr, "  %d events carried a non-object cost (counted as $0)\n", lr.ScalarCosts)
	}
}

// loadEventsReported wraps loadEvents for the reporting commands, which
// exit 0 even when the log root cannot be read: the error is printed and
// the command degrades to the no-data output.
func loadEventsReported() (*pipeline.LoadResult, bool) {
	result, err := loadEvents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		fmt.Println("\n  " + report.NoDataMessage)
		return nil, false
	}
	return result, true
}

// aggregate applies the time window to the loaded events.
func aggregate(events []model.UsageEvent) model.Report {
	now := time.Now()
	return pipeline.Aggregate(events, pipeline.Window(now, flagDays), flagDays)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, ok := loadEventsReported()
	if !ok {
		return nil
	}

	r := aggregate(result.Events)
	fmt.Print(report.RenderSummary(r))
	if flagChart && !r.Empty() {
		fmt.Print(report.RenderChart(r))
	}
	return nil
}
