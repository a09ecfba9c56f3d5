package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/report"
)

var flagChartSave bool

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Daily cost chart with per-model share",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().BoolVar(&flagChartSave, "save", false, "Also write the chart to <root>/workspace/output/cost-report.txt")
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, _ []string) error {
	result, ok := loadEventsReported()
	if !ok {
		return nil
	}

	out := report.RenderChart(aggregate(result.Events))
	fmt.Print(out)

	if flagChartSave {
		dir := outputDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		path := filepath.Join(dir, "cost-report.txt")
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Saved to %s\n", path)
		}
	}

	return nil
}
