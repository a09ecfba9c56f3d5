package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/report"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily cost table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	result, ok := loadEventsReported()
	if !ok {
		return nil
	}

	r := aggregate(result.Events)
	if r.Empty() {
		fmt.Println("\n  " + report.NoDataMessage)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY USAGE  Last %dd", flagDays)))
	fmt.Println()

	rows := make([][]string, 0, len(r.Daily))
	for _, d := range r.Daily {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			cli.FormatDayOfWeek(d.Date.Weekday()),
			cli.FormatUSD(d.Cost),
			cli.FormatTokens(d.TotalTokens()),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Cost", "Tokens"},
		Rows:    rows,
	}))

	return nil
}
