package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/report"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Cost by agent",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(_ *cobra.Command, _ []string) error {
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
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COST BY AGENT  Last %dd", flagDays)))
	fmt.Println()

	maxCost := r.ByAgent[0].Cost
	rows := make([][]string, 0, len(r.ByAgent))
	for _, ac := range r.ByAgent {
		rows = append(rows, []string{
			ac.Agent,
			cli.FormatUSD(ac.Cost),
			cli.RenderHorizontalBar(ac.Cost, maxCost, 20),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Agent", "Cost", ""},
		Rows:    rows,
	}))

	return nil
}
