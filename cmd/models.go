package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/report"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Cost by model",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
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
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COST BY MODEL  Last %dd", flagDays)))
	fmt.Println()

	maxCost := r.ByModel[0].Cost
	rows := make([][]string, 0, len(r.ByModel))
	for _, mc := range r.ByModel {
		rows = append(rows, []string{
			mc.Model,
			cli.FormatUSD(mc.Cost),
			cli.RenderHorizontalBar(mc.Cost, maxCost, 20),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Cost", ""},
		Rows:    rows,
	}))

	return nil
}
