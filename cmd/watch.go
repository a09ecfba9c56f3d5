package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live usage dashboard",
	Long:  "Full-screen dashboard that refreshes as agent logs change.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	return watch.Run(watch.Options{
		AgentsDir:   agentsDir(),
		MirrorModel: cfg.Accounting.MirrorModel,
		Days:        flagDays,
		UseCache:    !flagNoCache,
	})
}
