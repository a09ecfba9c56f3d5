package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/source"
)

var flagSessionsAccount string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List session documents with idle age",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&flagSessionsAccount, "account", "", "Only show sessions for this account")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	sessions, err := source.ListSessions(sessionsDir())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("\n  No sessions found.")
		return nil
	}

	now := time.Now()
	threshold := cfg.IdleThreshold()

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		if flagSessionsAccount != "" && s.Key.Account != flagSessionsAccount {
			continue
		}

		lastStr, ageStr, idle := "-", "-", ""
		if last := s.LastActivity(); !last.IsZero() {
			age := now.Sub(last)
			lastStr = last.Local().Format("Jan 02 15:04")
			ageStr = cli.FormatAge(age)
			if age > threshold {
				idle = "idle"
			}
		}

		rows = append(rows, []string{
			s.Key.String(),
			fmt.Sprintf("%d", len(s.Messages)),
			lastStr,
			ageStr,
			idle,
		})
	}
	if len(rows) == 0 {
		fmt.Printf("\n  No sessions for account %q.\n", flagSessionsAccount)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSIONS  %d active", len(rows))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Session", "Messages", "Last Activity", "Age", ""},
		Rows:    rows,
	}))

	return nil
}
