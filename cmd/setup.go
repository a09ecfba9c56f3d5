package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	c, _ := config.Load()

	rootDir := c.General.RootDir
	days := c.General.DefaultDays
	account := c.Monitor.Account
	threshold := strconv.Itoa(c.Monitor.IdleThresholdSecs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenClaw root directory").
				Description("Agent logs live under <root>/agents, sessions under <root>/sessions.").
				Value(&rootDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("root directory is required")
					}
					return nil
				}),
			huh.NewSelect[int]().
				Title("Default report window").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
				).
				Value(&days),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monitored account").
				Description("Only sessions of this account are ever reset.").
				Value(&account),
			huh.NewInput().
				Title("Idle threshold (seconds)").
				Value(&threshold).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return errors.New("enter a positive number of seconds")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	c.General.RootDir = strings.TrimSpace(rootDir)
	c.General.DefaultDays = days
	c.Monitor.Account = strings.TrimSpace(account)
	c.Monitor.IdleThresholdSecs, _ = strconv.Atoi(strings.TrimSpace(threshold))

	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `clawmon setup` anytime to reconfigure.")
	return nil
}
