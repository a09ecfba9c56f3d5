package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/cli"
	"github.com/openclaw/clawmon/internal/model"
	"github.com/openclaw/clawmon/internal/source"
)

const flushTail = 20

var flushCmd = &cobra.Command{
	Use:   "flush <agent:account:user>",
	Short: "Print the tail transcript of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlush,
}

func init() {
	rootCmd.AddCommand(flushCmd)
}

func runFlush(_ *cobra.Command, args []string) error {
	key, err := model.ParseSessionKey(args[0])
	if err != nil {
		return err
	}

	path := source.SessionPath(sessionsDir(), key)
	sess, err := source.LoadSession(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("session %s not found", key)
		}
		return fmt.Errorf("reading session %s: %w", key, err)
	}

	var tail []model.Message
	for _, m := range sess.Messages {
		if m.Content == "" {
			continue
		}
		tail = append(tail, m)
	}
	if len(tail) == 0 {
		fmt.Printf("\n  %s: nothing to flush\n", key)
		return nil
	}
	if len(tail) > flushTail {
		tail = tail[len(tail)-flushTail:]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSION  %s", key)))
	fmt.Println()
	for _, m := range tail {
		fmt.Printf("  %s: %s\n", m.Role, m.Content)
	}

	return nil
}
