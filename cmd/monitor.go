package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/monitor"
)

var (
	flagMonThreshold   time.Duration
	flagMonAccount     string
	flagMonSessionsDir string
	flagMonInterval    time.Duration
	flagMonDryRun      bool
	flagMonLogFile     string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Reset idle sessions",
	Long: "Scan the session store and send /new to sessions of the monitored\n" +
		"account that have been idle past the threshold. Without --interval a\n" +
		"single pass runs; the command always exits 0 so schedulers never see\n" +
		"a transient scan problem as a failure.",
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&flagMonThreshold, "threshold", 0, "Idle threshold (default from config)")
	monitorCmd.Flags().StringVar(&flagMonAccount, "account", "", "Monitored account (default from config)")
	monitorCmd.Flags().StringVar(&flagMonSessionsDir, "sessions-dir", "", "Session store (default <root>/sessions)")
	monitorCmd.Flags().DurationVar(&flagMonInterval, "interval", 0, "Repeat passes on this interval (0 = single pass)")
	monitorCmd.Flags().BoolVar(&flagMonDryRun, "dry-run", false, "Report idle sessions without resetting them")
	monitorCmd.Flags().StringVar(&flagMonLogFile, "log-file", "", "Append monitor output to this file instead of stderr")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := monitorLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		return nil
	}
	defer closeLog()

	threshold := cfg.IdleThreshold()
	if flagMonThreshold > 0 {
		threshold = flagMonThreshold
	}
	account := cfg.Monitor.Account
	if flagMonAccount != "" {
		account = flagMonAccount
	}
	dir := sessionsDir()
	if flagMonSessionsDir != "" {
		dir = flagMonSessionsDir
	}

	m := &monitor.Monitor{
		SessionsDir: dir,
		Account:     account,
		Threshold:   threshold,
		Dispatcher:  monitor.NewExecDispatcher(cfg.Monitor.Command, cfg.DispatchTimeout()),
		DryRun:      flagMonDryRun,
		Logger:      logger,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if flagMonInterval > 0 {
		logger.Printf("monitor: watching %s every %s (threshold %s, account %s)",
			dir, flagMonInterval, threshold, account)
		if err := m.Run(ctx, flagMonInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("monitor: %v", err)
		}
		return nil
	}

	res, err := m.Pass(ctx, time.Now())
	if err != nil {
		logger.Printf("monitor: pass failed: %v", err)
		return nil
	}
	logger.Printf("monitor: %d scanned, %d idle, %d reset, %d skipped, %d errors",
		res.Scanned, res.Candidates, res.Resets, res.Skipped, res.Errors)
	return nil
}

func monitorLogger() (*log.Logger, func(), error) {
	if flagMonLogFile == "" {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(flagMonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}
