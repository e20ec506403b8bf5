package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"groupcmd/internal/config"
	"groupcmd/internal/journal"
	"groupcmd/internal/logging"
	"groupcmd/internal/sim"
)

var (
	dispatchScenario scenarioFlags
	dispatchWriters  writerFlags
	dispatchInterval time.Duration
	dispatchRunID    string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run a scenario's command script",
	Long:  "dispatch issues every scripted command of a scenario, journals the per-unit orders and prints the order digest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		w, cleanup, err := newJournalWriter(dispatchWriters)
		if err != nil {
			return err
		}
		defer cleanup()

		j := journal.New(ctx, dispatchRunID, w)
		sc, s, err := openSession(dispatchScenario, j)
		if err != nil {
			return err
		}
		if err := s.Run(ctx, sc.Commands, dispatchInterval); err != nil {
			return err
		}
		printSummary(cmd.ErrOrStderr(), s.Stats())
		return nil
	},
}

func init() {
	dispatchScenario.register(dispatchCmd)
	dispatchCmd.Flags().BoolVar(&dispatchWriters.printOnly, "print-only", false, "Print orders to STDOUT instead of writing to GreptimeDB")
	dispatchCmd.Flags().StringVar(&dispatchWriters.logFile, "log-file", "", "Path to export orders (JSONL); issues go to <path>.issues")
	dispatchCmd.Flags().StringVar(&dispatchWriters.sqlitePath, "sqlite", "", "Path to a SQLite order journal")
	dispatchCmd.Flags().DurationVar(&dispatchInterval, "interval", 0, "Pause between scripted commands (e.g. 500ms)")
	dispatchCmd.Flags().StringVar(&dispatchRunID, "run-id", "", "Run identifier stamped on journal rows (default: random UUID)")
}

// signalContext carries the default logger and is cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx := logging.NewContext(parent, slog.Default())
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// openSession loads and builds a scenario and wraps it in a session journaled by j.
func openSession(f scenarioFlags, j *journal.Journal) (*config.Scenario, *sim.Session, error) {
	sc, err := config.Load(f.configPath, f.schemaPath)
	if err != nil {
		return nil, nil, err
	}
	w, err := sc.Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, sim.NewSession(w, j), nil
}

func printSummary(out io.Writer, st sim.Stats) {
	fmt.Fprintf(out, "run %s: %d commands, %d orders, digest %s\n", st.RunID, st.Issued, st.Orders, st.Digest)
}
