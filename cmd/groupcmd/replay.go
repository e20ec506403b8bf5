package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"groupcmd/internal/journal"
	"groupcmd/internal/logging"
	"groupcmd/internal/unit"
)

var (
	replayScenario scenarioFlags
	replayWriters  writerFlags
	replayInput    string
	replayOrders   string
	replaySpeed    float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-issue a journaled command log",
	Long: "replay feeds the raw commands of an issue log back through the dispatcher on a fresh scenario " +
		"and, given the original order log, checks that the emitted orders hash to the same digest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		w, cleanup, err := newJournalWriter(replayWriters)
		if err != nil {
			return err
		}
		defer cleanup()

		j := journal.New(ctx, "", w)
		_, s, err := openSession(replayScenario, j)
		if err != nil {
			return err
		}
		err = journal.ReplayIssueFile(replayInput, replaySpeed, func(row journal.IssueRow) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.Select(row.Player, row.Selection)
			if err := s.Issue(ctx, row.Player, row.Command()); err != nil {
				// the recorded run logged this issue before rejecting it too
				logging.FromContext(ctx).Warn("replayed command rejected", "seq", row.Seq, "err", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		st := s.Stats()
		printSummary(cmd.ErrOrStderr(), st)

		if replayOrders == "" {
			return nil
		}
		want, n, err := orderLogDigest(replayOrders)
		if err != nil {
			return err
		}
		if want != j.Sum64() || n != st.Orders {
			return fmt.Errorf("replay diverged: recorded %d orders digest %016x, replayed %d orders digest %s", n, want, st.Orders, st.Digest)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "replay matches %s\n", replayOrders)
		return nil
	},
}

func init() {
	replayScenario.register(replayCmd)
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to issue log file")
	replayCmd.Flags().StringVar(&replayOrders, "orders", "", "Path to the recorded order log to compare against")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier (0 replays without delay)")
	replayCmd.Flags().BoolVar(&replayWriters.printOnly, "print-only", false, "Print replayed orders to STDOUT")
	replayCmd.Flags().StringVar(&replayWriters.logFile, "log-file", "", "Path to export replayed orders (JSONL)")
	replayCmd.Flags().StringVar(&replayWriters.sqlitePath, "sqlite", "", "Path to a SQLite order journal")
	replayCmd.MarkFlagRequired("input")
}

// orderLogDigest hashes the orders of a JSONL order log.
func orderLogDigest(path string) (uint64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	rows, err := journal.ReadOrders(f)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	orders := make([]unit.Order, len(rows))
	for i, r := range rows {
		orders[i] = r.Order()
	}
	return journal.DigestOrders(orders), len(orders), nil
}
