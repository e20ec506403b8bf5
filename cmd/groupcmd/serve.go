package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"groupcmd/internal/admin"
	"groupcmd/internal/journal"
)

var (
	serveScenario scenarioFlags
	serveWriters  writerFlags
	serveAddr     string
	serveScript   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin HTTP interface",
	Long:  "serve loads a scenario and accepts selections and group commands over HTTP until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		w, cleanup, err := newJournalWriter(serveWriters)
		if err != nil {
			return err
		}
		defer cleanup()

		sc, s, err := openSession(serveScenario, journal.New(ctx, "", w))
		if err != nil {
			return err
		}
		if serveScript {
			if err := s.Run(ctx, sc.Commands, 0); err != nil {
				return err
			}
		}

		srv := admin.NewServer(s, slog.Default())
		if err := srv.Start(ctx, serveAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		slog.Info("admin stopped", "commands", s.Stats().Issued)
		return nil
	},
}

func init() {
	serveScenario.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveScript, "run-script", false, "Dispatch the scenario's command script before serving")
	serveCmd.Flags().BoolVar(&serveWriters.printOnly, "print-only", false, "Print orders to STDOUT")
	serveCmd.Flags().StringVar(&serveWriters.logFile, "log-file", "", "Path to export orders (JSONL)")
	serveCmd.Flags().StringVar(&serveWriters.sqlitePath, "sqlite", "", "Path to a SQLite order journal")
}
