package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"groupcmd/internal/queueview"
)

var (
	queuesScenario scenarioFlags
	queuesPlain    bool
)

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "Show unit command queues after the script",
	Long:  "queues dispatches a scenario's script and shows every unit's command queue, interactively when STDOUT is a terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		sc, s, err := openSession(queuesScenario, nil)
		if err != nil {
			return err
		}
		if err := s.Run(ctx, sc.Commands, 0); err != nil {
			return err
		}

		if queuesPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), queueview.Text(s.Units()))
			return nil
		}
		v := queueview.NewViewer(s.Units)
		go func() {
			<-ctx.Done()
			_ = v.Close()
		}()
		v.Wait()
		return nil
	},
}

func init() {
	queuesScenario.register(queuesCmd)
	queuesCmd.Flags().BoolVar(&queuesPlain, "plain", false, "Print plain text even on a terminal")
}
