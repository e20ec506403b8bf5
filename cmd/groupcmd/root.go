package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"groupcmd/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "groupcmd",
	Short: "Group command dispatch toolkit",
	Long:  "groupcmd dispatches scripted group commands against a scenario, journals the per-unit orders and replays them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.NewWithLevel(os.Stderr, logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(l)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queuesCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// scenarioFlags are shared by every command that loads a scenario.
type scenarioFlags struct {
	configPath string
	schemaPath string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "config/scenario.yaml", "Path to scenario YAML")
	cmd.Flags().StringVar(&f.schemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
}
