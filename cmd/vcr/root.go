package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hsmkit/hsm/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "vcr",
	Short: "vcr is the hsm cassette-recorder demo",
	Long:  `vcr drives the canonical hierarchical state-machine demo: a cassette recorder with standby, idle, playback, and recording sections.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("chart", "", "Load the machine from a chart file instead of the built-in definition")
	rootCmd.PersistentFlags().String("root", "Off", "Start state path (used with --chart)")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func machineFromFlags(cmd *cobra.Command) (*machine, error) {
	chartPath, _ := cmd.Flags().GetString("chart")
	rootPath, _ := cmd.Flags().GetString("root")
	return loadMachine(chartPath, rootPath)
}
