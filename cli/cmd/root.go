package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "loghound",
	Short: "LogHound Stack CLI",
	Long: `loghound drives the BGL anomaly detection stack.

Load dataset lines into storage, mine message templates and event
vectors, train one-class detectors, score batches, and render reports
from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.loghound/config.yaml)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// jsonOutput reports whether --output json was requested.
func jsonOutput() bool {
	format, _ := rootCmd.PersistentFlags().GetString("output")
	return format == "json"
}
