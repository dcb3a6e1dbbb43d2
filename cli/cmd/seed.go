package cmd

import (
	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/seeder"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic dataset",
	Long: `Write synthetic BGL-format log lines to a file the collector can
serve. The same seed always produces the same file.`,
	Example: `  loghound seed --count 10000 --out ./bgl.log
  loghound seed --count 50000 --alert-ratio 0.05 --seed 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		out, _ := cmd.Flags().GetString("out")
		ratio, _ := cmd.Flags().GetFloat64("alert-ratio")
		seed, _ := cmd.Flags().GetInt64("seed")

		summary, err := seeder.Run(seeder.Options{
			Count:      count,
			AlertRatio: ratio,
			Seed:       seed,
			Out:        out,
		})
		if err != nil {
			return err
		}

		output.Success("Wrote %d lines (%d alerts) to %s", summary.Lines, summary.Alerts, summary.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("count", 10000, "number of lines to generate")
	seedCmd.Flags().String("out", "./bgl.log", "output file")
	seedCmd.Flags().Float64("alert-ratio", 0.08, "fraction of alert lines")
	seedCmd.Flags().Int64("seed", 42, "random seed")
}
