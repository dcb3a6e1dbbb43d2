package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Load the dataset into storage",
	Long:  "Page parsed log lines from the collector service and bulk-insert them into storage",
	Example: `  loghound collect
  loghound collect --batch 500 --max 10000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetInt("batch")
		max, _ := cmd.Flags().GetInt("max")
		batch = batchSize(batch)

		collector := client.NewCollectorClient(cfg.Defaults.CollectorURL)
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		offset := 0
		inserted := 0
		for {
			page, err := collector.Collect(offset, batch)
			if err != nil {
				return fmt.Errorf("failed to collect lines: %w", err)
			}
			if len(page.Data) == 0 {
				break
			}

			n, err := storage.BulkInsertLogs(page.Data)
			if err != nil {
				return fmt.Errorf("failed to store lines: %w", err)
			}
			inserted += n
			offset = page.End

			output.Info("loaded %d lines", inserted)
			if max > 0 && inserted >= max {
				break
			}
		}

		if inserted == 0 {
			output.Warn("dataset is empty, nothing loaded")
			return nil
		}
		output.Success("Loaded %d lines into storage", inserted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().Int("batch", 0, "lines per request (default: config batch_size)")
	collectCmd.Flags().Int("max", 0, "stop after this many lines (0 = all)")
}
