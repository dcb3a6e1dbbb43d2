package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine templates and load event vectors into storage",
	Long: `Run template mining on the miner service, then page the resulting
per-line vectors into storage and replace the stored template dictionary.`,
	Example: `  loghound mine
  loghound mine --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		batch, _ := cmd.Flags().GetInt("batch")
		batch = batchSize(batch)

		miner := client.NewMinerClient(cfg.Defaults.MinerURL)
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		result, err := miner.Build(force)
		if err != nil {
			return fmt.Errorf("failed to build artifacts: %w", err)
		}
		output.Info("mined %d templates from %d lines (vocab %d)",
			result.Meta.Templates, result.Meta.NumDocs, result.Meta.VocabSize)

		offset := 0
		inserted := 0
		for {
			page, err := miner.CollectVectors(offset, batch)
			if err != nil {
				return fmt.Errorf("failed to collect vectors: %w", err)
			}
			if len(page.Data) == 0 {
				break
			}

			n, err := storage.BulkInsertVectors(page.Data)
			if err != nil {
				return fmt.Errorf("failed to store vectors: %w", err)
			}
			inserted += n
			offset = page.End
			output.Info("loaded %d vectors", inserted)
		}

		templates, err := fetchTemplates(miner, batch)
		if err != nil {
			return err
		}
		stored, err := storage.ReplaceTemplates(templates)
		if err != nil {
			return fmt.Errorf("failed to store templates: %w", err)
		}

		output.Success("Mined %d templates, loaded %d vectors into storage", stored, inserted)
		return nil
	},
}

// fetchTemplates pages the miner's template dictionary.
func fetchTemplates(miner *client.MinerClient, batch int) ([]client.Template, error) {
	var templates []client.Template
	offset := 0
	for {
		tv, err := miner.TemplateVectors(offset, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch templates: %w", err)
		}
		for _, row := range tv.Rows {
			templates = append(templates, client.Template{TemplID: row.TemplID, Template: row.Template})
		}
		if tv.End >= tv.Total || len(tv.Rows) == 0 {
			break
		}
		offset = tv.End
	}
	return templates, nil
}

func init() {
	rootCmd.AddCommand(mineCmd)

	mineCmd.Flags().Bool("force", false, "rebuild artifacts even if a complete set exists")
	mineCmd.Flags().Int("batch", 0, "vectors per request (default: config batch_size)")
}
