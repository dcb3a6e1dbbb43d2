package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Model registry commands",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered models",
	Long:  "Show the registry rows storage has recorded for trained models, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		entries, err := storage.ListModels()
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		if jsonOutput() {
			return output.JSON(entries)
		}

		if len(entries) == 0 {
			output.Info("No registered models")
			return nil
		}

		table := output.NewTable([]string{"ID", "NAME", "VERSION", "PATH", "NOTES", "CREATED"})
		for _, e := range entries {
			table.AddRow([]string{
				strconv.FormatInt(e.ID, 10),
				e.Name,
				e.Version,
				e.Path,
				e.Notes,
				e.CreatedAt,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
}
