package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/internal/report"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML status report",
	Long: `Collect model state from the ml service and registry rows and corpus
counts from storage, then render them into an HTML file.`,
	Example: `  loghound report
  loghound report --dir /tmp/reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Defaults.ReportDir
		}

		ml := client.NewMLClient(cfg.Defaults.MLURL)
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		summary, err := ml.Summary()
		if err != nil {
			return fmt.Errorf("failed to fetch model summary: %w", err)
		}
		models, err := storage.ListModels()
		if err != nil {
			return fmt.Errorf("failed to fetch model registry: %w", err)
		}

		data := report.Data{
			GeneratedAt: time.Now(),
			Summary:     summary,
			Models:      models,
		}
		data.TotalLogs = pageTotal(func() (*int, error) {
			page, err := storage.ListLogs(0, 1, false)
			return page.Total, err
		})
		data.TotalVectors = pageTotal(func() (*int, error) {
			page, err := storage.ListVectors(0, 1, false)
			return page.Total, err
		})
		data.CleanVectors = pageTotal(func() (*int, error) {
			page, err := storage.ListVectors(0, 1, true)
			return page.Total, err
		})

		path, err := report.Write(dir, data)
		if err != nil {
			return err
		}
		output.Success("Report written to %s", path)
		return nil
	},
}

// pageTotal fetches a count, treating failures as zero so a report
// still renders when one endpoint is down.
func pageTotal(fetch func() (*int, error)) int {
	total, err := fetch()
	if err != nil || total == nil {
		return 0
	}
	return *total
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("dir", "", "output directory (default: config report_dir)")
}
