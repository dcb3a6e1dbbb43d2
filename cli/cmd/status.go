package cmd

import (
	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check service health",
	Long:  "Probe every stack service's health endpoint and report which models are trained",
	RunE: func(cmd *cobra.Command, args []string) error {
		services := []struct {
			name  string
			url   string
			check func() error
		}{
			{"collector", cfg.Defaults.CollectorURL, client.NewCollectorClient(cfg.Defaults.CollectorURL).Health},
			{"storage", cfg.Defaults.StorageURL, client.NewStorageClient(cfg.Defaults.StorageURL).Health},
			{"ml", cfg.Defaults.MLURL, client.NewMLClient(cfg.Defaults.MLURL).Health},
			{"miner", cfg.Defaults.MinerURL, client.NewMinerClient(cfg.Defaults.MinerURL).Health},
		}

		type serviceStatus struct {
			Name   string `json:"name"`
			URL    string `json:"url"`
			Status string `json:"status"`
		}
		statuses := make([]serviceStatus, 0, len(services))
		for _, svc := range services {
			status := "ok"
			if err := svc.check(); err != nil {
				status = "unreachable"
			}
			statuses = append(statuses, serviceStatus{Name: svc.name, URL: svc.url, Status: status})
		}

		if jsonOutput() {
			return output.JSON(statuses)
		}

		table := output.NewTable([]string{"SERVICE", "URL", "STATUS"})
		for _, s := range statuses {
			table.AddRow([]string{s.Name, s.URL, s.Status})
		}
		table.Render()

		if summary, err := client.NewMLClient(cfg.Defaults.MLURL).Summary(); err == nil {
			describeModel := func(name string, exists bool) {
				if exists {
					output.Info("%s model: trained", name)
				} else {
					output.Warn("%s model: not trained", name)
				}
			}
			describeModel("text", summary.TextExists)
			describeModel("vector", summary.VectorExists)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
