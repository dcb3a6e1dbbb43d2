package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
)

// predictionRow pairs one scored row with its ground truth tag.
type predictionRow struct {
	LineID   int     `json:"line_id"`
	AlertTag string  `json:"alert_tag"`
	IsAlert  bool    `json:"is_alert"`
	Label    int     `json:"label"`
	Score    float64 `json:"score"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a window of stored rows",
	Long: `Fetch one window of rows from storage, score it with the trained
detector, and show per-row labels next to the dataset's alert tags.`,
	Example: `  loghound predict --limit 50
  loghound predict --source text --offset 1000 --limit 100 --anomalies-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		offset, _ := cmd.Flags().GetInt("offset")
		limit, _ := cmd.Flags().GetInt("limit")
		anomaliesOnly, _ := cmd.Flags().GetBool("anomalies-only")

		ml := client.NewMLClient(cfg.Defaults.MLURL)
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		var rows []predictionRow
		var err error

		switch source {
		case "vectors":
			rows, err = predictVectors(storage, ml, offset, limit)
		case "text":
			rows, err = predictTexts(storage, ml, offset, limit)
		default:
			return fmt.Errorf("unknown source %q (want vectors or text)", source)
		}
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			output.Warn("no rows in the requested window")
			return nil
		}

		total := len(rows)
		anomalies := 0
		for _, row := range rows {
			if row.Label == -1 {
				anomalies++
			}
		}

		if anomaliesOnly {
			filtered := rows[:0]
			for _, row := range rows {
				if row.Label == -1 {
					filtered = append(filtered, row)
				}
			}
			rows = filtered
		}

		if jsonOutput() {
			return output.JSON(map[string]interface{}{
				"rows":      rows,
				"anomalies": anomalies,
			})
		}

		table := output.NewTable([]string{"LINE", "TAG", "LABEL", "SCORE"})
		for _, row := range rows {
			label := "normal"
			if row.Label == -1 {
				label = "anomaly"
			}
			table.AddRow([]string{
				strconv.Itoa(row.LineID),
				row.AlertTag,
				label,
				fmt.Sprintf("%.6f", row.Score),
			})
		}
		table.Render()
		output.Info("%d of %d rows flagged as anomalies", anomalies, total)
		return nil
	},
}

func predictVectors(storage *client.StorageClient, ml *client.MLClient, offset, limit int) ([]predictionRow, error) {
	page, err := storage.ListVectors(offset, limit, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}
	if len(page.Data) == 0 {
		return nil, nil
	}

	pred, err := ml.PredictVectors(toSparse(page.Data))
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}
	if len(pred.Labels) != len(page.Data) {
		return nil, fmt.Errorf("prediction returned %d labels for %d rows", len(pred.Labels), len(page.Data))
	}

	rows := make([]predictionRow, len(page.Data))
	for i, v := range page.Data {
		rows[i] = predictionRow{
			LineID:   v.LineID,
			AlertTag: v.AlertTag,
			IsAlert:  v.IsAlert,
			Label:    pred.Labels[i],
			Score:    pred.Scores[i],
		}
	}
	return rows, nil
}

func predictTexts(storage *client.StorageClient, ml *client.MLClient, offset, limit int) ([]predictionRow, error) {
	page, err := storage.ListLogs(offset, limit, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}
	if len(page.Data) == 0 {
		return nil, nil
	}

	texts := make([]string, len(page.Data))
	for i, log := range page.Data {
		texts[i] = log.Message
	}

	pred, err := ml.PredictTexts(texts)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}
	if len(pred.Labels) != len(page.Data) {
		return nil, fmt.Errorf("prediction returned %d labels for %d rows", len(pred.Labels), len(page.Data))
	}

	rows := make([]predictionRow, len(page.Data))
	for i, log := range page.Data {
		rows[i] = predictionRow{
			LineID:   log.LineID,
			AlertTag: log.AlertTag,
			IsAlert:  log.IsAlert,
			Label:    pred.Labels[i],
			Score:    pred.Scores[i],
		}
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("source", "vectors", "prediction source: vectors or text")
	predictCmd.Flags().Int("offset", 0, "window start")
	predictCmd.Flags().Int("limit", 100, "window size")
	predictCmd.Flags().Bool("anomalies-only", false, "show only rows flagged as anomalies")
}
