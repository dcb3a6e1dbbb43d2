package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/cli/pkg/output"
	"github.com/loghound-systems/loghound-stack/common/sparse"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a one-class detector on the clean corpus",
	Long: `Assemble a training set from storage, filtered to non-alert rows, and
train the matching detector on the ml service. --source vectors trains
on mined event vectors, --source text on raw log messages.`,
	Example: `  loghound train
  loghound train --source text --max 50000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		batch, _ := cmd.Flags().GetInt("batch")
		max, _ := cmd.Flags().GetInt("max")
		batch = batchSize(batch)

		ml := client.NewMLClient(cfg.Defaults.MLURL)
		storage := client.NewStorageClient(cfg.Defaults.StorageURL)

		var resp client.TrainResponse
		var rows int
		var err error

		switch source {
		case "vectors":
			resp, rows, err = trainOnVectors(storage, ml, batch, max)
		case "text":
			resp, rows, err = trainOnTexts(storage, ml, batch, max)
		default:
			return fmt.Errorf("unknown source %q (want vectors or text)", source)
		}
		if err != nil {
			return err
		}

		if jsonOutput() {
			return output.JSON(resp)
		}
		output.Success("Trained %s model on %d rows", source, rows)
		output.Info("  path: %s", resp.Path)
		output.Info("  dim: %d, support vectors: %d, train outlier fraction: %.4f",
			resp.Stats.Dim, resp.Stats.SupportVectors, resp.Stats.TrainOutlierFraction)
		return nil
	},
}

func trainOnVectors(storage *client.StorageClient, ml *client.MLClient, batch, max int) (client.TrainResponse, int, error) {
	var training []sparse.Vector
	offset := 0
	for {
		page, err := storage.ListVectors(offset, batch, true)
		if err != nil {
			return client.TrainResponse{}, 0, fmt.Errorf("failed to fetch training vectors: %w", err)
		}
		if len(page.Data) == 0 {
			break
		}
		training = append(training, toSparse(page.Data)...)
		offset = page.End
		if max > 0 && len(training) >= max {
			training = training[:max]
			break
		}
	}
	if len(training) == 0 {
		return client.TrainResponse{}, 0, fmt.Errorf("no vectors in storage; run 'loghound collect' and 'loghound mine' first")
	}

	resp, err := ml.TrainVectors(training)
	if err != nil {
		return client.TrainResponse{}, 0, fmt.Errorf("training failed: %w", err)
	}
	return resp, len(training), nil
}

func trainOnTexts(storage *client.StorageClient, ml *client.MLClient, batch, max int) (client.TrainResponse, int, error) {
	var texts []string
	offset := 0
	for {
		page, err := storage.ListLogs(offset, batch, true)
		if err != nil {
			return client.TrainResponse{}, 0, fmt.Errorf("failed to fetch training texts: %w", err)
		}
		if len(page.Data) == 0 {
			break
		}
		for _, log := range page.Data {
			texts = append(texts, log.Message)
		}
		offset = page.End
		if max > 0 && len(texts) >= max {
			texts = texts[:max]
			break
		}
	}
	if len(texts) == 0 {
		return client.TrainResponse{}, 0, fmt.Errorf("no log lines in storage; run 'loghound collect' first")
	}

	resp, err := ml.TrainTexts(texts)
	if err != nil {
		return client.TrainResponse{}, 0, fmt.Errorf("training failed: %w", err)
	}
	return resp, len(texts), nil
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("source", "vectors", "training source: vectors or text")
	trainCmd.Flags().Int("batch", 0, "rows per storage request (default: config batch_size)")
	trainCmd.Flags().Int("max", 0, "cap on training rows (0 = all)")
}
