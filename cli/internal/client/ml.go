package client

import (
	"fmt"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

type MLClient struct {
	baseURL string
	client  *http.Client
}

func NewMLClient(baseURL string) *MLClient {
	return &MLClient{baseURL: baseURL, client: newHTTPClient()}
}

// TrainStats reports what the detector learned.
type TrainStats struct {
	Rows                 int     `json:"rows"`
	Dim                  int     `json:"dim"`
	Gamma                float64 `json:"gamma"`
	SupportVectors       int     `json:"support_vectors"`
	TrainOutlierFraction float64 `json:"train_outlier_fraction"`
	Iterations           int     `json:"iterations"`
}

// TrainResponse is the ml service's training response.
type TrainResponse struct {
	Status     string     `json:"status"`
	Path       string     `json:"path"`
	Stats      TrainStats `json:"stats"`
	Vectorizer string     `json:"vectorizer,omitempty"`
}

// Prediction carries per-row labels (-1 anomaly, 1 normal) and signed
// decision scores.
type Prediction struct {
	Labels []int     `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Summary reports which model artifacts exist on the ml service.
type Summary struct {
	TextModelPath   string      `json:"text_model_path"`
	TextExists      bool        `json:"text_exists"`
	TextStats       *TrainStats `json:"text_stats,omitempty"`
	VectorModelPath string      `json:"vec_model_path"`
	VectorExists    bool        `json:"vec_exists"`
	VectorStats     *TrainStats `json:"vec_stats,omitempty"`
}

func (c *MLClient) TrainVectors(vectors []sparse.Vector) (TrainResponse, error) {
	var resp TrainResponse
	if err := do(c.client, http.MethodPost, c.baseURL+"/train_vectors", vectors, &resp); err != nil {
		return TrainResponse{}, fmt.Errorf("train vectors: %w", err)
	}
	return resp, nil
}

func (c *MLClient) PredictVectors(vectors []sparse.Vector) (Prediction, error) {
	var resp Prediction
	if err := do(c.client, http.MethodPost, c.baseURL+"/predict_vectors", vectors, &resp); err != nil {
		return Prediction{}, fmt.Errorf("predict vectors: %w", err)
	}
	return resp, nil
}

func (c *MLClient) TrainTexts(texts []string) (TrainResponse, error) {
	var resp TrainResponse
	payload := map[string][]string{"texts": texts}
	if err := do(c.client, http.MethodPost, c.baseURL+"/train", payload, &resp); err != nil {
		return TrainResponse{}, fmt.Errorf("train texts: %w", err)
	}
	return resp, nil
}

func (c *MLClient) PredictTexts(texts []string) (Prediction, error) {
	var resp Prediction
	payload := map[string][]string{"texts": texts}
	if err := do(c.client, http.MethodPost, c.baseURL+"/predict", payload, &resp); err != nil {
		return Prediction{}, fmt.Errorf("predict texts: %w", err)
	}
	return resp, nil
}

func (c *MLClient) Summary() (Summary, error) {
	var summary Summary
	if err := do(c.client, http.MethodGet, c.baseURL+"/summary", nil, &summary); err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	return summary, nil
}

func (c *MLClient) Health() error {
	return checkHealth(c.client, c.baseURL)
}
