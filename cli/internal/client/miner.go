package client

import (
	"fmt"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

type MinerClient struct {
	baseURL string
	client  *http.Client
}

func NewMinerClient(baseURL string) *MinerClient {
	return &MinerClient{baseURL: baseURL, client: newHTTPClient()}
}

// MinerMeta summarizes a completed mining run.
type MinerMeta struct {
	NumDocs   int `json:"num_docs"`
	VocabSize int `json:"vocab_size"`
	Templates int `json:"templates"`
}

// BuildResult is the miner's /build response.
type BuildResult struct {
	Status      string    `json:"status"`
	Meta        MinerMeta `json:"meta"`
	DatasetPath string    `json:"dataset_path"`
}

// Build runs template mining. Without force an existing artifact set
// is reused.
func (c *MinerClient) Build(force bool) (BuildResult, error) {
	url := c.baseURL + "/build"
	if force {
		url += "?force=true"
	}
	var result BuildResult
	if err := do(c.client, http.MethodPost, url, nil, &result); err != nil {
		return BuildResult{}, fmt.Errorf("build: %w", err)
	}
	return result, nil
}

// CollectVectors fetches one window of per-line one-hot vectors,
// triggering a build on the miner side if none has happened yet.
func (c *MinerClient) CollectVectors(offset, limit int) (Page[EventVector], error) {
	var page Page[EventVector]
	url := fmt.Sprintf("%s/collect_vectors?offset=%d&limit=%d", c.baseURL, offset, limit)
	if err := do(c.client, http.MethodGet, url, nil, &page); err != nil {
		return Page[EventVector]{}, fmt.Errorf("collect vectors: %w", err)
	}
	return page, nil
}

// TemplateVector is one mined template with its sparse tf-idf
// embedding.
type TemplateVector struct {
	TemplID  int           `json:"templ_id"`
	Template string        `json:"template"`
	Vector   sparse.Vector `json:"vector"`
}

// TemplateVectorBatch pages through the template dictionary.
type TemplateVectorBatch struct {
	Start int              `json:"start"`
	End   int              `json:"end"`
	Total int              `json:"total"`
	Dim   int              `json:"dim"`
	Rows  []TemplateVector `json:"rows"`
}

func (c *MinerClient) TemplateVectors(offset, limit int) (TemplateVectorBatch, error) {
	var batch TemplateVectorBatch
	url := fmt.Sprintf("%s/templates/vectors?offset=%d&limit=%d", c.baseURL, offset, limit)
	if err := do(c.client, http.MethodGet, url, nil, &batch); err != nil {
		return TemplateVectorBatch{}, fmt.Errorf("template vectors: %w", err)
	}
	return batch, nil
}

func (c *MinerClient) Health() error {
	return checkHealth(c.client, c.baseURL)
}
