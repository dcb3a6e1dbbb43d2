package client

import (
	"fmt"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/bgl"
)

type StorageClient struct {
	baseURL string
	client  *http.Client
}

func NewStorageClient(baseURL string) *StorageClient {
	return &StorageClient{baseURL: baseURL, client: newHTTPClient()}
}

// StoredLog is a log corpus row as returned by the storage service.
type StoredLog struct {
	ID       int64  `json:"id"`
	LineID   int    `json:"line_id"`
	AlertTag string `json:"alert_tag"`
	IsAlert  bool   `json:"is_alert"`
	Raw      string `json:"raw"`
	Message  string `json:"message"`
}

func (c *StorageClient) BulkInsertLogs(logs []bgl.LogRecord) (int, error) {
	var resp struct {
		Inserted int `json:"inserted"`
	}
	if err := do(c.client, http.MethodPost, c.baseURL+"/bgl/logs/bulk", logs, &resp); err != nil {
		return 0, fmt.Errorf("bulk insert logs: %w", err)
	}
	return resp.Inserted, nil
}

func (c *StorageClient) ListLogs(offset, limit int, onlyNonAlert bool) (Page[StoredLog], error) {
	var page Page[StoredLog]
	url := fmt.Sprintf("%s/bgl/logs?offset=%d&limit=%d&only_non_alert=%t", c.baseURL, offset, limit, onlyNonAlert)
	if err := do(c.client, http.MethodGet, url, nil, &page); err != nil {
		return Page[StoredLog]{}, fmt.Errorf("list logs: %w", err)
	}
	return page, nil
}

func (c *StorageClient) BulkInsertVectors(vectors []EventVector) (int, error) {
	var resp struct {
		Inserted int `json:"inserted"`
	}
	if err := do(c.client, http.MethodPost, c.baseURL+"/vectors/bulk", vectors, &resp); err != nil {
		return 0, fmt.Errorf("bulk insert vectors: %w", err)
	}
	return resp.Inserted, nil
}

func (c *StorageClient) ListVectors(offset, limit int, onlyNonAlert bool) (Page[EventVector], error) {
	var page Page[EventVector]
	url := fmt.Sprintf("%s/vectors?offset=%d&limit=%d&only_non_alert=%t", c.baseURL, offset, limit, onlyNonAlert)
	if err := do(c.client, http.MethodGet, url, nil, &page); err != nil {
		return Page[EventVector]{}, fmt.Errorf("list vectors: %w", err)
	}
	return page, nil
}

func (c *StorageClient) ReplaceTemplates(templates []Template) (int, error) {
	var resp struct {
		Templates int `json:"templates"`
	}
	if err := do(c.client, http.MethodPut, c.baseURL+"/templates", templates, &resp); err != nil {
		return 0, fmt.Errorf("replace templates: %w", err)
	}
	return resp.Templates, nil
}

func (c *StorageClient) ListModels() ([]ModelEntry, error) {
	var entries []ModelEntry
	if err := do(c.client, http.MethodGet, c.baseURL+"/models", nil, &entries); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return entries, nil
}

func (c *StorageClient) Health() error {
	return checkHealth(c.client, c.baseURL)
}
