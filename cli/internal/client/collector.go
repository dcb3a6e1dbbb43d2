package client

import (
	"fmt"
	"net/http"

	"github.com/loghound-systems/loghound-stack/common/bgl"
)

type CollectorClient struct {
	baseURL string
	client  *http.Client
}

func NewCollectorClient(baseURL string) *CollectorClient {
	return &CollectorClient{baseURL: baseURL, client: newHTTPClient()}
}

// Collect fetches one window of parsed dataset lines. The collector
// never reports a total; an empty page means the dataset is exhausted.
func (c *CollectorClient) Collect(offset, limit int) (Page[bgl.LogRecord], error) {
	var page Page[bgl.LogRecord]
	url := fmt.Sprintf("%s/collect?offset=%d&limit=%d", c.baseURL, offset, limit)
	if err := do(c.client, http.MethodGet, url, nil, &page); err != nil {
		return Page[bgl.LogRecord]{}, fmt.Errorf("collect: %w", err)
	}
	return page, nil
}

func (c *CollectorClient) Health() error {
	return checkHealth(c.client, c.baseURL)
}
