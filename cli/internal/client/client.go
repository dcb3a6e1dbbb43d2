// Package client holds thin HTTP clients for the stack services. Each
// client speaks the service's wire format; nothing here imports the
// services' internal packages.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Page mirrors the batch pagination envelope every list endpoint uses.
// A nil Total means the producer does not know the full size; callers
// page until an empty Data comes back.
type Page[T any] struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Total *int `json:"total"`
	Data  []T  `json:"data"`
}

// EventVector is the wire form of one vectorized log line, shared by
// the miner and storage APIs.
type EventVector struct {
	LineID     int       `json:"line_id"`
	AlertTag   string    `json:"alert_tag"`
	IsAlert    bool      `json:"is_alert"`
	TemplateID int       `json:"template_id"`
	Dim        int       `json:"dim"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
}

// Template is one mined message template as stored by the storage
// service.
type Template struct {
	TemplID  int    `json:"templ_id"`
	Template string `json:"template"`
}

// ModelEntry is a model registry row.
type ModelEntry struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Version    string  `json:"version"`
	Path       string  `json:"path"`
	MetricAUPR float64 `json:"metric_aupr"`
	Notes      string  `json:"notes"`
	CreatedAt  string  `json:"created_at"`
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

type apiError struct {
	Error string `json:"error"`
}

// do sends a request and decodes the JSON response into out. Non-2xx
// responses become errors carrying the service's error message when
// one is present.
func do(client *http.Client, method, url string, in, out interface{}) error {
	var body *bytes.Buffer
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", url, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: request failed with status %d", url, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkHealth probes a service's /health endpoint.
func checkHealth(client *http.Client, baseURL string) error {
	return do(client, http.MethodGet, baseURL+"/health", nil, nil)
}
