// Package models defines the persisted rows for the log corpus, the
// vectorized events, the mined templates, and the model registry.
package models

import "time"

// BGLLog is one parsed dataset line.
type BGLLog struct {
	ID       int64  `json:"id"`
	LineID   int    `json:"line_id"`
	AlertTag string `json:"alert_tag"`
	IsAlert  bool   `json:"is_alert"`
	Raw      string `json:"raw"`
	Message  string `json:"message"`
}

// EventVector is one vectorized log line as produced by the miner.
// Indices and Values are stored as Postgres arrays.
type EventVector struct {
	ID         int64     `json:"id"`
	LineID     int       `json:"line_id"`
	AlertTag   string    `json:"alert_tag"`
	IsAlert    bool      `json:"is_alert"`
	TemplateID int       `json:"template_id"`
	Dim        int       `json:"dim"`
	Indices    []int64   `json:"indices"`
	Values     []float64 `json:"values"`
}

// Template is one mined message template.
type Template struct {
	ID       int64  `json:"id"`
	TemplID  int    `json:"templ_id"`
	Template string `json:"template"`
}

// ModelEntry is a registry row for a persisted model artifact.
type ModelEntry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Path       string    `json:"path"`
	MetricAUPR float64   `json:"metric_aupr"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
