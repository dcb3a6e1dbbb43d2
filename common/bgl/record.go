// Package bgl models BGL-style supercomputer log lines and their parsed form.
package bgl

import "strings"

// NonAlertTag is the sentinel first token marking a non-alert line.
const NonAlertTag = "-"

// LogRecord is one parsed log line. Records are immutable once parsed:
// LineID is the 0-based ordinal of the line in its source file.
type LogRecord struct {
	LineID   int    `json:"line_id"`
	Raw      string `json:"raw"`
	AlertTag string `json:"alert_tag"`
	IsAlert  bool   `json:"is_alert"`
	Message  string `json:"message"`
}

// Parse converts one raw source line into a LogRecord. Only the trailing
// line terminator is stripped; all other whitespace is preserved in Raw.
// The first whitespace-delimited token becomes the alert tag, the
// remainder the message. Parse is total: it never fails, and a line with
// no tokens yields a non-alert record with an empty message.
func Parse(lineID int, rawLine string) LogRecord {
	s := strings.TrimSuffix(rawLine, "\n")
	s = strings.TrimSuffix(s, "\r")

	rec := LogRecord{
		LineID:   lineID,
		Raw:      s,
		AlertTag: NonAlertTag,
	}

	trimmed := strings.TrimLeft(s, " \t")
	if trimmed == "" {
		return rec
	}

	first := trimmed
	rest := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		first = trimmed[:i]
		rest = strings.TrimLeft(trimmed[i:], " \t")
	}

	rec.AlertTag = first
	rec.IsAlert = first != NonAlertTag
	rec.Message = rest
	return rec
}
