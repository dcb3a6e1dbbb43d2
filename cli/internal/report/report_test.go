package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
)

func sampleData() Data {
	return Data{
		GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Summary: client.Summary{
			TextModelPath:   "/models/ocsvm_text.gob",
			TextExists:      true,
			TextStats:       &client.TrainStats{Rows: 120, Dim: 48, SupportVectors: 14},
			VectorModelPath: "/models/ocsvm_raw_vectors.gob",
			VectorExists:    false,
		},
		Models: []client.ModelEntry{
			{ID: 2, Name: "ocsvm_text", Version: "v2", Path: "/models/ocsvm_text.gob", Notes: "rows=120"},
		},
		TotalLogs:    500,
		TotalVectors: 480,
		CleanVectors: 430,
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleData()))
	html := buf.String()

	assert.Contains(t, html, "LogHound Report")
	assert.Contains(t, html, "2026-08-29 12:00:00 UTC")
	assert.Contains(t, html, "/models/ocsvm_text.gob")
	assert.Contains(t, html, ">trained<")
	assert.Contains(t, html, ">missing<")
	assert.Contains(t, html, "<td>500</td>")
	assert.Contains(t, html, "<td>430</td>")
	assert.Contains(t, html, "rows=120")
}

func TestRender_NoModels(t *testing.T) {
	data := sampleData()
	data.Models = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, data))
	assert.Contains(t, buf.String(), "No registered models.")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"

	path, err := Write(dir, sampleData())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".html"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "LogHound Report")
}
