package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSuccess(t *testing.T) {
	out := captureStdout(func() {
		Success("trained %d rows", 42)
	})

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "trained 42 rows")
}

func TestError(t *testing.T) {
	out := captureStderr(func() {
		Error("failed to reach %s", "http://localhost:8003")
	})

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "failed to reach http://localhost:8003")
}

func TestWarnAndInfo(t *testing.T) {
	out := captureStdout(func() {
		Warn("dataset is empty")
		Info("skipping")
	})

	assert.Contains(t, out, "⚠ dataset is empty")
	assert.Contains(t, out, "skipping")
}

func TestJSON(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, JSON(map[string]int{"anomalies": 3}))
	})

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 3, decoded["anomalies"])
}

func TestTableRender(t *testing.T) {
	out := captureStdout(func() {
		table := NewTable([]string{"LINE", "LABEL", "SCORE"})
		table.AddRow([]string{"17", "anomaly", "-0.8123"})
		table.AddRow([]string{"18", "normal", "0.0412"})
		table.Render()
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "LINE")
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[1], "----")
	assert.Contains(t, lines[2], "anomaly")
	assert.Contains(t, lines[3], "0.0412")

	// Columns pad to the widest cell.
	assert.Contains(t, lines[3], "normal ")
}
