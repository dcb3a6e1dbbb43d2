// Package report renders an HTML status report for the stack: model
// artifacts on the ml service, registry rows, and corpus counts.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/loghound-systems/loghound-stack/cli/internal/client"
)

// Data is everything one report shows.
type Data struct {
	GeneratedAt  time.Time
	Summary      client.Summary
	Models       []client.ModelEntry
	TotalLogs    int
	TotalVectors int
	CleanVectors int
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>LogHound Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #bbb; padding: 0.4em 0.8em; text-align: left; }
th { background: #eee; }
.ok { color: #2a7f2a; font-weight: bold; }
.missing { color: #b03030; font-weight: bold; }
</style>
</head>
<body>
<h1>LogHound Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Corpus</h2>
<table>
<tr><th>Stored log lines</th><td>{{.TotalLogs}}</td></tr>
<tr><th>Stored vectors</th><td>{{.TotalVectors}}</td></tr>
<tr><th>Non-alert vectors</th><td>{{.CleanVectors}}</td></tr>
</table>

<h2>Detectors</h2>
<table>
<tr><th>Model</th><th>Artifact</th><th>State</th><th>Rows</th><th>Dim</th><th>Support vectors</th></tr>
<tr>
<td>text</td>
<td>{{.Summary.TextModelPath}}</td>
{{if .Summary.TextExists}}<td class="ok">trained</td>{{else}}<td class="missing">missing</td>{{end}}
{{with .Summary.TextStats}}<td>{{.Rows}}</td><td>{{.Dim}}</td><td>{{.SupportVectors}}</td>{{else}}<td>-</td><td>-</td><td>-</td>{{end}}
</tr>
<tr>
<td>vectors</td>
<td>{{.Summary.VectorModelPath}}</td>
{{if .Summary.VectorExists}}<td class="ok">trained</td>{{else}}<td class="missing">missing</td>{{end}}
{{with .Summary.VectorStats}}<td>{{.Rows}}</td><td>{{.Dim}}</td><td>{{.SupportVectors}}</td>{{else}}<td>-</td><td>-</td><td>-</td>{{end}}
</tr>
</table>

<h2>Model registry</h2>
{{if .Models}}
<table>
<tr><th>ID</th><th>Name</th><th>Version</th><th>Path</th><th>Notes</th><th>Created</th></tr>
{{range .Models}}
<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Version}}</td><td>{{.Path}}</td><td>{{.Notes}}</td><td>{{.CreatedAt}}</td></tr>
{{end}}
</table>
{{else}}
<p>No registered models.</p>
{{end}}

</body>
</html>
`

var tmpl = template.Must(template.New("report").Parse(pageTemplate))

// Render writes the HTML report to w.
func Render(w io.Writer, data Data) error {
	return tmpl.Execute(w, data)
}

// Write renders the report into dir, creating it if needed, and
// returns the file path.
func Write(dir string, data Data) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("report: create dir: %w", err)
	}

	name := fmt.Sprintf("loghound-report-%s.html", data.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create file: %w", err)
	}
	defer f.Close()

	if err := Render(f, data); err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	return path, nil
}
