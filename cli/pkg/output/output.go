// Package output renders CLI results: colored status lines, JSON, and
// plain aligned tables.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

func Success(format string, a ...interface{}) {
	fmt.Fprint(os.Stdout, successColor.Sprintf("✓ "+format+"\n", a...))
}

func Error(format string, a ...interface{}) {
	fmt.Fprint(os.Stderr, errorColor.Sprintf("✗ "+format+"\n", a...))
}

func Info(format string, a ...interface{}) {
	fmt.Fprint(os.Stdout, infoColor.Sprintf(format+"\n", a...))
}

func Warn(format string, a ...interface{}) {
	fmt.Fprint(os.Stdout, warnColor.Sprintf("⚠ "+format+"\n", a...))
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, h := range t.headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(os.Stdout, headerColor.Sprint(header.String()))

	for i := range t.headers {
		fmt.Fprint(os.Stdout, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(os.Stdout)

	for _, row := range t.rows {
		for i, cell := range row {
			fmt.Fprintf(os.Stdout, "%-*s  ", widths[i], cell)
		}
		fmt.Fprintln(os.Stdout)
	}
}
