package seeder

import (
	"bufio"
	"fmt"
	"os"
)

// Options controls a seeding run.
type Options struct {
	Count      int
	AlertRatio float64
	Seed       int64
	Out        string
}

// Summary reports what a run wrote.
type Summary struct {
	Lines  int
	Alerts int
	Path   string
}

// Run writes Count synthetic lines to Out. Alert lines are spread
// uniformly at AlertRatio; the same seed reproduces the same file.
func Run(opts Options) (Summary, error) {
	if opts.Count <= 0 {
		return Summary{}, fmt.Errorf("seeder: count must be positive, got %d", opts.Count)
	}
	if opts.AlertRatio < 0 || opts.AlertRatio > 1 {
		return Summary{}, fmt.Errorf("seeder: alert ratio must be in [0, 1], got %g", opts.AlertRatio)
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return Summary{}, fmt.Errorf("seeder: create output: %w", err)
	}
	defer f.Close()

	gen := New(opts.Seed)
	w := bufio.NewWriter(f)

	summary := Summary{Path: opts.Out}
	for i := 0; i < opts.Count; i++ {
		alert := gen.rng.Float64() < opts.AlertRatio
		if alert {
			summary.Alerts++
		}
		if _, err := fmt.Fprintln(w, gen.Line(i, alert)); err != nil {
			return Summary{}, fmt.Errorf("seeder: write line %d: %w", i, err)
		}
		summary.Lines++
	}

	if err := w.Flush(); err != nil {
		return Summary{}, fmt.Errorf("seeder: flush output: %w", err)
	}
	return summary, nil
}
