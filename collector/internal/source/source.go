// Package source reads windows of a BGL dataset file as parsed records.
package source

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/loghound-systems/loghound-stack/common/bgl"
	"github.com/loghound-systems/loghound-stack/common/paging"
)

// maxLineSize bounds a single log line. BGL lines run long but stay
// well under a megabyte.
const maxLineSize = 1 << 20

// Reader serves paginated slices of one dataset file. Each call opens
// the file fresh, so a dataset swapped on disk is picked up on the next
// request.
type Reader struct {
	path string
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the dataset location.
func (r *Reader) Path() string { return r.path }

// ReadBatch parses lines [offset, offset+limit) of the file, preserving
// file order. Line IDs are absolute zero-based positions in the file. A
// window past the end of the file yields an empty batch, never an
// error.
func (r *Reader) ReadBatch(ctx context.Context, p paging.Params) ([]bgl.LogRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("source: open dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	records := make([]bgl.LogRecord, 0, p.Limit)
	idx := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if idx >= p.Offset {
			records = append(records, bgl.Parse(idx, scanner.Text()))
			if len(records) == p.Limit {
				break
			}
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("source: read dataset: %w", err)
	}
	return records, nil
}
