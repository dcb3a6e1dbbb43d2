// Package paging implements the offset/limit batch pagination protocol
// shared by every service that streams large corpora. A page reports the
// window actually returned, so End-Start may be shorter than the
// requested limit; a short page signals end of source, not an error.
package paging

import "fmt"

// DefaultLimit is the page size used when a request does not specify one.
const DefaultLimit = 1000

// Params is a validated offset/limit request window.
type Params struct {
	Offset int
	Limit  int
}

// Validate rejects negative offsets and non-positive limits.
func (p Params) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("paging: offset must be >= 0, got %d", p.Offset)
	}
	if p.Limit <= 0 {
		return fmt.Errorf("paging: limit must be > 0, got %d", p.Limit)
	}
	return nil
}

// Page is one window of a paginated read. Start echoes the requested
// offset, End reflects what was actually returned. Total is nil when the
// source size is unknown; callers must not treat nil as zero.
type Page[T any] struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Total *int `json:"total"`
	Data  []T  `json:"data"`
}

// NewPage wraps a slice of items read at the given offset.
func NewPage[T any](offset int, data []T, total *int) Page[T] {
	return Page[T]{
		Start: offset,
		End:   offset + len(data),
		Total: total,
		Data:  data,
	}
}

// Known returns a Page total for a source whose size is cheap to obtain.
func Known(n int) *int {
	return &n
}
