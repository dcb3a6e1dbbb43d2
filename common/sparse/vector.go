// Package sparse provides the sparse vector and compressed row matrix
// types exchanged across the anomaly pipeline, together with the strict
// batch validation the model-serving boundary enforces.
package sparse

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyBatch is returned when a batch operation receives no vectors.
var ErrEmptyBatch = errors.New("sparse: empty batch")

// InvalidDimError reports a vector declaring a non-positive
// dimensionality.
type InvalidDimError struct {
	Row int
	Dim int
}

func (e *InvalidDimError) Error() string {
	return fmt.Sprintf("sparse: row %d has non-positive dim %d", e.Row, e.Dim)
}

// DimensionMismatchError reports a vector whose dimensionality differs
// from the batch dimensionality taken from the first vector.
type DimensionMismatchError struct {
	Row  int
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("sparse: row %d has dim %d, batch dim is %d", e.Row, e.Got, e.Want)
}

// LengthMismatchError reports a vector whose indices and values slices
// differ in length.
type LengthMismatchError struct {
	Row     int
	Indices int
	Values  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("sparse: row %d has %d indices but %d values", e.Row, e.Indices, e.Values)
}

// IndexOutOfBoundsError reports a column index outside [0, dim).
type IndexOutOfBoundsError struct {
	Row   int
	Index int
	Dim   int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("sparse: row %d index %d out of bounds [0,%d)", e.Row, e.Index, e.Dim)
}

// DuplicateIndexError reports a column index appearing more than once in
// a single vector. Duplicates are rejected, never summed.
type DuplicateIndexError struct {
	Row   int
	Index int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("sparse: row %d has duplicate index %d", e.Row, e.Index)
}

// NonFiniteValueError reports a NaN or infinite value.
type NonFiniteValueError struct {
	Row   int
	Index int
	Value float64
}

func (e *NonFiniteValueError) Error() string {
	return fmt.Sprintf("sparse: row %d index %d has non-finite value %v", e.Row, e.Index, e.Value)
}

// Vector is a sparse numeric vector: the non-zero entries of a Dim-wide
// row, as positionally paired (index, value) sequences.
type Vector struct {
	Dim     int       `json:"dim"`
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// validate checks one vector against the batch dimensionality. row is
// the vector's position in the batch, used for error context.
func (v Vector) validate(row, dim int) error {
	if v.Dim < 1 {
		return &InvalidDimError{Row: row, Dim: v.Dim}
	}
	if v.Dim != dim {
		return &DimensionMismatchError{Row: row, Want: dim, Got: v.Dim}
	}
	if len(v.Indices) != len(v.Values) {
		return &LengthMismatchError{Row: row, Indices: len(v.Indices), Values: len(v.Values)}
	}
	seen := make(map[int]struct{}, len(v.Indices))
	for i, idx := range v.Indices {
		if idx < 0 || idx >= dim {
			return &IndexOutOfBoundsError{Row: row, Index: idx, Dim: dim}
		}
		if _, dup := seen[idx]; dup {
			return &DuplicateIndexError{Row: row, Index: idx}
		}
		seen[idx] = struct{}{}
		if math.IsNaN(v.Values[i]) || math.IsInf(v.Values[i], 0) {
			return &NonFiniteValueError{Row: row, Index: idx, Value: v.Values[i]}
		}
	}
	return nil
}
