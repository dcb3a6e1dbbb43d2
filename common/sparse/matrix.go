package sparse

import "sort"

// Matrix is a row-major compressed sparse (CSR) matrix: RowPtr holds
// cumulative entry counts per row, ColIdx and Data the concatenated
// column indices and values. Within each row entries are stored in
// ascending column order.
type Matrix struct {
	Rows   int
	Cols   int
	RowPtr []int
	ColIdx []int
	Data   []float64
}

// Assemble validates a batch of vectors and packs them into a Matrix.
// The batch dimensionality is taken from the first vector; validation is
// fail-fast, and the first violation aborts assembly with no partial
// result. Row order in the matrix equals input order.
func Assemble(vectors []Vector) (*Matrix, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyBatch
	}

	dim := vectors[0].Dim
	nnz := 0
	for row, v := range vectors {
		if err := v.validate(row, dim); err != nil {
			return nil, err
		}
		nnz += len(v.Indices)
	}

	m := &Matrix{
		Rows:   len(vectors),
		Cols:   dim,
		RowPtr: make([]int, 1, len(vectors)+1),
		ColIdx: make([]int, 0, nnz),
		Data:   make([]float64, 0, nnz),
	}

	for _, v := range vectors {
		start := len(m.ColIdx)
		m.ColIdx = append(m.ColIdx, v.Indices...)
		m.Data = append(m.Data, v.Values...)
		sortRow(m.ColIdx[start:], m.Data[start:])
		m.RowPtr = append(m.RowPtr, len(m.ColIdx))
	}

	return m, nil
}

// Row returns views of the i-th row's column indices and values. The
// returned slices alias the matrix storage and must not be mutated.
func (m *Matrix) Row(i int) ([]int, []float64) {
	start, end := m.RowPtr[i], m.RowPtr[i+1]
	return m.ColIdx[start:end], m.Data[start:end]
}

// NNZ reports the number of stored entries.
func (m *Matrix) NNZ() int {
	return len(m.Data)
}

// sortRow orders one row's (index, value) pairs by ascending column.
func sortRow(idx []int, val []float64) {
	if sort.IntsAreSorted(idx) {
		return
	}
	pairs := make([]int, len(idx))
	for i := range pairs {
		pairs[i] = i
	}
	sort.Slice(pairs, func(a, b int) bool { return idx[pairs[a]] < idx[pairs[b]] })

	idxCopy := append([]int(nil), idx...)
	valCopy := append([]float64(nil), val...)
	for i, p := range pairs {
		idx[i] = idxCopy[p]
		val[i] = valCopy[p]
	}
}
