// Package svm implements a One-Class Support Vector Machine over sparse
// matrices, trained only on presumed-normal data. The solver is a
// two-variable working-set method on the standard one-class dual:
// minimize ½ αᵀKα subject to 0 <= α_i <= 1 and Σα_i = ν·n.
package svm

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

var (
	// ErrNotTrained signals prediction before any fit or load.
	ErrNotTrained = errors.New("svm: model not trained")

	// ErrEmptyMatrix is returned when fit receives a matrix with no rows.
	ErrEmptyMatrix = errors.New("svm: matrix has no rows")

	// ErrDimensionMismatch signals prediction input whose width differs
	// from the trained dimensionality.
	ErrDimensionMismatch = errors.New("svm: dimension mismatch")
)

const (
	// boundEps separates interior alphas from the box bounds.
	boundEps = 1e-12

	defaultTol = 1e-4
)

// Config fixes the hyperparameters at training time.
type Config struct {
	// Kernel is "rbf" or "linear".
	Kernel string `mapstructure:"kernel"`
	// Gamma is the RBF kernel coefficient: "scale" (1/(dim·var)),
	// "auto" (1/dim), or a numeric literal.
	Gamma string `mapstructure:"gamma"`
	// Nu upper-bounds the fraction of training points outside the
	// boundary and lower-bounds the fraction of support vectors.
	Nu float64 `mapstructure:"nu"`
	// Tol is the working-set violation threshold for convergence.
	Tol float64 `mapstructure:"tol"`
	// MaxIter caps solver iterations; zero means a heuristic cap.
	MaxIter int `mapstructure:"max_iter"`
}

// DefaultConfig mirrors the production detector settings.
func DefaultConfig() Config {
	return Config{
		Kernel: "rbf",
		Gamma:  "scale",
		Nu:     0.05,
	}
}

// Stats summarizes a completed fit for observability.
type Stats struct {
	Rows                 int     `json:"rows"`
	Dim                  int     `json:"dim"`
	Gamma                float64 `json:"gamma"`
	SupportVectors       int     `json:"support_vectors"`
	TrainOutlierFraction float64 `json:"train_outlier_fraction"`
	Iterations           int     `json:"iterations"`
}

// OneClassSVM learns a boundary around normal data and scores new points
// by signed distance from it. Safe for concurrent prediction once
// trained; fitting takes an exclusive lock.
type OneClassSVM struct {
	mu  sync.RWMutex
	cfg Config

	trained bool
	dim     int
	gamma   float64
	rho     float64

	// Support vectors in canonical sparse row form.
	svIndices [][]int
	svValues  [][]float64
	svSqNorm  []float64
	alpha     []float64
}

// New creates an untrained machine with the given hyperparameters.
func New(cfg Config) *OneClassSVM {
	if cfg.Kernel == "" {
		cfg.Kernel = "rbf"
	}
	if cfg.Gamma == "" {
		cfg.Gamma = "scale"
	}
	if cfg.Tol <= 0 {
		cfg.Tol = defaultTol
	}
	return &OneClassSVM{cfg: cfg}
}

// Config returns the hyperparameters the machine was constructed with.
func (s *OneClassSVM) Config() Config {
	return s.cfg
}

// Trained reports whether the machine can predict.
func (s *OneClassSVM) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// Fit trains the one-class boundary on the matrix rows. All rows are
// assumed normal; no labels are consulted. Fit fails on an empty matrix
// and on invalid hyperparameters, and never leaves the machine in a
// partially trained state.
func (s *OneClassSVM) Fit(m *sparse.Matrix) (Stats, error) {
	if m == nil || m.Rows == 0 {
		return Stats{}, ErrEmptyMatrix
	}
	if s.cfg.Nu <= 0 || s.cfg.Nu > 1 {
		return Stats{}, fmt.Errorf("svm: nu must be in (0,1], got %v", s.cfg.Nu)
	}
	if s.cfg.Kernel != "rbf" && s.cfg.Kernel != "linear" {
		return Stats{}, fmt.Errorf("svm: unsupported kernel %q", s.cfg.Kernel)
	}

	gamma, err := resolveGamma(s.cfg.Gamma, m)
	if err != nil {
		return Stats{}, err
	}

	n := m.Rows
	rows := make([]row, n)
	for i := 0; i < n; i++ {
		idx, val := m.Row(i)
		rows[i] = row{indices: idx, values: val, sqNorm: sqNorm(val)}
	}

	kern := kernelFunc(s.cfg.Kernel, gamma)

	// The kernel matrix is materialized; training batches are bounded
	// by the pagination limit upstream.
	gram := make([][]float64, n)
	for i := range gram {
		gram[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k := kern(rows[i], rows[j])
			gram[i][j] = k
			gram[j][i] = k
		}
	}

	// Initial feasible point: Σα = ν·n within [0,1] bounds.
	alpha := make([]float64, n)
	mass := s.cfg.Nu * float64(n)
	full := int(mass)
	for i := 0; i < full && i < n; i++ {
		alpha[i] = 1
	}
	if full < n {
		alpha[full] = mass - float64(full)
	}

	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		var g float64
		for j := 0; j < n; j++ {
			if alpha[j] > 0 {
				g += alpha[j] * gram[i][j]
			}
		}
		grad[i] = g
	}

	maxIter := s.cfg.MaxIter
	if maxIter <= 0 {
		maxIter = 100 * n
		if maxIter < 10000 {
			maxIter = 10000
		}
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		// Most violating pair: mass moves from the highest-gradient
		// shrinkable alpha to the lowest-gradient growable one.
		up, down := -1, -1
		for k := 0; k < n; k++ {
			if alpha[k] < 1-boundEps && (up < 0 || grad[k] < grad[up]) {
				up = k
			}
			if alpha[k] > boundEps && (down < 0 || grad[k] > grad[down]) {
				down = k
			}
		}
		if up < 0 || down < 0 || up == down || grad[down]-grad[up] < s.cfg.Tol {
			break
		}

		denom := gram[up][up] + gram[down][down] - 2*gram[up][down]
		if denom <= 0 {
			denom = 1e-12
		}
		step := (grad[down] - grad[up]) / denom
		if room := 1 - alpha[up]; step > room {
			step = room
		}
		if step > alpha[down] {
			step = alpha[down]
		}

		alpha[up] += step
		alpha[down] -= step
		for k := 0; k < n; k++ {
			grad[k] += step * (gram[up][k] - gram[down][k])
		}
	}

	// The incremental updates accumulate rounding drift across
	// iterations; recompute the gradient exactly from the final alphas
	// before reading rho off the KKT conditions.
	for i := 0; i < n; i++ {
		var g float64
		for j := 0; j < n; j++ {
			if alpha[j] > 0 {
				g += alpha[j] * gram[i][j]
			}
		}
		grad[i] = g
	}

	rho := solveRho(alpha, grad)

	flagged := 0
	for i := 0; i < n; i++ {
		if grad[i]-rho < 0 {
			flagged++
		}
	}

	var svIdx [][]int
	var svVal [][]float64
	var svNorm, svAlpha []float64
	for i := 0; i < n; i++ {
		if alpha[i] > boundEps {
			svIdx = append(svIdx, append([]int(nil), rows[i].indices...))
			svVal = append(svVal, append([]float64(nil), rows[i].values...))
			svNorm = append(svNorm, rows[i].sqNorm)
			svAlpha = append(svAlpha, alpha[i])
		}
	}

	s.mu.Lock()
	s.trained = true
	s.dim = m.Cols
	s.gamma = gamma
	s.rho = rho
	s.svIndices = svIdx
	s.svValues = svVal
	s.svSqNorm = svNorm
	s.alpha = svAlpha
	s.mu.Unlock()

	return Stats{
		Rows:                 n,
		Dim:                  m.Cols,
		Gamma:                gamma,
		SupportVectors:       len(svAlpha),
		TrainOutlierFraction: float64(flagged) / float64(n),
		Iterations:           iter,
	}, nil
}

// Predict returns, per matrix row, a label (-1 anomalous, 1 normal) and
// the signed decision score (more negative = more anomalous), in row
// order.
func (s *OneClassSVM) Predict(m *sparse.Matrix) ([]int, []float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.trained {
		return nil, nil, ErrNotTrained
	}
	if m == nil || m.Rows == 0 {
		return nil, nil, ErrEmptyMatrix
	}
	if m.Cols != s.dim {
		return nil, nil, fmt.Errorf("%w: input dim %d, trained dim %d", ErrDimensionMismatch, m.Cols, s.dim)
	}

	kern := kernelFunc(s.cfg.Kernel, s.gamma)

	labels := make([]int, m.Rows)
	scores := make([]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		idx, val := m.Row(i)
		x := row{indices: idx, values: val, sqNorm: sqNorm(val)}

		var score float64
		for j := range s.alpha {
			sv := row{indices: s.svIndices[j], values: s.svValues[j], sqNorm: s.svSqNorm[j]}
			score += s.alpha[j] * kern(sv, x)
		}
		score -= s.rho

		scores[i] = score
		if score < 0 {
			labels[i] = -1
		} else {
			labels[i] = 1
		}
	}
	return labels, scores, nil
}

// modelState is the gob-serialized form of a trained machine.
type modelState struct {
	Config    Config
	Dim       int
	Gamma     float64
	Rho       float64
	SVIndices [][]int
	SVValues  [][]float64
	Alpha     []float64
}

// Save serializes the trained model.
func (s *OneClassSVM) Save() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.trained {
		return nil, ErrNotTrained
	}

	state := modelState{
		Config:    s.cfg,
		Dim:       s.dim,
		Gamma:     s.gamma,
		Rho:       s.rho,
		SVIndices: s.svIndices,
		SVValues:  s.svValues,
		Alpha:     s.alpha,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&state); err != nil {
		return nil, fmt.Errorf("svm: encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// Load deserializes a trained model, replacing any prior state.
func (s *OneClassSVM) Load(data []byte) error {
	var state modelState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("svm: decode model: %w", err)
	}

	norms := make([]float64, len(state.SVValues))
	for i, vals := range state.SVValues {
		norms[i] = sqNorm(vals)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = state.Config
	s.dim = state.Dim
	s.gamma = state.Gamma
	s.rho = state.Rho
	s.svIndices = state.SVIndices
	s.svValues = state.SVValues
	s.svSqNorm = norms
	s.alpha = state.Alpha
	s.trained = true
	return nil
}

// Dim reports the trained dimensionality, or 0 when untrained.
func (s *OneClassSVM) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

type row struct {
	indices []int
	values  []float64
	sqNorm  float64
}

func sqNorm(values []float64) float64 {
	var n float64
	for _, v := range values {
		n += v * v
	}
	return n
}

// dot computes the sparse dot product of two canonical (ascending-index)
// rows by merging.
func dot(a, b row) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.indices) && j < len(b.indices) {
		switch {
		case a.indices[i] == b.indices[j]:
			sum += a.values[i] * b.values[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func kernelFunc(kernel string, gamma float64) func(a, b row) float64 {
	if kernel == "linear" {
		return dot
	}
	return func(a, b row) float64 {
		d := a.sqNorm + b.sqNorm - 2*dot(a, b)
		if d < 0 {
			d = 0
		}
		return math.Exp(-gamma * d)
	}
}

// resolveGamma turns the configured gamma into a number. "scale" uses
// 1/(dim·var) over all matrix entries, implicit zeros included; "auto"
// uses 1/dim.
func resolveGamma(gamma string, m *sparse.Matrix) (float64, error) {
	dim := float64(m.Cols)
	switch gamma {
	case "scale":
		total := float64(m.Rows) * dim
		if total == 0 {
			return 0, fmt.Errorf("svm: cannot scale gamma for empty matrix")
		}
		var sum, sumSq float64
		for _, v := range m.Data {
			sum += v
			sumSq += v * v
		}
		mean := sum / total
		variance := sumSq/total - mean*mean
		if variance <= 0 {
			variance = 1
		}
		return 1 / (dim * variance), nil
	case "auto":
		return 1 / dim, nil
	default:
		v, err := strconv.ParseFloat(gamma, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("svm: invalid gamma %q", gamma)
		}
		return v, nil
	}
}

// solveRho recovers the decision offset from the KKT conditions: the
// gradient at interior support vectors equals rho. With no interior
// points, rho is the midpoint of the feasible bracket.
func solveRho(alpha, grad []float64) float64 {
	var sum float64
	count := 0
	for i, a := range alpha {
		if a > boundEps && a < 1-boundEps {
			sum += grad[i]
			count++
		}
	}
	if count > 0 {
		return sum / float64(count)
	}

	lo := math.Inf(-1)
	hi := math.Inf(1)
	for i, a := range alpha {
		if a >= 1-boundEps && grad[i] > lo {
			lo = grad[i]
		}
		if a <= boundEps && grad[i] < hi {
			hi = grad[i]
		}
	}
	switch {
	case math.IsInf(lo, -1):
		return hi
	case math.IsInf(hi, 1):
		return lo
	default:
		return (lo + hi) / 2
	}
}
