// Package model manages named anomaly detectors: the in-memory machine,
// its on-disk artifact, and its training summary.
package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/loghound-systems/loghound-stack/common/sparse"
	"github.com/loghound-systems/loghound-stack/ml/internal/svm"
)

// ErrNotTrained signals use of a handle that has neither been trained
// nor loaded from disk.
var ErrNotTrained = errors.New("model: not trained")

// Handle owns one named model and serializes train/predict/persist
// around it.
type Handle struct {
	name string
	dir  string
	cfg  svm.Config

	mu      sync.RWMutex
	machine *svm.OneClassSVM
	stats   *svm.Stats
}

// persisted is the gob envelope written to disk: the serialized machine
// plus the stats from the fit that produced it.
type persisted struct {
	Model []byte
	Stats svm.Stats
}

// NewHandle creates an untrained handle stored under dir as <name>.gob.
func NewHandle(dir, name string, cfg svm.Config) *Handle {
	return &Handle{name: name, dir: dir, cfg: cfg}
}

// Name returns the model name.
func (h *Handle) Name() string { return h.name }

// Path returns the artifact location.
func (h *Handle) Path() string {
	return filepath.Join(h.dir, h.name+".gob")
}

// Trained reports whether predictions are possible.
func (h *Handle) Trained() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.machine != nil
}

// Stats returns the summary of the last fit, if known. A handle loaded
// from an artifact carries the stats persisted with it.
func (h *Handle) Stats() (svm.Stats, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.stats == nil {
		return svm.Stats{}, false
	}
	return *h.stats, true
}

// LoadIfExists restores the model from its artifact. A missing artifact
// is not an error; the handle just stays untrained.
func (h *Handle) LoadIfExists() (bool, error) {
	data, err := os.ReadFile(h.Path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("model %s: read artifact: %w", h.name, err)
	}

	var env persisted
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return false, fmt.Errorf("model %s: decode artifact: %w", h.name, err)
	}

	machine := svm.New(h.cfg)
	if err := machine.Load(env.Model); err != nil {
		return false, fmt.Errorf("model %s: %w", h.name, err)
	}

	h.mu.Lock()
	h.machine = machine
	stats := env.Stats
	h.stats = &stats
	h.mu.Unlock()
	return true, nil
}

// Train fits a fresh machine on the matrix and persists it. The handle
// is only replaced once both the fit and the write succeed.
func (h *Handle) Train(m *sparse.Matrix) (svm.Stats, error) {
	machine := svm.New(h.cfg)
	stats, err := machine.Fit(m)
	if err != nil {
		return svm.Stats{}, err
	}

	if err := h.persist(machine, stats); err != nil {
		return svm.Stats{}, err
	}

	h.mu.Lock()
	h.machine = machine
	h.stats = &stats
	h.mu.Unlock()
	return stats, nil
}

// Predict scores the matrix rows with the current machine.
func (h *Handle) Predict(m *sparse.Matrix) ([]int, []float64, error) {
	h.mu.RLock()
	machine := h.machine
	h.mu.RUnlock()

	if machine == nil {
		return nil, nil, ErrNotTrained
	}
	return machine.Predict(m)
}

// Dim returns the trained dimensionality, or 0 when untrained.
func (h *Handle) Dim() int {
	h.mu.RLock()
	machine := h.machine
	h.mu.RUnlock()
	if machine == nil {
		return 0
	}
	return machine.Dim()
}

func (h *Handle) persist(machine *svm.OneClassSVM, stats svm.Stats) error {
	raw, err := machine.Save()
	if err != nil {
		return fmt.Errorf("model %s: %w", h.name, err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(persisted{Model: raw, Stats: stats}); err != nil {
		return fmt.Errorf("model %s: encode artifact: %w", h.name, err)
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("model %s: create model dir: %w", h.name, err)
	}

	tmp, err := os.CreateTemp(h.dir, h.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("model %s: create temp artifact: %w", h.name, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("model %s: write artifact: %w", h.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("model %s: close artifact: %w", h.name, err)
	}
	// Atomic publish: a concurrent writer's rename simply wins.
	if err := os.Rename(tmp.Name(), h.Path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("model %s: publish artifact: %w", h.name, err)
	}
	return nil
}
