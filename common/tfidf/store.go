package tfidf

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

// ArtifactName is the persisted vectorizer file inside a store directory.
const ArtifactName = "tfidf.gob"

// Status reports whether FitOrLoad fitted a new vectorizer or loaded a
// persisted one.
type Status string

const (
	StatusFitted Status = "fitted"
	StatusLoaded Status = "loaded"
)

// vectorizerState is the gob-serialized form of a fitted vectorizer.
type vectorizerState struct {
	Config Config
	Terms  []string
	IDF    []float64
	Docs   int
}

// Store maintains exactly one fitted vectorizer per output directory.
// The persisted artifact is written via temp-file-and-rename, so a
// concurrent reader observes either nothing or a complete artifact,
// and concurrent first-time fits cannot corrupt it.
type Store struct {
	dir string
	cfg Config

	mu  sync.Mutex
	vec *Vectorizer
}

// NewStore creates a store rooted at dir with an immutable config.
func NewStore(dir string, cfg Config) *Store {
	return &Store{dir: dir, cfg: cfg.normalized()}
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, ArtifactName)
}

// FitOrLoad loads the persisted vectorizer if one exists, otherwise fits
// a new one over the corpus and persists it. Idempotent per directory.
func (s *Store) FitOrLoad(corpus []string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vec != nil {
		return StatusLoaded, nil
	}

	if vec, err := s.load(); err == nil {
		s.vec = vec
		return StatusLoaded, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("tfidf: load artifact: %w", err)
	}

	vec, err := Fit(corpus, s.cfg)
	if err != nil {
		return "", err
	}
	if err := s.persist(vec); err != nil {
		return "", err
	}
	s.vec = vec
	return StatusFitted, nil
}

// Transform vectorizes texts with the fitted vectorizer, loading the
// persisted artifact if none is in memory. With neither, it fails with
// ErrNotFitted.
func (s *Store) Transform(texts []string) ([]sparse.Vector, error) {
	vec, err := s.current()
	if err != nil {
		return nil, err
	}
	return vec.Transform(texts)
}

// Dim reports the fitted dimensionality, or ErrNotFitted.
func (s *Store) Dim() (int, error) {
	vec, err := s.current()
	if err != nil {
		return 0, err
	}
	return vec.Dim(), nil
}

// current returns the in-memory vectorizer, falling back to the
// persisted artifact so a restarted process can transform without
// refitting.
func (s *Store) current() (*Vectorizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vec != nil {
		return s.vec, nil
	}
	vec, err := s.load()
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFitted
	}
	if err != nil {
		return nil, err
	}
	s.vec = vec
	return vec, nil
}

func (s *Store) load() (*Vectorizer, error) {
	f, err := os.Open(s.Path())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var state vectorizerState
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return nil, err
	}

	vec := &Vectorizer{
		cfg:    state.Config,
		terms:  state.Terms,
		lookup: make(map[string]int, len(state.Terms)),
		idf:    state.IDF,
		docs:   state.Docs,
	}
	for col, term := range state.Terms {
		vec.lookup[term] = col
	}
	return vec, nil
}

func (s *Store) persist(vec *Vectorizer) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("tfidf: create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ArtifactName+".tmp-*")
	if err != nil {
		return fmt.Errorf("tfidf: create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	state := vectorizerState{
		Config: vec.cfg,
		Terms:  vec.terms,
		IDF:    vec.idf,
		Docs:   vec.docs,
	}
	if err := gob.NewEncoder(tmp).Encode(&state); err != nil {
		tmp.Close()
		return fmt.Errorf("tfidf: encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tfidf: close temp artifact: %w", err)
	}

	// Atomic publish: a second writer's rename simply wins.
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("tfidf: publish artifact: %w", err)
	}
	return nil
}
