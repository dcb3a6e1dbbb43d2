package model

import (
	"github.com/loghound-systems/loghound-stack/common/sparse"
	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/ml/internal/svm"
)

// TextModel pairs a vectorizer with a detector so raw log text can be
// trained on and scored directly. The vectorizer is fitted once per
// model directory and reused for every later transform.
type TextModel struct {
	handle *Handle
	store  *tfidf.Store
}

// NewTextModel creates a text detector stored under dir. The vectorizer
// artifact lives in the same directory as the model artifact.
func NewTextModel(dir, name string, cfg svm.Config, tcfg tfidf.Config) *TextModel {
	return &TextModel{
		handle: NewHandle(dir, name, cfg),
		store:  tfidf.NewStore(dir, tcfg),
	}
}

// Name returns the model name.
func (t *TextModel) Name() string { return t.handle.Name() }

// Path returns the detector artifact location.
func (t *TextModel) Path() string { return t.handle.Path() }

// Trained reports whether predictions are possible.
func (t *TextModel) Trained() bool { return t.handle.Trained() }

// Stats returns the summary of the last fit, if known.
func (t *TextModel) Stats() (svm.Stats, bool) { return t.handle.Stats() }

// LoadIfExists restores the detector from its artifact. The vectorizer
// loads lazily on first use.
func (t *TextModel) LoadIfExists() (bool, error) {
	return t.handle.LoadIfExists()
}

// Train fits the vectorizer (or reuses the stored one) on the corpus,
// then trains the detector on the resulting matrix. It returns the
// detector stats and whether the vectorizer was freshly fitted or
// loaded.
func (t *TextModel) Train(corpus []string) (svm.Stats, tfidf.Status, error) {
	status, err := t.store.FitOrLoad(corpus)
	if err != nil {
		return svm.Stats{}, "", err
	}

	m, err := t.matrix(corpus)
	if err != nil {
		return svm.Stats{}, "", err
	}

	stats, err := t.handle.Train(m)
	if err != nil {
		return svm.Stats{}, "", err
	}
	return stats, status, nil
}

// Predict vectorizes the texts with the stored vectorizer and scores
// them. tfidf.ErrNotFitted is returned when no vectorizer exists yet.
func (t *TextModel) Predict(texts []string) ([]int, []float64, error) {
	m, err := t.matrix(texts)
	if err != nil {
		return nil, nil, err
	}
	return t.handle.Predict(m)
}

func (t *TextModel) matrix(texts []string) (*sparse.Matrix, error) {
	vectors, err := t.store.Transform(texts)
	if err != nil {
		return nil, err
	}
	return sparse.Assemble(vectors)
}
