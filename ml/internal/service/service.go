// Package service wires the two anomaly detectors behind one API: a
// vector model scoring pre-built sparse vectors and a text model that
// vectorizes raw log lines itself.
package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/sparse"
	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/ml/internal/metrics"
	"github.com/loghound-systems/loghound-stack/ml/internal/model"
	"github.com/loghound-systems/loghound-stack/ml/internal/notify"
	"github.com/loghound-systems/loghound-stack/ml/internal/svm"
)

// ErrEmptyTexts is returned when a text operation receives no lines.
var ErrEmptyTexts = errors.New("service: texts is empty")

// Summary describes both models for the status endpoint.
type Summary struct {
	TextModelPath   string     `json:"text_model_path"`
	TextExists      bool       `json:"text_exists"`
	TextStats       *svm.Stats `json:"text_stats,omitempty"`
	VectorModelPath string     `json:"vec_model_path"`
	VectorExists    bool       `json:"vec_exists"`
	VectorStats     *svm.Stats `json:"vec_stats,omitempty"`
}

// TrainResult reports a completed training run.
type TrainResult struct {
	Path   string    `json:"path"`
	Stats  svm.Stats `json:"stats"`
	Fitted string    `json:"vectorizer,omitempty"`
}

// Service owns the model handles. All methods are safe for concurrent
// use; the handles serialize their own state transitions.
type Service struct {
	vector   *model.Handle
	text     *model.TextModel
	notifier *notify.Notifier
	logger   *logging.Logger
}

func New(vector *model.Handle, text *model.TextModel, notifier *notify.Notifier, logger *logging.Logger) *Service {
	return &Service{vector: vector, text: text, notifier: notifier, logger: logger}
}

// Restore loads persisted model artifacts, if any. Missing artifacts
// are not errors; the models simply start untrained.
func (s *Service) Restore(ctx context.Context) error {
	for _, m := range []interface {
		Name() string
		LoadIfExists() (bool, error)
	}{s.vector, s.text} {
		loaded, err := m.LoadIfExists()
		if err != nil {
			return err
		}
		if loaded {
			s.logger.InfoContext(ctx, "restored model artifact", logging.Model(m.Name()))
		}
	}
	return nil
}

// TrainVectors fits and persists the vector model on a validated batch.
func (s *Service) TrainVectors(ctx context.Context, vectors []sparse.Vector) (*TrainResult, error) {
	start := time.Now()
	name := s.vector.Name()

	m, err := sparse.Assemble(vectors)
	if err != nil {
		metrics.TrainTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}

	stats, err := s.vector.Train(m)
	if err != nil {
		metrics.TrainTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}

	metrics.TrainTotal.WithLabelValues(name, "ok").Inc()
	metrics.TrainDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.TrainRows.WithLabelValues(name).Set(float64(stats.Rows))

	s.logger.InfoContext(ctx, "trained vector model",
		logging.Model(name), logging.Rows(stats.Rows), logging.Dim(stats.Dim))
	s.notifier.ModelTrained(ctx, name, s.vector.Path(), "trained on sparse vectors", stats.Rows, stats.Dim)

	return &TrainResult{Path: s.vector.Path(), Stats: stats}, nil
}

// PredictVectors scores a validated batch with the vector model.
func (s *Service) PredictVectors(ctx context.Context, vectors []sparse.Vector) ([]int, []float64, error) {
	start := time.Now()
	name := s.vector.Name()

	m, err := sparse.Assemble(vectors)
	if err != nil {
		metrics.PredictTotal.WithLabelValues(name, "error").Inc()
		return nil, nil, err
	}

	labels, scores, err := s.vector.Predict(m)
	if err != nil {
		metrics.PredictTotal.WithLabelValues(name, "error").Inc()
		return nil, nil, err
	}

	metrics.PredictTotal.WithLabelValues(name, "ok").Inc()
	metrics.PredictDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.AnomaliesTotal.WithLabelValues(name).Add(float64(countAnomalies(labels)))
	return labels, scores, nil
}

// TrainText fits the vectorizer (first time only) and the text model on
// raw log lines, then persists both.
func (s *Service) TrainText(ctx context.Context, texts []string) (*TrainResult, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	start := time.Now()
	name := s.text.Name()

	stats, status, err := s.text.Train(texts)
	if err != nil {
		metrics.TrainTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}

	metrics.TrainTotal.WithLabelValues(name, "ok").Inc()
	metrics.TrainDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.TrainRows.WithLabelValues(name).Set(float64(stats.Rows))

	s.logger.InfoContext(ctx, "trained text model",
		logging.Model(name), logging.Rows(stats.Rows), logging.Dim(stats.Dim))
	s.notifier.ModelTrained(ctx, name, s.text.Path(), "trained on texts", stats.Rows, stats.Dim)

	return &TrainResult{Path: s.text.Path(), Stats: stats, Fitted: string(status)}, nil
}

// PredictText scores raw log lines with the text model.
func (s *Service) PredictText(ctx context.Context, texts []string) ([]int, []float64, error) {
	if len(texts) == 0 {
		return nil, nil, ErrEmptyTexts
	}

	start := time.Now()
	name := s.text.Name()

	labels, scores, err := s.text.Predict(texts)
	if err != nil {
		metrics.PredictTotal.WithLabelValues(name, "error").Inc()
		return nil, nil, err
	}

	metrics.PredictTotal.WithLabelValues(name, "ok").Inc()
	metrics.PredictDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.AnomaliesTotal.WithLabelValues(name).Add(float64(countAnomalies(labels)))
	return labels, scores, nil
}

// Summary reports both models' artifact paths, presence, and last fit
// stats. Presence means the persisted artifact is on disk, not that
// this process has loaded it.
func (s *Service) Summary() Summary {
	sum := Summary{
		TextModelPath:   s.text.Path(),
		TextExists:      artifactExists(s.text.Path()),
		VectorModelPath: s.vector.Path(),
		VectorExists:    artifactExists(s.vector.Path()),
	}
	if stats, ok := s.text.Stats(); ok {
		sum.TextStats = &stats
	}
	if stats, ok := s.vector.Stats(); ok {
		sum.VectorStats = &stats
	}
	return sum
}

// NotTrained reports whether err is a missing-model state error from
// either the detector or the vectorizer.
func NotTrained(err error) bool {
	return errors.Is(err, model.ErrNotTrained) ||
		errors.Is(err, svm.ErrNotTrained) ||
		errors.Is(err, tfidf.ErrNotFitted)
}

func artifactExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func countAnomalies(labels []int) int {
	n := 0
	for _, l := range labels {
		if l == -1 {
			n++
		}
	}
	return n
}
