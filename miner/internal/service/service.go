// Package service coordinates artifact builds and paginated reads for
// the miner. Builds are single-flight: concurrent requests that find
// the artifacts missing trigger exactly one mining pass.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
	"github.com/loghound-systems/loghound-stack/common/paging"
	"github.com/loghound-systems/loghound-stack/common/sparse"
	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/miner/internal/artifacts"
	"github.com/loghound-systems/loghound-stack/miner/internal/metrics"
)

// TemplateVector is one template with its TF-IDF embedding in the
// same sparse form the rest of the pipeline exchanges.
type TemplateVector struct {
	TemplID  int           `json:"templ_id"`
	Template string        `json:"template"`
	Vector   sparse.Vector `json:"vector"`
}

// TemplateVectorBatch pages through the template dictionary.
type TemplateVectorBatch struct {
	Start int              `json:"start"`
	End   int              `json:"end"`
	Total int              `json:"total"`
	Dim   int              `json:"dim"`
	Rows  []TemplateVector `json:"rows"`
}

type Service struct {
	set         *artifacts.Set
	store       *tfidf.Store
	datasetPath string
	pub         messaging.Publisher
	logger      *logging.Logger

	buildMu sync.Mutex
}

func New(set *artifacts.Set, store *tfidf.Store, datasetPath string, pub messaging.Publisher, logger *logging.Logger) *Service {
	return &Service{set: set, store: store, datasetPath: datasetPath, pub: pub, logger: logger}
}

// DatasetPath returns the mined dataset location.
func (s *Service) DatasetPath() string { return s.datasetPath }

// Built reports whether a complete artifact set exists.
func (s *Service) Built() bool { return s.set.Complete() }

// Meta returns the current build summary, or a zero Meta when nothing
// is built yet.
func (s *Service) Meta() artifacts.Meta {
	meta, err := s.set.ReadMeta()
	if err != nil {
		return artifacts.Meta{}
	}
	return meta
}

// EnsureBuilt mines the artifacts unless a complete set already exists.
// When force is true the set is regenerated regardless.
func (s *Service) EnsureBuilt(ctx context.Context, force bool) (artifacts.Meta, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if !force && s.set.Complete() {
		return s.set.ReadMeta()
	}

	start := time.Now()
	meta, err := s.set.Build(ctx, s.datasetPath)
	if err != nil {
		metrics.BuildsTotal.WithLabelValues("error").Inc()
		return artifacts.Meta{}, err
	}

	metrics.BuildsTotal.WithLabelValues("ok").Inc()
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	metrics.TemplatesMined.Set(float64(meta.Templates))

	s.logger.InfoContext(ctx, "built template artifacts",
		"templates", meta.Templates, "docs", meta.NumDocs)
	s.announce(ctx, meta)
	return meta, nil
}

// Vectors returns one page of per-line vector records, building the
// artifacts first if needed. The page total is the document count from
// the build metadata.
func (s *Service) Vectors(ctx context.Context, p paging.Params) (paging.Page[artifacts.VectorRecord], error) {
	meta, err := s.EnsureBuilt(ctx, false)
	if err != nil {
		return paging.Page[artifacts.VectorRecord]{}, err
	}

	records, err := s.set.ReadVectorsPage(ctx, p)
	if err != nil {
		return paging.Page[artifacts.VectorRecord]{}, err
	}

	metrics.VectorsServed.Add(float64(len(records)))
	return paging.NewPage(p.Offset, records, paging.Known(meta.NumDocs)), nil
}

// TemplateVectors embeds the mined template dictionary with the shared
// vectorizer and returns one page. The vectorizer is fitted over the
// full dictionary on first use and reused afterwards.
func (s *Service) TemplateVectors(ctx context.Context, p paging.Params) (*TemplateVectorBatch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	templates, err := s.set.ReadTemplates()
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(templates))
	for i, t := range templates {
		texts[i] = t.Text()
	}

	if _, err := s.store.FitOrLoad(texts); err != nil {
		return nil, err
	}

	total := len(templates)
	start := min(p.Offset, total)
	end := min(p.Offset+p.Limit, total)

	vectors, err := s.store.Transform(texts[start:end])
	if err != nil {
		return nil, err
	}

	dim, err := s.store.Dim()
	if err != nil {
		return nil, err
	}

	rows := make([]TemplateVector, 0, end-start)
	for i, vec := range vectors {
		rows = append(rows, TemplateVector{
			TemplID:  templates[start+i].ID,
			Template: texts[start+i],
			Vector:   vec,
		})
	}

	return &TemplateVectorBatch{Start: start, End: end, Total: total, Dim: dim, Rows: rows}, nil
}

// announce publishes the build result best-effort; losing the event
// never fails the build.
func (s *Service) announce(ctx context.Context, meta artifacts.Meta) {
	if s.pub == nil {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := s.pub.Publish(ctx, messaging.SubjectArtifactsBuilt, data); err != nil {
		s.logger.WarnContext(ctx, "publish artifacts built event", logging.Error(err))
	}
}
