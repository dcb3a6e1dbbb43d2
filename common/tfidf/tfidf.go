// Package tfidf provides a deterministic term-frequency/inverse-document-
// frequency vectorizer over log template text, plus a directory-scoped
// store that fits the vectorizer once and persists it atomically.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

// ErrNotFitted signals a transform before any fit or load. This is an
// out-of-order pipeline invocation, not a malformed payload.
var ErrNotFitted = errors.New("tfidf: vectorizer not fitted")

// ErrEmptyCorpus is returned when fitting yields no vocabulary.
var ErrEmptyCorpus = errors.New("tfidf: empty corpus or vocabulary")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Config fixes the vectorizer behavior at construction time.
//
// MinDF and MaxDF prune terms by document frequency. A MinDF of 1 or
// more is an absolute document count; below 1 it is a fraction of the
// corpus size. MaxDF values of 1 or less are fractions, above 1
// absolute counts. The defaults (MinDF 1, MaxDF 1.0) prune nothing.
type Config struct {
	// MaxFeatures caps the vocabulary size; after document-frequency
	// pruning the highest-document-frequency terms are kept, ties
	// broken lexicographically. Zero means no cap.
	MaxFeatures int `mapstructure:"max_features"`
	// NgramMin and NgramMax bound the contiguous token-window sizes
	// included as features.
	NgramMin int     `mapstructure:"ngram_min"`
	NgramMax int     `mapstructure:"ngram_max"`
	MinDF    float64 `mapstructure:"min_df"`
	MaxDF    float64 `mapstructure:"max_df"`
}

// DefaultConfig mirrors the pipeline's production template settings.
func DefaultConfig() Config {
	return Config{
		MaxFeatures: 20000,
		NgramMin:    1,
		NgramMax:    2,
		MinDF:       1,
		MaxDF:       1.0,
	}
}

func (c Config) normalized() Config {
	if c.NgramMin <= 0 {
		c.NgramMin = 1
	}
	if c.NgramMax < c.NgramMin {
		c.NgramMax = c.NgramMin
	}
	if c.MinDF <= 0 {
		c.MinDF = 1
	}
	if c.MaxDF <= 0 {
		c.MaxDF = 1.0
	}
	return c
}

// Vectorizer holds a fitted TF-IDF vocabulary. The zero value is
// unfitted; obtain instances via Fit or a Store.
type Vectorizer struct {
	cfg    Config
	terms  []string
	lookup map[string]int
	idf    []float64
	docs   int
}

// Fit learns a vocabulary from the corpus. The result is entirely
// determined by the corpus and configuration: identical inputs yield an
// identical vocabulary and dimensionality.
func Fit(corpus []string, cfg Config) (*Vectorizer, error) {
	cfg = cfg.normalized()

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range analyze(doc, cfg) {
			seen[term] = struct{}{}
		}
		for term := range seen {
			df[term]++
		}
	}

	n := len(corpus)
	minCount := cfg.MinDF
	if minCount < 1 {
		minCount = cfg.MinDF * float64(n)
	}
	maxCount := cfg.MaxDF
	if maxCount <= 1 {
		maxCount = cfg.MaxDF * float64(n)
	}

	kept := make([]string, 0, len(df))
	for term, count := range df {
		if float64(count) >= minCount && float64(count) <= maxCount {
			kept = append(kept, term)
		}
	}

	if cfg.MaxFeatures > 0 && len(kept) > cfg.MaxFeatures {
		sort.Slice(kept, func(a, b int) bool {
			if df[kept[a]] != df[kept[b]] {
				return df[kept[a]] > df[kept[b]]
			}
			return kept[a] < kept[b]
		})
		kept = kept[:cfg.MaxFeatures]
	}
	sort.Strings(kept)

	if len(kept) == 0 {
		return nil, ErrEmptyCorpus
	}

	v := &Vectorizer{
		cfg:    cfg,
		terms:  kept,
		lookup: make(map[string]int, len(kept)),
		idf:    make([]float64, len(kept)),
		docs:   n,
	}
	for col, term := range kept {
		v.lookup[term] = col
		// Smoothed idf, matching the weighting the templates were
		// mined against.
		v.idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}
	return v, nil
}

// Dim reports the dimensionality of the embedding space.
func (v *Vectorizer) Dim() int {
	return len(v.terms)
}

// Vocabulary returns the learned terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.terms...)
}

// Transform converts texts into L2-normalized sparse TF-IDF vectors,
// one per input, in input order.
func (v *Vectorizer) Transform(texts []string) ([]sparse.Vector, error) {
	if v == nil || len(v.terms) == 0 {
		return nil, ErrNotFitted
	}

	out := make([]sparse.Vector, len(texts))
	for i, text := range texts {
		counts := make(map[int]float64)
		for _, term := range analyze(text, v.cfg) {
			if col, ok := v.lookup[term]; ok {
				counts[col]++
			}
		}

		indices := make([]int, 0, len(counts))
		for col := range counts {
			indices = append(indices, col)
		}
		sort.Ints(indices)

		values := make([]float64, len(indices))
		var norm float64
		for j, col := range indices {
			w := counts[col] * v.idf[col]
			values[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range values {
				values[j] /= norm
			}
		}

		out[i] = sparse.Vector{Dim: v.Dim(), Indices: indices, Values: values}
	}
	return out, nil
}

// analyze tokenizes text and expands token n-grams per the config.
func analyze(text string, cfg Config) []string {
	tokens := tokenPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return nil
	}

	var terms []string
	for size := cfg.NgramMin; size <= cfg.NgramMax; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+size], " "))
		}
	}
	return terms
}
