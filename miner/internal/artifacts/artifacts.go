// Package artifacts builds and reads the template-mining outputs for a
// BGL dataset: the template dictionary, per-line sparse vectors, and a
// metadata summary. A build is all-or-nothing; readers never observe a
// partial artifact set.
package artifacts

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/loghound-systems/loghound-stack/common/paging"
)

// Artifact file names inside the output directory.
const (
	TemplatesName = "templates.json"
	VectorsName   = "vectors.jsonl"
	MetaName      = "meta.json"
)

// maxLineSize bounds one dataset or vector line.
const maxLineSize = 1 << 20

// Wildcard replaces variable tokens in a mined template.
const Wildcard = "<*>"

// ErrNotBuilt is returned by readers when the artifact set is absent.
var ErrNotBuilt = errors.New("artifacts: not built")

// Template is one mined message template.
type Template struct {
	ID     int      `json:"id"`
	Tokens []string `json:"tokens"`
}

// Text joins the template tokens back into its signature string.
func (t Template) Text() string {
	return strings.Join(t.Tokens, " ")
}

// Meta summarizes a completed build.
type Meta struct {
	NumDocs   int `json:"num_docs"`
	VocabSize int `json:"vocab_size"`
	Templates int `json:"templates"`
}

// VectorRecord is one vectorized log line: a one-hot idf-weighted
// sparse vector over the template vocabulary. TemplateID is -1 when the
// line matched no template.
type VectorRecord struct {
	LineID     int       `json:"line_id"`
	AlertTag   string    `json:"alert_tag"`
	IsAlert    bool      `json:"is_alert"`
	TemplateID int       `json:"template_id"`
	Dim        int       `json:"dim"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
}

// Set locates one artifact directory.
type Set struct {
	dir string
}

func NewSet(dir string) *Set {
	return &Set{dir: dir}
}

func (s *Set) Dir() string           { return s.dir }
func (s *Set) TemplatesPath() string { return filepath.Join(s.dir, TemplatesName) }
func (s *Set) VectorsPath() string   { return filepath.Join(s.dir, VectorsName) }
func (s *Set) MetaPath() string      { return filepath.Join(s.dir, MetaName) }

// Complete reports whether all three artifacts exist.
func (s *Set) Complete() bool {
	for _, p := range []string{s.TemplatesPath(), s.VectorsPath(), s.MetaPath()} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// NormalizeToken maps variable dataset tokens to the wildcard: purely
// numeric tokens, hex-looking tokens, and quoted tokens all collapse so
// that lines differing only in those positions share a template.
func NormalizeToken(tok string) string {
	num, hex := true, true
	for _, c := range tok {
		if c < '0' || c > '9' {
			num = false
		}
		if !isHexDigit(c) {
			hex = false
		}
	}
	if num || hex {
		return Wildcard
	}
	if len(tok) > 0 && (tok[0] == '"' || tok[len(tok)-1] == '"') {
		return Wildcard
	}
	return tok
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// TemplateKey normalizes a message token slice into its template
// signature.
func TemplateKey(msg []string) string {
	norm := make([]string, len(msg))
	for i, t := range msg {
		norm[i] = NormalizeToken(t)
	}
	return strings.Join(norm, " ")
}

// Build mines templates from the dataset and regenerates the full
// artifact set. Intermediate output goes to temp files that are renamed
// into place only after every artifact is written, so a failed build
// leaves any previous complete set untouched.
func (s *Set) Build(ctx context.Context, datasetPath string) (Meta, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Meta{}, fmt.Errorf("artifacts: create output dir: %w", err)
	}

	// Pass 1: mine templates and document frequencies.
	templateID := make(map[string]int)
	var templates []Template
	var docFreq []int
	numDocs := 0

	err := s.scanDataset(ctx, datasetPath, func(lineID int, alert string, msg []string) {
		key := TemplateKey(msg)
		id, ok := templateID[key]
		if !ok {
			id = len(templates)
			templateID[key] = id
			norm := make([]string, len(msg))
			for i, t := range msg {
				norm[i] = NormalizeToken(t)
			}
			templates = append(templates, Template{ID: id, Tokens: norm})
			docFreq = append(docFreq, 0)
		}
		docFreq[id]++
	}, &numDocs)
	if err != nil {
		return Meta{}, err
	}

	dim := len(templates)
	idf := make([]float64, dim)
	for i := range idf {
		idf[i] = math.Log(float64(numDocs) / float64(docFreq[i]))
	}

	meta := Meta{NumDocs: numDocs, VocabSize: dim, Templates: dim}

	// Pass 2: vectorize every line against the mined dictionary.
	vecTmp, err := os.CreateTemp(s.dir, "vectors-*.tmp")
	if err != nil {
		return Meta{}, fmt.Errorf("artifacts: create temp vectors: %w", err)
	}
	defer os.Remove(vecTmp.Name())

	w := bufio.NewWriter(vecTmp)
	enc := json.NewEncoder(w)
	lineID := 0
	err = s.scanDataset(ctx, datasetPath, func(_ int, alert string, msg []string) {
		rec := VectorRecord{
			LineID:     lineID,
			AlertTag:   alert,
			IsAlert:    alert != "-",
			TemplateID: -1,
			Dim:        dim,
			Indices:    []int{},
			Values:     []float64{},
		}
		if id, ok := templateID[TemplateKey(msg)]; ok {
			rec.TemplateID = id
			rec.Indices = []int{id}
			rec.Values = []float64{idf[id]}
		}
		// Encode never fails for this shape; the flush below surfaces
		// any write error.
		_ = enc.Encode(rec)
		lineID++
	}, nil)
	if err != nil {
		vecTmp.Close()
		return Meta{}, err
	}
	if err := w.Flush(); err != nil {
		vecTmp.Close()
		return Meta{}, fmt.Errorf("artifacts: write vectors: %w", err)
	}
	if err := vecTmp.Close(); err != nil {
		return Meta{}, fmt.Errorf("artifacts: close vectors: %w", err)
	}

	tplTmp, err := writeJSONTemp(s.dir, "templates-*.tmp", templates)
	if err != nil {
		return Meta{}, err
	}
	defer os.Remove(tplTmp)

	metaTmp, err := writeJSONTemp(s.dir, "meta-*.tmp", meta)
	if err != nil {
		return Meta{}, err
	}
	defer os.Remove(metaTmp)

	// Publish all three; vectors go last so Complete() flips only once
	// the set is coherent.
	if err := os.Rename(tplTmp, s.TemplatesPath()); err != nil {
		return Meta{}, fmt.Errorf("artifacts: publish templates: %w", err)
	}
	if err := os.Rename(metaTmp, s.MetaPath()); err != nil {
		return Meta{}, fmt.Errorf("artifacts: publish meta: %w", err)
	}
	if err := os.Rename(vecTmp.Name(), s.VectorsPath()); err != nil {
		return Meta{}, fmt.Errorf("artifacts: publish vectors: %w", err)
	}
	return meta, nil
}

// writeJSONTemp encodes v into a fresh temp file in dir and returns the
// temp path. Callers publish it with an atomic rename.
func writeJSONTemp(dir, pattern string, v interface{}) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("artifacts: create temp file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("artifacts: encode %s: %w", pattern, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("artifacts: close %s: %w", pattern, err)
	}
	return f.Name(), nil
}

// scanDataset walks the dataset line by line, invoking fn for each line
// with at least one token. Empty lines are skipped entirely;
// whitespace-only lines count as documents but yield no template.
func (s *Set) scanDataset(ctx context.Context, path string, fn func(lineID int, alert string, msg []string), numDocs *int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("artifacts: open dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineID := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if numDocs != nil {
			*numDocs++
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		fn(lineID, tokens[0], tokens[1:])
		lineID++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("artifacts: read dataset: %w", err)
	}
	return nil
}

// ReadMeta loads the build summary.
func (s *Set) ReadMeta() (Meta, error) {
	data, err := os.ReadFile(s.MetaPath())
	if errors.Is(err, os.ErrNotExist) {
		return Meta{}, ErrNotBuilt
	}
	if err != nil {
		return Meta{}, fmt.Errorf("artifacts: read meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("artifacts: decode meta: %w", err)
	}
	return meta, nil
}

// ReadTemplates loads the mined template dictionary in id order.
func (s *Set) ReadTemplates() ([]Template, error) {
	data, err := os.ReadFile(s.TemplatesPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("artifacts: read templates: %w", err)
	}
	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("artifacts: decode templates: %w", err)
	}
	return templates, nil
}

// ReadVectorsPage returns the vector records in window
// [offset, offset+limit), preserving line order.
func (s *Set) ReadVectorsPage(ctx context.Context, p paging.Params) ([]VectorRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.VectorsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("artifacts: open vectors: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	records := make([]VectorRecord, 0, p.Limit)
	idx := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if idx >= p.Offset {
			var rec VectorRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("artifacts: decode vector row %d: %w", idx, err)
			}
			records = append(records, rec)
			if len(records) == p.Limit {
				break
			}
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("artifacts: read vectors: %w", err)
	}
	return records, nil
}
