package tfidf_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/common/tfidf"
)

var corpus = []string{
	"instruction cache parity error corrected",
	"data TLB error interrupt",
	"machine check interrupt",
	"instruction cache parity error corrected",
	"generating core file",
}

func TestFit_Determinism(t *testing.T) {
	cfg := tfidf.Config{MaxFeatures: 100, NgramMin: 1, NgramMax: 2, MinDF: 1, MaxDF: 1.0}

	v1, err := tfidf.Fit(corpus, cfg)
	require.NoError(t, err)
	v2, err := tfidf.Fit(corpus, cfg)
	require.NoError(t, err)

	assert.Equal(t, v1.Dim(), v2.Dim())
	assert.Equal(t, v1.Vocabulary(), v2.Vocabulary())

	out1, err := v1.Transform([]string{"instruction cache parity error"})
	require.NoError(t, err)
	out2, err := v2.Transform([]string{"instruction cache parity error"})
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestFit_VocabularySortedAndUnique(t *testing.T) {
	v, err := tfidf.Fit(corpus, tfidf.Config{NgramMin: 1, NgramMax: 1, MinDF: 1, MaxDF: 1.0})
	require.NoError(t, err)

	vocab := v.Vocabulary()
	for i := 1; i < len(vocab); i++ {
		assert.Less(t, vocab[i-1], vocab[i])
	}
}

func TestFit_MaxFeaturesKeepsHighestDF(t *testing.T) {
	docs := []string{
		"alpha beta",
		"alpha beta",
		"alpha gamma",
	}
	v, err := tfidf.Fit(docs, tfidf.Config{MaxFeatures: 2, NgramMin: 1, NgramMax: 1, MinDF: 1, MaxDF: 1.0})
	require.NoError(t, err)

	// alpha appears in 3 docs, beta in 2, gamma in 1.
	assert.Equal(t, []string{"alpha", "beta"}, v.Vocabulary())
}

func TestFit_MinDFPrunes(t *testing.T) {
	docs := []string{
		"common rare",
		"common",
		"common",
	}
	v, err := tfidf.Fit(docs, tfidf.Config{NgramMin: 1, NgramMax: 1, MinDF: 2, MaxDF: 1.0})
	require.NoError(t, err)

	assert.Equal(t, []string{"common"}, v.Vocabulary())
}

func TestFit_MinDFOneKeepsSingletons(t *testing.T) {
	// An absolute minimum of one document prunes nothing, even for
	// terms that appear in a single document.
	docs := []string{"boot ok", "disk error"}
	v, err := tfidf.Fit(docs, tfidf.DefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, v.Vocabulary(), "boot")
	assert.Contains(t, v.Vocabulary(), "error")
}

func TestFit_MinDFFractionPrunes(t *testing.T) {
	docs := []string{
		"common rare",
		"common",
		"common",
	}
	// 0.5 of three documents rounds the threshold up past one.
	v, err := tfidf.Fit(docs, tfidf.Config{NgramMin: 1, NgramMax: 1, MinDF: 0.5, MaxDF: 1.0})
	require.NoError(t, err)

	assert.Equal(t, []string{"common"}, v.Vocabulary())
}

func TestFit_MaxDFFractionPrunes(t *testing.T) {
	docs := []string{
		"everywhere one",
		"everywhere two",
		"everywhere three",
	}
	// A term in every document exceeds a 0.9 document-frequency fraction.
	v, err := tfidf.Fit(docs, tfidf.Config{NgramMin: 1, NgramMax: 1, MinDF: 1, MaxDF: 0.9})
	require.NoError(t, err)

	assert.NotContains(t, v.Vocabulary(), "everywhere")
	assert.Contains(t, v.Vocabulary(), "one")
}

func TestFit_EmptyCorpus(t *testing.T) {
	_, err := tfidf.Fit(nil, tfidf.DefaultConfig())
	assert.ErrorIs(t, err, tfidf.ErrEmptyCorpus)
}

func TestFit_Bigrams(t *testing.T) {
	docs := []string{"cache parity error"}
	v, err := tfidf.Fit(docs, tfidf.Config{NgramMin: 1, NgramMax: 2, MinDF: 1, MaxDF: 1.0})
	require.NoError(t, err)

	vocab := v.Vocabulary()
	assert.Contains(t, vocab, "cache parity")
	assert.Contains(t, vocab, "parity error")
	assert.Contains(t, vocab, "cache")
}

func TestTransform_L2Normalized(t *testing.T) {
	v, err := tfidf.Fit(corpus, tfidf.DefaultConfig())
	require.NoError(t, err)

	out, err := v.Transform([]string{"instruction cache parity error corrected"})
	require.NoError(t, err)
	require.Len(t, out, 1)

	var norm float64
	for _, val := range out[0].Values {
		norm += val * val
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.Equal(t, v.Dim(), out[0].Dim)
	assert.Len(t, out[0].Values, len(out[0].Indices))
}

func TestTransform_UnseenTermsIgnored(t *testing.T) {
	v, err := tfidf.Fit(corpus, tfidf.DefaultConfig())
	require.NoError(t, err)

	out, err := v.Transform([]string{"zzz unseen tokens only"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Indices)
	assert.Equal(t, v.Dim(), out[0].Dim)
}

func TestTransform_PreservesInputOrder(t *testing.T) {
	v, err := tfidf.Fit(corpus, tfidf.DefaultConfig())
	require.NoError(t, err)

	texts := []string{"machine check interrupt", "generating core file"}
	out, err := v.Transform(texts)
	require.NoError(t, err)
	require.Len(t, out, 2)

	single, err := v.Transform([]string{texts[1]})
	require.NoError(t, err)
	assert.Equal(t, single[0], out[1])
}

func TestIDF_RareTermsWeighMore(t *testing.T) {
	docs := []string{
		"shared rare",
		"shared other",
		"shared third",
	}
	v, err := tfidf.Fit(docs, tfidf.Config{NgramMin: 1, NgramMax: 1, MinDF: 1, MaxDF: 1.0})
	require.NoError(t, err)

	out, err := v.Transform([]string{"shared rare"})
	require.NoError(t, err)

	vocab := v.Vocabulary()
	weight := func(term string) float64 {
		for i, col := range out[0].Indices {
			if vocab[col] == term {
				return math.Abs(out[0].Values[i])
			}
		}
		return 0
	}
	assert.Greater(t, weight("rare"), weight("shared"))
}
