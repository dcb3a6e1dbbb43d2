package tfidf_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/common/tfidf"
)

func TestStore_FitThenLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := tfidf.DefaultConfig()

	first := tfidf.NewStore(dir, cfg)
	status, err := first.FitOrLoad(corpus)
	require.NoError(t, err)
	assert.Equal(t, tfidf.StatusFitted, status)
	assert.FileExists(t, first.Path())

	// A fresh store against the same directory loads the artifact and
	// ignores the corpus argument entirely.
	second := tfidf.NewStore(dir, cfg)
	status, err = second.FitOrLoad(nil)
	require.NoError(t, err)
	assert.Equal(t, tfidf.StatusLoaded, status)

	texts := []string{"instruction cache parity error corrected"}
	out1, err := first.Transform(texts)
	require.NoError(t, err)
	out2, err := second.Transform(texts)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestStore_TransformBeforeFit(t *testing.T) {
	store := tfidf.NewStore(t.TempDir(), tfidf.DefaultConfig())

	_, err := store.Transform([]string{"anything"})
	assert.ErrorIs(t, err, tfidf.ErrNotFitted)

	_, err = store.Dim()
	assert.ErrorIs(t, err, tfidf.ErrNotFitted)
}

func TestStore_FitOrLoadIdempotent(t *testing.T) {
	store := tfidf.NewStore(t.TempDir(), tfidf.DefaultConfig())

	status, err := store.FitOrLoad(corpus)
	require.NoError(t, err)
	assert.Equal(t, tfidf.StatusFitted, status)

	status, err = store.FitOrLoad(corpus)
	require.NoError(t, err)
	assert.Equal(t, tfidf.StatusLoaded, status)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := tfidf.NewStore(dir, tfidf.DefaultConfig())

	_, err := store.FitOrLoad(corpus)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestStore_DimAfterFit(t *testing.T) {
	store := tfidf.NewStore(t.TempDir(), tfidf.DefaultConfig())

	_, err := store.FitOrLoad(corpus)
	require.NoError(t, err)

	dim, err := store.Dim()
	require.NoError(t, err)
	assert.Greater(t, dim, 0)

	out, err := store.Transform([]string{"machine check interrupt"})
	require.NoError(t, err)
	assert.Equal(t, dim, out[0].Dim)
}

func TestStore_PathInsideDir(t *testing.T) {
	dir := t.TempDir()
	store := tfidf.NewStore(dir, tfidf.DefaultConfig())
	assert.Equal(t, filepath.Join(dir, tfidf.ArtifactName), store.Path())
}
