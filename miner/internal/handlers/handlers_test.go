package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/paging"
	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/miner/internal/artifacts"
	"github.com/loghound-systems/loghound-stack/miner/internal/handlers"
	"github.com/loghound-systems/loghound-stack/miner/internal/server"
	"github.com/loghound-systems/loghound-stack/miner/internal/service"
)

const dataset = `- 1117838570 RAS KERNEL INFO instruction cache parity error corrected
KERNDTLB 1117838573 RAS KERNEL FATAL data TLB error interrupt
- 1117838976 RAS KERNEL INFO instruction cache parity error corrected
KERNSTOR 1117842440 RAS KERNEL FATAL machine check interrupt
- 1117842974 RAS KERNEL INFO instruction cache parity error corrected
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	dataPath := filepath.Join(t.TempDir(), "bgl.log")
	require.NoError(t, os.WriteFile(dataPath, []byte(dataset), 0o644))

	outDir := t.TempDir()
	svc := service.New(
		artifacts.NewSet(outDir),
		tfidf.NewStore(outDir, tfidf.DefaultConfig()),
		dataPath,
		nil,
		logging.Default(),
	)

	ts := httptest.NewServer(server.NewRouter(handlers.NewHandler(svc, 2, logging.Default())))
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth_BeforeAndAfterBuild(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["built"])

	buildResp, err := http.Post(ts.URL+"/build", "application/json", nil)
	require.NoError(t, err)
	defer buildResp.Body.Close()
	require.Equal(t, http.StatusOK, buildResp.StatusCode)

	var built map[string]interface{}
	require.NoError(t, json.NewDecoder(buildResp.Body).Decode(&built))
	assert.Equal(t, "built", built["status"])

	meta, ok := built["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), meta["num_docs"])
}

func TestCollectVectors_BuildsLazily(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/collect_vectors?offset=0&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page paging.Page[artifacts.VectorRecord]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	assert.Equal(t, 0, page.Start)
	assert.Equal(t, 3, page.End)
	require.NotNil(t, page.Total)
	assert.Equal(t, 5, *page.Total)
	require.Len(t, page.Data, 3)
	assert.False(t, page.Data[0].IsAlert)
	assert.True(t, page.Data[1].IsAlert)
	assert.Equal(t, "KERNDTLB", page.Data[1].AlertTag)
}

func TestCollectVectors_InvalidParams(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/collect_vectors?offset=-5")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTemplateVectors_RequiresBuild(t *testing.T) {
	ts := newServer(t)

	resp, err := http.Get(ts.URL + "/templates/vectors")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "build")
}

func TestTemplateVectors_AfterBuild(t *testing.T) {
	ts := newServer(t)

	buildResp, err := http.Post(ts.URL+"/build", "application/json", nil)
	require.NoError(t, err)
	buildResp.Body.Close()
	require.Equal(t, http.StatusOK, buildResp.StatusCode)

	resp, err := http.Get(ts.URL + "/templates/vectors?offset=0&limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var batch service.TemplateVectorBatch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))

	assert.Equal(t, 0, batch.Start)
	assert.Equal(t, batch.Total, batch.End)
	assert.Positive(t, batch.Dim)
	require.Len(t, batch.Rows, batch.Total)
	for _, row := range batch.Rows {
		assert.Equal(t, batch.Dim, row.Vector.Dim)
		assert.Len(t, row.Vector.Values, len(row.Vector.Indices))
		for _, idx := range row.Vector.Indices {
			assert.Less(t, idx, batch.Dim)
		}
		assert.NotEmpty(t, row.Template)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	ts := newServer(t)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(ts.URL+"/build", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
