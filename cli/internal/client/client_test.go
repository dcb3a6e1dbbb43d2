package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loghound-systems/loghound-stack/common/sparse"
)

func TestDo_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "model not trained yet"})
	}))
	defer server.Close()

	err := do(newHTTPClient(), http.MethodPost, server.URL+"/predict", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not trained yet")
	assert.Contains(t, err.Error(), "409")
}

func TestDo_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	err := do(newHTTPClient(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "405")
}

func TestCollectorCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collect", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"start":10,"end":12,"total":null,"data":[
			{"line_id":10,"raw":"- 111 msg","alert_tag":"-","is_alert":false,"message":"111 msg"},
			{"line_id":11,"raw":"KERNDTLB 112 bad","alert_tag":"KERNDTLB","is_alert":true,"message":"112 bad"}
		]}`))
	}))
	defer server.Close()

	page, err := NewCollectorClient(server.URL).Collect(10, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Start)
	assert.Equal(t, 12, page.End)
	assert.Nil(t, page.Total)
	require.Len(t, page.Data, 2)
	assert.True(t, page.Data[1].IsAlert)
}

func TestMinerBuild(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/build", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("force"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "built",
			"meta":         map[string]int{"num_docs": 100, "vocab_size": 42, "templates": 7},
			"dataset_path": "/data/bgl.log",
		})
	}))
	defer server.Close()

	result, err := NewMinerClient(server.URL).Build(true)
	require.NoError(t, err)
	assert.Equal(t, "built", result.Status)
	assert.Equal(t, 100, result.Meta.NumDocs)
	assert.Equal(t, 7, result.Meta.Templates)
}

func TestMLTrainAndPredictVectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/train_vectors":
			var vectors []sparse.Vector
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vectors))
			require.Len(t, vectors, 2)
			assert.Equal(t, 4, vectors[0].Dim)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "trained",
				"path":   "/models/ocsvm_raw_vectors.gob",
				"stats":  map[string]interface{}{"rows": 2, "dim": 4, "support_vectors": 2},
			})
		case "/predict_vectors":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"labels": []int{1, -1},
				"scores": []float64{0.3, -0.8},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	vectors := []sparse.Vector{
		{Dim: 4, Indices: []int{0}, Values: []float64{1}},
		{Dim: 4, Indices: []int{3}, Values: []float64{2}},
	}

	ml := NewMLClient(server.URL)
	trained, err := ml.TrainVectors(vectors)
	require.NoError(t, err)
	assert.Equal(t, "trained", trained.Status)
	assert.Equal(t, 2, trained.Stats.Rows)

	pred, err := ml.PredictVectors(vectors)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, pred.Labels)
	assert.InDelta(t, -0.8, pred.Scores[1], 1e-12)
}

func TestMLTrainTextsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"msg one", "msg two"}, payload["texts"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "trained", "path": "/models/ocsvm_text.gob", "vectorizer": "fitted",
		})
	}))
	defer server.Close()

	resp, err := NewMLClient(server.URL).TrainTexts([]string{"msg one", "msg two"})
	require.NoError(t, err)
	assert.Equal(t, "fitted", resp.Vectorizer)
}

func TestStorageBulkInsertAndList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/vectors/bulk" && r.Method == http.MethodPost:
			var vectors []EventVector
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vectors))
			json.NewEncoder(w).Encode(map[string]int{"inserted": len(vectors)})
		case r.URL.Path == "/vectors" && r.Method == http.MethodGet:
			assert.Equal(t, "true", r.URL.Query().Get("only_non_alert"))
			w.Write([]byte(`{"start":0,"end":1,"total":1,"data":[
				{"line_id":0,"alert_tag":"-","is_alert":false,"template_id":0,"dim":3,"indices":[1],"values":[0.5]}
			]}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	storage := NewStorageClient(server.URL)
	inserted, err := storage.BulkInsertVectors([]EventVector{{LineID: 0, Dim: 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	page, err := storage.ListVectors(0, 10, true)
	require.NoError(t, err)
	require.NotNil(t, page.Total)
	assert.Equal(t, 1, *page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, []int{1}, page.Data[0].Indices)
}

func TestStorageReplaceTemplates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/templates", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)

		var templates []Template
		require.NoError(t, json.NewDecoder(r.Body).Decode(&templates))
		json.NewEncoder(w).Encode(map[string]int{"templates": len(templates)})
	}))
	defer server.Close()

	n, err := NewStorageClient(server.URL).ReplaceTemplates([]Template{
		{TemplID: 0, Template: "<*> RAS KERNEL INFO generating core"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
