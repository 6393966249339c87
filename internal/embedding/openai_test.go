package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingServer answers the embeddings endpoint with one synthetic
// vector per input and records each request's input size.
func embeddingServer(t *testing.T, batchSizes *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*batchSizes = append(*batchSizes, len(req.Input))

		type datum struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			// Encode the global position in the vector so the test can
			// verify order across sub-batches.
			data[i] = datum{Index: i, Embedding: []float32{float32(len(req.Input)), float32(i)}}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
}

func newTestEmbedder(t *testing.T, baseURL string) *OpenAIEmbedder {
	t.Helper()
	e, err := NewOpenAIEmbedder(Config{APIKey: "test-key", BaseURL: baseURL + "/v1"})
	require.NoError(t, err)
	return e
}

func TestOpenAIEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(Config{})
	assert.Error(t, err)
}

func TestOpenAIEmbedder_EmbedBatchSplitsAtLimit(t *testing.T) {
	var batchSizes []int
	srv := embeddingServer(t, &batchSizes)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}

	vecs, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)

	assert.Len(t, vecs, 250)
	assert.Equal(t, []int{100, 100, 50}, batchSizes)

	// Each vector carries its in-batch index; the first element of the
	// third batch sits at global position 200.
	assert.Equal(t, float32(0), vecs[0][1])
	assert.Equal(t, float32(99), vecs[99][1])
	assert.Equal(t, float32(0), vecs[200][1])
}

func TestOpenAIEmbedder_EmbedBatchEmpty(t *testing.T) {
	var batchSizes []int
	srv := embeddingServer(t, &batchSizes)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
	assert.Empty(t, batchSizes)
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	var batchSizes []int
	srv := embeddingServer(t, &batchSizes)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	vec, err := e.Embed(context.Background(), "the present perfect")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)
}

func TestOpenAIEmbedder_RateLimitMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder(8)

	a, err := m.Embed(context.Background(), "hello")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "hello")
	require.NoError(t, err)
	c, err := m.Embed(context.Background(), "world")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 8)
	assert.Len(t, m.Calls(), 3)
}
