package embedding

import (
	"context"
	"hash/fnv"
	"sync"
)

// MockEmbedder produces deterministic vectors derived from the input
// text. Identical texts always map to identical vectors, which is what
// retrieval tests need.
type MockEmbedder struct {
	Dims int

	// Err, when set, is returned from every call.
	Err error

	mu    sync.Mutex
	calls [][]string
}

// NewMockEmbedder returns a mock producing vectors of the given width.
func NewMockEmbedder(dims int) *MockEmbedder {
	return &MockEmbedder{Dims: dims}
}

func (m *MockEmbedder) Dimensions() int { return m.Dims }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	batch := make([]string, len(texts))
	copy(batch, texts)
	m.calls = append(m.calls, batch)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = m.vectorFor(t)
	}
	return vecs, nil
}

// Calls returns the batches seen so far.
func (m *MockEmbedder) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockEmbedder) vectorFor(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, m.Dims)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000 - 0.5
	}
	return vec
}
