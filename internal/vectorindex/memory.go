package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process Index doing exhaustive cosine search.
// It backs single-machine deployments and tests where running a Qdrant
// server is not worth it.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry // keyed by topic/file/index
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]Entry)}
}

func (m *MemoryIndex) Upsert(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[entryKey(e.TopicID, e.FileName, e.ChunkIndex)] = e
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, topicID string, vector []float32, limit, candidates int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Exhaustive scan: the candidate pool only matters for approximate
	// backends.
	var hits []Hit
	for _, e := range m.entries {
		if e.TopicID != topicID {
			continue
		}
		hits = append(hits, Hit{
			TopicID:    e.TopicID,
			FileName:   e.FileName,
			ChunkIndex: e.ChunkIndex,
			Content:    e.Content,
			Score:      cosineSimilarity(vector, e.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *MemoryIndex) DeleteTopic(ctx context.Context, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if e.TopicID == topicID {
			delete(m.entries, k)
		}
	}
	return nil
}

// Len reports the number of stored vectors.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func entryKey(topicID, fileName string, chunkIndex int) string {
	return fmt.Sprintf("%s/%s/%d", topicID, fileName, chunkIndex)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
