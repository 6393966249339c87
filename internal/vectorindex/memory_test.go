package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_SearchRanksByCosine(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, []Entry{
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 0, Content: "exact", Vector: []float32{1, 0, 0}},
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 1, Content: "close", Vector: []float32{0.9, 0.1, 0}},
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 2, Content: "far", Vector: []float32{0, 1, 0}},
		{TopicID: "t2", FileName: "b.vtt", ChunkIndex: 0, Content: "other topic", Vector: []float32{1, 0, 0}},
	})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, "t1", []float32{1, 0, 0}, 2, 100)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].Content)
	assert.Equal(t, "close", hits[1].Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemoryIndex_SearchFiltersTopic(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{TopicID: "t2", FileName: "b.vtt", ChunkIndex: 0, Content: "other", Vector: []float32{1, 0}},
	}))

	hits, err := idx.Search(ctx, "t1", []float32{1, 0}, 5, 100)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryIndex_UpsertReplacesSameIdentity(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 0, Content: "old", Vector: []float32{1, 0}},
	}))
	require.NoError(t, idx.Upsert(ctx, []Entry{
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 0, Content: "new", Vector: []float32{1, 0}},
	}))

	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, "t1", []float32{1, 0}, 5, 100)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Content)
}

func TestMemoryIndex_DeleteTopic(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 0, Content: "a", Vector: []float32{1, 0}},
		{TopicID: "t1", FileName: "a.vtt", ChunkIndex: 1, Content: "b", Vector: []float32{0, 1}},
		{TopicID: "t2", FileName: "b.vtt", ChunkIndex: 0, Content: "c", Vector: []float32{1, 1}},
	}))

	require.NoError(t, idx.DeleteTopic(ctx, "t1"))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, "t2", []float32{1, 1}, 5, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestPointIDStable(t *testing.T) {
	a := pointID("t1", "a.vtt", 0)
	b := pointID("t1", "a.vtt", 0)
	c := pointID("t1", "a.vtt", 1)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
