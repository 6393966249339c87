package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caplearn/caplearn/internal/embedding"
	"github.com/caplearn/caplearn/internal/logging"
	"github.com/caplearn/caplearn/internal/store"
	"github.com/caplearn/caplearn/internal/vectorindex"
)

type fakeChunkRepo struct {
	chunks   []store.Chunk
	countErr error
	listErr  error
}

func (f *fakeChunkRepo) InsertBatch(ctx context.Context, chunks []store.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkRepo) CountByTopic(ctx context.Context, topicID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, c := range f.chunks {
		if c.TopicID == topicID {
			n++
		}
	}
	return n, nil
}

func (f *fakeChunkRepo) ListOrdered(ctx context.Context, topicID string, limit int) ([]store.Chunk, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []store.Chunk
	for _, c := range f.chunks {
		if c.TopicID == topicID {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// failingIndex always refuses searches.
type failingIndex struct {
	vectorindex.MemoryIndex
}

func (f *failingIndex) Search(ctx context.Context, topicID string, vector []float32, limit, candidates int) ([]vectorindex.Hit, error) {
	return nil, vectorindex.ErrUnavailable
}

func seededRepo(topicID string, n int) *fakeChunkRepo {
	repo := &fakeChunkRepo{}
	for i := 0; i < n; i++ {
		repo.chunks = append(repo.chunks, store.Chunk{
			TopicID:  topicID,
			FileName: "a.vtt",
			Index:    i,
			Content:  string(rune('a' + i)),
		})
	}
	return repo
}

func TestRetrieve_EmptyTopic(t *testing.T) {
	r := NewRetriever(&fakeChunkRepo{}, embedding.NewMockEmbedder(4), vectorindex.NewMemoryIndex(), Config{}, logging.Nop())

	res, err := r.Retrieve(context.Background(), "t1", "anything")
	require.NoError(t, err)

	assert.Equal(t, PathEmpty, res.Path)
	assert.True(t, res.Empty())
}

func TestRetrieve_SemanticPath(t *testing.T) {
	emb := embedding.NewMockEmbedder(4)
	idx := vectorindex.NewMemoryIndex()
	repo := seededRepo("t1", 3)
	ctx := context.Background()

	for _, c := range repo.chunks {
		vec, err := emb.Embed(ctx, c.Content)
		require.NoError(t, err)
		require.NoError(t, idx.Upsert(ctx, []vectorindex.Entry{{
			TopicID: c.TopicID, FileName: c.FileName, ChunkIndex: c.Index,
			Content: c.Content, Vector: vec,
		}}))
	}

	r := NewRetriever(repo, emb, idx, Config{Limit: 2, Candidates: 100}, logging.Nop())

	// The query "a" embeds identically to chunk "a", so it must rank first.
	res, err := r.Retrieve(ctx, "t1", "a")
	require.NoError(t, err)

	assert.Equal(t, PathSemantic, res.Path)
	require.Len(t, res.Chunks, 2)
	assert.Equal(t, "a", res.Chunks[0].Content)
}

func TestRetrieve_IndexErrorFallsBack(t *testing.T) {
	repo := seededRepo("t1", 8)
	r := NewRetriever(repo, embedding.NewMockEmbedder(4), &failingIndex{}, Config{Limit: 5}, logging.Nop())

	res, err := r.Retrieve(context.Background(), "t1", "query")
	require.NoError(t, err)

	assert.Equal(t, PathFallback, res.Path)
	require.Len(t, res.Chunks, 5)
	for i, c := range res.Chunks {
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestRetrieve_EmbeddingErrorFallsBack(t *testing.T) {
	repo := seededRepo("t1", 2)
	emb := embedding.NewMockEmbedder(4)
	emb.Err = errors.New("backend down")
	r := NewRetriever(repo, emb, vectorindex.NewMemoryIndex(), Config{}, logging.Nop())

	res, err := r.Retrieve(context.Background(), "t1", "query")
	require.NoError(t, err)
	assert.Equal(t, PathFallback, res.Path)
	assert.Len(t, res.Chunks, 2)
}

func TestRetrieve_ColdIndexFallsBack(t *testing.T) {
	// Chunks exist in the store but nothing is indexed: zero hits must
	// not be treated as a semantic answer.
	repo := seededRepo("t1", 2)
	r := NewRetriever(repo, embedding.NewMockEmbedder(4), vectorindex.NewMemoryIndex(), Config{}, logging.Nop())

	res, err := r.Retrieve(context.Background(), "t1", "query")
	require.NoError(t, err)
	assert.Equal(t, PathFallback, res.Path)
	assert.Len(t, res.Chunks, 2)
}

func TestRetrieve_EmptyQueryUsesPlaceholder(t *testing.T) {
	emb := embedding.NewMockEmbedder(4)
	idx := vectorindex.NewMemoryIndex()
	repo := seededRepo("t1", 1)
	ctx := context.Background()

	vec, err := emb.Embed(ctx, placeholderQuery)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, []vectorindex.Entry{{
		TopicID: "t1", FileName: "a.vtt", ChunkIndex: 0, Content: "a", Vector: vec,
	}}))

	r := NewRetriever(repo, emb, idx, Config{}, logging.Nop())

	res, err := r.Retrieve(ctx, "t1", "")
	require.NoError(t, err)
	assert.Equal(t, PathSemantic, res.Path)

	// The placeholder, not the empty string, was embedded.
	calls := emb.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, []string{placeholderQuery}, last)
}

func TestRetrieve_StoreErrorSurfaces(t *testing.T) {
	repo := &fakeChunkRepo{countErr: errors.New("db closed")}
	r := NewRetriever(repo, embedding.NewMockEmbedder(4), vectorindex.NewMemoryIndex(), Config{}, logging.Nop())

	_, err := r.Retrieve(context.Background(), "t1", "query")
	assert.Error(t, err)
}

func TestResultContext(t *testing.T) {
	res := &Result{Chunks: []Chunk{{Content: "first"}, {Content: "second"}}}
	assert.Equal(t, "first\n\n---\n\nsecond", res.Context())
}
