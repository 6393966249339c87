package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/embedding"
	"github.com/caplearn/caplearn/internal/logging"
	"github.com/caplearn/caplearn/internal/store"
	"github.com/caplearn/caplearn/internal/vectorindex"
)

type fakeTopicRepo struct {
	topics map[string]*store.Topic
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[string]*store.Topic)}
}

func (f *fakeTopicRepo) Create(ctx context.Context, t *store.Topic) error {
	if _, ok := f.topics[t.ID]; ok {
		return store.ErrTopicExists
	}
	cp := *t
	f.topics[t.ID] = &cp
	return nil
}

func (f *fakeTopicRepo) Get(ctx context.Context, id string) (*store.Topic, error) {
	t, ok := f.topics[id]
	if !ok {
		return nil, store.ErrTopicNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTopicRepo) List(ctx context.Context) ([]*store.Topic, error) {
	var out []*store.Topic
	for _, t := range f.topics {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTopicRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.topics[id]; !ok {
		return store.ErrTopicNotFound
	}
	delete(f.topics, id)
	return nil
}

type fakeChunkRepo struct {
	chunks []store.Chunk
}

func (f *fakeChunkRepo) InsertBatch(ctx context.Context, chunks []store.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkRepo) CountByTopic(ctx context.Context, topicID string) (int, error) {
	n := 0
	for _, c := range f.chunks {
		if c.TopicID == topicID {
			n++
		}
	}
	return n, nil
}

func (f *fakeChunkRepo) ListOrdered(ctx context.Context, topicID string, limit int) ([]store.Chunk, error) {
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

func (f *fakeChunkRepo) deleteTopic(topicID string) {
	kept := f.chunks[:0]
	for _, c := range f.chunks {
		if c.TopicID != topicID {
			kept = append(kept, c)
		}
	}
	f.chunks = kept
}

// cascadeTopicRepo mirrors the store behavior of removing a topic's
// chunks when the topic is deleted.
type cascadeTopicRepo struct {
	*fakeTopicRepo
	chunks *fakeChunkRepo
}

func (c *cascadeTopicRepo) Delete(ctx context.Context, id string) error {
	if err := c.fakeTopicRepo.Delete(ctx, id); err != nil {
		return err
	}
	c.chunks.deleteTopic(id)
	return nil
}

func newTestService(t *testing.T) (*Service, *cascadeTopicRepo, *fakeChunkRepo, *vectorindex.MemoryIndex) {
	t.Helper()
	chunks := &fakeChunkRepo{}
	topics := &cascadeTopicRepo{fakeTopicRepo: newFakeTopicRepo(), chunks: chunks}
	idx := vectorindex.NewMemoryIndex()
	svc := NewService(topics, chunks, embedding.NewMockEmbedder(8), idx, Config{ChunkSize: 10, ChunkOverlap: 2}, logging.Nop())
	return svc, topics, chunks, idx
}

func vttFile(name string, words int) File {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i)
	}
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:05.000\n" + strings.Join(parts, " ") + "\n"
	return File{Name: name, Content: content}
}

func TestServiceIngest(t *testing.T) {
	svc, topics, chunks, idx := newTestService(t)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, "present-perfect", "The Present Perfect",
		[]File{vttFile("lesson1.vtt", 26)},
		entschema.TopicMetadata{Difficulty: "intermediate"})
	require.NoError(t, err)

	// 26 words at window 10 overlap 2: [0,10) [8,18) [16,26).
	assert.Equal(t, 3, res.ChunksCreated)
	assert.Len(t, chunks.chunks, 3)
	assert.Equal(t, 3, idx.Len())

	topic, err := topics.Get(ctx, "present-perfect")
	require.NoError(t, err)
	assert.Equal(t, 3, topic.TotalChunks)
	assert.Equal(t, 1, topic.FileCount)

	for i, c := range chunks.chunks {
		assert.Equal(t, i, c.Index)
		assert.Len(t, c.Embedding, 8)
	}
}

func TestServiceIngest_DuplicateTopic(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "t1", "T1", []File{vttFile("a.vtt", 5)}, entschema.TopicMetadata{})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, "t1", "T1", []File{vttFile("a.vtt", 5)}, entschema.TopicMetadata{})
	assert.ErrorIs(t, err, store.ErrTopicExists)
}

func TestServiceIngest_NoContent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), "t1", "T1",
		[]File{{Name: "empty.vtt", Content: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n"}},
		entschema.TopicMetadata{})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestServiceIngest_SkipsEmptyFilesButKeepsOthers(t *testing.T) {
	svc, _, chunks, _ := newTestService(t)

	res, err := svc.Ingest(context.Background(), "t1", "T1",
		[]File{
			{Name: "empty.vtt", Content: "WEBVTT\n"},
			vttFile("real.vtt", 5),
		},
		entschema.TopicMetadata{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ChunksCreated)
	assert.Equal(t, "real.vtt", chunks.chunks[0].FileName)
}

func TestServiceIngest_EmbeddingFailureAborts(t *testing.T) {
	chunks := &fakeChunkRepo{}
	topics := &cascadeTopicRepo{fakeTopicRepo: newFakeTopicRepo(), chunks: chunks}
	emb := embedding.NewMockEmbedder(8)
	emb.Err = errors.New("backend down")
	svc := NewService(topics, chunks, emb, vectorindex.NewMemoryIndex(), Config{ChunkSize: 10, ChunkOverlap: 2}, logging.Nop())

	_, err := svc.Ingest(context.Background(), "t1", "T1", []File{vttFile("a.vtt", 5)}, entschema.TopicMetadata{})
	require.Error(t, err)

	// Nothing is persisted when embedding fails.
	_, err = topics.Get(context.Background(), "t1")
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
	assert.Empty(t, chunks.chunks)
}

func TestServiceReplace(t *testing.T) {
	svc, topics, chunks, idx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "t1", "Original Title",
		[]File{vttFile("old.vtt", 26)},
		entschema.TopicMetadata{Difficulty: "beginner"})
	require.NoError(t, err)

	res, err := svc.Replace(ctx, "t1", "", []File{vttFile("new.vtt", 5)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.ChunksCreated)
	assert.Len(t, chunks.chunks, 1)
	assert.Equal(t, "new.vtt", chunks.chunks[0].FileName)
	assert.Equal(t, 1, idx.Len())

	// Title and metadata carry over when not supplied.
	topic, err := topics.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Original Title", topic.Title)
	assert.Equal(t, "beginner", topic.Metadata.Difficulty)
}

func TestServiceReplace_MissingTopic(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Replace(context.Background(), "ghost", "", []File{vttFile("a.vtt", 5)}, nil)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestServiceDelete(t *testing.T) {
	svc, topics, chunks, idx := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "t1", "T1", []File{vttFile("a.vtt", 26)}, entschema.TopicMetadata{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "t1"))

	_, err = topics.Get(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
	assert.Empty(t, chunks.chunks)
	assert.Equal(t, 0, idx.Len())

	assert.ErrorIs(t, svc.Delete(ctx, "t1"), store.ErrTopicNotFound)
}
