package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/embedding"
	"github.com/caplearn/caplearn/internal/store"
	"github.com/caplearn/caplearn/internal/vectorindex"
)

// ErrNoContent reports that no usable text survived normalization
// across all submitted files.
var ErrNoContent = errors.New("no content could be extracted from the provided files")

// File is one subtitle file submitted for ingestion.
type File struct {
	Name    string
	Content string
}

// Result summarizes a completed ingestion.
type Result struct {
	TopicID       string
	ChunksCreated int
}

// Config holds chunking parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// ConfigFromEnv reads chunking parameters from CAPLEARN_CHUNK_SIZE and
// CAPLEARN_CHUNK_OVERLAP, defaulting to 500/50 words.
func ConfigFromEnv() Config {
	return Config{
		ChunkSize:    envInt("CAPLEARN_CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap: envInt("CAPLEARN_CHUNK_OVERLAP", DefaultChunkOverlap),
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// Service runs the ingestion pipeline: normalize, chunk, embed, persist
// and index.
type Service struct {
	topics   store.TopicRepo
	chunks   store.ChunkRepo
	embedder embedding.Embedder
	index    vectorindex.Index
	cfg      Config
	log      *zap.SugaredLogger
}

func NewService(topics store.TopicRepo, chunks store.ChunkRepo, embedder embedding.Embedder, index vectorindex.Index, cfg Config, log *zap.SugaredLogger) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Service{
		topics:   topics,
		chunks:   chunks,
		embedder: embedder,
		index:    index,
		cfg:      cfg,
		log:      log,
	}
}

// Ingest creates a new topic from subtitle files. A topic that already
// exists is rejected with store.ErrTopicExists; use Replace to
// re-ingest.
func (s *Service) Ingest(ctx context.Context, topicID, title string, files []File, metadata entschema.TopicMetadata) (*Result, error) {
	if _, err := s.topics.Get(ctx, topicID); err == nil {
		return nil, store.ErrTopicExists
	} else if !errors.Is(err, store.ErrTopicNotFound) {
		return nil, err
	}

	s.log.Infow("processing topic", "topic_id", topicID, "files", len(files))

	chunks := s.buildChunks(topicID, files)
	if len(chunks) == 0 {
		return nil, ErrNoContent
	}

	s.log.Infow("generating embeddings", "topic_id", topicID, "chunks", len(chunks))

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	err = s.topics.Create(ctx, &store.Topic{
		ID:          topicID,
		Title:       title,
		FileCount:   len(files),
		TotalChunks: len(chunks),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}
	if err := s.chunks.InsertBatch(ctx, chunks); err != nil {
		return nil, fmt.Errorf("persist chunks: %w", err)
	}

	if err := s.indexChunks(ctx, chunks); err != nil {
		// The store is the source of truth; a cold index degrades
		// retrieval to the fallback path instead of failing ingestion.
		s.log.Warnw("vector indexing failed, semantic search degraded",
			"topic_id", topicID, "error", err)
	}

	s.log.Infow("topic processed", "topic_id", topicID, "chunks", len(chunks))
	return &Result{TopicID: topicID, ChunksCreated: len(chunks)}, nil
}

// Replace re-ingests an existing topic from scratch. Empty title or
// metadata carry over from the existing topic.
func (s *Service) Replace(ctx context.Context, topicID, title string, files []File, metadata *entschema.TopicMetadata) (*Result, error) {
	existing, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = existing.Title
	}
	meta := existing.Metadata
	if metadata != nil {
		meta = *metadata
	}

	if err := s.Delete(ctx, topicID); err != nil {
		return nil, err
	}
	return s.Ingest(ctx, topicID, title, files, meta)
}

// Delete removes a topic's record, chunks, and index vectors.
func (s *Service) Delete(ctx context.Context, topicID string) error {
	if err := s.topics.Delete(ctx, topicID); err != nil {
		return err
	}
	if err := s.index.DeleteTopic(ctx, topicID); err != nil {
		s.log.Warnw("vector index cleanup failed", "topic_id", topicID, "error", err)
	}
	s.log.Infow("topic deleted", "topic_id", topicID)
	return nil
}

func (s *Service) buildChunks(topicID string, files []File) []store.Chunk {
	var chunks []store.Chunk
	for _, f := range files {
		text := NormalizeVTT(f.Content)
		if text == "" {
			s.log.Warnw("no text extracted from file", "file", f.Name)
			continue
		}
		for i, c := range SplitIntoChunks(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap) {
			chunks = append(chunks, store.Chunk{
				TopicID:  topicID,
				FileName: f.Name,
				Index:    i,
				Content:  c,
			})
		}
	}
	return chunks
}

func (s *Service) indexChunks(ctx context.Context, chunks []store.Chunk) error {
	entries := make([]vectorindex.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = vectorindex.Entry{
			TopicID:    c.TopicID,
			FileName:   c.FileName,
			ChunkIndex: c.Index,
			Content:    c.Content,
			Vector:     c.Embedding,
		}
	}
	return s.index.Upsert(ctx, entries)
}
