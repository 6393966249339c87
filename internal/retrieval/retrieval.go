// Package retrieval selects the topic chunks that ground a chat reply
// or quiz question.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/caplearn/caplearn/internal/embedding"
	"github.com/caplearn/caplearn/internal/store"
	"github.com/caplearn/caplearn/internal/vectorindex"
)

// Path records which route produced a retrieval result.
type Path string

const (
	// PathSemantic means vector search ranked the chunks.
	PathSemantic Path = "semantic"
	// PathFallback means deterministic transcript order was used after
	// semantic search failed or returned nothing.
	PathFallback Path = "fallback"
	// PathEmpty means the topic has no chunks at all.
	PathEmpty Path = "empty"
)

// Chunk is one retrieved piece of transcript.
type Chunk struct {
	Content    string
	FileName   string
	ChunkIndex int
	Score      float32
}

// Result carries retrieved chunks and the path that produced them.
type Result struct {
	Path   Path
	Chunks []Chunk
}

// Context joins the chunk contents into a single prompt block.
func (r *Result) Context() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// Empty reports whether nothing was retrieved.
func (r *Result) Empty() bool { return len(r.Chunks) == 0 }

// ErrNoContent reports that a topic exists but has nothing to ground a
// conversation on. Engines surface it when retrieval comes back empty.
var ErrNoContent = errors.New("no content found for topic")

// placeholderQuery stands in when the caller has no query text, e.g.
// when generating the first quiz question.
const placeholderQuery = "english lesson"

// Config bounds a retrieval query.
type Config struct {
	// Limit is the maximum number of chunks returned.
	Limit int
	// Candidates is the approximate-search frontier passed to the
	// vector index.
	Candidates int
}

// ConfigFromEnv reads CAPLEARN_RETRIEVAL_LIMIT and
// CAPLEARN_RETRIEVAL_CANDIDATES, defaulting to 5 and 100.
func ConfigFromEnv() Config {
	return Config{
		Limit:      envInt("CAPLEARN_RETRIEVAL_LIMIT", 5),
		Candidates: envInt("CAPLEARN_RETRIEVAL_CANDIDATES", 100),
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

// Retriever answers "which chunks should ground this exchange". A
// semantic failure of any kind degrades to the fallback path; Retrieve
// only errors when the chunk store itself is broken.
type Retriever struct {
	chunks   store.ChunkRepo
	embedder embedding.Embedder
	index    vectorindex.Index
	cfg      Config
	log      *zap.SugaredLogger
}

func NewRetriever(chunks store.ChunkRepo, embedder embedding.Embedder, index vectorindex.Index, cfg Config, log *zap.SugaredLogger) *Retriever {
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = 100
	}
	return &Retriever{chunks: chunks, embedder: embedder, index: index, cfg: cfg, log: log}
}

// Retrieve returns up to cfg.Limit chunks for the topic. An empty query
// is replaced with a neutral placeholder so quiz generation can still
// rank chunks semantically.
func (r *Retriever) Retrieve(ctx context.Context, topicID, query string) (*Result, error) {
	count, err := r.chunks.CountByTopic(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("count chunks for %s: %w", topicID, err)
	}
	if count == 0 {
		return &Result{Path: PathEmpty}, nil
	}

	if hits, ok := r.semantic(ctx, topicID, query); ok {
		return &Result{Path: PathSemantic, Chunks: hits}, nil
	}

	stored, err := r.chunks.ListOrdered(ctx, topicID, r.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("fallback query for %s: %w", topicID, err)
	}

	r.log.Infow("retrieval fell back to transcript order", "topic_id", topicID, "chunks", len(stored))

	chunks := make([]Chunk, len(stored))
	for i, c := range stored {
		chunks[i] = Chunk{Content: c.Content, FileName: c.FileName, ChunkIndex: c.Index}
	}
	return &Result{Path: PathFallback, Chunks: chunks}, nil
}

// semantic attempts the vector path. ok is false when the caller should
// fall back.
func (r *Retriever) semantic(ctx context.Context, topicID, query string) ([]Chunk, bool) {
	if query == "" {
		query = placeholderQuery
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.log.Warnw("query embedding failed", "topic_id", topicID, "error", err)
		return nil, false
	}

	hits, err := r.index.Search(ctx, topicID, vector, r.cfg.Limit, r.cfg.Candidates)
	if err != nil {
		r.log.Warnw("vector search failed", "topic_id", topicID, "error", err)
		return nil, false
	}
	if len(hits) == 0 {
		return nil, false
	}

	chunks := make([]Chunk, len(hits))
	for i, h := range hits {
		chunks[i] = Chunk{Content: h.Content, FileName: h.FileName, ChunkIndex: h.ChunkIndex, Score: h.Score}
	}
	return chunks, true
}
