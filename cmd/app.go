package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caplearn/caplearn/internal/chat"
	"github.com/caplearn/caplearn/internal/embedding"
	"github.com/caplearn/caplearn/internal/ingest"
	"github.com/caplearn/caplearn/internal/llm"
	"github.com/caplearn/caplearn/internal/logging"
	"github.com/caplearn/caplearn/internal/quiz"
	"github.com/caplearn/caplearn/internal/retrieval"
	"github.com/caplearn/caplearn/internal/store"
	"github.com/caplearn/caplearn/internal/vectorindex"
)

// app bundles the wired services behind a command invocation.
type app struct {
	store     *store.Store
	log       *zap.SugaredLogger
	retriever *retrieval.Retriever
	ingest    *ingest.Service
	chat      *chat.Service
	quiz      *quiz.Service

	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// buildApp opens the store and wires services. LLM-backed services are
// nil when no provider is configured; commands that need one report it.
func buildApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	log, err := logging.New()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &app{store: st, log: log}
	a.closers = append(a.closers, st.Close, func() error { _ = log.Sync(); return nil })

	embedder := buildEmbedder(log)
	index := buildIndex(ctx, a, embedder.Dimensions(), log)

	a.retriever = retrieval.NewRetriever(st.ChunkRepo(), embedder, index, retrieval.ConfigFromEnv(), log)
	a.ingest = ingest.NewService(st.TopicRepo(), st.ChunkRepo(), embedder, index, ingest.ConfigFromEnv(), log)

	provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv(), st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Chat and quiz will be unavailable.")
	} else {
		a.chat = chat.NewService(st.TopicRepo(), st.SessionRepo(), a.retriever, provider, chat.ConfigFromEnv(), log)
		a.quiz = quiz.NewService(st.TopicRepo(), st.SessionRepo(), a.retriever, provider, quiz.ConfigFromEnv(), log)
	}

	return a, nil
}

func buildEmbedder(log *zap.SugaredLogger) embedding.Embedder {
	embedder, err := embedding.NewOpenAIEmbedder(embedding.ConfigFromEnv())
	if err != nil {
		log.Warnw("embeddings unavailable, retrieval will use transcript order", "error", err)
		return embedding.Unavailable{}
	}
	return embedder
}

// buildIndex connects to Qdrant when configured, otherwise serves from
// an in-process index hydrated from the stored chunk embeddings.
func buildIndex(ctx context.Context, a *app, dimensions int, log *zap.SugaredLogger) vectorindex.Index {
	if os.Getenv("CAPLEARN_QDRANT_ADDR") == "" || dimensions == 0 {
		return hydrateMemoryIndex(ctx, a.store, log)
	}

	cfg := vectorindex.QdrantConfigFromEnv(dimensions)
	idx, err := vectorindex.NewQdrantIndex(ctx, cfg)
	if err != nil {
		log.Warnw("qdrant unavailable, using in-process index", "addr", cfg.Addr, "error", err)
		return hydrateMemoryIndex(ctx, a.store, log)
	}
	a.closers = append(a.closers, idx.Close)
	return idx
}

// hydrateMemoryIndex loads every stored chunk embedding into a fresh
// in-process index. A partial load only degrades retrieval to the
// transcript-order fallback, so failures are logged and swallowed.
func hydrateMemoryIndex(ctx context.Context, st *store.Store, log *zap.SugaredLogger) *vectorindex.MemoryIndex {
	idx := vectorindex.NewMemoryIndex()

	topics, err := st.TopicRepo().List(ctx)
	if err != nil {
		log.Warnw("index hydration skipped", "error", err)
		return idx
	}
	for _, t := range topics {
		chunks, err := st.ChunkRepo().ListOrdered(ctx, t.ID, 0)
		if err != nil {
			log.Warnw("index hydration incomplete", "topic", t.ID, "error", err)
			continue
		}
		entries := make([]vectorindex.Entry, 0, len(chunks))
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				continue
			}
			entries = append(entries, vectorindex.Entry{
				TopicID:    c.TopicID,
				FileName:   c.FileName,
				ChunkIndex: c.Index,
				Content:    c.Content,
				Vector:     c.Embedding,
			})
		}
		if len(entries) == 0 {
			continue
		}
		if err := idx.Upsert(ctx, entries); err != nil {
			log.Warnw("index hydration incomplete", "topic", t.ID, "error", err)
		}
	}
	return idx
}
