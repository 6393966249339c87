// Package vectorindex stores chunk vectors and answers similarity
// queries scoped to a topic.
package vectorindex

import (
	"context"
	"errors"
)

// Entry is one indexed chunk vector with its retrieval payload.
type Entry struct {
	TopicID    string
	FileName   string
	ChunkIndex int
	Content    string
	Vector     []float32
}

// Hit is a search result ordered by similarity, best first.
type Hit struct {
	TopicID    string
	FileName   string
	ChunkIndex int
	Content    string
	Score      float32
}

// ErrUnavailable reports that the index backend could not serve the
// request. Retrieval treats it as a signal to fall back, not to fail.
var ErrUnavailable = errors.New("vector index unavailable")

// Index answers nearest-neighbor queries over chunk vectors.
type Index interface {
	// Upsert writes entries, replacing any existing vector for the same
	// (topic, file, chunk) identity.
	Upsert(ctx context.Context, entries []Entry) error

	// Search returns up to limit hits for the topic, best match first.
	// candidates bounds the approximate search frontier; backends that
	// search exhaustively may ignore it.
	Search(ctx context.Context, topicID string, vector []float32, limit, candidates int) ([]Hit, error)

	// DeleteTopic removes every vector belonging to the topic.
	DeleteTopic(ctx context.Context, topicID string) error
}
