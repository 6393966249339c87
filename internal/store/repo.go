package store

import (
	"context"
	"errors"
	"time"

	entschema "github.com/caplearn/caplearn/ent/schema"
)

// Session modes.
const (
	ModeChat = "chat"
	ModeQuiz = "quiz"
)

// Session lifecycle states.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ErrTopicNotFound is returned when the requested topic does not exist.
var ErrTopicNotFound = errors.New("topic not found")

// ErrTopicExists is returned when creating a topic whose identifier is
// already taken.
var ErrTopicExists = errors.New("topic already exists")

// ErrSessionNotFound is returned when no session exists for the
// requested (user, topic, mode) triple.
var ErrSessionNotFound = errors.New("session not found")

// Topic is a named corpus of ingested subtitle material.
type Topic struct {
	ID          string
	Title       string
	FileCount   int
	TotalChunks int
	Metadata    entschema.TopicMetadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk is one retrievable unit of transcript text with its embedding.
type Chunk struct {
	TopicID   string
	FileName  string
	Index     int
	Content   string
	Embedding []float32
}

// Session is the persisted state of one user's interaction with one
// topic in one mode. Its message log is append-only.
type Session struct {
	SessionID        string
	UserID           string
	TopicID          string
	Mode             string
	CurrentQuestion  int
	TotalQuestions   int
	TotalScore       int
	MaxPossibleScore int
	Status           string
	Messages         []entschema.Message
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ScorePercentage derives the running score as a rounded percentage.
// Returns 0 when no answers have been scored yet.
func (s *Session) ScorePercentage() int {
	if s.MaxPossibleScore == 0 {
		return 0
	}
	return int(float64(s.TotalScore)/float64(s.MaxPossibleScore)*100 + 0.5)
}

// TopicRepo manages topic records.
type TopicRepo interface {
	// Create stores a new topic. Returns ErrTopicExists when the
	// identifier is already taken.
	Create(ctx context.Context, t *Topic) error

	// Get returns the topic with the given identifier, or ErrTopicNotFound.
	Get(ctx context.Context, topicID string) (*Topic, error)

	// List returns all topics ordered by identifier.
	List(ctx context.Context) ([]*Topic, error)

	// Delete removes a topic and all of its chunks (cascade).
	// Returns ErrTopicNotFound when the topic does not exist.
	Delete(ctx context.Context, topicID string) error
}

// ChunkRepo manages chunk records.
type ChunkRepo interface {
	// InsertBatch stores chunks in insertion batches of at most 100 rows.
	InsertBatch(ctx context.Context, chunks []Chunk) error

	// CountByTopic returns the number of chunks stored for a topic.
	CountByTopic(ctx context.Context, topicID string) (int, error)

	// ListOrdered returns up to limit chunks of a topic ordered by
	// (file_name, chunk_index). A limit of 0 means no limit.
	ListOrdered(ctx context.Context, topicID string, limit int) ([]Chunk, error)
}

// SessionRepo manages conversation sessions.
type SessionRepo interface {
	// Get returns the session for (user, topic, mode), or ErrSessionNotFound.
	Get(ctx context.Context, userID, topicID, mode string) (*Session, error)

	// Save upserts the session keyed on (user, topic, mode). The last
	// write wins; no optimistic concurrency check is performed.
	Save(ctx context.Context, s *Session) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEvent is a recorded LLM API call.
type LLMEvent struct {
	ID           int
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns the most recent events, newest first.
	// A limit of 0 means no limit.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error)
}
