package store

import (
	"context"
	"errors"
	"testing"

	entschema "github.com/caplearn/caplearn/ent/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestTopicCreateGetDelete(t *testing.T) {
	s := openTestStore(t)
	topics := s.TopicRepo()
	ctx := context.Background()

	_, err := topics.Get(ctx, "present-perfect")
	if !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}

	err = topics.Create(ctx, &Topic{
		ID:          "present-perfect",
		Title:       "The Present Perfect",
		FileCount:   2,
		TotalChunks: 7,
		Metadata:    entschema.TopicMetadata{Difficulty: "intermediate", Tags: []string{"grammar"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Duplicate identifier is rejected.
	err = topics.Create(ctx, &Topic{ID: "present-perfect", Title: "Again"})
	if !errors.Is(err, ErrTopicExists) {
		t.Fatalf("expected ErrTopicExists, got %v", err)
	}

	got, err := topics.Get(ctx, "present-perfect")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "The Present Perfect" {
		t.Errorf("title = %q", got.Title)
	}
	if got.TotalChunks != 7 {
		t.Errorf("total_chunks = %d, want 7", got.TotalChunks)
	}
	if got.Metadata.Difficulty != "intermediate" {
		t.Errorf("metadata.difficulty = %q", got.Metadata.Difficulty)
	}

	if err := topics.Delete(ctx, "present-perfect"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := topics.Delete(ctx, "present-perfect"); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound on second delete, got %v", err)
	}
}

func TestTopicDeleteCascadesChunks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.TopicRepo().Create(ctx, &Topic{ID: "t1", Title: "T1"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	err := s.ChunkRepo().InsertBatch(ctx, []Chunk{
		{TopicID: "t1", FileName: "a.vtt", Index: 0, Content: "hello there", Embedding: []float32{0.1, 0.2}},
		{TopicID: "t1", FileName: "a.vtt", Index: 1, Content: "general kenobi", Embedding: []float32{0.3, 0.4}},
	})
	if err != nil {
		t.Fatalf("insert chunks: %v", err)
	}

	if err := s.TopicRepo().Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete topic: %v", err)
	}

	n, err := s.ChunkRepo().CountByTopic(ctx, "t1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 chunks after cascade delete, got %d", n)
	}
}

func TestChunkListOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of order across two files.
	err := s.ChunkRepo().InsertBatch(ctx, []Chunk{
		{TopicID: "t1", FileName: "b.vtt", Index: 0, Content: "b0", Embedding: []float32{0}},
		{TopicID: "t1", FileName: "a.vtt", Index: 1, Content: "a1", Embedding: []float32{0}},
		{TopicID: "t1", FileName: "a.vtt", Index: 0, Content: "a0", Embedding: []float32{0}},
		{TopicID: "t2", FileName: "x.vtt", Index: 0, Content: "x0", Embedding: []float32{0}},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	chunks, err := s.ChunkRepo().ListOrdered(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"a0", "a1", "b0"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunks[%d].Content = %q, want %q", i, chunks[i].Content, w)
		}
	}

	limited, err := s.ChunkRepo().ListOrdered(ctx, "t1", 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 chunks with limit, got %d", len(limited))
	}
}

func TestSessionSaveUpsertsAndAppends(t *testing.T) {
	s := openTestStore(t)
	sessions := s.SessionRepo()
	ctx := context.Background()

	_, err := sessions.Get(ctx, "u1", "t1", ModeQuiz)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	sess := &Session{
		UserID:          "u1",
		TopicID:         "t1",
		Mode:            ModeQuiz,
		CurrentQuestion: 1,
		TotalQuestions:  5,
		Status:          StatusInProgress,
		Messages: []entschema.Message{
			{Role: "assistant", Type: "question", Content: "I ___ (see) that film already.", QuestionNumber: 1},
		},
	}
	if err := sessions.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if sess.SessionID == "" {
		t.Fatal("expected session ID to be assigned on create")
	}
	firstID := sess.SessionID

	// Append a message and save again: same session, messages grow.
	sess.Messages = append(sess.Messages, entschema.Message{
		Role: "user", Type: "answer", Content: "I have seen that film already.", QuestionNumber: 1,
	})
	sess.TotalScore = 5
	sess.MaxPossibleScore = 5
	if err := sessions.Save(ctx, sess); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := sessions.Get(ctx, "u1", "t1", ModeQuiz)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != firstID {
		t.Errorf("session ID changed on upsert: %q != %q", got.SessionID, firstID)
	}
	if len(got.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.TotalScore != 5 {
		t.Errorf("total_score = %d, want 5", got.TotalScore)
	}

	// Chat-mode session for the same (user, topic) is independent.
	if err := sessions.Save(ctx, &Session{UserID: "u1", TopicID: "t1", Mode: ModeChat, Status: StatusInProgress}); err != nil {
		t.Fatalf("save chat session: %v", err)
	}
	chat, err := sessions.Get(ctx, "u1", "t1", ModeChat)
	if err != nil {
		t.Fatalf("get chat session: %v", err)
	}
	if chat.SessionID == firstID {
		t.Error("chat and quiz sessions must be distinct records")
	}
}

func TestSessionScorePercentage(t *testing.T) {
	tests := []struct {
		score, max, want int
	}{
		{0, 0, 0},
		{9, 15, 60},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tt := range tests {
		s := &Session{TotalScore: tt.score, MaxPossibleScore: tt.max}
		if got := s.ScorePercentage(); got != tt.want {
			t.Errorf("ScorePercentage(%d/%d) = %d, want %d", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := events.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      "question-gen",
			InputTokens:  100 + i,
			OutputTokens: 20,
			LatencyMs:    int64(50 + i),
			Success:      true,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := events.QueryLLMEvents(ctx, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Purpose != "question-gen" {
		t.Errorf("purpose = %q", got[0].Purpose)
	}
}
