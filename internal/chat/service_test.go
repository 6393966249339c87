package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/llm"
	"github.com/caplearn/caplearn/internal/logging"
	"github.com/caplearn/caplearn/internal/retrieval"
	"github.com/caplearn/caplearn/internal/store"
)

type fakeTopicRepo struct {
	topics map[string]*store.Topic
}

func (f *fakeTopicRepo) Create(ctx context.Context, t *store.Topic) error  { return nil }
func (f *fakeTopicRepo) List(ctx context.Context) ([]*store.Topic, error)  { return nil, nil }
func (f *fakeTopicRepo) Delete(ctx context.Context, id string) error       { return nil }
func (f *fakeTopicRepo) Get(ctx context.Context, id string) (*store.Topic, error) {
	t, ok := f.topics[id]
	if !ok {
		return nil, store.ErrTopicNotFound
	}
	return t, nil
}

type fakeSessionRepo struct {
	sessions map[string]*store.Session
	saves    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*store.Session)}
}

func sessionKey(userID, topicID, mode string) string {
	return userID + "/" + topicID + "/" + mode
}

func (f *fakeSessionRepo) Get(ctx context.Context, userID, topicID, mode string) (*store.Session, error) {
	s, ok := f.sessions[sessionKey(userID, topicID, mode)]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	cp := *s
	cp.Messages = append([]entschema.Message(nil), s.Messages...)
	return &cp, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, s *store.Session) error {
	f.saves++
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("sess-%d", f.saves)
	}
	cp := *s
	cp.Messages = append([]entschema.Message(nil), s.Messages...)
	f.sessions[sessionKey(s.UserID, s.TopicID, s.Mode)] = &cp
	return nil
}

type fixedRetriever struct {
	result *retrieval.Result
}

func (f *fixedRetriever) Retrieve(ctx context.Context, topicID, query string) (*retrieval.Result, error) {
	return f.result, nil
}

func newChatService(provider llm.Provider) (*Service, *fakeSessionRepo) {
	topics := &fakeTopicRepo{topics: map[string]*store.Topic{
		"present-perfect": {ID: "present-perfect", Title: "The Present Perfect"},
	}}
	sessions := newFakeSessionRepo()
	ret := &fixedRetriever{result: &retrieval.Result{
		Path:   retrieval.PathSemantic,
		Chunks: []retrieval.Chunk{{Content: "first chunk"}, {Content: "second chunk"}},
	}}
	svc := NewService(topics, sessions, ret, provider, Config{MaxHistory: 4, MaxTokens: 500, Temperature: 0.7}, logging.Nop())
	return svc, sessions
}

func textResp(text string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(text)}
}

func TestChat_AnswersAndPersists(t *testing.T) {
	provider := llm.NewMockProvider(textResp("The present perfect links past and present."))
	svc, sessions := newChatService(provider)

	reply, err := svc.Chat(context.Background(), "u1", "present-perfect", "What does it express?")
	require.NoError(t, err)

	assert.Equal(t, "The present perfect links past and present.", reply.Text)
	assert.Equal(t, retrieval.PathSemantic, reply.Path)
	assert.NotEmpty(t, reply.SessionID)

	sess, err := sessions.Get(context.Background(), "u1", "present-perfect", store.ModeChat)
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "What does it express?", sess.Messages[0].Content)
	assert.Equal(t, "assistant", sess.Messages[1].Role)
	assert.Equal(t, messageTypeChat, sess.Messages[1].Type)
	assert.Equal(t, store.StatusInProgress, sess.Status)
}

func TestChat_PromptCarriesContextAndRules(t *testing.T) {
	provider := llm.NewMockProvider(textResp("ok"))
	svc, _ := newChatService(provider)

	_, err := svc.Chat(context.Background(), "u1", "present-perfect", "hello")
	require.NoError(t, err)

	req := provider.Calls[0]
	assert.Contains(t, req.System, "first chunk\n\n---\n\nsecond chunk")
	assert.Contains(t, req.System, `"The Present Perfect"`)
	assert.Contains(t, req.System, "I can only help with questions about The Present Perfect.")
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Equal(t, 500, req.MaxTokens)
}

func TestChat_HistoryTruncated(t *testing.T) {
	provider := llm.NewMockProvider(textResp("r1"), textResp("r2"), textResp("r3"))
	svc, _ := newChatService(provider) // MaxHistory: 4
	ctx := context.Background()

	for i, msg := range []string{"m1", "m2", "m3"} {
		_, err := svc.Chat(ctx, "u1", "present-perfect", msg)
		require.NoError(t, err, "turn %d", i)
	}

	// Third turn: session has 4 stored messages; request carries the
	// last 4 plus the new user message.
	last := provider.Calls[len(provider.Calls)-1]
	require.Len(t, last.Messages, 5)
	assert.Equal(t, "m1", last.Messages[0].Content)
	assert.Equal(t, llm.RoleAssistant, last.Messages[1].Role)
	assert.Equal(t, "m3", last.Messages[4].Content)
}

func TestChat_UnknownTopic(t *testing.T) {
	svc, _ := newChatService(llm.NewMockProvider())

	_, err := svc.Chat(context.Background(), "u1", "ghost", "hello")
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestChat_EmptyTopic(t *testing.T) {
	topics := &fakeTopicRepo{topics: map[string]*store.Topic{"t1": {ID: "t1", Title: "T1"}}}
	ret := &fixedRetriever{result: &retrieval.Result{Path: retrieval.PathEmpty}}
	svc := NewService(topics, newFakeSessionRepo(), ret, llm.NewMockProvider(), Config{}, logging.Nop())

	_, err := svc.Chat(context.Background(), "u1", "t1", "hello")
	assert.ErrorIs(t, err, retrieval.ErrNoContent)
}

func TestChat_ProviderErrorLeavesSessionUntouched(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc, sessions := newChatService(provider)

	_, err := svc.Chat(context.Background(), "u1", "present-perfect", "hello")
	require.Error(t, err)

	_, err = sessions.Get(context.Background(), "u1", "present-perfect", store.ModeChat)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestChatStream_EmitsAndPersistsFullReply(t *testing.T) {
	provider := llm.NewMockProvider(textResp("streamed reply"))
	svc, sessions := newChatService(provider)

	var got strings.Builder
	reply, err := svc.ChatStream(context.Background(), "u1", "present-perfect", "hello", func(delta string) {
		got.WriteString(delta)
	})
	require.NoError(t, err)

	assert.Equal(t, "streamed reply", reply.Text)
	assert.Equal(t, "streamed reply", got.String())

	sess, err := sessions.Get(context.Background(), "u1", "present-perfect", store.ModeChat)
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "streamed reply", sess.Messages[1].Content)
}

func TestChatStream_CancelledClientStillPersists(t *testing.T) {
	provider := llm.NewMockProvider(textResp("late reply"))
	svc, sessions := newChatService(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // client is already gone

	emitted := false
	reply, err := svc.ChatStream(ctx, "u1", "present-perfect", "hello", func(delta string) {
		emitted = true
	})
	require.NoError(t, err)

	assert.False(t, emitted, "no emits after client disconnect")
	assert.Equal(t, "late reply", reply.Text)

	sess, err := sessions.Get(context.Background(), "u1", "present-perfect", store.ModeChat)
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
}
