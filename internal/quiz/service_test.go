package quiz

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

func (f *fakeTopicRepo) Create(ctx context.Context, t *store.Topic) error { return nil }
func (f *fakeTopicRepo) List(ctx context.Context) ([]*store.Topic, error) {
	return nil, nil
}
func (f *fakeTopicRepo) Delete(ctx context.Context, id string) error { return nil }
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

func sessionKey(userID, topicID, mode string) string {
	return userID + "/" + topicID + "/" + mode
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*store.Session)}
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
	err    error
}

func (f *fixedRetriever) Retrieve(ctx context.Context, topicID, query string) (*retrieval.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func questionResp(text string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(text)}
}

func evalResp(score int, correct bool) llm.MockResponse {
	body := fmt.Sprintf(`{"score":%d,"is_correct":%t,"feedback":{"summary":"Great!","explanation":"Well done.","correct_answer":"","grammar_tip":"Mind the participle.","example":"I have finished."}}`,
		score, correct)
	return llm.MockResponse{Content: json.RawMessage(body)}
}

func newQuizService(provider llm.Provider) (*Service, *fakeSessionRepo) {
	topics := &fakeTopicRepo{topics: map[string]*store.Topic{
		"present-perfect": {ID: "present-perfect", Title: "The Present Perfect"},
	}}
	sessions := newFakeSessionRepo()
	ret := &fixedRetriever{result: &retrieval.Result{
		Path:   retrieval.PathSemantic,
		Chunks: []retrieval.Chunk{{Content: "lesson text"}},
	}}
	svc := NewService(topics, sessions, ret, provider, Config{DefaultQuestions: 5, MaxQuestions: 10, MaxScore: 5}, logging.Nop())
	return svc, sessions
}

func TestStart(t *testing.T) {
	provider := llm.NewMockProvider(questionResp("I ___ (finish) my homework already."))
	svc, sessions := newQuizService(provider)

	res, err := svc.Start(context.Background(), "u1", "present-perfect", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, res.QuestionNumber)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, "I ___ (finish) my homework already.", res.Question)
	assert.Equal(t, store.StatusInProgress, res.Status)
	assert.Equal(t, "The Present Perfect", res.TopicTitle)
	assert.NotEmpty(t, res.SessionID)

	sess, err := sessions.Get(context.Background(), "u1", "present-perfect", store.ModeQuiz)
	require.NoError(t, err)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, messageTypeQuestion, sess.Messages[0].Type)
}

func TestStart_DefaultsAndClamp(t *testing.T) {
	provider := llm.NewMockProvider(questionResp("q1"), questionResp("q2"))
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	res, err := svc.Start(ctx, "u1", "present-perfect", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalQuestions)

	res, err = svc.Start(ctx, "u1", "present-perfect", 50)
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalQuestions)
}

func TestStart_UnknownTopic(t *testing.T) {
	svc, _ := newQuizService(llm.NewMockProvider())

	_, err := svc.Start(context.Background(), "u1", "ghost", 3)
	assert.ErrorIs(t, err, store.ErrTopicNotFound)
}

func TestStart_EmptyTopic(t *testing.T) {
	topics := &fakeTopicRepo{topics: map[string]*store.Topic{
		"t1": {ID: "t1", Title: "T1"},
	}}
	ret := &fixedRetriever{result: &retrieval.Result{Path: retrieval.PathEmpty}}
	svc := NewService(topics, newFakeSessionRepo(), ret, llm.NewMockProvider(), Config{}, logging.Nop())

	_, err := svc.Start(context.Background(), "u1", "t1", 3)
	assert.ErrorIs(t, err, retrieval.ErrNoContent)
}

func TestStart_ResetsExistingSession(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"), evalResp(5, true), questionResp("q2"),
		questionResp("fresh q1"),
	)
	svc, sessions := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 2)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "u1", "present-perfect", "I have finished.")
	require.NoError(t, err)

	res, err := svc.Start(ctx, "u1", "present-perfect", 2)
	require.NoError(t, err)
	assert.Equal(t, "fresh q1", res.Question)

	sess, err := sessions.Get(ctx, "u1", "present-perfect", store.ModeQuiz)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.TotalScore)
	assert.Equal(t, 0, sess.MaxPossibleScore)
	assert.Equal(t, 1, sess.CurrentQuestion)
	require.Len(t, sess.Messages, 1)
}

func TestSubmitAnswer_FullQuizLifecycle(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		evalResp(5, true), questionResp("q2"),
		evalResp(4, true), questionResp("q3"),
		evalResp(0, false),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 3)
	require.NoError(t, err)

	r1, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer one")
	require.NoError(t, err)
	assert.Equal(t, 1, r1.QuestionNumber)
	assert.Equal(t, 5, r1.Evaluation.Score)
	assert.True(t, r1.Evaluation.IsCorrect)
	assert.Equal(t, "q2", r1.NextQuestion)
	require.NotNil(t, r1.Progress)
	assert.Equal(t, 5, r1.Progress.CurrentScore)
	assert.Equal(t, 5, r1.Progress.MaxPossibleScore)
	assert.Equal(t, 100, r1.Progress.Percentage)
	assert.Equal(t, store.StatusInProgress, r1.Status)
	assert.Nil(t, r1.FinalResults)

	r2, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer two")
	require.NoError(t, err)
	assert.Equal(t, "q3", r2.NextQuestion)
	assert.Equal(t, 9, r2.Progress.CurrentScore)

	r3, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer three")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, r3.Status)
	assert.Empty(t, r3.NextQuestion)

	fr := r3.FinalResults
	require.NotNil(t, fr)
	assert.Equal(t, 9, fr.TotalScore)
	assert.Equal(t, 15, fr.MaxPossibleScore)
	assert.Equal(t, 60, fr.Percentage)
	assert.Equal(t, "D", fr.Grade)
	assert.Equal(t, "Keep practicing!", fr.GradeLabel)
	assert.Equal(t, 1, fr.Performance.PerfectAnswers)
	assert.Equal(t, 1, fr.Performance.GoodAnswers)
	assert.Equal(t, 3, fr.Performance.TotalQuestions)

	// A completed quiz refuses further answers.
	_, err = svc.SubmitAnswer(ctx, "u1", "present-perfect", "late answer")
	assert.ErrorIs(t, err, ErrQuizCompleted)
}

func TestSubmitAnswer_NoActiveQuiz(t *testing.T) {
	svc, _ := newQuizService(llm.NewMockProvider())

	_, err := svc.SubmitAnswer(context.Background(), "u1", "present-perfect", "answer")
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestSubmitAnswer_NotStartedSession(t *testing.T) {
	svc, sessions := newQuizService(llm.NewMockProvider())
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &store.Session{
		UserID:  "u1",
		TopicID: "present-perfect",
		Mode:    store.ModeQuiz,
		Status:  store.StatusNotStarted,
	}))

	_, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	assert.ErrorIs(t, err, ErrQuizNotStarted)
}

func TestSubmitAnswer_NoQuestionPending(t *testing.T) {
	svc, sessions := newQuizService(llm.NewMockProvider())
	ctx := context.Background()

	// An in-progress session whose log holds no question message.
	require.NoError(t, sessions.Save(ctx, &store.Session{
		UserID:          "u1",
		TopicID:         "present-perfect",
		Mode:            store.ModeQuiz,
		Status:          store.StatusInProgress,
		CurrentQuestion: 1,
		TotalQuestions:  3,
	}))

	_, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	assert.ErrorIs(t, err, ErrNoQuestion)
}

func TestSubmitAnswer_QuestionRepetitionGuard(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		evalResp(3, true), questionResp("q2"),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 3)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	require.NoError(t, err)

	// The second question-generation request must carry the first
	// question as a previous question.
	last := provider.Calls[len(provider.Calls)-1]
	assert.Contains(t, last.System, "PREVIOUS QUESTIONS")
	assert.Contains(t, last.System, "q1")
}

func TestSubmitAnswer_UnparseableEvaluationScoresNeutral(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: fmt.Errorf("schema violation")}},
		questionResp("q2"),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 2)
	require.NoError(t, err)

	res, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Evaluation.Score) // floor(5/2)
	assert.False(t, res.Evaluation.IsCorrect)
	assert.Equal(t, "Thanks for your answer!", res.Evaluation.Feedback.Summary)
}

func TestSubmitAnswer_ScoreClamped(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		evalResp(99, true),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 1)
	require.NoError(t, err)

	res, err := svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Evaluation.Score)
}

func TestSubmitAnswerStream_EmitsFeedback(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		evalResp(5, true),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	_, err := svc.Start(ctx, "u1", "present-perfect", 1)
	require.NoError(t, err)

	var got strings.Builder
	res, err := svc.SubmitAnswerStream(ctx, "u1", "present-perfect", "answer", func(delta string) {
		got.WriteString(delta)
	})
	require.NoError(t, err)
	assert.Equal(t, res.Evaluation.FeedbackMessage, got.String())
}

func TestStatus(t *testing.T) {
	provider := llm.NewMockProvider(
		questionResp("q1"),
		evalResp(5, true),
	)
	svc, _ := newQuizService(provider)
	ctx := context.Background()

	status, err := svc.Status(ctx, "u1", "present-perfect")
	require.NoError(t, err)
	assert.Equal(t, store.StatusNotStarted, status.Status)
	assert.Nil(t, status.FinalResults)

	_, err = svc.Start(ctx, "u1", "present-perfect", 1)
	require.NoError(t, err)

	status, err = svc.Status(ctx, "u1", "present-perfect")
	require.NoError(t, err)
	assert.Equal(t, store.StatusInProgress, status.Status)
	assert.Equal(t, 1, status.CurrentQuestion)
	assert.Len(t, status.History, 1)

	_, err = svc.SubmitAnswer(ctx, "u1", "present-perfect", "answer")
	require.NoError(t, err)

	status, err = svc.Status(ctx, "u1", "present-perfect")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, status.Status)
	require.NotNil(t, status.FinalResults)
	assert.Equal(t, 100, status.FinalResults.Percentage)
	assert.Equal(t, "A", status.FinalResults.Grade)
	assert.Len(t, status.History, 3)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		pct   int
		grade string
		label string
	}{
		{100, "A", "Excellent!"},
		{90, "A", "Excellent!"},
		{89, "B", "Great job!"},
		{80, "B", "Great job!"},
		{79, "C", "Good work!"},
		{70, "C", "Good work!"},
		{69, "D", "Keep practicing!"},
		{60, "D", "Keep practicing!"},
		{59, "F", "More practice needed"},
		{0, "F", "More practice needed"},
	}

	for _, tt := range tests {
		grade, label := Grade(tt.pct)
		assert.Equal(t, tt.grade, grade, "pct=%d", tt.pct)
		assert.Equal(t, tt.label, label, "pct=%d", tt.pct)
	}
}

func TestBuildFeedbackMessage(t *testing.T) {
	eval := &evaluation{
		Score:     3,
		IsCorrect: false,
		Feedback: entschema.Feedback{
			Summary:       "Good try!",
			Explanation:   "Almost right.",
			CorrectAnswer: "I have seen it.",
			GrammarTip:    "Use have + past participle.",
			Example:       "I have eaten.",
		},
	}

	msg := buildFeedbackMessage(eval, 5)
	assert.Contains(t, msg, "Good try!")
	assert.Contains(t, msg, "Score: 3/5")
	assert.Contains(t, msg, "Correct answer: I have seen it.")
	assert.Contains(t, msg, "Tip: Use have + past participle.")
	assert.Contains(t, msg, `Example: "I have eaten."`)

	// Empty optional fields are omitted.
	minimal := &evaluation{Score: 5, Feedback: entschema.Feedback{Summary: "Perfect!", Explanation: "Spot on."}}
	msg = buildFeedbackMessage(minimal, 5)
	assert.NotContains(t, msg, "Correct answer")
	assert.NotContains(t, msg, "Tip:")
	assert.NotContains(t, msg, "Example:")
}
