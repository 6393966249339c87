// Package quiz runs graded quiz sessions over ingested topics.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/llm"
	"github.com/caplearn/caplearn/internal/retrieval"
	"github.com/caplearn/caplearn/internal/store"
)

const (
	messageTypeQuestion   = "question"
	messageTypeAnswer     = "answer"
	messageTypeEvaluation = "evaluation"
)

var (
	// ErrNoActiveQuiz means no quiz session exists for this user and topic.
	ErrNoActiveQuiz = errors.New("no active quiz; start a new quiz")
	// ErrQuizCompleted means the session already finished.
	ErrQuizCompleted = errors.New("quiz completed; start a new quiz")
	// ErrQuizNotStarted means the session exists but was never started.
	ErrQuizNotStarted = errors.New("quiz not started")
	// ErrNoQuestion means there is no open question to answer.
	ErrNoQuestion = errors.New("no question to answer")
)

// Config holds quiz parameters.
type Config struct {
	// DefaultQuestions is used when the caller asks for zero questions.
	DefaultQuestions int
	// MaxQuestions caps a single quiz.
	MaxQuestions int
	// MaxScore is the per-question maximum.
	MaxScore int
}

// ConfigFromEnv reads CAPLEARN_QUIZ_QUESTIONS, CAPLEARN_QUIZ_MAX_QUESTIONS
// and CAPLEARN_QUIZ_MAX_SCORE, defaulting to 5, 10 and 5.
func ConfigFromEnv() Config {
	return Config{
		DefaultQuestions: envInt("CAPLEARN_QUIZ_QUESTIONS", 5),
		MaxQuestions:     envInt("CAPLEARN_QUIZ_MAX_QUESTIONS", 10),
		MaxScore:         envInt("CAPLEARN_QUIZ_MAX_SCORE", 5),
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

// ContextRetriever supplies the lesson chunks that ground questions and
// evaluations.
type ContextRetriever interface {
	Retrieve(ctx context.Context, topicID, query string) (*retrieval.Result, error)
}

// Service drives the quiz state machine. One session exists per
// (user, topic); starting a quiz resets it.
type Service struct {
	topics    store.TopicRepo
	sessions  store.SessionRepo
	retriever ContextRetriever
	provider  llm.Provider
	cfg       Config
	log       *zap.SugaredLogger
}

func NewService(topics store.TopicRepo, sessions store.SessionRepo, retriever ContextRetriever, provider llm.Provider, cfg Config, log *zap.SugaredLogger) *Service {
	if cfg.DefaultQuestions <= 0 {
		cfg.DefaultQuestions = 5
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 10
	}
	if cfg.MaxScore <= 0 {
		cfg.MaxScore = 5
	}
	return &Service{
		topics:    topics,
		sessions:  sessions,
		retriever: retriever,
		provider:  provider,
		cfg:       cfg,
		log:       log,
	}
}

// StartResult reports the opening state of a quiz.
type StartResult struct {
	SessionID      string
	TopicID        string
	TopicTitle     string
	QuestionNumber int
	TotalQuestions int
	Question       string
	Status         string
}

// Evaluation is the scored outcome of one answer.
type Evaluation struct {
	Score           int
	MaxScore        int
	IsCorrect       bool
	Feedback        entschema.Feedback
	FeedbackMessage string
}

// Progress is the running score mid-quiz.
type Progress struct {
	CurrentScore     int
	MaxPossibleScore int
	Percentage       int
}

// AnswerResult reports the outcome of submitting an answer.
type AnswerResult struct {
	SessionID      string
	TopicID        string
	TopicTitle     string
	QuestionNumber int
	TotalQuestions int
	YourAnswer     string
	Evaluation     Evaluation
	NextQuestion   string
	Progress       *Progress
	Status         string
	FinalResults   *FinalResults
}

// StatusResult reports the current state of a quiz session.
type StatusResult struct {
	SessionID        string
	TopicID          string
	TopicTitle       string
	Status           string
	CurrentQuestion  int
	TotalQuestions   int
	TotalScore       int
	MaxPossibleScore int
	Percentage       int
	FinalResults     *FinalResults
	History          []entschema.Message
}

// Start begins a quiz, resetting any previous session for this user and
// topic. totalQuestions of zero uses the default; values above the cap
// are clamped.
func (s *Service) Start(ctx context.Context, userID, topicID string, totalQuestions int) (*StartResult, error) {
	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if totalQuestions <= 0 {
		totalQuestions = s.cfg.DefaultQuestions
	}
	if totalQuestions > s.cfg.MaxQuestions {
		totalQuestions = s.cfg.MaxQuestions
	}

	res, err := s.retriever.Retrieve(ctx, topicID, topic.Title)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, fmt.Errorf("topic %s: %w", topicID, retrieval.ErrNoContent)
	}

	sess, err := s.sessions.Get(ctx, userID, topicID, store.ModeQuiz)
	if errors.Is(err, store.ErrSessionNotFound) {
		sess = &store.Session{UserID: userID, TopicID: topicID, Mode: store.ModeQuiz}
	} else if err != nil {
		return nil, err
	}

	// Restart semantics: the session record survives, the quiz state
	// does not.
	sess.CurrentQuestion = 1
	sess.TotalQuestions = totalQuestions
	sess.TotalScore = 0
	sess.MaxPossibleScore = 0
	sess.Status = store.StatusInProgress
	sess.Messages = nil

	question, err := s.generateQuestion(ctx, topic.Title, res.Context(), 1, totalQuestions, nil)
	if err != nil {
		return nil, err
	}

	sess.Messages = append(sess.Messages, entschema.Message{
		Role:           "assistant",
		Type:           messageTypeQuestion,
		QuestionNumber: 1,
		Content:        question,
		Timestamp:      time.Now(),
	})

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Infow("quiz started", "user_id", userID, "topic_id", topicID, "questions", totalQuestions)

	return &StartResult{
		SessionID:      sess.SessionID,
		TopicID:        topicID,
		TopicTitle:     topic.Title,
		QuestionNumber: 1,
		TotalQuestions: totalQuestions,
		Question:       question,
		Status:         sess.Status,
	}, nil
}

// SubmitAnswer grades the answer to the open question and either asks
// the next question or completes the quiz.
func (s *Service) SubmitAnswer(ctx context.Context, userID, topicID, answer string) (*AnswerResult, error) {
	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, userID, topicID, store.ModeQuiz)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, ErrNoActiveQuiz
	} else if err != nil {
		return nil, err
	}

	switch sess.Status {
	case store.StatusCompleted:
		return nil, ErrQuizCompleted
	case store.StatusNotStarted:
		return nil, ErrQuizNotStarted
	}

	question := lastQuestion(sess.Messages)
	if question == nil {
		return nil, ErrNoQuestion
	}

	res, err := s.retriever.Retrieve(ctx, topicID, question.Content)
	if err != nil {
		return nil, err
	}

	sess.Messages = append(sess.Messages, entschema.Message{
		Role:           "user",
		Type:           messageTypeAnswer,
		Content:        answer,
		QuestionNumber: sess.CurrentQuestion,
		Timestamp:      time.Now(),
	})

	eval, err := s.evaluateAnswer(ctx, topic.Title, res.Context(), question.Content, answer)
	if err != nil {
		return nil, err
	}
	feedbackMessage := buildFeedbackMessage(eval, s.cfg.MaxScore)

	score := eval.Score
	maxScore := s.cfg.MaxScore
	sess.Messages = append(sess.Messages, entschema.Message{
		Role:           "assistant",
		Type:           messageTypeEvaluation,
		QuestionNumber: sess.CurrentQuestion,
		Content:        feedbackMessage,
		Score:          &score,
		MaxScore:       &maxScore,
		IsCorrect:      &eval.IsCorrect,
		Feedback:       &eval.Feedback,
		Timestamp:      time.Now(),
	})

	sess.TotalScore += eval.Score
	sess.MaxPossibleScore += s.cfg.MaxScore

	result := &AnswerResult{
		TopicID:        topicID,
		TopicTitle:     topic.Title,
		QuestionNumber: sess.CurrentQuestion,
		TotalQuestions: sess.TotalQuestions,
		YourAnswer:     answer,
		Evaluation: Evaluation{
			Score:           eval.Score,
			MaxScore:        s.cfg.MaxScore,
			IsCorrect:       eval.IsCorrect,
			Feedback:        eval.Feedback,
			FeedbackMessage: feedbackMessage,
		},
	}

	if sess.CurrentQuestion >= sess.TotalQuestions {
		sess.Status = store.StatusCompleted
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}

		result.SessionID = sess.SessionID
		result.Status = sess.Status
		result.FinalResults = finalResults(sess, s.cfg.MaxScore)

		s.log.Infow("quiz completed", "user_id", userID, "topic_id", topicID,
			"score", sess.TotalScore, "max", sess.MaxPossibleScore)
		return result, nil
	}

	sess.CurrentQuestion++
	next, err := s.generateQuestion(ctx, topic.Title, res.Context(),
		sess.CurrentQuestion, sess.TotalQuestions, previousQuestions(sess.Messages))
	if err != nil {
		return nil, err
	}

	sess.Messages = append(sess.Messages, entschema.Message{
		Role:           "assistant",
		Type:           messageTypeQuestion,
		QuestionNumber: sess.CurrentQuestion,
		Content:        next,
		Timestamp:      time.Now(),
	})

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	result.SessionID = sess.SessionID
	result.Status = sess.Status
	result.NextQuestion = next
	result.Progress = &Progress{
		CurrentScore:     sess.TotalScore,
		MaxPossibleScore: sess.MaxPossibleScore,
		Percentage:       sess.ScorePercentage(),
	}
	return result, nil
}

// SubmitAnswerStream behaves like SubmitAnswer but emits the feedback
// message in fragments as it would be typed out.
func (s *Service) SubmitAnswerStream(ctx context.Context, userID, topicID, answer string, emit func(delta string)) (*AnswerResult, error) {
	result, err := s.SubmitAnswer(ctx, userID, topicID, answer)
	if err != nil {
		return nil, err
	}

	if emit != nil {
		for _, word := range strings.SplitAfter(result.Evaluation.FeedbackMessage, " ") {
			if ctx.Err() != nil {
				break
			}
			emit(word)
		}
	}
	return result, nil
}

// Status reports the session state without mutating it. A missing
// session is not an error: the status is simply not_started.
func (s *Service) Status(ctx context.Context, userID, topicID string) (*StatusResult, error) {
	sess, err := s.sessions.Get(ctx, userID, topicID, store.ModeQuiz)
	if errors.Is(err, store.ErrSessionNotFound) {
		return &StatusResult{TopicID: topicID, Status: store.StatusNotStarted}, nil
	} else if err != nil {
		return nil, err
	}

	title := "Unknown"
	if topic, err := s.topics.Get(ctx, topicID); err == nil {
		title = topic.Title
	}

	result := &StatusResult{
		SessionID:        sess.SessionID,
		TopicID:          topicID,
		TopicTitle:       title,
		Status:           sess.Status,
		CurrentQuestion:  sess.CurrentQuestion,
		TotalQuestions:   sess.TotalQuestions,
		TotalScore:       sess.TotalScore,
		MaxPossibleScore: sess.MaxPossibleScore,
		Percentage:       sess.ScorePercentage(),
		History:          sess.Messages,
	}
	if sess.Status == store.StatusCompleted {
		result.FinalResults = finalResults(sess, s.cfg.MaxScore)
	}
	return result, nil
}

func (s *Service) generateQuestion(ctx context.Context, topicTitle, lessonContext string, questionNumber, totalQuestions int, previous []string) (string, error) {
	ctx = llm.WithPurpose(ctx, "quiz-question")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: buildQuestionPrompt(topicTitle, lessonContext, questionNumber, totalQuestions, previous),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Generate the next question."},
		},
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("generate question %d: %w", questionNumber, err)
	}
	return strings.TrimSpace(string(resp.Content)), nil
}

// evaluation mirrors EvaluationSchema.
type evaluation struct {
	Score     int                `json:"score"`
	IsCorrect bool               `json:"is_correct"`
	Feedback  entschema.Feedback `json:"feedback"`
}

func (s *Service) evaluateAnswer(ctx context.Context, topicTitle, lessonContext, question, answer string) (*evaluation, error) {
	ctx = llm.WithPurpose(ctx, "quiz-eval")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: buildEvaluationPrompt(topicTitle, lessonContext, question, answer, s.cfg.MaxScore),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Evaluate this answer."},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   400,
		Temperature: 0.3,
	})

	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		// A malformed evaluation must not lose the learner's answer:
		// grade it neutrally and move on.
		s.log.Warnw("evaluation response unusable, applying neutral score", "error", err)
		return s.neutralEvaluation(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	var eval evaluation
	if err := json.Unmarshal(resp.Content, &eval); err != nil {
		s.log.Warnw("evaluation JSON did not parse, applying neutral score", "error", err)
		return s.neutralEvaluation(), nil
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > s.cfg.MaxScore {
		eval.Score = s.cfg.MaxScore
	}
	return &eval, nil
}

func (s *Service) neutralEvaluation() *evaluation {
	return &evaluation{
		Score:     s.cfg.MaxScore / 2,
		IsCorrect: false,
		Feedback: entschema.Feedback{
			Summary:     "Thanks for your answer!",
			Explanation: "Let's continue.",
			GrammarTip:  "Keep practicing!",
		},
	}
}

func buildFeedbackMessage(eval *evaluation, maxScore int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nScore: %d/%d\n\n%s", eval.Feedback.Summary, eval.Score, maxScore, eval.Feedback.Explanation)
	if eval.Feedback.CorrectAnswer != "" {
		fmt.Fprintf(&b, "\n\nCorrect answer: %s", eval.Feedback.CorrectAnswer)
	}
	if eval.Feedback.GrammarTip != "" {
		fmt.Fprintf(&b, "\n\nTip: %s", eval.Feedback.GrammarTip)
	}
	if eval.Feedback.Example != "" {
		fmt.Fprintf(&b, "\n\nExample: %q", eval.Feedback.Example)
	}
	return b.String()
}
