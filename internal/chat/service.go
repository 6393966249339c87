// Package chat answers learner questions grounded in a topic's
// ingested transcript.
package chat

import (
	"context"
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

const messageTypeChat = "chat"

// Config holds chat parameters.
type Config struct {
	// MaxHistory bounds how many trailing session messages are replayed
	// to the model.
	MaxHistory int
	// MaxTokens bounds the reply length.
	MaxTokens int
	// Temperature for reply generation.
	Temperature float64
}

// ConfigFromEnv reads CAPLEARN_CHAT_HISTORY and CAPLEARN_CHAT_MAX_TOKENS,
// defaulting to 10 messages and 500 tokens.
func ConfigFromEnv() Config {
	return Config{
		MaxHistory:  envInt("CAPLEARN_CHAT_HISTORY", 10),
		MaxTokens:   envInt("CAPLEARN_CHAT_MAX_TOKENS", 500),
		Temperature: 0.7,
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

// ContextRetriever supplies the lesson chunks that ground replies.
type ContextRetriever interface {
	Retrieve(ctx context.Context, topicID, query string) (*retrieval.Result, error)
}

// Service runs grounded chat turns and persists the exchange.
type Service struct {
	topics    store.TopicRepo
	sessions  store.SessionRepo
	retriever ContextRetriever
	provider  llm.Provider
	cfg       Config
	log       *zap.SugaredLogger
}

func NewService(topics store.TopicRepo, sessions store.SessionRepo, retriever ContextRetriever, provider llm.Provider, cfg Config, log *zap.SugaredLogger) *Service {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
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

// Reply is the outcome of one chat turn.
type Reply struct {
	Text      string
	SessionID string
	// Path reports which retrieval route grounded the reply.
	Path retrieval.Path
}

// Chat answers one message and persists both sides of the exchange.
func (s *Service) Chat(ctx context.Context, userID, topicID, message string) (*Reply, error) {
	turn, err := s.prepareTurn(ctx, userID, topicID, message)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "chat"), turn.request)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	reply := strings.TrimSpace(string(resp.Content))

	sessionID, err := s.persistExchange(ctx, turn.session, message, reply)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: reply, SessionID: sessionID, Path: turn.path}, nil
}

// ChatStream answers one message, emitting reply fragments as they
// arrive. Only the full accumulated reply is persisted; a client
// disconnect mid-stream stops emits but the completed exchange is still
// saved.
func (s *Service) ChatStream(ctx context.Context, userID, topicID, message string, emit func(delta string)) (*Reply, error) {
	turn, err := s.prepareTurn(ctx, userID, topicID, message)
	if err != nil {
		return nil, err
	}

	// The provider call must survive the client going away once the
	// request is in flight, so it runs on a detached context.
	genCtx := llm.WithPurpose(context.WithoutCancel(ctx), "chat")

	guarded := func(delta string) {
		if ctx.Err() == nil && emit != nil {
			emit(delta)
		}
	}

	var resp *llm.Response
	if streamer, ok := s.provider.(llm.Streamer); ok {
		resp, err = streamer.GenerateStream(genCtx, turn.request, guarded)
	} else {
		resp, err = s.provider.Generate(genCtx, turn.request)
		if err == nil {
			guarded(string(resp.Content))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	reply := strings.TrimSpace(string(resp.Content))

	sessionID, err := s.persistExchange(context.WithoutCancel(ctx), turn.session, message, reply)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: reply, SessionID: sessionID, Path: turn.path}, nil
}

// turn carries the prepared state shared by Chat and ChatStream.
type turn struct {
	session *store.Session
	request llm.Request
	path    retrieval.Path
}

func (s *Service) prepareTurn(ctx context.Context, userID, topicID, message string) (*turn, error) {
	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	res, err := s.retriever.Retrieve(ctx, topicID, message)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, fmt.Errorf("topic %s: %w", topicID, retrieval.ErrNoContent)
	}

	sess, err := s.sessions.Get(ctx, userID, topicID, store.ModeChat)
	if errors.Is(err, store.ErrSessionNotFound) {
		sess = &store.Session{UserID: userID, TopicID: topicID, Mode: store.ModeChat}
	} else if err != nil {
		return nil, err
	}

	history := sess.Messages
	if len(history) > s.cfg.MaxHistory {
		history = history[len(history)-s.cfg.MaxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	return &turn{
		session: sess,
		request: llm.Request{
			System:      buildSystemPrompt(topic.Title, res.Context()),
			Messages:    messages,
			MaxTokens:   s.cfg.MaxTokens,
			Temperature: s.cfg.Temperature,
		},
		path: res.Path,
	}, nil
}

func (s *Service) persistExchange(ctx context.Context, sess *store.Session, userMessage, reply string) (string, error) {
	now := time.Now()
	sess.Messages = append(sess.Messages,
		entschema.Message{Role: "user", Type: messageTypeChat, Content: userMessage, Timestamp: now},
		entschema.Message{Role: "assistant", Type: messageTypeChat, Content: reply, Timestamp: now},
	)
	sess.Status = store.StatusInProgress

	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("save conversation: %w", err)
	}
	return sess.SessionID, nil
}
