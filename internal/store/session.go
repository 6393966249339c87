package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/caplearn/caplearn/ent"
	"github.com/caplearn/caplearn/ent/conversation"
)

type sessionRepo struct {
	client *ent.Client
}

func (r *sessionRepo) Get(ctx context.Context, userID, topicID, mode string) (*Session, error) {
	c, err := r.client.Conversation.Query().
		Where(
			conversation.UserID(userID),
			conversation.TopicID(topicID),
			conversation.Mode(mode),
		).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	return sessionFromEnt(c), nil
}

func (r *sessionRepo) Save(ctx context.Context, s *Session) error {
	existing, err := r.client.Conversation.Query().
		Where(
			conversation.UserID(s.UserID),
			conversation.TopicID(s.TopicID),
			conversation.Mode(s.Mode),
		).
		Only(ctx)

	switch {
	case err == nil:
		// Last write wins: no version check against concurrent writers.
		updated, err := existing.Update().
			SetCurrentQuestion(s.CurrentQuestion).
			SetTotalQuestions(s.TotalQuestions).
			SetTotalScore(s.TotalScore).
			SetMaxPossibleScore(s.MaxPossibleScore).
			SetStatus(s.Status).
			SetMessages(s.Messages).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		*s = *sessionFromEnt(updated)
		return nil

	case ent.IsNotFound(err):
		if s.SessionID == "" {
			s.SessionID = uuid.NewString()
		}
		created, err := r.client.Conversation.Create().
			SetSessionID(s.SessionID).
			SetUserID(s.UserID).
			SetTopicID(s.TopicID).
			SetMode(s.Mode).
			SetCurrentQuestion(s.CurrentQuestion).
			SetTotalQuestions(s.TotalQuestions).
			SetTotalScore(s.TotalScore).
			SetMaxPossibleScore(s.MaxPossibleScore).
			SetStatus(s.Status).
			SetMessages(s.Messages).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		*s = *sessionFromEnt(created)
		return nil

	default:
		return fmt.Errorf("query session: %w", err)
	}
}

func sessionFromEnt(c *ent.Conversation) *Session {
	return &Session{
		SessionID:        c.SessionID,
		UserID:           c.UserID,
		TopicID:          c.TopicID,
		Mode:             c.Mode,
		CurrentQuestion:  c.CurrentQuestion,
		TotalQuestions:   c.TotalQuestions,
		TotalScore:       c.TotalScore,
		MaxPossibleScore: c.MaxPossibleScore,
		Status:           c.Status,
		Messages:         c.Messages,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
