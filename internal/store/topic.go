package store

import (
	"context"
	"fmt"

	"github.com/caplearn/caplearn/ent"
	"github.com/caplearn/caplearn/ent/chunk"
	"github.com/caplearn/caplearn/ent/topic"
)

type topicRepo struct {
	client *ent.Client
}

func (r *topicRepo) Create(ctx context.Context, t *Topic) error {
	_, err := r.client.Topic.Create().
		SetTopicID(t.ID).
		SetTitle(t.Title).
		SetFileCount(t.FileCount).
		SetTotalChunks(t.TotalChunks).
		SetMetadata(t.Metadata).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return ErrTopicExists
		}
		return fmt.Errorf("save topic: %w", err)
	}
	return nil
}

func (r *topicRepo) Get(ctx context.Context, topicID string) (*Topic, error) {
	t, err := r.client.Topic.Query().
		Where(topic.TopicID(topicID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("query topic: %w", err)
	}
	return topicFromEnt(t), nil
}

func (r *topicRepo) List(ctx context.Context) ([]*Topic, error) {
	rows, err := r.client.Topic.Query().
		Order(ent.Asc(topic.FieldTopicID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	topics := make([]*Topic, len(rows))
	for i, t := range rows {
		topics[i] = topicFromEnt(t)
	}
	return topics, nil
}

func (r *topicRepo) Delete(ctx context.Context, topicID string) error {
	n, err := r.client.Topic.Delete().
		Where(topic.TopicID(topicID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if n == 0 {
		return ErrTopicNotFound
	}

	// Chunks are owned by the topic: cascade.
	if _, err := r.client.Chunk.Delete().
		Where(chunk.TopicID(topicID)).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete topic chunks: %w", err)
	}
	return nil
}

func topicFromEnt(t *ent.Topic) *Topic {
	return &Topic{
		ID:          t.TopicID,
		Title:       t.Title,
		FileCount:   t.FileCount,
		TotalChunks: t.TotalChunks,
		Metadata:    t.Metadata,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
