package store

import (
	"context"
	"fmt"

	"github.com/caplearn/caplearn/ent"
	"github.com/caplearn/caplearn/ent/chunk"
)

// insertBatchSize bounds a single bulk insert. SQLite limits the number
// of bound variables per statement, and ingestion can produce thousands
// of chunks for long transcripts.
const insertBatchSize = 100

type chunkRepo struct {
	client *ent.Client
}

func (r *chunkRepo) InsertBatch(ctx context.Context, chunks []Chunk) error {
	for start := 0; start < len(chunks); start += insertBatchSize {
		end := min(start+insertBatchSize, len(chunks))

		builders := make([]*ent.ChunkCreate, 0, end-start)
		for _, c := range chunks[start:end] {
			builders = append(builders, r.client.Chunk.Create().
				SetTopicID(c.TopicID).
				SetFileName(c.FileName).
				SetChunkIndex(c.Index).
				SetContent(c.Content).
				SetEmbedding(c.Embedding))
		}

		if _, err := r.client.Chunk.CreateBulk(builders...).Save(ctx); err != nil {
			return fmt.Errorf("insert chunk batch at %d: %w", start, err)
		}
	}
	return nil
}

func (r *chunkRepo) CountByTopic(ctx context.Context, topicID string) (int, error) {
	n, err := r.client.Chunk.Query().
		Where(chunk.TopicID(topicID)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (r *chunkRepo) ListOrdered(ctx context.Context, topicID string, limit int) ([]Chunk, error) {
	q := r.client.Chunk.Query().
		Where(chunk.TopicID(topicID)).
		Order(ent.Asc(chunk.FieldFileName), ent.Asc(chunk.FieldChunkIndex))
	if limit > 0 {
		q = q.Limit(limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	chunks := make([]Chunk, len(rows))
	for i, c := range rows {
		chunks[i] = Chunk{
			TopicID:   c.TopicID,
			FileName:  c.FileName,
			Index:     c.ChunkIndex,
			Content:   c.Content,
			Embedding: c.Embedding,
		}
	}
	return chunks, nil
}
