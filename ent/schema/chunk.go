package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Chunk is one retrievable window of normalized transcript text together
// with its embedding vector. Chunks are written once at ingestion and
// deleted only when their topic is deleted.
type Chunk struct {
	ent.Schema
}

func (Chunk) Fields() []ent.Field {
	return []ent.Field{
		field.String("topic_id").
			NotEmpty().
			Immutable().
			Comment("Owning topic identifier"),
		field.String("file_name").
			NotEmpty().
			Immutable().
			Comment("Source subtitle file"),
		field.Int("chunk_index").
			Min(0).
			Immutable().
			Comment("Zero-based position within the source file"),
		field.Text("content").
			NotEmpty().
			Immutable(),
		field.JSON("embedding", []float32{}).
			Comment("Embedding vector; dimensionality is uniform within a topic"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Chunk) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("topic_id"),
		index.Fields("topic_id", "file_name", "chunk_index"),
	}
}
