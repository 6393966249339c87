package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Topic is a named corpus of ingested subtitle material.
type Topic struct {
	ent.Schema
}

// TopicMetadata is free-form descriptive metadata attached at ingestion.
type TopicMetadata struct {
	Difficulty string   `json:"difficulty,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (Topic) Fields() []ent.Field {
	return []ent.Field{
		field.String("topic_id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Caller-chosen stable identifier"),
		field.String("title").
			NotEmpty().
			Comment("Display title"),
		field.Int("file_count").
			Default(0).
			Comment("Number of subtitle files ingested"),
		field.Int("total_chunks").
			Default(0).
			Comment("Number of chunks produced across all files"),
		field.JSON("metadata", TopicMetadata{}).
			Optional().
			Comment("Difficulty, duration, tags"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Topic) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("topic_id").Unique(),
	}
}
