package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Conversation is the persisted state of one user's interaction with one
// topic in one mode. Uniqueness is enforced on (user_id, topic_id, mode).
type Conversation struct {
	ent.Schema
}

// Message is one turn in a conversation, embedded in the message log.
// Messages are append-only: once written they are never edited or
// reordered.
type Message struct {
	Role           string    `json:"role"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	QuestionNumber int       `json:"question_number,omitempty"`
	Score          *int      `json:"score,omitempty"`
	MaxScore       *int      `json:"max_score,omitempty"`
	IsCorrect      *bool     `json:"is_correct,omitempty"`
	Feedback       *Feedback `json:"feedback,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Feedback is the structured payload of an evaluation message.
type Feedback struct {
	Summary       string `json:"summary"`
	Explanation   string `json:"explanation"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	GrammarTip    string `json:"grammar_tip,omitempty"`
	Example       string `json:"example,omitempty"`
}

func (Conversation) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("UUID handed back to callers"),
		field.String("user_id").
			NotEmpty().
			Immutable(),
		field.String("topic_id").
			NotEmpty().
			Immutable(),
		field.String("mode").
			NotEmpty().
			Immutable().
			Comment("chat or quiz"),
		field.Int("current_question").
			Default(0),
		field.Int("total_questions").
			Default(0),
		field.Int("total_score").
			Default(0),
		field.Int("max_possible_score").
			Default(0),
		field.String("status").
			Default("not_started").
			Comment("not_started, in_progress or completed"),
		field.JSON("messages", []Message{}).
			Optional().
			Comment("Append-only ordered message log"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Conversation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "topic_id", "mode").Unique(),
		index.Fields("updated_at"),
	}
}
