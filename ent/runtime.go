// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/caplearn/caplearn/ent/chunk"
	"github.com/caplearn/caplearn/ent/conversation"
	"github.com/caplearn/caplearn/ent/llmrequestevent"
	"github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/ent/topic"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	chunkFields := schema.Chunk{}.Fields()
	_ = chunkFields
	// chunkDescTopicID is the schema descriptor for topic_id field.
	chunkDescTopicID := chunkFields[0].Descriptor()
	// chunk.TopicIDValidator is a validator for the "topic_id" field. It is called by the builders before save.
	chunk.TopicIDValidator = chunkDescTopicID.Validators[0].(func(string) error)
	// chunkDescFileName is the schema descriptor for file_name field.
	chunkDescFileName := chunkFields[1].Descriptor()
	// chunk.FileNameValidator is a validator for the "file_name" field. It is called by the builders before save.
	chunk.FileNameValidator = chunkDescFileName.Validators[0].(func(string) error)
	// chunkDescChunkIndex is the schema descriptor for chunk_index field.
	chunkDescChunkIndex := chunkFields[2].Descriptor()
	// chunk.ChunkIndexValidator is a validator for the "chunk_index" field. It is called by the builders before save.
	chunk.ChunkIndexValidator = chunkDescChunkIndex.Validators[0].(func(int) error)
	// chunkDescContent is the schema descriptor for content field.
	chunkDescContent := chunkFields[3].Descriptor()
	// chunk.ContentValidator is a validator for the "content" field. It is called by the builders before save.
	chunk.ContentValidator = chunkDescContent.Validators[0].(func(string) error)
	// chunkDescCreatedAt is the schema descriptor for created_at field.
	chunkDescCreatedAt := chunkFields[5].Descriptor()
	// chunk.DefaultCreatedAt holds the default value on creation for the created_at field.
	chunk.DefaultCreatedAt = chunkDescCreatedAt.Default.(func() time.Time)
	conversationFields := schema.Conversation{}.Fields()
	_ = conversationFields
	// conversationDescSessionID is the schema descriptor for session_id field.
	conversationDescSessionID := conversationFields[0].Descriptor()
	// conversation.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	conversation.SessionIDValidator = conversationDescSessionID.Validators[0].(func(string) error)
	// conversationDescUserID is the schema descriptor for user_id field.
	conversationDescUserID := conversationFields[1].Descriptor()
	// conversation.UserIDValidator is a validator for the "user_id" field. It is called by the builders before save.
	conversation.UserIDValidator = conversationDescUserID.Validators[0].(func(string) error)
	// conversationDescTopicID is the schema descriptor for topic_id field.
	conversationDescTopicID := conversationFields[2].Descriptor()
	// conversation.TopicIDValidator is a validator for the "topic_id" field. It is called by the builders before save.
	conversation.TopicIDValidator = conversationDescTopicID.Validators[0].(func(string) error)
	// conversationDescMode is the schema descriptor for mode field.
	conversationDescMode := conversationFields[3].Descriptor()
	// conversation.ModeValidator is a validator for the "mode" field. It is called by the builders before save.
	conversation.ModeValidator = conversationDescMode.Validators[0].(func(string) error)
	// conversationDescCurrentQuestion is the schema descriptor for current_question field.
	conversationDescCurrentQuestion := conversationFields[4].Descriptor()
	// conversation.DefaultCurrentQuestion holds the default value on creation for the current_question field.
	conversation.DefaultCurrentQuestion = conversationDescCurrentQuestion.Default.(int)
	// conversationDescTotalQuestions is the schema descriptor for total_questions field.
	conversationDescTotalQuestions := conversationFields[5].Descriptor()
	// conversation.DefaultTotalQuestions holds the default value on creation for the total_questions field.
	conversation.DefaultTotalQuestions = conversationDescTotalQuestions.Default.(int)
	// conversationDescTotalScore is the schema descriptor for total_score field.
	conversationDescTotalScore := conversationFields[6].Descriptor()
	// conversation.DefaultTotalScore holds the default value on creation for the total_score field.
	conversation.DefaultTotalScore = conversationDescTotalScore.Default.(int)
	// conversationDescMaxPossibleScore is the schema descriptor for max_possible_score field.
	conversationDescMaxPossibleScore := conversationFields[7].Descriptor()
	// conversation.DefaultMaxPossibleScore holds the default value on creation for the max_possible_score field.
	conversation.DefaultMaxPossibleScore = conversationDescMaxPossibleScore.Default.(int)
	// conversationDescStatus is the schema descriptor for status field.
	conversationDescStatus := conversationFields[8].Descriptor()
	// conversation.DefaultStatus holds the default value on creation for the status field.
	conversation.DefaultStatus = conversationDescStatus.Default.(string)
	// conversationDescCreatedAt is the schema descriptor for created_at field.
	conversationDescCreatedAt := conversationFields[10].Descriptor()
	// conversation.DefaultCreatedAt holds the default value on creation for the created_at field.
	conversation.DefaultCreatedAt = conversationDescCreatedAt.Default.(func() time.Time)
	// conversationDescUpdatedAt is the schema descriptor for updated_at field.
	conversationDescUpdatedAt := conversationFields[11].Descriptor()
	// conversation.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	conversation.DefaultUpdatedAt = conversationDescUpdatedAt.Default.(func() time.Time)
	// conversation.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	conversation.UpdateDefaultUpdatedAt = conversationDescUpdatedAt.UpdateDefault.(func() time.Time)
	llmrequesteventFields := schema.LLMRequestEvent{}.Fields()
	_ = llmrequesteventFields
	// llmrequesteventDescTimestamp is the schema descriptor for timestamp field.
	llmrequesteventDescTimestamp := llmrequesteventFields[0].Descriptor()
	// llmrequestevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	llmrequestevent.DefaultTimestamp = llmrequesteventDescTimestamp.Default.(func() time.Time)
	// llmrequesteventDescInputTokens is the schema descriptor for input_tokens field.
	llmrequesteventDescInputTokens := llmrequesteventFields[4].Descriptor()
	// llmrequestevent.DefaultInputTokens holds the default value on creation for the input_tokens field.
	llmrequestevent.DefaultInputTokens = llmrequesteventDescInputTokens.Default.(int)
	// llmrequesteventDescOutputTokens is the schema descriptor for output_tokens field.
	llmrequesteventDescOutputTokens := llmrequesteventFields[5].Descriptor()
	// llmrequestevent.DefaultOutputTokens holds the default value on creation for the output_tokens field.
	llmrequestevent.DefaultOutputTokens = llmrequesteventDescOutputTokens.Default.(int)
	// llmrequesteventDescLatencyMs is the schema descriptor for latency_ms field.
	llmrequesteventDescLatencyMs := llmrequesteventFields[6].Descriptor()
	// llmrequestevent.DefaultLatencyMs holds the default value on creation for the latency_ms field.
	llmrequestevent.DefaultLatencyMs = llmrequesteventDescLatencyMs.Default.(int64)
	// llmrequesteventDescErrorMessage is the schema descriptor for error_message field.
	llmrequesteventDescErrorMessage := llmrequesteventFields[8].Descriptor()
	// llmrequestevent.DefaultErrorMessage holds the default value on creation for the error_message field.
	llmrequestevent.DefaultErrorMessage = llmrequesteventDescErrorMessage.Default.(string)
	topicFields := schema.Topic{}.Fields()
	_ = topicFields
	// topicDescTopicID is the schema descriptor for topic_id field.
	topicDescTopicID := topicFields[0].Descriptor()
	// topic.TopicIDValidator is a validator for the "topic_id" field. It is called by the builders before save.
	topic.TopicIDValidator = topicDescTopicID.Validators[0].(func(string) error)
	// topicDescTitle is the schema descriptor for title field.
	topicDescTitle := topicFields[1].Descriptor()
	// topic.TitleValidator is a validator for the "title" field. It is called by the builders before save.
	topic.TitleValidator = topicDescTitle.Validators[0].(func(string) error)
	// topicDescFileCount is the schema descriptor for file_count field.
	topicDescFileCount := topicFields[2].Descriptor()
	// topic.DefaultFileCount holds the default value on creation for the file_count field.
	topic.DefaultFileCount = topicDescFileCount.Default.(int)
	// topicDescTotalChunks is the schema descriptor for total_chunks field.
	topicDescTotalChunks := topicFields[3].Descriptor()
	// topic.DefaultTotalChunks holds the default value on creation for the total_chunks field.
	topic.DefaultTotalChunks = topicDescTotalChunks.Default.(int)
	// topicDescCreatedAt is the schema descriptor for created_at field.
	topicDescCreatedAt := topicFields[5].Descriptor()
	// topic.DefaultCreatedAt holds the default value on creation for the created_at field.
	topic.DefaultCreatedAt = topicDescCreatedAt.Default.(func() time.Time)
	// topicDescUpdatedAt is the schema descriptor for updated_at field.
	topicDescUpdatedAt := topicFields[6].Descriptor()
	// topic.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	topic.DefaultUpdatedAt = topicDescUpdatedAt.Default.(func() time.Time)
	// topic.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	topic.UpdateDefaultUpdatedAt = topicDescUpdatedAt.UpdateDefault.(func() time.Time)
}
