package quiz

import "github.com/caplearn/caplearn/internal/llm"

// EvaluationSchema defines the JSON structure for answer evaluations.
// The score maximum is enforced in code, not in the schema, because the
// per-question maximum is configurable.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Scored evaluation of a learner's answer with structured feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Points awarded, from 0 to the stated maximum",
			},
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is considered correct overall",
			},
			"feedback": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary": map[string]any{
						"type":        "string",
						"description": "One-line reaction, e.g. Perfect!, Great!, Good try!",
					},
					"explanation": map[string]any{
						"type":        "string",
						"description": "Why the answer is correct or incorrect",
					},
					"correct_answer": map[string]any{
						"type":        "string",
						"description": "The correct answer when the learner was wrong, empty when correct",
					},
					"grammar_tip": map[string]any{
						"type":        "string",
						"description": "A relevant grammar tip",
					},
					"example": map[string]any{
						"type":        "string",
						"description": "An example sentence using the target structure",
					},
				},
				"required":             []any{"summary", "explanation", "correct_answer", "grammar_tip", "example"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"score", "is_correct", "feedback"},
		"additionalProperties": false,
	},
}
