package quiz

import (
	"fmt"
	"strings"
)

func buildQuestionPrompt(topicTitle, context string, questionNumber, totalQuestions int, previousQuestions []string) string {
	var prev string
	if len(previousQuestions) > 0 {
		lines := make([]string, len(previousQuestions))
		for i, q := range previousQuestions {
			lines[i] = fmt.Sprintf("%d. %s", i+1, q)
		}
		prev = "\n\nPREVIOUS QUESTIONS (do not repeat):\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are an English learning quiz master for: %q

LESSON CONTENT:
"""
%s
"""
%s

Question %d of %d.

RULES:
1. Create a question testing the lesson content
2. Mix types: fill-in-blank, correct/incorrect, transformation
3. Keep questions clear and appropriate for English learners
4. For fill-in-blank use: "I ___ (verb) already."
5. DO NOT repeat previous questions

Respond with ONLY the question text.`, topicTitle, context, prev, questionNumber, totalQuestions)
}

func buildEvaluationPrompt(topicTitle, context, question, userAnswer string, maxScore int) string {
	return fmt.Sprintf(`You are an English learning evaluator for: %q

LESSON CONTENT:
"""
%s
"""

QUESTION: %q
STUDENT'S ANSWER: %q

Score the answer from 0 to %d:
- %d: Perfect
- %d: Minor issues
- %d-%d: Partially correct
- 1-%d: Mostly incorrect
- 0: Completely wrong

Give encouraging feedback with a one-line summary, an explanation of why
the answer is correct or incorrect, the correct answer when wrong, a
relevant grammar tip, and an example sentence.`,
		topicTitle, context, question, userAnswer,
		maxScore, maxScore, maxScore-1, maxScore/2+1, maxScore-2, maxScore/2)
}
