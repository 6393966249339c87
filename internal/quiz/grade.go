package quiz

import (
	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/store"
)

// Grade maps a percentage to a letter grade with an encouraging label.
func Grade(percentage int) (grade, label string) {
	switch {
	case percentage >= 90:
		return "A", "Excellent!"
	case percentage >= 80:
		return "B", "Great job!"
	case percentage >= 70:
		return "C", "Good work!"
	case percentage >= 60:
		return "D", "Keep practicing!"
	default:
		return "F", "More practice needed"
	}
}

// Performance counts answer quality over a finished quiz.
type Performance struct {
	PerfectAnswers int `json:"perfect_answers"`
	GoodAnswers    int `json:"good_answers"`
	TotalQuestions int `json:"total_questions"`
}

// FinalResults summarizes a completed quiz.
type FinalResults struct {
	TotalScore       int         `json:"total_score"`
	MaxPossibleScore int         `json:"max_possible_score"`
	Percentage       int         `json:"percentage"`
	Grade            string      `json:"grade"`
	GradeLabel       string      `json:"grade_label"`
	Performance      Performance `json:"performance"`
}

// finalResults computes the summary from a quiz session. A perfect
// answer earned the full per-question score; a good answer came within
// one point without being perfect.
func finalResults(sess *store.Session, maxScore int) *FinalResults {
	pct := sess.ScorePercentage()
	grade, label := Grade(pct)

	var perfect, nearOrPerfect int
	for _, m := range sess.Messages {
		if m.Type != messageTypeEvaluation || m.Score == nil {
			continue
		}
		if *m.Score == maxScore {
			perfect++
		}
		if *m.Score >= maxScore-1 {
			nearOrPerfect++
		}
	}

	return &FinalResults{
		TotalScore:       sess.TotalScore,
		MaxPossibleScore: sess.MaxPossibleScore,
		Percentage:       pct,
		Grade:            grade,
		GradeLabel:       label,
		Performance: Performance{
			PerfectAnswers: perfect,
			GoodAnswers:    nearOrPerfect - perfect,
			TotalQuestions: sess.TotalQuestions,
		},
	}
}

func previousQuestions(messages []entschema.Message) []string {
	var out []string
	for _, m := range messages {
		if m.Role == "assistant" && m.Type == messageTypeQuestion {
			out = append(out, m.Content)
		}
	}
	return out
}

func lastQuestion(messages []entschema.Message) *entschema.Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Type == messageTypeQuestion {
			return &messages[i]
		}
	}
	return nil
}
