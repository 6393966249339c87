package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/caplearn/caplearn/internal/quiz"
	"github.com/caplearn/caplearn/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take graded quizzes over ingested lessons",
}

var quizStartCmd = &cobra.Command{
	Use:   "start <topic-id>",
	Short: "Start a quiz (resets any previous quiz for this topic)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, _ := cmd.Flags().GetInt("questions")

		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.quiz == nil {
			return errors.New("quiz requires a configured LLM provider")
		}

		res, err := a.quiz.Start(cmd.Context(), userID(cmd), args[0], questions)
		if err != nil {
			return err
		}

		color.Cyan("Quiz on %s (%d questions)", res.TopicTitle, res.TotalQuestions)
		fmt.Printf("\nQuestion %d/%d:\n%s\n", res.QuestionNumber, res.TotalQuestions, res.Question)
		fmt.Println("\nAnswer with: caplearn quiz answer", res.TopicID, "<your answer>")
		return nil
	},
}

var quizAnswerCmd = &cobra.Command{
	Use:   "answer <topic-id> <answer...>",
	Short: "Answer the current quiz question",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID := args[0]
		answer := strings.Join(args[1:], " ")
		stream, _ := cmd.Flags().GetBool("stream")

		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.quiz == nil {
			return errors.New("quiz requires a configured LLM provider")
		}

		var res *quiz.AnswerResult
		if stream {
			res, err = a.quiz.SubmitAnswerStream(cmd.Context(), userID(cmd), topicID, answer, func(delta string) {
				fmt.Print(delta)
			})
			if err != nil {
				return err
			}
			fmt.Println()
		} else {
			res, err = a.quiz.SubmitAnswer(cmd.Context(), userID(cmd), topicID, answer)
			if err != nil {
				return err
			}
			fmt.Println(res.Evaluation.FeedbackMessage)
		}

		if res.Status == store.StatusCompleted {
			printFinalResults(res.FinalResults)
			return nil
		}

		fmt.Printf("\nScore so far: %d/%d (%d%%)\n",
			res.Progress.CurrentScore, res.Progress.MaxPossibleScore, res.Progress.Percentage)
		fmt.Printf("\nQuestion %d/%d:\n%s\n", res.QuestionNumber+1, res.TotalQuestions, res.NextQuestion)
		return nil
	},
}

var quizStatusCmd = &cobra.Command{
	Use:   "status <topic-id>",
	Short: "Show quiz progress for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.quiz == nil {
			return errors.New("quiz requires a configured LLM provider")
		}

		res, err := a.quiz.Status(cmd.Context(), userID(cmd), args[0])
		if err != nil {
			return err
		}

		if res.Status == store.StatusNotStarted {
			fmt.Println("No quiz found. Start one with: caplearn quiz start", args[0])
			return nil
		}

		fmt.Printf("Topic:     %s\n", res.TopicTitle)
		fmt.Printf("Status:    %s\n", res.Status)
		fmt.Printf("Question:  %d/%d\n", res.CurrentQuestion, res.TotalQuestions)
		fmt.Printf("Score:     %d/%d (%d%%)\n", res.TotalScore, res.MaxPossibleScore, res.Percentage)

		if res.FinalResults != nil {
			printFinalResults(res.FinalResults)
		}
		return nil
	},
}

func printFinalResults(fr *quiz.FinalResults) {
	color.Cyan("\nQuiz complete!")
	fmt.Printf("Final score: %d/%d (%d%%)\n", fr.TotalScore, fr.MaxPossibleScore, fr.Percentage)
	color.Green("Grade: %s (%s)", fr.Grade, fr.GradeLabel)
	fmt.Printf("Perfect answers: %d  Good answers: %d  Questions: %d\n",
		fr.Performance.PerfectAnswers, fr.Performance.GoodAnswers, fr.Performance.TotalQuestions)
}

func init() {
	quizStartCmd.Flags().Int("questions", 0, "Number of questions (default 5, max 10)")
	quizAnswerCmd.Flags().Bool("stream", false, "Stream the feedback as it is generated")

	quizCmd.AddCommand(quizStartCmd)
	quizCmd.AddCommand(quizAnswerCmd)
	quizCmd.AddCommand(quizStatusCmd)
}
