package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/caplearn/caplearn/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "caplearn",
	Short: "RAG tutor for subtitle-based English lessons",
	Long: "Caplearn ingests WebVTT lesson transcripts and tutors learners over them:\n" +
		"grounded chat and graded quizzes, backed by semantic retrieval.",
	SilenceUsage: true,
}

func Execute() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CAPLEARN_DB env var)")
	rootCmd.PersistentFlags().String("user", "local", "Learner identity for sessions")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then CAPLEARN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func userID(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		u = "local"
	}
	return u
}
