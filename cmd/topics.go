package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage ingested topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		topics, err := a.store.TopicRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("No topics ingested yet.")
			return nil
		}

		fmt.Printf("%-24s  %-36s  %-6s  %-7s  %s\n", "ID", "Title", "Files", "Chunks", "Created")
		fmt.Println(strings.Repeat("─", 92))
		for _, t := range topics {
			title := t.Title
			if len(title) > 36 {
				title = title[:36]
			}
			fmt.Printf("%-24s  %-36s  %-6d  %-7d  %s\n",
				t.ID, title, t.FileCount, t.TotalChunks,
				t.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <topic-id>",
	Short: "Delete a topic and all its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ingest.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("Topic %s deleted", args[0])
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsDeleteCmd)
}
