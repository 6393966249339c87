package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/caplearn/caplearn/internal/retrieval"
)

var chatCmd = &cobra.Command{
	Use:   "chat <topic-id> <message...>",
	Short: "Ask a question about an ingested lesson",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID := args[0]
		message := strings.Join(args[1:], " ")
		stream, _ := cmd.Flags().GetBool("stream")

		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.chat == nil {
			return errors.New("chat requires a configured LLM provider")
		}

		if stream {
			reply, err := a.chat.ChatStream(cmd.Context(), userID(cmd), topicID, message, func(delta string) {
				fmt.Print(delta)
			})
			if err != nil {
				return err
			}
			fmt.Println()
			printPathHint(reply.Path)
			return nil
		}

		reply, err := a.chat.Chat(cmd.Context(), userID(cmd), topicID, message)
		if err != nil {
			return err
		}
		fmt.Println(reply.Text)
		printPathHint(reply.Path)
		return nil
	},
}

func printPathHint(path retrieval.Path) {
	if path == retrieval.PathFallback {
		color.Yellow("(answered from transcript order; semantic search was unavailable)")
	}
}

func init() {
	chatCmd.Flags().Bool("stream", false, "Stream the reply as it is generated")
}
