package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	entschema "github.com/caplearn/caplearn/ent/schema"
	"github.com/caplearn/caplearn/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <topic-id> <file.vtt> [file.vtt...]",
	Short: "Create a topic from WebVTT subtitle files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID := args[0]

		title, _ := cmd.Flags().GetString("title")
		replace, _ := cmd.Flags().GetBool("replace")
		// An empty title on replace keeps the existing one.
		if title == "" && !replace {
			title = topicID
		}
		difficulty, _ := cmd.Flags().GetString("difficulty")
		duration, _ := cmd.Flags().GetString("duration")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		files, err := readVTTFiles(args[1:])
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		meta := entschema.TopicMetadata{Difficulty: difficulty, Duration: duration, Tags: tags}

		var res *ingest.Result
		if replace {
			// Without metadata flags the existing topic's metadata is kept.
			var metaOverride *entschema.TopicMetadata
			if difficulty != "" || duration != "" || len(tags) > 0 {
				metaOverride = &meta
			}
			res, err = a.ingest.Replace(cmd.Context(), topicID, title, files, metaOverride)
		} else {
			res, err = a.ingest.Ingest(cmd.Context(), topicID, title, files, meta)
		}
		if err != nil {
			return err
		}

		color.Green("Topic %s ingested: %d chunks from %d files", res.TopicID, res.ChunksCreated, len(files))
		return nil
	},
}

func readVTTFiles(paths []string) ([]ingest.File, error) {
	files := make([]ingest.File, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, ingest.File{
			Name:    filepath.Base(p),
			Content: string(content),
		})
	}
	return files, nil
}

func init() {
	ingestCmd.Flags().String("title", "", "Topic title (defaults to the topic ID)")
	ingestCmd.Flags().Bool("replace", false, "Replace an existing topic's content")
	ingestCmd.Flags().String("difficulty", "", "Topic difficulty, e.g. beginner, intermediate")
	ingestCmd.Flags().String("duration", "", "Lesson duration, e.g. 45m")
	ingestCmd.Flags().StringSlice("tags", nil, "Topic tags")
}
