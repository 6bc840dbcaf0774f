package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yohamza/meet2jira/internal/extraction"
	"github.com/yohamza/meet2jira/internal/integrations/jira"
)

// newRootCommand builds the local CLI. It runs the deterministic heuristic
// extractor only, so it works offline against transcript files; the model
// path stays behind the Lambda service.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meet2jira",
		Short:         "Extract ticket notes from meeting transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newPreviewCommand())
	return rootCmd
}

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [transcript-file]",
		Short: "Print the ticket-to-notes mapping for a transcript as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := readTranscript(args)
			if err != nil {
				return err
			}

			notes := extraction.HeuristicExtractor{}.TicketNotes(context.Background(), transcript)
			payload, err := json.MarshalIndent(notes, "", "  ")
			if err != nil {
				return fmt.Errorf("encode ticket notes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
}

func newPreviewCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "preview [transcript-file]",
		Short: "Show the Jira comment bodies that would be posted for a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := readTranscript(args)
			if err != nil {
				return err
			}

			notes := extraction.HeuristicExtractor{}.TicketNotes(context.Background(), transcript)
			comments := jira.BuildComments(notes, title)
			if len(comments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no ticket mentions found")
				return nil
			}
			for _, comment := range comments {
				fmt.Fprintf(cmd.OutOrStdout(), "=== %s ===\n%s\n\n", comment.TicketID, comment.Body)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title for the comment header")
	return cmd
}

func readTranscript(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}
