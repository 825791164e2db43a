package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/marcus/notehub/internal/notehub"
	"github.com/spf13/cobra"
)

func newCreateCmd(c *cli) *cobra.Command {
	var title, content, tag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Long: `Create validates the fields and stores a new note.
Title must be 3 to 50 characters, content at most 500, and the tag one of
Todo, Work, Personal, Meeting or Shopping.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}

			note, err := client.Create(cmd.Context(), notehub.CreateParams{
				Title:   title,
				Content: content,
				Tag:     notehub.Tag(tag),
			})
			var verr *notehub.ValidationError
			if errors.As(err, &verr) {
				printFieldErrors(cmd, verr)
				return errors.New("note not created")
			}
			if err != nil {
				return explain(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Note created: %s\n", note.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "note title")
	f.StringVarP(&content, "content", "c", "", "note body")
	f.StringVar(&tag, "tag", string(notehub.TagTodo), "note tag")
	return cmd
}

func printFieldErrors(cmd *cobra.Command, verr *notehub.ValidationError) {
	fields := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	w := cmd.ErrOrStderr()
	for _, k := range fields {
		fmt.Fprintf(w, "  %s: %s\n", k, verr.Fields[k])
	}
}
