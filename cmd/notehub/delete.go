package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marcus/notehub/internal/notehub"
	"github.com/spf13/cobra"
)

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a note",
		Long:  `Delete permanently removes a note and prints its title.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])

			client, err := c.client()
			if err != nil {
				return err
			}
			note, err := client.Delete(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s (%s)\n", note.ID, note.Title)
			return nil
		},
	}
}

// explain adds a hint to errors a user can act on.
func explain(err error) error {
	switch {
	case notehub.ErrUnauthorized(err):
		return fmt.Errorf("%w (check NOTEHUB_TOKEN)", err)
	case errors.Is(err, notehub.ErrNotFound):
		return fmt.Errorf("%w (it may already be deleted)", err)
	}
	return err
}
