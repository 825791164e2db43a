package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/spf13/cobra"
)

type listOptions struct {
	search  string
	page    int
	perPage int
	tag     string
	sortBy  string
	json    bool
}

func newListCmd(c *cli) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of notes",
		Long: `List prints one page of notes matching the search text.
The total page count is printed after the table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := parseTagFlag(opts.tag)
			if err != nil {
				return err
			}
			sortBy, err := notehub.ParseSortBy(opts.sortBy)
			if err != nil {
				return err
			}
			if opts.page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", opts.page)
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			page, err := client.List(cmd.Context(), notehub.ListParams{
				Search:  opts.search,
				Page:    opts.page,
				PerPage: opts.perPage,
				Tag:     tag,
				SortBy:  sortBy,
			})
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}

			if len(page.Notes) == 0 {
				fmt.Fprintln(out, "No notes found.")
				return nil
			}
			fmt.Fprintln(out, renderTable(page.Notes))
			fmt.Fprintf(out, "Page %d of %d\n", opts.page, page.TotalPages)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "search text")
	f.IntVarP(&opts.page, "page", "p", 1, "page number")
	f.IntVar(&opts.perPage, "per-page", 0, "notes per page (default api.perPage)")
	f.StringVar(&opts.tag, "tag", "", "only notes with this tag")
	f.StringVar(&opts.sortBy, "sort-by", "", "order by created or updated")
	f.BoolVar(&opts.json, "json", false, "output in JSON format")
	return cmd
}

const contentColumnWidth = 48

func renderTable(notes []notehub.Note) string {
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			n.ID,
			n.Title,
			string(n.Tag),
			ansi.Truncate(oneLine(n.Content), contentColumnWidth, "…"),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "TAG", "CONTENT").
		Rows(rows...).
		String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseTagFlag accepts an empty tag as "any".
func parseTagFlag(s string) (notehub.Tag, error) {
	if s == "" {
		return "", nil
	}
	tag, err := notehub.ParseTag(s)
	if err != nil {
		return "", fmt.Errorf("%w (want one of %s)", err, tagNames())
	}
	return tag, nil
}

func tagNames() string {
	var s string
	for i, t := range notehub.Tags {
		if i > 0 {
			s += ", "
		}
		s += strconv.Quote(string(t))
	}
	return s
}
