package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/styles"
)

const helpCloseID = "help-close"

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSearch(),
		m.list.Render(),
		m.renderFooter(),
	)
	return m.host.View(content, m.width, m.height)
}

// renderHeader renders the title bar with the query summary.
func (m Model) renderHeader() string {
	title := styles.Logo.Render(" NoteHub ")

	var status []string
	if q := m.search.Committed(); q != "" {
		status = append(status, fmt.Sprintf("%q", q))
	}
	status = append(status, fmt.Sprintf("page %d/%d", m.search.Page(), m.list.TotalPages()))
	if m.query.IsFetching() || len(m.deleting) > 0 {
		status = append(status, m.spinner.View())
	}
	right := styles.Muted.Render(strings.Join(status, " · ") + " ")

	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(right))
	line := title + strings.Repeat(" ", gap) + right
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(line)
}

// renderSearch renders the search box row.
func (m Model) renderSearch() string {
	label := styles.Muted.Render(" Search: ")
	if m.searchFocused {
		label = styles.ListCursor.Render(" Search: ")
	}
	line := label + m.searchInput.View()
	if m.search.Pending() {
		line += styles.Subtle.Render(" …")
	}
	return ansi.Truncate(line, m.width, "")
}

// renderFooter renders the bottom bar with key hints and the toast.
func (m Model) renderFooter() string {
	var status string
	if m.toast.message != "" {
		toastStyle := styles.ToastSuccess
		if m.toast.isError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.toast.message)
	}

	context := keymap.ContextList
	if m.searchFocused {
		context = keymap.ContextSearch
	}
	available := m.width - lipgloss.Width(status) - 2
	hints := renderHintLineTruncated(m.footerHints(context), available)

	spacing := max(0, m.width-lipgloss.Width(hints)-lipgloss.Width(status))
	footer := hints + strings.Repeat(" ", spacing) + status
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

type hintSpec struct {
	id    string
	label string
}

var listHints = []hintSpec{
	{keymap.CmdNewNote, "new"},
	{keymap.CmdFocusSearch, "search"},
	{keymap.CmdDeleteNote, "delete"},
	{keymap.CmdNextPage, "next"},
	{keymap.CmdPrevPage, "prev"},
	{keymap.CmdTogglePreview, "preview"},
	{keymap.CmdHelp, "help"},
	{keymap.CmdQuit, "quit"},
}

var searchHints = []hintSpec{
	{keymap.CmdSubmitSearch, "search now"},
	{keymap.CmdBlurSearch, "back"},
	{keymap.CmdClearSearch, "clear"},
}

func (m Model) footerHints(context string) []footerHint {
	specs := listHints
	if context == keymap.ContextSearch {
		specs = searchHints
	}

	var hints []footerHint
	for _, hs := range specs {
		keys := m.keymap.KeysFor(hs.id, context)
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: keys[0], label: hs.label})
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	for i, hint := range hints {
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if i > 0 {
			candidate = result + "  " + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

// openHelp shows the key bindings in a modal.
func (m *Model) openHelp() {
	help := modal.New("Keyboard Shortcuts",
		modal.WithWidth(56),
		modal.WithHints(false),
		modal.WithPrimaryAction(helpCloseID),
	)
	sections := []struct {
		title   string
		context string
	}{
		{"Notes", keymap.ContextList},
		{"Search", keymap.ContextSearch},
		{"Global", keymap.ContextGlobal},
	}
	for i, s := range sections {
		if i > 0 {
			help.AddSection(modal.Spacer())
		}
		help.AddSection(modal.Text(styles.Title.Render(s.title)))
		help.AddSection(modal.Text(m.buildBindingSection(s.context)))
	}
	help.AddSection(modal.Spacer())
	help.AddSection(modal.Buttons(modal.Btn(" Close ", helpCloseID)))

	m.help = help
	m.host.Open(help, nil)
}

// buildBindingSection lists one line per command bound in context.
func (m Model) buildBindingSection(context string) string {
	bindings := m.keymap.BindingsForContext(context)

	var b strings.Builder
	seen := make(map[string]bool)
	for _, binding := range bindings {
		if binding.Context != context || seen[binding.Command] {
			continue
		}
		seen[binding.Command] = true

		keys := formatBindingKeys(m.keymap.KeysFor(binding.Command, context))
		padded := fmt.Sprintf("%-14s", keys)
		fmt.Fprintf(&b, "  %s %s\n", styles.Muted.Render(padded), formatCommandName(binding.Command))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatBindingKeys formats multiple keys into a display string.
func formatBindingKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, ", ")
}

// formatCommandName converts a command ID to a display name.
func formatCommandName(cmd string) string {
	return strings.ReplaceAll(cmd, "-", " ")
}
