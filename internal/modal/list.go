package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/styles"
)

// ListItem is one selectable row of a List section.
type ListItem struct {
	ID    string
	Label string
}

// ListOption configures a List section.
type ListOption func(*listSection)

// WithMaxVisible caps the number of rows drawn at once.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// listSection is a single focusable that changes selection with j/k.
type listSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int
	maxVisible   int
	scrollOffset int
}

// List creates a selectable list. selectedIdx is shared with the caller so the
// selection survives re-renders.
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *listSection) selected() int {
	if s.selectedIdx == nil {
		return 0
	}
	return *s.selectedIdx
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: styles.Muted.Render("(no items)")}
	}

	visible := min(s.maxVisible, len(s.items))
	sel := s.selected()
	if sel < s.scrollOffset {
		s.scrollOffset = sel
	} else if sel >= s.scrollOffset+visible {
		s.scrollOffset = sel - visible + 1
	}
	s.scrollOffset = clamp(s.scrollOffset, 0, max(0, len(s.items)-visible))

	focused := focusID == s.id
	lines := make([]string, 0, visible+2)
	if s.scrollOffset > 0 {
		lines = append(lines, styles.Muted.Render("↑ more above"))
	}
	offsetY := len(lines)

	for i := 0; i < visible; i++ {
		idx := s.scrollOffset + i
		item := s.items[idx]

		var style lipgloss.Style
		switch {
		case idx == sel && focused:
			style = styles.ListItemFocused
		case idx == sel || item.ID == hoverID:
			style = styles.ListItemSelected
		default:
			style = styles.ListItemNormal
		}

		cursor := "  "
		if idx == sel {
			cursor = styles.ListCursor.Render("> ")
			if focused {
				cursor = styles.ListCursor.Render("▸ ")
			}
		}
		lines = append(lines, cursor+style.Render(item.Label))
	}

	if s.scrollOffset+visible < len(s.items) {
		lines = append(lines, styles.Muted.Render("↓ more below"))
	}

	return RenderedSection{
		Content: strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetY: offsetY,
			Width:   contentWidth,
			Height:  visible,
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.selectedIdx == nil {
		return "", nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	switch km.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	case "home":
		*s.selectedIdx = 0
	case "end":
		*s.selectedIdx = len(s.items) - 1
	}
	return "", nil
}
