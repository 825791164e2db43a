// Package modal renders declarative dialogs on top of the note list and
// owns their keyboard focus, mouse hit regions and lifecycle.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/mouse"
)

// Action IDs produced by the modal itself.
const (
	ActionCancel = "cancel"

	backdropID = "modal-backdrop"
	bodyID     = "modal-body"
)

// Modal is a declarative dialog built from sections.
type Modal struct {
	title           string
	variant         Variant
	width           int
	sections        []Section
	showHints       bool
	primaryAction   string
	closeOnBackdrop bool
	customFooter    string

	focusIdx     int
	hoverID      string
	focusIDs     []string // rebuilt on every render
	scrollOffset int

	focusPositions map[string]focusablePos
	lastViewportH  int
}

type focusablePos struct {
	y      int
	height int
}

// New creates a Modal with the given title and options.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:           title,
		variant:         VariantDefault,
		width:           DefaultWidth,
		showHints:       true,
		closeOnBackdrop: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section. Returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Title returns the modal title.
func (m *Modal) Title() string { return m.title }

// Render draws the modal for a screen of screenW x screenH and registers
// hit regions on handler (which may be nil).
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

// HandleKey processes keyboard input and returns the triggered action, if any.
// Esc always yields ActionCancel.
func (m *Modal) HandleKey(msg tea.KeyMsg) (action string, cmd tea.Cmd) {
	m.discoverFocus(max(1, m.width-ModalPadding))

	switch msg.String() {
	case "esc":
		return ActionCancel, nil

	case "tab":
		m.cycleFocus(1)
		return "", nil

	case "shift+tab":
		m.cycleFocus(-1)
		return "", nil

	case "enter":
		focusID := m.currentFocusID()
		if focusID == "" {
			return "", nil
		}
		if m.focusedConsumesEnter(focusID) {
			return m.routeToFocusedSection(msg)
		}
		action, cmd = m.routeToFocusedSection(msg)
		if action != "" {
			return action, cmd
		}
		if m.primaryAction != "" {
			return m.primaryAction, cmd
		}
		return focusID, cmd

	default:
		return m.routeToFocusedSection(msg)
	}
}

// HandleMouse processes mouse input against the regions registered by the
// last Render. Returns the clicked element's ID, ActionCancel for a backdrop
// click, or "".
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	action := handler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick:
		id := action.Region.ID
		switch id {
		case backdropID:
			if m.closeOnBackdrop {
				return ActionCancel
			}
			return ""
		case bodyID:
			return ""
		}
		for i, fid := range m.focusIDs {
			if fid == id {
				m.focusIdx = i
				return id
			}
		}
		return ""

	case mouse.ActionHover:
		m.hoverID = ""
		if action.Region != nil && action.Region.ID != backdropID && action.Region.ID != bodyID {
			m.hoverID = action.Region.ID
		}
		return ""

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region != nil && action.Region.ID == bodyID {
			m.scrollOffset = max(0, m.scrollOffset+action.Delta)
		}
		return ""
	}

	return ""
}

// SetFocus focuses the element with the given ID if it was rendered.
func (m *Modal) SetFocus(id string) {
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			m.scrollToFocused()
			return
		}
	}
}

// FocusedID returns the currently focused element ID.
func (m *Modal) FocusedID() string { return m.currentFocusID() }

// HoveredID returns the currently hovered element ID.
func (m *Modal) HoveredID() string { return m.hoverID }

// Reset clears focus, hover and scroll state.
func (m *Modal) Reset() {
	m.focusIdx = 0
	m.hoverID = ""
	m.scrollOffset = 0
}

func (m *Modal) currentFocusID() string {
	if len(m.focusIDs) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return m.focusIDs[0]
	}
	return m.focusIDs[m.focusIdx]
}

func (m *Modal) cycleFocus(delta int) {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(m.focusIDs)) % len(m.focusIDs)
	m.scrollToFocused()
}

// scrollToFocused keeps the focused element inside the body viewport.
func (m *Modal) scrollToFocused() {
	pos, ok := m.focusPositions[m.currentFocusID()]
	if !ok || m.lastViewportH <= 0 {
		return
	}
	if pos.y < m.scrollOffset {
		m.scrollOffset = pos.y
	}
	if pos.y+pos.height > m.scrollOffset+m.lastViewportH {
		m.scrollOffset = pos.y + pos.height - m.lastViewportH
	}
}

func (m *Modal) focusedConsumesEnter(focusID string) bool {
	for _, s := range m.sections {
		if ec, ok := s.(enterConsumer); ok && ec.consumesEnter(focusID) {
			return true
		}
	}
	return false
}

func (m *Modal) routeToFocusedSection(msg tea.KeyMsg) (string, tea.Cmd) {
	focusID := m.currentFocusID()
	if focusID == "" {
		return "", nil
	}
	for _, section := range m.sections {
		action, cmd := section.Update(msg, focusID)
		if action != "" || cmd != nil {
			return action, cmd
		}
	}
	return "", nil
}
