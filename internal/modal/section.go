package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/styles"
)

// Section is one vertical block of modal content.
type Section interface {
	// Render draws the section at contentWidth and reports its focusable elements.
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a message while focusID is focused. A non-empty action
	// is surfaced to the modal's caller.
	Update(msg tea.Msg, focusID string) (action string, cmd tea.Cmd)
}

// enterConsumer is implemented by sections that treat Enter as input
// (multi-line text) instead of a confirm key.
type enterConsumer interface {
	consumesEnter(focusID string) bool
}

// RenderedSection is the output of Section.Render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// FocusableInfo locates a focusable element relative to its section.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// measureHeight counts lines, ignoring trailing newlines.
func measureHeight(content string) int {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// --- Text ---

type textSection struct {
	text string
}

// Text creates a static, word-wrapped text section.
func Text(s string) Section {
	return &textSection{text: s}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: lipgloss.NewStyle().Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// --- Spacer ---

type spacerSection struct{}

// Spacer inserts one blank line.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// --- When ---

type whenSection struct {
	cond  func() bool
	inner Section
}

// When renders inner only while cond returns true.
func When(cond func() bool, inner Section) Section {
	return &whenSection{cond: cond, inner: inner}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}

// --- Custom ---

// RenderFunc renders a custom section.
type RenderFunc func(contentWidth int, focusID, hoverID string) RenderedSection

// UpdateFunc handles messages for a custom section.
type UpdateFunc func(msg tea.Msg, focusID string) (string, tea.Cmd)

type customSection struct {
	render RenderFunc
	update UpdateFunc
}

// Custom wraps arbitrary render/update functions. update may be nil.
func Custom(render RenderFunc, update UpdateFunc) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// --- Input ---

// InputOption configures an Input section.
type InputOption func(*inputSection)

// WithSubmitOnEnter controls whether Enter in the input returns the input's
// ID as the action. When false, Enter falls through to the modal's primary action.
func WithSubmitOnEnter(submit bool) InputOption {
	return func(s *inputSection) { s.submitOnEnter = submit }
}

type inputSection struct {
	id            string
	label         string
	model         *textinput.Model
	submitOnEnter bool
}

// Input creates a single-line text input bound to model.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{id: id, model: model, submitOnEnter: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InputWithLabel is Input with a label line above the field.
func InputWithLabel(id, label string, model *textinput.Model, opts ...InputOption) Section {
	s := Input(id, model, opts...).(*inputSection)
	s.label = label
	return s
}

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	if focused {
		s.model.Focus()
	} else {
		s.model.Blur()
	}
	s.model.Width = max(1, contentWidth-4)

	box := inputBox(focused, contentWidth).Render(s.model.View())

	offsetY := 0
	content := box
	if s.label != "" {
		content = s.label + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetY: offsetY,
			Width:   contentWidth,
			Height:  lipgloss.Height(box),
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "enter" {
		if s.submitOnEnter {
			return s.id, nil
		}
		return "", nil
	}
	// Focus may have moved here without a render in between.
	s.model.Focus()
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	return "", cmd
}

// --- Textarea ---

type textareaSection struct {
	id     string
	label  string
	model  *textarea.Model
	height int
}

// Textarea creates a multi-line input of the given visible height.
// Enter inserts a newline; Tab moves focus away.
func Textarea(id string, model *textarea.Model, height int) Section {
	return &textareaSection{id: id, model: model, height: max(1, height)}
}

// TextareaWithLabel is Textarea with a label line above the field.
func TextareaWithLabel(id, label string, model *textarea.Model, height int) Section {
	s := Textarea(id, model, height).(*textareaSection)
	s.label = label
	return s
}

func (s *textareaSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	focused := focusID == s.id
	if focused {
		s.model.Focus()
	} else {
		s.model.Blur()
	}
	s.model.SetWidth(max(1, contentWidth-4))
	s.model.SetHeight(s.height)

	box := inputBox(focused, contentWidth).Render(s.model.View())

	offsetY := 0
	content := box
	if s.label != "" {
		content = s.label + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetY: offsetY,
			Width:   contentWidth,
			Height:  lipgloss.Height(box),
		}},
	}
}

func (s *textareaSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	// Focus may have moved here without a render in between.
	s.model.Focus()
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	return "", cmd
}

func (s *textareaSection) consumesEnter(focusID string) bool {
	return focusID == s.id
}

func inputBox(focused bool, width int) lipgloss.Style {
	border := styles.BorderNormal
	if focused {
		border = styles.BorderActive
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(max(1, width-2))
}

// --- Buttons ---

// ButtonDef describes one button.
type ButtonDef struct {
	Label  string
	ID     string
	danger bool
}

// BtnOption configures a button.
type BtnOption func(*ButtonDef)

// BtnDanger styles the button as destructive.
func BtnDanger() BtnOption {
	return func(b *ButtonDef) { b.danger = true }
}

// Btn defines a button with a label and action ID.
func Btn(label, id string, opts ...BtnOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons lays out buttons on a single row.
func Buttons(buttons ...ButtonDef) Section {
	return &buttonsSection{buttons: buttons}
}

func (s *buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var sb strings.Builder
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	x := 0
	for i, b := range s.buttons {
		if i > 0 {
			sb.WriteString("  ")
			x += 2
		}
		rendered := buttonStyle(b, focusID == b.ID, hoverID == b.ID).Render(b.Label)
		w := ansi.StringWidth(rendered)
		sb.WriteString(rendered)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		x += w
	}
	return RenderedSection{Content: sb.String(), Focusables: focusables}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || km.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID {
			return b.ID, nil
		}
	}
	return "", nil
}

func buttonStyle(b ButtonDef, focused, hovered bool) lipgloss.Style {
	switch {
	case b.danger && focused:
		return styles.ButtonDangerFocused
	case b.danger && hovered:
		return styles.ButtonDangerHover
	case b.danger:
		return styles.ButtonDanger
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	default:
		return styles.Button
	}
}
