package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/styles"
)

type renderedSection struct {
	content    string
	height     int
	focusables []FocusableInfo
}

// renderSections renders every non-empty section and collects focus IDs in order.
func (m *Modal) renderSections(contentWidth int) ([]renderedSection, []string) {
	m.discoverFocus(contentWidth)
	focusID := m.currentFocusID()
	rendered := make([]renderedSection, 0, len(m.sections))
	var focusIDs []string

	for _, s := range m.sections {
		res := s.Render(contentWidth, focusID, m.hoverID)
		if res.Content == "" {
			continue
		}
		rendered = append(rendered, renderedSection{
			content:    res.Content,
			height:     measureHeight(res.Content),
			focusables: res.Focusables,
		})
		for _, f := range res.Focusables {
			focusIDs = append(focusIDs, f.ID)
		}
	}
	return rendered, focusIDs
}

// discoverFocus fills focusIDs before the first render, so the first
// field is focused in the very first frame and receives the first key.
func (m *Modal) discoverFocus(contentWidth int) {
	if len(m.focusIDs) > 0 {
		return
	}
	for _, s := range m.sections {
		res := s.Render(contentWidth, "", m.hoverID)
		if res.Content == "" {
			continue
		}
		for _, f := range res.Focusables {
			m.focusIDs = append(m.focusIDs, f.ID)
		}
	}
}

// buildLayout renders the modal box, clips the body to the screen and
// registers hit regions: backdrop first, then body, then focusables.
func (m *Modal) buildLayout(screenW, screenH int, handler *mouse.Handler) string {
	maxWidth := max(1, screenW-4)
	modalWidth := clamp(m.width, min(MinModalWidth, maxWidth), maxWidth)
	contentWidth := max(1, modalWidth-ModalPadding)

	headerLines := 0
	if m.title != "" {
		headerLines = 2 // title + margin
	}
	footerLines := 0
	if m.showHints {
		footerLines++
	}
	if m.customFooter != "" {
		footerLines += strings.Count(m.customFooter, "\n") + 1
	}
	maxViewportH := max(1, screenH-6-headerLines-footerLines)

	rendered, focusIDs := m.renderSections(contentWidth)
	m.focusIDs = focusIDs
	if m.focusIdx >= len(m.focusIDs) {
		m.focusIdx = 0
	}

	m.focusPositions = make(map[string]focusablePos, len(focusIDs))
	total := 0
	parts := make([]string, 0, len(rendered))
	for _, r := range rendered {
		for _, f := range r.focusables {
			m.focusPositions[f.ID] = focusablePos{y: total + f.OffsetY, height: f.Height}
		}
		total += r.height
		parts = append(parts, r.content)
	}

	viewportH := min(max(1, total), maxViewportH)
	m.lastViewportH = viewportH
	m.scrollOffset = clamp(m.scrollOffset, 0, max(0, total-viewportH))
	body := sliceLines(strings.Join(parts, "\n"), m.scrollOffset, viewportH)

	var inner strings.Builder
	if m.title != "" {
		inner.WriteString(renderTitleLine(m.title, m.variant))
		inner.WriteString("\n")
	}
	inner.WriteString(body)
	if m.showHints {
		inner.WriteString("\n")
		inner.WriteString(styles.Muted.Render("Tab to switch · Enter to confirm · Esc to cancel"))
	}
	if m.customFooter != "" {
		inner.WriteString("\n")
		inner.WriteString(m.customFooter)
	}

	box := m.modalStyle(modalWidth).Render(inner.String())
	if handler == nil {
		return box
	}

	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)
	boxX := max(0, (screenW-boxW)/2)
	boxY := max(0, (screenH-boxH)/2)

	handler.HitMap.Clear()
	handler.HitMap.AddRect(backdropID, 0, 0, screenW, screenH, nil)
	handler.HitMap.AddRect(bodyID, boxX, boxY, boxW, boxH, nil)

	contentX := boxX + 3 // border(1) + padding(2)
	contentY := boxY + 2 // border(1) + padding(1)
	if m.title != "" {
		contentY += headerLines
	}
	sectionY := 0
	for _, r := range rendered {
		for _, f := range r.focusables {
			absY := contentY + sectionY + f.OffsetY - m.scrollOffset
			if absY+f.Height > contentY && absY < contentY+viewportH {
				handler.HitMap.AddRect(f.ID, contentX+f.OffsetX, absY, f.Width, f.Height, f.ID)
			}
		}
		sectionY += r.height
	}

	return box
}

func (m *Modal) modalStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(variantColor(m.variant, styles.Primary)).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(width - 2)
}

func renderTitleLine(title string, variant Variant) string {
	return styles.ModalTitle.Foreground(variantColor(variant, styles.TextPrimary)).Render(title)
}

func variantColor(v Variant, fallback lipgloss.Color) lipgloss.Color {
	switch v {
	case VariantDanger:
		return styles.Error
	case VariantWarning:
		return styles.Warning
	case VariantInfo:
		return styles.Info
	}
	return fallback
}

// sliceLines returns height lines of content starting at offset.
func sliceLines(content string, offset, height int) string {
	lines := strings.Split(content, "\n")
	if offset >= len(lines) {
		offset = max(0, len(lines)-1)
	}
	lines = lines[offset:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
