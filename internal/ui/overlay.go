// Package ui holds rendering helpers shared by the note views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle paints background content behind an open modal. Existing ANSI
// styling is stripped first; SGR faint does not combine reliably with colors.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// OverlayModal centers box over a dimmed copy of background and returns
// exactly height lines.
func OverlayModal(background, box string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")

	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, ansi.StringWidth(l))
	}
	startX := max(0, (width-boxW)/2)
	startY := max(0, (height-len(boxLines))/2)

	out := make([]string, height)
	for y := range height {
		bg := ""
		if y < len(bgLines) {
			bg = ansi.Strip(bgLines[y])
		}
		row := y - startY
		if row < 0 || row >= len(boxLines) {
			out[y] = DimStyle.Render(bg)
			continue
		}
		out[y] = splice(bg, boxLines[row], startX, boxW)
	}
	return strings.Join(out, "\n")
}

// splice writes fg over bg (already stripped) at column x, dimming what stays visible.
func splice(bg, fg string, x, fgWidth int) string {
	var sb strings.Builder
	left := ansi.Truncate(bg, x, "")
	sb.WriteString(DimStyle.Render(left))
	if pad := x - ansi.StringWidth(left); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(fg)
	if bgW := ansi.StringWidth(bg); bgW > x+fgWidth {
		sb.WriteString(DimStyle.Render(ansi.Cut(bg, x+fgWidth, bgW)))
	}
	return sb.String()
}
