package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSplice(t *testing.T) {
	tests := []struct {
		name    string
		bg      string
		fg      string
		x       int
		wantTxt string
	}{
		{"centered", "background text here", "[MODAL]", 5, "backg[MODAL]ext here"},
		{"left edge", "background", "[M]", 0, "[M]kground"},
		{"short background pads", "bg", "[M]", 5, "bg   [M]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(splice(tt.bg, tt.fg, tt.x, ansi.StringWidth(tt.fg)))
			if got != tt.wantTxt {
				t.Errorf("splice() = %q, want %q", got, tt.wantTxt)
			}
		})
	}
}

func TestOverlayModal_HeightAndPlacement(t *testing.T) {
	bg := strings.Repeat("row of background\n", 9) + "row of background"
	box := "+--+\n|ok|\n+--+"

	out := OverlayModal(bg, box, 20, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}

	// 3-line box in 10 rows starts at row 3; 4-wide box in 20 cols at col 8.
	mid := ansi.Strip(lines[4])
	if !strings.Contains(mid, "|ok|") {
		t.Errorf("expected box row in line 4, got %q", mid)
	}
	if idx := strings.Index(mid, "|ok|"); idx != 8 {
		t.Errorf("expected box at column 8, got %d", idx)
	}
	if strings.Contains(ansi.Strip(lines[0]), "ok") {
		t.Error("box should not appear above its start row")
	}
}

func TestOverlayModal_PadsMissingBackground(t *testing.T) {
	out := OverlayModal("", "X", 5, 4)
	if got := len(strings.Split(out, "\n")); got != 4 {
		t.Errorf("expected 4 lines, got %d", got)
	}
}
