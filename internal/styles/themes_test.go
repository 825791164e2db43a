package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		// Valid 6-char hex colors
		{"valid uppercase", "#FF5500", true},
		{"valid lowercase", "#aabbcc", true},
		{"valid mixed case", "#AbCdEf", true},
		{"valid all zeros", "#000000", true},
		{"valid all Fs", "#FFFFFF", true},

		// Valid 8-char hex colors with alpha
		{"valid with alpha 80", "#00000080", true},
		{"valid with alpha FF", "#FF5500FF", true},
		{"valid with alpha 00", "#aabbcc00", true},

		// Invalid formats - wrong length
		{"invalid 3-char", "#FFF", false},
		{"invalid 4-char", "#FFFF", false},
		{"invalid 5-char", "#FF550", false},
		{"invalid 7-char", "#FF55001", false},
		{"invalid 9-char", "#FF5500801", false},

		// Invalid formats - no hash
		{"no hash 6-char", "FF5500", false},
		{"no hash 8-char", "FF550080", false},

		// Invalid formats - invalid characters
		{"invalid char G", "#GGGGGG", false},
		{"invalid char Z", "#ZZZZZZ", false},
		{"invalid char space", "#FF 550", false},
		{"invalid char dash", "#FF-550", false},

		// Edge cases
		{"empty string", "", false},
		{"just hash", "#", false},
		{"very long", "#FF5500FF5500FF5500", false},
		{"hash only no digits", "#XXXXXX", false},

		// Boundary cases
		{"exactly 6 hex digits", "#123456", true},
		{"exactly 8 hex digits", "#12345678", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidHexColor(tt.input)
			if got != tt.valid {
				t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(DefaultTheme.Name)

	ApplyTheme("dracula")
	if got := GetCurrentThemeName(); got != "dracula" {
		t.Errorf("current theme = %q, want dracula", got)
	}
	if Primary != lipgloss.Color(DraculaTheme.Colors.Primary) {
		t.Errorf("Primary = %v, want %s", Primary, DraculaTheme.Colors.Primary)
	}
	if CurrentMarkdownTheme != "dracula" {
		t.Errorf("markdown theme = %q, want dracula", CurrentMarkdownTheme)
	}
	if ListCursor.GetForeground() != Primary {
		t.Error("styles were not rebuilt with the new palette")
	}
}

func TestApplyTheme_UnknownFallsBack(t *testing.T) {
	defer ApplyTheme(DefaultTheme.Name)

	ApplyTheme("light")
	ApplyTheme("no-such-theme")
	if got := GetCurrentThemeName(); got != "default" {
		t.Errorf("current theme = %q, want default", got)
	}
	if Primary != lipgloss.Color(DefaultTheme.Colors.Primary) {
		t.Errorf("Primary = %v, want default", Primary)
	}
}

func TestApplyThemeWithOverrides(t *testing.T) {
	defer ApplyTheme(DefaultTheme.Name)

	err := ApplyThemeWithOverrides("default", map[string]string{
		"primary":   "#123456",
		"error":     "red",
		"sparkle":   "#FFFFFF",
		"textMuted": "#ABCDEF",
	})
	if err == nil {
		t.Fatal("expected an error for the bad overrides")
	}
	for _, want := range []string{"error", "sparkle"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}

	if Primary != lipgloss.Color("#123456") {
		t.Errorf("Primary = %v, want #123456", Primary)
	}
	if TextMuted != lipgloss.Color("#ABCDEF") {
		t.Errorf("TextMuted = %v, want #ABCDEF", TextMuted)
	}
	if Error != lipgloss.Color(DefaultTheme.Colors.Error) {
		t.Errorf("Error = %v, want the theme default", Error)
	}
	// Built-in themes are not modified by overrides.
	if DefaultTheme.Colors.Primary != "#7C3AED" {
		t.Error("override leaked into DefaultTheme")
	}
}

func TestListThemes(t *testing.T) {
	got := strings.Join(ListThemes(), ",")
	if got != "default,dracula,light" {
		t.Errorf("ListThemes() = %q", got)
	}
	if !IsValidTheme("light") || IsValidTheme("solarized") {
		t.Error("IsValidTheme disagrees with the registry")
	}
}

func TestTagBadge(t *testing.T) {
	if !strings.Contains(TagBadge("Work"), "Work") {
		t.Error("badge does not contain the tag name")
	}
	if !strings.Contains(TagBadge("Other"), "Other") {
		t.Error("unknown tag badge does not contain the tag name")
	}
}
