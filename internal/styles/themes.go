package styles

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects themeRegistry and currentTheme.
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	ButtonHover      string `json:"buttonHover"`
	DangerText       string `json:"dangerText"`
	DangerBg         string `json:"dangerBg"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`
	TagShopping      string `json:"tagShopping"` // the other tags reuse brand colors

	// Glamour theme name
	MarkdownTheme string `json:"markdownTheme"`
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",
			Info:    "#3B82F6",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			ButtonHover:      "#9D174D",
			DangerText:       "#FCA5A5",
			DangerBg:         "#7F1D1D",
			ToastSuccessText: "#000000", // Black on green
			ToastErrorText:   "#FFFFFF", // White on red
			TagShopping:      "#EC4899",

			MarkdownTheme: "dark",
		},
	}

	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary:   "#BD93F9", // Purple
			Secondary: "#8BE9FD", // Cyan
			Accent:    "#FFB86C", // Orange

			Success: "#50FA7B",
			Warning: "#FFB86C",
			Error:   "#FF5555",
			Info:    "#8BE9FD",

			TextPrimary:   "#F8F8F2",
			TextSecondary: "#BFBFBF",
			TextMuted:     "#6272A4",
			TextSubtle:    "#44475A",

			BgPrimary:   "#282A36",
			BgSecondary: "#343746",
			BgTertiary:  "#44475A",

			BorderNormal: "#44475A",
			BorderActive: "#BD93F9",

			ButtonHover:      "#FF79C6", // Pink
			DangerText:       "#FFB3B3",
			DangerBg:         "#6E2B2B",
			ToastSuccessText: "#282A36",
			ToastErrorText:   "#F8F8F2",
			TagShopping:      "#FF79C6",

			MarkdownTheme: "dracula",
		},
	}

	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary:   "#6D28D9",
			Secondary: "#2563EB",
			Accent:    "#B45309",

			Success: "#047857",
			Warning: "#B45309",
			Error:   "#DC2626",
			Info:    "#2563EB",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			TextSubtle:    "#9CA3AF",

			BgPrimary:   "#FFFFFF",
			BgSecondary: "#F3F4F6",
			BgTertiary:  "#E5E7EB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			ButtonHover:      "#DB2777",
			DangerText:       "#7F1D1D",
			DangerBg:         "#FECACA",
			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",
			TagShopping:      "#DB2777",

			MarkdownTheme: "light",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	DefaultTheme.Name: DefaultTheme,
	DraculaTheme.Name: DraculaTheme,
	LightTheme.Name:   LightTheme,
}

// currentTheme tracks the active theme name
var currentTheme = DefaultTheme.Name

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies a theme by name, updating all style variables.
// Unknown names fall back to the default theme.
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with color overrides from config.
// It returns an error naming every override that was skipped; the valid
// ones are still applied.
func ApplyThemeWithOverrides(name string, overrides map[string]string) error {
	theme := GetTheme(name)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bad []string
	for _, k := range keys {
		if err := applyOverride(&theme.Colors, k, overrides[k]); err != nil {
			bad = append(bad, err.Error())
		}
	}

	applyThemeColors(theme)
	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()

	if len(bad) > 0 {
		return fmt.Errorf("theme overrides: %s", strings.Join(bad, "; "))
	}
	return nil
}

// applyOverride sets one palette color. Keys use the JSON field names.
func applyOverride(p *ColorPalette, key, value string) error {
	if key == "markdownTheme" {
		p.MarkdownTheme = value
		return nil
	}
	if !IsValidHexColor(value) {
		return fmt.Errorf("%s: %q is not a hex color", key, value)
	}

	fields := map[string]*string{
		"primary":          &p.Primary,
		"secondary":        &p.Secondary,
		"accent":           &p.Accent,
		"success":          &p.Success,
		"warning":          &p.Warning,
		"error":            &p.Error,
		"info":             &p.Info,
		"textPrimary":      &p.TextPrimary,
		"textSecondary":    &p.TextSecondary,
		"textMuted":        &p.TextMuted,
		"textSubtle":       &p.TextSubtle,
		"bgPrimary":        &p.BgPrimary,
		"bgSecondary":      &p.BgSecondary,
		"bgTertiary":       &p.BgTertiary,
		"borderNormal":     &p.BorderNormal,
		"borderActive":     &p.BorderActive,
		"buttonHover":      &p.ButtonHover,
		"dangerText":       &p.DangerText,
		"dangerBg":         &p.DangerBg,
		"toastSuccessText": &p.ToastSuccessText,
		"toastErrorText":   &p.ToastErrorText,
		"tagShopping":      &p.TagShopping,
	}
	dst, ok := fields[key]
	if !ok {
		return fmt.Errorf("%s: unknown color", key)
	}
	*dst = value
	return nil
}

// applyThemeColors updates the color variables and rebuilds the styles.
func applyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	ButtonHoverColor = lipgloss.Color(c.ButtonHover)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles(c)
}
