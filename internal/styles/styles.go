package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. Set by ApplyTheme; the default theme is applied at init.
var (
	// Primary colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Text colors
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextSubtle    lipgloss.Color

	// Background colors
	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color

	// Border colors
	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color

	ButtonHoverColor      lipgloss.Color
	ToastSuccessTextColor lipgloss.Color
	ToastErrorTextColor   lipgloss.Color

	// Glamour style used for note previews
	CurrentMarkdownTheme string
)

// Panel styles
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
)

// Text styles
var (
	Title     lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	ErrorText lipgloss.Style
	KeyHint   lipgloss.Style
	Logo      lipgloss.Style
)

// List styles
var (
	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemFocused  lipgloss.Style
	ListCursor       lipgloss.Style

	// Per-row delete affordance in the note list
	DeleteLink      lipgloss.Style
	DeleteLinkHover lipgloss.Style
)

// Pagination
var (
	PageNumber       lipgloss.Style
	PageNumberActive lipgloss.Style
)

// Footer, header and toasts
var (
	Footer       lipgloss.Style
	Header       lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
)

// Modal styles
var ModalTitle lipgloss.Style

// Button styles
var (
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonHover   lipgloss.Style

	// Danger button styles (for destructive actions like delete)
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
	ButtonDangerHover   lipgloss.Style
)

// tagColors gives each note tag a badge color. Unknown tags fall back to muted.
var tagColors map[string]lipgloss.Color

func init() {
	ApplyTheme(DefaultTheme.Name)
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles(c ColorPalette) {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	DeleteLink = lipgloss.NewStyle().
		Foreground(Error)

	DeleteLinkHover = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Error)

	PageNumber = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	PageNumberActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Bold(true).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)

	ToastSuccess = lipgloss.NewStyle().
		Foreground(ToastSuccessTextColor).
		Background(Success).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Foreground(ToastErrorTextColor).
		Background(Error).
		Padding(0, 1)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	ButtonHover = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(ButtonHoverColor).
		Padding(0, 2)

	ButtonDanger = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.DangerText)).
		Background(lipgloss.Color(c.DangerBg)).
		Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Error).
		Padding(0, 2).
		Bold(true)

	ButtonDangerHover = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(c.DangerBg)).
		Padding(0, 2)

	tagColors = map[string]lipgloss.Color{
		"Todo":     Accent,
		"Work":     Secondary,
		"Personal": Success,
		"Meeting":  Primary,
		"Shopping": lipgloss.Color(c.TagShopping),
	}
}

// TagBadge renders a tag as a colored badge.
func TagBadge(tag string) string {
	c, ok := tagColors[tag]
	if !ok {
		c = TextMuted
	}
	return lipgloss.NewStyle().
		Foreground(BgPrimary).
		Background(c).
		Padding(0, 1).
		Render(tag)
}
