package notelist

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/styles"
)

// previewRenderer renders note content as markdown, caching by note and width.
type previewRenderer struct {
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
	logger   *slog.Logger
}

func newPreviewRenderer(logger *slog.Logger) *previewRenderer {
	return &previewRenderer{cache: make(map[string]string), logger: logger}
}

func (p *previewRenderer) ensure(width int) {
	if p.renderer != nil && p.width == width {
		return
	}
	p.width = width
	p.cache = make(map[string]string)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentMarkdownTheme),
		glamour.WithWordWrap(max(10, width-2)),
	)
	if err != nil {
		p.logger.Warn("notelist: glamour init failed", "err", err)
		p.renderer = nil
		return
	}
	p.renderer = r
}

// Render returns the preview for n at width.
func (p *previewRenderer) Render(n notehub.Note, width int) string {
	p.ensure(width)

	key := fmt.Sprintf("%s\x00%s\x00%s", n.ID, n.Title, n.Content)
	if out, ok := p.cache[key]; ok {
		return out
	}

	md := "# " + n.Title + "\n\n"
	if strings.TrimSpace(n.Content) == "" {
		md += "_No content_\n"
	} else {
		md += n.Content + "\n"
	}

	var out string
	if p.renderer != nil {
		rendered, err := p.renderer.Render(md)
		if err == nil {
			out = strings.Trim(rendered, "\n")
		} else {
			p.logger.Debug("notelist: markdown render failed", "id", n.ID, "err", err)
		}
	}
	if out == "" {
		out = styles.Title.Render(n.Title) + "\n\n" + lipgloss.NewStyle().Width(width).Render(n.Content)
	}

	meta := styles.Muted.Render(fmt.Sprintf("%s · created %s", n.Tag, n.CreatedAt))
	out += "\n\n" + meta
	p.cache[key] = out
	return out
}
