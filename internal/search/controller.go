// Package search holds the search box and page state and turns keystrokes
// into settled queries.
package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/querycache"
)

// DefaultDebounce is the quiet period before typed text is committed.
const DefaultDebounce = 300 * time.Millisecond

// DebounceMsg fires when a quiet period may have ended. ID identifies the
// keystroke that scheduled it.
type DebounceMsg struct {
	ID int
}

// Controller tracks raw input, the committed query and the current page.
type Controller struct {
	debounce time.Duration

	raw       string
	committed string
	page      int

	debounceID int // bumped on every keystroke; only the latest tick commits
}

// New returns a controller on page 1 with an empty query. A non-positive
// debounce uses DefaultDebounce.
func New(debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{debounce: debounce, page: 1}
}

// Input records the current text of the search box and schedules a commit.
// Every call cancels the commit scheduled by the previous one.
func (c *Controller) Input(text string) tea.Cmd {
	c.raw = text
	c.debounceID++
	id := c.debounceID
	return tea.Tick(c.debounce, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id}
	})
}

// HandleTick commits the raw text if msg belongs to the latest keystroke.
// It reports whether the committed query changed, in which case the page is
// back at 1.
func (c *Controller) HandleTick(msg DebounceMsg) bool {
	if msg.ID != c.debounceID {
		return false
	}
	if c.raw == c.committed {
		return false
	}
	c.committed = c.raw
	c.page = 1
	return true
}

// Flush commits the raw text immediately, cancelling any pending tick.
func (c *Controller) Flush() bool {
	c.debounceID++
	if c.raw == c.committed {
		return false
	}
	c.committed = c.raw
	c.page = 1
	return true
}

// SetPage moves to page n, clamped to at least 1. It reports whether the page
// changed. The committed query is untouched.
func (c *Controller) SetPage(n int) bool {
	n = max(1, n)
	if n == c.page {
		return false
	}
	c.page = n
	return true
}

// Key returns the committed query and page.
func (c *Controller) Key() querycache.Key {
	return querycache.Key{Search: c.committed, Page: c.page}
}

func (c *Controller) Raw() string       { return c.raw }
func (c *Controller) Committed() string { return c.committed }
func (c *Controller) Page() int         { return c.page }

// Pending reports whether typed text has not been committed yet.
func (c *Controller) Pending() bool { return c.raw != c.committed }
