// Package notelist renders a page of notes with per-row delete actions and a
// pagination bar.
package notelist

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/styles"
	"github.com/mattn/go-runewidth"
)

const (
	rowHeight       = 3 // title, excerpt, gap
	previewMinWidth = 90
	deleteLabel     = "[Delete]"
	deletingLabel   = "Deleting…"

	regionRow    = "row"
	regionDelete = "delete"
	regionPage   = "page"
)

// ActionKind identifies what a mouse interaction asked for.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSelect
	ActionDelete
	ActionPage
)

// Action is returned by HandleMouse.
type Action struct {
	Kind ActionKind
	Note notehub.Note
	Page int
}

// State describes the query behind the rows.
type State struct {
	Loading bool // nothing to show yet
	Err     error
	Spinner string
}

// View is the note list. It implements modal.ScrollLocker: while locked, it
// ignores cursor movement, scrolling and clicks.
type View struct {
	notes      []notehub.Note
	page       int
	totalPages int
	state      State

	cursor int
	offset int
	locks  int

	width, height    int
	originX, originY int
	showPreview      bool
	hoverID          string
	deleting         map[string]bool

	mouse   *mouse.Handler
	preview *previewRenderer
}

// New returns an empty list view.
func New(logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		page:       1,
		totalPages: 1,
		deleting:   make(map[string]bool),
		mouse:      mouse.NewHandler(),
		preview:    newPreviewRenderer(logger),
	}
}

// SetPage replaces the rows. page is the page number the rows belong to.
func (v *View) SetPage(p notehub.Page, page int) {
	v.notes = p.Notes
	v.page = max(1, page)
	v.totalPages = max(1, p.TotalPages)
	v.cursor = clamp(v.cursor, 0, max(0, len(v.notes)-1))
}

// SetState updates loading and error display.
func (v *View) SetState(s State) { v.state = s }

// SetSize sets the area available to the view.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetOrigin sets the screen position of the view's top-left cell, used for
// mouse hit regions.
func (v *View) SetOrigin(x, y int) {
	v.originX = x
	v.originY = y
}

// SetPreview shows or hides the markdown preview pane.
func (v *View) SetPreview(on bool) { v.showPreview = on }

// PreviewEnabled reports whether the preview pane is on.
func (v *View) PreviewEnabled() bool { return v.showPreview }

// MarkDeleting flags a row whose delete request is outstanding.
func (v *View) MarkDeleting(id string, on bool) {
	if on {
		v.deleting[id] = true
	} else {
		delete(v.deleting, id)
	}
}

// IsDeleting reports whether a row is flagged as being deleted.
func (v *View) IsDeleting(id string) bool { return v.deleting[id] }

// LockScroll freezes navigation. Locks nest.
func (v *View) LockScroll() { v.locks++ }

// UnlockScroll releases one lock.
func (v *View) UnlockScroll() {
	if v.locks > 0 {
		v.locks--
	}
}

// Locked reports whether navigation is frozen.
func (v *View) Locked() bool { return v.locks > 0 }

// Notes returns the rows being shown.
func (v *View) Notes() []notehub.Note { return v.notes }

// Cursor returns the selected row index.
func (v *View) Cursor() int { return v.cursor }

// TotalPages returns the page count of the shown result.
func (v *View) TotalPages() int { return v.totalPages }

// Selected returns the note under the cursor.
func (v *View) Selected() (notehub.Note, bool) {
	if v.cursor < 0 || v.cursor >= len(v.notes) {
		return notehub.Note{}, false
	}
	return v.notes[v.cursor], true
}

// MoveCursor moves the selection by delta rows.
func (v *View) MoveCursor(delta int) bool {
	if v.Locked() || len(v.notes) == 0 {
		return false
	}
	next := clamp(v.cursor+delta, 0, len(v.notes)-1)
	if next == v.cursor {
		return false
	}
	v.cursor = next
	v.ensureVisible()
	return true
}

// CursorTop selects the first row.
func (v *View) CursorTop() bool { return v.MoveCursor(-len(v.notes)) }

// CursorBottom selects the last row.
func (v *View) CursorBottom() bool { return v.MoveCursor(len(v.notes)) }

// ResetCursor selects the first row and scrolls to the top.
func (v *View) ResetCursor() {
	v.cursor = 0
	v.offset = 0
}

func (v *View) visibleRows() int {
	h := v.height
	if v.totalPages > 1 {
		h -= 2
	}
	return max(1, h/rowHeight)
}

func (v *View) ensureVisible() {
	rows := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+rows {
		v.offset = v.cursor - rows + 1
	}
	v.offset = clamp(v.offset, 0, max(0, len(v.notes)-rows))
}

// HandleMouse maps a mouse event to an action using the regions from the
// last Render.
func (v *View) HandleMouse(msg tea.MouseMsg) Action {
	if v.Locked() {
		return Action{}
	}
	a := v.mouse.HandleMouse(msg)

	switch a.Type {
	case mouse.ActionScrollUp:
		v.MoveCursor(-1)
	case mouse.ActionScrollDown:
		v.MoveCursor(1)
	case mouse.ActionHover:
		v.hoverID = ""
		if a.Region != nil {
			v.hoverID = a.Region.ID
		}
	case mouse.ActionClick:
		return v.click(a.Region)
	}
	return Action{}
}

func (v *View) click(r *mouse.Region) Action {
	kind, _, _ := strings.Cut(r.ID, "-")
	switch kind {
	case regionDelete, regionRow:
		idx, ok := r.Data.(int)
		if !ok || idx < 0 || idx >= len(v.notes) {
			return Action{}
		}
		v.cursor = idx
		v.ensureVisible()
		if kind == regionDelete {
			if v.deleting[v.notes[idx].ID] {
				return Action{}
			}
			return Action{Kind: ActionDelete, Note: v.notes[idx]}
		}
		return Action{Kind: ActionSelect, Note: v.notes[idx]}
	case regionPage:
		if n, ok := r.Data.(int); ok && n != v.page {
			return Action{Kind: ActionPage, Page: n}
		}
	}
	return Action{}
}

// Render draws the view into width x height cells and registers hit regions.
func (v *View) Render() string {
	v.mouse.Clear()
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	listW := v.width
	showPreview := v.showPreview && v.width >= previewMinWidth && len(v.notes) > 0
	if showPreview {
		listW = v.width * 55 / 100
	}

	var body string
	switch {
	case v.state.Loading:
		body = styles.Muted.Render(strings.TrimSpace(v.state.Spinner + " Loading notes…"))
	case v.state.Err != nil && len(v.notes) == 0:
		body = styles.ErrorText.Render("Could not load notes: " + errorText(v.state.Err))
	case len(v.notes) == 0:
		body = styles.Muted.Render("No notes found")
	default:
		body = v.renderRows(listW)
	}

	lines := strings.Split(body, "\n")
	if v.totalPages > 1 && !v.state.Loading {
		rowsH := v.height - 2
		for len(lines) < rowsH {
			lines = append(lines, "")
		}
		lines = lines[:min(len(lines), rowsH)]
		lines = append(lines, "", v.renderPagination(v.originY+len(lines)+1))
	}
	left := lipgloss.NewStyle().Width(listW).MaxWidth(listW).Height(v.height).MaxHeight(v.height).
		Render(strings.Join(lines, "\n"))

	if !showPreview {
		return left
	}
	note, _ := v.Selected()
	previewW := v.width - listW - 3
	pane := styles.PanelInactive.
		Width(previewW).
		Height(max(1, v.height-2)).
		MaxHeight(v.height).
		Render(v.preview.Render(note, previewW-2))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", pane)
}

func (v *View) renderRows(width int) string {
	v.ensureVisible()
	rows := v.visibleRows()
	end := min(len(v.notes), v.offset+rows)

	var sb strings.Builder
	for i := v.offset; i < end; i++ {
		if i > v.offset {
			sb.WriteString("\n")
		}
		y := v.originY + (i-v.offset)*rowHeight
		sb.WriteString(v.renderRow(i, width, y))
	}
	return sb.String()
}

func (v *View) renderRow(idx, width, y int) string {
	n := v.notes[idx]
	selected := idx == v.cursor

	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("▸ ")
	}

	action := deleteLabel
	actionStyle := styles.DeleteLink
	if v.deleting[n.ID] {
		action = deletingLabel
		actionStyle = styles.Muted
	} else if v.hoverID == regionID(regionDelete, idx) {
		actionStyle = styles.DeleteLinkHover
	}
	actionW := runewidth.StringWidth(action)
	badge := styles.TagBadge(string(n.Tag))
	badgeW := lipgloss.Width(badge)

	titleW := max(1, width-2-badgeW-1-actionW-1)
	title := runewidth.Truncate(n.Title, titleW, "…")
	titleStyle := styles.ListItemNormal.Bold(true)
	if selected {
		titleStyle = styles.Title
	}
	gap := max(1, titleW-runewidth.StringWidth(title)+1)
	line1 := cursor + titleStyle.Render(title) + strings.Repeat(" ", gap) + badge + " " + actionStyle.Render(action)

	excerpt := firstLine(n.Content)
	line2 := "  " + styles.Muted.Render(runewidth.Truncate(excerpt, max(1, width-2), "…"))

	v.mouse.HitMap.AddRect(regionID(regionRow, idx), v.originX, y, width, rowHeight-1, idx)
	if !v.deleting[n.ID] {
		actionX := v.originX + 2 + titleW + 1 + badgeW + 1
		v.mouse.HitMap.AddRect(regionID(regionDelete, idx), actionX, y, actionW, 1, idx)
	}

	return line1 + "\n" + line2 + "\n"
}

// renderPagination draws "← 1 … 4 5 [6] 7 8 … 20 →" at screen row y.
func (v *View) renderPagination(y int) string {
	var sb strings.Builder
	x := v.originX

	add := func(s, id string, target int) {
		sb.WriteString(s)
		w := lipgloss.Width(s)
		if id != "" {
			v.mouse.HitMap.AddRect(id, x, y, w, 1, target)
		}
		x += w
	}

	if v.page > 1 {
		add(styles.PageNumber.Render("←"), regionPage+"-prev", v.page-1)
	} else {
		add(styles.Subtle.Render(" ← "), "", 0)
	}
	for _, n := range pageWindow(v.page, v.totalPages) {
		if n == 0 {
			add(styles.Subtle.Render(" … "), "", 0)
			continue
		}
		style := styles.PageNumber
		if n == v.page {
			style = styles.PageNumberActive
		}
		add(style.Render(fmt.Sprint(n)), regionID(regionPage, n), n)
	}
	if v.page < v.totalPages {
		add(styles.PageNumber.Render("→"), regionPage+"-next", v.page+1)
	} else {
		add(styles.Subtle.Render(" → "), "", 0)
	}
	return sb.String()
}

// pageWindow lists the page numbers to draw: the first and last page and up
// to five around current. Zero marks an elided gap.
func pageWindow(current, total int) []int {
	if total <= 7 {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}

	start, end := current-2, current+2
	if start < 2 {
		end += 2 - start
		start = 2
	}
	if end > total-1 {
		start -= end - (total - 1)
		end = total - 1
	}
	start = max(2, start)

	out := []int{1}
	if start > 2 {
		out = append(out, 0)
	}
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	if end < total-1 {
		out = append(out, 0)
	}
	return append(out, total)
}

func regionID(kind string, n int) string {
	return fmt.Sprintf("%s-%d", kind, n)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " …"
	}
	return s
}

func errorText(err error) string {
	var se *notehub.ServiceError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s (%d)", se.Message, se.Status)
	}
	if notehub.IsNetwork(err) {
		return "network unavailable"
	}
	return err.Error()
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
