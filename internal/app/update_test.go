package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/keymap"
	appmsg "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService is an in-memory NoteService that records every call.
type fakeService struct {
	mu sync.Mutex

	notes      []notehub.Note
	totalPages int
	createErr  error
	deleteErr  error
	listErr    error
	// keepDeleted leaves deleted notes in later list results.
	keepDeleted bool

	lists   []notehub.ListParams
	creates []notehub.CreateParams
	deletes []string
}

func (f *fakeService) List(_ context.Context, p notehub.ListParams) (notehub.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, p)
	if f.listErr != nil {
		return notehub.Page{}, f.listErr
	}

	var out []notehub.Note
	for _, n := range f.notes {
		if strings.Contains(strings.ToLower(n.Title), strings.ToLower(p.Search)) {
			out = append(out, n)
		}
	}
	return notehub.Page{Notes: out, TotalPages: max(1, f.totalPages)}, nil
}

func (f *fakeService) Create(_ context.Context, p notehub.CreateParams) (notehub.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, p)
	if f.createErr != nil {
		return notehub.Note{}, f.createErr
	}
	n := notehub.Note{ID: fmt.Sprint(len(f.notes) + 1), Title: p.Title, Content: p.Content, Tag: p.Tag}
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeService) Delete(_ context.Context, id string) (notehub.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return notehub.Note{}, f.deleteErr
	}
	for i, n := range f.notes {
		if n.ID == id && f.keepDeleted {
			return n, nil
		}
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return n, nil
		}
	}
	return notehub.Note{}, &notehub.ServiceError{Op: "delete note", Status: 404, Message: "not found"}
}

func (f *fakeService) listCalls() []notehub.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notehub.ListParams(nil), f.lists...)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Cache.Retries = 0
	cfg.Search.Debounce = time.Millisecond
	cfg.UI.ToastDuration = time.Hour
	return cfg
}

type harness struct {
	svc     *fakeService
	copied  []string
	saved   []bool
	options Options
}

func newHarness(notes ...notehub.Note) *harness {
	h := &harness{svc: &fakeService{notes: notes, totalPages: 1}}
	h.options = Options{
		Service: h.svc,
		Config:  testConfig(),
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		SavePreview: func(show bool) error {
			h.saved = append(h.saved, show)
			return nil
		},
	}
	return h
}

// start builds the model, sizes it and runs the first fetch.
func (h *harness) start(t *testing.T) Model {
	t.Helper()
	m := New(h.options)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return run(t, m, m.Init())
}

// execCmd runs c, giving up on commands that sleep (ticks, blinks).
func execCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

// collect runs cmd and returns the messages it produces, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok || msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		out = append(out, msg)
	}
	return out
}

// run feeds every message produced by cmd back into the model until the
// command chain settles. Spinner frames are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	pending := collect(cmd)
	for steps := 0; len(pending) > 0; steps++ {
		require.Less(t, steps, 100, "command chain did not settle")
		msg := pending[0]
		pending = pending[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		pending = append(pending, collect(more)...)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs whatever it triggers.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	return run(t, next.(Model), cmd)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func note(id, title string) notehub.Note {
	return notehub.Note{ID: id, Title: title, Content: title + " body", Tag: notehub.TagTodo}
}

func TestInit_LoadsFirstPage(t *testing.T) {
	h := newHarness(note("1", "Standup"), note("2", "Groceries"))
	m := h.start(t)

	calls := h.svc.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, notehub.ListParams{Search: "", Page: 1, PerPage: 10}, calls[0])

	out := m.View()
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Groceries")
	assert.False(t, m.query.IsFetching())
}

func TestCreate_InvalidatesAndRefetches(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)

	m = press(t, m, "n")
	require.NotNil(t, m.form)
	assert.True(t, m.list.Locked())
	m.View() // focus the title field

	m = press(t, m, "Retro")
	m = press(t, m, "enter")

	require.Len(t, h.svc.creates, 1)
	assert.Equal(t, notehub.CreateParams{Title: "Retro", Tag: notehub.TagTodo}, h.svc.creates[0])

	assert.False(t, m.host.IsOpen())
	assert.Nil(t, m.form)
	assert.False(t, m.list.Locked())
	assert.Equal(t, toastCreated, m.toast.message)

	calls := h.svc.listCalls()
	require.Len(t, calls, 2, "a fresh list call follows the create")
	assert.Equal(t, calls[0], calls[1])
	assert.Contains(t, m.View(), "Retro")
}

func TestCreate_TypingRightAfterOpen(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "n")
	m.View()
	for _, r := range "Standup" {
		m = press(t, m, string(r))
		m.View()
	}
	assert.Equal(t, "Standup", m.form.Values().Title)
}

func TestCreate_TypingBeforeFirstFrame(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "n")
	m = press(t, m, "R")
	m = press(t, m, "etro")
	m = press(t, m, "enter")

	require.Len(t, h.svc.creates, 1)
	assert.Equal(t, "Retro", h.svc.creates[0].Title)
}

func TestCreate_InvalidInputSendsNothing(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "n")
	m.View()
	m = press(t, m, "ab")
	m = press(t, m, "enter")

	assert.Empty(t, h.svc.creates)
	require.NotNil(t, m.form)
	assert.Contains(t, m.View(), "Title must be at least 3 characters")
}

func TestCreate_FailureKeepsFormOpen(t *testing.T) {
	h := newHarness()
	h.svc.createErr = &notehub.ServiceError{Op: "create note", Status: 500, Message: "boom"}
	m := h.start(t)

	m = press(t, m, "n")
	m.View()
	m = press(t, m, "Retro")
	m = press(t, m, "enter")

	require.Len(t, h.svc.creates, 1)
	require.NotNil(t, m.form)
	assert.True(t, m.host.IsOpen())
	assert.True(t, m.form.Failed())
	assert.Equal(t, "Retro", m.form.Values().Title)
	assert.Equal(t, toastCreateFailed, m.toast.message)
	assert.True(t, m.toast.isError)
	assert.Len(t, h.svc.listCalls(), 1)
}

func TestCancel_MakesNoNetworkCall(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)

	m = press(t, m, "n")
	m.View()
	m = press(t, m, "Half typed")
	m = press(t, m, "esc")

	assert.False(t, m.host.IsOpen())
	assert.Nil(t, m.form)
	assert.False(t, m.list.Locked())
	assert.Empty(t, h.svc.creates)
	assert.Len(t, h.svc.listCalls(), 1)

	// A new form starts empty.
	m = press(t, m, "n")
	assert.Empty(t, m.form.Values().Title)
}

func TestSubmitting_IgnoresEscape(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "n")
	m.View()
	m = press(t, m, "Retro")

	// Submit without running the create command.
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.True(t, m.form.Submitting())

	m = update(t, m, key("esc"))
	assert.True(t, m.host.IsOpen(), "escape must not cancel a submission in flight")

	m = run(t, m, cmd)
	assert.False(t, m.host.IsOpen())
	assert.Len(t, h.svc.creates, 1)
}

func TestDelete_InvalidatesAndRefetches(t *testing.T) {
	h := newHarness(note("1", "Standup"), note("2", "Groceries"))
	m := h.start(t)

	m = press(t, m, "j")
	m = press(t, m, "d")

	assert.Equal(t, []string{"2"}, h.svc.deletes)
	assert.Equal(t, toastDeleted, m.toast.message)
	require.Len(t, h.svc.listCalls(), 2, "a fresh list call follows the delete")
	assert.NotContains(t, m.View(), "Groceries")
	assert.Empty(t, m.deleting)
}

func TestDelete_MarkClearsWhenRefetchStillListsNote(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.svc.keepDeleted = true
	m := h.start(t)

	m = press(t, m, "d")

	require.Len(t, h.svc.listCalls(), 2)
	assert.False(t, m.list.IsDeleting("1"))
	assert.Empty(t, m.removed)
	assert.Contains(t, m.View(), "Standup")
}

func TestDelete_MarkClearsWhenRefetchFails(t *testing.T) {
	h := newHarness(note("1", "Standup"), note("2", "Groceries"))
	m := h.start(t)
	h.svc.listErr = &notehub.NetworkError{Op: "list notes", Err: errors.New("offline")}

	m = press(t, m, "d")

	require.Len(t, h.svc.listCalls(), 2)
	assert.False(t, m.list.IsDeleting("1"))
	assert.Empty(t, m.removed)
}

func TestDelete_Failure(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.svc.deleteErr = &notehub.NetworkError{Op: "delete note", Err: errors.New("offline")}
	m := h.start(t)

	m = press(t, m, "d")

	assert.Equal(t, toastDeleteFailed, m.toast.message)
	assert.True(t, m.toast.isError)
	assert.Len(t, h.svc.listCalls(), 1)
	assert.Contains(t, m.View(), "Standup")
}

func TestDelete_NotRepeatedWhilePending(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)

	next, first := m.Update(key("d"))
	m = next.(Model)
	next, second := m.Update(key("d"))
	m = next.(Model)

	m = run(t, m, tea.Batch(first, second))
	assert.Equal(t, []string{"1"}, h.svc.deletes)
}

func TestSearch_Debounced(t *testing.T) {
	h := newHarness(note("1", "Standup"), note("2", "Groceries"))
	m := h.start(t)

	m = press(t, m, "/")
	require.True(t, m.searchFocused)

	next, c1 := m.Update(key("g"))
	m = next.(Model)
	next, c2 := m.Update(key("r"))
	m = next.(Model)
	assert.Len(t, h.svc.listCalls(), 1, "no fetch before the debounce settles")

	m = run(t, m, tea.Batch(c1, c2))

	calls := h.svc.listCalls()
	require.Len(t, calls, 2, "only the settled text is fetched")
	assert.Equal(t, "gr", calls[1].Search)
	assert.Equal(t, 1, calls[1].Page)

	out := m.View()
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Standup")
}

func TestSearch_EnterCommitsImmediately(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)

	m = press(t, m, "/")
	next, _ := m.Update(key("s"))
	m = next.(Model)
	m = press(t, m, "enter")

	assert.False(t, m.searchFocused)
	calls := h.svc.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "s", calls[1].Search)
}

func TestStaleListResponseDiscarded(t *testing.T) {
	h := newHarness(note("1", "Standup"), note("2", "Groceries"))
	m := h.start(t)

	m.search.Input("s")
	m.search.Flush()
	older := m.switchQuery()

	m.search.Input("g")
	m.search.Flush()
	newer := m.switchQuery()

	newerMsgs := collect(newer)
	olderMsgs := collect(older)
	for _, msg := range append(newerMsgs, olderMsgs...) {
		if _, ok := msg.(listResultMsg); ok {
			m = update(t, m, msg)
		}
	}

	out := m.View()
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Standup", "the older response must not replace the newer one")
}

func TestPagination(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.svc.totalPages = 3
	h.options.Config.Cache.StaleTime = time.Minute
	m := h.start(t)

	m = press(t, m, "]")
	calls := h.svc.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[1].Page)

	// Past the last page nothing is fetched.
	m = press(t, m, "]")
	m = press(t, m, "]")
	assert.Len(t, h.svc.listCalls(), 3)
	assert.Equal(t, 3, m.search.Page())

	// Going back to a cached page is served from the cache.
	m = press(t, m, "0")
	assert.Equal(t, 1, m.search.Page())
	assert.Len(t, h.svc.listCalls(), 3)
}

func TestQuit_ClosesModal(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "n")
	require.True(t, m.list.Locked())

	next, cmd := m.Update(key("ctrl+c"))
	m = next.(Model)
	assert.False(t, m.host.IsOpen())
	assert.False(t, m.list.Locked())
	assert.Error(t, m.ctx.Err())

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}

func TestHelpModal(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = press(t, m, "?")
	require.NotNil(t, m.help)
	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "new note")

	m = press(t, m, "?")
	assert.Nil(t, m.help)
	assert.False(t, m.list.Locked())
}

// watchConfig feeds the model a change channel and a reload that returns
// whatever next holds.
func (h *harness) watchConfig(t *testing.T, next func() (*config.Config, error)) chan struct{} {
	t.Helper()
	ch := make(chan struct{}, 1)
	t.Cleanup(func() { close(ch) })
	t.Cleanup(func() { styles.ApplyTheme("default") })
	h.options.ConfigChanges = ch
	h.options.ReloadConfig = next
	return ch
}

func TestConfigReload_AppliesThemeAndKeymap(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.watchConfig(t, func() (*config.Config, error) {
		cfg := testConfig()
		cfg.UI.Theme.Name = "dracula"
		cfg.Keymap.Overrides = map[string]string{"x": keymap.CmdDeleteNote}
		return cfg, nil
	})
	m := h.start(t)

	next, cmd := m.Update(configChangedMsg{})
	m = run(t, next.(Model), cmd)

	assert.Equal(t, "dracula", styles.GetCurrentThemeName())
	assert.Equal(t, toastReloaded, m.toast.message)

	m = press(t, m, "x")
	assert.Equal(t, []string{"1"}, h.svc.deletes)
}

func TestConfigReload_FailureKeepsSettings(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.watchConfig(t, func() (*config.Config, error) {
		return nil, errors.New("bad json")
	})
	m := h.start(t)

	next, cmd := m.Update(configChangedMsg{})
	m = run(t, next.(Model), cmd)

	assert.Equal(t, toastReloadFailed, m.toast.message)
	assert.True(t, m.toast.isError)
	assert.Equal(t, "default", styles.GetCurrentThemeName())

	m = press(t, m, "x")
	assert.Empty(t, h.svc.deletes)
}

func TestConfigReload_UnchangedIsQuiet(t *testing.T) {
	h := newHarness()
	h.watchConfig(t, func() (*config.Config, error) {
		cfg := testConfig()
		cfg.UI.ShowPreview = true
		return cfg, nil
	})
	m := h.start(t)

	next, cmd := m.Update(configChangedMsg{})
	m = run(t, next.(Model), cmd)

	assert.Empty(t, m.toast.message)
}

func TestWaitForConfigChange(t *testing.T) {
	h := newHarness()
	ch := h.watchConfig(t, func() (*config.Config, error) { return testConfig(), nil })
	m := New(h.options)

	ch <- struct{}{}
	msg, ok := execCmd(m.waitForConfigChange())
	require.True(t, ok)
	assert.IsType(t, configChangedMsg{}, msg)

	assert.Nil(t, New(newHarness().options).waitForConfigChange(), "nothing to wait on without a watcher")
}

func TestYank(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)

	m = press(t, m, "y")
	assert.Equal(t, []string{"Standup body"}, h.copied)
	assert.Equal(t, toastCopied, m.toast.message)
}

func TestTogglePreview(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	m := h.start(t)
	require.True(t, m.list.PreviewEnabled())

	m = press(t, m, "p")
	assert.False(t, m.list.PreviewEnabled())
	assert.Equal(t, []bool{false}, h.saved)
}

func TestToastExpiry(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = update(t, m, appmsg.ToastMsg{Message: "first"})
	firstID := m.toast.id
	m = update(t, m, appmsg.ToastMsg{Message: "second"})

	m = update(t, m, appmsg.ToastExpiredMsg{ID: firstID})
	assert.Equal(t, "second", m.toast.message, "an older expiry leaves the newer toast")

	m = update(t, m, appmsg.ToastExpiredMsg{ID: m.toast.id})
	assert.Empty(t, m.toast.message)
}

func TestKeymapOverride(t *testing.T) {
	h := newHarness(note("1", "Standup"))
	h.options.Config.Keymap.Overrides["x"] = "delete-note"
	m := h.start(t)

	m = press(t, m, "x")
	assert.Equal(t, []string{"1"}, h.svc.deletes)
}
