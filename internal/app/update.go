package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/keymap"
	appmsg "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/noteform"
	"github.com/marcus/notehub/internal/notelist"
	"github.com/marcus/notehub/internal/search"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case search.DebounceMsg:
		if m.search.HandleTick(msg) {
			m.list.ResetCursor()
			return m, m.switchQuery()
		}
		return m, nil

	case listResultMsg:
		if !m.query.Resolve(msg.ticket, msg.page, msg.err) {
			m.logger.Debug("discarded superseded list result", "key", msg.ticket.Key.String())
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("list notes failed", "key", msg.ticket.Key.String(), "err", msg.err)
		}
		for id := range m.removed {
			m.list.MarkDeleting(id, false)
			delete(m.removed, id)
		}
		m.syncList()
		return m, nil

	case createResultMsg:
		if msg.err != nil {
			m.logger.Warn("create note failed", "err", msg.err)
			msg.form.Fail()
			return m, appmsg.ShowErrorToast(toastCreateFailed, m.cfg.UI.ToastDuration)
		}
		m.logger.Info("note created", "id", msg.note.ID)
		msg.form.Succeed()
		if m.form == msg.form {
			m.host.Close()
			m.syncModal()
		}
		return m, tea.Batch(appmsg.ShowToast(toastCreated, m.cfg.UI.ToastDuration), m.invalidate())

	case deleteResultMsg:
		delete(m.deleting, msg.id)
		if msg.err != nil {
			m.logger.Warn("delete note failed", "id", msg.id, "err", msg.err)
			m.list.MarkDeleting(msg.id, false)
			return m, appmsg.ShowErrorToast(toastDeleteFailed, m.cfg.UI.ToastDuration)
		}
		// The row stays marked until the refetch lands.
		m.removed[msg.id] = true
		m.logger.Info("note deleted", "id", msg.id)
		return m, tea.Batch(appmsg.ShowToast(toastDeleted, m.cfg.UI.ToastDuration), m.invalidate())

	case configChangedMsg:
		cfg, err := m.reloadConfig()
		if err != nil {
			m.logger.Warn("config reload failed", "err", err)
			return m, tea.Batch(appmsg.ShowErrorToast(toastReloadFailed, m.cfg.UI.ToastDuration), m.waitForConfigChange())
		}
		if !m.applyConfig(cfg) {
			return m, m.waitForConfigChange()
		}
		m.logger.Info("config reloaded", "theme", m.cfg.UI.Theme.Name)
		return m, tea.Batch(appmsg.ShowToast(toastReloaded, m.cfg.UI.ToastDuration), m.waitForConfigChange())

	case previewSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save preview setting failed", "err", msg.err)
		}
		return m, nil

	case appmsg.ToastMsg:
		m.toastID++
		m.toast = toast{id: m.toastID, message: msg.Message, isError: msg.IsError}
		d := msg.Duration
		if d <= 0 {
			d = m.cfg.UI.ToastDuration
		}
		return m, appmsg.ExpireToast(m.toastID, d)

	case appmsg.ToastExpiredMsg:
		if msg.ID == m.toast.id {
			m.toast = toast{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.syncList()
		return m, cmd
	}

	// Cursor blink and other messages for the search box.
	if m.searchFocused {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.host.IsOpen() {
		return m.handleModalKey(msg)
	}
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}
	cmdID, ok := m.keymap.Lookup(msg, keymap.ContextList)
	if !ok {
		return m, nil
	}
	return m.runCommand(cmdID)
}

// runCommand executes a note-list command.
func (m Model) runCommand(cmdID string) (tea.Model, tea.Cmd) {
	switch cmdID {
	case keymap.CmdQuit:
		return m, m.quit()

	case keymap.CmdHelp:
		m.openHelp()

	case keymap.CmdRefresh:
		return m, m.invalidate()

	case keymap.CmdNewNote:
		m.openForm()
		return m, nil

	case keymap.CmdFocusSearch:
		m.searchFocused = true
		return m, m.searchInput.Focus()

	case keymap.CmdCursorDown:
		m.list.MoveCursor(1)
	case keymap.CmdCursorUp:
		m.list.MoveCursor(-1)
	case keymap.CmdCursorTop:
		m.list.CursorTop()
	case keymap.CmdCursorBottom:
		m.list.CursorBottom()

	case keymap.CmdDeleteNote:
		if n, ok := m.list.Selected(); ok {
			return m, m.deleteNote(n.ID)
		}

	case keymap.CmdPrevPage:
		return m, m.gotoPage(m.search.Page() - 1)
	case keymap.CmdNextPage:
		return m, m.gotoPage(m.search.Page() + 1)
	case keymap.CmdFirstPage:
		return m, m.gotoPage(1)

	case keymap.CmdYankNote:
		if n, ok := m.list.Selected(); ok {
			return m, m.yankCmd(n.Content)
		}

	case keymap.CmdTogglePreview:
		show := !m.list.PreviewEnabled()
		m.list.SetPreview(show)
		m.cfg.UI.ShowPreview = show
		return m, m.savePreviewCmd(show)
	}
	return m, nil
}

// handleSearchKey processes keys while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmdID, ok := m.keymap.Lookup(msg, keymap.ContextSearch); ok {
		switch cmdID {
		case keymap.CmdQuit:
			return m, m.quit()
		case keymap.CmdRefresh:
			return m, m.invalidate()
		case keymap.CmdBlurSearch:
			m.blurSearch()
			return m, nil
		case keymap.CmdSubmitSearch:
			m.blurSearch()
			if m.search.Flush() {
				m.list.ResetCursor()
				return m, m.switchQuery()
			}
			return m, nil
		case keymap.CmdClearSearch:
			m.searchInput.SetValue("")
			return m, m.search.Input("")
		}
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != before {
		return m, tea.Batch(cmd, m.search.Input(v))
	}
	return m, cmd
}

func (m *Model) blurSearch() {
	m.searchFocused = false
	m.searchInput.Blur()
}

// handleModalKey routes keys to the open modal. While a note is being
// submitted the form ignores input; only quit gets through.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmdID, ok := m.keymap.Lookup(msg, keymap.ContextModal); ok && cmdID == keymap.CmdQuit {
		return m, m.quit()
	}
	if m.help != nil {
		if cmdID, ok := m.keymap.Lookup(msg, keymap.ContextList); ok && cmdID == keymap.CmdHelp {
			m.host.Close()
			m.syncModal()
			return m, nil
		}
	}
	if m.form != nil && m.form.Submitting() {
		return m, nil
	}

	action, cmd := m.host.HandleKey(msg)
	return m, tea.Batch(cmd, m.handleModalAction(action))
}

// handleModalAction applies an action reported by the open modal.
func (m *Model) handleModalAction(action string) tea.Cmd {
	defer m.syncModal()

	switch {
	case m.form != nil:
		m.form.Refresh()
		if action == "" {
			return nil
		}
		a := m.form.HandleAction(action)
		switch a.Kind {
		case noteform.ActionSubmit:
			return tea.Batch(m.createCmd(m.form, a.Values.Params()), m.startSpinner())
		case noteform.ActionCancel:
			m.host.Close()
		}

	case m.help != nil:
		if action == helpCloseID {
			m.host.Close()
		}
	}
	return nil
}

// handleMouseMsg routes mouse input to the modal when one is open, and to
// the list otherwise.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.host.IsOpen() {
		if m.form != nil && m.form.Submitting() {
			return m, nil
		}
		action := m.host.HandleMouse(msg)
		return m, m.handleModalAction(action)
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == headerHeight {
		m.searchFocused = true
		return m, m.searchInput.Focus()
	}

	a := m.list.HandleMouse(msg)
	switch a.Kind {
	case notelist.ActionDelete:
		return m, m.deleteNote(a.Note.ID)
	case notelist.ActionPage:
		return m, m.gotoPage(a.Page)
	}
	return m, nil
}

// gotoPage moves to page n if it exists.
func (m *Model) gotoPage(n int) tea.Cmd {
	if n < 1 || n > m.list.TotalPages() {
		return nil
	}
	if !m.search.SetPage(n) {
		return nil
	}
	m.list.ResetCursor()
	return m.switchQuery()
}

// deleteNote starts a delete unless one is already running for id. The row
// is not removed until the list is refetched.
func (m *Model) deleteNote(id string) tea.Cmd {
	if m.deleting[id] {
		return nil
	}
	m.deleting[id] = true
	m.list.MarkDeleting(id, true)
	return tea.Batch(m.deleteCmd(id), m.startSpinner())
}

// openForm shows a fresh create form.
func (m *Model) openForm() {
	f := noteform.New()
	m.form = f
	m.host.Open(f.Modal(), func() {
		// Closing by Esc or backdrop discards what was typed.
		f.Cancel()
	})
}
