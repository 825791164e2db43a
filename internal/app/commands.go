package app

import (
	tea "github.com/charmbracelet/bubbletea"
	appmsg "github.com/marcus/notehub/internal/msg"
	"github.com/marcus/notehub/internal/noteform"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/querycache"
)

// Message types for tea.Cmd
type (
	// listResultMsg carries the outcome of one list fetch.
	listResultMsg struct {
		ticket querycache.Ticket
		page   notehub.Page
		err    error
	}

	// createResultMsg carries the outcome of a create submitted from form.
	createResultMsg struct {
		form *noteform.Form
		note notehub.Note
		err  error
	}

	// deleteResultMsg carries the outcome of a delete.
	deleteResultMsg struct {
		id  string
		err error
	}

	// previewSavedMsg reports a failed save of the preview toggle.
	previewSavedMsg struct {
		err error
	}

	// configChangedMsg reports an edit to the config file.
	configChangedMsg struct{}
)

// fetchCmd loads the page for t through the cache.
func (m Model) fetchCmd(t querycache.Ticket) tea.Cmd {
	cache, ctx := m.cache, m.ctx
	return func() tea.Msg {
		page, err := cache.Fetch(ctx, t.Key)
		return listResultMsg{ticket: t, page: page, err: err}
	}
}

func (m Model) createCmd(f *noteform.Form, p notehub.CreateParams) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		note, err := svc.Create(ctx, p)
		return createResultMsg{form: f, note: note, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		_, err := svc.Delete(ctx, id)
		return deleteResultMsg{id: id, err: err}
	}
}

// yankCmd copies content and reports the result as a toast.
func (m Model) yankCmd(content string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(content); err != nil {
			return appmsg.ToastMsg{Message: "Copy failed: " + err.Error(), IsError: true}
		}
		return appmsg.ToastMsg{Message: toastCopied}
	}
}

func (m Model) savePreviewCmd(show bool) tea.Cmd {
	save := m.savePreview
	return func() tea.Msg {
		return previewSavedMsg{err: save(show)}
	}
}

// waitForConfigChange blocks until the config file changes. It returns nil
// when nothing is being watched.
func (m Model) waitForConfigChange() tea.Cmd {
	ch := m.configChanges
	if ch == nil || m.reloadConfig == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}
