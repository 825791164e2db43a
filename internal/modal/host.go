package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/ui"
)

// ScrollLocker is the background view that must not scroll while a modal is open.
type ScrollLocker interface {
	LockScroll()
	UnlockScroll()
}

// Host shows at most one modal above the rest of the screen. Opening a modal
// locks background scrolling; Close releases it. Every way a modal goes away
// (Esc, backdrop click, explicit Close, replacement by another Open, app
// shutdown) runs through Close, so the lock and onClose never leak.
type Host struct {
	locker  ScrollLocker
	handler *mouse.Handler

	current *Modal
	onClose func()
}

// NewHost creates a host. locker may be nil.
func NewHost(locker ScrollLocker) *Host {
	return &Host{locker: locker, handler: mouse.NewHandler()}
}

// Open shows m. onClose runs once when the modal is closed by any path.
// A modal that is already open is closed first.
func (h *Host) Open(m *Modal, onClose func()) {
	if h.current != nil {
		h.Close()
	}
	h.current = m
	h.onClose = onClose
	if h.locker != nil {
		h.locker.LockScroll()
	}
}

// Close hides the current modal, restores scrolling and runs onClose.
// Calling Close with nothing open is a no-op.
func (h *Host) Close() {
	if h.current == nil {
		return
	}
	onClose := h.onClose
	h.current = nil
	h.onClose = nil
	h.handler.Clear()
	if h.locker != nil {
		h.locker.UnlockScroll()
	}
	if onClose != nil {
		onClose()
	}
}

// IsOpen reports whether a modal is showing.
func (h *Host) IsOpen() bool { return h.current != nil }

// Current returns the open modal or nil.
func (h *Host) Current() *Modal { return h.current }

// HandleKey routes a key to the open modal. A cancel action closes the host
// before it is returned.
func (h *Host) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	if h.current == nil {
		return "", nil
	}
	action, cmd := h.current.HandleKey(msg)
	if action == ActionCancel {
		h.Close()
	}
	return action, cmd
}

// HandleMouse routes a mouse event to the open modal. Backdrop clicks close
// the host unless the modal disabled them.
func (h *Host) HandleMouse(msg tea.MouseMsg) string {
	if h.current == nil {
		return ""
	}
	action := h.current.HandleMouse(msg, h.handler)
	if action == ActionCancel {
		h.Close()
	}
	return action
}

// View renders the open modal composited over background. With no modal
// open the background is returned unchanged.
func (h *Host) View(background string, width, height int) string {
	if h.current == nil {
		return background
	}
	box := h.current.Render(width, height, h.handler)
	return ui.OverlayModal(background, box, width, height)
}
