// Package msg holds Bubble Tea messages shared across packages.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary message in the footer.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // red when true, green otherwise
}

// ToastExpiredMsg clears the toast with the given ID if it is still showing.
type ToastExpiredMsg struct {
	ID int
}

// ShowToast returns a command that shows a success toast.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration}
	}
}

// ShowErrorToast returns a command that shows an error toast.
func ShowErrorToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration, IsError: true}
	}
}

// ExpireToast fires a ToastExpiredMsg for id after d.
func ExpireToast(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}
