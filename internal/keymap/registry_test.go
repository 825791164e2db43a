package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func TestLookupContext(t *testing.T) {
	r := newDefaultRegistry()

	tests := []struct {
		key     string
		context string
		want    string
		ok      bool
	}{
		{"j", ContextList, CmdCursorDown, true},
		{"down", ContextList, CmdCursorDown, true},
		{"d", ContextList, CmdDeleteNote, true},
		{"n", ContextList, CmdNewNote, true},
		{"esc", ContextSearch, CmdBlurSearch, true},
		{"enter", ContextSearch, CmdSubmitSearch, true},
		// Typing in the search box is not a command.
		{"d", ContextSearch, "", false},
		{"q", ContextSearch, "", false},
		// Global fallback.
		{"ctrl+c", ContextSearch, CmdQuit, true},
		{"ctrl+c", ContextList, CmdQuit, true},
	}
	for _, tt := range tests {
		got, ok := r.Lookup(key(tt.key), tt.context)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q, %q) = %q, %v; want %q, %v", tt.key, tt.context, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUserOverride(t *testing.T) {
	r := newDefaultRegistry()
	r.SetUserOverride("x", CmdDeleteNote)
	r.SetUserOverride("d", "")

	if got, ok := r.Lookup(key("x"), ContextList); !ok || got != CmdDeleteNote {
		t.Errorf("expected override x -> %s, got %q %v", CmdDeleteNote, got, ok)
	}
	if _, ok := r.Lookup(key("d"), ContextList); ok {
		t.Error("expected d to be unbound by override")
	}
	// Override does not leak into a context where the command is unavailable.
	if _, ok := r.Lookup(key("x"), ContextSearch); ok {
		t.Error("override should not apply in search context")
	}
}

func TestRegisterBindingReplaces(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "a", Command: "one", Context: ContextList})
	r.RegisterBinding(Binding{Key: "a", Command: "two", Context: ContextList})

	if got, _ := r.Lookup(key("a"), ContextList); got != "two" {
		t.Errorf("expected replaced binding, got %q", got)
	}
	if n := len(r.BindingsForContext(ContextList)); n != 1 {
		t.Errorf("expected 1 binding, got %d", n)
	}
}

func TestKeysFor(t *testing.T) {
	r := newDefaultRegistry()
	keys := r.KeysFor(CmdNextPage, ContextList)
	want := []string{"]", "l", "right"}
	if len(keys) != len(want) {
		t.Fatalf("KeysFor = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("KeysFor[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	r.SetUserOverride("N", CmdNextPage)
	if keys := r.KeysFor(CmdNextPage, ContextList); len(keys) != 4 {
		t.Errorf("expected override key listed, got %v", keys)
	}
}
