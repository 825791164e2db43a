// Package keymap maps key presses to command IDs per UI context.
package keymap

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds bindings and user overrides.
type Registry struct {
	bindings  []Binding
	overrides map[string]string // key -> command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[string]string)}
}

// RegisterBinding adds a binding. A later binding for the same key and
// context replaces the earlier one.
func (r *Registry) RegisterBinding(b Binding) {
	for i, existing := range r.bindings {
		if existing.Key == b.Key && existing.Context == b.Context {
			r.bindings[i] = b
			return
		}
	}
	r.bindings = append(r.bindings, b)
}

// SetUserOverride binds key to command in every context where command is
// available. An empty command unbinds the key.
func (r *Registry) SetUserOverride(key, command string) {
	r.overrides[key] = command
}

// Lookup returns the command bound to msg in context, falling back to the
// global context. User overrides win over defaults.
func (r *Registry) Lookup(msg tea.KeyMsg, context string) (string, bool) {
	key := msg.String()

	if cmd, ok := r.overrides[key]; ok {
		if cmd == "" {
			return "", false
		}
		if r.available(cmd, context) {
			return cmd, true
		}
	}

	for _, ctx := range []string{context, ContextGlobal} {
		for _, b := range r.bindings {
			if b.Key == key && b.Context == ctx {
				return b.Command, true
			}
		}
	}
	return "", false
}

func (r *Registry) available(command, context string) bool {
	for _, b := range r.bindings {
		if b.Command == command && (b.Context == context || b.Context == ContextGlobal) {
			return true
		}
	}
	return false
}

// BindingsForContext returns the bindings active in context, including
// overrides, sorted by command then key.
func (r *Registry) BindingsForContext(context string) []Binding {
	var out []Binding
	for _, b := range r.bindings {
		if b.Context != context {
			continue
		}
		if cmd, ok := r.overrides[b.Key]; ok && cmd != b.Command {
			continue
		}
		out = append(out, b)
	}
	for key, cmd := range r.overrides {
		if cmd != "" && r.available(cmd, context) && !hasBinding(out, key) {
			out = append(out, Binding{Key: key, Command: cmd, Context: context})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Command != out[j].Command {
			return out[i].Command < out[j].Command
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// KeysFor returns the keys that trigger command in context.
func (r *Registry) KeysFor(command, context string) []string {
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

func hasBinding(bs []Binding, key string) bool {
	for _, b := range bs {
		if b.Key == key {
			return true
		}
	}
	return false
}
