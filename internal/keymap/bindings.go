package keymap

// Contexts.
const (
	ContextGlobal = "global"
	ContextList   = "note-list"
	ContextSearch = "search"
	ContextModal  = "modal"
)

// Commands.
const (
	CmdQuit          = "quit"
	CmdHelp          = "toggle-help"
	CmdRefresh       = "refresh"
	CmdNewNote       = "new-note"
	CmdFocusSearch   = "focus-search"
	CmdBlurSearch    = "blur-search"
	CmdSubmitSearch  = "submit-search"
	CmdClearSearch   = "clear-search"
	CmdCursorDown    = "cursor-down"
	CmdCursorUp      = "cursor-up"
	CmdCursorTop     = "cursor-top"
	CmdCursorBottom  = "cursor-bottom"
	CmdDeleteNote    = "delete-note"
	CmdPrevPage      = "prev-page"
	CmdNextPage      = "next-page"
	CmdFirstPage     = "first-page"
	CmdYankNote      = "yank-note"
	CmdTogglePreview = "toggle-preview"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},
		{Key: "q", Command: CmdQuit, Context: ContextList},
		{Key: "?", Command: CmdHelp, Context: ContextList},
		{Key: "r", Command: CmdRefresh, Context: ContextList},
		{Key: "ctrl+r", Command: CmdRefresh, Context: ContextGlobal},

		// Note list
		{Key: "n", Command: CmdNewNote, Context: ContextList},
		{Key: "/", Command: CmdFocusSearch, Context: ContextList},
		{Key: "j", Command: CmdCursorDown, Context: ContextList},
		{Key: "down", Command: CmdCursorDown, Context: ContextList},
		{Key: "k", Command: CmdCursorUp, Context: ContextList},
		{Key: "up", Command: CmdCursorUp, Context: ContextList},
		{Key: "g", Command: CmdCursorTop, Context: ContextList},
		{Key: "home", Command: CmdCursorTop, Context: ContextList},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList},
		{Key: "end", Command: CmdCursorBottom, Context: ContextList},
		{Key: "d", Command: CmdDeleteNote, Context: ContextList},
		{Key: "delete", Command: CmdDeleteNote, Context: ContextList},
		{Key: "[", Command: CmdPrevPage, Context: ContextList},
		{Key: "h", Command: CmdPrevPage, Context: ContextList},
		{Key: "left", Command: CmdPrevPage, Context: ContextList},
		{Key: "]", Command: CmdNextPage, Context: ContextList},
		{Key: "l", Command: CmdNextPage, Context: ContextList},
		{Key: "right", Command: CmdNextPage, Context: ContextList},
		{Key: "0", Command: CmdFirstPage, Context: ContextList},
		{Key: "y", Command: CmdYankNote, Context: ContextList},
		{Key: "p", Command: CmdTogglePreview, Context: ContextList},

		// Search box
		{Key: "esc", Command: CmdBlurSearch, Context: ContextSearch},
		{Key: "tab", Command: CmdBlurSearch, Context: ContextSearch},
		{Key: "enter", Command: CmdSubmitSearch, Context: ContextSearch},
		{Key: "ctrl+u", Command: CmdClearSearch, Context: ContextSearch},
	}
}

// RegisterDefaults adds DefaultBindings to r.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
