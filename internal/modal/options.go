package modal

const (
	// DefaultWidth is the modal width when WithWidth is not given.
	DefaultWidth = 50
	// MinModalWidth is the narrowest a modal is drawn when the screen allows.
	MinModalWidth = 30
	// ModalPadding is border(2) + horizontal padding(4).
	ModalPadding = 6
)

// Variant selects the modal's accent color.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the preferred width. The modal is clamped to the screen.
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithVariant sets the accent variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints toggles the keyboard hint line.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned by Enter when the focused
// element does not produce one itself.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithCloseOnBackdropClick controls whether clicking outside the modal cancels it.
func WithCloseOnBackdropClick(enabled bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = enabled }
}

// WithCustomFooter renders a fixed footer below the scrollable body.
func WithCustomFooter(footer string) Option {
	return func(m *Modal) { m.customFooter = footer }
}
