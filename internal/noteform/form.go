// Package noteform is the create-note form and its validation state machine.
package noteform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/styles"
)

// FailureMessage is shown when the service rejects or never receives a
// valid submission.
const FailureMessage = "Error occurred while creating note"

const (
	titleFieldID   = "note-title"
	contentFieldID = "note-content"
	tagListID      = "note-tag"
	submitID       = "note-submit"
	cancelID       = "note-cancel"

	contentHeight = 5
	modalWidth    = 60
)

// State is the form lifecycle.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateCancelled
)

func (s State) String() string {
	return [...]string{"editing", "validating", "submitting", "success", "cancelled"}[s]
}

// Values is what the user entered.
type Values struct {
	Title   string
	Content string
	Tag     notehub.Tag
}

// Params converts v into a create request.
func (v Values) Params() notehub.CreateParams {
	return notehub.CreateParams{Title: v.Title, Content: v.Content, Tag: v.Tag}
}

// FieldErrors maps a field key (notehub.FieldTitle etc.) to its message.
type FieldErrors map[string]string

// Validate applies the field rules to v. It returns nil when v is valid.
func Validate(v Values) FieldErrors {
	if errs := v.Params().Validate(); errs != nil {
		return FieldErrors(errs)
	}
	return nil
}

// ActionKind says what the app should do after a form interaction.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSubmit
	ActionCancel
)

// Action is the outcome of HandleAction. Values is set for ActionSubmit.
type Action struct {
	Kind   ActionKind
	Values Values
}

// Form holds one create-note attempt. Build a new Form for every open.
type Form struct {
	state  State
	errors FieldErrors
	failed bool

	title   textinput.Model
	content textarea.Model
	tagIdx  int

	modal *modal.Modal
}

// New returns an empty form in the editing state with tag Todo selected.
func New() *Form {
	ti := textinput.New()
	ti.Placeholder = "Buy milk"
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "Details (optional)"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	// Over-long content is reported by validation rather than silently cut.
	ta.CharLimit = 0

	f := &Form{title: ti, content: ta}
	f.buildModal()
	return f
}

func (f *Form) buildModal() {
	items := make([]modal.ListItem, len(notehub.Tags))
	for i, t := range notehub.Tags {
		items[i] = modal.ListItem{ID: fmt.Sprintf("%s-%d", tagListID, i), Label: string(t)}
	}

	f.modal = modal.New("Create note",
		modal.WithWidth(modalWidth),
		modal.WithPrimaryAction(submitID),
	).
		AddSection(modal.InputWithLabel(titleFieldID, "Title", &f.title, modal.WithSubmitOnEnter(false))).
		AddSection(f.fieldErrorSection(notehub.FieldTitle)).
		AddSection(modal.Spacer()).
		AddSection(f.contentLabelSection()).
		AddSection(modal.Textarea(contentFieldID, &f.content, contentHeight)).
		AddSection(f.fieldErrorSection(notehub.FieldContent)).
		AddSection(modal.Spacer()).
		AddSection(modal.Text("Tag")).
		AddSection(modal.List(tagListID, items, &f.tagIdx, modal.WithMaxVisible(len(items)))).
		AddSection(f.fieldErrorSection(notehub.FieldTag)).
		AddSection(modal.Spacer()).
		AddSection(modal.When(f.Failed, modal.Text(styles.ErrorText.Render("⚠ "+FailureMessage)))).
		AddSection(modal.When(f.Submitting, modal.Text(styles.Muted.Render("Creating note…")))).
		AddSection(modal.Buttons(
			modal.Btn(" Cancel ", cancelID),
			modal.Btn(" Create note ", submitID),
		))
}

func (f *Form) contentLabelSection() modal.Section {
	return modal.Custom(func(contentWidth int, _, _ string) modal.RenderedSection {
		n := utf8.RuneCountInString(f.content.Value())
		counter := fmt.Sprintf("%d/%d", n, notehub.ContentMaxLen)
		style := styles.Muted
		if n > notehub.ContentMaxLen {
			style = styles.ErrorText
		}
		gap := max(1, contentWidth-lipgloss.Width("Content")-lipgloss.Width(counter))
		return modal.RenderedSection{Content: "Content" + strings.Repeat(" ", gap) + style.Render(counter)}
	}, nil)
}

func (f *Form) fieldErrorSection(field string) modal.Section {
	return modal.Custom(func(int, string, string) modal.RenderedSection {
		msg, ok := f.errors[field]
		if !ok {
			return modal.RenderedSection{}
		}
		return modal.RenderedSection{Content: styles.ErrorText.Render("  " + msg)}
	}, nil)
}

// Modal returns the modal that renders this form.
func (f *Form) Modal() *modal.Modal { return f.modal }

// State returns the current lifecycle state.
func (f *Form) State() State { return f.state }

// Submitting reports whether a create request is outstanding.
func (f *Form) Submitting() bool { return f.state == StateSubmitting }

// Failed reports whether the last submission failed at the service.
func (f *Form) Failed() bool { return f.failed }

// Errors returns the field errors from the last submit attempt.
func (f *Form) Errors() FieldErrors { return f.errors }

// Values returns the entered values.
func (f *Form) Values() Values {
	idx := min(max(0, f.tagIdx), len(notehub.Tags)-1)
	return Values{
		Title:   f.title.Value(),
		Content: f.content.Value(),
		Tag:     notehub.Tags[idx],
	}
}

// SetValues fills the fields, as when a create command is prefilled.
func (f *Form) SetValues(v Values) {
	f.title.SetValue(v.Title)
	f.content.SetValue(v.Content)
	f.tagIdx = 0
	for i, t := range notehub.Tags {
		if t == v.Tag {
			f.tagIdx = i
		}
	}
}

// Submit validates the values. Invalid values return the form to editing with
// field errors. Valid values move it to submitting and are returned with true.
func (f *Form) Submit() (Values, bool) {
	if f.state != StateEditing {
		return Values{}, false
	}
	f.state = StateValidating
	v := f.Values()

	if errs := Validate(v); errs != nil {
		f.errors = errs
		f.state = StateEditing
		f.focusFirstInvalid()
		return v, false
	}

	f.errors = nil
	f.failed = false
	f.state = StateSubmitting
	return v, true
}

func (f *Form) focusFirstInvalid() {
	switch {
	case f.errors[notehub.FieldTitle] != "":
		f.modal.SetFocus(titleFieldID)
	case f.errors[notehub.FieldContent] != "":
		f.modal.SetFocus(contentFieldID)
	case f.errors[notehub.FieldTag] != "":
		f.modal.SetFocus(tagListID)
	}
}

// Succeed marks the submission as created.
func (f *Form) Succeed() {
	if f.state == StateSubmitting {
		f.state = StateSuccess
	}
}

// Fail returns a submitting form to editing with its values kept and the
// generic failure flag set.
func (f *Form) Fail() {
	if f.state == StateSubmitting {
		f.state = StateEditing
		f.failed = true
	}
}

// Cancel discards the entered values. It is ignored while a submission is
// outstanding or after the form has finished, and reports whether it applied.
func (f *Form) Cancel() bool {
	if f.state != StateEditing && f.state != StateValidating {
		return false
	}
	f.state = StateCancelled
	f.title.Reset()
	f.content.Reset()
	f.tagIdx = 0
	f.errors = nil
	f.failed = false
	return true
}

// Refresh drops errors for fields that now pass, so a corrected field stops
// showing its message before the next submit.
func (f *Form) Refresh() {
	if len(f.errors) == 0 {
		return
	}
	current := Validate(f.Values())
	for field := range f.errors {
		if _, still := current[field]; !still {
			delete(f.errors, field)
		}
	}
}

// HandleAction maps a modal action ID to a form transition.
func (f *Form) HandleAction(id string) Action {
	switch id {
	case submitID:
		if v, ok := f.Submit(); ok {
			return Action{Kind: ActionSubmit, Values: v}
		}
	case cancelID, modal.ActionCancel:
		if f.Cancel() {
			return Action{Kind: ActionCancel}
		}
	}
	return Action{Kind: ActionNone}
}
