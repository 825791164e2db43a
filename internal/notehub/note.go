// Package notehub is the HTTP client for the NoteHub notes service.
package notehub

import (
	"fmt"
	"unicode/utf8"
)

// Tag categorises a note. The service accepts only the values below.
type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

// Tags lists every tag in display order.
var Tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

// Valid reports whether t is one of Tags.
func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

// ParseTag returns the tag named s.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tag %q", s)
	}
	return t, nil
}

// SortBy orders list results.
type SortBy string

const (
	SortCreated SortBy = "created"
	SortUpdated SortBy = "updated"
)

// ParseSortBy returns the ordering named s. Empty means the service default.
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(s); v {
	case "", SortCreated, SortUpdated:
		return v, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Note is a note as stored by the service. Timestamps are passed through untouched.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tag       Tag    `json:"tag"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Page is one page of list results.
type Page struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}

// Field limits shared by the gateway and the create form.
const (
	TitleMinLen   = 3
	TitleMaxLen   = 50
	ContentMaxLen = 500
)

// Field keys used in ValidationError.Fields.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTag     = "tag"
)

// CreateParams is the body of a create request.
type CreateParams struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     Tag    `json:"tag"`
}

// Validate checks the field rules and returns one message per failing field,
// or nil. Lengths are counted in characters, not bytes.
func (p CreateParams) Validate() map[string]string {
	errs := make(map[string]string)

	switch n := utf8.RuneCountInString(p.Title); {
	case n == 0:
		errs[FieldTitle] = "Title is required"
	case n < TitleMinLen:
		errs[FieldTitle] = fmt.Sprintf("Title must be at least %d characters", TitleMinLen)
	case n > TitleMaxLen:
		errs[FieldTitle] = fmt.Sprintf("Title must be less or equal to %d characters", TitleMaxLen)
	}

	if utf8.RuneCountInString(p.Content) > ContentMaxLen {
		errs[FieldContent] = fmt.Sprintf("Content must be less or equal to %d characters", ContentMaxLen)
	}

	if !p.Tag.Valid() {
		errs[FieldTag] = "Tag must be one of: Todo, Work, Personal, Meeting, Shopping"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
