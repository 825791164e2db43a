package notehub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateParamsValidate(t *testing.T) {
	cases := []struct {
		name  string
		p     CreateParams
		field string
		want  string
	}{
		{"empty title", CreateParams{Tag: TagTodo}, FieldTitle, "Title is required"},
		{"short title", CreateParams{Title: "ab", Tag: TagTodo}, FieldTitle, "Title must be at least 3 characters"},
		{"long title", CreateParams{Title: strings.Repeat("t", 51), Tag: TagTodo}, FieldTitle, "Title must be less or equal to 50 characters"},
		{"long content", CreateParams{Title: "abc", Content: strings.Repeat("c", 501), Tag: TagTodo}, FieldContent, "Content must be less or equal to 500 characters"},
		{"bad tag", CreateParams{Title: "abc", Tag: "Errand"}, FieldTag, "Tag must be one of: Todo, Work, Personal, Meeting, Shopping"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.p.Validate()
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}

func TestCreateParamsValidate_Boundaries(t *testing.T) {
	ok := []CreateParams{
		{Title: "abc", Tag: TagTodo},
		{Title: strings.Repeat("t", 50), Tag: TagWork},
		{Title: "abc", Content: strings.Repeat("c", 500), Tag: TagMeeting},
		// Multibyte runes count as one character each.
		{Title: "ééé", Content: strings.Repeat("ж", 500), Tag: TagPersonal},
	}
	for _, p := range ok {
		assert.Nil(t, p.Validate(), "title=%q", p.Title)
	}
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("Shopping")
	assert.NoError(t, err)
	assert.Equal(t, TagShopping, tag)

	_, err = ParseTag("shopping")
	assert.Error(t, err)
}

func TestParseSortBy(t *testing.T) {
	for _, s := range []string{"", "created", "updated"} {
		got, err := ParseSortBy(s)
		assert.NoError(t, err)
		assert.Equal(t, SortBy(s), got)
	}

	_, err := ParseSortBy("title")
	assert.Error(t, err)
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "Title is required", "content": "too long"}}
	assert.Equal(t, "validation failed: content: too long; title: Title is required", err.Error())
}
