package search

import (
	"testing"
	"time"

	"github.com/marcus/notehub/internal/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultDebounce, c.debounce)
	assert.Equal(t, querycache.Key{Search: "", Page: 1}, c.Key())
}

func TestInput_UpdatesRawImmediately(t *testing.T) {
	c := New(time.Millisecond)
	c.Input("me")
	assert.Equal(t, "me", c.Raw())
	assert.Equal(t, "", c.Committed())
	assert.True(t, c.Pending())
}

func TestDebounce_LastKeystrokeWins(t *testing.T) {
	c := New(time.Millisecond)

	var msgs []DebounceMsg
	for _, text := range []string{"m", "me", "mee", "meeting"} {
		cmd := c.Input(text)
		require.NotNil(t, cmd)
		msgs = append(msgs, cmd().(DebounceMsg))
	}

	commits := 0
	for _, m := range msgs {
		if c.HandleTick(m) {
			commits++
		}
	}
	assert.Equal(t, 1, commits)
	assert.Equal(t, "meeting", c.Committed())
	assert.False(t, c.Pending())
}

func TestDebounce_OutOfOrderTicks(t *testing.T) {
	c := New(time.Millisecond)
	first := c.Input("a")().(DebounceMsg)
	last := c.Input("ab")().(DebounceMsg)

	assert.True(t, c.HandleTick(last))
	assert.False(t, c.HandleTick(first), "older tick must not commit")
	assert.Equal(t, "ab", c.Committed())
}

func TestCommit_ResetsPage(t *testing.T) {
	c := New(time.Millisecond)
	assert.True(t, c.SetPage(4))

	msg := c.Input("work")().(DebounceMsg)
	require.True(t, c.HandleTick(msg))
	assert.Equal(t, querycache.Key{Search: "work", Page: 1}, c.Key())
}

func TestCommit_UnchangedTextKeepsPage(t *testing.T) {
	c := New(time.Millisecond)
	msg := c.Input("work")().(DebounceMsg)
	c.HandleTick(msg)
	c.SetPage(3)

	// Type and erase back to the same query.
	c.Input("works")
	msg = c.Input("work")().(DebounceMsg)
	assert.False(t, c.HandleTick(msg))
	assert.Equal(t, 3, c.Page())
}

func TestSetPage_KeepsCommittedQuery(t *testing.T) {
	c := New(time.Millisecond)
	c.HandleTick(c.Input("todo")().(DebounceMsg))

	assert.True(t, c.SetPage(2))
	assert.Equal(t, "todo", c.Committed())
	assert.False(t, c.SetPage(2))

	c.SetPage(-5)
	assert.Equal(t, 1, c.Page())
}

func TestSetPage_DoesNotCommitPendingText(t *testing.T) {
	c := New(time.Millisecond)
	c.Input("half typed")
	c.SetPage(2)
	assert.Equal(t, "", c.Committed())
	assert.Equal(t, 2, c.Page())
}

func TestFlush(t *testing.T) {
	c := New(time.Hour)
	c.SetPage(5)
	pending := DebounceMsg{ID: 1}
	c.Input("now")

	assert.True(t, c.Flush())
	assert.Equal(t, querycache.Key{Search: "now", Page: 1}, c.Key())
	assert.False(t, c.HandleTick(pending), "flush cancels the pending tick")
	assert.False(t, c.Flush())
}
