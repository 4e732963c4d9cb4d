package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(keys ...string) []*Item {
	out := make([]*Item, len(keys))
	for i, k := range keys {
		out[i] = &Item{ID: Key(k), Text: k}
	}
	return out
}

func keysOf(l *List) []Key {
	var out []Key
	for _, it := range l.Items() {
		out = append(out, it.ID)
	}
	return out
}

func TestListMutationsEmitEvents(t *testing.T) {
	l := NewList(items("a", "b", "c")...)
	var events []Event
	unsubscribe := l.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, l.Insert(1, items("x")...))
	require.NoError(t, l.RemoveAt(0, 1))
	require.NoError(t, l.Move(0, 2))
	require.NoError(t, l.Touch(1, "text"))

	assert.Equal(t, []Key{"b", "c", "x"}, keysOf(l))
	require.Len(t, events, 4)
	assert.Equal(t, ActionAdd, events[0].Action)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, ActionRemove, events[1].Action)
	assert.Equal(t, Key("a"), events[1].OldItems[0].ID)
	assert.Equal(t, ActionMove, events[2].Action)
	assert.Equal(t, 0, events[2].OldIndex)
	assert.Equal(t, 2, events[2].Index)
	assert.Equal(t, []string{"text"}, events[3].Fields)

	unsubscribe()
	l.Append(items("z")...)
	assert.Len(t, events, 4)
}

func TestListRejectsBadIndexes(t *testing.T) {
	l := NewList(items("a")...)
	tests := []struct {
		name string
		fn   func() error
	}{
		{"insert", func() error { return l.Insert(3) }},
		{"remove", func() error { return l.RemoveAt(0, 2) }},
		{"replace", func() error { return l.Replace(1, &Item{ID: "q"}) }},
		{"move", func() error { return l.Move(0, 1) }},
		{"touch", func() error { return l.Touch(-1) }},
		{"remove missing key", func() error { return l.Remove("nope") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		})
	}
}

func TestItemField(t *testing.T) {
	it := NewItem("hello")
	it.ParentID = "p"
	it.SetAttribute("status", "done")
	it.Metadata.Tags = []string{"Work", "home"}

	v, ok := it.Field("text")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	v, _ = it.Field("parent")
	assert.Equal(t, "p", v)
	v, ok = it.Field("status")
	assert.True(t, ok)
	assert.Equal(t, "done", v)
	_, ok = it.Field("missing")
	assert.False(t, ok)
	assert.True(t, it.HasTag("work"))
	assert.Equal(t, "42", string(IntKey(42)))
}
