package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by List mutations addressing a missing slot
var ErrIndexOutOfRange = errors.New("model: index out of range")

// Action describes the kind of a source mutation
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionMove
	ActionChange
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionChange:
		return "change"
	case ActionReset:
		return "reset"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Event is emitted by a Source after every mutation.
//
// For ActionMove, OldIndex is the first moved slot before the move and Index
// the first slot after it. For ActionChange, Fields names the edited fields
// (empty means "unknown, recheck everything").
type Event struct {
	Action   Action
	Index    int
	OldIndex int
	Items    []*Item
	OldItems []*Item
	Fields   []string
}

// Listener receives source events synchronously
type Listener func(Event)

// Source is an observable ordered collection of items
type Source interface {
	Count() int
	At(index int) *Item
	Subscribe(fn Listener) (unsubscribe func())
}

// List is the in-memory Source implementation
type List struct {
	items     []*Item
	listeners map[int]Listener
	nextID    int
}

// NewList creates a list holding items
func NewList(items ...*Item) *List {
	return &List{
		items:     append([]*Item(nil), items...),
		listeners: make(map[int]Listener),
	}
}

// Count returns the number of items
func (l *List) Count() int {
	return len(l.items)
}

// At returns the item at index, or nil outside the list
func (l *List) At(index int) *Item {
	if index < 0 || index >= len(l.items) {
		return nil
	}
	return l.items[index]
}

// Items returns a copy of the underlying slice
func (l *List) Items() []*Item {
	return append([]*Item(nil), l.items...)
}

// IndexOf returns the index of the item with key, or -1
func (l *List) IndexOf(key Key) int {
	for i, item := range l.items {
		if item.ID == key {
			return i
		}
	}
	return -1
}

// Subscribe registers fn for change events
func (l *List) Subscribe(fn Listener) func() {
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() { delete(l.listeners, id) }
}

func (l *List) emit(ev Event) {
	// Stable delivery order keeps tests deterministic.
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.listeners[id]; ok {
			fn(ev)
		}
	}
}

// Append adds items to the end of the list
func (l *List) Append(items ...*Item) {
	_ = l.Insert(len(l.items), items...)
}

// Insert adds items before index
func (l *List) Insert(index int, items ...*Item) error {
	if index < 0 || index > len(l.items) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	if len(items) == 0 {
		return nil
	}
	tail := append([]*Item(nil), l.items[index:]...)
	l.items = append(append(l.items[:index], items...), tail...)
	l.emit(Event{Action: ActionAdd, Index: index, Items: items})
	return nil
}

// RemoveAt removes count items starting at index
func (l *List) RemoveAt(index, count int) error {
	if index < 0 || count < 0 || index+count > len(l.items) {
		return fmt.Errorf("remove %d at %d of %d: %w", count, index, len(l.items), ErrIndexOutOfRange)
	}
	if count == 0 {
		return nil
	}
	removed := append([]*Item(nil), l.items[index:index+count]...)
	l.items = append(l.items[:index], l.items[index+count:]...)
	l.emit(Event{Action: ActionRemove, Index: index, OldIndex: index, OldItems: removed})
	return nil
}

// Remove deletes the item with key
func (l *List) Remove(key Key) error {
	idx := l.IndexOf(key)
	if idx < 0 {
		return fmt.Errorf("remove %q: %w", key, ErrIndexOutOfRange)
	}
	return l.RemoveAt(idx, 1)
}

// Replace swaps the item at index for item
func (l *List) Replace(index int, item *Item) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("replace at %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	old := l.items[index]
	l.items[index] = item
	l.emit(Event{Action: ActionReplace, Index: index, OldIndex: index, Items: []*Item{item}, OldItems: []*Item{old}})
	return nil
}

// Move relocates the item at from so that it ends up at index to
func (l *List) Move(from, to int) error {
	n := len(l.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d to %d of %d: %w", from, to, n, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}
	item := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items[:to], append([]*Item{item}, l.items[to:]...)...)
	l.emit(Event{Action: ActionMove, Index: to, OldIndex: from, Items: []*Item{item}})
	return nil
}

// Touch reports in-place edits of the item at index
func (l *List) Touch(index int, fields ...string) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("touch at %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	l.emit(Event{Action: ActionChange, Index: index, Items: []*Item{l.items[index]}, Fields: fields})
	return nil
}

// Assign replaces the whole content and emits a reset
func (l *List) Assign(items []*Item) {
	old := l.items
	l.items = append([]*Item(nil), items...)
	l.emit(Event{Action: ActionReset, Items: l.items, OldItems: old})
}
