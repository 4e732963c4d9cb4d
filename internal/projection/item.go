package projection

import (
	"strings"

	"github.com/pstuifzand/listview/internal/model"
)

// Kind distinguishes source-backed rows from synthesized decoration rows
type Kind uint8

const (
	KindData Kind = iota
	KindGroup
	KindBreadcrumbs
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindGroup:
		return "group"
	case KindBreadcrumbs:
		return "breadcrumbs"
	case KindSeparator:
		return "separator"
	}
	return "unknown"
}

// CheckState is the visual selection state of a row
type CheckState int8

const (
	Unchecked CheckState = iota
	Checked
	Partial
)

// Item is a row of a projection. Data rows wrap exactly one source item and
// keep their identity for as long as that item stays in the source.
type Item struct {
	kind     Kind
	contents *model.Item
	source   int
	parent   *Item
	expanded bool

	group string
	path  []*Item

	check   CheckState
	dragged bool
}

func newItem(contents *model.Item, source int) *Item {
	return &Item{kind: KindData, contents: contents, source: source}
}

// Kind returns the row kind
func (i *Item) Kind() Kind { return i.kind }

// Contents returns the wrapped source item, nil for decoration rows
func (i *Item) Contents() *model.Item { return i.contents }

// Key returns the source key. Decoration rows have none.
func (i *Item) Key() (model.Key, bool) {
	if i.kind != KindData {
		return "", false
	}
	return i.contents.ID, true
}

// SourceIndex is the current index of the wrapped item in the source, or -1
func (i *Item) SourceIndex() int {
	if i.kind != KindData {
		return -1
	}
	return i.source
}

// IsNode reports whether the row can have children
func (i *Item) IsNode() bool {
	return i.kind == KindData && i.contents.Node
}

// IsExpanded reports the expanded flag of a node or group row
func (i *Item) IsExpanded() bool { return i.expanded }

// Parent returns the parent row in a hierarchical projection, nil at root level
func (i *Item) Parent() *Item { return i.parent }

// Level is the nesting depth, 0 for root-level rows
func (i *Item) Level() int {
	level := 0
	for p := i.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// Group returns the group name of a group header row
func (i *Item) Group() string { return i.group }

// Path returns the ancestor chain a breadcrumbs row stands for
func (i *Item) Path() []*Item { return i.path }

// Selectable reports whether the row takes part in selection
func (i *Item) Selectable() bool { return i.kind == KindData }

// ReadOnly reports a read-only checkbox
func (i *Item) ReadOnly() bool {
	return i.kind == KindData && i.contents.ReadOnly
}

// Draggable reports whether the row can be dragged or used as a drop target
func (i *Item) Draggable() bool {
	return i.kind == KindData && !i.contents.Locked
}

// CheckState returns the selection mark set by a selection controller
func (i *Item) CheckState() CheckState { return i.check }

// SetCheckState stores the selection mark
func (i *Item) SetCheckState(s CheckState) { i.check = s }

// IsDragged reports whether the row is part of an active drag
func (i *Item) IsDragged() bool { return i.dragged }

// SetDragged marks the row as being dragged
func (i *Item) SetDragged(v bool) { i.dragged = v }

// Text returns the display text of the row
func (i *Item) Text() string {
	switch i.kind {
	case KindData:
		return i.contents.Text
	case KindGroup:
		return i.group
	case KindBreadcrumbs:
		names := make([]string, len(i.path))
		for n, p := range i.path {
			names[n] = p.contents.Text
		}
		return strings.Join(names, " / ")
	}
	return ""
}

func (i *Item) String() string {
	if k, ok := i.Key(); ok {
		return string(k)
	}
	return i.kind.String() + ":" + i.Text()
}

func (i *Item) isAncestorOf(other *Item) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == i {
			return true
		}
	}
	return false
}
