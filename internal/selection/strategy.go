package selection

import (
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// State is the check mark a classified row gets
type State = projection.CheckState

// Model is what a flat strategy reads from the projection
type Model interface {
	Items() []*projection.Item
	ItemByKey(key model.Key) *projection.Item
}

var _ Model = (*projection.Projection)(nil)

// Classified splits rows by their check state. Indeterminate holds partly
// selected nodes and read-only rows the selection does not reach.
type Classified struct {
	Selected      []*projection.Item
	Unselected    []*projection.Item
	Indeterminate []*projection.Item
}

func (c *Classified) add(item *projection.Item, state State) {
	switch state {
	case projection.Checked:
		c.Selected = append(c.Selected, item)
	case projection.Partial:
		c.Indeterminate = append(c.Indeterminate, item)
	default:
		c.Unselected = append(c.Unselected, item)
	}
}

// StateOf returns the state item was classified with
func (c Classified) StateOf(item *projection.Item) State {
	for _, it := range c.Selected {
		if it == item {
			return projection.Checked
		}
	}
	for _, it := range c.Indeterminate {
		if it == item {
			return projection.Partial
		}
	}
	return projection.Unchecked
}

// Strategy computes new selections. Every method is a pure function of its
// arguments and the current projection; none of them modify the projection.
//
// A limit of zero means no limit. Count returns false when the number of
// selected items cannot be known without loading more data.
type Strategy interface {
	Select(s Selection, key model.Key) Selection
	Unselect(s Selection, key model.Key) Selection
	SelectAll(s Selection, limit int) Selection
	UnselectAll(s Selection) Selection
	ToggleAll(s Selection, hasMoreData bool) Selection
	SelectRange(items []*projection.Item) Selection
	SelectionForModel(s Selection, limit int, items []*projection.Item) Classified
	Count(s Selection, hasMoreData bool, limit int) (int, bool)
	IsAllSelected(s Selection, hasMoreData bool, itemsCount, limit int) bool
}

func keyOf(item *projection.Item) (model.Key, bool) {
	if item == nil || !item.Selectable() {
		return "", false
	}
	return item.Key()
}

// toggled swaps the meaning of both key lists. Every item changes state.
func toggled(s Selection) Selection {
	kind := KindAllExcept
	if s.IsAll() {
		kind = KindExplicit
	}
	return Selection{Kind: kind, Selected: s.Excluded, Excluded: s.Selected}
}
