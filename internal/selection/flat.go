package selection

import (
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// Flat selects rows of a flat list
type Flat struct {
	model Model
}

// NewFlat creates a flat strategy reading from m
func NewFlat(m Model) *Flat {
	return &Flat{model: m}
}

// Select and Unselect record key whatever the state of its row.
func (f *Flat) Select(s Selection, key model.Key) Selection {
	if s.IsAll() {
		s.Excluded = s.Excluded.without(key)
	} else {
		s.Selected = s.Selected.with(key)
	}
	return s
}

func (f *Flat) Unselect(s Selection, key model.Key) Selection {
	if s.IsAll() {
		s.Excluded = s.Excluded.with(key)
	} else {
		s.Selected = s.Selected.without(key)
	}
	return s
}

// SelectAll sets the all marker. A limited select-all keeps the exclusions.
func (f *Flat) SelectAll(s Selection, limit int) Selection {
	out := Selection{Kind: KindAllExcept}
	if limit > 0 {
		out.Excluded = s.Excluded
	}
	return out
}

func (f *Flat) UnselectAll(Selection) Selection {
	return Selection{}
}

// ToggleAll inverts the selection: an all-selection becomes its exclusions,
// an explicit selection becomes everything but its keys.
func (f *Flat) ToggleAll(s Selection, _ bool) Selection {
	var out Selection
	if s.IsAll() {
		out = f.UnselectAll(s)
		for _, key := range s.Excluded {
			out = f.Select(out, key)
		}
		return out
	}
	out = f.SelectAll(s, 0)
	for _, key := range s.Selected {
		out = f.Unselect(out, key)
	}
	return out
}

// SelectRange selects exactly the selectable rows of items
func (f *Flat) SelectRange(items []*projection.Item) Selection {
	var out Selection
	for _, item := range items {
		if key, ok := keyOf(item); ok && !item.ReadOnly() {
			out = f.Select(out, key)
		}
	}
	return out
}

func (f *Flat) isSelected(s Selection, key model.Key) bool {
	if s.IsAll() {
		return !s.Excluded.Has(key)
	}
	return s.Selected.Has(key)
}

// SelectionForModel classifies items, or every row when items is nil.
// Read-only rows are checked only when their key was selected explicitly.
// With a limit, the all marker reaches only the first limit rows.
func (f *Flat) SelectionForModel(s Selection, limit int, items []*projection.Item) Classified {
	if items == nil {
		items = f.model.Items()
	}
	var out Classified
	packed := 0
	for _, item := range items {
		key, ok := keyOf(item)
		if !ok {
			continue
		}
		if item.ReadOnly() {
			if s.Selected.Has(key) {
				out.add(item, projection.Checked)
			} else {
				out.add(item, projection.Partial)
			}
			continue
		}
		selected := f.isSelected(s, key)
		if selected && limit > 0 && s.IsAll() {
			packed++
			selected = packed <= limit
		}
		if selected {
			out.add(item, projection.Checked)
		} else {
			out.add(item, projection.Unchecked)
		}
	}
	return out
}

// Count returns the number of selected items. An all-selection with more
// data to load and no limit has no known count.
func (f *Flat) Count(s Selection, hasMoreData bool, limit int) (int, bool) {
	if !s.IsAll() {
		return len(s.Selected), true
	}
	n := 0
	for _, item := range f.model.Items() {
		key, ok := keyOf(item)
		if ok && !item.ReadOnly() && !s.Excluded.Has(key) {
			n++
		}
	}
	if limit > 0 {
		if hasMoreData {
			return limit, true
		}
		return min(n, limit), true
	}
	if hasMoreData {
		return 0, false
	}
	return n, true
}

// IsAllSelected is never true while more data can be loaded
func (f *Flat) IsAllSelected(s Selection, hasMoreData bool, itemsCount, limit int) bool {
	if hasMoreData {
		return false
	}
	if limit > 0 {
		return s.IsAll() && limit >= itemsCount
	}
	if s.IsAll() && len(s.Excluded) == 0 {
		return true
	}
	n, ok := f.Count(s, hasMoreData, limit)
	return ok && itemsCount > 0 && n == itemsCount
}
