package dragndrop

import (
	"fmt"
	"slices"

	"github.com/pstuifzand/listview/internal/model"
)

// Drop moves the items of keys in list to pos. Items keep their relative
// source order. With reparent set, moved items whose parent is not moved
// along get the parent of pos; flat lists leave parents alone.
func Drop(list *model.List, keys []model.Key, pos Position, reparent bool) error {
	if pos.Item == nil {
		return fmt.Errorf("drop: %w", ErrNotDragging)
	}
	target, ok := pos.Item.Key()
	if !ok {
		return fmt.Errorf("drop on %s: not a data row", pos.Item)
	}

	moving := make(map[model.Key]bool, len(keys))
	for _, key := range keys {
		moving[key] = true
	}
	if moving[target] {
		return nil
	}

	var indices []int
	for key := range moving {
		if idx := list.IndexOf(key); idx >= 0 {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		return nil
	}
	slices.Sort(indices)

	items := make([]*model.Item, len(indices))
	for i, idx := range indices {
		items[i] = list.At(idx)
	}

	var parent model.Key
	if p := pos.Parent(); p != nil {
		parent, _ = p.Key()
	}
	if reparent {
		for _, item := range items {
			if !moving[item.ParentID] {
				item.ParentID = parent
			}
		}
	}

	for i := len(indices) - 1; i >= 0; i-- {
		if err := list.RemoveAt(indices[i], 1); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
	}

	at := list.IndexOf(target)
	switch pos.Placement {
	case After:
		at++
	case On:
		// Last among the children of the target
		at = list.Count()
	}
	if err := list.Insert(at, items...); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	return nil
}
