package dragndrop

import (
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// TreeOption configures a Tree strategy
type TreeOption func(*Tree)

// WithMaxOffset sets the edge share of a node row that drops beside the node
func WithMaxOffset(offset float64) TreeOption {
	return func(t *Tree) { t.maxOffset = offset }
}

// Tree positions drops in a hierarchy. Hovering the middle of a node drops
// into it; hovering its edges drops beside it.
type Tree struct {
	*Flat
	model     TreeModel
	maxOffset float64
}

// NewTree creates a strategy for draggable, nil when the rows come from
// elsewhere
func NewTree(m TreeModel, draggable *projection.Item, opts ...TreeOption) *Tree {
	t := &Tree{Flat: NewFlat(m, draggable), model: m, maxOffset: DefaultMaxOffset}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tree) CalculatePosition(params Params) (Position, bool) {
	target := params.Target
	if target == nil || !target.IsNode() || params.Offset == nil {
		return t.Flat.CalculatePosition(params)
	}
	if !t.isTarget(target) {
		return Position{}, false
	}

	placement := On
	if t.draggable != nil {
		switch {
		case params.Offset.Top <= t.maxOffset:
			placement = Before
		case params.Offset.Bottom <= t.maxOffset:
			placement = After
		}
	}

	// Below an expanded node its first child follows, so "after the node"
	// is shown as "before the first child".
	if placement == After && target.IsExpanded() {
		key, _ := target.Key()
		if children := t.model.Children(key); len(children) > 0 {
			first := children[0]
			if first == t.draggable {
				return t.startPosition()
			}
			return Position{Index: t.model.IndexOf(first), Placement: Before, Item: first}, true
		}
	}
	idx := t.model.IndexOf(target)
	if idx < 0 {
		return Position{}, false
	}
	return Position{Index: idx, Placement: placement, Item: target}, true
}

// DraggableKeys adds the loaded descendants of every dragged node
func (t *Tree) DraggableKeys(selected []model.Key) []model.Key {
	out := t.Flat.DraggableKeys(selected)
	seen := make(map[model.Key]bool, len(out))
	for _, key := range out {
		seen[key] = true
	}
	var walk func(key model.Key)
	walk = func(key model.Key) {
		for _, child := range t.model.Children(key) {
			ck, _ := child.Key()
			if !seen[ck] {
				seen[ck] = true
				out = append(out, ck)
			}
			if child.IsNode() {
				walk(ck)
			}
		}
	}
	for _, key := range append([]model.Key(nil), out...) {
		if t.model.ItemByKey(key).IsNode() {
			walk(key)
		}
	}
	return out
}
