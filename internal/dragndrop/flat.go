package dragndrop

import (
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// Flat positions drops in a flat list. Moving the pointer down drops after
// the hovered row, moving it up drops before it.
type Flat struct {
	model     Model
	draggable *projection.Item
}

// NewFlat creates a strategy for draggable, the row the drag started on.
// draggable is nil for rows dragged in from elsewhere.
func NewFlat(m Model, draggable *projection.Item) *Flat {
	return &Flat{model: m, draggable: draggable}
}

func (f *Flat) isTarget(item *projection.Item) bool {
	return item != nil && item.Draggable() && item != f.draggable && !item.IsDragged()
}

func (f *Flat) startPosition() (Position, bool) {
	if f.draggable == nil {
		return Position{}, false
	}
	idx := f.model.IndexOf(f.draggable)
	if idx < 0 {
		return Position{}, false
	}
	return Position{Index: idx, Placement: Before, Item: f.draggable}, true
}

func (f *Flat) CalculatePosition(params Params) (Position, bool) {
	target := params.Target
	if !f.isTarget(target) {
		return Position{}, false
	}
	idx := f.model.IndexOf(target)
	if idx < 0 {
		return Position{}, false
	}

	prev, ok := f.startPosition()
	if params.Current != nil {
		prev, ok = *params.Current, true
	}
	placement := Before
	switch {
	case !ok:
	case prev.Index < idx:
		placement = After
	case prev.Index > idx:
		placement = Before
	default:
		placement = prev.Placement
	}
	return Position{Index: idx, Placement: placement, Item: target}, true
}

// DraggableKeys returns the selected keys that are loaded
func (f *Flat) DraggableKeys(selected []model.Key) []model.Key {
	var out []model.Key
	for _, key := range selected {
		if f.model.ItemByKey(key) != nil {
			out = append(out, key)
		}
	}
	return out
}
