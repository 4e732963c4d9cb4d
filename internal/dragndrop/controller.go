package dragndrop

import (
	"cmp"
	"slices"

	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
	"github.com/pstuifzand/listview/internal/selection"
)

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) ControllerOption {
	return func(c *Controller) { c.log = logging.OrNop(l).WithComponent("dragndrop") }
}

// Controller tracks one drag over a projection: which rows are dragged and
// where they would be dropped
type Controller struct {
	p         *projection.Projection
	strategy  Strategy
	draggable *projection.Item
	log       *logging.Logger

	keys     []model.Key
	position *Position
	dragging bool
}

// NewController prepares a drag of draggable, nil when the rows come from
// another list
func NewController(p *projection.Projection, draggable *projection.Item, strategy Strategy, opts ...ControllerOption) *Controller {
	c := &Controller{p: p, strategy: strategy, draggable: draggable, log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartDrag marks the rows of keys and everything that moves with them
func (c *Controller) StartDrag(keys []model.Key) {
	c.keys = c.strategy.DraggableKeys(keys)
	c.dragging = true
	for _, key := range c.keys {
		if item := c.p.ItemByKey(key); item != nil {
			item.SetDragged(true)
		}
	}
	c.log.Debug("drag started", "keys", len(c.keys))
}

// IsDragging reports whether StartDrag was called and EndDrag was not
func (c *Controller) IsDragging() bool { return c.dragging }

// DraggableItem returns the row the drag started on
func (c *Controller) DraggableItem() *projection.Item { return c.draggable }

// DraggedKeys returns the keys marked by StartDrag
func (c *Controller) DraggedKeys() []model.Key { return c.keys }

// SetDragPosition stores the shown position and reports whether it changed
func (c *Controller) SetDragPosition(pos Position) bool {
	if c.position != nil && *c.position == pos {
		return false
	}
	c.position = &pos
	return true
}

// DragPosition returns the shown position
func (c *Controller) DragPosition() (Position, bool) {
	if c.position == nil {
		return Position{}, false
	}
	return *c.position, true
}

// CalculateDragPosition computes the position for a pointer over target.
// The second result is false when target is not a drop target.
func (c *Controller) CalculateDragPosition(target *projection.Item, offset *Offset) (Position, bool, error) {
	if !c.dragging {
		return Position{}, false, ErrNotDragging
	}
	pos, ok := c.strategy.CalculatePosition(Params{Target: target, Offset: offset, Current: c.position})
	return pos, ok, nil
}

// EndDrag clears the dragged marks and returns the last shown position
func (c *Controller) EndDrag() (Position, bool) {
	pos, ok := c.DragPosition()
	for _, key := range c.keys {
		if item := c.p.ItemByKey(key); item != nil {
			item.SetDragged(false)
		}
	}
	c.keys, c.position, c.dragging, c.draggable = nil, nil, false, nil
	c.log.Debug("drag ended", "dropped", ok)
	return pos, ok
}

// SelectionForDragNDrop returns the selection a drag of dragKey moves. The
// dragged key is always part of it and selected keys follow display order.
func SelectionForDragNDrop(m Model, s selection.Selection, dragKey model.Key) selection.Selection {
	out := selection.Selection{
		Kind:     s.Kind,
		Selected: slices.Clone(s.Selected),
		Excluded: slices.DeleteFunc(slices.Clone(s.Excluded), func(k model.Key) bool { return k == dragKey }),
	}
	if !s.IsAll() && !out.Selected.Has(dragKey) {
		out.Selected = append(out.Selected, dragKey)
	}
	slices.SortStableFunc(out.Selected, func(a, b model.Key) int {
		return cmp.Compare(m.IndexByKey(a), m.IndexByKey(b))
	})
	if len(out.Excluded) == 0 {
		out.Excluded = nil
	}
	if len(out.Selected) == 0 {
		out.Selected = nil
	}
	return out
}
