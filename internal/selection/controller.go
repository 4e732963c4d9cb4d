package selection

import (
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) ControllerOption {
	return func(c *Controller) { c.log = logging.OrNop(l).WithComponent("selection") }
}

// WithLimit bounds select-all to the first limit rows
func WithLimit(limit int) ControllerOption {
	return func(c *Controller) { c.limit = limit }
}

// OnChange registers a callback for every new selection
func OnChange(fn func(Selection)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the current selection of a projection and keeps the
// check marks of its rows up to date
type Controller struct {
	p           *projection.Projection
	strategy    Strategy
	log         *logging.Logger
	limit       int
	hasMoreData bool
	onChange    func(Selection)

	sel         Selection
	unsubscribe func()
}

// NewController creates a controller and marks the rows of p
func NewController(p *projection.Projection, strategy Strategy, opts ...ControllerOption) *Controller {
	c := &Controller{p: p, strategy: strategy, log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.unsubscribe = p.Subscribe(func(projection.Change) { c.apply() })
	c.apply()
	return c
}

// Close stops following the projection
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Selection returns the current selection
func (c *Controller) Selection() Selection { return c.sel }

// Strategy returns the strategy in use
func (c *Controller) Strategy() Strategy { return c.strategy }

// SetSelection replaces the selection, for example one restored from storage
func (c *Controller) SetSelection(s Selection) {
	c.set("set", s.Normalize())
}

// SetHasMoreData records whether the source can load more rows
func (c *Controller) SetHasMoreData(more bool) {
	c.hasMoreData = more
}

// SetLimit changes the select-all limit
func (c *Controller) SetLimit(limit int) {
	c.limit = limit
	c.apply()
}

func (c *Controller) Select(key model.Key) {
	c.set("select", c.strategy.Select(c.sel, key))
}

func (c *Controller) Unselect(key model.Key) {
	c.set("unselect", c.strategy.Unselect(c.sel, key))
}

// Toggle flips the row with key. A loaded read-only row can only be
// unchecked.
func (c *Controller) Toggle(key model.Key) {
	item := c.p.ItemByKey(key)
	if item != nil && item.CheckState() == projection.Checked {
		c.Unselect(key)
		return
	}
	if item != nil && (!item.Selectable() || item.ReadOnly()) {
		return
	}
	c.Select(key)
}

func (c *Controller) SelectAll() {
	c.set("select-all", c.strategy.SelectAll(c.sel, c.limit))
}

func (c *Controller) UnselectAll() {
	c.set("unselect-all", c.strategy.UnselectAll(c.sel))
}

func (c *Controller) ToggleAll() {
	c.set("toggle-all", c.strategy.ToggleAll(c.sel, c.hasMoreData))
}

// SelectRange selects the rows between from and to, both included, in
// display order
func (c *Controller) SelectRange(from, to *projection.Item) {
	i, j := c.p.IndexOf(from), c.p.IndexOf(to)
	if i < 0 || j < 0 {
		return
	}
	if i > j {
		i, j = j, i
	}
	rows, err := c.p.Window(i, j+1)
	if err != nil {
		c.log.LogRejected("select-range", err)
		return
	}
	c.set("select-range", c.strategy.SelectRange(rows))
}

// Count returns the number of selected items, false when it is unknown
func (c *Controller) Count() (int, bool) {
	return c.strategy.Count(c.sel, c.hasMoreData, c.limit)
}

// IsAllSelected reports whether every selectable row is selected
func (c *Controller) IsAllSelected() bool {
	n := 0
	for _, item := range c.p.Items() {
		if item.Selectable() && !item.ReadOnly() {
			n++
		}
	}
	return c.strategy.IsAllSelected(c.sel, c.hasMoreData, n, c.limit)
}

// SelectedKeys returns the keys of rows marked as selected, in display order
func (c *Controller) SelectedKeys() []model.Key {
	var out []model.Key
	for _, item := range c.strategy.SelectionForModel(c.sel, c.limit, nil).Selected {
		key, _ := item.Key()
		out = append(out, key)
	}
	return out
}

func (c *Controller) set(op string, s Selection) {
	if s.Equal(c.sel) {
		return
	}
	c.sel = s
	c.log.LogSelection(op, len(s.Selected), len(s.Excluded), s.IsAll())
	c.apply()
	if c.onChange != nil {
		c.onChange(s)
	}
}

func (c *Controller) apply() {
	classified := c.strategy.SelectionForModel(c.sel, c.limit, nil)
	for _, item := range classified.Selected {
		item.SetCheckState(projection.Checked)
	}
	for _, item := range classified.Unselected {
		item.SetCheckState(projection.Unchecked)
	}
	for _, item := range classified.Indeterminate {
		item.SetCheckState(projection.Partial)
	}
}
