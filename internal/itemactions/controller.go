package itemactions

import (
	"slices"

	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// Visibility decides whether action applies to item. It must depend on its
// arguments only: results are cached per item key and action ID until the
// item is invalidated.
type Visibility func(action Action, item *model.Item, editing bool) bool

// Set is what one row offers
type Set struct {
	// All are the actions the row was evaluated against
	All []Action
	// Toolbar are the buttons shown on the row, the menu button last
	Toolbar []Shown
	// Overflow holds the toolbar actions moved to the menu for lack of room
	Overflow []string
}

// HasMenu reports whether the toolbar ends with the menu button
func (s *Set) HasMenu() bool {
	return len(s.Toolbar) > 0 && s.Toolbar[len(s.Toolbar)-1].IsMenu
}

// Option configures a Controller
type Option func(*Controller)

// WithVisibility sets the visibility callback. Without one every action is
// visible.
func WithVisibility(fn Visibility) Option {
	return func(c *Controller) { c.visible = fn }
}

// WithCapacity limits the number of toolbar buttons, the menu button
// included. Zero means unlimited.
func WithCapacity(n int) Option {
	return func(c *Controller) { c.capacity = max(n, 0) }
}

// WithMenuHeader makes the menu button show even when the menu would hold
// nothing but its header
func WithMenuHeader() Option {
	return func(c *Controller) { c.menuHeader = true }
}

// WithItemActions takes the actions of each item from fn instead of the
// common list
func WithItemActions(fn func(*model.Item) []Action) Option {
	return func(c *Controller) { c.itemActions = fn }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.log = logging.OrNop(l).WithComponent("itemactions") }
}

type cacheEntry struct {
	action  string
	editing bool
}

// Controller computes and caches the actions of rows
type Controller struct {
	common      []Action
	itemActions func(*model.Item) []Action
	visible     Visibility
	capacity    int
	menuHeader  bool
	log         *logging.Logger

	cache map[model.Key]map[cacheEntry]bool
	sets  map[model.Key]*Set

	active    model.Key
	hasActive bool
	editing   model.Key
	isEditing bool

	unsubscribe func()
}

// NewController creates a controller for the common actions
func NewController(actions []Action, opts ...Option) (*Controller, error) {
	if err := Validate(actions); err != nil {
		return nil, err
	}
	c := &Controller{
		common: slices.Clone(actions),
		log:    logging.Nop(),
		cache:  make(map[model.Key]map[cacheEntry]bool),
		sets:   make(map[model.Key]*Set),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Attach keeps the stored sets in line with p until Close
func (c *Controller) Attach(p *projection.Projection) {
	c.Close()
	c.unsubscribe = p.Subscribe(func(ch projection.Change) {
		switch ch.Action {
		case projection.ActionRemove:
			for _, item := range ch.Items {
				if key, ok := item.Key(); ok && p.ItemByKey(key) == nil {
					c.Invalidate(key)
				}
			}
		case projection.ActionAdd:
			c.Update(ch.Items)
		case projection.ActionReset:
			c.Reset()
		}
	})
}

// Close stops following the projection
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Reset forgets every stored set and cached visibility
func (c *Controller) Reset() {
	clear(c.cache)
	clear(c.sets)
}

// Invalidate forgets what was computed for keys
func (c *Controller) Invalidate(keys ...model.Key) {
	for _, key := range keys {
		delete(c.cache, key)
		delete(c.sets, key)
	}
}

// SetActive marks the row whose toolbar is open
func (c *Controller) SetActive(key model.Key) {
	c.active, c.hasActive = key, true
}

// ClearActive closes the open toolbar
func (c *Controller) ClearActive() {
	c.active, c.hasActive = "", false
}

// Active returns the row whose toolbar is open
func (c *Controller) Active() (model.Key, bool) {
	return c.active, c.hasActive
}

// SetEditing marks the row being edited. While a row is edited only its
// actions are updated.
func (c *Controller) SetEditing(key model.Key, editing bool) {
	if c.isEditing && c.editing != key {
		c.Invalidate(c.editing)
	}
	c.editing, c.isEditing = key, editing
	c.Invalidate(key)
}

// contentsOf returns the record a row stands for. Breadcrumb rows stand for
// the deepest item of their path.
func contentsOf(item *projection.Item) *model.Item {
	if item == nil {
		return nil
	}
	switch item.Kind() {
	case projection.KindData:
		return item.Contents()
	case projection.KindBreadcrumbs:
		if path := item.Path(); len(path) > 0 {
			return path[len(path)-1].Contents()
		}
	}
	return nil
}

func (c *Controller) isVisible(a Action, contents *model.Item, editing bool) bool {
	if c.visible == nil {
		return true
	}
	entries, ok := c.cache[contents.ID]
	if !ok {
		entries = make(map[cacheEntry]bool)
		c.cache[contents.ID] = entries
	}
	e := cacheEntry{action: a.ID, editing: editing}
	if v, ok := entries[e]; ok {
		return v
	}
	v := c.visible(a, contents, editing)
	entries[e] = v
	return v
}

func (c *Controller) actionsOf(contents *model.Item) []Action {
	if c.itemActions == nil {
		return c.common
	}
	actions := c.itemActions(contents)
	if err := Validate(actions); err != nil {
		c.log.Error("item has invalid actions", "key", string(contents.ID), "error", err)
		return nil
	}
	return actions
}

// For returns the set of item, computing it when it is not stored. Rows
// without a record get an empty set.
func (c *Controller) For(item *projection.Item) *Set {
	contents := contentsOf(item)
	if contents == nil {
		return &Set{}
	}
	if set, ok := c.sets[contents.ID]; ok {
		return set
	}
	set := c.compute(contents)
	c.sets[contents.ID] = set
	return set
}

// Update recomputes the sets of items and returns the keys whose toolbar
// changed. While a row is edited the other rows are left alone.
func (c *Controller) Update(items []*projection.Item) []model.Key {
	var changed []model.Key
	for _, item := range items {
		contents := contentsOf(item)
		if contents == nil {
			continue
		}
		if c.isEditing && contents.ID != c.editing {
			continue
		}
		set := c.compute(contents)
		old, ok := c.sets[contents.ID]
		c.sets[contents.ID] = set
		if !ok || !sameActions(old.Toolbar, set.Toolbar) {
			changed = append(changed, contents.ID)
		}
	}
	if len(changed) > 0 {
		c.log.Debug("item actions updated", "changed", len(changed))
	}
	return changed
}

func (c *Controller) compute(contents *model.Item) *Set {
	editing := c.isEditing && c.editing == contents.ID
	all := c.actionsOf(contents)

	var toolbar, menu []Action
	for _, a := range all {
		// children show up when their sub-menu opens
		if a.Parent != "" {
			continue
		}
		// two menu actions are enough to know the menu button is needed
		if a.ShowType == Menu && len(menu) > 1 {
			continue
		}
		if !c.isVisible(a, contents, editing) {
			continue
		}
		if a.inMenu() {
			menu = append(menu, a)
		}
		if a.onToolbar() {
			toolbar = append(toolbar, a)
		}
	}

	needMenu := false
	switch {
	case len(toolbar) > 0:
		needMenu = len(menu) > 1 || c.menuHeader ||
			(len(menu) == 1 && !slices.ContainsFunc(toolbar, func(a Action) bool { return a.ID == menu[0].ID }))
	case len(menu) > 1:
		needMenu = true
	default:
		// a lone menu action is shown directly
		toolbar = menu
		needMenu = c.menuHeader
	}

	toolbar, overflow := c.fit(toolbar, needMenu)
	set := &Set{All: all, Overflow: overflow}
	for _, a := range toolbar {
		set.Toolbar = append(set.Toolbar, shown(a))
	}
	if needMenu || len(overflow) > 0 {
		set.Toolbar = append(set.Toolbar, menuButton())
	}
	return set
}

// fit keeps the toolbar within capacity. Fixed actions always stay; other
// actions beyond the room left go to the menu.
func (c *Controller) fit(toolbar []Action, needMenu bool) ([]Action, []string) {
	if c.capacity == 0 {
		return toolbar, nil
	}
	slots := c.capacity
	if needMenu {
		slots--
	}
	if len(toolbar) <= slots {
		return toolbar, nil
	}
	if !needMenu {
		// overflowing adds the menu button
		slots--
	}
	fixed := 0
	for _, a := range toolbar {
		if a.ShowType == Fixed {
			fixed++
		}
	}
	room := max(slots-fixed, 0)
	var kept []Action
	var overflow []string
	for _, a := range toolbar {
		switch {
		case a.ShowType == Fixed:
			kept = append(kept, a)
		case room > 0:
			room--
			kept = append(kept, a)
		default:
			overflow = append(overflow, a.ID)
		}
	}
	return kept, overflow
}

// MenuActions returns the visible actions of the menu of item. An empty
// parent opens the main menu; otherwise the children of that sub-menu
// action are returned.
func (c *Controller) MenuActions(item *projection.Item, parent string) []Action {
	contents := contentsOf(item)
	if contents == nil {
		return nil
	}
	set := c.For(item)
	editing := c.isEditing && c.editing == contents.ID

	var out []Action
	for _, a := range set.All {
		if parent != "" {
			if a.Parent != parent {
				continue
			}
		} else if a.Parent != "" || (!a.inMenu() && !slices.Contains(set.Overflow, a.ID)) {
			continue
		}
		if c.isVisible(a, contents, editing) {
			out = append(out, a)
		}
	}
	return out
}
