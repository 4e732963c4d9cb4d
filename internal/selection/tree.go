package selection

import (
	"fmt"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// SelectionType restricts which rows a tree selection can take
type SelectionType uint8

const (
	SelectAny SelectionType = iota
	SelectNodes
	SelectLeaves
)

// CountMode restricts which rows Count counts
type CountMode uint8

const (
	CountAll CountMode = iota
	CountNodes
	CountLeaves
)

// TreeOptions configures a tree strategy
type TreeOptions struct {
	// SelectDescendants makes a node mark cover its whole branch
	SelectDescendants bool
	// SelectAncestors unselects a node once all its children are unselected
	// and shows nodes with mixed children as partly selected
	SelectAncestors bool
	Type            SelectionType
	// RecursiveSelection lets nodes be selected under SelectLeaves, as a way
	// of selecting their leaves
	RecursiveSelection bool
	CountMode          CountMode
}

// Validate rejects combinations where Count could never count anything
func (o TreeOptions) Validate() error {
	if o.CountMode == CountLeaves && o.Type == SelectNodes && !o.RecursiveSelection {
		return fmt.Errorf("%w: counting leaves needs recursive node selection", ErrInvalidOptions)
	}
	if o.CountMode == CountNodes && o.Type == SelectLeaves {
		return fmt.Errorf("%w: counting nodes while only leaves can be selected", ErrInvalidOptions)
	}
	return nil
}

// PathEntry links a key that is not loaded to its parent
type PathEntry struct {
	ID     model.Key `json:"id" msgpack:"id"`
	Parent model.Key `json:"parent" msgpack:"parent"`
}

// TreeModel adds hierarchy queries for the tree strategy
type TreeModel interface {
	Model
	Root() model.Key
	Loaded() []*projection.Item
	Children(key model.Key) []*projection.Item
	HasMore(key model.Key) bool
	Breadcrumbs() bool
}

var _ TreeModel = (*projection.Projection)(nil)

// Tree selects rows of a hierarchical projection. A mark on a key decides
// the state of that key; with SelectDescendants the nearest marked ancestor
// decides for unmarked keys, and the selection kind decides at the root.
type Tree struct {
	model     TreeModel
	opts      TreeOptions
	entryPath map[model.Key]model.Key
}

// NewTree creates a tree strategy
func NewTree(m TreeModel, opts TreeOptions) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Tree{model: m, opts: opts, entryPath: map[model.Key]model.Key{}}, nil
}

// Options returns the configuration
func (t *Tree) Options() TreeOptions { return t.opts }

// SetEntryPath supplies parents of keys whose rows are not loaded, such as
// the ancestors of a folder the view was opened in
func (t *Tree) SetEntryPath(path []PathEntry) {
	t.entryPath = make(map[model.Key]model.Key, len(path))
	for _, e := range path {
		t.entryPath[e.ID] = e.Parent
	}
}

func (t *Tree) parentKey(key model.Key) (model.Key, bool) {
	if key == t.model.Root() {
		return "", false
	}
	if item := t.model.ItemByKey(key); item != nil {
		if p := item.Parent(); p != nil {
			return p.Key()
		}
		return t.model.Root(), true
	}
	p, ok := t.entryPath[key]
	return p, ok
}

func (t *Tree) typeAllows(item *projection.Item) bool {
	switch t.opts.Type {
	case SelectNodes:
		return item.IsNode()
	case SelectLeaves:
		return !item.IsNode() || t.opts.RecursiveSelection
	}
	return true
}

func (t *Tree) canBeSelected(item *projection.Item) bool {
	return item.Selectable() && !item.ReadOnly() && t.typeAllows(item)
}

func (t *Tree) canBeCounted(item *projection.Item) bool {
	switch t.opts.CountMode {
	case CountNodes:
		return item.IsNode()
	case CountLeaves:
		return !item.IsNode()
	}
	return true
}

func marked(s Selection, key model.Key) (selected, ok bool) {
	if s.Excluded.Has(key) {
		return false, true
	}
	if s.Selected.Has(key) {
		return true, true
	}
	return false, false
}

func (t *Tree) isSelected(s Selection, key model.Key) bool {
	if v, ok := marked(s, key); ok {
		return v
	}
	if t.opts.SelectDescendants {
		root := t.model.Root()
		seen := map[model.Key]bool{key: true}
		for k := key; ; {
			p, ok := t.parentKey(k)
			if !ok || p == root || seen[p] {
				break
			}
			if v, ok := marked(s, p); ok {
				return v
			}
			seen[p] = true
			k = p
		}
	}
	return s.IsAll()
}

func (t *Tree) descendants(key model.Key) []model.Key {
	var out []model.Key
	var walk func(model.Key)
	walk = func(k model.Key) {
		for _, c := range t.model.Children(k) {
			ck, _ := c.Key()
			out = append(out, ck)
			if c.IsNode() {
				walk(ck)
			}
		}
	}
	walk(key)
	return out
}

func (t *Tree) clearBranch(s Selection, key model.Key) Selection {
	if !t.opts.SelectDescendants {
		return s
	}
	if item := t.model.ItemByKey(key); item == nil || !item.IsNode() {
		return s
	}
	keys := t.descendants(key)
	s.Selected = s.Selected.without(keys...)
	s.Excluded = s.Excluded.without(keys...)
	return s
}

func (t *Tree) Select(s Selection, key model.Key) Selection {
	if item := t.model.ItemByKey(key); item != nil && !t.canBeSelected(item) {
		return s
	}
	s.Excluded = s.Excluded.without(key)
	if !t.isSelected(s, key) {
		s.Selected = s.Selected.with(key)
	}
	return t.clearBranch(s, key)
}

func (t *Tree) unmark(s Selection, key model.Key) Selection {
	s.Selected = s.Selected.without(key)
	if t.isSelected(s, key) {
		s.Excluded = s.Excluded.with(key)
	}
	return s
}

func (t *Tree) Unselect(s Selection, key model.Key) Selection {
	item := t.model.ItemByKey(key)
	if item != nil && !t.canBeSelected(item) && !s.Selected.Has(key) {
		return s
	}
	s = t.clearBranch(t.unmark(s, key), key)

	if t.opts.SelectAncestors && item != nil {
		for p := item.Parent(); p != nil; p = p.Parent() {
			pk, _ := p.Key()
			if !t.isSelected(s, pk) || !t.allChildrenUnselected(s, pk) {
				break
			}
			s = t.unmark(s, pk)
		}
	}
	if t.model.Breadcrumbs() && s.IsAll() && t.allChildrenUnselected(s, t.model.Root()) {
		return Selection{}
	}
	if !s.IsAll() && len(s.Selected) == 0 {
		s.Excluded = nil
	}
	return s
}

func (t *Tree) allChildrenUnselected(s Selection, key model.Key) bool {
	children := t.model.Children(key)
	if len(children) == 0 || t.model.HasMore(key) {
		return false
	}
	c := t.newClassifier(s)
	for _, child := range children {
		if c.state(child) != projection.Unchecked {
			return false
		}
	}
	return true
}

// SelectAll sets the all marker. A limited select-all keeps existing marks.
func (t *Tree) SelectAll(s Selection, limit int) Selection {
	if limit > 0 {
		return Selection{Kind: KindAllExcept, Selected: s.Selected, Excluded: s.Excluded}
	}
	return Selection{Kind: KindAllExcept}
}

func (t *Tree) UnselectAll(Selection) Selection {
	return Selection{}
}

// ToggleAll inverts the state of every key by swapping the meaning of the
// marks, so applying it twice restores the selection.
func (t *Tree) ToggleAll(s Selection, _ bool) Selection {
	return toggled(s)
}

// SelectRange selects the leaves and collapsed nodes among items
func (t *Tree) SelectRange(items []*projection.Item) Selection {
	var out Selection
	for _, item := range items {
		key, ok := keyOf(item)
		if !ok || (item.IsNode() && item.IsExpanded()) {
			continue
		}
		out = t.Select(out, key)
	}
	return out
}

type classifier struct {
	t    *Tree
	s    Selection
	memo map[*projection.Item]State
}

func (t *Tree) newClassifier(s Selection) *classifier {
	return &classifier{t: t, s: s, memo: map[*projection.Item]State{}}
}

func checked(v bool) State {
	if v {
		return projection.Checked
	}
	return projection.Unchecked
}

func (c *classifier) state(item *projection.Item) State {
	if st, ok := c.memo[item]; ok {
		return st
	}
	st := c.compute(item)
	c.memo[item] = st
	return st
}

func (c *classifier) compute(item *projection.Item) State {
	t := c.t
	key, _ := item.Key()
	if item.ReadOnly() {
		if c.s.Selected.Has(key) {
			return projection.Checked
		}
		return projection.Partial
	}
	base := checked(t.isSelected(c.s, key) && t.typeAllows(item))
	if !item.IsNode() {
		return base
	}
	if !t.opts.SelectAncestors && !t.model.Breadcrumbs() && t.typeAllows(item) {
		return base
	}

	var anyChecked, anyUnchecked bool
	for _, child := range t.model.Children(key) {
		if child.ReadOnly() {
			continue
		}
		switch c.state(child) {
		case projection.Checked:
			anyChecked = true
		case projection.Unchecked:
			anyUnchecked = true
		default:
			anyChecked, anyUnchecked = true, true
		}
	}
	switch {
	case anyChecked && anyUnchecked:
		return projection.Partial
	case anyChecked:
		if base == projection.Checked || (t.opts.SelectAncestors && !t.model.HasMore(key)) {
			return projection.Checked
		}
		return projection.Partial
	case anyUnchecked && base == projection.Checked:
		return projection.Partial
	}
	return base
}

// SelectionForModel classifies items, or every row when items is nil.
// Nodes with a mix of selected and unselected children are indeterminate
// when SelectAncestors is set or the projection shows search results.
func (t *Tree) SelectionForModel(s Selection, limit int, items []*projection.Item) Classified {
	if items == nil {
		items = t.model.Items()
	}
	c := t.newClassifier(s)

	// In search results a select-all reaches leaves; nodes that match only
	// because of their children are not selected with them.
	doNotSelectNodes := false
	if t.model.Breadcrumbs() && s.IsAll() {
		for _, item := range items {
			if item.Selectable() && !item.IsNode() {
				doNotSelectNodes = true
				break
			}
		}
	}

	var out Classified
	packed := 0
	for _, item := range items {
		key, ok := keyOf(item)
		if !ok {
			continue
		}
		st := c.state(item)
		if st == projection.Checked && item.IsNode() && doNotSelectNodes {
			st = projection.Partial
		}
		if st == projection.Checked && limit > 0 && s.IsAll() && !s.Selected.Has(key) && t.canBeCounted(item) {
			packed++
			if packed > limit {
				st = projection.Unchecked
			}
		}
		out.add(item, st)
	}
	return out
}

// Count counts selected rows allowed by CountMode. It reports an unknown
// count when an all-selection or a selected node still has rows to load.
func (t *Tree) Count(s Selection, hasMoreData bool, limit int) (int, bool) {
	n := 0
	for _, item := range t.model.Loaded() {
		key, _ := item.Key()
		if !t.canBeCounted(item) {
			continue
		}
		if item.ReadOnly() {
			if s.Selected.Has(key) {
				n++
			}
			continue
		}
		if t.typeAllows(item) && t.isSelected(s, key) {
			n++
		}
	}

	if limit > 0 && s.IsAll() {
		if hasMoreData {
			return limit, true
		}
		return min(n, limit), true
	}
	if s.IsAll() && hasMoreData {
		return 0, false
	}
	if t.opts.SelectDescendants {
		for _, item := range t.model.Loaded() {
			key, _ := item.Key()
			if item.IsNode() && t.model.HasMore(key) && t.isSelected(s, key) {
				return 0, false
			}
		}
	}
	for _, key := range s.Selected {
		if t.model.ItemByKey(key) != nil {
			continue
		}
		if t.opts.SelectDescendants {
			return 0, false
		}
		n++
	}
	return n, true
}

// IsAllSelected is never true while more data can be loaded
func (t *Tree) IsAllSelected(s Selection, hasMoreData bool, itemsCount, limit int) bool {
	if hasMoreData {
		return false
	}
	if limit > 0 {
		return s.IsAll() && limit >= itemsCount
	}
	if s.IsAll() && len(s.Selected) == 0 && len(s.Excluded) == 0 {
		return true
	}
	n, ok := t.Count(s, hasMoreData, limit)
	return ok && itemsCount > 0 && n == itemsCount
}
