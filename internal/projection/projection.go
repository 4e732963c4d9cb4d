// Package projection turns a source collection into an indexed, filtered,
// sorted and optionally hierarchical view order, and reports every change of
// that order to its listeners.
package projection

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
)

// Predicate decides whether a source item passes the filter
type Predicate func(item *model.Item) (bool, error)

// Comparator orders two source items; negative when a sorts first
type Comparator func(a, b *model.Item) int

// Option configures a Projection
type Option func(*Projection)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(p *Projection) { p.log = logging.OrNop(l).WithComponent("projection") }
}

// WithHierarchy turns the projection into a tree. Items whose parent key is
// root, empty, or not present in the source are placed at the top level.
func WithHierarchy(root model.Key) Option {
	return func(p *Projection) {
		p.hierarchical = true
		p.root = root
	}
}

// WithExpandAll makes nodes start expanded
func WithExpandAll() Option {
	return func(p *Projection) { p.expandAll = true }
}

// Projection is the view order over a source collection.
//
// Data rows map one-to-one to source items and keep their identity until the
// item leaves the source. Mutations are synchronous; listeners observe them
// in the order they were made.
type Projection struct {
	source      model.Source
	unsubscribe func()
	log         *logging.Logger

	m      *maps
	passed *roaring.Bitmap
	enum   *Enumerator

	predicates  []Predicate
	comparators []Comparator

	hierarchical bool
	root         model.Key
	expandAll    bool
	byKey        map[model.Key]*Item
	children     map[*Item][]*Item
	hasMore      map[model.Key]bool

	groupBy     func(*model.Item) string
	groups      map[string]*Item
	collapsed   map[string]bool
	breadcrumbs bool
	crumbs      map[string]*Item
	separators  map[model.Key]*Item

	display        []*Item
	displayIndex   map[*Item]int
	displayVersion uint64

	listeners    map[int]Listener
	nextListener int
	batch        *batchState
}

// New creates a projection over source and subscribes to its changes
func New(source model.Source, opts ...Option) *Projection {
	p := &Projection{
		source:     source,
		log:        logging.Nop(),
		m:          newMaps(),
		passed:     roaring.New(),
		byKey:      make(map[model.Key]*Item),
		hasMore:    make(map[model.Key]bool),
		groups:     make(map[string]*Item),
		collapsed:  make(map[string]bool),
		crumbs:     make(map[string]*Item),
		separators: make(map[model.Key]*Item),
		listeners:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.enum = newEnumerator(p.m)
	p.load()
	p.unsubscribe = source.Subscribe(p.onSourceChange)
	return p
}

// Close detaches the projection from its source
func (p *Projection) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// load wraps the whole source. Wrappers of items that are still present are
// reused so expansion state survives a source reset.
func (p *Projection) load() {
	n := p.source.Count()
	items := make([]*Item, n)
	for i := 0; i < n; i++ {
		contents := p.source.At(i)
		if old, ok := p.byKey[contents.ID]; ok && old.contents == contents {
			old.source = -1
			items[i] = old
			continue
		}
		items[i] = p.wrap(contents)
	}
	p.passed = roaring.New()
	p.adopt(items)
}

func (p *Projection) wrap(contents *model.Item) *Item {
	it := newItem(contents, -1)
	it.expanded = p.expandAll && contents.Node
	return it
}

// adopt installs a new source-aligned item slice. Items with a negative
// source index are new and get evaluated; the others keep their filter bit.
func (p *Projection) adopt(items []*Item) {
	passed := roaring.New()
	for i, it := range items {
		if it.source < 0 {
			ok, err := p.passes(it.contents)
			if err != nil {
				p.log.Warn("filter failed, hiding item", "key", string(it.contents.ID), "error", err)
			}
			if ok {
				passed.Add(uint32(i))
			}
			continue
		}
		if p.passed.Contains(uint32(it.source)) {
			passed.Add(uint32(i))
		}
	}
	for i, it := range items {
		it.source = i
	}
	p.m.items = items
	p.passed = passed
	p.byKey = make(map[model.Key]*Item, len(items))
	for _, it := range items {
		if _, dup := p.byKey[it.contents.ID]; dup {
			p.log.Warn("duplicate key", "key", string(it.contents.ID))
		}
		p.byKey[it.contents.ID] = it
	}
	p.structureChanged()
}

// structureChanged recomputes parent links, the sort map and visibility
// after items were added, removed or moved. Predicates are not re-run.
func (p *Projection) structureChanged() {
	p.relink()
	p.m.sort, p.children = p.order(p.comparators)
	p.refreshVisibility()
}

func (p *Projection) passes(contents *model.Item) (bool, error) {
	return evaluate(contents, p.predicates)
}

func evaluate(contents *model.Item, predicates []Predicate) (bool, error) {
	for _, pred := range predicates {
		ok, err := pred(contents)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// order computes the sort map and, for trees, the sibling lists.
func (p *Projection) order(comparators []Comparator) ([]int, map[*Item][]*Item) {
	compare := func(a, b *Item) int {
		for _, c := range comparators {
			if r := c(a.contents, b.contents); r != 0 {
				return r
			}
		}
		return 0
	}
	items := p.m.items
	if !p.hierarchical {
		if len(comparators) == 0 {
			return nil, nil
		}
		sorted := slices.Clone(items)
		slices.SortStableFunc(sorted, compare)
		out := make([]int, len(sorted))
		for i, it := range sorted {
			out[i] = it.source
		}
		return out, nil
	}

	children := make(map[*Item][]*Item)
	for _, it := range items {
		children[it.parent] = append(children[it.parent], it)
	}
	if len(comparators) > 0 {
		for _, siblings := range children {
			slices.SortStableFunc(siblings, compare)
		}
	}
	out := make([]int, 0, len(items))
	var walk func(parent *Item)
	walk = func(parent *Item) {
		for _, c := range children[parent] {
			out = append(out, c.source)
			walk(c)
		}
	}
	walk(nil)
	return out, children
}

// refreshVisibility recomputes the filter map from the predicate bits and
// the expansion state.
func (p *Projection) refreshVisibility() {
	filter := roaring.New()
	open := make(map[*Item]bool)
	for i, it := range p.m.items {
		if p.passed.Contains(uint32(i)) && p.pathOpen(it, open) {
			filter.Add(uint32(i))
		}
	}
	p.m.filter = filter
	p.m.touch()
}

// Count returns the number of rows, decorations included
func (p *Projection) Count() int {
	return len(p.displayItems())
}

// At returns the row at index, or nil when index is out of range
func (p *Projection) At(index int) *Item {
	rows := p.displayItems()
	if index < 0 || index >= len(rows) {
		return nil
	}
	return rows[index]
}

// Items returns all rows in view order
func (p *Projection) Items() []*Item {
	return p.snapshot()
}

// Window returns the rows in [start, end)
func (p *Projection) Window(start, end int) ([]*Item, error) {
	rows := p.displayItems()
	if start < 0 || start > len(rows) {
		return nil, &OutOfBoundsError{Position: start, Count: len(rows)}
	}
	if end < start || end > len(rows) {
		return nil, &OutOfBoundsError{Position: end, Count: len(rows)}
	}
	return append([]*Item(nil), rows[start:end]...), nil
}

// IndexOf returns the row index of item, or -1
func (p *Projection) IndexOf(item *Item) int {
	p.displayItems()
	if idx, ok := p.displayIndex[item]; ok {
		return idx
	}
	return -1
}

// IndexByKey returns the row index of the item with key, or -1
func (p *Projection) IndexByKey(key model.Key) int {
	it, ok := p.byKey[key]
	if !ok {
		return -1
	}
	return p.IndexOf(it)
}

// ItemByKey returns the row wrapping the source item with key, whether or
// not it is currently visible
func (p *Projection) ItemByKey(key model.Key) *Item {
	return p.byKey[key]
}

// Contains reports whether item is a data row of this projection
func (p *Projection) Contains(item *Item) bool {
	if item == nil || item.kind != KindData {
		return false
	}
	src := item.source
	return src >= 0 && src < len(p.m.items) && p.m.items[src] == item
}

// Enumerator returns a new enumerator over the data rows. It follows the
// projection and rebuilds its map lazily after changes.
func (p *Projection) Enumerator() *Enumerator {
	return newEnumerator(p.m)
}

// Current returns the active data row
func (p *Projection) Current() *Item { return p.enum.Current() }

// SetCurrent makes item the active row
func (p *Projection) SetCurrent(item *Item) error { return p.enum.SetCurrent(item) }

// MoveToNext activates the next data row
func (p *Projection) MoveToNext() bool { return p.enum.Next() != nil }

// MoveToPrevious activates the previous data row
func (p *Projection) MoveToPrevious() bool { return p.enum.Previous() != nil }

// Loaded returns the data rows passing the filter, in sort order, whether or
// not their ancestors are expanded
func (p *Projection) Loaded() []*Item {
	var out []*Item
	if len(p.m.sort) == 0 {
		it := p.passed.Iterator()
		for it.HasNext() {
			out = append(out, p.m.items[it.Next()])
		}
		return out
	}
	for _, src := range p.m.sort {
		if p.passed.Contains(uint32(src)) {
			out = append(out, p.m.items[src])
		}
	}
	return out
}

// SetFilter replaces the predicate chain. All predicates must pass.
// A failing predicate leaves the projection unchanged.
func (p *Projection) SetFilter(predicates ...Predicate) error {
	passed := roaring.New()
	for i, it := range p.m.items {
		ok, err := evaluate(it.contents, predicates)
		if err != nil {
			return fmt.Errorf("set filter: %w", &PredicateError{Index: i, cause: err})
		}
		if ok {
			passed.Add(uint32(i))
		}
	}
	p.change(true, "filter", func() {
		p.predicates = slices.Clone(predicates)
		p.passed = passed
		p.refreshVisibility()
	})
	return nil
}

// SetSort replaces the comparator chain. Ties keep source order.
func (p *Projection) SetSort(comparators ...Comparator) {
	sortMap, children := p.order(comparators)
	p.change(true, "sort", func() {
		p.comparators = slices.Clone(comparators)
		p.m.sort, p.children = sortMap, children
		p.m.touch()
	})
}

// NotifyItemChanged re-evaluates the filter for one item after its fields
// were edited. Sort order is not touched until the next SetSort.
func (p *Projection) NotifyItemChanged(item *Item, fields ...string) error {
	if !p.Contains(item) {
		return ErrUnknownItem
	}
	ok, err := p.passes(item.contents)
	if err != nil {
		return fmt.Errorf("notify %s: %w", item, &PredicateError{Index: item.source, cause: err})
	}
	src := uint32(item.source)
	if ok == p.passed.Contains(src) {
		switch {
		case p.hierarchical && touchesParent(fields) && p.parentOf(item) != item.parent:
			p.change(false, "reparent", p.structureChanged)
		case p.groupBy != nil && !p.breadcrumbs:
			p.change(false, "regroup", p.m.touch)
		}
		return nil
	}
	p.change(false, "item changed", func() {
		if ok {
			p.passed.Add(src)
		} else {
			p.passed.Remove(src)
		}
		if p.hierarchical && touchesParent(fields) && p.parentOf(item) != item.parent {
			p.structureChanged()
			return
		}
		p.setVisible(item, ok && p.pathOpen(item, nil))
	})
	return nil
}

func touchesParent(fields []string) bool {
	return len(fields) == 0 || slices.Contains(fields, "parent")
}

func (p *Projection) setVisible(item *Item, visible bool) {
	src := uint32(item.source)
	if visible {
		p.m.filter.Add(src)
	} else {
		p.m.filter.Remove(src)
	}
	p.m.touch()
}

func (p *Projection) onSourceChange(ev model.Event) {
	switch ev.Action {
	case model.ActionAdd:
		p.change(false, "source add", func() {
			fresh := make([]*Item, len(ev.Items))
			for i, c := range ev.Items {
				fresh[i] = p.wrap(c)
			}
			p.adopt(slices.Insert(slices.Clone(p.m.items), ev.Index, fresh...))
		})
	case model.ActionRemove:
		p.change(false, "source remove", func() {
			end := ev.Index + len(ev.OldItems)
			for _, it := range p.m.items[ev.Index:end] {
				delete(p.hasMore, it.contents.ID)
				it.parent = nil
			}
			p.adopt(slices.Delete(slices.Clone(p.m.items), ev.Index, end))
		})
	case model.ActionReplace:
		p.change(false, "source replace", func() {
			items := slices.Clone(p.m.items)
			for i, c := range ev.Items {
				old := items[ev.Index+i]
				it := p.wrap(c)
				if old.contents.ID == c.ID {
					it.expanded = old.expanded
				}
				items[ev.Index+i] = it
			}
			p.adopt(items)
		})
	case model.ActionMove:
		p.change(false, "source move", func() {
			count := len(ev.Items)
			items := slices.Clone(p.m.items)
			block := slices.Clone(items[ev.OldIndex : ev.OldIndex+count])
			items = slices.Delete(items, ev.OldIndex, ev.OldIndex+count)
			p.adopt(slices.Insert(items, ev.Index, block...))
		})
	case model.ActionChange:
		for i := range ev.Items {
			if err := p.NotifyItemChanged(p.m.items[ev.Index+i], ev.Fields...); err != nil {
				p.log.Warn("item change rejected", "error", err)
			}
		}
	case model.ActionReset:
		p.change(true, "source reset", p.load)
	}
}
