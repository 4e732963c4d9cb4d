package projection

import (
	"github.com/pstuifzand/listview/internal/model"
)

// relink resolves parent references from parent keys. References are only
// used for traversal; a parent cycle is cut at the item that closes it.
func (p *Projection) relink() {
	items := p.m.items
	for _, it := range items {
		it.parent = nil
		if p.hierarchical {
			it.parent = p.parentOf(it)
		}
	}
	if !p.hierarchical {
		return
	}
	for _, it := range items {
		steps := 0
		for q := it.parent; q != nil; q = q.parent {
			steps++
			if steps > len(items) {
				p.log.Warn("parent cycle", "key", string(it.contents.ID))
				it.parent = nil
				break
			}
		}
	}
}

// parentOf returns the row the parent key of item points to
func (p *Projection) parentOf(item *Item) *Item {
	pid := item.contents.ParentID
	if pid == "" || pid == p.root || pid == item.contents.ID {
		return nil
	}
	return p.byKey[pid]
}

func (p *Projection) opens(item *Item) bool {
	return p.breadcrumbs || item.expanded
}

// pathOpen reports whether every ancestor of item is expanded
func (p *Projection) pathOpen(item *Item, memo map[*Item]bool) bool {
	parent := item.parent
	if parent == nil {
		return true
	}
	if memo != nil {
		if v, ok := memo[parent]; ok {
			return v
		}
	}
	v := p.opens(parent) && p.pathOpen(parent, memo)
	if memo != nil {
		memo[parent] = v
	}
	return v
}

// IsHierarchical reports whether the projection is a tree
func (p *Projection) IsHierarchical() bool { return p.hierarchical }

// Root returns the key standing for the invisible root node
func (p *Projection) Root() model.Key { return p.root }

// Parent returns the parent row of item, nil at the top level
func (p *Projection) Parent(item *Item) *Item { return item.parent }

// Children returns the loaded children of the node with key that pass the
// filter, in sort order. The root key addresses the top level.
func (p *Projection) Children(key model.Key) []*Item {
	if !p.hierarchical {
		return nil
	}
	var parent *Item
	if key != p.root {
		var ok bool
		if parent, ok = p.byKey[key]; !ok {
			return nil
		}
	}
	var out []*Item
	for _, c := range p.children[parent] {
		if p.passed.Contains(uint32(c.source)) {
			out = append(out, c)
		}
	}
	return out
}

// HasMore reports whether the node with key has children that are not
// loaded yet. The root key stands for the top level.
func (p *Projection) HasMore(key model.Key) bool {
	return p.hasMore[key]
}

// SetHasMore records the paging state of a node
func (p *Projection) SetHasMore(key model.Key, more bool) {
	if more {
		p.hasMore[key] = true
		return
	}
	delete(p.hasMore, key)
}

// IsExpanded reports the expansion state of the node with key
func (p *Projection) IsExpanded(key model.Key) bool {
	it, ok := p.byKey[key]
	return ok && it.expanded
}

// SetExpanded expands or collapses a node. Descendants become visible when
// they pass the filter and every ancestor is expanded.
func (p *Projection) SetExpanded(item *Item, expanded bool) error {
	if !p.hierarchical {
		return ErrNotHierarchical
	}
	if !p.Contains(item) {
		return ErrUnknownItem
	}
	if !item.IsNode() {
		return ErrNotNode
	}
	if item.expanded == expanded {
		return nil
	}
	p.change(false, "expand", func() {
		item.expanded = expanded
		p.refreshBranch(item, p.opens(item) && p.pathOpen(item, nil))
		p.m.touch()
	})
	return nil
}

// ToggleExpanded flips the expansion state of a node
func (p *Projection) ToggleExpanded(item *Item) error {
	return p.SetExpanded(item, !item.expanded)
}

func (p *Projection) refreshBranch(node *Item, open bool) {
	for _, c := range p.children[node] {
		src := uint32(c.source)
		if open && p.passed.Contains(src) {
			p.m.filter.Add(src)
		} else {
			p.m.filter.Remove(src)
		}
		p.refreshBranch(c, open && p.opens(c))
	}
}

// ExpandedKeys returns the keys of expanded nodes in source order
func (p *Projection) ExpandedKeys() []model.Key {
	var out []model.Key
	for _, it := range p.m.items {
		if it.expanded {
			out = append(out, it.contents.ID)
		}
	}
	return out
}

// SetExpandedKeys expands exactly the nodes listed in keys
func (p *Projection) SetExpandedKeys(keys []model.Key) error {
	if !p.hierarchical {
		return ErrNotHierarchical
	}
	want := make(map[model.Key]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	p.change(false, "expanded keys", func() {
		for _, it := range p.m.items {
			it.expanded = it.IsNode() && want[it.contents.ID]
		}
		p.refreshVisibility()
	})
	return nil
}

// ExpandAll expands every node
func (p *Projection) ExpandAll() error {
	if !p.hierarchical {
		return ErrNotHierarchical
	}
	var keys []model.Key
	for _, it := range p.m.items {
		if it.IsNode() {
			keys = append(keys, it.contents.ID)
		}
	}
	return p.SetExpandedKeys(keys)
}

// CollapseAll collapses every node
func (p *Projection) CollapseAll() error {
	return p.SetExpandedKeys(nil)
}

// MoveToAbove activates the parent of the current row
func (p *Projection) MoveToAbove() bool {
	cur := p.enum.Current()
	if cur == nil || cur.parent == nil {
		return false
	}
	return p.enum.SetCurrent(cur.parent) == nil
}

// MoveToBelow expands the current node and activates its first child
func (p *Projection) MoveToBelow() bool {
	cur := p.enum.Current()
	if cur == nil || !cur.IsNode() {
		return false
	}
	if !cur.expanded {
		if err := p.SetExpanded(cur, true); err != nil {
			return false
		}
	}
	key, _ := cur.Key()
	children := p.Children(key)
	if len(children) == 0 {
		return false
	}
	return p.enum.SetCurrent(children[0]) == nil
}
