package projection

import (
	"strings"

	"github.com/pstuifzand/listview/internal/model"
)

// displayItems returns the cached display order, rebuilding it after any
// change of the maps or decorations.
func (p *Projection) displayItems() []*Item {
	if p.display != nil && p.displayVersion == p.m.version {
		return p.display
	}
	rows := p.enum.Items()
	switch {
	case p.breadcrumbs:
		rows = p.breadcrumbRows(rows)
	case p.groupBy != nil:
		rows = p.groupRows(rows)
	}
	p.display = rows
	p.displayIndex = make(map[*Item]int, len(rows))
	for i, it := range rows {
		p.displayIndex[it] = i
	}
	p.displayVersion = p.m.version
	return rows
}

// SetGroup installs a grouping function. Rows are gathered by group in order
// of first appearance and each group gets a header row. Items of the empty
// group get no header. In a tree the group of a row is the group of its
// top-level ancestor. A nil fn removes grouping.
func (p *Projection) SetGroup(fn func(*model.Item) string) {
	p.change(true, "group", func() {
		p.groupBy = fn
		p.m.touch()
	})
}

// SetGroupExpanded shows or hides the members of a group
func (p *Projection) SetGroupExpanded(group string, expanded bool) {
	if p.collapsed[group] == !expanded {
		return
	}
	p.change(false, "group expand", func() {
		if expanded {
			delete(p.collapsed, group)
		} else {
			p.collapsed[group] = true
		}
		p.m.touch()
	})
}

// IsGroupExpanded reports whether the members of group are shown
func (p *Projection) IsGroupExpanded(group string) bool {
	return !p.collapsed[group]
}

func (p *Projection) groupOf(it *Item) string {
	top := it
	for top.parent != nil {
		top = top.parent
	}
	return p.groupBy(top.contents)
}

func (p *Projection) groupRows(rows []*Item) []*Item {
	var order []string
	members := make(map[string][]*Item)
	for _, it := range rows {
		g := p.groupOf(it)
		if _, seen := members[g]; !seen {
			order = append(order, g)
		}
		members[g] = append(members[g], it)
	}
	out := make([]*Item, 0, len(rows)+len(order))
	for _, g := range order {
		if g == "" {
			out = append(out, members[g]...)
			continue
		}
		header, ok := p.groups[g]
		if !ok {
			header = &Item{kind: KindGroup, group: g, source: -1}
			p.groups[g] = header
		}
		header.expanded = !p.collapsed[g]
		out = append(out, header)
		if header.expanded {
			out = append(out, members[g]...)
		}
	}
	return out
}

// SetBreadcrumbs switches search mode on or off. In search mode expansion is
// ignored and the ancestors of each matching row are folded into a single
// breadcrumbs row placed above it.
func (p *Projection) SetBreadcrumbs(on bool) error {
	if !p.hierarchical {
		return ErrNotHierarchical
	}
	if p.breadcrumbs == on {
		return nil
	}
	p.change(true, "breadcrumbs", func() {
		p.breadcrumbs = on
		p.refreshVisibility()
	})
	return nil
}

// Breadcrumbs reports whether search mode is on
func (p *Projection) Breadcrumbs() bool { return p.breadcrumbs }

func ancestors(it *Item) []*Item {
	var path []*Item
	for q := it.parent; q != nil; q = q.parent {
		path = append(path, q)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// crumb returns the breadcrumbs row for path placed above first. Rows are
// cached so a path keeps its identity while the same row heads it.
func (p *Projection) crumb(path []*Item, first *Item) *Item {
	keys := make([]string, len(path), len(path)+1)
	for i, it := range path {
		keys[i] = string(it.contents.ID)
	}
	id := strings.Join(append(keys, string(first.contents.ID)), "\x00")
	c, ok := p.crumbs[id]
	if !ok {
		c = &Item{kind: KindBreadcrumbs, path: path, source: -1}
		p.crumbs[id] = c
	}
	c.path = path
	return c
}

func (p *Projection) separator(before *Item) *Item {
	s, ok := p.separators[before.contents.ID]
	if !ok {
		s = &Item{kind: KindSeparator, source: -1}
		p.separators[before.contents.ID] = s
	}
	return s
}

// breadcrumbRows folds ancestors into breadcrumbs rows. A matching node
// with matching descendants is represented by their breadcrumbs; a separator
// divides breadcrumb groups from following top-level leaves.
func (p *Projection) breadcrumbRows(rows []*Item) []*Item {
	covered := make(map[*Item]bool)
	for _, it := range rows {
		for q := it.parent; q != nil; q = q.parent {
			covered[q] = true
		}
	}
	out := make([]*Item, 0, len(rows))
	var last *Item
	for _, it := range rows {
		if it.IsNode() {
			if covered[it] {
				continue
			}
			c := p.crumb(append(ancestors(it), it), it)
			if c != last {
				out = append(out, c)
				last = c
			}
			continue
		}
		path := ancestors(it)
		if len(path) == 0 {
			if last != nil {
				out = append(out, p.separator(it))
				last = nil
			}
			out = append(out, it)
			continue
		}
		if last != nil && samePath(last.path, path) {
			out = append(out, it)
			continue
		}
		c := p.crumb(path, it)
		if c != last {
			out = append(out, c)
			last = c
		}
		out = append(out, it)
	}
	return out
}

func samePath(a, b []*Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
