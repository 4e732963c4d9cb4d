package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
)

func groupedList() *model.List {
	items := []*model.Item{leaf("a", ""), leaf("b", ""), leaf("c", ""), leaf("d", "")}
	items[0].SetAttribute("group", "g1")
	items[1].SetAttribute("group", "g2")
	items[2].SetAttribute("group", "g1")
	return model.NewList(items...)
}

func byGroupAttr(it *model.Item) string {
	v, _ := it.Field("group")
	return v
}

func TestGroupHeaders(t *testing.T) {
	p := New(groupedList())
	r := record(t, p)
	p.SetGroup(byGroupAttr)

	require.Len(t, r.changes, 1)
	assert.Equal(t, ActionReset, r.changes[0].Action)
	assert.Equal(t, []string{"group:g1", "a", "c", "group:g2", "b", "d"}, rowNames(p.Items()))

	header := p.At(0)
	assert.Equal(t, KindGroup, header.Kind())
	_, hasKey := header.Key()
	assert.False(t, hasKey)
	assert.False(t, header.Selectable())
	assert.False(t, header.Draggable())
	assert.Equal(t, -1, header.SourceIndex())

	r.reset()
	p.SetGroupExpanded("g1", false)
	assert.Equal(t, []string{"group:g1", "group:g2", "b", "d"}, rowNames(p.Items()))
	require.Len(t, r.changes, 1)
	assert.Equal(t, Change{Action: ActionRemove, Index: 1, Count: 2, Items: []*Item{p.ItemByKey("a"), p.ItemByKey("c")}}, r.changes[0])
	assert.False(t, p.At(0).IsExpanded())
	assert.False(t, p.IsGroupExpanded("g1"))

	p.SetGroupExpanded("g1", false)
	assert.Len(t, r.changes, 1, "no-op")

	p.SetGroupExpanded("g1", true)
	assert.Same(t, header, p.At(0), "headers keep identity")
	r.requireInSync()

	p.SetGroup(nil)
	assert.Equal(t, []string{"a", "b", "c", "d"}, rowNames(p.Items()))
}

func TestGroupFollowsPointUpdates(t *testing.T) {
	list := groupedList()
	p := New(list)
	p.SetGroup(byGroupAttr)
	r := record(t, p)

	list.At(1).SetAttribute("group", "g1")
	require.NoError(t, p.NotifyItemChanged(p.ItemByKey("b")))
	assert.Equal(t, []string{"group:g1", "a", "b", "c", "d"}, rowNames(p.Items()))
	r.requireInSync()

	list.Append(leaf("e", ""))
	assert.Equal(t, []string{"group:g1", "a", "b", "c", "d", "e"}, rowNames(p.Items()))
	r.requireInSync()
}

// r(node)[n(node)[l1, l2]], t
func searchTree() *model.List {
	items := []*model.Item{node("r", ""), node("n", "r"), leaf("l1", "n"), leaf("l2", "n"), leaf("t", ""), node("m", "")}
	items[2].Text = "leaf one"
	items[3].Text = "leaf two"
	items[4].Text = "top leaf"
	items[5].Text = "leafy node"
	return model.NewList(items...)
}

func TestBreadcrumbsFoldAncestors(t *testing.T) {
	p := New(searchTree(), WithHierarchy(""))
	require.NoError(t, p.SetFilter(textContains("leaf")))
	assert.Equal(t, []string{"t", "m"}, rowNames(p.Items()), "collapsed tree")

	r := record(t, p)
	require.NoError(t, p.SetBreadcrumbs(true))
	require.Len(t, r.changes, 1)
	assert.Equal(t, ActionReset, r.changes[0].Action)

	rows := p.Items()
	require.Len(t, rows, 6)
	assert.Equal(t, KindBreadcrumbs, rows[0].Kind())
	assert.Equal(t, "r / n", rows[0].Text())
	assert.Equal(t, "l1", rows[1].String())
	assert.Equal(t, "l2", rows[2].String())
	assert.Equal(t, KindSeparator, rows[3].Kind())
	assert.Equal(t, "t", rows[4].String())
	assert.Equal(t, KindBreadcrumbs, rows[5].Kind())
	assert.Equal(t, "leafy node", rows[5].Text())

	for _, row := range []*Item{rows[0], rows[3]} {
		_, ok := row.Key()
		assert.False(t, ok)
		assert.False(t, row.Selectable())
		assert.False(t, row.Draggable())
	}

	e := p.Enumerator()
	assert.Equal(t, 4, e.Count(), "decorations are not data rows")

	require.NoError(t, p.SetBreadcrumbs(false))
	assert.Equal(t, []string{"t", "m"}, rowNames(p.Items()))

	flat := New(flatList("a"))
	assert.ErrorIs(t, flat.SetBreadcrumbs(true), ErrNotHierarchical)
}

func TestBreadcrumbsKeepIdentityAcrossUpdates(t *testing.T) {
	list := searchTree()
	p := New(list, WithHierarchy(""))
	require.NoError(t, p.SetFilter(textContains("leaf")))
	require.NoError(t, p.SetBreadcrumbs(true))
	crumb := p.At(0)
	r := record(t, p)

	list.Append(leaf("l3", "n"))
	list.At(list.IndexOf("l3")).Text = "leaf three"
	require.NoError(t, p.NotifyItemChanged(p.ItemByKey("l3"), "text"))
	assert.Same(t, crumb, p.At(0))
	assert.Equal(t, "l3", p.At(3).String())
	r.requireInSync()
}
