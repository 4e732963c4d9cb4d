package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// a(node)[a1, a2(node)[a2x]], b(node)[b1], c
func treeProjection(opts ...projection.Option) (*model.List, *projection.Projection) {
	item := func(id, parent string, isNode bool) *model.Item {
		return &model.Item{ID: model.Key(id), ParentID: model.Key(parent), Text: id, Node: isNode}
	}
	list := model.NewList(
		item("a", "", true),
		item("a1", "a", false),
		item("a2", "a", true),
		item("a2x", "a2", false),
		item("b", "", true),
		item("b1", "b", false),
		item("c", "", false),
	)
	opts = append([]projection.Option{projection.WithHierarchy(""), projection.WithExpandAll()}, opts...)
	return list, projection.New(list, opts...)
}

func hierarchical(t *testing.T, p *projection.Projection) *Tree {
	t.Helper()
	tr, err := NewTree(p, TreeOptions{SelectDescendants: true, SelectAncestors: true})
	require.NoError(t, err)
	return tr
}

func states(c Classified) map[model.Key]State {
	out := map[model.Key]State{}
	for _, it := range c.Selected {
		k, _ := it.Key()
		out[k] = projection.Checked
	}
	for _, it := range c.Unselected {
		k, _ := it.Key()
		out[k] = projection.Unchecked
	}
	for _, it := range c.Indeterminate {
		k, _ := it.Key()
		out[k] = projection.Partial
	}
	return out
}

func TestTreeOptionsValidate(t *testing.T) {
	_, p := treeProjection()
	_, err := NewTree(p, TreeOptions{CountMode: CountLeaves, Type: SelectNodes})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	_, err = NewTree(p, TreeOptions{CountMode: CountNodes, Type: SelectLeaves})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	_, err = NewTree(p, TreeOptions{CountMode: CountLeaves, Type: SelectNodes, RecursiveSelection: true})
	assert.NoError(t, err)
}

func TestTreeSelectNodeCoversBranch(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	s := tr.Select(Of(), "a")
	assert.Equal(t, Of("a"), s)
	assert.Equal(t, map[model.Key]State{
		"a": projection.Checked, "a1": projection.Checked, "a2": projection.Checked, "a2x": projection.Checked,
		"b": projection.Unchecked, "b1": projection.Unchecked, "c": projection.Unchecked,
	}, states(tr.SelectionForModel(s, 0, nil)))

	n, ok := tr.Count(s, false, 0)
	require.True(t, ok)
	assert.Equal(t, 4, n)

	// nested marks below a newly selected node are dropped
	s = tr.Select(Selection{Excluded: Keys{"a1"}, Selected: Keys{"a2x"}}, "a")
	assert.Equal(t, Of("a"), s)
}

func TestTreeUnselectInsideSelectedNode(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	s := tr.Unselect(Of("a"), "a1")
	assert.Equal(t, Selection{Selected: Keys{"a"}, Excluded: Keys{"a1"}}, s)
	st := states(tr.SelectionForModel(s, 0, nil))
	assert.Equal(t, projection.Partial, st["a"])
	assert.Equal(t, projection.Unchecked, st["a1"])
	assert.Equal(t, projection.Checked, st["a2x"])

	n, _ := tr.Count(s, false, 0)
	assert.Equal(t, 3, n)

	// once the last child goes the parent goes with it
	s = tr.Unselect(s, "a2")
	assert.Equal(t, Selection{}, s)
}

func TestTreeSelectAgainInsideExcludedBranch(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	s := tr.Unselect(AllExcept(), "a")
	assert.Equal(t, AllExcept("a"), s)
	s = tr.Select(s, "a2x")
	assert.Equal(t, Selection{Kind: KindAllExcept, Selected: Keys{"a2x"}, Excluded: Keys{"a"}}, s)

	st := states(tr.SelectionForModel(s, 0, nil))
	assert.Equal(t, projection.Partial, st["a"])
	assert.Equal(t, projection.Unchecked, st["a1"])
	assert.Equal(t, projection.Checked, st["a2"], "all children of a2 are selected")
	assert.Equal(t, projection.Checked, st["b1"])
}

func TestTreeToggleAllIsItsOwnInverse(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	s := tr.Unselect(Of("a"), "a1")
	once := tr.ToggleAll(s, false)
	assert.Equal(t, Selection{Kind: KindAllExcept, Selected: Keys{"a1"}, Excluded: Keys{"a"}}, once)
	st := states(tr.SelectionForModel(once, 0, nil))
	assert.Equal(t, projection.Checked, st["a1"])
	assert.Equal(t, projection.Unchecked, st["a2x"])
	assert.Equal(t, projection.Checked, st["c"])

	assert.Equal(t, s, tr.ToggleAll(once, false))
	assert.Equal(t, Of(), tr.ToggleAll(AllExcept(), false))
}

func TestTreeCount(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	_, ok := tr.Count(AllExcept(), true, 0)
	assert.False(t, ok, "all selected with more data")
	n, ok := tr.Count(AllExcept("b"), false, 0)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
	n, ok = tr.Count(AllExcept(), true, 3)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	p.SetHasMore("b", true)
	_, ok = tr.Count(Of("b"), false, 0)
	assert.False(t, ok, "selected node with more children")
	n, ok = tr.Count(Of("a1"), false, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = tr.Count(Of("not-loaded"), false, 0)
	assert.False(t, ok, "branch of an unloaded key is unknown")

	flat, err := NewTree(p, TreeOptions{})
	require.NoError(t, err)
	n, ok = flat.Count(Of("not-loaded", "b"), false, 0)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestTreeCountMode(t *testing.T) {
	_, p := treeProjection()
	tr, err := NewTree(p, TreeOptions{SelectDescendants: true, CountMode: CountLeaves})
	require.NoError(t, err)
	n, _ := tr.Count(Of("a"), false, 0)
	assert.Equal(t, 2, n)

	tr, err = NewTree(p, TreeOptions{SelectDescendants: true, CountMode: CountNodes})
	require.NoError(t, err)
	n, _ = tr.Count(Of("a"), false, 0)
	assert.Equal(t, 2, n)
}

func TestTreeSelectionType(t *testing.T) {
	_, p := treeProjection()
	nodes, err := NewTree(p, TreeOptions{Type: SelectNodes})
	require.NoError(t, err)
	assert.Equal(t, Of(), nodes.Select(Of(), "a1"))
	assert.Equal(t, Of("a"), nodes.Select(Of(), "a"))

	leaves, err := NewTree(p, TreeOptions{Type: SelectLeaves})
	require.NoError(t, err)
	assert.Equal(t, Of(), leaves.Select(Of(), "b"))
	assert.Equal(t, Of("b1"), leaves.Select(Of(), "b1"))
}

func TestTreeWithoutDescendants(t *testing.T) {
	_, p := treeProjection()
	tr, err := NewTree(p, TreeOptions{})
	require.NoError(t, err)

	s := tr.Select(Of(), "a")
	st := states(tr.SelectionForModel(s, 0, nil))
	assert.Equal(t, projection.Checked, st["a"])
	assert.Equal(t, projection.Unchecked, st["a1"])

	st = states(tr.SelectionForModel(AllExcept("a"), 0, nil))
	assert.Equal(t, projection.Unchecked, st["a"])
	assert.Equal(t, projection.Checked, st["a1"])
}

func TestTreeSelectRange(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)
	require.NoError(t, p.SetExpanded(p.ItemByKey("b"), false))

	assert.Equal(t, Of("a1", "a2x", "b", "c"), tr.SelectRange(p.Items()))
}

func TestTreeEntryPath(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	assert.False(t, tr.isSelected(Of("a"), "deep"))
	tr.SetEntryPath([]PathEntry{{ID: "deep", Parent: "mid"}, {ID: "mid", Parent: "a2"}})
	assert.True(t, tr.isSelected(Of("a"), "deep"))
	assert.False(t, tr.isSelected(Selection{Selected: Keys{"a"}, Excluded: Keys{"a2"}}, "deep"))
}

func TestTreeIsAllSelected(t *testing.T) {
	_, p := treeProjection()
	tr := hierarchical(t, p)

	assert.True(t, tr.IsAllSelected(AllExcept(), false, 7, 0))
	assert.False(t, tr.IsAllSelected(AllExcept(), true, 7, 0))
	assert.True(t, tr.IsAllSelected(Of("a", "b", "c"), false, 7, 0))
	assert.False(t, tr.IsAllSelected(Of("a", "b"), false, 7, 0))
}

func TestTreeSearchModeUnselectLastClearsAll(t *testing.T) {
	_, p := treeProjection()
	require.NoError(t, p.SetBreadcrumbs(true))
	tr := hierarchical(t, p)

	s := AllExcept("a", "b")
	assert.Equal(t, Selection{}, tr.Unselect(s, "c"))
}

func TestTreeReadOnlyLeaf(t *testing.T) {
	list, p := treeProjection()
	list.At(6).ReadOnly = true
	tr := hierarchical(t, p)

	assert.Equal(t, Of(), tr.Select(Of(), "c"))
	assert.Equal(t, Of(), tr.Unselect(Of("c"), "c"), "an explicit choice can be taken back")

	s := Of("c", "b1")
	assert.Equal(t, s, tr.ToggleAll(tr.ToggleAll(s, false), false))
}
