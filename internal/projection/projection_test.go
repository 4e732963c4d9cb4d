package projection

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
)

func TestSetFilterEmitsSingleReset(t *testing.T) {
	p := New(flatList("apple", "banana", "avocado"))
	r := record(t, p)

	require.NoError(t, p.SetFilter(textContains("a"), textContains("v")))

	require.Len(t, r.changes, 1)
	assert.Equal(t, ActionReset, r.changes[0].Action)
	assert.Equal(t, 1, r.changes[0].Count)
	assert.Equal(t, []string{"avocado"}, rowNames(p.Items()))
}

func TestSetFilterFailureLeavesMapsIntact(t *testing.T) {
	p := New(flatList("a", "b", "c"))
	require.NoError(t, p.SetFilter(textContains("b")))
	r := record(t, p)

	boom := errors.New("boom")
	err := p.SetFilter(func(it *model.Item) (bool, error) {
		if it.Text == "c" {
			return false, boom
		}
		return true, nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	var pe *PredicateError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Index)

	assert.Empty(t, r.changes)
	assert.Equal(t, []string{"b"}, rowNames(p.Items()))

	assert.Panics(t, func() {
		_ = p.SetFilter(func(*model.Item) (bool, error) { panic("predicate") })
	})
	assert.Equal(t, []string{"b"}, rowNames(p.Items()))

	assert.Panics(t, func() {
		p.SetSort(func(a, b *model.Item) int { panic("comparator") })
	})
	assert.Equal(t, []string{"b"}, rowNames(p.Items()))
	assert.Empty(t, r.changes)
}

func TestNotifyItemChangedFlipsOneBit(t *testing.T) {
	list := flatList("a1", "a2", "a3")
	p := New(list)
	require.NoError(t, p.SetFilter(textContains("a")))
	r := record(t, p)

	item := p.ItemByKey("a2")
	item.Contents().Text = "b2"
	require.NoError(t, p.NotifyItemChanged(item, "text"))
	require.Len(t, r.changes, 1)
	assert.Equal(t, ActionRemove, r.changes[0].Action)
	assert.Equal(t, 1, r.changes[0].Index)
	assert.Equal(t, 1, r.changes[0].Count)
	r.requireInSync()

	r.reset()
	item.Contents().Text = "a2"
	require.NoError(t, list.Touch(1, "text"))
	require.Len(t, r.changes, 1)
	assert.Equal(t, ActionAdd, r.changes[0].Action)
	assert.Equal(t, 1, r.changes[0].Index)
	r.requireInSync()

	r.reset()
	item.Contents().Text = "a2 renamed"
	require.NoError(t, p.NotifyItemChanged(item, "text"))
	assert.Empty(t, r.changes, "bit did not flip")

	assert.ErrorIs(t, p.NotifyItemChanged(&Item{kind: KindGroup}), ErrUnknownItem)
}

func TestItemEditsDoNotReorderUntilSort(t *testing.T) {
	p := New(flatList("a", "b", "c"))
	p.SetSort(byTextDesc)
	require.Equal(t, []string{"c", "b", "a"}, rowNames(p.Items()))

	a := p.ItemByKey("a")
	a.Contents().Text = "z"
	require.NoError(t, p.NotifyItemChanged(a))
	assert.Equal(t, []string{"c", "b", "a"}, rowNames(p.Items()))

	p.SetSort(byTextDesc)
	assert.Equal(t, []string{"a", "c", "b"}, rowNames(p.Items()))
}

func TestSortIsStable(t *testing.T) {
	items := []*model.Item{leaf("1", ""), leaf("2", ""), leaf("3", ""), leaf("4", "")}
	items[0].Text, items[1].Text, items[2].Text, items[3].Text = "x", "y", "x", "y"
	p := New(model.NewList(items...))
	p.SetSort(func(a, b *model.Item) int {
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		}
		return 0
	})
	assert.Equal(t, []string{"1", "3", "2", "4"}, rowNames(p.Items()))
}

func TestSourceMutationsStayInSync(t *testing.T) {
	list := flatList("a", "b", "c", "d")
	p := New(list)
	require.NoError(t, p.SetFilter(func(it *model.Item) (bool, error) { return it.Text != "hidden", nil }))
	r := record(t, p)

	require.NoError(t, list.Insert(2, leaf("x", ""), leaf("y", "")))
	r.requireInSync()
	require.NoError(t, list.RemoveAt(0, 2))
	r.requireInSync()
	require.NoError(t, list.Move(0, 3))
	r.requireInSync()
	require.NoError(t, list.Replace(1, leaf("q", "")))
	r.requireInSync()
	hidden := leaf("h", "")
	hidden.Text = "hidden"
	list.Append(hidden)
	r.requireInSync()
	list.Assign([]*model.Item{leaf("k", "")})
	r.requireInSync()

	assert.Equal(t, []string{"k"}, rowNames(p.Items()))
	assert.Equal(t, ActionReset, r.changes[len(r.changes)-1].Action)
}

func TestSourceAddKeepsIdentity(t *testing.T) {
	list := flatList("a", "b")
	p := New(list)
	b := p.ItemByKey("b")
	list.Append(leaf("c", ""))
	assert.Same(t, b, p.ItemByKey("b"))
	assert.Equal(t, 1, b.SourceIndex())
	require.NoError(t, list.Insert(0, leaf("z", "")))
	assert.Same(t, b, p.ItemByKey("b"))
	assert.Equal(t, 2, b.SourceIndex())
	assert.Equal(t, 2, p.IndexOf(b))
}

func TestWindow(t *testing.T) {
	p := New(flatList("a", "b", "c"))

	rows, err := p.Window(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, rowNames(rows))

	_, err = p.Window(-1, 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = p.Window(2, 4)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = p.Window(2, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Nil(t, p.At(3))
	assert.Equal(t, -1, p.IndexByKey("nope"))
}

func TestCloseDetachesFromSource(t *testing.T) {
	list := flatList("a")
	p := New(list)
	p.Close()
	list.Append(leaf("b", ""))
	assert.Equal(t, 1, p.Count())
}

func TestDump(t *testing.T) {
	p := New(flatList("a", "b", "c"))
	require.NoError(t, p.SetFilter(textContains("b")))
	var buf bytes.Buffer
	p.Dump(&buf)
	out := buf.String()
	assert.Contains(t, out, "FilterMap")
	assert.Contains(t, out, "InternalMap")
	assert.Contains(t, out, `"b"`)
}
