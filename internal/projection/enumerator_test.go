package projection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
)

func TestEnumeratorIdentityMap(t *testing.T) {
	p := New(flatList("a", "b", "c", "d", "e"))
	e := p.Enumerator()

	require.Equal(t, 5, e.Count())
	for i := 0; i < 5; i++ {
		src, ok := e.SourceByInternal(i)
		require.True(t, ok)
		assert.Equal(t, i, src)
	}
	assert.Equal(t, int(p.m.filter.GetCardinality()), e.Count())
}

func TestEnumeratorRoundTrip(t *testing.T) {
	p := New(flatList("a1", "b", "a2", "c", "a3"))
	require.NoError(t, p.SetFilter(textContains("a")))
	e := p.Enumerator()

	require.Equal(t, 3, e.Count())
	assert.Equal(t, int(p.m.filter.GetCardinality()), e.Count())
	prev := -1
	for i := 0; i < e.Count(); i++ {
		src, ok := e.SourceByInternal(i)
		require.True(t, ok)
		assert.Greater(t, src, prev, "internal map must be increasing under identity sort")
		prev = src
		back, ok := e.InternalBySource(src)
		require.True(t, ok)
		assert.Equal(t, i, back)
	}
	_, ok := e.InternalBySource(1)
	assert.False(t, ok, "filtered out source position")
	_, ok = e.InternalBySource(99)
	assert.False(t, ok)
	_, ok = e.SourceByInternal(3)
	assert.False(t, ok)
}

func TestEnumeratorFollowsSort(t *testing.T) {
	p := New(flatList("a", "b", "c"))
	p.SetSort(byTextDesc)
	e := p.Enumerator()
	assert.Equal(t, []string{"c", "b", "a"}, rowNames(e.Items()))
	src, _ := e.SourceByInternal(0)
	assert.Equal(t, 2, src)
}

func TestEnumeratorSetPosition(t *testing.T) {
	p := New(flatList("a", "b", "c", "d", "e"))
	e := p.Enumerator()

	tests := []struct {
		pos     int
		wantErr bool
	}{
		{-2, true},
		{-1, false},
		{0, false},
		{4, false},
		{5, true},
	}
	for _, tt := range tests {
		err := e.SetPosition(tt.pos)
		if !tt.wantErr {
			assert.NoError(t, err, "position %d", tt.pos)
			assert.Equal(t, tt.pos, e.Position())
			continue
		}
		require.Error(t, err, "position %d", tt.pos)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
		var oob *OutOfBoundsError
		require.True(t, errors.As(err, &oob))
		assert.Equal(t, tt.pos, oob.Position)
		assert.Equal(t, 5, oob.Count)
	}
}

func TestEnumeratorBoundaries(t *testing.T) {
	p := New(flatList("a", "b"))
	e := p.Enumerator()

	assert.Nil(t, e.Current())
	assert.Nil(t, e.Previous())
	assert.Equal(t, "a", e.Next().String())
	assert.Equal(t, "b", e.Next().String())
	assert.Nil(t, e.Next())
	assert.Equal(t, "b", e.Current().String(), "cursor stays on the last row")
	assert.Equal(t, "a", e.Previous().String())
	assert.Nil(t, e.Previous())
	assert.Nil(t, e.At(-1))
	assert.Nil(t, e.At(2))
}

func TestEnumeratorKeepsCurrentAcrossReIndex(t *testing.T) {
	list := flatList("a", "b", "c")
	p := New(list)
	e := p.Enumerator()
	require.NoError(t, e.SetPosition(2))
	current := e.Current()

	require.NoError(t, list.Insert(0, leaf("x", "")))
	assert.Same(t, current, e.Current())
	assert.Equal(t, 3, e.Position())

	e.ReIndex()
	assert.Same(t, current, e.Current())
	assert.Equal(t, 3, e.Position())

	p.SetSort(byTextDesc)
	assert.Same(t, current, e.Current())
	assert.Equal(t, 1, e.Position())

	require.NoError(t, p.SetFilter(textContains("a")))
	assert.Nil(t, e.Current(), "current left the projection")
	assert.Equal(t, -1, e.Position())
}

func TestEnumeratorIndicesByValue(t *testing.T) {
	items := []*model.Item{leaf("a", ""), leaf("b", ""), leaf("c", "")}
	items[0].SetAttribute("status", "open")
	items[1].SetAttribute("status", "done")
	items[2].SetAttribute("status", "open")
	p := New(model.NewList(items...))
	e := p.Enumerator()

	assert.Equal(t, []int{0, 2}, e.IndicesByValue("status", "open"))
	assert.Equal(t, []int{1}, e.IndicesByValue("status", "done"))
	assert.Empty(t, e.IndicesByValue("status", "later"))

	p.SetSort(byTextDesc)
	assert.Equal(t, []int{0, 2}, e.IndicesByValue("status", "open"))
	assert.Equal(t, []int{1}, e.IndicesByValue("id", "b"))
}
