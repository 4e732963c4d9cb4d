package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

func TestCompilePredicateFiltersProjection(t *testing.T) {
	list := model.NewList(
		&model.Item{ID: "1", Text: "alpha"},
		&model.Item{ID: "2", Text: "beta"},
		&model.Item{ID: "3", Text: "alphabet"},
	)
	p := projection.New(list)

	pred, err := CompilePredicate("alpha -bet")
	require.NoError(t, err)
	require.NoError(t, p.SetFilter(pred))
	require.Equal(t, 1, p.Count())
	assert.Equal(t, "alpha", p.At(0).Text())

	_, err = CompilePredicate("(")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	mk := func(id, text, prio string) *model.Item {
		it := &model.Item{ID: model.Key(id), Text: text}
		if prio != "" {
			it.SetAttribute("prio", prio)
		}
		return it
	}
	list := model.NewList(
		mk("1", "b", "2"),
		mk("2", "a", "1"),
		mk("3", "C", ""),
		mk("4", "a", "3"),
	)
	p := projection.New(list)

	cmps, err := ParseSort("text, -prio")
	require.NoError(t, err)
	require.Len(t, cmps, 2)
	p.SetSort(cmps...)

	var keys []string
	for _, it := range p.Items() {
		k, _ := it.Key()
		keys = append(keys, string(k))
	}
	assert.Equal(t, []string{"4", "2", "1", "3"}, keys)

	cmps, err = ParseSort("prio")
	require.NoError(t, err)
	p.SetSort(cmps...)
	k, _ := p.At(3).Key()
	assert.Equal(t, model.Key("3"), k, "missing values sort last")

	_, err = ParseSort("text,-")
	assert.Error(t, err)
}
