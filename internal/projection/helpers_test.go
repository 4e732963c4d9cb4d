package projection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
)

func leaf(id, parent string) *model.Item {
	return &model.Item{ID: model.Key(id), ParentID: model.Key(parent), Text: id}
}

func node(id, parent string) *model.Item {
	return &model.Item{ID: model.Key(id), ParentID: model.Key(parent), Text: id, Node: true}
}

func flatList(ids ...string) *model.List {
	items := make([]*model.Item, len(ids))
	for i, id := range ids {
		items[i] = leaf(id, "")
	}
	return model.NewList(items...)
}

func rowNames(rows []*Item) []string {
	out := make([]string, len(rows))
	for i, it := range rows {
		out[i] = it.String()
	}
	return out
}

func textContains(sub string) Predicate {
	return func(it *model.Item) (bool, error) {
		return strings.Contains(it.Text, sub), nil
	}
}

func byTextDesc(a, b *model.Item) int {
	return strings.Compare(b.Text, a.Text)
}

// recorder mirrors the display order by replaying change notifications.
type recorder struct {
	t       *testing.T
	p       *Projection
	rows    []*Item
	changes []Change
}

func record(t *testing.T, p *Projection) *recorder {
	r := &recorder{t: t, p: p, rows: p.Items()}
	p.Subscribe(func(c Change) {
		r.changes = append(r.changes, c)
		if c.Action == ActionReset {
			r.rows = p.Items()
			return
		}
		r.rows = Apply(r.rows, c)
	})
	return r
}

func (r *recorder) requireInSync() {
	r.t.Helper()
	require.Equal(r.t, rowNames(r.p.Items()), rowNames(r.rows))
}

func (r *recorder) reset() { r.changes = nil }
