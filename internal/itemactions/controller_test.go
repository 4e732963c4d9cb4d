package itemactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

func rows(ids ...string) (*model.List, *projection.Projection) {
	items := make([]*model.Item, len(ids))
	for i, id := range ids {
		items[i] = &model.Item{ID: model.Key(id), Text: id}
	}
	list := model.NewList(items...)
	return list, projection.New(list)
}

func ids(shown []Shown) []string {
	out := make([]string, len(shown))
	for i, s := range shown {
		if s.IsMenu {
			out[i] = "menu"
			continue
		}
		out[i] = s.ID
	}
	return out
}

func actionIDs(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

var standard = []Action{
	{ID: "edit", Title: "Edit", Icon: "✎", ShowType: Toolbar},
	{ID: "delete", Title: "Delete", Icon: "✗", ShowType: MenuToolbar},
	{ID: "copy", Title: "Copy", ShowType: Menu},
	{ID: "move", Title: "Move", ShowType: Menu, Submenu: true},
	{ID: "move-up", Title: "Up", Parent: "move"},
	{ID: "move-down", Title: "Down", Parent: "move"},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		wantErr bool
	}{
		{"standard", standard, false},
		{"empty", nil, false},
		{"missing id", []Action{{Title: "x"}}, true},
		{"duplicate", []Action{{ID: "a"}, {ID: "a"}}, true},
		{"unknown parent", []Action{{ID: "a", Parent: "b"}}, true},
		{"parent is not a sub-menu", []Action{{ID: "b"}, {ID: "a", Parent: "b"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.actions)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAction)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := NewController([]Action{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestToolbar(t *testing.T) {
	_, p := rows("1")
	item := p.ItemByKey("1")

	tests := []struct {
		name    string
		actions []Action
		opts    []Option
		want    []string
	}{
		{"toolbar and menu", standard, nil, []string{"edit", "delete", "menu"}},
		{"toolbar only", []Action{{ID: "a", ShowType: Toolbar}, {ID: "b", ShowType: Fixed}}, nil, []string{"a", "b"}},
		{"lone menu action shown directly", []Action{{ID: "a", ShowType: Menu}}, nil, []string{"a"}},
		{"two menu actions", []Action{{ID: "a"}, {ID: "b"}}, nil, []string{"menu"}},
		{"menu action also on toolbar", []Action{{ID: "a", ShowType: MenuToolbar}}, nil, []string{"a"}},
		{"menu action not on toolbar", []Action{{ID: "a", ShowType: Toolbar}, {ID: "b"}}, nil, []string{"a", "menu"}},
		{"header forces the menu", []Action{{ID: "a", ShowType: Toolbar}}, []Option{WithMenuHeader()}, []string{"a", "menu"}},
		{"no actions", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(tt.actions, tt.opts...)
			require.NoError(t, err)
			set := c.For(item)
			if tt.want == nil {
				assert.Empty(t, set.Toolbar)
				return
			}
			assert.Equal(t, tt.want, ids(set.Toolbar))
		})
	}
}

func TestVisibilityCallbackIsCached(t *testing.T) {
	_, p := rows("1", "2")
	calls := 0
	c, err := NewController(standard, WithVisibility(func(a Action, item *model.Item, editing bool) bool {
		calls++
		return !(a.ID == "delete" && item.ID == "2")
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"edit", "delete", "menu"}, ids(c.For(p.ItemByKey("1")).Toolbar))
	assert.Equal(t, []string{"edit", "menu"}, ids(c.For(p.ItemByKey("2")).Toolbar))

	before := calls
	c.Update(p.Items())
	assert.Equal(t, before, calls, "results are cached")

	c.Invalidate("2")
	c.Update(p.Items())
	assert.Greater(t, calls, before)
}

func TestCapacity(t *testing.T) {
	_, p := rows("1")
	item := p.ItemByKey("1")
	actions := []Action{
		{ID: "a", ShowType: Toolbar},
		{ID: "b", ShowType: Toolbar},
		{ID: "pin", ShowType: Fixed},
		{ID: "c", ShowType: Toolbar},
	}

	c, err := NewController(actions, WithCapacity(4))
	require.NoError(t, err)
	set := c.For(item)
	assert.Equal(t, []string{"a", "b", "pin", "c"}, ids(set.Toolbar))
	assert.False(t, set.HasMenu())

	c, _ = NewController(actions, WithCapacity(3))
	set = c.For(item)
	assert.Equal(t, []string{"a", "pin", "menu"}, ids(set.Toolbar))
	assert.Equal(t, []string{"b", "c"}, set.Overflow)
	assert.Equal(t, []string{"b", "c"}, actionIDs(c.MenuActions(item, "")), "overflow goes to the menu")

	c, _ = NewController(actions, WithCapacity(1))
	set = c.For(item)
	assert.Equal(t, []string{"pin", "menu"}, ids(set.Toolbar), "fixed actions stay")
}

func TestMenuActions(t *testing.T) {
	_, p := rows("1")
	item := p.ItemByKey("1")
	c, err := NewController(standard, WithVisibility(func(a Action, _ *model.Item, _ bool) bool {
		return a.ID != "move-down"
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"delete", "copy", "move"}, actionIDs(c.MenuActions(item, "")))
	assert.Equal(t, []string{"move-up"}, actionIDs(c.MenuActions(item, "move")))
	assert.Empty(t, c.MenuActions(nil, ""))
}

func TestEditingRow(t *testing.T) {
	_, p := rows("1", "2")
	c, err := NewController(standard, WithVisibility(func(a Action, _ *model.Item, editing bool) bool {
		return editing == (a.ID == "edit")
	}))
	require.NoError(t, err)

	c.SetEditing("1", true)
	changed := c.Update(p.Items())
	assert.Equal(t, []model.Key{"1"}, changed, "only the edited row is updated")
	assert.Equal(t, []string{"edit"}, ids(c.For(p.ItemByKey("1")).Toolbar))

	c.SetEditing("1", false)
	changed = c.Update(p.Items())
	assert.ElementsMatch(t, []model.Key{"1", "2"}, changed)
	assert.Equal(t, []string{"delete", "menu"}, ids(c.For(p.ItemByKey("2")).Toolbar))
}

func TestActiveRow(t *testing.T) {
	c, err := NewController(standard)
	require.NoError(t, err)
	_, ok := c.Active()
	assert.False(t, ok)
	c.SetActive("1")
	key, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, model.Key("1"), key)
	c.ClearActive()
	_, ok = c.Active()
	assert.False(t, ok)
}

func TestAttachDropsRemovedRows(t *testing.T) {
	list, p := rows("1", "2")
	calls := 0
	c, err := NewController(standard, WithVisibility(func(Action, *model.Item, bool) bool {
		calls++
		return true
	}))
	require.NoError(t, err)
	c.Attach(p)
	defer c.Close()

	c.Update(p.Items())
	require.NoError(t, list.Remove("2"))
	_, stored := c.sets["2"]
	assert.False(t, stored)

	list.Append(&model.Item{ID: "3", Text: "3"})
	_, stored = c.sets["3"]
	assert.True(t, stored, "added rows are computed")
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "✎", shown(Action{Title: "Edit", Icon: "✎"}).Label())
	assert.Equal(t, "Edit", shown(Action{Title: "Edit"}).Label())
	assert.Equal(t, "✎ Edit", shown(Action{Title: "Edit", Icon: "✎", Display: DisplayBoth}).Label())
	assert.Equal(t, "Edit", shown(Action{Title: "Edit", Icon: "✎", Display: DisplayTitle}).Label())
	assert.Equal(t, "Edit", Action{Title: "Edit"}.TooltipText())

	st, err := ParseShowType("menu-toolbar")
	require.NoError(t, err)
	assert.Equal(t, MenuToolbar, st)
	_, err = ParseShowType("sideways")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
