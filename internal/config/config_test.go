package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/itemactions"
	"github.com/pstuifzand/listview/internal/selection"
)

func TestSessionSettingsOverride(t *testing.T) {
	cfg := Default()
	cfg.Settings["visattr"] = "date"
	assert.Equal(t, "date", cfg.Get("visattr"))

	cfg.Set("visattr", "tags")
	assert.Equal(t, "tags", cfg.Get("visattr"))
	assert.Equal(t, "", cfg.Get("nonexistent"))

	all := cfg.GetAll()
	assert.Equal(t, map[string]string{"visattr": "tags"}, all)

	all["visattr"] = "modified"
	assert.Equal(t, "tags", cfg.Get("visattr"), "GetAll returns a copy")
}

func TestNilSessionSettings(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "", cfg.Get("key"))
	cfg.Set("key", "value")
	assert.Equal(t, "value", cfg.Get("key"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "default", cfg.Theme)
	assert.Equal(t, 40, cfg.View.VirtualPageSize)
	assert.Equal(t, 0.3, cfg.DragNDrop.MaxOffset)
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Selection.TreeOptions()
	require.NoError(t, err)
	assert.Equal(t, selection.TreeOptions{SelectDescendants: true, SelectAncestors: true}, opts)

	vs := cfg.View.Calculator(10)
	assert.Equal(t, 40, vs.PageSize)
	assert.Equal(t, 10, vs.Viewport)
	assert.Equal(t, 2, vs.Triggers.Forward)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme = "tokyo-night"

[view]
virtual_page_size = 100

[selection]
limit = 5
selection_type = "leaf"
count_mode = "leaf"

[[actions.items]]
id = "archive"
title = "Archive"
show = "toolbar"
key = "a"

[settings]
visattr = "date"
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, 100, cfg.View.VirtualPageSize)
	assert.Equal(t, 20, cfg.View.SegmentSize, "missing keys keep defaults")
	assert.Equal(t, 5, cfg.Selection.Limit)
	assert.Equal(t, "date", cfg.Get("visattr"))

	opts, err := cfg.Selection.TreeOptions()
	require.NoError(t, err)
	assert.Equal(t, selection.SelectLeaves, opts.Type)
	assert.Equal(t, selection.CountLeaves, opts.CountMode)

	actions, err := cfg.Actions.Build()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, itemactions.Action{ID: "archive", Title: "Archive", ShowType: itemactions.Toolbar, Key: 'a'}, actions[0])
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().View, cfg.View)
	assert.Len(t, cfg.Actions.Items, 3)
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "theme = "},
		{"selection type", "[selection]\nselection_type = \"branch\""},
		{"options", "[selection]\nselection_type = \"leaf\"\ncount_mode = \"node\""},
		{"max offset", "[dragndrop]\nmax_offset = 0.9"},
		{"action show", "[[actions.items]]\nid = \"x\"\nshow = \"sideways\""},
		{"action key", "[[actions.items]]\nid = \"x\"\nkey = \"ab\""},
		{"duplicate action", "[[actions.items]]\nid = \"x\"\n[[actions.items]]\nid = \"x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Theme = "tokyo-night"
	cfg.Settings["visattr"] = "date"
	cfg.Set("session", "only")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", loaded.Theme)
	assert.Equal(t, "date", loaded.Get("visattr"))
	assert.Equal(t, "", loaded.Get("session"), "session settings are not saved")
	assert.Equal(t, cfg.Actions, loaded.Actions)
}
