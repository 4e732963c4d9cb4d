package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorString(t *testing.T) {
	tests := []struct {
		in   string
		want tcell.Color
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0)},
		{"#0f0", tcell.NewRGBColor(0, 255, 0)},
		{"rgb(1, 2, 3)", tcell.NewRGBColor(1, 2, 3)},
		{"rgb(1,2)", tcell.ColorDefault},
		{"rgb(300,2,3)", tcell.ColorDefault},
		{"#12345", tcell.ColorDefault},
		{"red", tcell.ColorRed},
		{"nonsense", tcell.ColorDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseColorString(tt.in), tt.in)
	}
}

func TestBlend(t *testing.T) {
	assert.Equal(t, HexToColor("#ffffff"), Blend("#ffffff", "#000000", 0))
	assert.Equal(t, HexToColor("#000000"), Blend("#ffffff", "#000000", 1))
	assert.Equal(t, tcell.ColorDefault, Blend("bad", "#000000", 0.5))
}

func TestLoadThemeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "mine"
[colors]
row_cursor = "#ff0000"
group_header = "rgb(0, 0, 255)"
`), 0644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", th.Name)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), th.Colors.RowCursor)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), th.Colors.GroupHeader)
	assert.Equal(t, TokyoNight().Colors.RowText, th.Colors.RowText, "missing colors fall back")

	require.NoError(t, os.WriteFile(path, []byte("[colors]\nrow_curser = \"#fff\"\n"), 0644))
	_, err = LoadThemeFromFile(path)
	assert.ErrorContains(t, err, "row_curser")
}

func TestLoadThemeOrDefault(t *testing.T) {
	assert.Equal(t, "default", LoadThemeOrDefault("default").Name)
	assert.Equal(t, "tokyo-night", LoadThemeOrDefault("does-not-exist").Name)
}
