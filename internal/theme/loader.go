package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

// fields maps the TOML color names onto the theme
func fields(c *Colors) map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"row_text":       &c.RowText,
		"row_cursor":     &c.RowCursor,
		"row_checked":    &c.RowChecked,
		"row_partial":    &c.RowPartial,
		"row_dragged":    &c.RowDragged,
		"row_readonly":   &c.RowReadOnly,
		"node_arrow":     &c.NodeArrow,
		"group_header":   &c.GroupHeader,
		"breadcrumbs":    &c.Breadcrumbs,
		"separator":      &c.Separator,
		"drop_marker":    &c.DropMarker,
		"toolbar_button": &c.ToolbarButton,
		"toolbar_menu":   &c.ToolbarMenu,
		"date_column":    &c.DateColumn,
		"prompt_label":   &c.PromptLabel,
		"prompt_text":    &c.PromptText,
		"status_count":   &c.StatusCount,
		"status_message": &c.StatusMessage,
		"status_range":   &c.StatusRange,
		"header_title":   &c.HeaderTitle,
	}
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "listview", "themes"),
		filepath.Join(home, ".local", "share", "listview", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme on top of Tokyo Night.
// Unknown color names are an error so typos do not go unnoticed.
func configToTheme(config ThemeConfig) (*Theme, error) {
	t := TokyoNight()
	targets := fields(&t.Colors)

	names := make([]string, 0, len(config.Colors))
	for name := range config.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		target, ok := targets[name]
		if !ok {
			return nil, fmt.Errorf("unknown theme color %q", name)
		}
		*target = ParseColorString(config.Colors[name])
	}

	if config.Name != "" {
		t.Name = config.Name
	}
	return t, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
