package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/listview/internal/itemactions"
	"github.com/pstuifzand/listview/internal/selection"
	"github.com/pstuifzand/listview/internal/virtualscroll"
)

// Config holds application configuration
type Config struct {
	Theme     string            `toml:"theme"`
	View      View              `toml:"view"`
	Selection Selection         `toml:"selection"`
	DragNDrop DragNDrop         `toml:"dragndrop"`
	Actions   Actions           `toml:"actions"`
	Log       Log               `toml:"log"`
	Settings  map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// View configures the render window
type View struct {
	VirtualPageSize  int    `toml:"virtual_page_size"`
	SegmentSize      int    `toml:"segment_size"`
	PortionedLoading bool   `toml:"portioned_loading"`
	TriggerOffset    int    `toml:"trigger_offset"`
	DateFormat       string `toml:"date_format"`
	ExpandAll        bool   `toml:"expand_all"`
}

// Selection configures the selection strategies
type Selection struct {
	Limit              int    `toml:"limit"`
	SelectionType      string `toml:"selection_type"`
	CountMode          string `toml:"count_mode"`
	RecursiveSelection bool   `toml:"recursive_selection"`
	SelectDescendants  bool   `toml:"select_descendants"`
	SelectAncestors    bool   `toml:"select_ancestors"`
}

// DragNDrop configures drag positioning
type DragNDrop struct {
	MaxOffset float64 `toml:"max_offset"`
}

// Action is one entry of [[actions.items]]
type Action struct {
	ID      string `toml:"id"`
	Title   string `toml:"title"`
	Icon    string `toml:"icon"`
	Tooltip string `toml:"tooltip,omitempty"`
	Show    string `toml:"show"`
	Parent  string `toml:"parent,omitempty"`
	Submenu bool   `toml:"submenu,omitempty"`
	Key     string `toml:"key,omitempty"`
}

// Actions configures the row toolbar
type Actions struct {
	Capacity   int      `toml:"capacity"`
	MenuHeader bool     `toml:"menu_header"`
	Items      []Action `toml:"items"`
}

// Log configures the log file
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return Default(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from the defaults so missing keys keep them
	config := Default()
	config.Actions.Items = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Actions.Items == nil {
		config.Actions.Items = defaultActions()
	}

	if config.Theme == "" {
		config.Theme = "default"
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

func defaultActions() []Action {
	return []Action{
		{ID: "open", Title: "Open", Icon: "▸", Show: "toolbar", Key: "o"},
		{ID: "delete", Title: "Delete", Icon: "✗", Show: "menu-toolbar", Key: "D"},
		{ID: "copy", Title: "Copy key", Show: "menu", Key: "y"},
	}
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Theme: "default",
		View: View{
			VirtualPageSize: 40,
			SegmentSize:     20,
			TriggerOffset:   2,
			DateFormat:      "%Y-%m-%d",
		},
		Selection: Selection{
			SelectionType:     "all",
			CountMode:         "all",
			SelectDescendants: true,
			SelectAncestors:   true,
		},
		DragNDrop: DragNDrop{MaxOffset: 0.3},
		Actions:   Actions{Capacity: 3, Items: defaultActions()},
		Log:       Log{Level: "info", File: "listview.log"},

		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", "listview")
	return configDir, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

func parseSelectionType(s string) (selection.SelectionType, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return selection.SelectAny, nil
	case "node":
		return selection.SelectNodes, nil
	case "leaf":
		return selection.SelectLeaves, nil
	}
	return selection.SelectAny, fmt.Errorf("unknown selection_type %q", s)
}

func parseCountMode(s string) (selection.CountMode, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return selection.CountAll, nil
	case "node":
		return selection.CountNodes, nil
	case "leaf":
		return selection.CountLeaves, nil
	}
	return selection.CountAll, fmt.Errorf("unknown count_mode %q", s)
}

// TreeOptions converts the selection section for the tree strategy
func (s Selection) TreeOptions() (selection.TreeOptions, error) {
	typ, err := parseSelectionType(s.SelectionType)
	if err != nil {
		return selection.TreeOptions{}, err
	}
	count, err := parseCountMode(s.CountMode)
	if err != nil {
		return selection.TreeOptions{}, err
	}
	opts := selection.TreeOptions{
		SelectDescendants:  s.SelectDescendants,
		SelectAncestors:    s.SelectAncestors,
		Type:               typ,
		RecursiveSelection: s.RecursiveSelection,
		CountMode:          count,
	}
	return opts, opts.Validate()
}

// Calculator converts the view section for the window calculator
func (v View) Calculator(viewport int) virtualscroll.Config {
	return virtualscroll.Config{
		PageSize:         v.VirtualPageSize,
		SegmentSize:      v.SegmentSize,
		Viewport:         viewport,
		Triggers:         virtualscroll.TriggerOffsets{Backward: v.TriggerOffset, Forward: v.TriggerOffset},
		PortionedLoading: v.PortionedLoading,
	}
}

// Build converts the configured items to actions
func (a Actions) Build() ([]itemactions.Action, error) {
	out := make([]itemactions.Action, 0, len(a.Items))
	for _, item := range a.Items {
		show, err := itemactions.ParseShowType(item.Show)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", item.ID, err)
		}
		action := itemactions.Action{
			ID:       item.ID,
			Title:    item.Title,
			Icon:     item.Icon,
			Tooltip:  item.Tooltip,
			ShowType: show,
			Parent:   item.Parent,
			Submenu:  item.Submenu,
		}
		if r := []rune(item.Key); len(r) == 1 {
			action.Key = r[0]
		} else if len(r) > 1 {
			return nil, fmt.Errorf("action %q: key %q is not a single character", item.ID, item.Key)
		}
		out = append(out, action)
	}
	if err := itemactions.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the sections that are converted to engine options
func (c *Config) Validate() error {
	if c.View.VirtualPageSize < 0 || c.View.SegmentSize < 0 {
		return fmt.Errorf("view sizes must not be negative")
	}
	if c.Selection.Limit < 0 {
		return fmt.Errorf("selection limit must not be negative")
	}
	if c.DragNDrop.MaxOffset < 0 || c.DragNDrop.MaxOffset > 0.5 {
		return fmt.Errorf("dragndrop max_offset %v outside [0, 0.5]", c.DragNDrop.MaxOffset)
	}
	if _, err := c.Selection.TreeOptions(); err != nil {
		return err
	}
	if _, err := c.Actions.Build(); err != nil {
		return err
	}
	return nil
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to filePath, or to the standard location
// when filePath is empty. Session settings are not written.
func (c *Config) Save(filePath string) error {
	if filePath == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		if err := EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		filePath = configPath
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
