package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manager handles loading and saving prompt histories to TOML files
type Manager struct {
	historyDir string
}

// HistoryFile represents the structure of a history TOML file
type HistoryFile struct {
	Entries []string `toml:"entries"`
}

// DefaultDir returns ~/.local/share/listview/history
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "listview", "history"), nil
}

// NewManager creates a history manager storing its files in dir
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("history dir: %w", err)
	}
	return &Manager{historyDir: dir}, nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.historyDir, name+".toml")
}

// Load returns the entries of the named history, oldest first
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var histFile HistoryFile
	if err := toml.Unmarshal(data, &histFile); err != nil {
		// A corrupted history is dropped rather than blocking startup
		return []string{}, nil
	}

	return histFile.Entries, nil
}

// Save replaces the named history with entries
func (m *Manager) Save(name string, entries []string) error {
	data, err := toml.Marshal(HistoryFile{Entries: entries})
	if err != nil {
		return err
	}

	return os.WriteFile(m.path(name), data, 0644)
}
