package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/listview/internal/model"
)

// Document is the on-disk form of a list. Items may nest children; they are
// flattened into a parent-keyed list on load.
type Document struct {
	Title string    `json:"title,omitempty"`
	Items []*Record `json:"items"`
}

// Record is a stored item with optional nested children
type Record struct {
	model.Item
	Children []*Record `json:"children,omitempty"`
}

// JSONStore handles JSON file persistence
type JSONStore struct {
	FilePath string
}

// NewJSONStore creates a new JSON store for the given file path
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
	}
}

// Load reads the document and returns its title and a list of its items
func (s *JSONStore) Load() (*model.List, string, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty list if file doesn't exist
			return model.NewList(), "Untitled", nil
		}
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("failed to parse JSON: %w", err)
	}

	items, err := Flatten(doc.Items)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", s.FilePath, err)
	}
	return model.NewList(items...), doc.Title, nil
}

// Save writes the items of list as a flat document
func (s *JSONStore) Save(title string, list model.Source) error {
	// Ensure directory exists
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	doc := Document{Title: title, Items: make([]*Record, 0, list.Count())}
	for i := 0; i < list.Count(); i++ {
		doc.Items = append(doc.Items, &Record{Item: *list.At(i)})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FileExists checks if the list file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}

// Flatten turns nested records into source order: every record is followed
// by its children. A record with children becomes a node and its children
// get its id as parent. Records without an id get a generated one.
func Flatten(records []*Record) ([]*model.Item, error) {
	seen := make(map[model.Key]bool)
	var out []*model.Item
	var walk func(records []*Record, parent model.Key) error
	walk = func(records []*Record, parent model.Key) error {
		for _, rec := range records {
			if rec == nil {
				continue
			}
			item := rec.Item
			if item.ID == "" {
				item.ID = model.NewItem("").ID
			}
			if seen[item.ID] {
				return fmt.Errorf("duplicate item id %q", item.ID)
			}
			seen[item.ID] = true
			if parent != "" {
				item.ParentID = parent
			}
			if len(rec.Children) > 0 {
				item.Node = true
			}
			out = append(out, &item)
			if err := walk(rec.Children, item.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(records, ""); err != nil {
		return nil, err
	}
	return out, nil
}
