package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/listview/internal/config"
	import_parser "github.com/pstuifzand/listview/internal/import"
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
	"github.com/pstuifzand/listview/internal/selection"
	"github.com/pstuifzand/listview/internal/storage"
)

// isTree reports whether any item of list takes part in a hierarchy
func isTree(list *model.List) bool {
	for _, it := range list.Items() {
		if it.Node || it.ParentID != "" {
			return true
		}
	}
	return false
}

// loadList reads a JSON list, or imports a markdown or indented text file
func loadList(path string) (*model.List, string, error) {
	format := import_parser.DetectFormat(path)
	if format == import_parser.FormatJSON {
		return storage.NewJSONStore(path).Load()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	records, err := import_parser.ImportFile(string(content), format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	items, err := storage.Flatten(records)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return model.NewList(items...), "", nil
}

// openList loads the list file and projects it. Nested files become a tree.
func openList(path string, expandAll bool, log *logging.Logger) (*model.List, string, *projection.Projection, error) {
	list, title, err := loadList(path)
	if err != nil {
		return nil, "", nil, err
	}

	opts := []projection.Option{projection.WithLogger(log)}
	if isTree(list) {
		opts = append(opts, projection.WithHierarchy(""))
		if expandAll {
			opts = append(opts, projection.WithExpandAll())
		}
	}
	return list, title, projection.New(list, opts...), nil
}

// displayTitle is the header of a list without a stored title
func displayTitle(title, path string) string {
	if title == "" {
		return filepath.Base(path)
	}
	return title
}

// newSelection picks the strategy that matches the projection
func newSelection(p *projection.Projection, cfg *config.Config, log *logging.Logger) (*selection.Controller, error) {
	var strategy selection.Strategy = selection.NewFlat(p)
	if p.IsHierarchical() {
		opts, err := cfg.Selection.TreeOptions()
		if err != nil {
			return nil, err
		}
		tree, err := selection.NewTree(p, opts)
		if err != nil {
			return nil, fmt.Errorf("selection: %w", err)
		}
		strategy = tree
	}
	return selection.NewController(p, strategy,
		selection.WithLimit(cfg.Selection.Limit),
		selection.WithLogger(log),
	), nil
}
