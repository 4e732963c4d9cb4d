package import_parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/storage"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatJSON         ImportFormat = "json"
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
)

// Parser interface for different import formats
type Parser interface {
	Parse(content string) ([]*storage.Record, error)
	Name() string
}

// ImportFile parses content into nested records. Records carry no ids;
// storage.Flatten assigns them.
func ImportFile(content string, format ImportFormat) ([]*storage.Record, error) {
	var parser Parser

	switch format {
	case FormatMarkdown:
		parser = &MarkdownParser{}
	case FormatIndentedText:
		parser = &IndentedTextParser{}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	records, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	return records, nil
}

// DetectFormat picks the format from the file extension. Unknown
// extensions are read as indented text.
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatIndentedText
}

func newRecord(text string) *storage.Record {
	return &storage.Record{Item: model.Item{Text: text}}
}

// builder nests records by level. A record deeper than one below the
// previous one is attached to the deepest open record.
type builder struct {
	roots []*storage.Record
	stack []*storage.Record
}

func (b *builder) add(level int, rec *storage.Record) {
	level = min(max(level, 0), len(b.stack))
	b.stack = b.stack[:level]
	if level == 0 {
		b.roots = append(b.roots, rec)
	} else {
		parent := b.stack[level-1]
		parent.Children = append(parent.Children, rec)
	}
	b.stack = append(b.stack, rec)
}

// note attaches rec below the record opened last without opening it
func (b *builder) note(rec *storage.Record) {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, rec)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, rec)
}

// depth is the level of the record opened last, -1 when there is none
func (b *builder) depth() int {
	return len(b.stack) - 1
}

// indentLevel counts leading blanks, a tab being two spaces, two spaces
// per level
func indentLevel(line string) int {
	indent := 0
	for _, c := range line {
		switch c {
		case ' ':
			indent++
		case '\t':
			indent += 2
		default:
			return indent / 2
		}
	}
	return indent / 2
}
