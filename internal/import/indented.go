package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/listview/internal/storage"
)

// IndentedTextParser imports plain text files with indentation-based hierarchy
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

// Parse turns every non-blank line into a record nested by its indentation
func (p *IndentedTextParser) Parse(content string) ([]*storage.Record, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	var b builder

	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		b.add(indentLevel(line), newRecord(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.roots, nil
}
