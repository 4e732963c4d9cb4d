package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/listview/internal/storage"
)

// MarkdownParser imports markdown files. Headings nest by their level,
// bullets nest below the last heading by indentation and other text lines
// become children of the record before them. Task boxes are kept in the
// "done" attribute.
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

func (p *MarkdownParser) Parse(content string) ([]*storage.Record, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	var b builder
	// level of the first bullet below the current heading
	base := 0

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if level, text, ok := parseHeader(line); ok {
			b.add(level, newRecord(text))
			base = b.depth() + 1
			continue
		}

		if level, text, ok := parseListItem(line); ok {
			rec := newRecord(text)
			if done, rest, ok := parseTaskBox(text); ok {
				rec.Text = rest
				rec.SetAttribute("done", done)
			}
			b.add(base+level, rec)
			continue
		}

		b.note(newRecord(strings.TrimSpace(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.roots, nil
}

// parseHeader returns the 0-based level and text of a "#" heading
func parseHeader(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || (level < len(line) && line[level] != ' ') {
		return 0, "", false
	}
	return level - 1, strings.TrimSpace(line[level:]), true
}

// parseListItem returns the indentation level and text of a bullet
func parseListItem(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || !strings.ContainsRune("-*+", rune(trimmed[0])) || trimmed[1] != ' ' {
		return 0, "", false
	}
	return indentLevel(line), strings.TrimSpace(trimmed[2:]), true
}

func parseTaskBox(text string) (done, rest string, ok bool) {
	switch {
	case strings.HasPrefix(text, "[ ] "):
		return "false", strings.TrimSpace(text[4:]), true
	case strings.HasPrefix(text, "[x] "), strings.HasPrefix(text, "[X] "):
		return "true", strings.TrimSpace(text[4:]), true
	}
	return "", "", false
}
