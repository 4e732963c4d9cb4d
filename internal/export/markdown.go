package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/listview/internal/projection"
)

// ExportToMarkdown writes rows to a markdown file, see Markdown
func ExportToMarkdown(title string, rows []*projection.Item, checks bool, filePath string) error {
	var sb strings.Builder
	if err := Markdown(&sb, title, rows, checks); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// Markdown writes projected rows as an unordered list below a title
// heading. Rows are indented by depth (2 spaces per level); with checks
// every bullet gets a task box showing its check state. Group headers
// become headings, other decoration rows are left out.
func Markdown(w io.Writer, title string, rows []*projection.Item, checks bool) error {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# ")
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	for _, item := range rows {
		switch item.Kind() {
		case projection.KindGroup:
			sb.WriteString("## ")
			sb.WriteString(item.Group())
			sb.WriteString("\n")
			continue
		case projection.KindData:
		default:
			continue
		}

		// Skip empty items; their children move up a level
		if strings.TrimSpace(item.Text()) == "" {
			continue
		}

		sb.WriteString(strings.Repeat("  ", depth(item)))
		sb.WriteString("- ")
		if checks {
			sb.WriteString(taskBox(item.CheckState()))
		}
		sb.WriteString(item.Text())
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func depth(item *projection.Item) int {
	d := 0
	for p := item.Parent(); p != nil; p = p.Parent() {
		if strings.TrimSpace(p.Text()) != "" {
			d++
		}
	}
	return d
}

func taskBox(s projection.CheckState) string {
	switch s {
	case projection.Checked:
		return "[x] "
	case projection.Partial:
		return "[-] "
	}
	return "[ ] "
}
