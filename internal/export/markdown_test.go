package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

func node(id, parent, text string) *model.Item {
	return &model.Item{ID: model.Key(id), ParentID: model.Key(parent), Text: text, Node: true}
}

func leaf(id, parent, text string) *model.Item {
	return &model.Item{ID: model.Key(id), ParentID: model.Key(parent), Text: text}
}

func TestExportToMarkdown(t *testing.T) {
	list := model.NewList(
		node("1", "", "First Item"),
		leaf("1.1", "1", "Nested Item 1"),
		node("1.2", "1", "Nested Item 2"),
		leaf("1.2.1", "1.2", "Deep Item"),
		leaf("2", "", "Second Item"),
	)
	p := projection.New(list, projection.WithHierarchy(""), projection.WithExpandAll())
	defer p.Close()

	outputFile := filepath.Join(t.TempDir(), "test_output.md")
	if err := ExportToMarkdown("Test Outline", p.Items(), false, outputFile); err != nil {
		t.Fatalf("ExportToMarkdown failed: %v", err)
	}

	content, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	expectedContent := `# Test Outline

- First Item
  - Nested Item 1
  - Nested Item 2
    - Deep Item
- Second Item
`

	if string(content) != expectedContent {
		t.Errorf("Output mismatch.\nExpected:\n%s\n\nGot:\n%s", expectedContent, string(content))
	}
}

func TestMarkdownWithEmptyItems(t *testing.T) {
	list := model.NewList(
		node("1", "", "Item with content"),
		node("1.1", "1", ""),
		leaf("1.1.1", "1.1", "Under an empty item"),
		leaf("1.2", "1", "Another item"),
	)
	p := projection.New(list, projection.WithHierarchy(""), projection.WithExpandAll())
	defer p.Close()

	var sb strings.Builder
	if err := Markdown(&sb, "", p.Items(), false); err != nil {
		t.Fatal(err)
	}

	expectedContent := `- Item with content
  - Under an empty item
  - Another item
`
	if sb.String() != expectedContent {
		t.Errorf("Output mismatch.\nExpected:\n%s\n\nGot:\n%s", expectedContent, sb.String())
	}
}

func TestMarkdownChecksAndGroups(t *testing.T) {
	milk := leaf("m", "", "Milk")
	milk.SetAttribute("aisle", "dairy")
	bread := leaf("b", "", "Bread")
	bread.SetAttribute("aisle", "bakery")
	p := projection.New(model.NewList(milk, bread))
	defer p.Close()
	p.SetGroup(func(it *model.Item) string {
		v, _ := it.Field("aisle")
		return v
	})
	p.ItemByKey("m").SetCheckState(projection.Checked)

	var sb strings.Builder
	if err := Markdown(&sb, "", p.Items(), true); err != nil {
		t.Fatal(err)
	}

	expectedContent := `## dairy
- [x] Milk
## bakery
- [ ] Bread
`
	if sb.String() != expectedContent {
		t.Errorf("Output mismatch.\nExpected:\n%s\n\nGot:\n%s", expectedContent, sb.String())
	}
}
