package ui

// Binding describes one key for the help overlay
type Binding struct {
	Keys        string
	Description string
}

// DefaultBindings lists the keys handled by ListView
var DefaultBindings = []Binding{
	{"j k ↓ ↑", "Move the cursor"},
	{"PgDn PgUp", "Move a page"},
	{"g G", "First / last row"},
	{"l →", "Expand node or group"},
	{"h ←", "Collapse, or go to the parent"},
	{"E C", "Expand / collapse everything"},
	{"space", "Toggle the selection of the row"},
	{"v", "Set range anchor, again to select the range"},
	{"a", "Select all"},
	{"u", "Unselect all"},
	{"i", "Invert the selection"},
	{"m", "Start dragging the selection, again to drop"},
	{">", "While dragging: drop into the node"},
	{"Esc", "Cancel the drag or the filter"},
	{"/", "Filter rows (try #tag, is:node, ~fuzzy)"},
	{"b", "Toggle breadcrumbs while filtering"},
	{"?", "Show or hide this help"},
	{"q", "Quit"},
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible  bool
	bindings []Binding
	extra    []Binding
}

// NewHelpScreen creates a hidden help screen
func NewHelpScreen(bindings []Binding) *HelpScreen {
	return &HelpScreen{bindings: bindings}
}

// SetActionBindings lists the keys of row actions after the fixed bindings
func (h *HelpScreen) SetActionBindings(extra []Binding) {
	h.extra = extra
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the formatted bindings
func (h *HelpScreen) Lines() []string {
	width := 0
	for _, list := range [][]Binding{h.bindings, h.extra} {
		for _, b := range list {
			width = max(width, StringWidth(b.Keys))
		}
	}

	lines := []string{"Keybindings:", ""}
	for _, b := range h.bindings {
		lines = append(lines, "  "+PadStringToWidth(b.Keys, width)+"  "+b.Description)
	}
	if len(h.extra) > 0 {
		lines = append(lines, "", "Row actions:")
		for _, b := range h.extra {
			lines = append(lines, "  "+PadStringToWidth(b.Keys, width)+"  "+b.Description)
		}
	}
	return lines
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	style := screen.RowStyle()
	borderStyle := screen.SeparatorStyle()
	titleStyle := screen.HeaderStyle()

	width, height := screen.Size()
	for y := 0; y < height; y++ {
		screen.FillRow(0, y, style)
	}

	startX, startY := 2, 1
	boxWidth := width - 4
	if boxWidth < 4 || height < 4 {
		return
	}

	screen.SetCell(startX, startY, '┌', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY, '┐', borderStyle)

	screen.SetCell(startX, startY+1, '│', borderStyle)
	screen.DrawStringLimited(startX+2, startY+1, " Help (? to close) ", boxWidth-4, titleStyle)
	screen.SetCell(startX+boxWidth-1, startY+1, '│', borderStyle)

	y := startY + 2
	for _, line := range h.Lines() {
		if y >= height-2 {
			break
		}
		screen.SetCell(startX, y, '│', borderStyle)
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, style)
		screen.SetCell(startX+boxWidth-1, y, '│', borderStyle)
		y++
	}

	screen.SetCell(startX, y, '└', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, y, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, y, '┘', borderStyle)
}
