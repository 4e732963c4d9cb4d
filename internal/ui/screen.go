package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/listview/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a terminal screen using t
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom wraps an existing tcell screen, such as a simulation screen
// in tests
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the number of
// columns used. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := x
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(col, y, r, style)
		col += w
	}
	return col - x
}

// DrawStringLimited draws text truncated to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillRow paints the rest of row y from x with blanks
func (s *Screen) FillRow(x, y int, style tcell.Style) {
	for ; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize event
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// Theme-aware style methods

func (s *Screen) RowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowText)
}

// RowCursorStyle returns the style for the row under the cursor
func (s *Screen) RowCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowCursor).Reverse(true)
}

func (s *Screen) RowCheckedStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowChecked)
}

func (s *Screen) RowPartialStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowPartial)
}

// RowDraggedStyle returns the style for rows that are being dragged
func (s *Screen) RowDraggedStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowDragged).Dim(true)
}

func (s *Screen) RowReadOnlyStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.RowReadOnly)
}

func (s *Screen) NodeArrowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.NodeArrow)
}

// GroupHeaderStyle returns the style for group header rows
func (s *Screen) GroupHeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.GroupHeader).Bold(true)
}

func (s *Screen) BreadcrumbsStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.Breadcrumbs)
}

func (s *Screen) SeparatorStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.Separator)
}

// DropMarkerStyle returns the style for the drop position marker
func (s *Screen) DropMarkerStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.DropMarker).Bold(true)
}

func (s *Screen) ToolbarButtonStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.ToolbarButton)
}

func (s *Screen) ToolbarMenuStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.ToolbarMenu)
}

// DateColumnStyle returns the style for the modification date column
func (s *Screen) DateColumnStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.DateColumn)
}

// PromptLabelStyle returns the style for the filter prompt label
func (s *Screen) PromptLabelStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.PromptLabel)
}

// PromptTextStyle returns the style for filter prompt text
func (s *Screen) PromptTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.PromptText)
}

// PromptCursorStyle returns the style for the filter prompt cursor
func (s *Screen) PromptCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.PromptText).Reverse(true)
}

// StatusCountStyle returns the style for the selection counter
func (s *Screen) StatusCountStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusCount).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMessage)
}

func (s *Screen) StatusRangeStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusRange)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.HeaderTitle).Bold(true)
}
