package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// List rows
	RowText       tcell.Color
	RowCursor     tcell.Color
	RowChecked    tcell.Color
	RowPartial    tcell.Color
	RowDragged    tcell.Color
	RowReadOnly   tcell.Color
	NodeArrow     tcell.Color
	GroupHeader   tcell.Color
	Breadcrumbs   tcell.Color
	Separator     tcell.Color
	DropMarker    tcell.Color
	ToolbarButton tcell.Color
	ToolbarMenu   tcell.Color
	DateColumn    tcell.Color

	// Search / filter prompt
	PromptLabel tcell.Color
	PromptText  tcell.Color

	// Status line
	StatusCount   tcell.Color
	StatusMessage tcell.Color
	StatusRange   tcell.Color

	// Header
	HeaderTitle tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	d := tcell.ColorDefault
	return &Theme{
		Name: "default",
		Colors: Colors{
			RowText:       d,
			RowCursor:     d,
			RowChecked:    d,
			RowPartial:    d,
			RowDragged:    d,
			RowReadOnly:   d,
			NodeArrow:     d,
			GroupHeader:   d,
			Breadcrumbs:   d,
			Separator:     d,
			DropMarker:    d,
			ToolbarButton: d,
			ToolbarMenu:   d,
			DateColumn:    d,
			PromptLabel:   d,
			PromptText:    d,
			StatusCount:   d,
			StatusMessage: d,
			StatusRange:   d,
			HeaderTitle:   d,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	text := HexToColor("#c0caf5")
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			RowText:       text,
			RowCursor:     HexToColor("#7aa2f7"), // Blue
			RowChecked:    HexToColor("#9ece6a"), // Green
			RowPartial:    HexToColor("#e0af68"), // Yellow
			RowDragged:    Blend("#c0caf5", "#1a1b26", 0.5),
			RowReadOnly:   HexToColor("#565f89"), // Comment gray
			NodeArrow:     HexToColor("#7dcfff"), // Cyan
			GroupHeader:   HexToColor("#bb9af7"), // Magenta
			Breadcrumbs:   HexToColor("#7dcfff"),
			Separator:     HexToColor("#3b4261"),
			DropMarker:    HexToColor("#ff9e64"), // Orange
			ToolbarButton: HexToColor("#7aa2f7"),
			ToolbarMenu:   HexToColor("#565f89"),
			DateColumn:    HexToColor("#565f89"),
			PromptLabel:   HexToColor("#bb9af7"),
			PromptText:    text,
			StatusCount:   HexToColor("#9ece6a"),
			StatusMessage: HexToColor("#9ece6a"),
			StatusRange:   HexToColor("#565f89"),
			HeaderTitle:   HexToColor("#bb9af7"),
		},
	}
}
