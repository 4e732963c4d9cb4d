// Package itemactions decides which actions a row offers on its toolbar and
// which are folded into its menu.
package itemactions

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAction is returned for action lists that can not be shown
	ErrInvalidAction = errors.New("invalid action")
)

// ShowType tells where an action appears
type ShowType uint8

const (
	// Menu actions only appear in the menu
	Menu ShowType = iota
	// MenuToolbar actions appear on the toolbar and in the menu
	MenuToolbar
	// Toolbar actions only appear on the toolbar
	Toolbar
	// Fixed actions stay on the toolbar even when it overflows
	Fixed
)

var showTypeNames = map[ShowType]string{
	Menu:        "menu",
	MenuToolbar: "menu-toolbar",
	Toolbar:     "toolbar",
	Fixed:       "fixed",
}

func (s ShowType) String() string {
	if name, ok := showTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ShowType(%d)", s)
}

// ParseShowType converts a config value to a ShowType
func ParseShowType(s string) (ShowType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Menu, nil
	}
	for t, name := range showTypeNames {
		if name == s {
			return t, nil
		}
	}
	return Menu, fmt.Errorf("%w: unknown show type %q", ErrInvalidAction, s)
}

// DisplayMode tells which of title and icon a toolbar button shows
type DisplayMode uint8

const (
	DisplayAuto DisplayMode = iota
	DisplayTitle
	DisplayIcon
	DisplayBoth
)

// Action is one operation a row can offer
type Action struct {
	ID       string
	Title    string
	Icon     string
	Tooltip  string
	ShowType ShowType
	Display  DisplayMode
	// Parent is the ID of the sub-menu action this action belongs to
	Parent string
	// Submenu marks an action that opens the menu of its children
	Submenu bool
	// Key is the key binding that triggers the action
	Key rune
}

func (a Action) showsIcon() bool {
	return a.Icon != "" && a.Display != DisplayTitle
}

func (a Action) showsTitle() bool {
	if a.Title == "" {
		return false
	}
	switch a.Display {
	case DisplayTitle, DisplayBoth:
		return true
	case DisplayAuto:
		return a.Icon == ""
	}
	return false
}

// TooltipText returns the tooltip, falling back to the title
func (a Action) TooltipText() string {
	if a.Tooltip != "" {
		return a.Tooltip
	}
	return a.Title
}

func (a Action) inMenu() bool {
	return a.ShowType == Menu || a.ShowType == MenuToolbar
}

func (a Action) onToolbar() bool {
	return a.ShowType != Menu
}

// Shown is an action as placed on a toolbar
type Shown struct {
	Action
	// IsMenu marks the button that opens the menu
	IsMenu  bool
	Caption string
	Glyph   string
}

// Label is the text a terminal toolbar draws for the button
func (s Shown) Label() string {
	switch {
	case s.Glyph != "" && s.Caption != "":
		return s.Glyph + " " + s.Caption
	case s.Glyph != "":
		return s.Glyph
	}
	return s.Caption
}

// MenuGlyph is drawn on the menu button
const MenuGlyph = "⋯"

func menuButton() Shown {
	return Shown{IsMenu: true, Glyph: MenuGlyph, Action: Action{Title: "More", Icon: MenuGlyph}}
}

func shown(a Action) Shown {
	s := Shown{Action: a}
	if a.showsIcon() {
		s.Glyph = a.Icon
	}
	if a.showsTitle() {
		s.Caption = a.Title
	}
	return s
}

// Validate checks for duplicate IDs and for children of unknown sub-menus
func Validate(actions []Action) error {
	ids := make(map[string]Action, len(actions))
	for _, a := range actions {
		if a.ID == "" {
			return fmt.Errorf("%w: action %q has no id", ErrInvalidAction, a.Title)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidAction, a.ID)
		}
		ids[a.ID] = a
	}
	for _, a := range actions {
		if a.Parent == "" {
			continue
		}
		parent, ok := ids[a.Parent]
		if !ok {
			return fmt.Errorf("%w: %q has unknown parent %q", ErrInvalidAction, a.ID, a.Parent)
		}
		if !parent.Submenu {
			return fmt.Errorf("%w: parent %q of %q is not a sub-menu", ErrInvalidAction, a.Parent, a.ID)
		}
	}
	return nil
}

func sameActions(a, b []Shown) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Icon != b[i].Icon || a[i].ShowType != b[i].ShowType || a[i].IsMenu != b[i].IsMenu {
			return false
		}
	}
	return true
}
