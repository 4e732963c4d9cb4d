// Package virtualscroll decides which contiguous window of a projection is
// materialized and how that window follows scrolling and data loading.
package virtualscroll

import "fmt"

// Range is a half-open window [Start, End) of display indices
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of rows in the window
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether index is inside the window
func (r Range) Contains(index int) bool { return index >= r.Start && index < r.End }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Direction of a shift or load
type Direction int8

const (
	NoDirection Direction = iota
	Backward
	Forward
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	}
	return "none"
}

// CalcMode tells how the window reacts to added rows
type CalcMode uint8

const (
	// Nothing keeps the window as it is
	Nothing CalcMode = iota
	// Shift slides the window towards the new rows
	Shift
	// Extend grows the window to take in the new rows
	Extend
)

func (m CalcMode) String() string {
	switch m {
	case Shift:
		return "shift"
	case Extend:
		return "extend"
	}
	return "nothing"
}

// ScrollMode tells whether the first visible row keeps its place on screen
// after the window changes
type ScrollMode uint8

const (
	// Fixed keeps the first visible row in place
	Fixed ScrollMode = iota
	// Unfixed lets the content move by the size of what was added
	Unfixed
)

func (m ScrollMode) String() string {
	if m == Unfixed {
		return "unfixed"
	}
	return "fixed"
}

// ModeParams describe a data load
type ModeParams struct {
	Range                  Range
	PageSize               int
	ScrolledToBackwardEdge bool
	ScrolledToForwardEdge  bool
	// NewItemsIndex is where the loaded rows were inserted
	NewItemsIndex int
	// LoadedByTrigger is set when the load was started by the edge trigger
	// becoming visible
	LoadedByTrigger  bool
	PortionedLoading bool
}

func (p ModeParams) filled() bool {
	return p.Range.Len() >= p.PageSize
}

// CalcMode decides how the window reacts to the load
func (p ModeParams) CalcMode() CalcMode {
	if p.LoadedByTrigger {
		// Portioned loading reveals rows in batches; once the page is full
		// the next batch waits.
		if p.PortionedLoading && p.filled() {
			return Nothing
		}
		return Shift
	}
	if p.filled() {
		return Nothing
	}
	if (p.ScrolledToBackwardEdge && p.NewItemsIndex <= p.Range.Start) ||
		(p.ScrolledToForwardEdge && p.NewItemsIndex <= p.Range.End) {
		return Extend
	}
	return Shift
}

// ScrollMode decides whether the scroll offset is corrected after the load
func (p ModeParams) ScrollMode() ScrollMode {
	if p.LoadedByTrigger {
		return Fixed
	}
	if (p.ScrolledToBackwardEdge || p.ScrolledToForwardEdge) && p.filled() {
		return Unfixed
	}
	return Fixed
}
