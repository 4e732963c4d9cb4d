// Package dragndrop computes where dragged rows land in a projection.
package dragndrop

import (
	"errors"
	"fmt"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
)

// DefaultMaxOffset is the share of a node row, measured from its top or
// bottom edge, that drops before or after the node instead of into it
const DefaultMaxOffset = 0.3

// ErrNotDragging is returned when a position is requested outside a drag
var ErrNotDragging = errors.New("no drag in progress")

// Placement is where a drop goes relative to the target row
type Placement uint8

const (
	Before Placement = iota
	After
	On
)

func (p Placement) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	case On:
		return "on"
	}
	return "unknown"
}

// Position is a drop position in display order
type Position struct {
	Index     int
	Placement Placement
	Item      *projection.Item
}

func (p Position) String() string {
	return fmt.Sprintf("%s %d (%s)", p.Placement, p.Index, p.Item)
}

// Parent returns the node the dropped rows become children of, nil for the
// top level. Dropping after the last child of a node keeps them in that node.
func (p Position) Parent() *projection.Item {
	if p.Item == nil {
		return nil
	}
	if p.Placement == On {
		return p.Item
	}
	return p.Item.Parent()
}

// Offset is the pointer position inside the target row, as fractions of
// its height from the top and from the bottom edge
type Offset struct {
	Top    float64
	Bottom float64
}

// Params describe one pointer move
type Params struct {
	Target *projection.Item
	// Offset is nil when the pointer position inside the row is unknown
	Offset *Offset
	// Current is the position last shown, nil before the first one
	Current *Position
}

// Model is what a drag strategy reads from the projection
type Model interface {
	IndexOf(item *projection.Item) int
	IndexByKey(key model.Key) int
	ItemByKey(key model.Key) *projection.Item
}

// TreeModel adds hierarchy queries
type TreeModel interface {
	Model
	Children(key model.Key) []*projection.Item
}

var _ TreeModel = (*projection.Projection)(nil)

// Strategy computes drop positions
type Strategy interface {
	// CalculatePosition returns false while hovering a row that cannot be
	// a drop target, including the dragged rows themselves
	CalculatePosition(params Params) (Position, bool)
	// DraggableKeys returns every key that moves with the selected keys
	DraggableKeys(selected []model.Key) []model.Key
}
