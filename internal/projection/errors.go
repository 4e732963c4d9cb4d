package projection

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a position lies outside the projection.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrUnknownItem is returned for items that do not belong to the projection.
	ErrUnknownItem = errors.New("unknown item")

	// ErrNotHierarchical is returned by tree operations on a flat projection.
	ErrNotHierarchical = errors.New("projection is not hierarchical")

	// ErrNotNode is returned when expanding an item that can not have children.
	ErrNotNode = errors.New("item is not a node")
)

// OutOfBoundsError carries the rejected position and the size at the time.
//
// It unwraps to ErrOutOfBounds.
type OutOfBoundsError struct {
	Position int
	Count    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %d out of bounds [-1, %d)", e.Position, e.Count)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// PredicateError wraps a failure reported by a filter predicate.
type PredicateError struct {
	Index int
	cause error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("filter failed on source item %d: %v", e.Index, e.cause)
}

func (e *PredicateError) Unwrap() error { return e.cause }
