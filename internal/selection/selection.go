// Package selection keeps multi-selection state by item key. A selection is
// either an explicit list of keys or "everything except" a list of keys, so
// selecting a large or partially loaded list never enumerates its keys.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pstuifzand/listview/internal/model"
)

var (
	// ErrInvalidDescriptor reports a selection whose key lists contradict each other
	ErrInvalidDescriptor = errors.New("invalid selection descriptor")
	// ErrInvalidOptions reports a tree strategy configuration that cannot count
	ErrInvalidOptions = errors.New("invalid selection options")
)

// DescriptorError names the offending key of an invalid selection
type DescriptorError struct {
	Key    model.Key
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid selection descriptor: key %q %s", e.Key, e.Reason)
}

func (e *DescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// Kind tells how Selected and Excluded are read
type Kind uint8

const (
	// KindExplicit selects the keys in Selected and nothing else
	KindExplicit Kind = iota
	// KindAllExcept selects everything except the keys in Excluded
	KindAllExcept
)

func (k Kind) String() string {
	if k == KindAllExcept {
		return "all-except"
	}
	return "explicit"
}

// Keys is an ordered set of item keys. Operations never modify the receiver.
type Keys []model.Key

// Has reports membership
func (k Keys) Has(key model.Key) bool { return slices.Contains(k, key) }

func (k Keys) with(keys ...model.Key) Keys {
	out := k
	for _, key := range keys {
		if !out.Has(key) {
			out = append(slices.Clip(out), key)
		}
	}
	return out
}

func (k Keys) without(keys ...model.Key) Keys {
	if !slices.ContainsFunc(k, func(key model.Key) bool { return slices.Contains(keys, key) }) {
		return k
	}
	out := slices.DeleteFunc(slices.Clone(k), func(key model.Key) bool {
		return slices.Contains(keys, key)
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// Selection is the state of a multi-selection.
//
// With KindExplicit the keys in Selected are selected. With KindAllExcept
// every item is selected except the keys in Excluded. Tree strategies also
// keep nested marks: a selected node key inside an excluded branch, or an
// excluded key inside a selected node.
type Selection struct {
	Kind     Kind `msgpack:"k"`
	Selected Keys `msgpack:"s,omitempty"`
	Excluded Keys `msgpack:"e,omitempty"`
}

// Of returns an explicit selection of keys
func Of(keys ...model.Key) Selection {
	return Selection{Selected: Keys(nil).with(keys...)}
}

// AllExcept returns a selection of everything but the excluded keys
func AllExcept(excluded ...model.Key) Selection {
	return Selection{Kind: KindAllExcept, Excluded: Keys(nil).with(excluded...)}
}

// IsAll reports whether the all marker is set
func (s Selection) IsAll() bool { return s.Kind == KindAllExcept }

// IsEmpty reports whether nothing is selected
func (s Selection) IsEmpty() bool {
	return s.Kind == KindExplicit && len(s.Selected) == 0
}

// Equal compares kind and key order
func (s Selection) Equal(o Selection) bool {
	return s.Kind == o.Kind && slices.Equal(s.Selected, o.Selected) && slices.Equal(s.Excluded, o.Excluded)
}

func (s Selection) String() string {
	if s.IsAll() {
		return fmt.Sprintf("all-except%v+%v", []model.Key(s.Excluded), []model.Key(s.Selected))
	}
	return fmt.Sprintf("explicit%v-%v", []model.Key(s.Selected), []model.Key(s.Excluded))
}

// Validate reports duplicate keys and keys that are both selected and
// excluded. Strategies never produce such selections; this is for
// selections read from outside.
func (s Selection) Validate() error {
	seen := make(map[model.Key]bool, len(s.Selected))
	for _, k := range s.Selected {
		if seen[k] {
			return &DescriptorError{Key: k, Reason: "is selected twice"}
		}
		seen[k] = true
	}
	excluded := make(map[model.Key]bool, len(s.Excluded))
	for _, k := range s.Excluded {
		if excluded[k] {
			return &DescriptorError{Key: k, Reason: "is excluded twice"}
		}
		if seen[k] {
			return &DescriptorError{Key: k, Reason: "is both selected and excluded"}
		}
		excluded[k] = true
	}
	return nil
}

// Normalize drops duplicate keys. A key found in both lists stays selected.
func (s Selection) Normalize() Selection {
	out := Selection{Kind: s.Kind}
	out.Selected = Keys(nil).with(s.Selected...)
	for _, k := range s.Excluded {
		if !out.Selected.Has(k) {
			out.Excluded = out.Excluded.with(k)
		}
	}
	return out
}
