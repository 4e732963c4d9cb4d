package projection

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// maps is the state shared between a projection and its enumerators.
// The projection is the only writer; every write bumps version.
type maps struct {
	items   []*Item
	filter  *roaring.Bitmap
	sort    []int
	version uint64
}

func newMaps() *maps {
	return &maps{filter: roaring.New(), version: 1}
}

func (m *maps) touch() { m.version++ }

// Enumerator walks the data rows of a projection in view order.
//
// The internal map (view position -> source position) is built lazily and
// rebuilt whenever the projection changed its filter or sort map since the
// last access. The current item is kept by identity across rebuilds.
type Enumerator struct {
	m *maps

	built    uint64
	internal []int
	reverse  []int
	current  *Item
	indexes  map[string]map[string][]int
}

func newEnumerator(m *maps) *Enumerator {
	return &Enumerator{m: m}
}

// ReIndex drops the internal map and every property index.
func (e *Enumerator) ReIndex() {
	e.built = 0
	e.internal = nil
	e.reverse = nil
	e.indexes = nil
}

func (e *Enumerator) ensure() {
	if e.built == e.m.version && e.internal != nil {
		return
	}
	n := len(e.m.items)
	internal := make([]int, 0, int(e.m.filter.GetCardinality()))
	if len(e.m.sort) == 0 {
		it := e.m.filter.Iterator()
		for it.HasNext() {
			src := int(it.Next())
			if src >= n {
				break
			}
			internal = append(internal, src)
		}
	} else {
		for _, src := range e.m.sort {
			if e.m.filter.Contains(uint32(src)) {
				internal = append(internal, src)
			}
		}
	}
	reverse := make([]int, n)
	for i := range reverse {
		reverse[i] = -1
	}
	for pos, src := range internal {
		reverse[src] = pos
	}
	e.internal = internal
	e.reverse = reverse
	e.indexes = nil
	e.built = e.m.version
	if e.current != nil && e.positionOf(e.current) < 0 {
		e.current = nil
	}
}

func (e *Enumerator) positionOf(item *Item) int {
	if item == nil || item.kind != KindData {
		return -1
	}
	src := item.source
	if src < 0 || src >= len(e.m.items) || e.m.items[src] != item {
		return -1
	}
	return e.reverse[src]
}

// Count returns the number of enumerated rows
func (e *Enumerator) Count() int {
	e.ensure()
	return len(e.internal)
}

// At returns the row at view position i, or nil when i is out of range
func (e *Enumerator) At(i int) *Item {
	e.ensure()
	if i < 0 || i >= len(e.internal) {
		return nil
	}
	return e.m.items[e.internal[i]]
}

// Items returns every enumerated row in view order
func (e *Enumerator) Items() []*Item {
	e.ensure()
	out := make([]*Item, len(e.internal))
	for i, src := range e.internal {
		out[i] = e.m.items[src]
	}
	return out
}

// IndexOf returns the view position of item, or -1
func (e *Enumerator) IndexOf(item *Item) int {
	e.ensure()
	return e.positionOf(item)
}

// Current returns the item under the cursor, nil before the first row
func (e *Enumerator) Current() *Item {
	e.ensure()
	return e.current
}

// Position returns the view position of the cursor, -1 when reset
func (e *Enumerator) Position() int {
	e.ensure()
	return e.positionOf(e.current)
}

// SetPosition moves the cursor. -1 resets it.
func (e *Enumerator) SetPosition(i int) error {
	e.ensure()
	if i < -1 || i >= len(e.internal) {
		return &OutOfBoundsError{Position: i, Count: len(e.internal)}
	}
	if i == -1 {
		e.current = nil
		return nil
	}
	e.current = e.m.items[e.internal[i]]
	return nil
}

// SetCurrent moves the cursor to item
func (e *Enumerator) SetCurrent(item *Item) error {
	e.ensure()
	if e.positionOf(item) < 0 {
		return ErrUnknownItem
	}
	e.current = item
	return nil
}

// Reset moves the cursor before the first row
func (e *Enumerator) Reset() {
	e.current = nil
}

// Next advances the cursor and returns the new current item. At the end it
// returns nil and leaves the cursor where it was.
func (e *Enumerator) Next() *Item {
	next := e.Position() + 1
	if next >= len(e.internal) {
		return nil
	}
	e.current = e.m.items[e.internal[next]]
	return e.current
}

// Previous moves the cursor back. Before the first row it returns nil and
// leaves the cursor where it was.
func (e *Enumerator) Previous() *Item {
	prev := e.Position() - 1
	if prev < 0 {
		return nil
	}
	e.current = e.m.items[e.internal[prev]]
	return e.current
}

// InternalBySource maps a source position to its view position
func (e *Enumerator) InternalBySource(src int) (int, bool) {
	e.ensure()
	if src < 0 || src >= len(e.reverse) || e.reverse[src] < 0 {
		return -1, false
	}
	return e.reverse[src], true
}

// SourceByInternal maps a view position to its source position
func (e *Enumerator) SourceByInternal(i int) (int, bool) {
	e.ensure()
	if i < 0 || i >= len(e.internal) {
		return -1, false
	}
	return e.internal[i], true
}

// IndicesByValue returns the view positions whose field equals value.
// The index for a field is built on first use and dropped by ReIndex.
func (e *Enumerator) IndicesByValue(field, value string) []int {
	e.ensure()
	if e.indexes == nil {
		e.indexes = make(map[string]map[string][]int)
	}
	idx, ok := e.indexes[field]
	if !ok {
		idx = make(map[string][]int)
		for pos, src := range e.internal {
			if v, ok := e.m.items[src].contents.Field(field); ok {
				idx[v] = append(idx[v], pos)
			}
		}
		e.indexes[field] = idx
	}
	return append([]int(nil), idx[value]...)
}
