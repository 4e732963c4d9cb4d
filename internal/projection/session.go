package projection

// Action is the kind of a projection change
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionMove
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	}
	return "unknown"
}

// Change describes one step of a projection update. Applying the changes of
// an update in order to the previous display order yields the new one.
//
// Index is the position in the list as it is after every earlier change of
// the same update was applied. For moves OldIndex is the position the row
// is taken from. A reset carries only the new Count.
type Change struct {
	Action   Action
	Index    int
	OldIndex int
	Count    int
	Items    []*Item
}

// Listener receives projection changes synchronously, in mutation order
type Listener func(Change)

type batchState struct {
	reset  bool
	reason string
	before []*Item
}

// Subscribe registers fn for change notifications
func (p *Projection) Subscribe(fn Listener) func() {
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	return func() { delete(p.listeners, id) }
}

// Batch runs fn and reports all mutations it performs as a single update.
// If any of them was a reset, exactly one reset is emitted.
func (p *Projection) Batch(fn func()) {
	if p.batch != nil {
		fn()
		return
	}
	b := &batchState{}
	if len(p.listeners) > 0 {
		b.before = p.snapshot()
	}
	p.batch = b
	defer func() {
		p.batch = nil
		p.flush(b)
	}()
	fn()
}

func (p *Projection) snapshot() []*Item {
	return append([]*Item(nil), p.displayItems()...)
}

// change applies a mutation and notifies listeners about its effect.
func (p *Projection) change(reset bool, reason string, apply func()) {
	if p.batch != nil {
		apply()
		if reset {
			p.batch.reset = true
			p.batch.reason = reason
		}
		return
	}
	if len(p.listeners) == 0 {
		apply()
		if reset {
			p.log.LogReset(reason, p.Count())
		}
		return
	}
	b := &batchState{reset: reset, reason: reason}
	if !reset {
		b.before = p.snapshot()
	}
	apply()
	p.flush(b)
}

func (p *Projection) flush(b *batchState) {
	if b.reset {
		count := p.Count()
		p.log.LogReset(b.reason, count)
		p.emit(Change{Action: ActionReset, Count: count})
		return
	}
	if len(p.listeners) == 0 {
		return
	}
	for _, c := range diff(b.before, p.snapshot()) {
		p.log.LogChange(c.Action.String(), c.Index, c.Count)
		p.emit(c)
	}
}

func (p *Projection) emit(c Change) {
	for id := 0; id < p.nextListener; id++ {
		if fn, ok := p.listeners[id]; ok {
			fn(c)
		}
	}
}

// diff computes removes, then moves, then adds turning before into after.
func diff(before, after []*Item) []Change {
	inAfter := make(map[*Item]bool, len(after))
	for _, it := range after {
		inAfter[it] = true
	}
	inBefore := make(map[*Item]bool, len(before))
	for _, it := range before {
		inBefore[it] = true
	}

	var changes []Change

	// Removes, ascending, with indexes adjusted for earlier removals.
	working := make([]*Item, 0, len(before))
	removed := 0
	for i := 0; i < len(before); {
		if inAfter[before[i]] {
			working = append(working, before[i])
			i++
			continue
		}
		start := i
		for i < len(before) && !inAfter[before[i]] {
			i++
		}
		changes = append(changes, Change{
			Action: ActionRemove,
			Index:  start - removed,
			Count:  i - start,
			Items:  append([]*Item(nil), before[start:i]...),
		})
		removed += i - start
	}

	// Moves bring kept rows into their final relative order.
	target := make([]*Item, 0, len(working))
	for _, it := range after {
		if inBefore[it] {
			target = append(target, it)
		}
	}
	for i := range target {
		if working[i] == target[i] {
			continue
		}
		j := i + 1
		for working[j] != target[i] {
			j++
		}
		moved := working[j]
		copy(working[i+1:j+1], working[i:j])
		working[i] = moved
		changes = append(changes, Change{
			Action:   ActionMove,
			Index:    i,
			OldIndex: j,
			Count:    1,
			Items:    []*Item{moved},
		})
	}

	// Adds, ascending; every earlier row is already in place.
	for i := 0; i < len(after); {
		if inBefore[after[i]] {
			i++
			continue
		}
		start := i
		for i < len(after) && !inBefore[after[i]] {
			i++
		}
		changes = append(changes, Change{
			Action: ActionAdd,
			Index:  start,
			Count:  i - start,
			Items:  append([]*Item(nil), after[start:i]...),
		})
	}
	return changes
}

// Apply replays changes onto rows. Listeners that mirror the display order
// use it to stay in sync; a reset returns nil and the caller reloads.
func Apply(rows []*Item, c Change) []*Item {
	switch c.Action {
	case ActionRemove:
		return append(rows[:c.Index:c.Index], rows[c.Index+c.Count:]...)
	case ActionAdd:
		out := make([]*Item, 0, len(rows)+c.Count)
		out = append(out, rows[:c.Index]...)
		out = append(out, c.Items...)
		return append(out, rows[c.Index:]...)
	case ActionMove:
		moved := rows[c.OldIndex]
		rows = append(rows[:c.OldIndex:c.OldIndex], rows[c.OldIndex+1:]...)
		out := make([]*Item, 0, len(rows)+1)
		out = append(out, rows[:c.Index]...)
		out = append(out, moved)
		return append(out, rows[c.Index:]...)
	}
	return nil
}
