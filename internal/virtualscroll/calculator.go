package virtualscroll

import (
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/projection"
)

// Config holds the window settings
type Config struct {
	PageSize    int
	SegmentSize int
	// Viewport is the number of rows on screen. It decides which rows may
	// leave the window when it shifts.
	Viewport         int
	Triggers         TriggerOffsets
	PortionedLoading bool
}

// Result is the outcome of one calculator operation
type Result struct {
	Range      Range
	OldRange   Range
	Direction  Direction
	ScrollMode ScrollMode
}

// Changed reports whether the window moved or resized
func (r Result) Changed() bool { return r.Range != r.OldRange }

// Option configures a Calculator
type Option func(*Calculator)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Calculator) { c.log = logging.OrNop(l).WithComponent("virtualscroll") }
}

// OnRangeChange registers fn for window changes caused by projection
// changes
func OnRangeChange(fn func(Result)) Option {
	return func(c *Calculator) { c.onChange = fn }
}

// Calculator keeps the window of a list as rows are added, removed and
// scrolled through. All positions are display indices.
type Calculator struct {
	cfg   Config
	log   *logging.Logger
	total int
	r     Range

	backwardEdge bool
	forwardEdge  bool

	onChange    func(Result)
	unsubscribe func()
}

// NewCalculator creates a calculator for total rows with the window at the
// start
func NewCalculator(cfg Config, total int, opts ...Option) *Calculator {
	if cfg.Viewport <= 0 {
		cfg.Viewport = cfg.PageSize
	}
	c := &Calculator{cfg: cfg, log: logging.Nop(), total: max(total, 0)}
	for _, opt := range opts {
		opt(c)
	}
	c.r = RangeByIndex(0, cfg.PageSize, c.total)
	return c
}

// Attach follows the changes of p until Close
func (c *Calculator) Attach(p *projection.Projection) {
	c.Close()
	c.Reset(p.Count(), 0)
	c.unsubscribe = p.Subscribe(func(ch projection.Change) {
		res := c.HandleChange(ch)
		if c.onChange != nil {
			c.onChange(res)
		}
	})
}

// Close stops following the projection
func (c *Calculator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Calculator) Config() Config { return c.cfg }
func (c *Calculator) Range() Range   { return c.r }
func (c *Calculator) Total() int     { return c.total }

// SetViewport updates the number of rows on screen
func (c *Calculator) SetViewport(rows int) {
	c.cfg.Viewport = max(rows, 0)
}

// SetEdges records whether the list is scrolled up to either end of the
// window
func (c *Calculator) SetEdges(backward, forward bool) {
	c.backwardEdge, c.forwardEdge = backward, forward
}

// HasItemsOutOfRange reports whether rows exist beyond the window in dir
func (c *Calculator) HasItemsOutOfRange(dir Direction) bool {
	if dir == Backward {
		return c.r.Start > 0
	}
	return c.r.End < c.total
}

// geometry models the rendered window as one unit per row
func (c *Calculator) geometry() *Geometry {
	return &Geometry{
		Sizes:        UniformSizes(c.total),
		Viewport:     c.cfg.Viewport,
		ContentSize:  c.r.Len(),
		Triggers:     c.cfg.Triggers,
		Placeholders: Placeholders{Backward: c.r.Start, Forward: c.total - c.r.End},
	}
}

func (c *Calculator) shift(dir Direction, segment int) {
	c.r = ShiftRangeBySegment(SegmentParams{
		Range:       c.r,
		Direction:   dir,
		PageSize:    c.cfg.PageSize,
		SegmentSize: segment,
		Total:       c.total,
		Geometry:    c.geometry(),
	})
}

func (c *Calculator) result(old Range, dir Direction, mode ScrollMode) Result {
	res := Result{Range: c.r, OldRange: old, Direction: dir, ScrollMode: mode}
	if res.Changed() {
		c.log.Debug("range changed", "from", old.String(), "to", c.r.String(), "direction", dir.String())
	}
	return res
}

// Reset starts over with total rows and the window at start
func (c *Calculator) Reset(total, start int) Result {
	old := c.r
	c.total = max(total, 0)
	c.r = RangeByIndex(start, c.cfg.PageSize, c.total)
	return c.result(old, NoDirection, Fixed)
}

// ShiftRange moves the window by one segment in dir
func (c *Calculator) ShiftRange(dir Direction) Result {
	old := c.r
	if c.HasItemsOutOfRange(dir) {
		c.shift(dir, c.cfg.SegmentSize)
	}
	return c.result(old, dir, Fixed)
}

// ShiftToIndex moves the window so it contains index
func (c *Calculator) ShiftToIndex(index int) (Result, error) {
	if index < 0 || index >= c.total {
		return Result{Range: c.r, OldRange: c.r}, &projection.OutOfBoundsError{Position: index, Count: c.total}
	}
	old := c.r
	if c.r.Contains(index) {
		return c.result(old, NoDirection, Fixed), nil
	}
	dir := Forward
	if index < old.Start {
		dir = Backward
	}
	c.r = RangeByIndex(index, c.cfg.PageSize, c.total)
	return c.result(old, dir, Fixed), nil
}

// ScrollTo centres the window on the row at scrollPosition, in rows from
// the top of the list
func (c *Calculator) ScrollTo(scrollPosition int) Result {
	old := c.r
	c.r = RangeByScrollPosition(c.cfg.PageSize, c.total, UniformSizes(c.total), scrollPosition, c.cfg.Triggers.Backward)
	dir := NoDirection
	switch {
	case c.r.Start < old.Start:
		dir = Backward
	case c.r.Start > old.Start:
		dir = Forward
	}
	return c.result(old, dir, Fixed)
}

// Load handles count rows inserted at position by the paging layer. The
// reaction depends on the edge flags and on whether the edge trigger
// started the load.
func (c *Calculator) Load(position, count int, byTrigger bool) Result {
	params := ModeParams{
		Range:                  c.r,
		PageSize:               c.cfg.PageSize,
		ScrolledToBackwardEdge: c.backwardEdge,
		ScrolledToForwardEdge:  c.forwardEdge,
		NewItemsIndex:          position,
		LoadedByTrigger:        byTrigger,
		PortionedLoading:       c.cfg.PortionedLoading,
	}
	res := c.AddItems(position, count, params.CalcMode())
	res.ScrollMode = params.ScrollMode()
	return res
}

// AddItems accounts for count rows inserted at position. Rows inserted
// before the window move it; rows inserted inside it widen it. mode then
// decides whether the window slides to or grows over the new rows. An empty
// window is rebuilt from position.
func (c *Calculator) AddItems(position, count int, mode CalcMode) Result {
	old := c.r
	if count <= 0 {
		return c.result(old, NoDirection, Fixed)
	}
	position = max(0, min(position, c.total))
	c.total += count

	if old.Len() == 0 {
		c.r = RangeByIndex(position, c.cfg.PageSize, c.total)
		return c.result(old, Forward, Fixed)
	}

	dir := Forward
	if position <= old.Start {
		dir = Backward
	}
	switch {
	case position <= old.Start:
		c.r = Range{Start: old.Start + count, End: old.End + count}
	case position < old.End:
		c.r.End += count
	}

	switch mode {
	case Shift:
		c.shift(dir, count)
	case Extend:
		c.extend(dir, position, count)
	}
	return c.result(old, dir, Fixed)
}

// extend grows the window over the inserted rows until it holds a page
func (c *Calculator) extend(dir Direction, position, count int) {
	room := max(c.cfg.PageSize-c.r.Len(), 0)
	if c.cfg.PageSize <= 0 {
		room = count
	}
	if dir == Backward {
		c.r.Start = max(c.r.Start-min(count, room), position, 0)
		return
	}
	c.r.End = max(c.r.End, min(c.r.End+min(count, room), position+count, c.total))
}

// RemoveItems accounts for count rows removed at position and refills the
// window up to the page size
func (c *Calculator) RemoveItems(position, count int) Result {
	old := c.r
	if position < 0 || position >= c.total {
		return c.result(old, NoDirection, Fixed)
	}
	count = min(count, c.total-position)
	if count <= 0 {
		return c.result(old, NoDirection, Fixed)
	}
	c.total -= count

	end := position + count
	before := overlap(position, end, 0, old.Start)
	inside := overlap(position, end, old.Start, old.End)
	c.r = Range{Start: old.Start - before, End: old.End - before - inside}

	if c.cfg.PageSize <= 0 {
		c.r = Range{Start: 0, End: c.total}
	} else if c.r.Len() < c.cfg.PageSize {
		c.r.End = min(c.r.Start+c.cfg.PageSize, c.total)
		c.r.Start = max(0, min(c.r.Start, c.r.End-c.cfg.PageSize))
	}

	dir := Forward
	if position <= old.Start {
		dir = Backward
	}
	return c.result(old, dir, Fixed)
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}

// HandleChange applies one projection change to the window
func (c *Calculator) HandleChange(ch projection.Change) Result {
	switch ch.Action {
	case projection.ActionAdd:
		return c.Load(ch.Index, ch.Count, false)
	case projection.ActionRemove:
		return c.RemoveItems(ch.Index, ch.Count)
	case projection.ActionReset:
		return c.Reset(ch.Count, c.r.Start)
	}
	// moves keep the number of rows
	return c.result(c.r, NoDirection, Fixed)
}
