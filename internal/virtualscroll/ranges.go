package virtualscroll

// Bounds of the line used to pick the active row, as a share of the viewport
const (
	minIndexLineRatio = 0.15
	maxIndexLineRatio = 0.85
)

// ItemSize is the extent of one row and its offset from the top of the list
type ItemSize struct {
	Size   int
	Offset int
}

// UniformSizes returns sizes for total rows of one unit each, the geometry of
// a terminal list
func UniformSizes(total int) []ItemSize {
	sizes := make([]ItemSize, total)
	for i := range sizes {
		sizes[i] = ItemSize{Size: 1, Offset: i}
	}
	return sizes
}

// Placeholders are the extents of the rows before and after the window
type Placeholders struct {
	Backward int
	Forward  int
}

// TriggerOffsets are the distances of the load triggers from the edges
type TriggerOffsets struct {
	Backward int
	Forward  int
}

// Geometry describes what is on screen. ContentSize is the extent of the
// rendered window only.
type Geometry struct {
	Sizes        []ItemSize
	Viewport     int
	ContentSize  int
	Triggers     TriggerOffsets
	Placeholders Placeholders
}

// RangeByIndex returns a window of pageSize rows from start, moved back when
// it would run past total. A zero pageSize covers everything.
func RangeByIndex(start, pageSize, total int) Range {
	if pageSize <= 0 || pageSize >= total {
		return Range{Start: 0, End: max(total, 0)}
	}
	start = max(start, 0)
	r := Range{Start: start, End: start + pageSize}
	if r.End >= total {
		r.End = total
		r.Start = total - pageSize
	}
	return r
}

// SegmentParams describe a shift of the window
type SegmentParams struct {
	Range       Range
	Direction   Direction
	PageSize    int
	SegmentSize int
	Total       int
	// Geometry limits how many rows leave the window on the far side. Without
	// it the window is trimmed back to the page size.
	Geometry *Geometry
}

// ShiftRangeBySegment moves the window by a segment. The segment grows when
// it would leave the page unfilled. Rows leave on the opposite side only
// while they are out of sight.
func ShiftRangeBySegment(p SegmentParams) Range {
	if p.PageSize <= 0 {
		return Range{Start: 0, End: p.Total}
	}
	start, end := p.Range.Start, p.Range.End
	segment := max(p.SegmentSize, max(p.PageSize-(end-start), 0))

	if p.Direction == Backward {
		start = max(0, start-segment)
		if start >= p.Total {
			start = max(0, p.Total-p.PageSize)
		}
		fill := min(start+p.PageSize, p.Total)
		if p.Geometry == nil {
			end = fill
		} else {
			end = max(end-hideForward(p.Range, p.Geometry), fill)
		}
		return Range{Start: start, End: min(end, p.Total)}
	}

	end = min(end+segment, p.Total)
	if end < p.PageSize && end < p.Total {
		end = min(p.PageSize, p.Total)
	}
	floor := max(end-p.PageSize, 0)
	if p.Geometry == nil {
		start = floor
	} else {
		start = min(start+hideBackward(p.Range, p.Geometry), floor)
	}
	return Range{Start: start, End: end}
}

// hideForward counts the rows at the end of the window that lie beyond the
// viewport and both triggers.
func hideForward(r Range, g *Geometry) int {
	distance := g.Viewport + g.Triggers.Backward + g.Triggers.Forward
	n := 0
	for i := r.End - 1; i >= r.Start && i < len(g.Sizes); i-- {
		if g.Sizes[i].Offset-g.Placeholders.Backward <= distance {
			break
		}
		n++
	}
	return n
}

// hideBackward counts the rows at the start of the window that were
// scrolled past.
func hideBackward(r Range, g *Geometry) int {
	distance := g.ContentSize - g.Viewport - g.Triggers.Backward - g.Triggers.Forward
	if distance < 0 {
		// not scrolled
		return 0
	}
	n, sum := 0, 0
	for i := r.Start; i < r.End && i < len(g.Sizes); i++ {
		if sum+g.Sizes[i].Size >= distance {
			break
		}
		sum += g.Sizes[i].Size
		n++
	}
	return n
}

// RangeByScrollPosition returns the window centred on the row at
// scrollPosition. Near the end the window is moved back to stay full.
func RangeByScrollPosition(pageSize, total int, sizes []ItemSize, scrollPosition, triggerOffset int) Range {
	start, sum := 0, 0
	for start < total && start < len(sizes) && sum+sizes[start].Size <= scrollPosition-triggerOffset {
		sum += sizes[start].Size
		start++
	}
	if pageSize <= 0 {
		return Range{Start: 0, End: total}
	}
	start = max(start-pageSize/2, 0)
	end := min(start+pageSize, total)
	if end == total {
		if missing := pageSize - (end - start); missing > 0 {
			start = max(start-missing, 0)
		}
	}
	return Range{Start: start, End: end}
}

// PlaceholdersByRange sums the sizes of the rows outside r
func PlaceholdersByRange(r Range, sizes []ItemSize, total int) Placeholders {
	return Placeholders{
		Backward: sizesSum(0, r.Start, sizes, total),
		Forward:  sizesSum(r.End, total, sizes, total),
	}
}

func sizesSum(start, end int, sizes []ItemSize, total int) int {
	sum := 0
	for i := max(start, 0); i < min(end, total, len(sizes)); i++ {
		sum += sizes[i].Size
	}
	return sum
}

// FirstVisibleIndex returns the first row of r that starts at or below
// scrollPosition
func FirstVisibleIndex(sizes []ItemSize, scrollPosition int, placeholders Placeholders, r Range) int {
	i := r.Start
	for i < r.End-1 && i < len(sizes) && sizes[i].Offset-placeholders.Backward < scrollPosition {
		i++
	}
	return i
}

// ActiveParams describe the viewport for ActiveIndex
type ActiveParams struct {
	Total          int
	Sizes          []ItemSize
	ScrollPosition int
	Viewport       int
	ContentSize    int
	Placeholders   Placeholders
	Range          Range
}

// ActiveIndex returns the row under the index line. The line moves down the
// viewport as the list scrolls so that both ends of the list can become
// active. The second result is false for an empty list.
func ActiveIndex(p ActiveParams) (int, bool) {
	if p.Total == 0 {
		return 0, false
	}
	pos := p.ScrollPosition
	switch {
	case pos < 0:
		pos = 0
	case p.Viewport+pos > p.ContentSize:
		pos = p.ContentSize - p.Viewport
	}

	if p.Range.Start == 0 && pos == 0 {
		return p.Range.Start, true
	}
	if p.Range.End == p.Total && pos+p.Viewport == p.ContentSize {
		return p.Range.End - 1, true
	}

	known := p.ContentSize + p.Placeholders.Forward + p.Placeholders.Backward
	ratio := maxIndexLineRatio
	if span := known - p.Viewport; span > 0 {
		ratio = float64(pos+p.Placeholders.Backward) / float64(span)
	}
	line := float64(pos) + float64(p.Viewport)*max(minIndexLineRatio, min(maxIndexLineRatio, ratio))

	active, ok := 0, false
	for i := p.Range.Start; i < p.Range.End && i < len(p.Sizes); i++ {
		if float64(p.Sizes[i].Offset-p.Placeholders.Backward) >= line {
			break
		}
		active, ok = i, true
	}
	return active, ok
}
