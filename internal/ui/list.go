package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/listview/internal/dragndrop"
	"github.com/pstuifzand/listview/internal/itemactions"
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
	"github.com/pstuifzand/listview/internal/search"
	"github.com/pstuifzand/listview/internal/selection"
	"github.com/pstuifzand/listview/internal/virtualscroll"
)

// ActionHandler runs a row action picked by its key
type ActionHandler func(action itemactions.Action, item *projection.Item) string

// Option configures a ListView
type Option func(*ListView)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(v *ListView) { v.log = logging.OrNop(l).WithComponent("ui") }
}

// WithTitle sets the header text
func WithTitle(title string) Option {
	return func(v *ListView) { v.title = title }
}

// WithDateFormat sets the strftime format of the date column; empty hides
// the column
func WithDateFormat(format string) Option {
	return func(v *ListView) { v.dateFormat = format }
}

// WithSelection enables check marks and the selection keys
func WithSelection(c *selection.Controller) Option {
	return func(v *ListView) { v.sel = c }
}

// WithDragging enables moving rows of list with the drag keys
func WithDragging(list *model.List, maxOffset float64) Option {
	return func(v *ListView) {
		v.list = list
		v.maxOffset = maxOffset
	}
}

// WithActions shows the row toolbar of the cursor row and runs actions by
// their key
func WithActions(c *itemactions.Controller, handler ActionHandler) Option {
	return func(v *ListView) {
		v.actions = c
		v.onAction = handler
	}
}

// WithCalculator sets the render window configuration
func WithCalculator(cfg virtualscroll.Config) Option {
	return func(v *ListView) { v.calcCfg = cfg }
}

// ListView paints a window of a projection and maps keys onto the
// projection, selection, drag and action controllers
type ListView struct {
	p     *projection.Projection
	log   *logging.Logger
	title string

	sel       *selection.Controller
	list      *model.List
	maxOffset float64
	actions   *itemactions.Controller
	onAction  ActionHandler

	calcCfg    virtualscroll.Config
	calc       *virtualscroll.Calculator
	dateFormat string

	cursor     int
	cursorItem *projection.Item
	top        int
	viewport   int
	anchor     *projection.Item

	drag   *dragndrop.Controller
	dropOK bool

	filter  string
	prompt  *Prompt
	help    *HelpScreen
	message string

	unsubscribe func()
}

// NewListView creates a view over p
func NewListView(p *projection.Projection, opts ...Option) *ListView {
	v := &ListView{
		p:          p,
		log:        logging.Nop(),
		maxOffset:  dragndrop.DefaultMaxOffset,
		calcCfg:    virtualscroll.Config{PageSize: 40, SegmentSize: 20},
		dateFormat: "%Y-%m-%d",
		prompt:     NewPrompt("/", 50),
		help:       NewHelpScreen(DefaultBindings),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.calc = virtualscroll.NewCalculator(v.calcCfg, p.Count(), virtualscroll.WithLogger(v.log))
	v.calc.Attach(p)
	v.unsubscribe = p.Subscribe(func(projection.Change) { v.follow() })
	if v.actions != nil {
		v.actions.Attach(p)
		v.help.SetActionBindings(v.actionBindings())
	}
	v.setCursor(0)
	return v
}

// Close detaches the view and its window calculator
func (v *ListView) Close() {
	v.calc.Close()
	if v.actions != nil {
		v.actions.Close()
	}
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Cursor returns the row under the cursor, nil for an empty view
func (v *ListView) Cursor() *projection.Item { return v.p.At(v.cursor) }

// CursorIndex returns the display index of the cursor
func (v *ListView) CursorIndex() int { return v.cursor }

// Window returns the rendered range
func (v *ListView) Window() virtualscroll.Range { return v.calc.Range() }

// Top returns the first row on screen
func (v *ListView) Top() int { return v.top }

// Message returns the status message
func (v *ListView) Message() string { return v.message }

// Filter returns the active filter query
func (v *ListView) Filter() string { return v.filter }

// FilterHistory returns the history of the filter prompt
func (v *ListView) FilterHistory() *History { return v.prompt.History() }

// SetMessage shows text in the status line
func (v *ListView) SetMessage(text string) { v.message = text }

// SetCursorKey moves the cursor to the row of key and reports whether it
// is shown
func (v *ListView) SetCursorKey(key model.Key) bool {
	idx := v.p.IndexByKey(key)
	if idx < 0 {
		return false
	}
	v.setCursor(idx)
	return true
}

// SetFilter applies query as the row filter; an empty query shows
// everything
func (v *ListView) SetFilter(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		if err := v.p.SetFilter(); err != nil {
			return err
		}
		v.filter = ""
		if v.p.Breadcrumbs() {
			_ = v.p.SetBreadcrumbs(false)
		}
		return nil
	}
	pred, err := search.CompilePredicate(query)
	if err != nil {
		return err
	}
	if err := v.p.SetFilter(pred); err != nil {
		return err
	}
	v.filter = query
	v.log.Debug("filter applied", "query", query, "rows", v.p.Count())
	return nil
}

// follow keeps the cursor on the same row across projection changes
func (v *ListView) follow() {
	if v.cursorItem != nil {
		if idx := v.p.IndexOf(v.cursorItem); idx >= 0 {
			v.setCursor(idx)
			return
		}
	}
	v.setCursor(v.cursor)
}

func (v *ListView) setCursor(idx int) {
	n := v.p.Count()
	idx = min(idx, n-1)
	idx = max(idx, 0)
	v.cursor = idx
	v.cursorItem = v.p.At(idx)
	if v.actions == nil {
		return
	}
	if key, ok := v.cursorKey(); ok {
		v.actions.SetActive(key)
	} else {
		v.actions.ClearActive()
	}
}

func (v *ListView) cursorKey() (model.Key, bool) {
	if v.cursorItem == nil {
		return "", false
	}
	return v.cursorItem.Key()
}

func (v *ListView) moveCursor(delta int) {
	v.setCursor(v.cursor + delta)
	if v.drag != nil {
		v.updateDrop(nil)
	}
}

// scroll keeps the cursor on screen and the screen inside the rendered
// window. The window is shifted by a segment when the screen comes within
// the trigger offset of its edge, and recentred when that is not enough.
func (v *ListView) scroll(viewport int) {
	if viewport != v.viewport {
		v.viewport = viewport
		v.calc.SetViewport(viewport)
	}
	n := v.p.Count()
	if v.cursor < v.top {
		v.top = v.cursor
	}
	if v.cursor >= v.top+viewport {
		v.top = v.cursor - viewport + 1
	}
	v.top = max(min(v.top, n-viewport), 0)
	bottom := min(v.top+viewport, n)

	cfg := v.calc.Config()
	r := v.calc.Range()
	if v.top-r.Start < cfg.Triggers.Backward && v.calc.HasItemsOutOfRange(virtualscroll.Backward) {
		v.calc.ShiftRange(virtualscroll.Backward)
	} else if r.End-bottom < cfg.Triggers.Forward && v.calc.HasItemsOutOfRange(virtualscroll.Forward) {
		v.calc.ShiftRange(virtualscroll.Forward)
	}
	r = v.calc.Range()
	if v.top < r.Start || bottom > r.End {
		v.calc.ScrollTo(v.top + viewport/2 + cfg.Triggers.Backward)
		r = v.calc.Range()
	}
	v.calc.SetEdges(v.top == r.Start, bottom >= r.End)
}

// visibleRows returns the rows of the screen that are inside the window
func (v *ListView) visibleRows() []*projection.Item {
	r := v.calc.Range()
	start := max(v.top, r.Start)
	end := min(v.top+v.viewport, r.End, v.p.Count())
	if start >= end {
		return nil
	}
	rows, err := v.p.Window(start, end)
	if err != nil {
		v.log.LogRejected("window", err)
		return nil
	}
	return rows
}

// HandleKey processes one key and reports whether the view should close
func (v *ListView) HandleKey(ev *tcell.EventKey) bool {
	if v.prompt.IsActive() {
		v.handlePromptKey(ev)
		return false
	}
	if v.help.IsVisible() {
		if ev.Key() == tcell.KeyEscape || ev.Rune() == '?' || ev.Rune() == 'q' {
			v.help.Toggle()
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyDown:
		v.moveCursor(1)
		return false
	case tcell.KeyUp:
		v.moveCursor(-1)
		return false
	case tcell.KeyPgDn:
		v.moveCursor(max(v.viewport, 1))
		return false
	case tcell.KeyPgUp:
		v.moveCursor(-max(v.viewport, 1))
		return false
	case tcell.KeyHome:
		v.moveCursor(-v.cursor)
		return false
	case tcell.KeyEnd:
		v.moveCursor(v.p.Count())
		return false
	case tcell.KeyRight:
		v.expand(true)
		return false
	case tcell.KeyLeft:
		v.expand(false)
		return false
	case tcell.KeyEscape:
		v.cancel()
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'j':
		v.moveCursor(1)
	case 'k':
		v.moveCursor(-1)
	case 'g':
		v.moveCursor(-v.cursor)
	case 'G':
		v.moveCursor(v.p.Count())
	case 'l':
		v.expand(true)
	case 'h':
		v.expand(false)
	case 'E':
		v.report(v.p.ExpandAll())
	case 'C':
		v.report(v.p.CollapseAll())
	case ' ':
		v.toggle()
	case 'v':
		v.selectRange()
	case 'a':
		v.withSelection(func(c *selection.Controller) { c.SelectAll() })
	case 'u':
		v.withSelection(func(c *selection.Controller) { c.UnselectAll() })
	case 'i':
		v.withSelection(func(c *selection.Controller) { c.ToggleAll() })
	case 'm':
		if v.drag != nil {
			v.drop()
		} else {
			v.startDrag()
		}
	case '>':
		if v.drag != nil {
			v.updateDrop(&dragndrop.Offset{Top: 0.5, Bottom: 0.5})
		}
	case '/':
		v.prompt.Start(v.filter)
	case 'b':
		v.report(v.p.SetBreadcrumbs(!v.p.Breadcrumbs()))
	case '?':
		v.help.Toggle()
	default:
		v.runAction(ev.Rune())
	}
	return false
}

func (v *ListView) handlePromptKey(ev *tcell.EventKey) {
	switch v.prompt.HandleKey(ev) {
	case PromptSubmitted:
		if err := v.SetFilter(v.prompt.Text()); err != nil {
			v.prompt.Start(v.prompt.Text())
			v.prompt.SetError(err)
			return
		}
		v.setCursor(0)
		v.message = fmt.Sprintf("%d rows", v.p.Count())
	case PromptCancelled:
		v.message = ""
	}
}

func (v *ListView) report(err error) {
	if err != nil {
		v.message = err.Error()
		v.log.LogRejected("key", err)
	}
}

func (v *ListView) cancel() {
	switch {
	case v.drag != nil:
		v.drag.EndDrag()
		v.drag = nil
		v.message = "drag cancelled"
	case v.anchor != nil:
		v.anchor = nil
		v.message = ""
	case v.filter != "":
		v.report(v.SetFilter(""))
	}
}

// expand opens the cursor row, or closes it and then moves to its parent
func (v *ListView) expand(open bool) {
	item := v.Cursor()
	if item == nil {
		return
	}
	switch item.Kind() {
	case projection.KindGroup:
		v.p.SetGroupExpanded(item.Group(), open)
		return
	case projection.KindData:
	default:
		return
	}
	if !v.p.IsHierarchical() {
		return
	}
	if item.IsNode() && item.IsExpanded() != open {
		v.report(v.p.SetExpanded(item, open))
		return
	}
	if !open && item.Parent() != nil {
		if idx := v.p.IndexOf(item.Parent()); idx >= 0 {
			v.setCursor(idx)
		}
	}
}

func (v *ListView) withSelection(fn func(*selection.Controller)) {
	if v.sel == nil {
		v.message = "selection is off"
		return
	}
	fn(v.sel)
}

func (v *ListView) toggle() {
	item := v.Cursor()
	if item == nil {
		return
	}
	if item.Kind() == projection.KindGroup {
		v.p.SetGroupExpanded(item.Group(), !v.p.IsGroupExpanded(item.Group()))
		return
	}
	key, ok := item.Key()
	if !ok {
		return
	}
	v.withSelection(func(c *selection.Controller) { c.Toggle(key) })
}

func (v *ListView) selectRange() {
	item := v.Cursor()
	if item == nil || v.sel == nil {
		v.withSelection(func(*selection.Controller) {})
		return
	}
	if v.anchor == nil {
		v.anchor = item
		v.message = "range anchor set"
		return
	}
	v.sel.SelectRange(v.anchor, item)
	v.anchor = nil
	v.message = ""
}

// draggedKeys returns the keys a drag from item moves
func (v *ListView) draggedKeys(key model.Key) []model.Key {
	if v.sel == nil {
		return []model.Key{key}
	}
	s := dragndrop.SelectionForDragNDrop(v.p, v.sel.Selection(), key)
	if !s.IsAll() {
		return s.Selected
	}
	var keys []model.Key
	for _, row := range v.p.Loaded() {
		if k, ok := row.Key(); ok && !s.Excluded.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (v *ListView) startDrag() {
	if v.list == nil {
		v.message = "dragging is off"
		return
	}
	item := v.Cursor()
	if item == nil || !item.Draggable() {
		v.message = "this row can not be dragged"
		return
	}
	key, _ := item.Key()

	var strategy dragndrop.Strategy
	if v.p.IsHierarchical() {
		strategy = dragndrop.NewTree(v.p, item, dragndrop.WithMaxOffset(v.maxOffset))
	} else {
		strategy = dragndrop.NewFlat(v.p, item)
	}
	v.drag = dragndrop.NewController(v.p, item, strategy, dragndrop.WithLogger(v.log))
	v.drag.StartDrag(v.draggedKeys(key))
	v.dropOK = false
	v.message = fmt.Sprintf("dragging %d rows", len(v.drag.DraggedKeys()))
}

func (v *ListView) updateDrop(offset *dragndrop.Offset) {
	pos, ok, err := v.drag.CalculateDragPosition(v.Cursor(), offset)
	if err != nil {
		v.report(err)
		return
	}
	v.dropOK = ok
	if ok {
		v.drag.SetDragPosition(pos)
	}
}

func (v *ListView) drop() {
	keys := v.drag.DraggedKeys()
	pos, ok := v.drag.EndDrag()
	v.drag = nil
	if !ok || !v.dropOK {
		v.message = "nothing moved"
		return
	}
	if err := dragndrop.Drop(v.list, keys, pos, v.p.IsHierarchical()); err != nil {
		v.report(err)
		return
	}
	v.message = fmt.Sprintf("moved %d rows %s %s", len(keys), pos.Placement, pos.Item)
	if len(keys) > 0 {
		v.SetCursorKey(keys[0])
	}
}

func (v *ListView) runAction(key rune) {
	item := v.Cursor()
	if v.actions == nil || item == nil {
		return
	}
	candidates := v.actions.MenuActions(item, "")
	for _, s := range v.actions.For(item).Toolbar {
		if !s.IsMenu {
			candidates = append(candidates, s.Action)
		}
	}
	for _, a := range candidates {
		if a.Key != key || a.Submenu {
			continue
		}
		v.log.Debug("action", "id", a.ID, "row", item.String())
		if v.onAction != nil {
			v.message = v.onAction(a, item)
		}
		return
	}
}

func (v *ListView) actionBindings() []Binding {
	var out []Binding
	item := v.Cursor()
	if item == nil {
		return nil
	}
	seen := map[string]bool{}
	for _, a := range v.actions.MenuActions(item, "") {
		seen[a.ID] = true
		if a.Key != 0 {
			out = append(out, Binding{Keys: string(a.Key), Description: a.Title})
		}
	}
	for _, s := range v.actions.For(item).Toolbar {
		if !s.IsMenu && !seen[s.ID] && s.Key != 0 {
			out = append(out, Binding{Keys: string(s.Key), Description: s.Title})
		}
	}
	return out
}

// Run renders and handles events until the view is closed
func (v *ListView) Run(screen *Screen) {
	for {
		v.Render(screen)
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		}
	}
}

// Render paints the header, the visible rows and the status line
func (v *ListView) Render(screen *Screen) {
	width, height := screen.Size()
	screen.Clear()
	if height < 1 {
		return
	}

	v.scroll(max(height-2, 0))
	v.renderHeader(screen, width)
	for i, item := range v.visibleRows() {
		v.renderRow(screen, 1+i, width, item)
	}
	if height > 1 {
		if v.prompt.IsActive() {
			v.prompt.Render(screen, height-1)
		} else {
			v.renderStatus(screen, height-1, width)
		}
	}
	v.help.Render(screen)
	screen.Show()
}

func (v *ListView) renderHeader(screen *Screen, width int) {
	title := v.title
	if title == "" {
		title = "listview"
	}
	if v.filter != "" {
		title += "  [" + v.filter + "]"
	}
	screen.DrawStringLimited(0, 0, title, width, screen.HeaderStyle())
}

func (v *ListView) renderStatus(screen *Screen, y, width int) {
	x := 0
	if v.sel != nil {
		count := "?"
		if n, ok := v.sel.Count(); ok {
			count = fmt.Sprint(n)
		}
		x += screen.DrawString(x, y, count+" selected ", screen.StatusCountStyle())
	}
	r := v.calc.Range()
	pos, n := v.cursor+1, v.p.Count()
	if n == 0 {
		pos = 0
	}
	x += screen.DrawString(x, y, fmt.Sprintf("%d/%d %s ", pos, n, r), screen.StatusRangeStyle())
	if v.message != "" {
		screen.DrawStringLimited(x, y, v.message, width-x, screen.StatusMessageStyle())
	}
}

func checkMark(s projection.CheckState) string {
	switch s {
	case projection.Checked:
		return "[x] "
	case projection.Partial:
		return "[-] "
	}
	return "[ ] "
}

func (v *ListView) dropMarker(item *projection.Item) (rune, bool) {
	if v.drag == nil || !v.dropOK {
		return 0, false
	}
	pos, ok := v.drag.DragPosition()
	if !ok || pos.Item != item {
		return 0, false
	}
	switch pos.Placement {
	case dragndrop.Before:
		return '↑', true
	case dragndrop.After:
		return '↓', true
	}
	return '→', true
}

func (v *ListView) renderRow(screen *Screen, y, width int, item *projection.Item) {
	isCursor := item == v.cursorItem
	base := screen.RowStyle()
	if isCursor {
		base = screen.RowCursorStyle()
		screen.FillRow(0, y, base)
	}

	if r, ok := v.dropMarker(item); ok {
		screen.SetCell(0, y, r, screen.DropMarkerStyle())
	}
	x := 1

	switch item.Kind() {
	case projection.KindSeparator:
		for ; x < width; x++ {
			screen.SetCell(x, y, '─', screen.SeparatorStyle())
		}
		return
	case projection.KindBreadcrumbs:
		screen.DrawStringLimited(x, y, "» "+item.Text(), width-x, screen.BreadcrumbsStyle())
		return
	case projection.KindGroup:
		arrow := "▸ "
		if v.p.IsGroupExpanded(item.Group()) {
			arrow = "▾ "
		}
		style := screen.GroupHeaderStyle()
		if isCursor {
			style = base
		}
		screen.DrawStringLimited(x, y, arrow+item.Text(), width-x, style)
		return
	}

	x += 2 * item.Level()
	switch {
	case item.IsNode() && item.IsExpanded():
		x += screen.DrawString(x, y, "▾ ", screen.NodeArrowStyle())
	case item.IsNode():
		x += screen.DrawString(x, y, "▸ ", screen.NodeArrowStyle())
	default:
		x += 2
	}

	style := base
	switch {
	case isCursor:
	case item.IsDragged():
		style = screen.RowDraggedStyle()
	case item.ReadOnly():
		style = screen.RowReadOnlyStyle()
	}

	if v.sel != nil {
		markStyle := style
		if !isCursor {
			switch item.CheckState() {
			case projection.Checked:
				markStyle = screen.RowCheckedStyle()
			case projection.Partial:
				markStyle = screen.RowPartialStyle()
			}
		}
		x += screen.DrawString(x, y, checkMark(item.CheckState()), markStyle)
	}

	right := width
	if date := v.dateOf(item); date != "" {
		right -= StringWidth(date)
		dateStyle := screen.DateColumnStyle()
		if isCursor {
			dateStyle = base
		}
		screen.DrawString(right, y, date, dateStyle)
		right--
	}
	if isCursor && v.actions != nil {
		right = v.renderToolbar(screen, y, x, right, item)
	}
	screen.DrawStringLimited(x, y, item.Text(), right-x, style)
}

// renderToolbar draws the action labels of item ending at column right and
// returns the column they start at
func (v *ListView) renderToolbar(screen *Screen, y, left, right int, item *projection.Item) int {
	set := v.actions.For(item)
	var labels []string
	for _, s := range set.Toolbar {
		labels = append(labels, s.Label())
	}
	if len(labels) == 0 {
		return right
	}
	text := strings.Join(labels, " ")
	w := StringWidth(text)
	if right-w-1 <= left {
		return right
	}
	x := right - w
	for i, s := range set.Toolbar {
		style := screen.ToolbarButtonStyle()
		if s.IsMenu {
			style = screen.ToolbarMenuStyle()
		}
		x += screen.DrawString(x, y, labels[i], style)
		if i < len(labels)-1 {
			x++
		}
	}
	return right - w - 1
}

func (v *ListView) dateOf(item *projection.Item) string {
	if v.dateFormat == "" {
		return ""
	}
	contents := item.Contents()
	if contents == nil || contents.Metadata == nil || contents.Metadata.Modified.IsZero() {
		return ""
	}
	return strftime.Format(v.dateFormat, contents.Metadata.Modified)
}
