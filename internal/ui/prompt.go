package ui

import (
	"github.com/gdamore/tcell/v2"
)

// PromptResult tells the caller what a key did to the prompt
type PromptResult int

const (
	PromptIgnored PromptResult = iota
	PromptEdited
	PromptSubmitted
	PromptCancelled
)

// History keeps previous prompt entries, oldest first
type History struct {
	entries      []string
	currentIndex int // -1 when not navigating
	maxEntries   int
	temporary    string
}

// NewHistory creates a history of at most maxEntries entries
func NewHistory(maxEntries int) *History {
	return &History{currentIndex: -1, maxEntries: maxEntries}
}

// Add appends entry, skipping empty entries and repeats of the last one
func (h *History) Add(entry string) {
	h.Reset()
	if entry == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry) {
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
}

// Previous steps back in history. The first step remembers current so Next
// can restore it.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.currentIndex < 0:
		h.temporary = current
		h.currentIndex = len(h.entries) - 1
	case h.currentIndex > 0:
		h.currentIndex--
	}
	return h.entries[h.currentIndex], true
}

// Next steps forward, returning the remembered input past the newest entry
func (h *History) Next() (string, bool) {
	if h.currentIndex < 0 {
		return "", false
	}
	h.currentIndex++
	if h.currentIndex >= len(h.entries) {
		temp := h.temporary
		h.Reset()
		return temp, true
	}
	return h.entries[h.currentIndex], true
}

// Reset stops navigating
func (h *History) Reset() {
	h.currentIndex = -1
	h.temporary = ""
}

// Entries returns a copy of all entries
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Prompt is a one-line input at the bottom of the screen
type Prompt struct {
	label   string
	text    []rune
	cursor  int
	active  bool
	err     string
	history *History
}

// NewPrompt creates an inactive prompt
func NewPrompt(label string, historySize int) *Prompt {
	return &Prompt{label: label, history: NewHistory(historySize)}
}

// Start activates the prompt with initial text and the cursor at its end
func (p *Prompt) Start(initial string) {
	p.active = true
	p.text = []rune(initial)
	p.cursor = len(p.text)
	p.err = ""
	p.history.Reset()
}

// Stop deactivates the prompt
func (p *Prompt) Stop() {
	p.active = false
	p.history.Reset()
}

func (p *Prompt) IsActive() bool { return p.active }
func (p *Prompt) Text() string   { return string(p.text) }
func (p *Prompt) History() *History {
	return p.history
}

// SetError shows err after the input until the next edit
func (p *Prompt) SetError(err error) {
	if err == nil {
		p.err = ""
		return
	}
	p.err = err.Error()
}

func (p *Prompt) setText(s string) {
	p.text = []rune(s)
	p.cursor = len(p.text)
}

// HandleKey edits the input
func (p *Prompt) HandleKey(ev *tcell.EventKey) PromptResult {
	if !p.active {
		return PromptIgnored
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		p.Stop()
		return PromptCancelled
	case tcell.KeyEnter:
		p.history.Add(p.Text())
		p.Stop()
		return PromptSubmitted
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor == 0 {
			return PromptIgnored
		}
		p.text = append(p.text[:p.cursor-1], p.text[p.cursor:]...)
		p.cursor--
	case tcell.KeyDelete:
		if p.cursor >= len(p.text) {
			return PromptIgnored
		}
		p.text = append(p.text[:p.cursor], p.text[p.cursor+1:]...)
	case tcell.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}
		return PromptIgnored
	case tcell.KeyRight:
		if p.cursor < len(p.text) {
			p.cursor++
		}
		return PromptIgnored
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.cursor = 0
		return PromptIgnored
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.cursor = len(p.text)
		return PromptIgnored
	case tcell.KeyCtrlU:
		p.text = p.text[:0]
		p.cursor = 0
	case tcell.KeyUp:
		entry, ok := p.history.Previous(p.Text())
		if !ok {
			return PromptIgnored
		}
		p.setText(entry)
	case tcell.KeyDown:
		entry, ok := p.history.Next()
		if !ok {
			return PromptIgnored
		}
		p.setText(entry)
	case tcell.KeyRune:
		p.text = append(p.text[:p.cursor], append([]rune{ev.Rune()}, p.text[p.cursor:]...)...)
		p.cursor++
	default:
		return PromptIgnored
	}
	p.err = ""
	return PromptEdited
}

// Render draws the prompt on row y
func (p *Prompt) Render(screen *Screen, y int) {
	width := screen.GetWidth()
	textStyle := screen.PromptTextStyle()
	screen.FillRow(0, y, textStyle)

	x := screen.DrawString(0, y, p.label, screen.PromptLabelStyle())
	for i, r := range p.text {
		style := textStyle
		if i == p.cursor {
			style = screen.PromptCursorStyle()
		}
		if x >= width {
			break
		}
		screen.SetCell(x, y, r, style)
		x += max(RuneWidth(r), 1)
	}
	if p.cursor == len(p.text) {
		screen.SetCell(x, y, ' ', screen.PromptCursorStyle())
		x++
	}
	if p.err != "" {
		screen.DrawStringLimited(x+1, y, p.err, width-x-1, screen.StatusMessageStyle())
	}
}
