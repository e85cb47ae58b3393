// Package selection captures text selected with the pointer over rendered
// page lines and computes where the annotation popover is anchored.
package selection

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Rect is a bounding box in viewport coordinates
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Bottom returns the lower edge of the box
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Selection is what the pointer covered when it was released
type Selection struct {
	Text string
	Box  Rect
}

// Anchor is a captured selection: trimmed text and the point below its
// horizontal middle where the popover attaches
type Anchor struct {
	Text string
	X    float64
	Y    float64
}

// Capture converts a released selection into an anchor. It returns false
// when nothing but whitespace was selected, which clears the popover.
func Capture(sel Selection) (Anchor, bool) {
	text := strings.TrimSpace(sel.Text)
	if text == "" {
		return Anchor{}, false
	}
	return Anchor{
		Text: text,
		X:    sel.Box.Left + sel.Box.Width/2,
		Y:    sel.Box.Bottom(),
	}, true
}

// Position is a cell in rendered content: line index and display column
type Position struct {
	Line int
	Col  int
}

func (p Position) before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Col < o.Col)
}

// Origin maps content positions to viewport cells: content line FirstLine
// is drawn at viewport row Row, column 0 at viewport column Col.
type Origin struct {
	FirstLine int
	Row       int
	Col       int
}

// Tracker follows a press, drag, release pointer gesture
type Tracker struct {
	active bool
	moved  bool
	start  Position
	end    Position
}

// Press starts a new selection at p
func (t *Tracker) Press(p Position) {
	t.active = true
	t.moved = false
	t.start = p
	t.end = p
}

// Drag extends the selection to p
func (t *Tracker) Drag(p Position) {
	if !t.active {
		return
	}
	if p != t.start {
		t.moved = true
	}
	t.end = p
}

// Active reports whether a gesture is in progress
func (t *Tracker) Active() bool {
	return t.active
}

// Span returns the normalized selected range, end inclusive
func (t *Tracker) Span() (from, to Position, ok bool) {
	if !t.active || !t.moved {
		return Position{}, Position{}, false
	}
	from, to = t.start, t.end
	if to.before(from) {
		from, to = to, from
	}
	return from, to, true
}

// Reset abandons any gesture in progress
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Release finishes the gesture at p and extracts the covered text from
// lines. A click without movement yields an empty selection.
func (t *Tracker) Release(p Position, lines []string, origin Origin) Selection {
	t.Drag(p)
	from, to, ok := t.Span()
	t.Reset()
	if !ok || len(lines) == 0 {
		return Selection{}
	}

	from.Line = clampLine(from.Line, len(lines))
	to.Line = clampLine(to.Line, len(lines))

	var (
		parts       []string
		left, right = -1, 0
	)
	for l := from.Line; l <= to.Line; l++ {
		line := lines[l]
		width := ansi.StringWidth(line)

		startCol, endCol := 0, width
		if l == from.Line {
			startCol = min(max(from.Col, 0), width)
		}
		if l == to.Line {
			endCol = min(max(to.Col+1, 0), width)
		}
		if endCol < startCol {
			endCol = startCol
		}

		parts = append(parts, ansi.Cut(line, startCol, endCol))
		if left < 0 || startCol < left {
			left = startCol
		}
		right = max(right, endCol)
	}
	if left < 0 {
		left = 0
	}

	return Selection{
		Text: strings.Join(parts, "\n"),
		Box: Rect{
			Left:   float64(origin.Col + left),
			Top:    float64(origin.Row + from.Line - origin.FirstLine),
			Width:  float64(max(right-left, 0)),
			Height: float64(to.Line - from.Line + 1),
		},
	}
}

func clampLine(l, n int) int {
	return min(max(l, 0), n-1)
}
