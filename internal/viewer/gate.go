package viewer

import (
	"math"
	"time"
)

// DefaultDebounce is how long the navigation lock holds after a page turn
const DefaultDebounce = 500 * time.Millisecond

// edgeTolerance is the distance (in scroll units) still treated as touching an edge
const edgeTolerance = 2

// Geometry is the scroll state of the container showing the current page
type Geometry struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// AtBottom reports whether the container is scrolled to its end
func (g Geometry) AtBottom() bool {
	return math.Abs(g.ScrollHeight-g.ClientHeight-g.ScrollTop) < edgeTolerance
}

// AtTop reports whether the container is scrolled to its start
func (g Geometry) AtTop() bool {
	return g.ScrollTop < edgeTolerance
}

// WheelEvent is a single wheel notch. Positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY   float64
	Zoom     bool // modifier held, the gesture belongs to zoom
	Geometry Geometry
}

// Lock is the navigation lock. Every engagement gets a new token so a
// release scheduled for an older engagement can be told apart.
type Lock struct {
	engaged bool
	token   uint64
}

// Engaged reports whether page turns are currently suppressed
func (l *Lock) Engaged() bool {
	return l.engaged
}

func (l *Lock) engage() uint64 {
	l.token++
	l.engaged = true
	return l.token
}

// Release disengages the lock if token belongs to the current engagement
func (l *Lock) Release(token uint64) bool {
	if !l.engaged || token != l.token {
		return false
	}
	l.engaged = false
	return true
}

// Cancel disengages the lock and invalidates any pending release
func (l *Lock) Cancel() {
	l.token++
	l.engaged = false
}

// Turn describes a page transition produced by the gate. The caller must
// arrange for Gate.Release(Token) to run once After has elapsed.
type Turn struct {
	Page  int
	Token uint64
	After time.Duration
}

// Gate interprets wheel gestures at scroll edges as page turns
type Gate struct {
	window time.Duration
	lock   Lock
}

// NewGate creates a gate with the given debounce window
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Gate{window: window}
}

// Window returns the debounce window
func (g *Gate) Window() time.Duration {
	return g.window
}

// Locked reports whether the navigation lock is engaged
func (g *Gate) Locked() bool {
	return g.lock.Engaged()
}

// Handle applies a wheel event to v. It returns the resulting turn and true
// only when the page actually changed.
func (g *Gate) Handle(v *Viewport, ev WheelEvent) (Turn, bool) {
	if ev.Zoom || g.lock.Engaged() {
		return Turn{}, false
	}

	var delta int
	switch {
	case ev.DeltaY > 0 && ev.Geometry.AtBottom() && v.CurrentPage < v.TotalPages:
		delta = 1
	case ev.DeltaY < 0 && ev.Geometry.AtTop() && v.CurrentPage > 1:
		delta = -1
	default:
		return Turn{}, false
	}

	token := g.lock.engage()
	page := v.NextPage(delta)
	return Turn{Page: page, Token: token, After: g.window}, true
}

// Release ends the debounce window started by the turn with token
func (g *Gate) Release(token uint64) bool {
	return g.lock.Release(token)
}

// Cancel drops the lock and any pending release, used on session teardown
func (g *Gate) Cancel() {
	g.lock.Cancel()
}
