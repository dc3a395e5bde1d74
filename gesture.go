package main

import (
	"image"
	"time"
)

type touchAxis int

const (
	axisX touchAxis = iota
	axisY
)

// GestureKind is the classified outcome of one touch-down/touch-up cycle.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureSwipePrev
	GestureSwipeNext
	GestureTap
)

// GestureResult carries the classification plus the final screen
// position for taps.
type GestureResult struct {
	Kind   GestureKind
	X, Y   int
	Reason string
}

const (
	gestureIdle = iota
	// touch-down seen, waiting for the first fresh sample on each axis
	gestureTracking
	// start position captured, waiting for touch-up
	gestureArmed
)

// gestureClassifier turns raw touch samples bracketed by down/up events
// into swipes and taps. Coordinates reported before the down event are
// stale leftovers from the previous contact and are discarded.
type gestureClassifier struct {
	transform      TouchTransform
	swipeThreshold int
	tapThreshold   int
	tapTimeout     time.Duration

	state  int
	haveX  bool
	haveY  bool
	rawX   int
	rawY   int
	startX int
	startY int
	startT time.Time
	curX   int
	curY   int

	now func() time.Time
}

func newGestureClassifier(t TouchTransform, swipeThreshold, tapThreshold int, tapTimeout time.Duration) *gestureClassifier {
	return &gestureClassifier{
		transform:      t,
		swipeThreshold: swipeThreshold,
		tapThreshold:   tapThreshold,
		tapTimeout:     tapTimeout,
		now:            time.Now,
	}
}

// Down begins a new contact. Any buffered axis samples are dropped.
func (g *gestureClassifier) Down() {
	g.state = gestureTracking
	g.haveX = false
	g.haveY = false
}

// Sample records one axis update. While idle the controller still
// streams coordinates occasionally; those are ignored.
func (g *gestureClassifier) Sample(axis touchAxis, value int) {
	if g.state == gestureIdle {
		return
	}
	switch axis {
	case axisX:
		g.rawX = value
		g.haveX = true
	case axisY:
		g.rawY = value
		g.haveY = true
	}
	if !g.haveX || !g.haveY {
		return
	}
	x, y := g.transform.Apply(g.rawX, g.rawY)
	g.curX, g.curY = x, y
	if g.state == gestureTracking {
		g.startX, g.startY = x, y
		g.startT = g.now()
		g.state = gestureArmed
	}
}

// Up ends the contact and classifies it. The classifier always returns
// to idle, whether or not a gesture was recognized.
func (g *gestureClassifier) Up() GestureResult {
	state := g.state
	g.state = gestureIdle
	g.haveX = false
	g.haveY = false

	if state != gestureArmed {
		return GestureResult{Kind: GestureNone, Reason: "no position captured"}
	}

	dx := g.curX - g.startX
	dy := g.curY - g.startY
	duration := g.now().Sub(g.startT)

	// Rightward motion pages backwards: the panels slide under the
	// finger, so dragging right reveals the previous one.
	if abs(dx) > g.swipeThreshold && abs(dx) > abs(dy) {
		if dx > 0 {
			return GestureResult{Kind: GestureSwipePrev}
		}
		return GestureResult{Kind: GestureSwipeNext}
	}

	if abs(dx) < g.tapThreshold && abs(dy) < g.tapThreshold && duration < g.tapTimeout {
		return GestureResult{Kind: GestureTap, X: g.curX, Y: g.curY}
	}

	return GestureResult{Kind: GestureNone, Reason: "ambiguous motion"}
}

type navTapAction int

const (
	navTapNone navTapAction = iota
	navTapPrev
	navTapNext
)

// navButtons holds the hit rectangles for the footer's prev/next
// buttons. The hit area extends past the drawn button so slightly
// off-center taps still register.
type navButtons struct {
	prev image.Rectangle
	next image.Rectangle
}

// makeNavButtons derives the hit rectangles from the screen geometry.
// The visual rects live in the footer strip; the hit rects grow by
// NAV_HIT_MARGIN on every side.
func makeNavButtons(width, height, navBarHeight int) navButtons {
	barTop := height - navBarHeight
	left := image.Rect(NAV_BUTTON_INSET, barTop, NAV_BUTTON_INSET+NAV_BUTTON_WIDTH, height)
	right := image.Rect(width-NAV_BUTTON_INSET-NAV_BUTTON_WIDTH, barTop, width-NAV_BUTTON_INSET, height)
	return navButtons{
		prev: left.Inset(-NAV_HIT_MARGIN),
		next: right.Inset(-NAV_HIT_MARGIN),
	}
}

// hitTest resolves a tap position to a navigation action. Taps outside
// both buttons do nothing, even inside the footer strip.
func (b navButtons) hitTest(x, y int) navTapAction {
	pt := image.Pt(x, y)
	switch {
	case pt.In(b.prev):
		return navTapPrev
	case pt.In(b.next):
		return navTapNext
	default:
		return navTapNone
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
