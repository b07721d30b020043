package main

import "math"

// Gesture tuning defaults
const (
	defaultSwipeThreshold  = 50.0 // logical pixels
	defaultTapSlop         = 6.0  // logical pixels a tap may wander
	defaultDoubleTapWindow = 300  // milliseconds
)

// Point is a position or offset in logical pixels
type Point struct {
	X, Y float64
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Len returns the euclidean length of p
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// PointerSource tells mouse and touch input apart
type PointerSource int

const (
	PointerMouse PointerSource = iota
	PointerTouch
)

// PointerPhase is the stage of a pointer interaction
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerLeave
)

// PointerEvent is a raw mouse or touch event in logical pixels
type PointerEvent struct {
	Phase    PointerPhase
	Source   PointerSource
	Pos      Point
	Pointers int   // number of active pointers; anything but 1 is ignored
	TimeMs   int64 // host timestamp in milliseconds
}

// IntentKind identifies what a recognized gesture asks the viewer to do
type IntentKind int

const (
	IntentStartPan IntentKind = iota
	IntentUpdatePan
	IntentEndPan
	IntentStartSwipeTrack
	IntentUpdateSwipeTrack
	IntentResolveSwipe
	IntentTap
	IntentToggleZoom
)

func (k IntentKind) String() string {
	switch k {
	case IntentStartPan:
		return "startPan"
	case IntentUpdatePan:
		return "updatePan"
	case IntentEndPan:
		return "endPan"
	case IntentStartSwipeTrack:
		return "startSwipeTrack"
	case IntentUpdateSwipeTrack:
		return "updateSwipeTrack"
	case IntentResolveSwipe:
		return "resolveSwipe"
	case IntentTap:
		return "tap"
	case IntentToggleZoom:
		return "toggleZoom"
	default:
		return "unknown"
	}
}

// SwipeDirection is the navigation a finished swipe resolves to
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeForward
	SwipeBackward
)

// Intent is the output of the gesture recognizer
type Intent struct {
	Kind      IntentKind
	Pos       Point // pan origin or tap position
	Delta     Point // pan delta from the drag origin
	X         float64
	Direction SwipeDirection
	TimeMs    int64
}

// GestureSettings configures the recognizer thresholds
type GestureSettings struct {
	SwipeThreshold    float64
	TapSlop           float64
	DoubleTapWindowMs int64
}

// DefaultGestureSettings returns the stock thresholds
func DefaultGestureSettings() GestureSettings {
	return GestureSettings{
		SwipeThreshold:    defaultSwipeThreshold,
		TapSlop:           defaultTapSlop,
		DoubleTapWindowMs: defaultDoubleTapWindow,
	}
}

// pointerSession is the data spanning one pointer-down to pointer-up interaction
type pointerSession struct {
	source  PointerSource
	origin  Point
	panning bool // began while zoomed
	moved   bool // wandered past the tap slop at some point
}

// GestureRecognizer turns pointer sessions into intents. It keeps only the
// in-progress session and the last tap timestamp between events.
type GestureRecognizer struct {
	settings GestureSettings
	session  *pointerSession

	lastTapMs int64
	hasTapped bool
}

// NewGestureRecognizer creates a recognizer with the given thresholds
func NewGestureRecognizer(settings GestureSettings) *GestureRecognizer {
	if settings.SwipeThreshold <= 0 {
		settings.SwipeThreshold = defaultSwipeThreshold
	}
	if settings.TapSlop < 0 {
		settings.TapSlop = defaultTapSlop
	}
	if settings.DoubleTapWindowMs <= 0 {
		settings.DoubleTapWindowMs = defaultDoubleTapWindow
	}
	return &GestureRecognizer{settings: settings}
}

// InSession reports whether a pointer is currently down
func (r *GestureRecognizer) InSession() bool {
	return r.session != nil
}

// LastTapMs returns the timestamp of the most recent tap
func (r *GestureRecognizer) LastTapMs() int64 {
	return r.lastTapMs
}

// Reset drops any in-progress session. The last tap timestamp is kept.
func (r *GestureRecognizer) Reset() {
	r.session = nil
}

// Handle classifies one pointer event. zoomed is the viewer's zoom flag at the
// time of the event; it decides whether a new session pans or swipes.
func (r *GestureRecognizer) Handle(ev PointerEvent, zoomed bool) []Intent {
	if ev.Pointers > 1 {
		return nil
	}

	switch ev.Phase {
	case PointerDown:
		return r.down(ev, zoomed)
	case PointerMove:
		return r.move(ev)
	case PointerUp:
		return r.up(ev)
	case PointerLeave:
		return r.leave()
	}
	return nil
}

func (r *GestureRecognizer) down(ev PointerEvent, zoomed bool) []Intent {
	if r.session != nil {
		return nil
	}

	r.session = &pointerSession{
		source:  ev.Source,
		origin:  ev.Pos,
		panning: zoomed,
	}

	if zoomed {
		return []Intent{{Kind: IntentStartPan, Pos: ev.Pos, TimeMs: ev.TimeMs}}
	}
	if ev.Source == PointerTouch {
		return []Intent{{Kind: IntentStartSwipeTrack, X: ev.Pos.X, TimeMs: ev.TimeMs}}
	}
	// Unzoomed mouse press: only a click candidate
	return nil
}

func (r *GestureRecognizer) move(ev PointerEvent) []Intent {
	s := r.session
	if s == nil {
		return nil
	}

	delta := ev.Pos.Sub(s.origin)
	if delta.Len() > r.settings.TapSlop {
		s.moved = true
	}

	if s.panning {
		return []Intent{{Kind: IntentUpdatePan, Delta: delta, TimeMs: ev.TimeMs}}
	}
	if s.source == PointerTouch {
		return []Intent{{Kind: IntentUpdateSwipeTrack, X: ev.Pos.X, TimeMs: ev.TimeMs}}
	}
	return nil
}

func (r *GestureRecognizer) up(ev PointerEvent) []Intent {
	s := r.session
	if s == nil {
		return nil
	}
	r.session = nil

	if ev.Pos.Sub(s.origin).Len() > r.settings.TapSlop {
		s.moved = true
	}

	var out []Intent
	switch {
	case s.panning:
		out = append(out, Intent{Kind: IntentEndPan, TimeMs: ev.TimeMs})
	case s.source == PointerTouch:
		dir := r.swipeDirection(s.origin.X, ev.Pos.X)
		out = append(out, Intent{Kind: IntentResolveSwipe, Direction: dir, X: ev.Pos.X, TimeMs: ev.TimeMs})
		if dir != SwipeNone {
			return out
		}
	}

	// A session that dragged is never a tap candidate
	if !s.moved {
		out = append(out, r.tap(ev.Pos, ev.TimeMs)...)
	}
	return out
}

func (r *GestureRecognizer) leave() []Intent {
	s := r.session
	if s == nil {
		return nil
	}
	r.session = nil

	switch {
	case s.panning:
		return []Intent{{Kind: IntentEndPan}}
	case s.source == PointerTouch:
		return []Intent{{Kind: IntentResolveSwipe, Direction: SwipeNone}}
	}
	return nil
}

// swipeDirection compares the horizontal travel against the threshold.
// Travel toward the leading edge (finger moving left) navigates forward.
func (r *GestureRecognizer) swipeDirection(startX, endX float64) SwipeDirection {
	distance := startX - endX
	switch {
	case distance > r.settings.SwipeThreshold:
		return SwipeForward
	case distance < -r.settings.SwipeThreshold:
		return SwipeBackward
	default:
		return SwipeNone
	}
}

// tap emits a tap and, when it closes a double tap, a zoom toggle
func (r *GestureRecognizer) tap(pos Point, ts int64) []Intent {
	out := []Intent{{Kind: IntentTap, Pos: pos, TimeMs: ts}}

	if r.hasTapped {
		gap := ts - r.lastTapMs
		if gap > 0 && gap < r.settings.DoubleTapWindowMs {
			out = append(out, Intent{Kind: IntentToggleZoom, Pos: pos, TimeMs: ts})
		}
	}

	if !r.hasTapped || ts > r.lastTapMs {
		r.lastTapMs = ts
	}
	r.hasTapped = true
	return out
}
