package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelScrollStep is the grid scroll distance per wheel notch
const wheelScrollStep = 48.0

// pointerDevice is the mouse and touch polling surface read once per frame
type pointerDevice interface {
	CursorPosition() (int, int)
	LeftJustPressed() bool
	LeftJustReleased() bool
	AppendTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID
	AppendJustPressedTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID
	TouchJustReleased(id ebiten.TouchID) bool
	TouchPosition(id ebiten.TouchID) (int, int)
	TouchPositionInPreviousTick(id ebiten.TouchID) (int, int)
}

// ebitenPointer polls ebiten and inpututil directly
type ebitenPointer struct{}

func (ebitenPointer) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenPointer) LeftJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (ebitenPointer) LeftJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

func (ebitenPointer) AppendTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID {
	return ebiten.AppendTouchIDs(ids)
}

func (ebitenPointer) AppendJustPressedTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(ids)
}

func (ebitenPointer) TouchJustReleased(id ebiten.TouchID) bool {
	return inpututil.IsTouchJustReleased(id)
}

func (ebitenPointer) TouchPosition(id ebiten.TouchID) (int, int) {
	return ebiten.TouchPosition(id)
}

func (ebitenPointer) TouchPositionInPreviousTick(id ebiten.TouchID) (int, int) {
	return inpututil.TouchPositionInPreviousTick(id)
}

// pointerReader turns mouse and touch polling into unified pointer events.
// At most one pointer session is tracked; a second finger cancels it.
type pointerReader struct {
	device      pointerDevice
	enableMouse bool

	mouseDown bool
	lastMouse Point

	touchID       ebiten.TouchID
	touchActive   bool
	touchBlocked  bool
	lastTouch     Point
	touchIDBuffer []ebiten.TouchID
}

// read returns this frame's pointer events, stamped with timeMs
func (pr *pointerReader) read(timeMs int64, viewW, viewH int) []PointerEvent {
	var events []PointerEvent
	events = append(events, pr.readTouch(timeMs)...)
	if pr.touchActive || pr.touchBlocked || !pr.enableMouse {
		return events
	}
	return append(events, pr.readMouse(timeMs, viewW, viewH)...)
}

func (pr *pointerReader) readMouse(timeMs int64, viewW, viewH int) []PointerEvent {
	x, y := pr.device.CursorPosition()
	pos := Point{X: float64(x), Y: float64(y)}
	inside := x >= 0 && y >= 0 && x < viewW && y < viewH
	mouse := func(phase PointerPhase) PointerEvent {
		return PointerEvent{Phase: phase, Source: PointerMouse, Pos: pos, Pointers: 1, TimeMs: timeMs}
	}

	var events []PointerEvent
	switch {
	case pr.device.LeftJustPressed() && inside:
		pr.mouseDown = true
		events = append(events, mouse(PointerDown))
	case pr.device.LeftJustReleased() && pr.mouseDown:
		pr.mouseDown = false
		events = append(events, mouse(PointerUp))
	case pr.mouseDown && !inside:
		pr.mouseDown = false
		events = append(events, mouse(PointerLeave))
	case pos != pr.lastMouse && inside:
		events = append(events, mouse(PointerMove))
	}
	pr.lastMouse = pos
	return events
}

func (pr *pointerReader) readTouch(timeMs int64) []PointerEvent {
	pr.touchIDBuffer = pr.device.AppendTouchIDs(pr.touchIDBuffer[:0])
	count := len(pr.touchIDBuffer)
	touch := func(phase PointerPhase, pos Point, pointers int) PointerEvent {
		return PointerEvent{Phase: phase, Source: PointerTouch, Pos: pos, Pointers: pointers, TimeMs: timeMs}
	}

	var events []PointerEvent
	switch {
	case pr.touchBlocked:
		if count == 0 {
			pr.touchBlocked = false
		}

	case pr.touchActive && count > 1:
		// A second finger turns the gesture into an unsupported pinch
		pr.touchActive = false
		pr.touchBlocked = true
		events = append(events, touch(PointerLeave, pr.lastTouch, 1))

	case pr.touchActive && pr.device.TouchJustReleased(pr.touchID):
		pr.touchActive = false
		x, y := pr.device.TouchPositionInPreviousTick(pr.touchID)
		events = append(events, touch(PointerUp, Point{X: float64(x), Y: float64(y)}, 1))

	case pr.touchActive:
		x, y := pr.device.TouchPosition(pr.touchID)
		pos := Point{X: float64(x), Y: float64(y)}
		if pos != pr.lastTouch {
			pr.lastTouch = pos
			events = append(events, touch(PointerMove, pos, 1))
		}

	case count == 1:
		ids := pr.device.AppendJustPressedTouchIDs(nil)
		if len(ids) == 1 {
			pr.touchID = ids[0]
			pr.touchActive = true
			x, y := pr.device.TouchPosition(pr.touchID)
			pr.lastTouch = Point{X: float64(x), Y: float64(y)}
			events = append(events, touch(PointerDown, pr.lastTouch, 1))
		}

	case count > 1:
		pr.touchBlocked = true
	}
	return events
}

// InputHandler routes one frame of input either to the mounted viewer or to
// the gallery. The scope is decided once per frame so a key that closes the
// viewer is never also seen by the gallery.
type InputHandler struct {
	gallery      *Gallery
	keys         *KeyDispatcher
	viewerKeys   *KeybindingManager
	galleryKeys  *KeybindingManager
	viewerMouse  *MousebindingManager
	galleryMouse *MousebindingManager
	clock        Clock
	epoch        time.Time
	pointer      pointerReader

	// galleryPress is the tile under a pending gallery tap, or -1
	galleryPress  int
	galleryOrigin Point
	galleryLastY  float64
	gallerySlop   float64
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(gallery *Gallery, keys *KeyDispatcher, config Config, clock Clock) *InputHandler {
	return &InputHandler{
		gallery:      gallery,
		keys:         keys,
		viewerKeys:   NewKeybindingManager(ScopeViewer, config.ViewerKeybindings),
		galleryKeys:  NewKeybindingManager(ScopeGallery, config.GalleryKeybindings),
		viewerMouse:  NewMousebindingManager(ScopeViewer, config.ViewerMousebindings, config.Mouse),
		galleryMouse: NewMousebindingManager(ScopeGallery, config.GalleryMousebindings, config.Mouse),
		clock:        clock,
		epoch:        clock.Now(),
		pointer:      pointerReader{device: ebitenPointer{}, enableMouse: config.Mouse.EnableMouse},
		galleryPress: -1,
		gallerySlop:  config.Mouse.TapSlop,
	}
}

// HandleInput processes all input for the current frame.
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput(projection Projection, viewW, viewH int) bool {
	timeMs := h.clock.Now().Sub(h.epoch).Milliseconds()
	events := h.pointer.read(timeMs, viewW, viewH)

	if viewer := h.gallery.Viewer(); viewer != nil {
		return h.handleViewerInput(viewer, projection, events)
	}
	return h.handleGalleryInput(events)
}

func (h *InputHandler) handleViewerInput(viewer *Viewer, projection Projection, events []PointerEvent) bool {
	inputProcessed := false

	for _, action := range h.viewerKeys.PressedActions() {
		inputProcessed = h.keys.Dispatch(action) || inputProcessed
	}
	for _, action := range h.viewerMouse.PressedActions() {
		inputProcessed = h.keys.Dispatch(action) || inputProcessed
	}

	for _, ev := range events {
		if h.gallery.Viewer() != viewer {
			break
		}
		if ev.Phase == PointerDown && !viewer.gestures.InSession() {
			if control := projection.ControlAt(ev.Pos); control != ControlNone {
				viewer.Activate(control)
				inputProcessed = true
				continue
			}
		}
		viewer.HandlePointer(ev)
		inputProcessed = true
	}

	return inputProcessed
}

func (h *InputHandler) handleGalleryInput(events []PointerEvent) bool {
	inputProcessed := false

	for _, action := range h.galleryKeys.PressedActions() {
		inputProcessed = globalActionExecutor.ExecuteGalleryAction(action, h.gallery) || inputProcessed
	}
	for _, action := range h.galleryMouse.PressedActions() {
		inputProcessed = globalActionExecutor.ExecuteGalleryAction(action, h.gallery) || inputProcessed
	}
	if h.gallery.Viewer() != nil {
		return inputProcessed
	}

	if wheel := h.galleryMouse.ReadWheel(); wheel != 0 {
		h.gallery.Scroll(-wheel * wheelScrollStep)
		inputProcessed = true
	}

	for _, ev := range events {
		switch ev.Phase {
		case PointerDown:
			h.galleryPress = h.gallery.TileAt(ev.Pos)
			h.galleryOrigin = ev.Pos
			h.galleryLastY = ev.Pos.Y
		case PointerMove:
			if ev.Source == PointerTouch {
				h.gallery.Scroll(h.galleryLastY - ev.Pos.Y)
				h.galleryLastY = ev.Pos.Y
			}
			if ev.Pos.Sub(h.galleryOrigin).Len() > h.gallerySlop {
				h.galleryPress = -1
			}
		case PointerUp:
			if h.galleryPress >= 0 && h.gallery.TileAt(ev.Pos) == h.galleryPress {
				if err := h.gallery.Open(h.galleryPress); err != nil {
					h.gallery.message("Cannot open image")
				}
				inputProcessed = true
			}
			h.galleryPress = -1
		case PointerLeave:
			h.galleryPress = -1
		}
	}

	return inputProcessed
}

// Keybindings returns both scopes' keybindings for the help overlay
func (h *InputHandler) Keybindings() map[string][]string {
	return mergeScopes(h.viewerKeys.GetKeybindings(), h.galleryKeys.GetKeybindings())
}

// Mousebindings returns both scopes' mouse bindings for the help overlay
func (h *InputHandler) Mousebindings() map[string][]string {
	return mergeScopes(h.viewerMouse.GetMousebindings(), h.galleryMouse.GetMousebindings())
}

func mergeScopes(scopes ...map[string][]string) map[string][]string {
	merged := make(map[string][]string)
	for _, bindings := range scopes {
		for action, keys := range bindings {
			merged[action] = append(merged[action], keys...)
		}
	}
	return merged
}
