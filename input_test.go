package main

import (
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// pointerFrame is the device state seen during one tick
type pointerFrame struct {
	cursor       Point
	leftPressed  bool
	leftReleased bool
	touches      map[ebiten.TouchID]Point
	justPressed  []ebiten.TouchID
	released     map[ebiten.TouchID]Point
}

type fakePointer struct {
	frame pointerFrame
}

func (f *fakePointer) CursorPosition() (int, int) {
	return int(f.frame.cursor.X), int(f.frame.cursor.Y)
}

func (f *fakePointer) LeftJustPressed() bool  { return f.frame.leftPressed }
func (f *fakePointer) LeftJustReleased() bool { return f.frame.leftReleased }

func (f *fakePointer) AppendTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID {
	for id := range f.frame.touches {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakePointer) AppendJustPressedTouchIDs(ids []ebiten.TouchID) []ebiten.TouchID {
	return append(ids, f.frame.justPressed...)
}

func (f *fakePointer) TouchJustReleased(id ebiten.TouchID) bool {
	_, ok := f.frame.released[id]
	return ok
}

func (f *fakePointer) TouchPosition(id ebiten.TouchID) (int, int) {
	p := f.frame.touches[id]
	return int(p.X), int(p.Y)
}

func (f *fakePointer) TouchPositionInPreviousTick(id ebiten.TouchID) (int, int) {
	p := f.frame.released[id]
	return int(p.X), int(p.Y)
}

func touches(pairs ...interface{}) map[ebiten.TouchID]Point {
	m := make(map[ebiten.TouchID]Point)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[ebiten.TouchID(pairs[i].(int))] = pairs[i+1].(Point)
	}
	return m
}

func phasesOf(events []PointerEvent) []PointerPhase {
	var phases []PointerPhase
	for _, ev := range events {
		phases = append(phases, ev.Phase)
	}
	return phases
}

func TestPointerReader(t *testing.T) {
	tests := []struct {
		name        string
		enableMouse bool
		frames      []pointerFrame
		want        [][]PointerPhase
	}{
		{
			name:        "touch tap",
			enableMouse: true,
			frames: []pointerFrame{
				{touches: touches(1, Point{5, 5}), justPressed: []ebiten.TouchID{1}},
				{touches: touches(1, Point{8, 5})},
				{released: map[ebiten.TouchID]Point{1: {8, 5}}},
			},
			want: [][]PointerPhase{{PointerDown}, {PointerMove}, {PointerUp}},
		},
		{
			name:        "second finger cancels and blocks until all lift",
			enableMouse: true,
			frames: []pointerFrame{
				{touches: touches(1, Point{10, 10}), justPressed: []ebiten.TouchID{1}},
				{touches: touches(1, Point{10, 10}, 2, Point{90, 10}), justPressed: []ebiten.TouchID{2}},
				{touches: touches(1, Point{30, 10})},
				{released: map[ebiten.TouchID]Point{1: {30, 10}}},
				{touches: touches(3, Point{40, 40}), justPressed: []ebiten.TouchID{3}},
			},
			want: [][]PointerPhase{{PointerDown}, {PointerLeave}, nil, nil, {PointerDown}},
		},
		{
			name:        "two fingers landing together are ignored",
			enableMouse: true,
			frames: []pointerFrame{
				{touches: touches(1, Point{1, 1}, 2, Point{9, 9}), justPressed: []ebiten.TouchID{1, 2}},
				{touches: touches(2, Point{9, 9})},
				{},
			},
			want: [][]PointerPhase{nil, nil, nil},
		},
		{
			name:        "mouse leaving the window ends the press",
			enableMouse: true,
			frames: []pointerFrame{
				{cursor: Point{50, 50}, leftPressed: true},
				{cursor: Point{60, 50}},
				{cursor: Point{-5, 50}},
				{cursor: Point{-5, 50}, leftReleased: true},
			},
			want: [][]PointerPhase{{PointerDown}, {PointerMove}, {PointerLeave}, nil},
		},
		{
			name:        "mouse click",
			enableMouse: true,
			frames: []pointerFrame{
				{cursor: Point{50, 50}, leftPressed: true},
				{cursor: Point{50, 50}, leftReleased: true},
			},
			want: [][]PointerPhase{{PointerDown}, {PointerUp}},
		},
		{
			name:        "mouse disabled",
			enableMouse: false,
			frames: []pointerFrame{
				{cursor: Point{50, 50}, leftPressed: true},
				{cursor: Point{50, 50}, leftReleased: true},
			},
			want: [][]PointerPhase{nil, nil},
		},
		{
			name:        "mouse ignored while a touch is active",
			enableMouse: true,
			frames: []pointerFrame{
				{cursor: Point{50, 50}, touches: touches(1, Point{5, 5}), justPressed: []ebiten.TouchID{1}, leftPressed: true},
			},
			want: [][]PointerPhase{{PointerDown}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &fakePointer{}
			reader := pointerReader{device: device, enableMouse: tt.enableMouse}
			for i, frame := range tt.frames {
				device.frame = frame
				got := phasesOf(reader.read(int64(i*16), 200, 200))
				if !reflect.DeepEqual(got, tt.want[i]) {
					t.Errorf("frame %d phases = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestSecondFingerCancelsGesture(t *testing.T) {
	frames := []pointerFrame{
		{touches: touches(1, Point{200, 10}), justPressed: []ebiten.TouchID{1}},
		{touches: touches(1, Point{100, 10})},
		{touches: touches(1, Point{100, 10}, 2, Point{150, 90}), justPressed: []ebiten.TouchID{2}},
		{touches: touches(1, Point{60, 10})},
		{},
	}

	tests := []struct {
		name   string
		zoomed bool
		want   []IntentKind
	}{
		{"swipe resolves to nothing", false, []IntentKind{IntentStartSwipeTrack, IntentUpdateSwipeTrack, IntentResolveSwipe}},
		{"pan ends", true, []IntentKind{IntentStartPan, IntentUpdatePan, IntentEndPan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &fakePointer{}
			reader := pointerReader{device: device, enableMouse: true}
			recognizer := NewGestureRecognizer(DefaultGestureSettings())

			var intents []Intent
			for i, frame := range frames {
				device.frame = frame
				for _, ev := range reader.read(int64(i*16), 400, 400) {
					intents = append(intents, recognizer.Handle(ev, tt.zoomed)...)
				}
			}

			if got := intentKinds(intents); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("intents = %v, want %v", got, tt.want)
			}
			if last := intents[len(intents)-1]; last.Kind == IntentResolveSwipe && last.Direction != SwipeNone {
				t.Errorf("cancelled swipe navigated %v", last.Direction)
			}
			if recognizer.InSession() {
				t.Error("session left open")
			}
		})
	}
}
