// Package input samples SDL2 events, held keys and the pointer once per
// frame.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tessterrain/internal/engine/camera"
)

// EventType tells events apart.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events. Returns true once the window has been
// asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			i.quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			// Auto-repeat would re-fire toggles while a key is held
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Sym,
				})
			}
		}
	}

	return i.quit
}

// Pressed returns the keys pressed since the last Update, in order.
func (i *Input) Pressed() []sdl.Keycode {
	var keys []sdl.Keycode
	for _, e := range i.events {
		if e.Type == EventKeyDown {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Resized returns the newest window size reported since the last Update.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// Movement reads the held movement keys: W/S/A/D or the arrow keys.
func (i *Input) Movement() camera.Movement {
	state := sdl.GetKeyboardState()
	return movementFrom(func(sc sdl.Scancode) bool {
		return int(sc) < len(state) && state[sc] != 0
	})
}

func movementFrom(held func(sdl.Scancode) bool) camera.Movement {
	return camera.Movement{
		Forward: held(sdl.SCANCODE_W) || held(sdl.SCANCODE_UP),
		Back:    held(sdl.SCANCODE_S) || held(sdl.SCANCODE_DOWN),
		Left:    held(sdl.SCANCODE_A) || held(sdl.SCANCODE_LEFT),
		Right:   held(sdl.SCANCODE_D) || held(sdl.SCANCODE_RIGHT),
	}
}

// PointerOffset returns the pointer position relative to (cx, cy) in
// window coordinates.
func (i *Input) PointerOffset(cx, cy int32) (dx, dy float32) {
	x, y, _ := sdl.GetMouseState()
	return offset(x, y, cx, cy)
}

func offset(x, y, cx, cy int32) (float32, float32) {
	return float32(x - cx), float32(y - cy)
}
