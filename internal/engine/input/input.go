// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/spotlight-stage/internal/scene"
)

// Key bindings.
const (
	KeyClose   sdl.Scancode = sdl.SCANCODE_ESCAPE
	KeyCapture sdl.Scancode = sdl.SCANCODE_P
)

// EventType is the kind of a processed event.
type EventType int

const (
	EventQuit EventType = iota
	EventWindowResize
	EventKeyDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type:   EventKeyDown,
					Key:    e.Keysym.Scancode,
					Repeat: e.Repeat != 0,
				})
			}
		}
	}

	return quit
}

// IsKeyPressed reports whether a key went down this frame. Auto-repeat
// events do not count.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && !e.Repeat && e.Key == scancode {
			return true
		}
	}
	return false
}

// Resized reports the last resize of this frame, if any.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// Frame builds the driver input for this frame. quit is the result of
// Update; the framebuffer size is the drawable size in pixels.
func (i *Input) Frame(quit bool, fbWidth, fbHeight int) scene.Input {
	return scene.Input{
		CloseRequested:    quit || i.IsKeyPressed(KeyClose),
		CaptureRequested:  i.IsKeyPressed(KeyCapture),
		FramebufferWidth:  fbWidth,
		FramebufferHeight: fbHeight,
	}
}
