// Package backend defines the interface an emulator frontend implements to
// turn rendered frames into pixels and platform input into joypad events.
package backend

import (
	"github.com/astrid-emu/gbcore/audio"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/astrid-emu/gbcore/video"
)

// InputEventType distinguishes a button press from a release.
type InputEventType int

const (
	Press InputEventType = iota
	Release
)

// Quit is a pseudo-button a backend reports to ask the run loop to stop,
// distinct from any real joypad.Button so it can never be confused with one.
const Quit joypad.Button = 0xFF

// InputEvent is a single button edge a backend observed this update.
type InputEvent struct {
	Button joypad.Button
	Type   InputEventType
}

// Config configures a Backend at startup. Backends ignore fields they don't
// support.
type Config struct {
	Title       string
	Scale       int
	VSync       bool
	TestPattern bool       // render a fixed pattern instead of emulation, to smoke-test the display path
	APU         *audio.APU // optional: backends that play audio pull samples from here
}

// Backend is a complete frontend: it renders a frame to some output and
// collects platform input as InputEvents.
type Backend interface {
	// Init prepares the backend. Must be called once before Update.
	Init(config Config) error

	// Update renders frame and returns whatever button edges occurred since
	// the last call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup releases any backend resources.
	Cleanup() error
}
