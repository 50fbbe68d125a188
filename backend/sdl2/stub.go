//go:build !sdl2

// Package sdl2 implements a Backend on top of SDL2 window/renderer/audio
// bindings. Building it requires the SDL2 development libraries, so the
// default build (no sdl2 tag) compiles this stub instead.
package sdl2

import (
	"fmt"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/video"
)

// Backend is a stand-in for the real SDL2 backend when built without the
// sdl2 tag.
type Backend struct{}

// New creates a stub SDL2 backend whose Init always fails.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("sdl2 backend not available: build with -tags sdl2 to enable")
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("sdl2 backend not available")
}

func (s *Backend) Cleanup() error { return nil }
