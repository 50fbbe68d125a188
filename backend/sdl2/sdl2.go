//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/astrid-emu/gbcore/video"
	"github.com/veandco/go-sdl2/sdl"
)

const pixelScale = 4

// Backend renders through an SDL2 window, texture and renderer, and queues
// APU samples to an SDL audio device when a Provider is configured.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.Config

	audioDevice sdl.AudioDeviceID
	pixelBuffer []byte
	eventBuffer []backend.InputEvent
}

// New creates an SDL2 Backend.
func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL2: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = pixelScale
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.ScreenWidth*scale), int32(video.ScreenHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(video.ScreenWidth), int32(video.ScreenHeight),
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating texture: %w", err)
	}
	s.texture = texture

	s.pixelBuffer = make([]byte, video.ScreenWidth*video.ScreenHeight*4)
	s.eventBuffer = make([]backend.InputEvent, 0, 10)
	s.running = true

	if config.APU != nil {
		if err := s.initAudio(); err != nil {
			slog.Warn("failed to initialize SDL2 audio", "error", err)
		}
	}

	slog.Info("SDL2 backend initialized", "title", config.Title, "scale", scale)
	return nil
}

func (s *Backend) initAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	s.audioDevice = device
	sdl.PauseAudioDevice(device, false)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.eventBuffer = s.eventBuffer[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if events := s.handleEvent(event); events != nil {
			s.eventBuffer = append(s.eventBuffer, events...)
		}
	}

	if !s.running {
		return s.eventBuffer, nil
	}

	s.renderFrame(frame)

	if s.audioDevice != 0 && s.config.APU != nil {
		s.queueAudioSamples()
	}

	return s.eventBuffer, nil
}

func (s *Backend) Cleanup() error {
	slog.Info("tearing down SDL2 backend")
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(evt sdl.Event) []backend.InputEvent {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
		return []backend.InputEvent{{Button: backend.Quit, Type: backend.Press}}
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return s.handleKey(e.Keysym.Sym, backend.Press)
		} else if e.Type == sdl.KEYUP {
			return s.handleKey(e.Keysym.Sym, backend.Release)
		}
	}
	return nil
}

// keyMapping maps SDL2 keycodes to DMG buttons.
var keyMapping = map[sdl.Keycode]joypad.Button{
	sdl.K_RETURN: joypad.Start,
	sdl.K_RSHIFT: joypad.Select,
	sdl.K_a:      joypad.A,
	sdl.K_s:      joypad.B,
	sdl.K_UP:     joypad.Up,
	sdl.K_DOWN:   joypad.Down,
	sdl.K_LEFT:   joypad.Left,
	sdl.K_RIGHT:  joypad.Right,
}

func (s *Backend) handleKey(key sdl.Keycode, t backend.InputEventType) []backend.InputEvent {
	if key == sdl.K_ESCAPE && t == backend.Press {
		s.running = false
		return []backend.InputEvent{{Button: backend.Quit, Type: backend.Press}}
	}
	if btn, ok := keyMapping[key]; ok {
		return []backend.InputEvent{{Button: btn, Type: t}}
	}
	return nil
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	for y := 0; y < video.ScreenHeight; y++ {
		for x := 0; x < video.ScreenWidth; x++ {
			c := uint32(frame.Get(x, y))
			i := (y*video.ScreenWidth + x) * 4
			s.pixelBuffer[i] = byte(c >> 24)   // R
			s.pixelBuffer[i+1] = byte(c >> 16) // G
			s.pixelBuffer[i+2] = byte(c >> 8)  // B
			s.pixelBuffer[i+3] = byte(c)       // A
		}
	}

	s.texture.Update(nil, s.pixelBuffer, video.ScreenWidth*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *Backend) queueAudioSamples() {
	samples := s.config.APU.GetSamples(2048)
	if len(samples) == 0 {
		return
	}
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	if err := sdl.QueueAudio(s.audioDevice, buf); err != nil {
		slog.Warn("failed to queue audio samples", "error", err)
	}
}
