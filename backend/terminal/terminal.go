// Package terminal implements a Backend that renders the DMG framebuffer as
// half-block glyphs in a tcell terminal screen, and maps WASD/arrow keys
// plus Z/X to the joypad.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/astrid-emu/gbcore/video"
	"github.com/gdamore/tcell/v2"
)

// keyTimeout is how long a held key is considered "still pressed" between
// the terminal's repeat-driven key events.
const keyTimeout = 100 * time.Millisecond

// keyMapping maps tcell keys to DMG buttons for players using arrow keys.
var keyMapping = map[tcell.Key]joypad.Button{
	tcell.KeyUp:    joypad.Up,
	tcell.KeyDown:  joypad.Down,
	tcell.KeyLeft:  joypad.Left,
	tcell.KeyRight: joypad.Right,
	tcell.KeyEnter: joypad.Start,
}

// runeMapping maps rune keys to DMG buttons for players using WASD.
var runeMapping = map[rune]joypad.Button{
	'w': joypad.Up,
	's': joypad.Down,
	'a': joypad.Left,
	'd': joypad.Right,
	'z': joypad.A,
	'x': joypad.B,
	' ': joypad.Select,
}

// Backend renders to a tcell terminal screen.
type Backend struct {
	screen  tcell.Screen
	running bool

	keyStates  map[joypad.Button]time.Time
	activeKeys map[joypad.Button]bool

	quitRequested bool
}

// New creates a terminal Backend.
func New() *Backend {
	return &Backend{}
}

func (t *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	t.screen = screen
	t.running = true
	t.keyStates = make(map[joypad.Button]time.Time)
	t.activeKeys = make(map[joypad.Button]bool)

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	go t.handleSignals()

	slog.Info("terminal backend initialized", "title", config.Title)
	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	var events []backend.InputEvent
	currentlyActive := make(map[joypad.Button]bool)

	for btn, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, btn)
			continue
		}
		currentlyActive[btn] = true
		if !t.activeKeys[btn] {
			events = append(events, backend.InputEvent{Button: btn, Type: backend.Press})
		}
	}
	for btn := range t.activeKeys {
		if !currentlyActive[btn] {
			events = append(events, backend.InputEvent{Button: btn, Type: backend.Release})
		}
	}
	t.activeKeys = currentlyActive

	if t.quitRequested {
		events = append(events, backend.InputEvent{Button: backend.Quit, Type: backend.Press})
	}

	if !t.running {
		return events, nil
	}

	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("tearing down terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-signals
	t.running = false
	t.quitRequested = true
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
		t.running = false
		t.quitRequested = true
		return
	}

	if btn, ok := keyMapping[ev.Key()]; ok {
		t.pressDirectional(btn, now)
		return
	}

	if ev.Key() == tcell.KeyRune {
		if r := ev.Rune(); r == 'q' {
			t.running = false
			t.quitRequested = true
		} else if btn, ok := runeMapping[r]; ok {
			t.pressDirectional(btn, now)
		}
	}
}

// pressDirectional records btn as pressed, clearing opposing d-pad
// directions so the physical keyboard can't hold Left and Right at once.
func (t *Backend) pressDirectional(btn joypad.Button, now time.Time) {
	if btn == joypad.Up || btn == joypad.Down || btn == joypad.Left || btn == joypad.Right {
		delete(t.keyStates, joypad.Up)
		delete(t.keyStates, joypad.Down)
		delete(t.keyStates, joypad.Left)
		delete(t.keyStates, joypad.Right)
	}
	t.keyStates[btn] = now
}

func (t *Backend) render(frame *video.FrameBuffer) {
	for y := 0; y < video.ScreenHeight; y += 2 {
		for x := 0; x < video.ScreenWidth; x++ {
			topShade := pixelToShade(frame.Get(x, y))
			bottomShade := 0
			if y+1 < video.ScreenHeight {
				bottomShade = pixelToShade(frame.Get(x, y+1))
			}

			char, fg, bg := halfBlockChar(topShade, bottomShade)
			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x, y/2, char, nil, style)
		}
	}
}
