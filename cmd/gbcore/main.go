// Command gbcore runs a Game Boy ROM against the gbcore emulation core,
// either interactively through a terminal/SDL2 frontend or headlessly for
// batch processing and snapshotting.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/astrid-emu/gbcore"
	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/backend/headless"
	"github.com/astrid-emu/gbcore/backend/sdl2"
	"github.com/astrid-emu/gbcore/backend/terminal"
	"github.com/astrid-emu/gbcore/video"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Description = "A cycle-accurate Game Boy (DMG) emulator core"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file"},
		cli.StringFlag{Name: "boot-rom", Usage: "path to a real DMG boot ROM image; runs the boot sequence if given"},
		cli.StringFlag{Name: "save", Usage: "path to load/store battery-backed cartridge RAM"},
		cli.BoolFlag{Name: "sdl2", Usage: "use the SDL2 backend instead of the terminal backend"},
		cli.BoolFlag{Name: "headless", Usage: "run without a display"},
		cli.IntFlag{Name: "frames", Usage: "number of frames to run in headless mode", Value: 0},
		cli.BoolFlag{Name: "test-pattern", Usage: "run the display path with no ROM loaded"},
		cli.IntFlag{Name: "snapshot-interval", Usage: "save a PNG frame snapshot every N frames in headless mode (0 disables)", Value: 0},
		cli.StringFlag{Name: "snapshot-dir", Usage: "directory for frame snapshots (default: a temp directory)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	emu, err := loadEmulator(c)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(c, emu)
	}
	return runInteractive(c, emu)
}

// loadEmulator reads --rom (or the positional argument) and builds an
// Emulator, or returns nil with no error for --test-pattern runs that never
// load a ROM.
func loadEmulator(c *cli.Context) (*gbcore.Emulator, error) {
	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" {
		if c.Bool("test-pattern") {
			return nil, nil
		}
		cli.ShowAppHelp(c)
		return nil, errors.New("no ROM path provided")
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	var emu *gbcore.Emulator
	if bootPath := c.String("boot-rom"); bootPath != "" {
		bootData, err := os.ReadFile(bootPath)
		if err != nil {
			return nil, fmt.Errorf("reading boot ROM: %w", err)
		}
		emu, err = gbcore.NewEmulatorWithBootROM(rom, bootData)
		if err != nil {
			return nil, fmt.Errorf("loading ROM: %w", err)
		}
	} else {
		emu, err = gbcore.NewEmulator(rom)
		if err != nil {
			return nil, fmt.Errorf("loading ROM: %w", err)
		}
	}

	if savePath := c.String("save"); savePath != "" {
		if data, err := os.ReadFile(savePath); err == nil {
			if err := emu.LoadBattery(data); err != nil {
				slog.Warn("failed to load battery save", "path", savePath, "error", err)
			}
		}
	}

	return emu, nil
}

func runHeadless(c *cli.Context, emu *gbcore.Emulator) error {
	frames := c.Int("frames")
	if frames <= 0 && !c.Bool("test-pattern") {
		return errors.New("headless mode requires --frames with a positive value")
	}

	snapshots, err := headless.NewSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), c.String("rom"))
	if err != nil {
		return err
	}

	b := headless.New(frames, snapshots)
	cfg := backend.Config{Title: "gbcore", TestPattern: c.Bool("test-pattern")}
	if err := b.Init(cfg); err != nil {
		return err
	}
	defer b.Cleanup()

	return runLoop(emu, b)
}

func runInteractive(c *cli.Context, emu *gbcore.Emulator) error {
	var b backend.Backend
	if c.Bool("sdl2") {
		b = sdl2.New()
	} else {
		b = terminal.New()
	}

	cfg := backend.Config{Title: "gbcore", TestPattern: c.Bool("test-pattern")}
	if emu != nil {
		cfg.APU = emu.Bus().APU
	}
	if err := b.Init(cfg); err != nil {
		return err
	}
	defer b.Cleanup()

	runErr := runLoop(emu, b)

	if savePath := c.String("save"); savePath != "" && emu != nil {
		if data := emu.SaveBattery(); data != nil {
			if err := os.WriteFile(savePath, data, 0o644); err != nil {
				slog.Error("failed to write battery save", "path", savePath, "error", err)
			}
		}
	}
	return runErr
}

// runLoop drives emu one frame at a time, forwarding every backend input
// event to the joypad, until the backend reports backend.Quit.
func runLoop(emu *gbcore.Emulator, b backend.Backend) error {
	for {
		var frame *video.FrameBuffer
		if emu != nil {
			emu.RunUntilFrame()
			frame = emu.CurrentFrame()
		}

		events, err := b.Update(frame)
		if err != nil {
			return err
		}

		for _, ev := range events {
			if ev.Button == backend.Quit {
				return nil
			}
			if emu == nil {
				continue
			}
			if ev.Type == backend.Press {
				emu.PressButton(ev.Button)
			} else {
				emu.ReleaseButton(ev.Button)
			}
		}
	}
}
