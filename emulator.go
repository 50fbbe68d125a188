package gbcore

import (
	"github.com/astrid-emu/gbcore/cartridge"
	"github.com/astrid-emu/gbcore/cpu"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/astrid-emu/gbcore/timing"
	"github.com/astrid-emu/gbcore/video"
)

// machineCyclesPerFrame is one DMG frame's worth of 4-T-cycle machine
// cycles: 70224 T-cycles / 4.
const machineCyclesPerFrame = timing.CyclesPerFrame / 4

// Emulator is the top-level entry point: a cartridge plugged into a Bus,
// driven an instruction at a time.
type Emulator struct {
	cpu *cpu.CPU
	bus *Bus

	nextFrameBoundary uint64
}

// NewEmulator loads rom and skips straight to the post-boot-ROM CPU and
// peripheral state, the way most emulators run commercial cartridges.
func NewEmulator(rom []byte) (*Emulator, error) {
	return newEmulator(rom, nil)
}

// NewEmulatorWithBootROM loads rom behind the real boot ROM image, so the
// CPU executes the Nintendo logo scroll and checksum check from $0000
// before handing control to the cartridge.
func NewEmulatorWithBootROM(rom, bootROM []byte) (*Emulator, error) {
	return newEmulator(rom, bootROM)
}

func newEmulator(rom, bootROMData []byte) (*Emulator, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}

	bus := newBus(cart, bootROMData)

	var c *cpu.CPU
	if bootROMData != nil {
		c = cpu.NewAtBootROM(bus)
	} else {
		c = cpu.New(bus)
	}

	return &Emulator{
		cpu:               c,
		bus:               bus,
		nextFrameBoundary: machineCyclesPerFrame,
	}, nil
}

// RunUntilFrame steps the CPU until a full frame's worth of machine cycles
// has elapsed, then returns. Because instructions take a variable number of
// cycles, a call may run slightly past the boundary; the next call's
// boundary accounts for the overrun instead of resetting it, so average
// frame pacing stays exact.
func (e *Emulator) RunUntilFrame() {
	for e.bus.MachineCycles < e.nextFrameBoundary {
		e.cpu.Step()
	}
	e.nextFrameBoundary += machineCyclesPerFrame
}

// CurrentFrame returns the most recently completed framebuffer.
func (e *Emulator) CurrentFrame() *video.FrameBuffer {
	return e.bus.PPU.FrameBuffer()
}

// AudioSamples drains count interleaved stereo sample pairs from the APU,
// padded with silence when fewer are buffered.
func (e *Emulator) AudioSamples(count int) []int16 {
	return e.bus.APU.GetSamples(count)
}

// PressButton and ReleaseButton forward input edges to the joypad.
func (e *Emulator) PressButton(b joypad.Button)   { e.bus.Joypad.Press(b) }
func (e *Emulator) ReleaseButton(b joypad.Button) { e.bus.Joypad.Release(b) }

// SaveBattery and LoadBattery persist cartridge RAM (and RTC state, for
// MBC3) across sessions. SaveBattery returns nil for cartridges with no
// battery-backed RAM.
func (e *Emulator) SaveBattery() []byte {
	if !e.bus.Cart.HasBattery() {
		return nil
	}
	return e.bus.Cart.SaveBattery()
}

func (e *Emulator) LoadBattery(data []byte) error {
	return e.bus.Cart.LoadBattery(data)
}

// CPU exposes the underlying CPU for diagnostics and debugger frontends.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// Bus exposes the underlying Bus for diagnostics and debugger frontends.
func (e *Emulator) Bus() *Bus { return e.bus }
