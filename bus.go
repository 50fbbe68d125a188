// Package gbcore wires the Sharp LR35902 CPU, the dot-stepped PPU, the
// 4-channel APU, the timer, joypad, serial port, and a cartridge together
// into the DMG's address space, and exposes the result as an Emulator.
package gbcore

import (
	"github.com/astrid-emu/gbcore/addr"
	"github.com/astrid-emu/gbcore/audio"
	"github.com/astrid-emu/gbcore/cartridge"
	"github.com/astrid-emu/gbcore/cpu"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/astrid-emu/gbcore/serial"
	"github.com/astrid-emu/gbcore/timer"
	"github.com/astrid-emu/gbcore/video"
)

var _ cpu.Bus = (*Bus)(nil)

// Bus is the DMG address space. It owns every peripheral and, per
// cpu.Bus's contract, advances all of them by exactly one machine cycle as
// a side effect of every CPU-driven Read, Write, or idle Tick.
type Bus struct {
	Cart   *cartridge.Cartridge
	PPU    *video.PPU
	APU    *audio.APU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.Port

	dma  *dma
	boot *bootROM

	wram [0x2000]uint8 // $C000-$DFFF, echoed at $E000-$FDFF; no CGB banking
	hram [0x80]uint8   // $FF80-$FFFE

	ifReg uint8
	ieReg uint8

	// MachineCycles counts every machine cycle the bus has advanced through,
	// for callers (the Emulator) that need to recognize frame boundaries.
	MachineCycles uint64
}

// newBus constructs a Bus with every peripheral freshly reset, optionally
// with a boot ROM image mapped in at $0000.
func newBus(cart *cartridge.Cartridge, bootROMData []byte) *Bus {
	b := &Bus{
		Cart:   cart,
		PPU:    video.New(),
		APU:    audio.New(),
		Timer:  timer.New(),
		Joypad: joypad.New(),
		Serial: serial.New(),
		ifReg:  0xE1,
	}
	b.dma = newDMA(b)

	b.PPU.RequestInterrupt = b.requestInterrupt
	b.Timer.RequestInterrupt = b.requestInterrupt
	b.Joypad.RequestInterrupt = b.requestInterrupt
	b.Serial.RequestInterrupt = b.requestInterrupt

	if bootROMData != nil {
		b.boot = newBootROM(bootROMData)
	}
	return b
}

func (b *Bus) requestInterrupt(i addr.Interrupt) {
	b.ifReg |= uint8(i)
}

// PendingInterrupt implements cpu.Bus.
func (b *Bus) PendingInterrupt() (addr.Interrupt, bool) {
	return addr.Highest(b.ifReg, b.ieReg)
}

// ClearInterrupt implements cpu.Bus.
func (b *Bus) ClearInterrupt(i addr.Interrupt) {
	b.ifReg &^= uint8(i)
}

// Read implements cpu.Bus: decode address, then advance every peripheral by
// one machine cycle.
func (b *Bus) Read(address uint16) uint8 {
	v := b.readDecoded(address, b.dma.conflict)
	b.onMachineCycle()
	return v
}

// Write implements cpu.Bus.
func (b *Bus) Write(address uint16, value uint8) {
	b.writeDecoded(address, value, b.dma.conflict)
	b.onMachineCycle()
}

// Tick implements cpu.Bus: advance every peripheral with no bus transaction.
func (b *Bus) Tick() {
	b.onMachineCycle()
}

func (b *Bus) onMachineCycle() {
	b.MachineCycles++
	for i := 0; i < 4; i++ {
		b.PPU.Tick()
	}
	b.APU.Tick(4)
	b.Timer.Tick()
	b.Serial.Tick()
	b.Cart.Clock()
	b.dma.step()
}

// readDecoded dispatches a read by address, masking regions an active OAM
// DMA transfer has taken over with the transfer's last-read byte -- the
// documented DMA bus-conflict behavior. conflict is dmaBusNone for reads the
// DMA engine performs on its own behalf, which bypass the mask.
func (b *Bus) readDecoded(address uint16, conflict dmaBus) uint8 {
	if b.boot != nil && b.boot.enabled && b.boot.covers(address) {
		return b.boot.data[address]
	}

	blocked := b.dma.lastValue
	switch {
	case address <= 0x7FFF:
		if conflict == dmaBusExternal {
			return blocked
		}
		if address <= 0x3FFF {
			return b.Cart.ReadROM0(address)
		}
		return b.Cart.ReadROMX(address)
	case address <= 0x9FFF:
		if conflict == dmaBusVideo {
			return blocked
		}
		return b.PPU.Read(address)
	case address <= 0xBFFF:
		if conflict == dmaBusExternal {
			return blocked
		}
		return b.Cart.ReadRAM(address)
	case address <= 0xDFFF:
		if conflict == dmaBusExternal {
			return blocked
		}
		return b.wram[address-0xC000]
	case address <= 0xFDFF:
		return b.readDecoded(0xC000|(address&0x1FFF), conflict)
	case address <= 0xFE9F:
		return b.PPU.Read(address)
	case address <= 0xFEFF:
		return 0x00
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return b.Serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.ifReg | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.APU.ReadRegister(address)
	case address == addr.DMA:
		return b.dma.sourceHigh()
	case (address >= addr.LCDC && address <= addr.LYC) || (address >= addr.BGP && address <= addr.WX):
		return b.PPU.Read(address)
	case address == addr.BootROMDisable:
		return 0xFF
	case address == addr.WramBank:
		return 0xFF
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return b.hram[address-addr.HRAMStart]
	case address == addr.IE:
		return b.ieReg
	default:
		return 0xFF
	}
}

func (b *Bus) writeDecoded(address uint16, value uint8, conflict dmaBus) {
	switch {
	case address <= 0x7FFF:
		if conflict == dmaBusExternal {
			return
		}
		b.Cart.WriteROM(address, value)
	case address <= 0x9FFF:
		if conflict == dmaBusVideo {
			return
		}
		b.PPU.Write(address, value)
	case address <= 0xBFFF:
		if conflict == dmaBusExternal {
			return
		}
		b.Cart.WriteRAM(address, value)
	case address <= 0xDFFF:
		if conflict == dmaBusExternal {
			return
		}
		b.wram[address-0xC000] = value
	case address <= 0xFDFF:
		b.writeDecoded(0xC000|(address&0x1FFF), value, conflict)
	case address <= 0xFE9F:
		b.PPU.Write(address, value)
	case address <= 0xFEFF:
		// unused
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.Serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.ifReg = value & addr.AllBits
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.APU.WriteRegister(address, value)
	case address == addr.DMA:
		b.dma.start(value)
	case (address >= addr.LCDC && address <= addr.LYC) || (address >= addr.BGP && address <= addr.WX):
		b.PPU.Write(address, value)
	case address == addr.BootROMDisable:
		if b.boot != nil {
			b.boot.enabled = false
		}
	case address == addr.WramBank:
		// no CGB WRAM banking
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		b.hram[address-addr.HRAMStart] = value
	case address == addr.IE:
		b.ieReg = value
	}
}
