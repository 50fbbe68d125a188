package gbcore

import (
	"testing"

	"github.com/astrid-emu/gbcore/addr"
	"github.com/astrid-emu/gbcore/cartridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalROM builds a 32KB NoMapper cartridge image with a valid header
// checksum and, optionally, the cartridge type byte overridden.
func minimalROM(cartType uint8) []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = cartType
	rom[0x148] = 0x00
	rom[0x149] = 0x00

	var sum uint8
	for i := 0x134; i <= 0x14C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x14D] = sum
	return rom
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cart, err := cartridge.Load(minimalROM(0x00))
	require.NoError(t, err)
	return newBus(cart, nil)
}

func TestBusWRAMRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC012, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xC012))
}

func TestBusEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC034, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0xE034))

	b.Write(0xE0AA, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xC0AA))
}

func TestBusHRAMRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF90, 0x7E)
	assert.Equal(t, uint8(0x7E), b.Read(0xFF90))
}

func TestBusInterruptFlagsTopBitsReadAsOne(t *testing.T) {
	b := newTestBus(t)
	b.Write(addr.IF, 0x00)
	assert.Equal(t, uint8(0xE0), b.Read(addr.IF))
}

func TestBusRequestedInterruptReachesIF(t *testing.T) {
	b := newTestBus(t)
	b.ifReg = 0 // start from no pending requests instead of the post-boot 0xE1
	b.requestInterrupt(addr.Timer)
	assert.Equal(t, uint8(addr.Timer), b.ifReg)

	b.ieReg = uint8(addr.Timer)
	irq, ok := b.PendingInterrupt()
	require.True(t, ok)
	assert.Equal(t, addr.Timer, irq)

	b.ClearInterrupt(addr.Timer)
	_, ok = b.PendingInterrupt()
	assert.False(t, ok)
}

func TestBusInterruptPriorityPicksLowestBit(t *testing.T) {
	b := newTestBus(t)
	b.ifReg = uint8(addr.Timer) | uint8(addr.VBlank)
	b.ieReg = addr.AllBits

	irq, ok := b.PendingInterrupt()
	require.True(t, ok)
	assert.Equal(t, addr.VBlank, irq, "VBlank has priority over Timer")
}

func TestDMAStartDelaysTwoMachineCyclesBeforeFirstCopy(t *testing.T) {
	b := newTestBus(t)
	b.PPU.Write(addr.LCDC, 0x00) // disable the LCD so mode is a static HBlank

	b.Write(0xC000, 0xAB)
	b.Write(addr.DMA, 0xC0)

	assert.True(t, b.dma.active)
	// The DMA register write's own bus cycle already consumes one of the
	// two start-delay cycles.
	assert.Equal(t, 1, b.dma.startDelay)
	assert.Equal(t, uint8(0), b.PPU.Read(addr.OAMStart), "no byte copied during the start delay")

	b.Tick() // second delay cycle: arms the conflict, still no copy this cycle
	assert.Equal(t, 0, b.dma.startDelay)
	assert.Equal(t, uint8(0), b.PPU.Read(addr.OAMStart))

	b.Tick() // first real transfer cycle
	assert.Equal(t, uint8(0xAB), b.PPU.Read(addr.OAMStart))
}

func TestDMATransferCopiesAllOAMBytes(t *testing.T) {
	b := newTestBus(t)
	b.PPU.Write(addr.LCDC, 0x00)

	for i := uint16(0); i < 160; i++ {
		b.Write(0xC000+i, uint8(i))
	}

	b.Write(addr.DMA, 0xC0)
	for i := 0; i < 2+160; i++ {
		b.Tick()
	}

	assert.False(t, b.dma.active)
	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, uint8(i), b.PPU.Read(addr.OAMStart+i))
	}
}

func TestDMABlocksExternalBusReadsDuringTransfer(t *testing.T) {
	b := newTestBus(t)
	b.PPU.Write(addr.LCDC, 0x00)

	for i := uint16(0); i < 160; i++ {
		b.Write(0xC000+i, 0x11)
	}

	b.Write(addr.DMA, 0xC0)
	b.Tick() // arms the conflict
	b.Tick() // copies the first byte, so lastValue is 0x11 while WRAM at 0xD000 is 0

	// WRAM is on the external bus, so a CPU read while the conflict is
	// armed returns the DMA's last transferred byte instead of WRAM
	// content -- not the real value at that address.
	got := b.Read(0xD000)
	assert.Equal(t, b.dma.lastValue, got)

	// HRAM is never blocked by OAM DMA.
	b.Write(0xFF90, 0x33)
	assert.Equal(t, uint8(0x33), b.Read(0xFF90))
}

func TestDMAHighByteFE_FFRemapsToDE_DF(t *testing.T) {
	b := newTestBus(t)
	b.Write(addr.DMA, 0xFE)
	assert.Equal(t, uint16(0xDE00), b.dma.address)

	b.Write(addr.DMA, 0xFF)
	assert.Equal(t, uint16(0xDF00), b.dma.address)
}

func TestBootROMOverlaysLowROMUntilDisabled(t *testing.T) {
	cart, err := cartridge.Load(minimalROM(0x00))
	require.NoError(t, err)

	boot := make([]byte, addr.BootROMSize)
	boot[0x00] = 0xAA
	boot[0x200] = 0xBB

	b := newBus(cart, boot)
	assert.Equal(t, uint8(0xAA), b.Read(0x0000))
	assert.Equal(t, uint8(0xBB), b.Read(0x0200))
	assert.Equal(t, uint8(0xFF), b.Read(addr.BootROMDisable))

	b.Write(addr.BootROMDisable, 0x01)
	assert.False(t, b.boot.enabled)
	// 0x0000 now falls through to the cartridge ROM, which this test ROM
	// leaves zeroed.
	assert.Equal(t, uint8(0x00), b.Read(0x0000))
}

func TestBootROMHeaderGapAlwaysBelongsToCartridge(t *testing.T) {
	rom := minimalROM(0x00)
	rom[0x150] = 0x77
	cart, err := cartridge.Load(rom)
	require.NoError(t, err)

	boot := make([]byte, addr.BootROMSize)
	boot[0x150] = 0x99

	b := newBus(cart, boot)
	assert.Equal(t, uint8(0x77), b.Read(0x150), "the header gap is never overlaid by the boot ROM")
}
