package gbcore

import (
	"testing"

	"github.com/astrid-emu/gbcore/addr"
	"github.com/astrid-emu/gbcore/joypad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmulatorStartsPostBootROM(t *testing.T) {
	e, err := NewEmulator(minimalROM(0x00))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0100), e.CPU().PC())
}

func TestNewEmulatorWithBootROMStartsAtZero(t *testing.T) {
	boot := make([]byte, addr.BootROMSize)
	e, err := NewEmulatorWithBootROM(minimalROM(0x00), boot)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0000), e.CPU().PC())
}

// runnableROM jumps straight past the header to a long run of NOPs, so
// stepping the CPU never executes the header bytes as opcodes. Two frames of
// NOPs carry PC past the end of ROM into VRAM, which the tests below allow.
func runnableROM() []byte {
	rom := minimalROM(0x00)
	rom[0x100] = 0xC3 // JP 0x0150
	rom[0x101] = 0x50
	rom[0x102] = 0x01
	return rom
}

func TestRunUntilFrameAdvancesAtLeastOneFrame(t *testing.T) {
	e, err := NewEmulator(runnableROM())
	require.NoError(t, err)

	e.RunUntilFrame()
	assert.GreaterOrEqual(t, e.bus.MachineCycles, uint64(machineCyclesPerFrame))
	assert.Equal(t, uint64(2*machineCyclesPerFrame), e.nextFrameBoundary)

	firstFrameCycles := e.bus.MachineCycles
	e.RunUntilFrame()
	assert.GreaterOrEqual(t, e.bus.MachineCycles, uint64(2*machineCyclesPerFrame))
	assert.Greater(t, e.bus.MachineCycles, firstFrameCycles)
}

func TestPressButtonRaisesJoypadInterrupt(t *testing.T) {
	e, err := NewEmulator(minimalROM(0x00))
	require.NoError(t, err)

	e.PressButton(joypad.Down)
	assert.NotZero(t, e.bus.ifReg&uint8(addr.Joypad))
}

func TestSaveBatteryNilWithoutBatteryBackedCartridge(t *testing.T) {
	e, err := NewEmulator(minimalROM(0x00))
	require.NoError(t, err)
	assert.Nil(t, e.SaveBattery())
}

func TestSaveAndLoadBatteryRoundTripsCartridgeRAM(t *testing.T) {
	rom := minimalROM(0x03) // MBC1+RAM+BATTERY
	rom[0x149] = 0x02       // 8KB RAM
	var sum uint8
	for i := 0x134; i <= 0x14C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x14D] = sum

	e, err := NewEmulator(rom)
	require.NoError(t, err)

	e.bus.Cart.WriteROM(0x0000, 0x0A) // enable RAM
	e.bus.Cart.WriteRAM(0xA000, 0x5A)

	saved := e.SaveBattery()
	require.NotNil(t, saved)

	e2, err := NewEmulator(rom)
	require.NoError(t, err)
	require.NoError(t, e2.LoadBattery(saved))
	e2.bus.Cart.WriteROM(0x0000, 0x0A)
	assert.Equal(t, uint8(0x5A), e2.bus.Cart.ReadRAM(0xA000))
}
