package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildROM fabricates a minimal ROM image of the given size with cartType,
// romSizeCode and ramSizeCode filled in and a correct header checksum.
func buildROM(size int, cartType, romSizeCode, ramSizeCode uint8) []byte {
	rom := make([]byte, size)
	copy(rom[0x134:], "TESTROM")
	rom[cartridgeTypeAddr] = cartType
	rom[romSizeAddr] = romSizeCode
	rom[ramSizeAddr] = ramSizeCode

	var sum uint8
	for i := headerChecksumStart; i <= headerChecksumEndInc; i++ {
		sum = sum - rom[i] - 1
	}
	rom[headerChecksumAddr] = sum
	return rom
}

func TestLoadRejectsShortROM(t *testing.T) {
	_, err := Load(make([]byte, 0x100))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, RomTooShort, loadErr.Kind)
}

func TestLoadRejectsBadChecksum(t *testing.T) {
	rom := buildROM(0x8000, 0x00, 0x00, 0x00)
	rom[headerChecksumAddr] ^= 0xFF
	_, err := Load(rom)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, HeaderChecksumMismatch, loadErr.Kind)
}

func TestLoadNoMapper(t *testing.T) {
	rom := buildROM(0x8000, 0x00, 0x00, 0x02)
	rom[0x0150] = 0xAB
	rom[0x4000] = 0xCD

	cart, err := Load(rom)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), cart.ReadROM0(0x0150))
	assert.Equal(t, uint8(0xCD), cart.ReadROMX(0x4000))

	cart.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), cart.ReadRAM(0xA000))
}

func TestMBC1BankSwitching(t *testing.T) {
	rom := buildROM(0x4000*8, 0x01, 0x02, 0x00) // 128KB, 8 banks
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	// keep checksum correct: header region is within bank 0, unaffected

	cart, err := Load(rom)
	require.NoError(t, err)

	cart.WriteROM(0x2000, 0x05) // select bank 5
	assert.Equal(t, uint8(5), cart.ReadROMX(0x4000))

	cart.WriteROM(0x2000, 0x00) // bank 0 aliases to bank 1
	assert.Equal(t, uint8(1), cart.ReadROMX(0x4000))
}

func TestMBC1RAMEnableGate(t *testing.T) {
	rom := buildROM(0x8000, 0x03, 0x00, 0x02)
	cart, err := Load(rom)
	require.NoError(t, err)

	cart.WriteRAM(0xA000, 0x11)
	assert.Equal(t, uint8(0xFF), cart.ReadRAM(0xA000), "ram disabled by default")

	cart.WriteROM(0x0000, 0x0A)
	cart.WriteRAM(0xA000, 0x11)
	assert.Equal(t, uint8(0x11), cart.ReadRAM(0xA000))
}

func TestMBC5NineBitBank(t *testing.T) {
	rom := buildROM(0x4000*512, 0x19, 0x08, 0x00) // 8MB, 512 banks
	rom[256*0x4000] = 0x77

	cart, err := Load(rom)
	require.NoError(t, err)

	cart.WriteROM(0x2000, 0x00) // low byte
	cart.WriteROM(0x3000, 0x01) // high bit -> bank 256
	assert.Equal(t, uint8(0x77), cart.ReadROMX(0x4000))
}

func TestMBC3RTCLatchRoundTrip(t *testing.T) {
	rom := buildROM(0x8000, 0x0F, 0x00, 0x00)
	cart, err := Load(rom)
	require.NoError(t, err)

	cart.WriteROM(0x0000, 0x0A) // ram/rtc enable
	cart.WriteROM(0x4000, 0x08) // select seconds register
	cart.WriteRAM(0xA000, 42)

	cart.WriteROM(0x6000, 0x00)
	cart.WriteROM(0x6000, 0x01) // latch

	assert.Equal(t, uint8(42), cart.ReadRAM(0xA000))
}

func TestBatterySaveLoadRoundTrip(t *testing.T) {
	rom := buildROM(0x8000, 0x03, 0x00, 0x02)
	cart, err := Load(rom)
	require.NoError(t, err)

	cart.WriteROM(0x0000, 0x0A)
	cart.WriteRAM(0xA000, 0x99)

	saved := cart.SaveBattery()

	other, err := Load(rom)
	require.NoError(t, err)
	require.NoError(t, other.LoadBattery(saved))
	other.WriteROM(0x0000, 0x0A)
	assert.Equal(t, uint8(0x99), other.ReadRAM(0xA000))
}

func TestUnsupportedCartridgeType(t *testing.T) {
	rom := buildROM(0x8000, 0xFF, 0x00, 0x00)
	_, err := Load(rom)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, UnsupportedMapper, loadErr.Kind)
}
