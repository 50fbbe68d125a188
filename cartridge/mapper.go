package cartridge

// Mapper is the bank-switching strategy for a cartridge. Implementations are
// the tagged-union members of MapperKind; the cartridge dispatches to
// whichever one its header selected and never branches on kind again.
//
// Mappers do not own the backing ROM/RAM storage — the cartridge does — so
// every access takes the slice as an argument. The one exception is MBC2,
// whose 512x4-bit RAM is built into the mapper chip and kept inside MBC2
// itself. This keeps a mapper to pure
// bank-index bookkeeping plus whatever internal registers it has (RTC,
// rumble motor state) and makes battery serialization trivial to reason
// about: SaveBattery only ever copies bytes a caller already owns.
type Mapper interface {
	// Init is called once after construction with the sizes of the
	// underlying ROM and RAM arrays, so bank numbers can be masked correctly.
	Init(romBanks uint16, ramSize int)

	// ReadROM0 resolves a read in 0x0000-0x3FFF.
	ReadROM0(rom []byte, address uint16) uint8
	// ReadROMX resolves a read in 0x4000-0x7FFF, the switchable bank.
	ReadROMX(rom []byte, address uint16) uint8
	// ReadRAM resolves a read in 0xA000-0xBFFF. ok is false when cartridge
	// RAM is disabled or absent, in which case the bus reads open-bus 0xFF.
	ReadRAM(ram []byte, address uint16) (value uint8, ok bool)
	// WriteRAM resolves a write in 0xA000-0xBFFF. No-op when RAM is disabled.
	WriteRAM(ram []byte, address uint16, value uint8)

	// WriteRegister handles a write anywhere in 0x0000-0x7FFF: the mapper's
	// own control registers rather than real ROM content.
	WriteRegister(address uint16, value uint8)

	// Clock is called once per machine cycle regardless of whether the
	// mapper has a use for it. Every mapper here implements it as a no-op:
	// MBC3's RTC is not advanced by it, but computed from wall-clock time.
	Clock()

	// HasBattery reports whether SaveBattery/LoadBattery should be used.
	HasBattery() bool
	// SaveBatterySize returns the number of bytes SaveBattery will append.
	SaveBatterySize() int
	// SaveBattery appends the mapper's persistent state (cartridge RAM plus,
	// for MBC3, the RTC registers) to dst and returns the result.
	SaveBattery(ram []byte, dst []byte) []byte
	// LoadBattery restores state previously produced by SaveBattery into ram
	// and any internal mapper registers.
	LoadBattery(ram []byte, data []byte) error
}

func ramBankCountFor(ramSize int) int {
	if ramSize == 0 {
		return 0
	}
	banks := ramSize / (8 * 1024)
	if banks == 0 {
		banks = 1
	}
	return banks
}
