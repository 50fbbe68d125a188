// Package cartridge parses Game Boy ROM images and dispatches bank-switched
// reads and writes through whichever memory bank controller the header
// selects.
package cartridge

// Cartridge owns the ROM and cartridge-RAM backing storage and dispatches
// through its Mapper for all bank-switching logic.
type Cartridge struct {
	Header Header
	mapper Mapper

	rom []byte
	ram []byte
}

// Load parses rom's header, validates its checksum, and constructs the
// mapper its cartridge type selects. The returned Cartridge's RAM starts
// zeroed; call LoadBattery afterward to restore a save file.
func Load(rom []byte) (*Cartridge, error) {
	header, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}

	mt, err := mapperTypeFor(header.CartridgeType)
	if err != nil {
		return nil, err
	}

	m := newMapper(mt)
	m.Init(header.ROMBanks, header.RAMSize)

	c := &Cartridge{
		Header: header,
		mapper: m,
		rom:    rom,
		ram:    make([]byte, header.RAMSize),
	}
	return c, nil
}

func newMapper(mt MapperType) Mapper {
	switch mt.Kind {
	case KindMBC1:
		return newMBC1(mt.Battery, false)
	case KindMBC1Multicart:
		return newMBC1(mt.Battery, true)
	case KindMBC2:
		return newMBC2(mt.Battery)
	case KindMBC3:
		return newMBC3(mt.Battery, mt.HasRTC)
	case KindMBC5:
		return newMBC5(mt.Battery, mt.Rumble)
	default:
		return newNoMapper(mt.Battery)
	}
}

// ReadROM0 reads from 0x0000-0x3FFF.
func (c *Cartridge) ReadROM0(address uint16) uint8 {
	return c.mapper.ReadROM0(c.rom, address)
}

// ReadROMX reads from 0x4000-0x7FFF.
func (c *Cartridge) ReadROMX(address uint16) uint8 {
	return c.mapper.ReadROMX(c.rom, address)
}

// WriteROM handles a write anywhere in 0x0000-0x7FFF, which on every mapper
// targets a bank-control register rather than the ROM contents.
func (c *Cartridge) WriteROM(address uint16, value uint8) {
	c.mapper.WriteRegister(address, value)
}

// ReadRAM reads from 0xA000-0xBFFF, returning 0xFF if cartridge RAM is
// absent or currently disabled.
func (c *Cartridge) ReadRAM(address uint16) uint8 {
	v, ok := c.mapper.ReadRAM(c.ram, address)
	if !ok {
		return 0xFF
	}
	return v
}

// WriteRAM writes to 0xA000-0xBFFF. A no-op if RAM is absent or disabled.
func (c *Cartridge) WriteRAM(address uint16, value uint8) {
	c.mapper.WriteRAM(c.ram, address, value)
}

// Clock advances any mapper-internal clock by one machine cycle.
func (c *Cartridge) Clock() {
	c.mapper.Clock()
}

// HasBattery reports whether this cartridge persists RAM/RTC state.
func (c *Cartridge) HasBattery() bool { return c.mapper.HasBattery() }

// SaveBattery serializes RAM (and RTC state, for MBC3) for persistence.
func (c *Cartridge) SaveBattery() []byte {
	return c.mapper.SaveBattery(c.ram, make([]byte, 0, c.mapper.SaveBatterySize()))
}

// LoadBattery restores a save file previously produced by SaveBattery.
func (c *Cartridge) LoadBattery(data []byte) error {
	return c.mapper.LoadBattery(c.ram, data)
}

// MBC5Mapper exposes the concrete MBC5 mapper when present, for callers
// (e.g. a frontend) that want to react to rumble motor state. Returns nil
// for any other mapper kind.
func (c *Cartridge) MBC5Mapper() *MBC5 {
	if m, ok := c.mapper.(*MBC5); ok {
		return m
	}
	return nil
}
