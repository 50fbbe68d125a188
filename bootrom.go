package gbcore

import "github.com/astrid-emu/gbcore/addr"

// bootROM holds the real startup program a DMG executes from 0x0000 before
// control passes to the cartridge. It overlays cartridge ROM0 while enabled
// except for the header gap at 0x100-0x1FF, which the cartridge always owns
// since it contains the Nintendo logo the boot ROM itself checksums.
type bootROM struct {
	enabled bool
	data    [addr.BootROMSize]uint8
}

func newBootROM(data []byte) *bootROM {
	b := &bootROM{enabled: true}
	copy(b.data[:], data)
	return b
}

func (b *bootROM) covers(address uint16) bool {
	if address <= addr.BootROMLowHi {
		return true
	}
	return address > addr.BootROMGapHi && address < addr.BootROMSize
}
