// Package serial implements the DMG link-port registers (SB/SC). There is no
// peer on the other end of the cable in this core, so a transfer always
// shifts in 0xFF (the documented behavior of an unconnected link cable) and
// completes after the real 8-bit shift-clock timing.
package serial

import (
	"log/slog"

	"github.com/astrid-emu/gbcore/addr"
)

// cyclesPerBit is the DMG's internal serial clock: ~8192 Hz, i.e. one bit
// every 512 T-cycles = 128 machine cycles.
const cyclesPerBit = 128

// Port is the minimal serial device wired onto SB/SC.
type Port struct {
	sb, sc uint8

	transferring bool
	bitsLeft     int
	cycles       int

	RequestInterrupt func(addr.Interrupt)

	line []byte // buffered bytes for readable logging, e.g. blargg test output
}

// New creates a Port with no transfer in progress.
func New() *Port {
	return &Port{sc: 0x7E}
}

// Read returns SB or SC.
func (p *Port) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return p.sb
	case addr.SC:
		return p.sc
	default:
		return 0xFF
	}
}

// Write handles writes to SB or SC, starting a transfer when SC's start bit
// is set with the internal clock selected.
func (p *Port) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		p.sb = value
	case addr.SC:
		p.sc = value&0x83 | 0x7C
		if value&0x81 == 0x81 {
			p.transferring = true
			p.bitsLeft = 8
			p.cycles = 0
		}
	}
}

// Tick advances the shift register by one machine cycle.
func (p *Port) Tick() {
	if !p.transferring {
		return
	}

	p.cycles++
	if p.cycles < cyclesPerBit {
		return
	}
	p.cycles = 0

	p.sb = (p.sb << 1) | 1 // shift in 1 (no peer on the wire)
	p.bitsLeft--

	if p.bitsLeft == 0 {
		p.transferring = false
		p.sc &^= 0x80
		p.recordByte()
		if p.RequestInterrupt != nil {
			p.RequestInterrupt(addr.Serial)
		}
	}
}

func (p *Port) recordByte() {
	p.line = append(p.line, p.sb)
	if p.sb == '\n' || len(p.line) > 200 {
		slog.Debug("serial output", "line", string(p.line))
		p.line = p.line[:0]
	}
}
