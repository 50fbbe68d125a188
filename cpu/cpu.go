// Package cpu implements the Sharp LR35902 instruction set: fetch/decode/
// execute, the IME/IF/IE interrupt dance (including the EI delay and the
// HALT bug), and STOP/HALT low-power states.
//
// The CPU never ticks peripherals itself. Every Bus.Read/Write call is
// defined to advance every other component on the bus by exactly one
// machine cycle as a side effect; Bus.Tick does the same for cycles that
// touch no address at all (branch-not-taken waits, ALU-only cycles,
// interrupt dispatch). This is what makes instruction bodies below
// automatically cycle-accurate without any separate cycle bookkeeping.
package cpu

import (
	"github.com/astrid-emu/gbcore/addr"
	"github.com/astrid-emu/gbcore/bit"
)

// Bus is everything the CPU needs from its memory map.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	// Tick advances every peripheral by one machine cycle without
	// performing a bus transaction.
	Tick()
	// PendingInterrupt returns the highest-priority interrupt that is both
	// requested (IF) and enabled (IE), without clearing it.
	PendingInterrupt() (addr.Interrupt, bool)
	// ClearInterrupt clears i's bit in IF, acknowledging it has been serviced.
	ClearInterrupt(i addr.Interrupt)
}

// CPU holds the Sharp LR35902 register file and execution state.
type CPU struct {
	bus Bus

	a, f    uint8
	b, c    uint8
	d, e    uint8
	h, l    uint8
	sp, pc  uint16

	ime       bool
	eiPending bool // set by EI; ime becomes true at the end of the *next* Step

	halted   bool
	stopped  bool
	haltBug  bool // next fetch must not advance pc

	currentOpcode uint16 // 0xCBxx for CB-prefixed, for diagnostics/tests
}

// New creates a CPU wired to bus, with registers in their documented
// post-boot-ROM state. Callers that run the real boot ROM from 0x0000
// use NewAtBootROM instead.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// NewAtBootROM creates a CPU with every register zeroed and PC at 0x0000,
// for callers that run the real boot ROM instead of skipping straight to
// the post-boot state New provides.
func NewAtBootROM(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// PC returns the program counter, for diagnostics and tests.
func (c *CPU) PC() uint16 { return c.pc }

// IME reports whether interrupts are currently enabled for dispatch.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is in the low-power HALT state.
func (c *CPU) Halted() bool { return c.halted }

// Step executes exactly one instruction (or one interrupt dispatch, or one
// idle cycle while halted/stopped), advancing every peripheral by however
// many machine cycles that took.
func (c *CPU) Step() {
	if c.stopped {
		if _, ok := c.bus.PendingInterrupt(); ok {
			c.stopped = false
		} else {
			c.bus.Tick()
			return
		}
	}

	if c.halted {
		if _, ok := c.bus.PendingInterrupt(); ok {
			c.halted = false
		} else {
			c.bus.Tick()
			return
		}
	}

	if c.serviceInterrupt() {
		return
	}

	wasEIPending := c.eiPending
	c.eiPending = false

	opcode := c.fetch()
	c.currentOpcode = uint16(opcode)
	if opcode == 0xCB {
		cb := c.fetch()
		c.currentOpcode = 0xCB00 | uint16(cb)
		c.executeCB(cb)
	} else {
		c.execute(opcode)
	}

	if wasEIPending {
		c.ime = true
	}
}

// fetch reads the byte at pc and advances pc, except immediately after the
// HALT bug, when pc must be left pointing at the same byte so it is read
// (and executed) a second time.
func (c *CPU) fetch() uint8 {
	value := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return value
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return bit.Combine(hi, lo)
}

func (c *CPU) serviceInterrupt() bool {
	if !c.ime {
		return false
	}
	irq, ok := c.bus.PendingInterrupt()
	if !ok {
		return false
	}

	c.ime = false
	c.bus.Tick()
	c.bus.Tick()
	c.push16(c.pc)
	c.bus.Tick()
	c.bus.ClearInterrupt(irq)
	c.pc = addr.VectorFor(irq)
	return true
}

func (c *CPU) push16(v uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(v))
	c.sp--
	c.bus.Write(c.sp, bit.Low(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.sp)
	c.sp++
	hi := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(hi, lo)
}

// halt implements the HALT opcode, including the documented hardware bug:
// if IME is clear but an interrupt is already pending, the CPU does not
// actually halt — instead the next instruction fetch fails to advance pc,
// causing the following opcode byte to be read (and executed) twice.
func (c *CPU) halt() {
	_, pending := c.bus.PendingInterrupt()
	if !c.ime && pending {
		c.haltBug = true
		return
	}
	c.halted = true
}

// stop implements the STOP opcode. The DMG has no double-speed mode to
// negotiate, so this only models the low-power wait for an input-driven
// wake that real STOP behavior shares with HALT.
func (c *CPU) stop() {
	c.stopped = true
}
