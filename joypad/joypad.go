// Package joypad models the DMG button matrix exposed through register P1.
package joypad

import (
	"github.com/astrid-emu/gbcore/addr"
	"github.com/astrid-emu/gbcore/bit"
)

// Button is one of the eight DMG inputs.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad tracks button/d-pad state and the P1 selection bits.
//
// Bits read low when pressed; the two "select" bits (4-5) choose which group
// of four buttons the low nibble reflects, and real hardware ANDs both groups
// together if both selectors are active at once.
type Joypad struct {
	buttons  uint8 // bit=0 means pressed, bits 4-7 unused (always 0)
	dpad     uint8
	selector uint8 // P1 bits 4-5 as last written

	RequestInterrupt func(addr.Interrupt)
}

// New creates a Joypad with nothing pressed.
func New() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F, selector: 0x30}
}

// Read returns the current value of P1.
func (j *Joypad) Read() uint8 {
	result := uint8(0b11000000) | (j.selector & 0b00110000)

	selectDpad := !bit.IsSet(4, j.selector)
	selectButtons := !bit.IsSet(5, j.selector)

	switch {
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the selector bits (the only writable part of P1).
func (j *Joypad) Write(value uint8) {
	j.selector = value & 0b00110000
}

// Press marks a button as held, raising the joypad interrupt on a 1->0
// transition of any of its bits (matches hardware's edge-triggered behavior).
func (j *Joypad) Press(b Button) {
	before := j.buttons & j.dpad
	j.setBit(b, false)
	after := j.buttons & j.dpad
	if before & ^after != 0 && j.RequestInterrupt != nil {
		j.RequestInterrupt(addr.Joypad)
	}
}

// Release marks a button as no longer held.
func (j *Joypad) Release(b Button) {
	j.setBit(b, true)
}

func (j *Joypad) setBit(b Button, released bool) {
	switch b {
	case Right:
		j.dpad = bit.SetTo(0, j.dpad, released)
	case Left:
		j.dpad = bit.SetTo(1, j.dpad, released)
	case Up:
		j.dpad = bit.SetTo(2, j.dpad, released)
	case Down:
		j.dpad = bit.SetTo(3, j.dpad, released)
	case A:
		j.buttons = bit.SetTo(0, j.buttons, released)
	case B:
		j.buttons = bit.SetTo(1, j.buttons, released)
	case Select:
		j.buttons = bit.SetTo(2, j.buttons, released)
	case Start:
		j.buttons = bit.SetTo(3, j.buttons, released)
	}
}
