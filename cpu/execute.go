package cpu

import "github.com/astrid-emu/gbcore/bit"

// execute runs the non-CB-prefixed opcode. Every branch issues exactly the
// bus/Tick traffic the real instruction's documented M-cycle count implies;
// see the package doc comment for why that is enough to be cycle-accurate
// without tracking cycle counts explicitly.
func (c *CPU) execute(opcode uint8) {
	in := primaryTable[opcode]

	switch in.m {
	case mNOP:

	case mLD8:
		c.write8(in.dst8, c.read8(in.src8))

	case mLD16:
		c.write16(in.dst16, c.read16(op16Imm16))

	case mLDAddrSP:
		addr := c.fetch16()
		c.bus.Write(addr, bit.Low(c.sp))
		c.bus.Write(addr+1, bit.High(c.sp))

	case mLDHLSPOffset:
		offset := int8(c.fetch())
		result := c.addSPSigned(offset)
		c.bus.Tick()
		c.setHL(result)

	case mLDSPHL:
		c.sp = c.getHL()
		c.bus.Tick()

	case mADDSPOffset:
		offset := int8(c.fetch())
		result := c.addSPSigned(offset)
		c.bus.Tick()
		c.bus.Tick()
		c.sp = result

	case mINC8:
		c.write8(in.dst8, c.inc8Value(c.read8(in.dst8)))

	case mDEC8:
		c.write8(in.dst8, c.dec8Value(c.read8(in.dst8)))

	case mINC16:
		c.write16(in.dst16, c.read16(in.dst16)+1)
		c.bus.Tick()

	case mDEC16:
		c.write16(in.dst16, c.read16(in.dst16)-1)
		c.bus.Tick()

	case mADD8:
		c.add8(c.read8(in.src8), false)

	case mADC8:
		c.add8(c.read8(in.src8), true)

	case mSUB8:
		c.sub8(c.read8(in.src8), false, false)

	case mSBC8:
		c.sub8(c.read8(in.src8), true, false)

	case mAND8:
		c.and8(c.read8(in.src8))

	case mOR8:
		c.or8(c.read8(in.src8))

	case mXOR8:
		c.xor8(c.read8(in.src8))

	case mCP8:
		c.sub8(c.read8(in.src8), false, true)

	case mADD16HL:
		c.add16HL(c.read16(in.dst16))
		c.bus.Tick()

	case mRLCA:
		c.rlca()
	case mRLA:
		c.rla()
	case mRRCA:
		c.rrca()
	case mRRA:
		c.rra()
	case mDAA:
		c.daa()
	case mCPL:
		c.cpl()
	case mSCF:
		c.scf()
	case mCCF:
		c.ccf()

	case mJR:
		offset := int8(c.fetch())
		if c.conditionMet(in.cond) {
			c.bus.Tick()
			c.pc = uint16(int32(c.pc) + int32(offset))
		}

	case mJP:
		target := c.fetch16()
		if c.conditionMet(in.cond) {
			c.bus.Tick()
			c.pc = target
		}

	case mJPHL:
		c.pc = c.getHL()

	case mCALL:
		target := c.fetch16()
		if c.conditionMet(in.cond) {
			c.bus.Tick()
			c.push16(c.pc)
			c.pc = target
		}

	case mRET:
		if in.cond != condAlways {
			c.bus.Tick() // condition test; unconditional RET skips this cycle
		}
		if c.conditionMet(in.cond) {
			c.pc = c.pop16()
			c.bus.Tick()
		}

	case mRETI:
		c.pc = c.pop16()
		c.bus.Tick()
		c.ime = true

	case mRST:
		c.bus.Tick()
		c.push16(c.pc)
		c.pc = uint16(in.rst)

	case mPUSH:
		c.bus.Tick()
		c.push16(c.read16(in.dst16))

	case mPOP:
		c.write16(in.dst16, c.pop16())

	case mDI:
		c.ime = false
		c.eiPending = false

	case mEI:
		c.eiPending = true

	case mHALT:
		c.halt()

	case mSTOP:
		c.fetch() // STOP is followed by a mandatory, ignored padding byte
		c.stop()

	case mIllegal:
		// An illegal opcode enters the HALT state. Unlike the permanent
		// lockup on real hardware, a pending interrupt wakes it again.
		c.halted = true
	}
}
