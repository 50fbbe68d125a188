package cpu

// mnemonic is the operation an instruction entry dispatches to in execute().
// Keeping this a flat enum of ~40 cases rather than one Go function per
// opcode is the compact, allocation-free table the primary decode wants:
// the entries below differ only in which operands and condition they carry.
type mnemonic uint8

const (
	mIllegal mnemonic = iota
	mNOP
	mLD8
	mLD16
	mLDAddrSP // 0x08: LD (nn),SP — the one 16-bit memory destination in the ISA
	mLDHLSPOffset
	mLDSPHL
	mADDSPOffset
	mINC8
	mDEC8
	mINC16
	mDEC16
	mADD8
	mADC8
	mSUB8
	mSBC8
	mAND8
	mOR8
	mXOR8
	mCP8
	mADD16HL
	mRLCA
	mRLA
	mRRCA
	mRRA
	mDAA
	mCPL
	mSCF
	mCCF
	mJR
	mJP
	mJPHL
	mCALL
	mRET
	mRETI
	mRST
	mPUSH
	mPOP
	mDI
	mEI
	mHALT
	mSTOP
)

// instruction is one primary-table entry: a mnemonic plus whichever operand
// slots it needs. Unused slots are left at their zero value (opNone/
// op16None/condAlways) and ignored by execute().
type instruction struct {
	m          mnemonic
	dst8, src8 Operand8
	dst16      Operand16
	cond       Condition
	rst        uint8
}

// primaryTable is the non-CB opcode map. Laid out with explicit indices so
// a misplaced entry is a compile-time-visible mistake, not a silent
// off-by-one — the same shape as a constant (Opcode, OperandPair) table,
// just keyed by index instead of positional order.
var primaryTable = [256]instruction{
	0x00: {m: mNOP},
	0x01: {m: mLD16, dst16: op16BC, cond: condAlways},
	0x02: {m: mLD8, dst8: opAddrBC, src8: opA},
	0x03: {m: mINC16, dst16: op16BC},
	0x04: {m: mINC8, dst8: opB},
	0x05: {m: mDEC8, dst8: opB},
	0x06: {m: mLD8, dst8: opB, src8: opImm8},
	0x07: {m: mRLCA},
	0x08: {m: mLDAddrSP},
	0x09: {m: mADD16HL, dst16: op16BC},
	0x0A: {m: mLD8, dst8: opA, src8: opAddrBC},
	0x0B: {m: mDEC16, dst16: op16BC},
	0x0C: {m: mINC8, dst8: opC},
	0x0D: {m: mDEC8, dst8: opC},
	0x0E: {m: mLD8, dst8: opC, src8: opImm8},
	0x0F: {m: mRRCA},

	0x10: {m: mSTOP},
	0x11: {m: mLD16, dst16: op16DE},
	0x12: {m: mLD8, dst8: opAddrDE, src8: opA},
	0x13: {m: mINC16, dst16: op16DE},
	0x14: {m: mINC8, dst8: opD},
	0x15: {m: mDEC8, dst8: opD},
	0x16: {m: mLD8, dst8: opD, src8: opImm8},
	0x17: {m: mRLA},
	0x18: {m: mJR, cond: condAlways},
	0x19: {m: mADD16HL, dst16: op16DE},
	0x1A: {m: mLD8, dst8: opA, src8: opAddrDE},
	0x1B: {m: mDEC16, dst16: op16DE},
	0x1C: {m: mINC8, dst8: opE},
	0x1D: {m: mDEC8, dst8: opE},
	0x1E: {m: mLD8, dst8: opE, src8: opImm8},
	0x1F: {m: mRRA},

	0x20: {m: mJR, cond: condNZ},
	0x21: {m: mLD16, dst16: op16HL},
	0x22: {m: mLD8, dst8: opAddrHLInc, src8: opA},
	0x23: {m: mINC16, dst16: op16HL},
	0x24: {m: mINC8, dst8: opH},
	0x25: {m: mDEC8, dst8: opH},
	0x26: {m: mLD8, dst8: opH, src8: opImm8},
	0x27: {m: mDAA},
	0x28: {m: mJR, cond: condZ},
	0x29: {m: mADD16HL, dst16: op16HL},
	0x2A: {m: mLD8, dst8: opA, src8: opAddrHLInc},
	0x2B: {m: mDEC16, dst16: op16HL},
	0x2C: {m: mINC8, dst8: opL},
	0x2D: {m: mDEC8, dst8: opL},
	0x2E: {m: mLD8, dst8: opL, src8: opImm8},
	0x2F: {m: mCPL},

	0x30: {m: mJR, cond: condNC},
	0x31: {m: mLD16, dst16: op16SP},
	0x32: {m: mLD8, dst8: opAddrHLDec, src8: opA},
	0x33: {m: mINC16, dst16: op16SP},
	0x34: {m: mINC8, dst8: opAddrHL},
	0x35: {m: mDEC8, dst8: opAddrHL},
	0x36: {m: mLD8, dst8: opAddrHL, src8: opImm8},
	0x37: {m: mSCF},
	0x38: {m: mJR, cond: condC},
	0x39: {m: mADD16HL, dst16: op16SP},
	0x3A: {m: mLD8, dst8: opA, src8: opAddrHLDec},
	0x3B: {m: mDEC16, dst16: op16SP},
	0x3C: {m: mINC8, dst8: opA},
	0x3D: {m: mDEC8, dst8: opA},
	0x3E: {m: mLD8, dst8: opA, src8: opImm8},
	0x3F: {m: mCCF},

	// 0x40-0x7F: LD r,r' in the canonical 8x8 grid, 0x76 is HALT instead.
	0x76: {m: mHALT},

	0x80: {m: mADD8, src8: opB}, 0x81: {m: mADD8, src8: opC}, 0x82: {m: mADD8, src8: opD},
	0x83: {m: mADD8, src8: opE}, 0x84: {m: mADD8, src8: opH}, 0x85: {m: mADD8, src8: opL},
	0x86: {m: mADD8, src8: opAddrHL}, 0x87: {m: mADD8, src8: opA},

	0x88: {m: mADC8, src8: opB}, 0x89: {m: mADC8, src8: opC}, 0x8A: {m: mADC8, src8: opD},
	0x8B: {m: mADC8, src8: opE}, 0x8C: {m: mADC8, src8: opH}, 0x8D: {m: mADC8, src8: opL},
	0x8E: {m: mADC8, src8: opAddrHL}, 0x8F: {m: mADC8, src8: opA},

	0x90: {m: mSUB8, src8: opB}, 0x91: {m: mSUB8, src8: opC}, 0x92: {m: mSUB8, src8: opD},
	0x93: {m: mSUB8, src8: opE}, 0x94: {m: mSUB8, src8: opH}, 0x95: {m: mSUB8, src8: opL},
	0x96: {m: mSUB8, src8: opAddrHL}, 0x97: {m: mSUB8, src8: opA},

	0x98: {m: mSBC8, src8: opB}, 0x99: {m: mSBC8, src8: opC}, 0x9A: {m: mSBC8, src8: opD},
	0x9B: {m: mSBC8, src8: opE}, 0x9C: {m: mSBC8, src8: opH}, 0x9D: {m: mSBC8, src8: opL},
	0x9E: {m: mSBC8, src8: opAddrHL}, 0x9F: {m: mSBC8, src8: opA},

	0xA0: {m: mAND8, src8: opB}, 0xA1: {m: mAND8, src8: opC}, 0xA2: {m: mAND8, src8: opD},
	0xA3: {m: mAND8, src8: opE}, 0xA4: {m: mAND8, src8: opH}, 0xA5: {m: mAND8, src8: opL},
	0xA6: {m: mAND8, src8: opAddrHL}, 0xA7: {m: mAND8, src8: opA},

	0xA8: {m: mXOR8, src8: opB}, 0xA9: {m: mXOR8, src8: opC}, 0xAA: {m: mXOR8, src8: opD},
	0xAB: {m: mXOR8, src8: opE}, 0xAC: {m: mXOR8, src8: opH}, 0xAD: {m: mXOR8, src8: opL},
	0xAE: {m: mXOR8, src8: opAddrHL}, 0xAF: {m: mXOR8, src8: opA},

	0xB0: {m: mOR8, src8: opB}, 0xB1: {m: mOR8, src8: opC}, 0xB2: {m: mOR8, src8: opD},
	0xB3: {m: mOR8, src8: opE}, 0xB4: {m: mOR8, src8: opH}, 0xB5: {m: mOR8, src8: opL},
	0xB6: {m: mOR8, src8: opAddrHL}, 0xB7: {m: mOR8, src8: opA},

	0xB8: {m: mCP8, src8: opB}, 0xB9: {m: mCP8, src8: opC}, 0xBA: {m: mCP8, src8: opD},
	0xBB: {m: mCP8, src8: opE}, 0xBC: {m: mCP8, src8: opH}, 0xBD: {m: mCP8, src8: opL},
	0xBE: {m: mCP8, src8: opAddrHL}, 0xBF: {m: mCP8, src8: opA},

	0xC0: {m: mRET, cond: condNZ},
	0xC1: {m: mPOP, dst16: op16BC},
	0xC2: {m: mJP, cond: condNZ},
	0xC3: {m: mJP, cond: condAlways},
	0xC4: {m: mCALL, cond: condNZ},
	0xC5: {m: mPUSH, dst16: op16BC},
	0xC6: {m: mADD8, src8: opImm8},
	0xC7: {m: mRST, rst: 0x00},
	0xC8: {m: mRET, cond: condZ},
	0xC9: {m: mRET, cond: condAlways},
	0xCA: {m: mJP, cond: condZ},
	0xCB: {m: mIllegal}, // handled specially in Step; never dispatched here
	0xCC: {m: mCALL, cond: condZ},
	0xCD: {m: mCALL, cond: condAlways},
	0xCE: {m: mADC8, src8: opImm8},
	0xCF: {m: mRST, rst: 0x08},

	0xD0: {m: mRET, cond: condNC},
	0xD1: {m: mPOP, dst16: op16DE},
	0xD2: {m: mJP, cond: condNC},
	0xD3: {m: mIllegal},
	0xD4: {m: mCALL, cond: condNC},
	0xD5: {m: mPUSH, dst16: op16DE},
	0xD6: {m: mSUB8, src8: opImm8},
	0xD7: {m: mRST, rst: 0x10},
	0xD8: {m: mRET, cond: condC},
	0xD9: {m: mRETI},
	0xDA: {m: mJP, cond: condC},
	0xDB: {m: mIllegal},
	0xDC: {m: mCALL, cond: condC},
	0xDD: {m: mIllegal},
	0xDE: {m: mSBC8, src8: opImm8},
	0xDF: {m: mRST, rst: 0x18},

	0xE0: {m: mLD8, dst8: opAddrHighImm8, src8: opA},
	0xE1: {m: mPOP, dst16: op16HL},
	0xE2: {m: mLD8, dst8: opAddrHighC, src8: opA},
	0xE3: {m: mIllegal},
	0xE4: {m: mIllegal},
	0xE5: {m: mPUSH, dst16: op16HL},
	0xE6: {m: mAND8, src8: opImm8},
	0xE7: {m: mRST, rst: 0x20},
	0xE8: {m: mADDSPOffset},
	0xE9: {m: mJPHL},
	0xEA: {m: mLD8, dst8: opAddrImm16, src8: opA},
	0xEB: {m: mIllegal},
	0xEC: {m: mIllegal},
	0xED: {m: mIllegal},
	0xEE: {m: mXOR8, src8: opImm8},
	0xEF: {m: mRST, rst: 0x28},

	0xF0: {m: mLD8, dst8: opA, src8: opAddrHighImm8},
	0xF1: {m: mPOP, dst16: op16AF},
	0xF2: {m: mLD8, dst8: opA, src8: opAddrHighC},
	0xF3: {m: mDI},
	0xF4: {m: mIllegal},
	0xF5: {m: mPUSH, dst16: op16AF},
	0xF6: {m: mOR8, src8: opImm8},
	0xF7: {m: mRST, rst: 0x30},
	0xF8: {m: mLDHLSPOffset},
	0xF9: {m: mLDSPHL},
	0xFA: {m: mLD8, dst8: opA, src8: opAddrImm16},
	0xFB: {m: mEI},
	0xFC: {m: mIllegal},
	0xFD: {m: mIllegal},
	0xFE: {m: mCP8, src8: opImm8},
	0xFF: {m: mRST, rst: 0x38},
}

// reg8ByIndex is the standard opcode-bit-group register ordering used by the
// 0x40-0xBF block and the CB-prefixed table: B C D E H L (HL) A.
var reg8ByIndex = [8]Operand8{opB, opC, opD, opE, opH, opL, opAddrHL, opA}

func init() {
	// Fill the 0x40-0x7F LD r,r' grid (minus 0x76, already HALT)
	// programmatically: a block this regular does not earn a line per
	// entry the way the irregular opcodes above do.
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			if opcode == 0x76 {
				continue
			}
			primaryTable[opcode] = instruction{m: mLD8, dst8: reg8ByIndex[dst], src8: reg8ByIndex[src]}
		}
	}
}
