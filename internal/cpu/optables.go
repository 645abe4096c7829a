package cpu

// opEntry is one slot in the 256-entry per-personality dispatch table:
// an addressing mode, an operation, and a base cycle count. Any opcode
// left at its default decodes as a documented-cycle NOP, matching real
// undocumented-opcode behavior on this family of CPUs.
type opEntry struct {
	Mode   AddrMode
	Op     opFunc
	Cycles uint8
}

var table02 [256]opEntry
var table816 [256]opEntry

func set(t *[256]opEntry, opcode uint8, mode AddrMode, op opFunc, cycles uint8) {
	t[opcode] = opEntry{mode, op, cycles}
}

func init() {
	for i := range table02 {
		table02[i] = opEntry{ModeImplied, opNOP, 2}
	}

	// --- load/store ---
	set(&table02, 0xA9, ModeImmediateM, opLDA, 2)
	set(&table02, 0xA5, ModeZP, opLDA, 3)
	set(&table02, 0xB5, ModeZPX, opLDA, 4)
	set(&table02, 0xAD, ModeAbsolute, opLDA, 4)
	set(&table02, 0xBD, ModeAbsoluteX, opLDA, 4)
	set(&table02, 0xB9, ModeAbsoluteY, opLDA, 4)
	set(&table02, 0xA1, ModeZPIndirectX, opLDA, 6)
	set(&table02, 0xB1, ModeZPIndirectY, opLDA, 5)
	set(&table02, 0xB2, ModeZPIndirect, opLDA, 5)

	set(&table02, 0x85, ModeZP, opSTA, 3)
	set(&table02, 0x95, ModeZPX, opSTA, 4)
	set(&table02, 0x8D, ModeAbsolute, opSTA, 4)
	set(&table02, 0x9D, ModeAbsoluteX, opSTA, 5)
	set(&table02, 0x99, ModeAbsoluteY, opSTA, 5)
	set(&table02, 0x81, ModeZPIndirectX, opSTA, 6)
	set(&table02, 0x91, ModeZPIndirectY, opSTA, 6)
	set(&table02, 0x92, ModeZPIndirect, opSTA, 5)

	set(&table02, 0xA2, ModeImmediateX, opLDX, 2)
	set(&table02, 0xA6, ModeZP, opLDX, 3)
	set(&table02, 0xB6, ModeZPY, opLDX, 4)
	set(&table02, 0xAE, ModeAbsolute, opLDX, 4)
	set(&table02, 0xBE, ModeAbsoluteY, opLDX, 4)
	set(&table02, 0x86, ModeZP, opSTX, 3)
	set(&table02, 0x96, ModeZPY, opSTX, 4)
	set(&table02, 0x8E, ModeAbsolute, opSTX, 4)

	set(&table02, 0xA0, ModeImmediateX, opLDY, 2)
	set(&table02, 0xA4, ModeZP, opLDY, 3)
	set(&table02, 0xB4, ModeZPX, opLDY, 4)
	set(&table02, 0xAC, ModeAbsolute, opLDY, 4)
	set(&table02, 0xBC, ModeAbsoluteX, opLDY, 4)
	set(&table02, 0x84, ModeZP, opSTY, 3)
	set(&table02, 0x94, ModeZPX, opSTY, 4)
	set(&table02, 0x8C, ModeAbsolute, opSTY, 4)

	set(&table02, 0x64, ModeZP, opSTZ, 3)
	set(&table02, 0x74, ModeZPX, opSTZ, 4)
	set(&table02, 0x9C, ModeAbsolute, opSTZ, 4)
	set(&table02, 0x9E, ModeAbsoluteX, opSTZ, 5)

	// --- arithmetic / logic ---
	set(&table02, 0x69, ModeImmediateM, opADC, 2)
	set(&table02, 0x65, ModeZP, opADC, 3)
	set(&table02, 0x75, ModeZPX, opADC, 4)
	set(&table02, 0x6D, ModeAbsolute, opADC, 4)
	set(&table02, 0x7D, ModeAbsoluteX, opADC, 4)
	set(&table02, 0x79, ModeAbsoluteY, opADC, 4)
	set(&table02, 0x61, ModeZPIndirectX, opADC, 6)
	set(&table02, 0x71, ModeZPIndirectY, opADC, 5)
	set(&table02, 0x72, ModeZPIndirect, opADC, 5)

	set(&table02, 0xE9, ModeImmediateM, opSBC, 2)
	set(&table02, 0xE5, ModeZP, opSBC, 3)
	set(&table02, 0xF5, ModeZPX, opSBC, 4)
	set(&table02, 0xED, ModeAbsolute, opSBC, 4)
	set(&table02, 0xFD, ModeAbsoluteX, opSBC, 4)
	set(&table02, 0xF9, ModeAbsoluteY, opSBC, 4)
	set(&table02, 0xE1, ModeZPIndirectX, opSBC, 6)
	set(&table02, 0xF1, ModeZPIndirectY, opSBC, 5)
	set(&table02, 0xF2, ModeZPIndirect, opSBC, 5)

	set(&table02, 0x29, ModeImmediateM, opAND, 2)
	set(&table02, 0x25, ModeZP, opAND, 3)
	set(&table02, 0x35, ModeZPX, opAND, 4)
	set(&table02, 0x2D, ModeAbsolute, opAND, 4)
	set(&table02, 0x3D, ModeAbsoluteX, opAND, 4)
	set(&table02, 0x39, ModeAbsoluteY, opAND, 4)
	set(&table02, 0x21, ModeZPIndirectX, opAND, 6)
	set(&table02, 0x31, ModeZPIndirectY, opAND, 5)
	set(&table02, 0x32, ModeZPIndirect, opAND, 5)

	set(&table02, 0x09, ModeImmediateM, opORA, 2)
	set(&table02, 0x05, ModeZP, opORA, 3)
	set(&table02, 0x15, ModeZPX, opORA, 4)
	set(&table02, 0x0D, ModeAbsolute, opORA, 4)
	set(&table02, 0x1D, ModeAbsoluteX, opORA, 4)
	set(&table02, 0x19, ModeAbsoluteY, opORA, 4)
	set(&table02, 0x01, ModeZPIndirectX, opORA, 6)
	set(&table02, 0x11, ModeZPIndirectY, opORA, 5)
	set(&table02, 0x12, ModeZPIndirect, opORA, 5)

	set(&table02, 0x49, ModeImmediateM, opEOR, 2)
	set(&table02, 0x45, ModeZP, opEOR, 3)
	set(&table02, 0x55, ModeZPX, opEOR, 4)
	set(&table02, 0x4D, ModeAbsolute, opEOR, 4)
	set(&table02, 0x5D, ModeAbsoluteX, opEOR, 4)
	set(&table02, 0x59, ModeAbsoluteY, opEOR, 4)
	set(&table02, 0x41, ModeZPIndirectX, opEOR, 6)
	set(&table02, 0x51, ModeZPIndirectY, opEOR, 5)
	set(&table02, 0x52, ModeZPIndirect, opEOR, 5)

	set(&table02, 0xC9, ModeImmediateM, opCMP, 2)
	set(&table02, 0xC5, ModeZP, opCMP, 3)
	set(&table02, 0xD5, ModeZPX, opCMP, 4)
	set(&table02, 0xCD, ModeAbsolute, opCMP, 4)
	set(&table02, 0xDD, ModeAbsoluteX, opCMP, 4)
	set(&table02, 0xD9, ModeAbsoluteY, opCMP, 4)
	set(&table02, 0xC1, ModeZPIndirectX, opCMP, 6)
	set(&table02, 0xD1, ModeZPIndirectY, opCMP, 5)
	set(&table02, 0xD2, ModeZPIndirect, opCMP, 5)

	set(&table02, 0xE0, ModeImmediateX, opCPX, 2)
	set(&table02, 0xE4, ModeZP, opCPX, 3)
	set(&table02, 0xEC, ModeAbsolute, opCPX, 4)
	set(&table02, 0xC0, ModeImmediateX, opCPY, 2)
	set(&table02, 0xC4, ModeZP, opCPY, 3)
	set(&table02, 0xCC, ModeAbsolute, opCPY, 4)

	set(&table02, 0x89, ModeImmediateM, opBIT, 2)
	set(&table02, 0x24, ModeZP, opBIT, 3)
	set(&table02, 0x34, ModeZPX, opBIT, 4)
	set(&table02, 0x2C, ModeAbsolute, opBIT, 4)
	set(&table02, 0x3C, ModeAbsoluteX, opBIT, 4)

	set(&table02, 0x14, ModeZP, opTRB, 5)
	set(&table02, 0x1C, ModeAbsolute, opTRB, 6)
	set(&table02, 0x04, ModeZP, opTSB, 5)
	set(&table02, 0x0C, ModeAbsolute, opTSB, 6)

	set(&table02, 0x0A, ModeAccumulator, opASL, 2)
	set(&table02, 0x06, ModeZP, opASL, 5)
	set(&table02, 0x16, ModeZPX, opASL, 6)
	set(&table02, 0x0E, ModeAbsolute, opASL, 6)
	set(&table02, 0x1E, ModeAbsoluteX, opASL, 7)

	set(&table02, 0x4A, ModeAccumulator, opLSR, 2)
	set(&table02, 0x46, ModeZP, opLSR, 5)
	set(&table02, 0x56, ModeZPX, opLSR, 6)
	set(&table02, 0x4E, ModeAbsolute, opLSR, 6)
	set(&table02, 0x5E, ModeAbsoluteX, opLSR, 7)

	set(&table02, 0x2A, ModeAccumulator, opROL, 2)
	set(&table02, 0x26, ModeZP, opROL, 5)
	set(&table02, 0x36, ModeZPX, opROL, 6)
	set(&table02, 0x2E, ModeAbsolute, opROL, 6)
	set(&table02, 0x3E, ModeAbsoluteX, opROL, 7)

	set(&table02, 0x6A, ModeAccumulator, opROR, 2)
	set(&table02, 0x66, ModeZP, opROR, 5)
	set(&table02, 0x76, ModeZPX, opROR, 6)
	set(&table02, 0x6E, ModeAbsolute, opROR, 6)
	set(&table02, 0x7E, ModeAbsoluteX, opROR, 7)

	set(&table02, 0xE6, ModeZP, opINC, 5)
	set(&table02, 0xF6, ModeZPX, opINC, 6)
	set(&table02, 0xEE, ModeAbsolute, opINC, 6)
	set(&table02, 0xFE, ModeAbsoluteX, opINC, 7)
	set(&table02, 0x1A, ModeAccumulator, opINC, 2)

	set(&table02, 0xC6, ModeZP, opDEC, 5)
	set(&table02, 0xD6, ModeZPX, opDEC, 6)
	set(&table02, 0xCE, ModeAbsolute, opDEC, 6)
	set(&table02, 0xDE, ModeAbsoluteX, opDEC, 7)
	set(&table02, 0x3A, ModeAccumulator, opDEC, 2)

	set(&table02, 0xE8, ModeImplied, opINX, 2)
	set(&table02, 0xC8, ModeImplied, opINY, 2)
	set(&table02, 0xCA, ModeImplied, opDEX, 2)
	set(&table02, 0x88, ModeImplied, opDEY, 2)

	// --- transfers ---
	set(&table02, 0xAA, ModeImplied, opTAX, 2)
	set(&table02, 0xA8, ModeImplied, opTAY, 2)
	set(&table02, 0x8A, ModeImplied, opTXA, 2)
	set(&table02, 0x98, ModeImplied, opTYA, 2)
	set(&table02, 0x9A, ModeImplied, opTXS, 2)
	set(&table02, 0xBA, ModeImplied, opTSX, 2)

	// --- stack ---
	set(&table02, 0x48, ModeImplied, opPHA, 3)
	set(&table02, 0x68, ModeImplied, opPLA, 4)
	set(&table02, 0xDA, ModeImplied, opPHX, 3)
	set(&table02, 0xFA, ModeImplied, opPLX, 4)
	set(&table02, 0x5A, ModeImplied, opPHY, 3)
	set(&table02, 0x7A, ModeImplied, opPLY, 4)
	set(&table02, 0x08, ModeImplied, opPHP, 3)
	set(&table02, 0x28, ModeImplied, opPLP, 4)

	// --- flags ---
	set(&table02, 0x18, ModeImplied, opCLC, 2)
	set(&table02, 0x38, ModeImplied, opSEC, 2)
	set(&table02, 0x58, ModeImplied, opCLI, 2)
	set(&table02, 0x78, ModeImplied, opSEI, 2)
	set(&table02, 0xD8, ModeImplied, opCLD, 2)
	set(&table02, 0xF8, ModeImplied, opSED, 2)
	set(&table02, 0xB8, ModeImplied, opCLV, 2)

	// --- branches ---
	set(&table02, 0x10, ModeRelative8, branchOp(FlagN, false), 2)
	set(&table02, 0x30, ModeRelative8, branchOp(FlagN, true), 2)
	set(&table02, 0x50, ModeRelative8, branchOp(FlagV, false), 2)
	set(&table02, 0x70, ModeRelative8, branchOp(FlagV, true), 2)
	set(&table02, 0x90, ModeRelative8, branchOp(FlagC, false), 2)
	set(&table02, 0xB0, ModeRelative8, branchOp(FlagC, true), 2)
	set(&table02, 0xD0, ModeRelative8, branchOp(FlagZ, false), 2)
	set(&table02, 0xF0, ModeRelative8, branchOp(FlagZ, true), 2)
	set(&table02, 0x80, ModeRelative8, opBRA, 3)

	// --- 65C02 bit manipulation/branch ---
	set(&table02, 0x07, ModeZP, bitOp(0, false), 5)
	set(&table02, 0x17, ModeZP, bitOp(1, false), 5)
	set(&table02, 0x27, ModeZP, bitOp(2, false), 5)
	set(&table02, 0x37, ModeZP, bitOp(3, false), 5)
	set(&table02, 0x47, ModeZP, bitOp(4, false), 5)
	set(&table02, 0x57, ModeZP, bitOp(5, false), 5)
	set(&table02, 0x67, ModeZP, bitOp(6, false), 5)
	set(&table02, 0x77, ModeZP, bitOp(7, false), 5)

	set(&table02, 0x87, ModeZP, bitOp(0, true), 5)
	set(&table02, 0x97, ModeZP, bitOp(1, true), 5)
	set(&table02, 0xA7, ModeZP, bitOp(2, true), 5)
	set(&table02, 0xB7, ModeZP, bitOp(3, true), 5)
	set(&table02, 0xC7, ModeZP, bitOp(4, true), 5)
	set(&table02, 0xD7, ModeZP, bitOp(5, true), 5)
	set(&table02, 0xE7, ModeZP, bitOp(6, true), 5)
	set(&table02, 0xF7, ModeZP, bitOp(7, true), 5)

	set(&table02, 0x0F, ModeZPRelative, bbOp(0, false), 5)
	set(&table02, 0x1F, ModeZPRelative, bbOp(1, false), 5)
	set(&table02, 0x2F, ModeZPRelative, bbOp(2, false), 5)
	set(&table02, 0x3F, ModeZPRelative, bbOp(3, false), 5)
	set(&table02, 0x4F, ModeZPRelative, bbOp(4, false), 5)
	set(&table02, 0x5F, ModeZPRelative, bbOp(5, false), 5)
	set(&table02, 0x6F, ModeZPRelative, bbOp(6, false), 5)
	set(&table02, 0x7F, ModeZPRelative, bbOp(7, false), 5)

	set(&table02, 0x8F, ModeZPRelative, bbOp(0, true), 5)
	set(&table02, 0x9F, ModeZPRelative, bbOp(1, true), 5)
	set(&table02, 0xAF, ModeZPRelative, bbOp(2, true), 5)
	set(&table02, 0xBF, ModeZPRelative, bbOp(3, true), 5)
	set(&table02, 0xCF, ModeZPRelative, bbOp(4, true), 5)
	set(&table02, 0xDF, ModeZPRelative, bbOp(5, true), 5)
	set(&table02, 0xEF, ModeZPRelative, bbOp(6, true), 5)
	set(&table02, 0xFF, ModeZPRelative, bbOp(7, true), 5)

	// --- control flow ---
	set(&table02, 0x4C, ModeAbsolute, opJMP, 3)
	set(&table02, 0x6C, ModeAbsoluteIndirect, opJMP, 5)
	set(&table02, 0x7C, ModeAbsoluteIndirectX, opJMP, 6)
	set(&table02, 0x20, ModeAbsolute, opJSR, 6)
	set(&table02, 0x60, ModeImplied, opRTS, 6)
	set(&table02, 0x40, ModeImplied, opRTI, 6)
	set(&table02, 0x00, ModeImplied, opBRK, 7)
	set(&table02, 0xEA, ModeImplied, opNOP, 2)
	set(&table02, 0xCB, ModeImplied, opWAI, 3)
	set(&table02, 0xDB, ModeImplied, opSTP, 3)

	// 65C816 table starts as a copy of the 65C02 table, then gains native
	// opcodes and width-aware variants.
	table816 = table02

	set(&table816, 0x02, ModeImmediate8, opCOP, 7)
	set(&table816, 0x22, ModeAbsoluteLong, opJSL, 8)
	set(&table816, 0x5C, ModeAbsoluteLong, opJML, 4)
	set(&table816, 0xDC, ModeAbsoluteIndirectLong, opJML, 6)
	set(&table816, 0x6B, ModeImplied, opRTL, 6)
	set(&table816, 0x0B, ModeImplied, opPHD, 4)
	set(&table816, 0x2B, ModeImplied, opPLD, 5)
	set(&table816, 0x8B, ModeImplied, opPHB, 3)
	set(&table816, 0xAB, ModeImplied, opPLB, 4)
	set(&table816, 0x4B, ModeImplied, opPHK, 3)
	set(&table816, 0x1B, ModeImplied, opTCS, 2)
	set(&table816, 0x3B, ModeImplied, opTSC, 2)
	set(&table816, 0x5B, ModeImplied, opTCD, 2)
	set(&table816, 0x7B, ModeImplied, opTDC, 2)
	set(&table816, 0x9B, ModeImplied, opTXY, 2)
	set(&table816, 0xBB, ModeImplied, opTYX, 2)
	set(&table816, 0xEB, ModeImplied, opXBA, 3)
	set(&table816, 0xC2, ModeImmediate8, opREP, 3)
	set(&table816, 0xE2, ModeImmediate8, opSEP, 3)
	set(&table816, 0xFB, ModeImplied, opXCE, 2)
	set(&table816, 0x62, ModeRelative16, opPER, 6)
	set(&table816, 0x82, ModeRelative16, opBRL, 4)
	set(&table816, 0x54, ModeBlockMove, opMVN, 7)
	set(&table816, 0x44, ModeBlockMove, opMVP, 7)

	set(&table816, 0xA3, ModeStackRelative, opLDA, 4)
	set(&table816, 0x83, ModeStackRelative, opSTA, 4)
	set(&table816, 0xB3, ModeStackRelativeIndirectY, opLDA, 7)
	set(&table816, 0x93, ModeStackRelativeIndirectY, opSTA, 7)
	set(&table816, 0xA7, ModeZPIndirectLong, opLDA, 6)
	set(&table816, 0x87, ModeZPIndirectLong, opSTA, 6)
	set(&table816, 0xB7, ModeZPIndirectLongY, opLDA, 6)
	set(&table816, 0x97, ModeZPIndirectLongY, opSTA, 6)
	set(&table816, 0xAF, ModeAbsoluteLong, opLDA, 5)
	set(&table816, 0x8F, ModeAbsoluteLong, opSTA, 5)
	set(&table816, 0xBF, ModeAbsoluteLongX, opLDA, 5)
	set(&table816, 0x9F, ModeAbsoluteLongX, opSTA, 5)
}
