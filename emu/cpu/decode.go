package cpu

// decode extracts every instruction field a handler might need from a raw
// 32-bit MIPS-I word, once, up front — mirroring the teacher's stepInfo
// decode-once-read-many convention.
func decode(word uint32) decoded {
	imm16 := uint16(word)
	return decoded{
		raw:    word,
		opcode: word >> 26,
		rs:     (word >> 21) & 0x1f,
		rt:     (word >> 16) & 0x1f,
		rd:     (word >> 11) & 0x1f,
		shamt:  (word >> 6) & 0x1f,
		funct:  word & 0x3f,
		imm16:  imm16,
		simm:   int32(int16(imm16)),
		target: word & 0x03ffffff,
	}
}
