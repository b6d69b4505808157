/*
   MIPS-I disassembler.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package disassembler prints MIPS-I mnemonics, table-driven the same way
// the teacher's 370 disassembler keys a map of opcode -> {name, operand
// shape} (re-keyed here to the MIPS opcode/funct space of emu/cpu).
package disassembler

import "fmt"

var regNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

func reg(n uint32) string {
	return "$" + regNames[n&0x1f]
}

type fields struct {
	opcode uint32
	rs, rt, rd, shamt, funct uint32
	imm16 uint16
	simm  int32
	target uint32
}

func decode(word uint32) fields {
	imm16 := uint16(word)
	return fields{
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

var specialNames = map[uint32]string{
	0x00: "sll", 0x02: "srl", 0x03: "sra",
	0x04: "sllv", 0x06: "srlv", 0x07: "srav",
	0x08: "jr", 0x09: "jalr",
	0x0c: "syscall", 0x0d: "break",
	0x10: "mfhi", 0x11: "mthi", 0x12: "mflo", 0x13: "mtlo",
	0x18: "mult", 0x19: "multu", 0x1a: "div", 0x1b: "divu",
	0x20: "add", 0x21: "addu", 0x22: "sub", 0x23: "subu",
	0x24: "and", 0x25: "or", 0x26: "xor", 0x27: "nor",
	0x2a: "slt", 0x2b: "sltu",
}

var regimmNames = map[uint32]string{
	0x00: "bltz", 0x01: "bgez", 0x10: "bltzal", 0x11: "bgezal",
}

var opNames = map[uint32]string{
	0x02: "j", 0x03: "jal",
	0x04: "beq", 0x05: "bne", 0x06: "blez", 0x07: "bgtz",
	0x08: "addi", 0x09: "addiu", 0x0a: "slti", 0x0b: "sltiu",
	0x0c: "andi", 0x0d: "ori", 0x0e: "xori", 0x0f: "lui",
	0x20: "lb", 0x21: "lh", 0x22: "lwl", 0x23: "lw",
	0x24: "lbu", 0x25: "lhu", 0x26: "lwr",
	0x28: "sb", 0x29: "sh", 0x2a: "swl", 0x2b: "sw", 0x2e: "swr",
}

// Disassemble formats the instruction at addr holding word as a single
// mnemonic line, e.g. "80010000  addiu $t0, $zero, 5".
func Disassemble(addr uint32, word uint32) string {
	f := decode(word)

	var text string
	switch f.opcode {
	case 0x00:
		text = formatSpecial(f)
	case 0x01:
		text = formatRegimm(f)
	case 0x02, 0x03:
		text = fmt.Sprintf("%s %#x", opNames[f.opcode], f.target<<2)
	case 0x10:
		text = formatCOP0(f)
	default:
		if name, ok := opNames[f.opcode]; ok {
			text = formatImmediate(name, f)
		} else {
			text = fmt.Sprintf(".word %#08x", word)
		}
	}
	return fmt.Sprintf("%08x  %s", addr, text)
}

func formatSpecial(f fields) string {
	name, ok := specialNames[f.funct]
	if !ok {
		return fmt.Sprintf(".word special/%#x", f.funct)
	}
	switch f.funct {
	case 0x00, 0x02, 0x03: // shift by shamt
		return fmt.Sprintf("%s %s, %s, %d", name, reg(f.rd), reg(f.rt), f.shamt)
	case 0x04, 0x06, 0x07: // shift by register
		return fmt.Sprintf("%s %s, %s, %s", name, reg(f.rd), reg(f.rt), reg(f.rs))
	case 0x08: // jr
		return fmt.Sprintf("%s %s", name, reg(f.rs))
	case 0x09: // jalr
		return fmt.Sprintf("%s %s, %s", name, reg(f.rd), reg(f.rs))
	case 0x0c, 0x0d: // syscall, break
		return name
	case 0x10, 0x12: // mfhi, mflo
		return fmt.Sprintf("%s %s", name, reg(f.rd))
	case 0x11, 0x13: // mthi, mtlo
		return fmt.Sprintf("%s %s", name, reg(f.rs))
	case 0x18, 0x19, 0x1a, 0x1b: // mult/div family
		return fmt.Sprintf("%s %s, %s", name, reg(f.rs), reg(f.rt))
	default:
		return fmt.Sprintf("%s %s, %s, %s", name, reg(f.rd), reg(f.rs), reg(f.rt))
	}
}

func formatRegimm(f fields) string {
	name, ok := regimmNames[f.rt]
	if !ok {
		return fmt.Sprintf(".word regimm/%#x", f.rt)
	}
	return fmt.Sprintf("%s %s, %d", name, reg(f.rs), f.simm<<2)
}

func formatCOP0(f fields) string {
	switch f.rs {
	case 0x00:
		return fmt.Sprintf("mfc0 %s, $%d", reg(f.rt), f.rd)
	case 0x04:
		return fmt.Sprintf("mtc0 %s, $%d", reg(f.rt), f.rd)
	case 0x10:
		if f.funct == 0x10 {
			return "rfe"
		}
	}
	return ".word cop0/unknown"
}

func formatImmediate(name string, f fields) string {
	switch f.opcode {
	case 0x04, 0x05, 0x06, 0x07: // branches: rs, rt, offset
		return fmt.Sprintf("%s %s, %s, %d", name, reg(f.rs), reg(f.rt), f.simm<<2)
	case 0x0f: // lui: rt, imm
		return fmt.Sprintf("%s %s, %#x", name, reg(f.rt), f.imm16)
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x28, 0x29, 0x2a, 0x2b, 0x2e: // load/store
		return fmt.Sprintf("%s %s, %d(%s)", name, reg(f.rt), f.simm, reg(f.rs))
	default: // arithmetic/logical immediate: rt, rs, imm
		return fmt.Sprintf("%s %s, %s, %d", name, reg(f.rt), reg(f.rs), f.simm)
	}
}
