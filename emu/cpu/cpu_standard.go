/*
   Main (non-COP0) opcode table: SPECIAL/REGIMM secondary dispatch, ALU,
   branch/jump, and load/store instructions.

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
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

package cpu

import "github.com/rcornwell/gopsx/emu/cop0"

// buildTable constructs the primary 64-entry opcode dispatch table once,
// the way the teacher's createTable builds its 370 opcode table. Unlisted
// opcodes raise a reserved-instruction exception rather than crashing.
func buildTable() [64]func(*CPU, decoded) {
	var t [64]func(*CPU, decoded)
	for i := range t {
		t[i] = (*CPU).opReserved
	}

	t[0x00] = (*CPU).opSpecial
	t[0x01] = (*CPU).opRegimm
	t[0x02] = (*CPU).opJ
	t[0x03] = (*CPU).opJAL
	t[0x04] = (*CPU).opBEQ
	t[0x05] = (*CPU).opBNE
	t[0x06] = (*CPU).opBLEZ
	t[0x07] = (*CPU).opBGTZ
	t[0x08] = (*CPU).opADDI
	t[0x09] = (*CPU).opADDIU
	t[0x0a] = (*CPU).opSLTI
	t[0x0b] = (*CPU).opSLTIU
	t[0x0c] = (*CPU).opANDI
	t[0x0d] = (*CPU).opORI
	t[0x0e] = (*CPU).opXORI
	t[0x0f] = (*CPU).opLUI
	t[0x10] = (*CPU).opCOP0
	t[0x20] = (*CPU).opLB
	t[0x21] = (*CPU).opLH
	t[0x22] = (*CPU).opLWL
	t[0x23] = (*CPU).opLW
	t[0x24] = (*CPU).opLBU
	t[0x25] = (*CPU).opLHU
	t[0x26] = (*CPU).opLWR
	t[0x28] = (*CPU).opSB
	t[0x29] = (*CPU).opSH
	t[0x2a] = (*CPU).opSWL
	t[0x2b] = (*CPU).opSW
	t[0x2e] = (*CPU).opSWR
	return t
}

func (c *CPU) opReserved(d decoded) {
	c.raiseException(c.curPC, cop0.ExcRI, c.curInDelaySlot)
}

func (c *CPU) exc(code uint32) {
	c.raiseException(c.curPC, code, c.curInDelaySlot)
}

// --- SPECIAL (funct-dispatched) ---

func (c *CPU) opSpecial(d decoded) {
	switch d.funct {
	case 0x00:
		c.SetReg(d.rd, c.GetReg(d.rt)<<d.shamt)
	case 0x02:
		c.SetReg(d.rd, c.GetReg(d.rt)>>d.shamt)
	case 0x03:
		c.SetReg(d.rd, uint32(int32(c.GetReg(d.rt))>>d.shamt))
	case 0x04:
		c.SetReg(d.rd, c.GetReg(d.rt)<<(c.GetReg(d.rs)&0x1f))
	case 0x06:
		c.SetReg(d.rd, c.GetReg(d.rt)>>(c.GetReg(d.rs)&0x1f))
	case 0x07:
		c.SetReg(d.rd, uint32(int32(c.GetReg(d.rt))>>(c.GetReg(d.rs)&0x1f)))
	case 0x08: // JR
		c.branch(c.GetReg(d.rs))
	case 0x09: // JALR
		target := c.GetReg(d.rs)
		c.SetReg(d.rd, c.pc+4)
		c.branch(target)
	case 0x0c: // SYSCALL
		c.exc(cop0.ExcSys)
	case 0x0d: // BREAK
		c.exc(cop0.ExcBp)
	case 0x10:
		c.SetReg(d.rd, c.hi)
	case 0x11:
		c.hi = c.GetReg(d.rs)
	case 0x12:
		c.SetReg(d.rd, c.lo)
	case 0x13:
		c.lo = c.GetReg(d.rs)
	case 0x18: // MULT
		a := int64(int32(c.GetReg(d.rs)))
		b := int64(int32(c.GetReg(d.rt)))
		r := uint64(a * b)
		c.lo, c.hi = uint32(r), uint32(r>>32)
	case 0x19: // MULTU
		r := uint64(c.GetReg(d.rs)) * uint64(c.GetReg(d.rt))
		c.lo, c.hi = uint32(r), uint32(r>>32)
	case 0x1a: // DIV
		n := int32(c.GetReg(d.rs))
		dv := int32(c.GetReg(d.rt))
		if dv == 0 {
			c.hi = uint32(n)
			if n >= 0 {
				c.lo = 0xffffffff
			} else {
				c.lo = 1
			}
			return
		}
		if n == -0x80000000 && dv == -1 { // overflow case, architectural result
			c.lo = uint32(n)
			c.hi = 0
			return
		}
		c.lo = uint32(n / dv)
		c.hi = uint32(n % dv)
	case 0x1b: // DIVU
		n := c.GetReg(d.rs)
		dv := c.GetReg(d.rt)
		if dv == 0 {
			c.lo = 0xffffffff
			c.hi = n
			return
		}
		c.lo = n / dv
		c.hi = n % dv
	case 0x20: // ADD (checked)
		rs, rt := c.GetReg(d.rs), c.GetReg(d.rt)
		sum := rs + rt
		if (rs^sum)&(rt^sum)&0x80000000 != 0 {
			c.exc(cop0.ExcOvf)
			return
		}
		c.SetReg(d.rd, sum)
	case 0x21:
		c.SetReg(d.rd, c.GetReg(d.rs)+c.GetReg(d.rt))
	case 0x22: // SUB (checked)
		rs, rt := c.GetReg(d.rs), c.GetReg(d.rt)
		diff := rs - rt
		if (rs^rt)&(rs^diff)&0x80000000 != 0 {
			c.exc(cop0.ExcOvf)
			return
		}
		c.SetReg(d.rd, diff)
	case 0x23:
		c.SetReg(d.rd, c.GetReg(d.rs)-c.GetReg(d.rt))
	case 0x24:
		c.SetReg(d.rd, c.GetReg(d.rs)&c.GetReg(d.rt))
	case 0x25:
		c.SetReg(d.rd, c.GetReg(d.rs)|c.GetReg(d.rt))
	case 0x26:
		c.SetReg(d.rd, c.GetReg(d.rs)^c.GetReg(d.rt))
	case 0x27:
		c.SetReg(d.rd, ^(c.GetReg(d.rs) | c.GetReg(d.rt)))
	case 0x2a:
		if int32(c.GetReg(d.rs)) < int32(c.GetReg(d.rt)) {
			c.SetReg(d.rd, 1)
		} else {
			c.SetReg(d.rd, 0)
		}
	case 0x2b:
		if c.GetReg(d.rs) < c.GetReg(d.rt) {
			c.SetReg(d.rd, 1)
		} else {
			c.SetReg(d.rd, 0)
		}
	default:
		c.opReserved(d)
	}
}

// --- REGIMM (rt-dispatched) ---

func (c *CPU) opRegimm(d decoded) {
	target := c.pc + uint32(d.simm<<2)
	taken := int32(c.GetReg(d.rs)) < 0
	switch d.rt {
	case 0x00: // BLTZ
	case 0x01: // BGEZ
		taken = !taken
	case 0x10: // BLTZAL
		c.SetReg(31, c.pc+4)
	case 0x11: // BGEZAL
		taken = !taken
		c.SetReg(31, c.pc+4)
	default:
		c.opReserved(d)
		return
	}
	if taken {
		c.branch(target)
	}
}

// --- jumps ---

func (c *CPU) opJ(d decoded) {
	c.branch((c.pc & 0xf0000000) | (d.target << 2))
}

func (c *CPU) opJAL(d decoded) {
	c.SetReg(31, c.pc+4)
	c.branch((c.pc & 0xf0000000) | (d.target << 2))
}

// --- conditional branches ---

func (c *CPU) opBEQ(d decoded) {
	if c.GetReg(d.rs) == c.GetReg(d.rt) {
		c.branch(c.pc + uint32(d.simm<<2))
	}
}

func (c *CPU) opBNE(d decoded) {
	if c.GetReg(d.rs) != c.GetReg(d.rt) {
		c.branch(c.pc + uint32(d.simm<<2))
	}
}

func (c *CPU) opBLEZ(d decoded) {
	if int32(c.GetReg(d.rs)) <= 0 {
		c.branch(c.pc + uint32(d.simm<<2))
	}
}

func (c *CPU) opBGTZ(d decoded) {
	if int32(c.GetReg(d.rs)) > 0 {
		c.branch(c.pc + uint32(d.simm<<2))
	}
}

// --- immediate ALU ---

func (c *CPU) opADDI(d decoded) {
	rs := c.GetReg(d.rs)
	imm := uint32(d.simm)
	sum := rs + imm
	if (rs^sum)&(imm^sum)&0x80000000 != 0 {
		c.exc(cop0.ExcOvf)
		return
	}
	c.SetReg(d.rt, sum)
}

func (c *CPU) opADDIU(d decoded) {
	c.SetReg(d.rt, c.GetReg(d.rs)+uint32(d.simm))
}

func (c *CPU) opSLTI(d decoded) {
	if int32(c.GetReg(d.rs)) < d.simm {
		c.SetReg(d.rt, 1)
	} else {
		c.SetReg(d.rt, 0)
	}
}

func (c *CPU) opSLTIU(d decoded) {
	if c.GetReg(d.rs) < uint32(d.simm) {
		c.SetReg(d.rt, 1)
	} else {
		c.SetReg(d.rt, 0)
	}
}

func (c *CPU) opANDI(d decoded) {
	c.SetReg(d.rt, c.GetReg(d.rs)&uint32(d.imm16))
}

func (c *CPU) opORI(d decoded) {
	c.SetReg(d.rt, c.GetReg(d.rs)|uint32(d.imm16))
}

func (c *CPU) opXORI(d decoded) {
	c.SetReg(d.rt, c.GetReg(d.rs)^uint32(d.imm16))
}

func (c *CPU) opLUI(d decoded) {
	c.SetReg(d.rt, uint32(d.imm16)<<16)
}

// --- loads/stores ---

func (c *CPU) opLB(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	v, err := c.readByte(addr)
	if err != nil {
		c.fault = err
		return
	}
	c.queueLoad(d.rt, uint32(int32(int8(v))))
}

func (c *CPU) opLBU(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	v, err := c.readByte(addr)
	if err != nil {
		c.fault = err
		return
	}
	c.queueLoad(d.rt, uint32(v))
}

func (c *CPU) opLH(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if addr%2 != 0 {
		c.exc(cop0.ExcAdEL)
		return
	}
	v, err := c.readHalfWord(addr)
	if err != nil {
		c.fault = err
		return
	}
	c.queueLoad(d.rt, uint32(int32(int16(v))))
}

func (c *CPU) opLHU(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if addr%2 != 0 {
		c.exc(cop0.ExcAdEL)
		return
	}
	v, err := c.readHalfWord(addr)
	if err != nil {
		c.fault = err
		return
	}
	c.queueLoad(d.rt, uint32(v))
}

func (c *CPU) opLW(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if addr%4 != 0 {
		c.exc(cop0.ExcAdEL)
		return
	}
	v, err := c.readWord(addr)
	if err != nil {
		c.fault = err
		return
	}
	c.queueLoad(d.rt, v)
}

// opLWL/opLWR use the standard little-endian formulation (the unaligned
// load spans into the next/previous word only through the byte count addr
// & 3 selects; rt's current value fills in the untouched bytes). The
// simplification here — reading rt's already-committed value rather than
// forwarding an in-flight load-delay value for rt — matches nearly every
// practical PSX core and is invisible to software that obeys the one-slot
// load-delay contract.
func (c *CPU) opLWL(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	aligned := addr &^ 3
	word, err := c.readWord(aligned)
	if err != nil {
		c.fault = err
		return
	}
	cur := c.GetReg(d.rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = (cur & 0x00ffffff) | (word << 24)
	case 1:
		v = (cur & 0x0000ffff) | (word << 16)
	case 2:
		v = (cur & 0x000000ff) | (word << 8)
	default:
		v = word
	}
	c.queueLoad(d.rt, v)
}

func (c *CPU) opLWR(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	aligned := addr &^ 3
	word, err := c.readWord(aligned)
	if err != nil {
		c.fault = err
		return
	}
	cur := c.GetReg(d.rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = word
	case 1:
		v = (cur & 0xff000000) | (word >> 8)
	case 2:
		v = (cur & 0xffff0000) | (word >> 16)
	default:
		v = (cur & 0xffffff00) | (word >> 24)
	}
	c.queueLoad(d.rt, v)
}

func (c *CPU) opSB(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if err := c.writeByte(addr, uint8(c.GetReg(d.rt))); err != nil {
		c.fault = err
	}
}

func (c *CPU) opSH(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if addr%2 != 0 {
		c.exc(cop0.ExcAdES)
		return
	}
	if err := c.writeHalfWord(addr, uint16(c.GetReg(d.rt))); err != nil {
		c.fault = err
	}
}

func (c *CPU) opSW(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	if addr%4 != 0 {
		c.exc(cop0.ExcAdES)
		return
	}
	if err := c.writeWord(addr, c.GetReg(d.rt)); err != nil {
		c.fault = err
	}
}

func (c *CPU) opSWL(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	aligned := addr &^ 3
	mem, err := c.readWord(aligned)
	if err != nil {
		c.fault = err
		return
	}
	rt := c.GetReg(d.rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = (mem & 0xffffff00) | (rt >> 24)
	case 1:
		v = (mem & 0xffff0000) | (rt >> 16)
	case 2:
		v = (mem & 0xff000000) | (rt >> 8)
	default:
		v = rt
	}
	if err := c.writeWord(aligned, v); err != nil {
		c.fault = err
	}
}

func (c *CPU) opSWR(d decoded) {
	addr := c.GetReg(d.rs) + uint32(d.simm)
	aligned := addr &^ 3
	mem, err := c.readWord(aligned)
	if err != nil {
		c.fault = err
		return
	}
	rt := c.GetReg(d.rt)
	var v uint32
	switch addr & 3 {
	case 0:
		v = rt
	case 1:
		v = (mem & 0x000000ff) | (rt << 8)
	case 2:
		v = (mem & 0x0000ffff) | (rt << 16)
	default:
		v = (mem & 0x00ffffff) | (rt << 24)
	}
	if err := c.writeWord(aligned, v); err != nil {
		c.fault = err
	}
}
