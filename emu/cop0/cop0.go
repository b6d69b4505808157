/*
   COP0 system coprocessor: Status, Cause, EPC and the surrounding plain
   control registers.

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

// Package cop0 implements the R3000A system-control coprocessor: the
// 16-register bank backing mtc0/mfc0/rfe, with Status/Cause/EPC given
// semantic meaning and the rest kept as plain storage (reconstructed from
// original_source's cpu/mod.rs call sites; the cop0.rs submodule itself was
// not part of the retrieved source).
package cop0

// Register indices mtc0/mfc0 address directly.
const (
	RegStatus = 12
	RegCause  = 13
	RegEPC    = 14
)

// Status bits.
const (
	StatusIEc  = 1 << 0  // current interrupt enable
	StatusIEp  = 1 << 2  // previous interrupt enable (stack slot 1)
	StatusIEo  = 1 << 4  // old interrupt enable (stack slot 2)
	StatusIsC  = 1 << 16 // isolate cache: data writes do not reach the bus
	StatusBEV  = 1 << 22 // boot exception vectors (see DESIGN.md bit-22/23 note)
	StatusMask = 0x3ffff
)

// ExcCode values for the Cause register's bits 2..6.
const (
	ExcInt  = 0
	ExcMod  = 1
	ExcTLBL = 2
	ExcTLBS = 3
	ExcAdEL = 4
	ExcAdES = 5
	ExcIBE  = 6
	ExcDBE  = 7
	ExcSys  = 8
	ExcBp   = 9
	ExcRI   = 10
	ExcCpU  = 11
	ExcOvf  = 12
)

// COP0 holds all 16 control registers. Only Status (12), Cause (13) and
// EPC (14) are given dedicated accessors; the rest (BadVaddr, PRId, and the
// reserved/TLB-adjacent slots real PSX software never touches) are plain
// storage, exactly mirroring mtc0/mfc0's "write whatever, read it back"
// contract on this core.
type COP0 struct {
	regs [16]uint32
}

// Read returns the raw value of control register n.
func (c *COP0) Read(n int) uint32 {
	return c.regs[n&0xf]
}

// Write stores value into control register n verbatim (mtc0).
func (c *COP0) Write(n int, value uint32) {
	c.regs[n&0xf] = value
}

// Status returns the Status register.
func (c *COP0) Status() uint32 {
	return c.regs[RegStatus]
}

// SetStatus overwrites the Status register.
func (c *COP0) SetStatus(value uint32) {
	c.regs[RegStatus] = value
}

// Cause returns the Cause register.
func (c *COP0) Cause() uint32 {
	return c.regs[RegCause]
}

// EPC returns the exception program counter.
func (c *COP0) EPC() uint32 {
	return c.regs[RegEPC]
}

// SetEPC sets the exception program counter.
func (c *COP0) SetEPC(pc uint32) {
	c.regs[RegEPC] = pc
}

// InterruptEnabled reports whether the current interrupt-enable bit (IEc)
// is set.
func (c *COP0) InterruptEnabled() bool {
	return c.regs[RegStatus]&StatusIEc != 0
}

// CacheIsolated reports whether Status.IsC is set, meaning bus writes must
// be dropped rather than reaching memory/devices.
func (c *COP0) CacheIsolated() bool {
	return c.regs[RegStatus]&StatusIsC != 0
}

// BootExceptionVectors reports whether Status.BEV selects the ROM exception
// vector (0xBFC00180) over the RAM one (0x80000080).
func (c *COP0) BootExceptionVectors() bool {
	return c.regs[RegStatus]&StatusBEV != 0
}

// SetCauseExcCode stores excCode into Cause bits 2..6, preserving the
// interrupt-pending bits (IP, bits 8..9) and the rest of the register.
func (c *COP0) SetCauseExcCode(excCode uint32) {
	c.regs[RegCause] = (c.regs[RegCause] &^ (0x1f << 2)) | ((excCode & 0x1f) << 2)
}

// EnterException pushes the 2-bit interrupt-enable/mode stack left by one
// slot (KUp/IEp become KUo/IEo, KUc/IEc become KUp/IEp, KUc/IEc cleared to
// kernel mode with interrupts disabled) and records EPC/ExcCode, per
// spec.md §4.7.
func (c *COP0) EnterException(epc uint32, excCode uint32, branchDelay bool) {
	c.SetEPC(epc)
	c.SetCauseExcCode(excCode)
	if branchDelay {
		c.regs[RegCause] |= 1 << 31
	} else {
		c.regs[RegCause] &^= 1 << 31
	}
	status := c.regs[RegStatus]
	low6 := status & 0x3f
	c.regs[RegStatus] = (status &^ 0x3f) | ((low6 << 2) & 0x3f)
}

// ExceptionVector returns the physical address execution resumes at when an
// exception is delivered.
func (c *COP0) ExceptionVector() uint32 {
	if c.BootExceptionVectors() {
		return 0xBFC00180
	}
	return 0x80000080
}

// ReturnFromException pops the interrupt-enable/mode stack (rfe): the
// previous slot is shifted back down, the old slot is left unchanged.
func (c *COP0) ReturnFromException() {
	status := c.regs[RegStatus]
	c.regs[RegStatus] = (status &^ 0xf) | ((status & 0x3c) >> 2)
}

// BranchDelay reports whether the most recently entered exception occurred
// in a branch-delay slot (Cause bit 31).
func (c *COP0) BranchDelay() bool {
	return c.regs[RegCause]&(1<<31) != 0
}
