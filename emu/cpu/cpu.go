/*
   CPU: instruction fetch/decode/dispatch loop, peripheral-intercepted bus
   access, and exception entry.

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

import (
	"fmt"

	"github.com/rcornwell/gopsx/emu/cdrom"
	"github.com/rcornwell/gopsx/emu/controller"
	"github.com/rcornwell/gopsx/emu/cop0"
	"github.com/rcornwell/gopsx/emu/dma"
	"github.com/rcornwell/gopsx/emu/spu"
	"github.com/rcornwell/gopsx/emu/timer"
)

// Step executes exactly one instruction (or, if an interrupt is delivered
// this step, the exception entry followed by the handler's first
// instruction — original_source's fire_exception falls straight through
// into the same step's fetch/execute at the new PC). Returns a non-nil
// error only for a FatalFault: an access to an address nothing is mapped
// to, a BIOS write, an unaligned PC, or an exception raised in a
// branch-delay slot, per spec.md §7.
func (c *CPU) Step() error {
	c.fault = nil

	// Commit the load queued two steps ago, then roll the load queued by
	// the previous step (if any) into place for the next one. Two-deep queue:
	// a load's result is never visible to the immediately following
	// instruction, matching the real pipeline's load-delay slot.
	if c.loadDelay.valid {
		c.SetReg(c.loadDelay.reg, c.loadDelay.value)
	}
	c.loadDelay = c.nextLoadDelay
	c.nextLoadDelay = pendingLoad{}

	inDelaySlot := c.pendingDelaySlot
	c.pendingDelaySlot = false

	if c.cop0.InterruptEnabled() && c.irqc.Enabled() {
		c.raiseException(c.pc, cop0.ExcInt, inDelaySlot)
		if c.fault != nil {
			return c.fault
		}
		inDelaySlot = false
	}

	c.curPC = c.pc
	if c.curPC%4 != 0 {
		c.fault = fmt.Errorf("unaligned PC %#08x reaching the interpreter", c.curPC)
		return c.fault
	}

	word, err := c.readWord(c.curPC)
	if err != nil {
		c.fault = err
		return err
	}

	c.pc = c.nextPC
	c.nextPC += 4
	c.curInDelaySlot = inDelaySlot

	d := decode(word)
	c.table[d.opcode](c, d)

	if c.tracer != nil {
		c.tracer.TraceStep(c.curPC, word)
	}

	return c.fault
}

// raiseException enters COP0's exception state and redirects the PC to the
// appropriate vector. epc is the address of the faulting instruction.
// An exception raised while the delay-slot instruction is executing is an
// unimplemented rollback point (original_source panics on it outright) and
// is fatal here, per spec.md §4.7 and §7, rather than delivered with
// Cause.BD set.
func (c *CPU) raiseException(epc uint32, excCode uint32, branchDelay bool) {
	if branchDelay {
		c.fault = fmt.Errorf("exception code %d delivered at %#08x while a branch-delay slot is armed: rollback not implemented", excCode, epc)
		return
	}
	c.cop0.EnterException(epc, excCode, false)
	c.pc = c.cop0.ExceptionVector()
	c.nextPC = c.pc + 4
	c.pendingDelaySlot = false
}

// branch redirects the delay slot's successor to target and marks the
// instruction about to be fetched (the one already loaded into c.pc) as a
// branch-delay slot.
func (c *CPU) branch(target uint32) {
	c.nextPC = target
	c.pendingDelaySlot = true
}

// queueLoad schedules reg to receive value at the start of the step after
// next, implementing the load-delay slot (spec.md §9: "a correct
// implementation should queue"). Loads to r0 are still queued and then
// silently dropped by SetReg, matching hardware's r0-is-always-zero rule.
func (c *CPU) queueLoad(reg uint32, value uint32) {
	c.nextLoadDelay = pendingLoad{reg: reg, value: value, valid: true}
}

// cancelLoadDelayFor drops a queued load to reg if a fresher instruction
// targets the same register before the delay resolves (the real hardware's
// "last write wins" rule when two loads to the same register overlap).
func (c *CPU) cancelLoadDelayFor(reg uint32) {
	if c.loadDelay.valid && c.loadDelay.reg == reg {
		c.loadDelay.valid = false
	}
}

func isWithinRange(addr, base, end uint32) bool {
	return addr >= base && addr <= end
}

// readWord intercepts the peripheral register windows the CPU owns
// directly, ahead of the general bus decoder, mirroring original_source's
// read_bus_word.
func (c *CPU) readWord(addr uint32) (uint32, error) {
	c.lastAddr = addr
	phys := addr & 0x1fffffff
	switch {
	case phys == 0x1f801070:
		return c.irqc.Pending(), nil
	case phys == 0x1f801074:
		return c.irqc.Mask(), nil
	case isWithinRange(phys, dma.RegBase, dma.DICR):
		return c.dma.ReadWord(phys), nil
	case isWithinRange(phys, timer.RegBase, timer.RegEnd):
		return c.tim.ReadWord(phys), nil
	case isWithinRange(phys, cdrom.RegBase, cdrom.RegEnd):
		return uint32(c.cd.ReadByte(phys)), nil
	case isWithinRange(phys, controller.RegBase, controller.RegEnd):
		return c.pad.ReadWord(phys), nil
	case isWithinRange(phys, spu.RegBase, spu.RegEnd):
		// SPU is a 16-bit register file; widen for a 32-bit bus access.
		return uint32(c.spu.ReadHalfWord(phys)) | uint32(c.spu.ReadHalfWord(phys+2))<<16, nil
	default:
		return c.bus.ReadWord(addr)
	}
}

// writeWord is the write counterpart of readWord. Cache-isolated writes
// (Status.IsC) are dropped entirely, matching original_source's
// cop0.cache_isolated() guard in write_bus_word/write_bus_byte.
func (c *CPU) writeWord(addr uint32, value uint32) error {
	c.lastAddr = addr
	if c.cop0.CacheIsolated() {
		return nil
	}
	phys := addr & 0x1fffffff
	switch {
	case phys == 0x1f801070:
		c.irqc.WriteStat(value)
		return nil
	case phys == 0x1f801074:
		c.irqc.WriteMask(value)
		return nil
	case isWithinRange(phys, dma.RegBase, dma.DICR):
		c.dma.WriteWord(phys, value)
		return nil
	case isWithinRange(phys, timer.RegBase, timer.RegEnd):
		c.tim.WriteWord(phys, value)
		return nil
	case isWithinRange(phys, cdrom.RegBase, cdrom.RegEnd):
		c.cd.WriteByte(phys, uint8(value))
		return nil
	case isWithinRange(phys, controller.RegBase, controller.RegEnd):
		c.pad.WriteWord(phys, value)
		return nil
	case isWithinRange(phys, spu.RegBase, spu.RegEnd):
		c.spu.WriteHalfWord(phys, uint16(value))
		c.spu.WriteHalfWord(phys+2, uint16(value>>16))
		return nil
	default:
		return c.bus.WriteWord(addr, value)
	}
}

func (c *CPU) readHalfWord(addr uint32) (uint16, error) {
	c.lastAddr = addr
	phys := addr & 0x1fffffff
	switch {
	case isWithinRange(phys, spu.RegBase, spu.RegEnd):
		return c.spu.ReadHalfWord(phys), nil
	case isWithinRange(phys, timer.RegBase, timer.RegEnd):
		return uint16(c.tim.ReadWord(phys)), nil
	case isWithinRange(phys, controller.RegBase, controller.RegEnd):
		return uint16(c.pad.ReadWord(phys)), nil
	default:
		return c.bus.ReadHalfWord(addr)
	}
}

func (c *CPU) writeHalfWord(addr uint32, value uint16) error {
	c.lastAddr = addr
	if c.cop0.CacheIsolated() {
		return nil
	}
	phys := addr & 0x1fffffff
	switch {
	case isWithinRange(phys, spu.RegBase, spu.RegEnd):
		c.spu.WriteHalfWord(phys, value)
		return nil
	case isWithinRange(phys, timer.RegBase, timer.RegEnd):
		c.tim.WriteWord(phys, uint32(value))
		return nil
	case isWithinRange(phys, controller.RegBase, controller.RegEnd):
		c.pad.WriteWord(phys, uint32(value))
		return nil
	default:
		return c.bus.WriteHalfWord(addr, value)
	}
}

func (c *CPU) readByte(addr uint32) (uint8, error) {
	c.lastAddr = addr
	phys := addr & 0x1fffffff
	if isWithinRange(phys, cdrom.RegBase, cdrom.RegEnd) {
		return c.cd.ReadByte(phys), nil
	}
	return c.bus.ReadByte(addr)
}

func (c *CPU) writeByte(addr uint32, value uint8) error {
	c.lastAddr = addr
	if c.cop0.CacheIsolated() {
		return nil
	}
	phys := addr & 0x1fffffff
	if isWithinRange(phys, cdrom.RegBase, cdrom.RegEnd) {
		c.cd.WriteByte(phys, value)
		return nil
	}
	return c.bus.WriteByte(addr, value)
}
