/*
   R3000A CPU state: general register file, HI/LO, program counter pair,
   COP0, and the peripheral intercepts the real CPU core wires directly
   (IRQ, DMA, timers, CD-ROM, controller, SPU) ahead of the general bus.

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

// Package cpu implements the R3000A instruction decoder and interpreter:
// the general register file, HI/LO, branch- and load-delay slots, and the
// full opcode table, dispatched through a table of closures the way the
// teacher's emu/cpu.createTable builds its 370 opcode table.
package cpu

import (
	"github.com/rcornwell/gopsx/emu/bus"
	"github.com/rcornwell/gopsx/emu/cdrom"
	"github.com/rcornwell/gopsx/emu/controller"
	"github.com/rcornwell/gopsx/emu/cop0"
	"github.com/rcornwell/gopsx/emu/dma"
	"github.com/rcornwell/gopsx/emu/irq"
	"github.com/rcornwell/gopsx/emu/spu"
	"github.com/rcornwell/gopsx/emu/timer"
	"github.com/rcornwell/gopsx/util/tracer"
)

// ResetPC is the address execution begins at on power-up: the BIOS entry
// point at KSEG1 (uncached).
const ResetPC = 0xBFC00000

// decoded holds every field extraction an opcode handler might need,
// mirroring the teacher's stepInfo: decode once in fetch, read fields in
// the handler.
type decoded struct {
	raw    uint32
	opcode uint32
	rs     uint32
	rt     uint32
	rd     uint32
	shamt  uint32
	funct  uint32
	imm16  uint16
	simm   int32
	target uint32
}

type pendingLoad struct {
	reg   uint32
	value uint32
	valid bool
}

// CPU is the R3000A register file and interpreter loop.
type CPU struct {
	regs [32]uint32
	hi   uint32
	lo   uint32

	pc     uint32
	nextPC uint32

	curPC           uint32
	curInDelaySlot  bool
	pendingDelaySlot bool

	loadDelay     pendingLoad
	nextLoadDelay pendingLoad

	cop0 *cop0.COP0
	bus  *bus.Bus
	irqc *irq.Controller

	dma  *dma.Controller
	tim  *timer.Bank
	cd   *cdrom.Drive
	pad  *controller.Pad
	spu  *spu.SPU

	tracer tracer.Tracer

	table [64]func(*CPU, decoded)
	fault error

	lastAddr uint32
}

// Peripherals bundles the devices the CPU intercepts bus addresses for,
// ahead of the general bus decoder (mirrors original_source's
// read_bus_word/write_bus_word intercepting IRQ/timer registers before
// falling through to main_bus).
type Peripherals struct {
	Bus     *bus.Bus
	COP0    *cop0.COP0
	IRQ     *irq.Controller
	DMA     *dma.Controller
	Timers  *timer.Bank
	CDROM   *cdrom.Drive
	Pad     *controller.Pad
	SPU     *spu.SPU
}

// New constructs a CPU wired to the given peripherals, reset to the BIOS
// entry point.
func New(p Peripherals) *CPU {
	c := &CPU{
		cop0: p.COP0,
		bus:  p.Bus,
		irqc: p.IRQ,
		dma:  p.DMA,
		tim:  p.Timers,
		cd:   p.CDROM,
		pad:  p.Pad,
		spu:  p.SPU,
	}
	c.table = buildTable()
	c.Reset()
	return c
}

// SetTracer installs an optional per-step instruction tracer.
func (c *CPU) SetTracer(t tracer.Tracer) {
	c.tracer = t
}

// Reset restores the CPU to its post-power-on state: PC at the BIOS entry
// point, Status.BEV set (boot vectors), everything else zeroed.
func (c *CPU) Reset() {
	c.regs = [32]uint32{}
	c.hi, c.lo = 0, 0
	c.pc = ResetPC
	c.nextPC = ResetPC + 4
	c.curInDelaySlot = false
	c.pendingDelaySlot = false
	c.loadDelay = pendingLoad{}
	c.nextLoadDelay = pendingLoad{}
	c.cop0.SetStatus(cop0.StatusBEV)
}

// PC returns the address of the next instruction to be fetched.
func (c *CPU) PC() uint32 {
	return c.pc
}

// GetReg reads general register n (0 always reads zero).
func (c *CPU) GetReg(n uint32) uint32 {
	return c.regs[n&0x1f]
}

// SetReg writes general register n (writes to r0 are discarded).
func (c *CPU) SetReg(n uint32, value uint32) {
	if n == 0 {
		return
	}
	c.regs[n&0x1f] = value
}

// HI returns the HI register (division remainder / multiply high word).
func (c *CPU) HI() uint32 { return c.hi }

// LO returns the LO register (division quotient / multiply low word).
func (c *CPU) LO() uint32 { return c.lo }

// COP0 exposes the system coprocessor for debugger inspection.
func (c *CPU) COP0() *cop0.COP0 { return c.cop0 }

// LastAddr returns the physical address (masked to 0x1FFFFFFF) of the most
// recent bus access (instruction fetch or data load/store), for watchpoint
// comparison.
func (c *CPU) LastAddr() uint32 { return c.lastAddr & 0x1fffffff }

// JumpTo redirects execution to target with no pending delay slot. Used by
// the cycle driver's BIOS-to-game handoff (an external splice, not a guest
// branch instruction), never by the interpreter itself.
func (c *CPU) JumpTo(target uint32) {
	c.pc = target
	c.nextPC = target + 4
	c.pendingDelaySlot = false
}
