/*
   Core cycle driver: constructs the machine, owns the per-step ordering of
   CPU/peripheral ticks, and exposes the debugger-facing surface.

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

// Package core wires the CPU and its peripherals into one machine and
// drives them in the fixed per-cycle order spec.md §4.8 requires, the same
// shape as the teacher's emu/core.core.Start loop generalized from a
// channel-fed I/O scheduler to a PSX composite-cycle driver.
package core

import (
	"fmt"

	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/bus"
	"github.com/rcornwell/gopsx/emu/cdrom"
	"github.com/rcornwell/gopsx/emu/controller"
	"github.com/rcornwell/gopsx/emu/cop0"
	"github.com/rcornwell/gopsx/emu/cpu"
	disassemble "github.com/rcornwell/gopsx/emu/disassemble"
	"github.com/rcornwell/gopsx/emu/dma"
	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/irq"
	"github.com/rcornwell/gopsx/emu/memory"
	"github.com/rcornwell/gopsx/emu/spu"
	"github.com/rcornwell/gopsx/emu/timer"
	"github.com/rcornwell/gopsx/util/tracer"
)

// shellEntry is the real BIOS's fast-load hook address: the point at which
// the stock BIOS has finished its own init and is about to jump into the
// game shell. A side-loaded executable's entry is spliced in here instead,
// mirroring how real catch-the-jump EXE loaders work (original_source's
// load_executable left this step commented out; spec.md §6 asks for it).
const shellEntry = 0x80030000

// pendingExe holds an executable waiting for the BIOS-to-game handoff.
type pendingExe struct {
	entrypoint uint32
	sp         uint32
}

// FatalFault is returned by StepCycle/RunFrame when the CPU hits an
// invariant violation: an unmapped address, a BIOS write, PC misalignment
// reaching the interpreter, or an exception raised in a branch-delay slot
// (spec.md §7).
type FatalFault struct {
	Address uint32
	Reason  string
}

func (f *FatalFault) Error() string {
	return fmt.Sprintf("core: fatal fault at %#08x: %s", f.Address, f.Reason)
}

// Machine bundles the CPU with every peripheral and the debug-session state
// (breakpoints, watchpoints, halt latch) layered on top.
type Machine struct {
	cpu  *cpu.CPU
	bus  *bus.Bus
	ram  *memory.RAM
	rom  *bios.ROM
	cop0 *cop0.COP0
	irqc *irq.Controller
	gpu  *gpu.GPU
	dma  *dma.Controller
	tim  *timer.Bank
	cd   *cdrom.Drive
	pad  *controller.Pad
	spu  *spu.SPU

	cycleCount int

	pendingExe *pendingExe

	breakpoints map[uint32]struct{}
	watchpoints map[uint32]struct{}
	haltReq     bool
}

// Option configures a Machine at construction time.
type Option func(*options)

type options struct {
	ramSize int
	tracer  tracer.Tracer
}

// WithRAMSize overrides the default 2 MiB RAM size (real hardware is always
// 2 MiB; this exists for devkit-style 8 MiB test images).
func WithRAMSize(bytes int) Option {
	return func(o *options) { o.ramSize = bytes }
}

// WithTracer installs a per-step instruction tracer (default: none).
func WithTracer(t tracer.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// NewMachine constructs a fully-wired machine over the given BIOS image
// (exactly bios.Size bytes) and resets it to the power-on state.
func NewMachine(biosImage []byte, opts ...Option) (*Machine, error) {
	cfg := options{ramSize: memory.DefaultSize, tracer: tracer.Noop()}
	for _, o := range opts {
		o(&cfg)
	}

	rom, err := bios.New(biosImage)
	if err != nil {
		return nil, err
	}

	ram := memory.New(cfg.ramSize)
	g := gpu.New()
	b := bus.New(ram, rom, g)

	var c0 cop0.COP0
	var ic irq.Controller

	d := dma.New(ram, g, &ic)
	tm := timer.New(&ic)
	cd := cdrom.New(&ic)
	pad := controller.New()
	s := spu.New()

	c := cpu.New(cpu.Peripherals{
		Bus: b, COP0: &c0, IRQ: &ic, DMA: d, Timers: tm, CDROM: cd, Pad: pad, SPU: s,
	})
	c.SetTracer(cfg.tracer)

	m := &Machine{
		cpu: c, bus: b, ram: ram, rom: rom, cop0: &c0, irqc: &ic,
		gpu: g, dma: d, tim: tm, cd: cd, pad: pad, spu: s,
		breakpoints: make(map[uint32]struct{}),
		watchpoints: make(map[uint32]struct{}),
	}
	return m, nil
}

// Reset resets the CPU and GPU to their power-on state (spec.md §6).
func (m *Machine) Reset() {
	m.cpu.Reset()
	*m.gpu = *gpu.New()
	m.cycleCount = 0
	m.haltReq = false
}

// StepCycle advances the machine by one composite cycle: spec.md §4.8's
// fixed ordering of two CPU sub-steps (each preceded by controller/CD-ROM
// ticks and followed by DMA/timer/GPU ticks) plus two trailing GPU ticks to
// coarsely approximate the real ~7:11 CPU:GPU clock ratio. Returns a
// non-nil *FatalFault if the CPU hits an unrecoverable invariant violation,
// and nil otherwise. A breakpoint at the current PC halts the machine before
// any CPU work occurs this cycle; a watchpoint hit ends the cycle right after
// the CPU sub-step whose access matched (and that sub-step's device ticks).
func (m *Machine) StepCycle() error {
	if m.haltRequested(m.cpu.PC()) {
		m.haltReq = true
		return nil
	}

	for i := 0; i < 2; i++ {
		m.pad.Tick()
		m.cd.Tick()

		m.maybeLoadExecutable()

		if err := m.cpu.Step(); err != nil {
			return &FatalFault{Address: m.cpu.PC(), Reason: err.Error()}
		}

		if m.watchHit() {
			m.haltReq = true
		}

		m.dma.Tick()

		m.cycleCount++
		m.tim.UpdateSysClock()
		if m.cycleCount%8 == 0 {
			m.tim.UpdateSysDiv8()
		}

		m.gpu.Tick()
		m.tim.UpdateDotClock()
		if m.gpu.ConsumeHBlank() {
			m.tim.UpdateHBlank()
		}
		if m.gpu.ConsumeVBlank() {
			m.irqc.Post(irq.VBlank)
		}

		if m.haltReq {
			return nil
		}
	}

	m.gpu.Tick()
	m.gpu.Tick()

	return nil
}

// haltRequested reports (without latching) whether a halt is already latched
// or a software breakpoint sits at addr.
func (m *Machine) haltRequested(addr uint32) bool {
	if m.haltReq {
		return true
	}
	_, hit := m.breakpoints[addr]
	return hit
}

// watchHit reports whether the CPU's most recent bus access (instruction
// fetch or data load/store) lands on a registered watchpoint.
func (m *Machine) watchHit() bool {
	if len(m.watchpoints) == 0 {
		return false
	}
	_, hit := m.watchpoints[m.cpu.LastAddr()]
	return hit
}

// maybeLoadExecutable consumes a pending LoadExecutable at the BIOS-to-game
// handoff point: once the CPU reaches shellEntry, splice in the exe's
// entrypoint and stack pointer and clear the pending flag.
func (m *Machine) maybeLoadExecutable() {
	if m.pendingExe == nil || (m.cpu.PC()&0x1fffffff) != (shellEntry&0x1fffffff) {
		return
	}
	m.cpu.SetReg(29, m.pendingExe.sp) // sp
	m.cpu.SetReg(30, m.pendingExe.sp) // fp
	m.cpu.JumpTo(m.pendingExe.entrypoint)
	m.pendingExe = nil
}

// RunFrame advances the machine until the GPU reports a completed frame
// (EndOfFrame also clears the flag), then ticks the GPU once more
// (spec.md §4.8).
func (m *Machine) RunFrame() error {
	for !m.gpu.EndOfFrame() {
		if err := m.StepCycle(); err != nil {
			return err
		}
		if m.haltReq {
			return nil
		}
	}
	m.gpu.Tick()
	return nil
}

// LoadExecutable copies bytes into RAM at the physical address startAddr
// (matching original_source's immediate byte copy) and arms the
// BIOS-to-game handoff so entrypoint/sp are spliced into the CPU once
// execution reaches the BIOS shell.
func (m *Machine) LoadExecutable(startAddr, entrypoint, sp uint32, data []byte) {
	m.ram.LoadBytes(startAddr, data)
	m.pendingExe = &pendingExe{entrypoint: entrypoint, sp: sp}
}

// LoadDisc inserts a disc image into the CD-ROM drive.
func (m *Machine) LoadDisc(path string) {
	m.cd.LoadDisc(path)
}

// RemoveDisc ejects the current disc, if any.
func (m *Machine) RemoveDisc() {
	m.cd.RemoveDisc()
}

// LoadedDisc returns the inserted disc, or nil.
func (m *Machine) LoadedDisc() *cdrom.Disc {
	return m.cd.LoadedDisc()
}

// VRAM exposes a read-only view of the GPU's frame buffer.
func (m *Machine) VRAM() []uint16 {
	return m.gpu.VRAM()
}

// BIOS exposes a read-only view of the BIOS image.
func (m *Machine) BIOS() []byte {
	return m.rom.Raw()
}

// ManuallyFireInterrupt injects an interrupt directly, bypassing whatever
// device would normally raise it.
func (m *Machine) ManuallyFireInterrupt(source irq.Source) {
	m.irqc.ManuallyFire(source)
}

// ReadGenReg is a debug accessor for general register n.
func (m *Machine) ReadGenReg(n uint32) uint32 {
	return m.cpu.GetReg(n)
}

// SetGenReg is a debug accessor for general register n.
func (m *Machine) SetGenReg(n uint32, value uint32) {
	m.cpu.SetReg(n, value)
}

// AddBreakpoint arms a software breakpoint at addr.
func (m *Machine) AddBreakpoint(addr uint32) {
	m.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint disarms a software breakpoint at addr.
func (m *Machine) RemoveBreakpoint(addr uint32) {
	delete(m.breakpoints, addr)
}

// AddWatchpoint arms a data watchpoint at physical address addr.
func (m *Machine) AddWatchpoint(addr uint32) {
	m.watchpoints[addr&0x1fffffff] = struct{}{}
}

// RemoveWatchpoint disarms a data watchpoint at physical address addr.
func (m *Machine) RemoveWatchpoint(addr uint32) {
	delete(m.watchpoints, addr&0x1fffffff)
}

// HaltRequested reports whether a breakpoint or watchpoint has latched a
// halt request.
func (m *Machine) HaltRequested() bool {
	return m.haltReq
}

// ClearHalt releases a latched halt request so stepping can resume.
func (m *Machine) ClearHalt() {
	m.haltReq = false
}

// FrameReady reports, without consuming it, whether the GPU has a completed
// frame waiting.
func (m *Machine) FrameReady() bool {
	return m.gpu.FrameReady()
}

// DisplayResolution proxies the GPU's current display mode.
func (m *Machine) DisplayResolution() (width, height int) {
	return m.gpu.DisplayResolution()
}

// UpdateControllerState proxies a live button-state update to the pad.
func (m *Machine) UpdateControllerState(buttons uint16) {
	m.pad.UpdateState(buttons)
}

// Disassemble formats the instruction at addr for debugger display.
func (m *Machine) Disassemble(addr uint32) string {
	word, err := m.bus.ReadWord(addr)
	if err != nil {
		return fmt.Sprintf("%08x  <unmapped>", addr)
	}
	return disassemble.Disassemble(addr, word)
}

// ReadWord reads one word from the bus for debugger memory display.
func (m *Machine) ReadWord(addr uint32) (uint32, error) {
	return m.bus.ReadWord(addr)
}

// PC returns the CPU's current program counter, for debugger display.
func (m *Machine) PC() uint32 {
	return m.cpu.PC()
}

// COP0 exposes the system coprocessor for debugger inspection.
func (m *Machine) COP0() *cop0.COP0 {
	return m.cpu.COP0()
}
