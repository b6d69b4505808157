package cpu

import (
	"testing"

	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/bus"
	"github.com/rcornwell/gopsx/emu/cdrom"
	"github.com/rcornwell/gopsx/emu/controller"
	"github.com/rcornwell/gopsx/emu/cop0"
	"github.com/rcornwell/gopsx/emu/dma"
	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/irq"
	"github.com/rcornwell/gopsx/emu/memory"
	"github.com/rcornwell/gopsx/emu/spu"
	"github.com/rcornwell/gopsx/emu/timer"
)

// harness bundles a CPU with its backing devices for white-box testing;
// being in-package, tests can poke pc/nextPC directly to set up scenarios.
type harness struct {
	cpu *CPU
	ram *memory.RAM
	c0  *cop0.COP0
	ic  *irq.Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ram := memory.New(memory.DefaultSize)
	rom, err := bios.New(make([]byte, bios.Size))
	if err != nil {
		t.Fatal(err)
	}
	g := gpu.New()
	b := bus.New(ram, rom, g)
	var c0 cop0.COP0
	var ic irq.Controller
	d := dma.New(ram, g, &ic)
	tm := timer.New(&ic)
	cd := cdrom.New(&ic)
	pad := controller.New()
	s := spu.New()

	c := New(Peripherals{
		Bus: b, COP0: &c0, IRQ: &ic, DMA: d, Timers: tm, CDROM: cd, Pad: pad, SPU: s,
	})
	return &harness{cpu: c, ram: ram, c0: &c0, ic: &ic}
}

// at sets PC (and nextPC) to addr, for test setups not exercising reset.
func (h *harness) at(addr uint32) {
	h.cpu.pc = addr
	h.cpu.nextPC = addr + 4
}

func (h *harness) putWord(addr, word uint32) {
	h.ram.WriteWord(addr, word)
}

// encodeR builds an R-format instruction (SPECIAL opcode).
func encodeR(funct, rs, rt, rd, shamt uint32) uint32 {
	return (0 << 26) | (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct
}

// encodeI builds an I-format instruction.
func encodeI(opcode, rs, rt uint32, imm uint16) uint32 {
	return (opcode << 26) | (rs << 21) | (rt << 16) | uint32(imm)
}

func encodeJ(opcode, target uint32) uint32 {
	return (opcode << 26) | (target & 0x03ffffff)
}

func TestResetState(t *testing.T) {
	h := newHarness(t)
	if h.cpu.PC() != ResetPC {
		t.Errorf("PC = %#x, want %#x", h.cpu.PC(), ResetPC)
	}
	if !h.c0.BootExceptionVectors() {
		t.Error("Status.BEV should be set after reset")
	}
	for i := uint32(1); i < 32; i++ {
		if h.cpu.GetReg(i) != 0 {
			t.Fatalf("register %d not zero after reset", i)
		}
	}
}

func TestRegisterZeroHardwired(t *testing.T) {
	h := newHarness(t)
	h.cpu.SetReg(0, 0xffffffff)
	if h.cpu.GetReg(0) != 0 {
		t.Error("r0 must read zero regardless of writes")
	}
}

func TestADDIUAndDestination(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.putWord(0x1000, encodeI(0x09, 0, 8, 5)) // ADDIU r8, r0, 5
	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if h.cpu.GetReg(8) != 5 {
		t.Errorf("r8 = %d, want 5", h.cpu.GetReg(8))
	}
}

func TestLoadDelaySlot(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.putWord(0x2000, 0xdeadbeef)
	h.cpu.SetReg(9, 0x2000)
	h.putWord(0x1000, encodeI(0x23, 9, 8, 0))  // LW r8, 0(r9)
	h.putWord(0x1004, encodeI(0x09, 0, 10, 7)) // ADDIU r10, r0, 7 (in the delay slot)
	h.putWord(0x1008, encodeI(0x09, 0, 11, 1)) // ADDIU r11, r0, 1

	if err := h.cpu.Step(); err != nil { // executes LW
		t.Fatal(err)
	}
	if h.cpu.GetReg(8) != 0 {
		t.Fatal("r8 must not be visible to the instruction right after the load")
	}
	if err := h.cpu.Step(); err != nil { // executes ADDIU r10 (the delay-slot instruction)
		t.Fatal(err)
	}
	if h.cpu.GetReg(8) != 0 {
		t.Fatal("r8 must still not be visible to the delay-slot instruction itself")
	}
	if err := h.cpu.Step(); err != nil { // executes ADDIU r11; the load commits before this runs
		t.Fatal(err)
	}
	if h.cpu.GetReg(8) != 0xdeadbeef {
		t.Fatalf("r8 = %#x, want 0xdeadbeef once two instructions have passed", h.cpu.GetReg(8))
	}
}

func TestBranchDelaySlotExecutes(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	// BEQ r0, r0, 2 (branch to 0x1000 + 4 + 2*4 = 0x100c)
	h.putWord(0x1000, encodeI(0x04, 0, 0, 2))
	h.putWord(0x1004, encodeI(0x09, 0, 4, 0xaa)) // ADDIU r4, r0, 0xaa (delay slot, must still execute)
	h.putWord(0x100c, encodeI(0x09, 0, 5, 0xbb)) // ADDIU r5, r0, 0xbb (branch target)
	h.putWord(0x1008, encodeI(0x09, 0, 6, 0xff)) // must be skipped

	if err := h.cpu.Step(); err != nil { // BEQ
		t.Fatal(err)
	}
	if err := h.cpu.Step(); err != nil { // delay slot
		t.Fatal(err)
	}
	if h.cpu.GetReg(4) != 0xaa {
		t.Fatalf("delay slot instruction should have executed, r4 = %#x", h.cpu.GetReg(4))
	}
	if err := h.cpu.Step(); err != nil { // branch target
		t.Fatal(err)
	}
	if h.cpu.GetReg(5) != 0xbb {
		t.Fatalf("branch target should have executed, r5 = %#x", h.cpu.GetReg(5))
	}
	if h.cpu.GetReg(6) != 0 {
		t.Fatal("instruction after the delay slot at the fallthrough address must be skipped")
	}
}

func TestJALRLinksRequestedRegister(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.cpu.SetReg(4, 0x2000)
	h.putWord(0x1000, encodeR(0x09, 4, 0, 9, 0)) // JALR r9, r4

	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if h.cpu.GetReg(9) != 0x1008 {
		t.Errorf("r9 = %#x, want 0x1008 (pc+8)", h.cpu.GetReg(9))
	}
	if err := h.cpu.Step(); err != nil { // delay slot
		t.Fatal(err)
	}
	if h.cpu.PC() != 0x2000 {
		t.Errorf("PC = %#x, want 0x2000", h.cpu.PC())
	}
}

func TestJALRWithRDZeroDiscardsLink(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.cpu.SetReg(4, 0x2000)
	h.putWord(0x1000, encodeR(0x09, 4, 0, 0, 0)) // JALR r0, r4 (unlink jump)

	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if h.cpu.GetReg(0) != 0 {
		t.Fatal("r0 must stay zero even though JALR targeted it as the link register")
	}
}

func TestSyscallException(t *testing.T) {
	h := newHarness(t)
	h.c0.SetStatus(cop0.StatusIEc) // interrupts enabled, kernel mode, BEV clear
	h.at(0x1000)
	h.putWord(0x1000, encodeR(0x0c, 0, 0, 0, 0)) // SYSCALL

	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if h.c0.EPC() != 0x1000 {
		t.Errorf("EPC = %#x, want 0x1000", h.c0.EPC())
	}
	if (h.c0.Cause()>>2)&0x1f != cop0.ExcSys {
		t.Errorf("ExcCode = %d, want ExcSys", (h.c0.Cause()>>2)&0x1f)
	}
	if h.cpu.PC() != 0x80000080 {
		t.Errorf("PC after exception = %#x, want 0x80000080", h.cpu.PC())
	}
}

func TestExceptionInBranchDelaySlotIsFatal(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.putWord(0x1000, encodeI(0x04, 0, 0, 1))    // BEQ r0,r0,1 -> target 0x1008
	h.putWord(0x1004, encodeR(0x0c, 0, 0, 0, 0)) // SYSCALL, in delay slot

	if err := h.cpu.Step(); err != nil { // branch
		t.Fatal(err)
	}
	if err := h.cpu.Step(); err == nil {
		t.Fatal("expected a fatal fault for an exception raised in a branch-delay slot")
	}
}

func TestDivideByZeroArchitecturalResult(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.cpu.SetReg(4, 5)
	h.putWord(0x1000, encodeR(0x1a, 4, 0, 0, 0)) // DIV r4, r0
	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if h.cpu.LO() != 0xffffffff {
		t.Errorf("LO = %#x, want 0xffffffff", h.cpu.LO())
	}
	if h.cpu.HI() != 5 {
		t.Errorf("HI = %d, want 5", h.cpu.HI())
	}
}

func TestAddOverflowRaisesOvf(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.cpu.SetReg(4, 0x7fffffff)
	h.cpu.SetReg(5, 1)
	h.putWord(0x1000, encodeR(0x20, 4, 5, 6, 0)) // ADD r6, r4, r5
	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if (h.c0.Cause()>>2)&0x1f != cop0.ExcOvf {
		t.Errorf("expected Ovf exception, ExcCode = %d", (h.c0.Cause()>>2)&0x1f)
	}
	if h.cpu.GetReg(6) != 0 {
		t.Error("destination register must not be written when ADD overflows")
	}
}

func TestInterruptDelivered(t *testing.T) {
	h := newHarness(t)
	h.c0.SetStatus(cop0.StatusIEc)
	h.ic.WriteMask(1 << irq.VBlank)
	h.ic.Post(irq.VBlank)
	h.at(0x1000)
	h.putWord(0x1000, encodeI(0x09, 0, 8, 1)) // ADDIU r8, r0, 1 (never runs: interrupt preempts)

	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if (h.c0.Cause()>>2)&0x1f != cop0.ExcInt {
		t.Errorf("ExcCode = %d, want ExcInt", (h.c0.Cause()>>2)&0x1f)
	}
	if h.c0.EPC() != 0x1000 {
		t.Errorf("EPC = %#x, want 0x1000", h.c0.EPC())
	}
}

func TestCacheIsolatedWriteDropped(t *testing.T) {
	h := newHarness(t)
	h.c0.SetStatus(cop0.StatusIsC)
	h.at(0x1000)
	h.cpu.SetReg(9, 0x2000)
	h.cpu.SetReg(8, 0x12345678)
	h.putWord(0x1000, encodeI(0x2b, 9, 8, 0)) // SW r8, 0(r9)
	if err := h.cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if got := h.ram.ReadWord(0x2000); got != 0 {
		t.Errorf("write under cache isolation reached memory: %#x", got)
	}
}

func TestLoadWordLeftRight(t *testing.T) {
	h := newHarness(t)
	h.at(0x1000)
	h.putWord(0x2000, 0x01020304)
	h.cpu.SetReg(9, 0x2001)
	h.cpu.SetReg(8, 0xaaaaaaaa)
	h.putWord(0x1000, encodeI(0x22, 9, 8, 0)) // LWL r8, 0(r9) addr&3==1
	h.putWord(0x1004, encodeI(0x09, 0, 0, 0)) // delay-slot filler, does not read r8
	h.putWord(0x1008, encodeI(0x09, 0, 0, 0)) // commit point: r8 becomes visible before this runs
	for i := 0; i < 3; i++ {
		if err := h.cpu.Step(); err != nil {
			t.Fatal(err)
		}
	}
	want := uint32(0x0304aaaa)
	if got := h.cpu.GetReg(8); got != want {
		t.Errorf("LWL result = %#x, want %#x", got, want)
	}
}
