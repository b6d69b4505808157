package debugger

import (
	"fmt"
	"testing"

	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/core"
)

func newTestMachine(t *testing.T) *core.Machine {
	t.Helper()
	m, err := core.NewMachine(make([]byte, bios.Size))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestProcessCommandUnknown(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("frobnicate", m); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestProcessCommandEmpty(t *testing.T) {
	m := newTestMachine(t)
	quit, err := ProcessCommand("", m)
	if err != nil || quit {
		t.Fatalf("empty line should be a no-op, got quit=%v err=%v", quit, err)
	}
}

func TestProcessCommandAbbreviation(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("br 0x1000", m); err != nil {
		t.Fatalf("unexpected error for abbreviated break: %v", err)
	}
}

func TestBreakpointStopsStep(t *testing.T) {
	m := newTestMachine(t)
	pc := m.PC()
	if _, err := ProcessCommand("break 0x1000", m); err != nil {
		t.Fatal(err)
	}
	m.RemoveBreakpoint(0x1000)
	m.AddBreakpoint(pc)
	if _, err := ProcessCommand("step", m); err != nil {
		t.Fatal(err)
	}
	if !m.HaltRequested() {
		t.Fatal("step onto a breakpoint should latch a halt request")
	}
}

func TestDeleteBreakpointClearsIt(t *testing.T) {
	m := newTestMachine(t)
	pc := m.PC()
	m.AddBreakpoint(pc)
	if _, err := ProcessCommand(fmt.Sprintf("delete %#x", pc), m); err != nil {
		t.Fatal(err)
	}
	m.RemoveWatchpoint(0x1000) // no-op, exercising the watch-removal path too
	if _, err := ProcessCommand("step", m); err != nil {
		t.Fatal(err)
	}
	if m.HaltRequested() {
		t.Fatal("step should not halt on a deleted breakpoint")
	}
}

func TestWatchRequiresAddress(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("watch", m); err == nil {
		t.Fatal("expected an error for watch with no address")
	}
}

func TestRegsRunsWithoutError(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("regs", m); err != nil {
		t.Fatal(err)
	}
}

func TestDisasRunsWithoutError(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("disas", m); err != nil {
		t.Fatal(err)
	}
	if _, err := ProcessCommand("disas 0xbfc00000 4", m); err != nil {
		t.Fatal(err)
	}
}

func TestMemRunsWithoutError(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("mem 0xbfc00000 2", m); err != nil {
		t.Fatal(err)
	}
}

func TestMemRequiresAddress(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("mem", m); err == nil {
		t.Fatal("expected an error for mem with no address")
	}
}

func TestQuitReportsQuit(t *testing.T) {
	m := newTestMachine(t)
	quit, err := ProcessCommand("quit", m)
	if err != nil {
		t.Fatal(err)
	}
	if !quit {
		t.Fatal("quit should report quit=true")
	}
}

func TestUnderMinAbbreviationNotFound(t *testing.T) {
	m := newTestMachine(t)
	// "d" is one character, shorter than either delete's or disas's min
	// abbreviation length, so it should match nothing rather than guess.
	if _, err := ProcessCommand("d", m); err == nil {
		t.Fatal("expected a command-not-found error for an under-min abbreviation")
	}
}

func TestCompleteCmd(t *testing.T) {
	matches := CompleteCmd("s")
	if len(matches) != 1 || matches[0] != "step" {
		t.Errorf("CompleteCmd(\"s\") = %v, want [step]", matches)
	}
}
