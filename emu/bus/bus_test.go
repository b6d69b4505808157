package bus

import (
	"errors"
	"testing"

	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/memory"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	ram := memory.New(memory.DefaultSize)
	img := make([]byte, bios.Size)
	rom, err := bios.New(img)
	if err != nil {
		t.Fatal(err)
	}
	return New(ram, rom, gpu.New())
}

func TestKUSEGKSEG0KSEG1Mirror(t *testing.T) {
	b := newTestBus(t)
	if err := b.WriteWord(0x1000, 0xcafef00d); err != nil {
		t.Fatal(err)
	}
	for _, base := range []uint32{0x00001000, 0x80001000, 0xa0001000} {
		got, err := b.ReadWord(base)
		if err != nil {
			t.Fatalf("read at %#x: %v", base, err)
		}
		if got != 0xcafef00d {
			t.Errorf("mirror %#x = %#x, want 0xcafef00d", base, got)
		}
	}
}

func TestBIOSWriteIsFatal(t *testing.T) {
	b := newTestBus(t)
	err := b.WriteWord(0xbfc00000, 1)
	var ff *FatalFault
	if !errors.As(err, &ff) {
		t.Fatalf("expected FatalFault, got %v", err)
	}
}

func TestUnmappedAddressIsFatal(t *testing.T) {
	b := newTestBus(t)
	_, err := b.ReadWord(0x60000000)
	var ff *FatalFault
	if !errors.As(err, &ff) {
		t.Fatalf("expected FatalFault, got %v", err)
	}
}

func TestIgnoredRegionReadsZero(t *testing.T) {
	b := newTestBus(t)
	got, err := b.ReadWord(0x1f802041)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("ignored region read = %#x, want 0", got)
	}
}

func TestIgnoredRegionWriteDropped(t *testing.T) {
	b := newTestBus(t)
	if err := b.WriteWord(0x1f802041, 0x12345678); err != nil {
		t.Fatal(err)
	}
}

func TestGPUPorts(t *testing.T) {
	b := newTestBus(t)
	if err := b.WriteWord(gpu.PortGP1, 0x00<<24); err != nil {
		t.Fatal(err)
	}
	got, err := b.ReadWord(gpu.PortGP1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x1c000000 {
		t.Errorf("GPUSTAT via bus = %#x, want 0x1c000000", got)
	}
}
