package dma

import (
	"testing"

	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/irq"
	"github.com/rcornwell/gopsx/emu/memory"
)

func TestChannelRegisterRoundTrip(t *testing.T) {
	var ic irq.Controller
	c := New(memory.New(memory.DefaultSize), gpu.New(), &ic)
	c.WriteWord(RegBase, 0x1000) // channel 0 base
	if got := c.ReadWord(RegBase); got != 0x1000 {
		t.Errorf("base = %#x, want 0x1000", got)
	}
}

func TestDPCRRoundTrip(t *testing.T) {
	var ic irq.Controller
	c := New(memory.New(memory.DefaultSize), gpu.New(), &ic)
	c.WriteWord(DPCR, 0x07654321)
	if got := c.ReadWord(DPCR); got != 0x07654321 {
		t.Errorf("DPCR = %#x, want 0x07654321", got)
	}
}

func TestTriggerRunsChannelAndPostsIRQ(t *testing.T) {
	var ic irq.Controller
	ram := memory.New(memory.DefaultSize)
	c := New(ram, gpu.New(), &ic)

	// Enable master + channel 2 (GPU) IRQ.
	c.WriteWord(DICR, (1<<23)|(1<<(16+2)))

	base := RegBase + uint32(2)*0x10
	c.WriteWord(base+0x0, 0x0) // base address
	c.WriteWord(base+0x4, 0x1) // 1 word block
	c.WriteWord(base+0x8, 0x01000001)

	if c.ch[2].control&0x01000000 != 0 {
		t.Error("start bit should clear after service")
	}
	if ic.Pending()&(1<<irq.DMA) == 0 {
		t.Error("expected DMA interrupt posted")
	}
}
