package irq

import "testing"

func TestWriteStatAckMask(t *testing.T) {
	var c Controller
	c.Post(VBlank) // bit 0
	c.Post(GPU)    // bit 1
	if c.Pending() != 0x3 {
		t.Fatalf("pending = %#x, want 0x3", c.Pending())
	}

	// Writing 0x1 should clear bit 1 and preserve bit 0 (AND semantics).
	c.WriteStat(0x1)
	if c.Pending() != 0x1 {
		t.Fatalf("pending after ack = %#x, want 0x1", c.Pending())
	}

	c.WriteStat(0x0)
	if c.Pending() != 0 {
		t.Fatalf("pending after full ack = %#x, want 0", c.Pending())
	}
}

func TestWriteStatNeverSetsBit(t *testing.T) {
	var c Controller
	c.WriteStat(0xffffffff)
	if c.Pending() != 0 {
		t.Fatalf("writing I_STAT must never set a bit, got %#x", c.Pending())
	}
}

func TestEnabled(t *testing.T) {
	var c Controller
	c.Post(VBlank)
	if c.Enabled() {
		t.Fatal("no mask bit set, should not be enabled")
	}
	c.WriteMask(0x1)
	if !c.Enabled() {
		t.Fatal("mask bit 0 set and pending, should be enabled")
	}
}
