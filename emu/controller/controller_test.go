package controller

import "testing"

func TestDefaultButtonsAllReleased(t *testing.T) {
	p := New()
	if p.Buttons() != 0xffff {
		t.Errorf("Buttons() = %#x, want 0xffff", p.Buttons())
	}
}

func TestUpdateState(t *testing.T) {
	p := New()
	p.UpdateState(0xfffe) // select held (bit 0, active low)
	if p.Buttons() != 0xfffe {
		t.Errorf("Buttons() = %#x, want 0xfffe", p.Buttons())
	}
	if got := p.ReadWord(RegBase); got != 0xfffe {
		t.Errorf("ReadWord(JOY_DATA) = %#x, want 0xfffe", got)
	}
}

func TestModeCtrlBaudRoundTrip(t *testing.T) {
	p := New()
	p.WriteWord(RegBase+0x8, 0x000b)
	p.WriteWord(RegBase+0xa, 0x1003)
	p.WriteWord(RegBase+0xe, 0x0088)
	if p.ReadWord(RegBase+0x8) != 0x000b {
		t.Error("mode round-trip failed")
	}
	if p.ReadWord(RegBase+0xa) != 0x1003 {
		t.Error("ctrl round-trip failed")
	}
	if p.ReadWord(RegBase+0xe) != 0x0088 {
		t.Error("baud round-trip failed")
	}
}
