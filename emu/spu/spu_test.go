package spu

import "testing"

func TestRegisterRoundTrip(t *testing.T) {
	s := New()
	s.WriteHalfWord(RegBase+0x10, 0x1234)
	if got := s.ReadHalfWord(RegBase + 0x10); got != 0x1234 {
		t.Errorf("got %#x, want 0x1234", got)
	}
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	s := New()
	s.WriteHalfWord(0, 0xffff)
	if got := s.ReadHalfWord(0); got != 0 {
		t.Errorf("out-of-range write leaked, got %#x", got)
	}
}
