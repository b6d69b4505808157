package bios

import "testing"

func makeImage() []byte {
	img := make([]byte, Size)
	img[0] = 0x11
	img[1] = 0x22
	img[Size-1] = 0xff
	return img
}

func TestNewRejectsWrongSize(t *testing.T) {
	if _, err := New(make([]byte, 100)); err == nil {
		t.Fatal("expected error for short image")
	}
}

func TestReadByte(t *testing.T) {
	r, err := New(makeImage())
	if err != nil {
		t.Fatal(err)
	}
	if got := r.ReadByte(0); got != 0x11 {
		t.Errorf("byte 0 = %#x, want 0x11", got)
	}
	if got := r.ReadByte(Size - 1); got != 0xff {
		t.Errorf("last byte = %#x, want 0xff", got)
	}
}

func TestReadWordLittleEndian(t *testing.T) {
	img := makeImage()
	img[4], img[5], img[6], img[7] = 0xef, 0xbe, 0xad, 0xde
	r, err := New(img)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.ReadWord(4); got != 0xdeadbeef {
		t.Errorf("word = %#x, want 0xdeadbeef", got)
	}
}

func TestMirrorsWrap(t *testing.T) {
	r, err := New(makeImage())
	if err != nil {
		t.Fatal(err)
	}
	if r.ReadByte(0xbfc00000) != r.ReadByte(0) {
		t.Error("KSEG1 BIOS base should read same byte as offset 0")
	}
}
