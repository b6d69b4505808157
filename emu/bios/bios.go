/*
   BIOS ROM: 512 KiB, read-only.

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

// Package bios implements the read-only BIOS ROM, mapped at KSEG1 0xBFC00000
// (and mirrored through KUSEG/KSEG0) per original_source bus.rs.
package bios

import (
	"encoding/binary"
	"fmt"
)

// Size is the real hardware's 512 KiB BIOS ROM.
const Size = 512 * 1024

// ROM holds the BIOS image.
type ROM struct {
	data []byte
}

// New builds a ROM from a raw image. The image must be exactly Size bytes.
func New(image []byte) (*ROM, error) {
	if len(image) != Size {
		return nil, fmt.Errorf("bios: image is %d bytes, want %d", len(image), Size)
	}
	r := &ROM{data: make([]byte, Size)}
	copy(r.data, image)
	return r, nil
}

func (r *ROM) mask(addr uint32) uint32 {
	return addr & (Size - 1)
}

// ReadByte reads a single byte.
func (r *ROM) ReadByte(addr uint32) uint8 {
	return r.data[r.mask(addr)]
}

// ReadHalfWord reads a little-endian 16-bit value.
func (r *ROM) ReadHalfWord(addr uint32) uint16 {
	a := r.mask(addr)
	return binary.LittleEndian.Uint16(r.data[a : a+2])
}

// ReadWord reads a little-endian 32-bit value.
func (r *ROM) ReadWord(addr uint32) uint32 {
	a := r.mask(addr)
	return binary.LittleEndian.Uint32(r.data[a : a+4])
}

// Raw returns the underlying image, for debugger inspection only.
func (r *ROM) Raw() []byte {
	return r.data
}
