/*
   Main RAM: a flat little-endian byte array with byte/half/word accessors.

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

// Package memory implements PSX main RAM.
package memory

import "encoding/binary"

// DefaultSize is the real hardware's 2 MiB of main RAM.
const DefaultSize = 2 * 1024 * 1024

// RAM is a flat little-endian byte array. Unlike the teacher's package-level
// singleton `var memory mem`, this is an exported struct so core.Machine can
// construct one instance per emulator.
type RAM struct {
	data []byte
}

// New allocates RAM of the given size in bytes. A size of 0 uses DefaultSize.
func New(size int) *RAM {
	if size <= 0 {
		size = DefaultSize
	}
	return &RAM{data: make([]byte, size)}
}

// Size returns the RAM size in bytes.
func (m *RAM) Size() int {
	return len(m.data)
}

func (m *RAM) mask(addr uint32) uint32 {
	return addr & uint32(len(m.data)-1)
}

// ReadByte reads a single byte.
func (m *RAM) ReadByte(addr uint32) uint8 {
	return m.data[m.mask(addr)]
}

// WriteByte writes a single byte.
func (m *RAM) WriteByte(addr uint32, v uint8) {
	m.data[m.mask(addr)] = v
}

// ReadHalfWord reads a little-endian 16-bit value.
func (m *RAM) ReadHalfWord(addr uint32) uint16 {
	a := m.mask(addr)
	return binary.LittleEndian.Uint16(m.data[a : a+2])
}

// WriteHalfWord writes a little-endian 16-bit value.
func (m *RAM) WriteHalfWord(addr uint32, v uint16) {
	a := m.mask(addr)
	binary.LittleEndian.PutUint16(m.data[a:a+2], v)
}

// ReadWord reads a little-endian 32-bit value.
func (m *RAM) ReadWord(addr uint32) uint32 {
	a := m.mask(addr)
	return binary.LittleEndian.Uint32(m.data[a : a+4])
}

// WriteWord writes a little-endian 32-bit value.
func (m *RAM) WriteWord(addr uint32, v uint32) {
	a := m.mask(addr)
	binary.LittleEndian.PutUint32(m.data[a:a+4], v)
}

// LoadBytes copies data into RAM starting at the given physical address,
// wrapping modulo RAM size exactly like the per-byte accessors.
func (m *RAM) LoadBytes(addr uint32, data []byte) {
	for i, b := range data {
		m.WriteByte(addr+uint32(i), b)
	}
}
