/*
   SPU register-file stub: accepts reads/writes to the 0x1f801c00-0x1f801fff
   window and otherwise does nothing. Audio synthesis is a non-goal
   (spec.md §1).

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

package spu

const (
	RegBase = 0x1f801c00
	RegEnd  = 0x1f801fff
)

// SPU is a plain register file; it performs no audio processing.
type SPU struct {
	regs [(RegEnd - RegBase + 1) / 2]uint16
}

// New constructs an empty SPU register file.
func New() *SPU {
	return &SPU{}
}

func (s *SPU) index(addr uint32) int {
	return int((addr - RegBase) / 2)
}

// ReadHalfWord reads a register.
func (s *SPU) ReadHalfWord(addr uint32) uint16 {
	i := s.index(addr)
	if i < 0 || i >= len(s.regs) {
		return 0
	}
	return s.regs[i]
}

// WriteHalfWord writes a register.
func (s *SPU) WriteHalfWord(addr uint32, value uint16) {
	i := s.index(addr)
	if i < 0 || i >= len(s.regs) {
		return
	}
	s.regs[i] = value
}
