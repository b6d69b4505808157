/*
   Controller/memory-card I/O port stub: JOY_DATA/STAT/MODE/CTRL/BAUD and a
   single live button-state register. Serial transfer timing and button
   decoding are non-goals (spec.md §1); this exists so the bus has
   something real to dispatch to in the 0x1f801040-0x1f80104f range.

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

package controller

const (
	RegBase = 0x1f801040
	RegEnd  = 0x1f80104f
)

// Pad holds live button state (JOY_STAT bit layout, active-low) and the
// JOY_* register file.
type Pad struct {
	buttons uint16 // active-low, matches real SIO bit layout
	stat    uint32
	mode    uint16
	ctrl    uint16
	baud    uint16
}

// New constructs a Pad with no buttons held (all bits set, active-low).
func New() *Pad {
	return &Pad{buttons: 0xffff, stat: 0x5}
}

// UpdateState sets the live button bitmask (active-low, standard
// digital-pad layout).
func (p *Pad) UpdateState(buttons uint16) {
	p.buttons = buttons
}

// Buttons returns the current live button bitmask.
func (p *Pad) Buttons() uint16 {
	return p.buttons
}

// ReadWord reads one of the JOY_* registers.
func (p *Pad) ReadWord(addr uint32) uint32 {
	switch addr - RegBase {
	case 0x0:
		return uint32(p.buttons)
	case 0x4:
		return p.stat
	case 0x8:
		return uint32(p.mode)
	case 0xa:
		return uint32(p.ctrl)
	case 0xe:
		return uint32(p.baud)
	default:
		return 0
	}
}

// WriteWord writes one of the JOY_* registers.
func (p *Pad) WriteWord(addr uint32, value uint32) {
	switch addr - RegBase {
	case 0x8:
		p.mode = uint16(value)
	case 0xa:
		p.ctrl = uint16(value)
	case 0xe:
		p.baud = uint16(value)
	}
}

// Tick is a no-op placeholder for serial transfer pacing (non-goal: button
// decoding / transfer timing, per spec.md §1).
func (p *Pad) Tick() {}
