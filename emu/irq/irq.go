/*
   Interrupt controller: I_STAT (pending) and I_MASK (enable) registers.

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

// Package irq implements the PSX interrupt controller. It is shared, by
// pointer, between the CPU (which checks pending&mask each step) and every
// peripheral (which only ever sees the narrow Sink capability below) so that
// no device needs a reference back to the CPU to raise an interrupt.
package irq

// Source identifies one of the eleven wired interrupt lines.
type Source int

const (
	VBlank Source = iota
	GPU
	CDROM
	DMA
	Timer0
	Timer1
	Timer2
	ControllerPad
	SIO
	SPU
	Lightpen
)

// Sink is the capability handed to peripherals: post an interrupt, nothing else.
type Sink interface {
	Post(source Source)
}

// Controller holds I_STAT/I_MASK. Only bits 0..10 are meaningful.
type Controller struct {
	status uint32
	mask   uint32
}

const validBits = 0x7ff

// Post sets the pending bit for source. Matches original_source's
// fire_external_interrupt: the bit is latched whether or not it is masked.
func (c *Controller) Post(source Source) {
	c.status |= 1 << uint(source)
}

// Pending returns the current I_STAT value.
func (c *Controller) Pending() uint32 {
	return c.status
}

// Mask returns the current I_MASK value.
func (c *Controller) Mask() uint32 {
	return c.mask
}

// WriteStat acknowledges interrupts: pending bits written 0 are cleared,
// bits written 1 are left untouched (AND-mask semantics, never sets a bit).
func (c *Controller) WriteStat(value uint32) {
	c.status &= value
}

// WriteStatHalf acknowledges only the low 16 bits of I_STAT.
func (c *Controller) WriteStatHalf(value uint16) {
	c.status &= (0xffff0000 | uint32(value))
}

// WriteMask is plain storage.
func (c *Controller) WriteMask(value uint32) {
	c.mask = value
}

// WriteMaskHalf writes the low 16 bits of I_MASK, preserving the high half.
func (c *Controller) WriteMaskHalf(value uint16) {
	c.mask = (c.mask &^ 0xffff) | uint32(value)
}

// Enabled reports whether any enabled interrupt is currently pending.
func (c *Controller) Enabled() bool {
	return (c.status & c.mask & validBits) != 0
}

// ManuallyFire is the debug/test entry point for forcing an interrupt,
// identical in effect to a device calling Post.
func (c *Controller) ManuallyFire(source Source) {
	c.Post(source)
}
