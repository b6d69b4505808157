/*
   Timer bank: 3 free-running 16-bit counters with mode/target registers,
   driven by the cycle driver's per-step clock hooks.

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

package timer

import "github.com/rcornwell/gopsx/emu/irq"

// NumTimers is the real hardware's 3 counters (dot clock, h-blank, 1/8 sys
// clock).
const NumTimers = 3

const (
	RegBase = 0x1f801100
	RegEnd  = 0x1f801128
)

var sources = [NumTimers]irq.Source{irq.Timer0, irq.Timer1, irq.Timer2}

type counter struct {
	value  uint16
	mode   uint16
	target uint16
}

// tick advances the counter by one, applying reset-on-target and posting
// the target and overflow interrupts its mode enables.
func (c *counter) tick(sink irq.Sink, source irq.Source) {
	overflow := c.value == 0xffff
	c.value++ // 0xffff wraps to 0
	const syncEnable = 1 << 0
	const resetOnTarget = 1 << 3
	const irqOnTarget = 1 << 4
	const irqOnOverflow = 1 << 5
	_ = syncEnable

	if c.mode&irqOnTarget != 0 && c.value == c.target {
		if c.mode&resetOnTarget != 0 {
			c.value = 0
		}
		sink.Post(source)
	}
	if overflow && c.mode&irqOnOverflow != 0 {
		sink.Post(source)
	}
}

// Bank holds all 3 counters.
type Bank struct {
	c    [NumTimers]counter
	irq  irq.Sink
	dots int
}

// New constructs a timer bank posting to the given interrupt sink.
func New(sink irq.Sink) *Bank {
	return &Bank{irq: sink}
}

func (b *Bank) index(addr uint32) (int, uint32, bool) {
	if addr < RegBase || addr > RegEnd {
		return 0, 0, false
	}
	off := addr - RegBase
	idx := int(off / 0x10)
	if idx >= NumTimers {
		return 0, 0, false
	}
	return idx, off % 0x10, true
}

// ReadWord reads a counter's value, mode, or target register.
func (b *Bank) ReadWord(addr uint32) uint32 {
	idx, reg, ok := b.index(addr)
	if !ok {
		return 0
	}
	switch reg {
	case 0x0:
		return uint32(b.c[idx].value)
	case 0x4:
		mode := b.c[idx].mode
		b.c[idx].mode &^= 1<<11 | 1<<12 // reading mode clears the reached-target/overflow latches
		return uint32(mode)
	case 0x8:
		return uint32(b.c[idx].target)
	default:
		return 0
	}
}

// WriteWord writes a counter's value, mode, or target register.
func (b *Bank) WriteWord(addr uint32, value uint32) {
	idx, reg, ok := b.index(addr)
	if !ok {
		return
	}
	switch reg {
	case 0x0:
		b.c[idx].value = uint16(value)
	case 0x4:
		b.c[idx].mode = uint16(value)
		b.c[idx].value = 0
	case 0x8:
		b.c[idx].target = uint16(value)
	}
}

// UpdateSysClock advances timer 0 by one CPU cycle; timer 2 is advanced
// separately by UpdateSysDiv8.
func (b *Bank) UpdateSysClock() {
	b.c[0].tick(b.irq, sources[0])
}

// UpdateSysDiv8 advances timer 2 by one tick; the driver calls this every
// 8th CPU cycle when timer 2 is in its system-clock/8 mode.
func (b *Bank) UpdateSysDiv8() {
	b.c[2].tick(b.irq, sources[2])
}

// UpdateDotClock advances timer 1's dot-clock source by one GPU dot.
func (b *Bank) UpdateDotClock() {
	b.dots++
	b.c[1].tick(b.irq, sources[1])
}

// UpdateHBlank advances timer 1's h-blank source on a horizontal-blank edge.
func (b *Bank) UpdateHBlank() {
	b.c[1].tick(b.irq, sources[1])
}
