/*
   DMA controller stub: per-channel base/block-control/channel-control
   registers, DPCR and DICR, and a whole-block copy between RAM and the GPU
   port that runs at once when a channel's start bit is written.

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

package dma

import (
	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/irq"
	"github.com/rcornwell/gopsx/emu/memory"
)

// NumChannels is the real hardware's 7 DMA channels (MDECin, MDECout, GPU,
// CDROM, SPU, PIO, OTC).
const NumChannels = 7

const (
	RegBase = 0x1f801080
	RegEnd  = 0x1f8010ff
	DPCR    = 0x1f8010f0
	DICR    = 0x1f8010f4
)

type channel struct {
	base    uint32
	block   uint32
	control uint32
}

// Controller holds all 7 channels' registers plus DPCR/DICR.
type Controller struct {
	ch   [NumChannels]channel
	dpcr uint32
	dicr uint32

	ram *memory.RAM
	gpu *gpu.GPU
	irq irq.Sink
}

// New constructs a DMA controller wired to RAM, the GPU port, and the
// shared interrupt sink it posts DMA completions to.
func New(ram *memory.RAM, g *gpu.GPU, sink irq.Sink) *Controller {
	return &Controller{ram: ram, gpu: g, irq: sink}
}

// Tick is a placeholder for the cycle driver's per-step DMA hook (spec.md
// §4.8): transfers themselves run synchronously inside service() when a
// channel is triggered, so there is nothing left to pace here.
func (c *Controller) Tick() {}

func (c *Controller) channelIndex(addr uint32) (int, uint32, bool) {
	if addr < RegBase || addr > 0x1f8010ef {
		return 0, 0, false
	}
	off := addr - RegBase
	idx := int(off / 0x10)
	reg := off % 0x10
	return idx, reg, true
}

// ReadWord reads a channel register, DPCR, or DICR.
func (c *Controller) ReadWord(addr uint32) uint32 {
	switch addr {
	case DPCR:
		return c.dpcr
	case DICR:
		return c.dicr
	}
	idx, reg, ok := c.channelIndex(addr)
	if !ok {
		return 0
	}
	switch reg {
	case 0x0:
		return c.ch[idx].base
	case 0x4:
		return c.ch[idx].block
	case 0x8:
		return c.ch[idx].control
	default:
		return 0
	}
}

// WriteWord writes a channel register, DPCR, or DICR. A write that starts a
// channel (control bit 24 set, "trigger" bit 28 clear or already running)
// services the transfer immediately: real hardware paces it over many
// cycles, this core does the whole block in one step (see SPEC_FULL.md §4).
func (c *Controller) WriteWord(addr uint32, value uint32) {
	switch addr {
	case DPCR:
		c.dpcr = value
		return
	case DICR:
		// Writing 1 to an IRQ flag bit (24..30) acknowledges it; bits 0..23
		// (enables) are plain storage.
		ack := value & 0x7f000000
		c.dicr = (c.dicr & 0xff000000 &^ ack) | (value & 0x00ffffff)
		return
	}
	idx, reg, ok := c.channelIndex(addr)
	if !ok {
		return
	}
	switch reg {
	case 0x0:
		c.ch[idx].base = value & 0xffffff
	case 0x4:
		c.ch[idx].block = value
	case 0x8:
		c.ch[idx].control = value
		if value&0x01000000 != 0 {
			c.service(idx)
		}
	}
}

// service performs a whole-block copy for channel idx between RAM and the
// GPU command port, then clears the start bit and raises DMA if enabled.
func (c *Controller) service(idx int) {
	ch := &c.ch[idx]
	toDevice := ch.control&0x1 != 0
	wordCount := ch.block & 0xffff
	if bs := ch.block >> 16; bs != 0 {
		wordCount *= bs & 0xffff
	}
	addr := ch.base
	step := uint32(4)
	if ch.control&0x2 != 0 {
		step = ^uint32(3) // decrement
	}
	for i := uint32(0); i < wordCount; i++ {
		if idx == 2 { // GPU channel
			if toDevice {
				c.gpu.WritePort(gpu.PortGP0, c.ram.ReadWord(addr))
			} else {
				c.ram.WriteWord(addr, c.gpu.ReadPort(gpu.PortGP0))
			}
		}
		addr += step
	}
	ch.control &^= 0x01000000
	if c.irqEnabledFor(idx) {
		c.dicr |= 1 << uint(24+idx)
		c.irq.Post(irq.DMA)
	}
}

// irqEnabledFor reports whether channel idx's IRQ enable bit (16..22) and
// the master enable bit (23) are both set in DICR.
func (c *Controller) irqEnabledFor(idx int) bool {
	const masterEnable = 1 << 23
	return c.dicr&masterEnable != 0 && c.dicr&(1<<uint(16+idx)) != 0
}
