/*
   Bus address decoder: KUSEG/KSEG0/KSEG1 mirrors over RAM and BIOS, the GPU
   command ports, and the large "ignored" regions real software still pokes
   at (cache control, expansion regions, parallel port).

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

// Package bus decodes the R3000A's 32-bit physical address space, exactly
// mirroring original_source's bus.rs match arms: KUSEG/KSEG0/KSEG1 windows
// onto RAM, the BIOS window, GP0/GP1, and a catch-all for the remaining
// hardware-register space that emu/cpu intercepts before falling through
// here (I/O, DMA, timers, CD-ROM, controllers, SPU all live closer to the
// CPU per the real PSX memory map; see SPEC_FULL.md §2).
package bus

import (
	"fmt"

	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/gpu"
	"github.com/rcornwell/gopsx/emu/memory"
)

// FatalFault reports an access to an address the bus has no mapping for,
// mirroring original_source's `panic!("Invalid ... at address")` arms but
// surfaced as an error rather than crashing the process.
type FatalFault struct {
	Address uint32
	Op      string
}

func (f *FatalFault) Error() string {
	return fmt.Sprintf("bus: invalid %s at address %#08x", f.Op, f.Address)
}

// Bus wires RAM, BIOS and the GPU command ports into one address space.
type Bus struct {
	RAM  *memory.RAM
	BIOS *bios.ROM
	GPU  *gpu.GPU
}

// New builds a Bus over the given RAM, BIOS and GPU.
func New(ram *memory.RAM, rom *bios.ROM, g *gpu.GPU) *Bus {
	return &Bus{RAM: ram, BIOS: rom, GPU: g}
}

// region classifies a physical (already-masked) address.
type region int

const (
	regionRAM region = iota
	regionBIOS
	regionGPU
	regionIgnoredRead  // reads as 0
	regionIgnoredWrite // writes dropped
	regionCacheControl
	regionInvalid
)

// classify mirrors bus.rs's match arms over the segment-stripped address
// (the first 512 MiB of KUSEG 0x0.., KSEG0 0x8.. and KSEG1 0xA.. all decode
// identically once the top 3 bits are masked off). The rest of KUSEG is
// invalid, and KSEG2 only reaches the cache-control registers.
func classify(addr uint32) (region, uint32) {
	phys := addr & 0x1fffffff

	switch addr >> 29 {
	case 0, 4, 5: // first 512 MiB of KUSEG, KSEG0, KSEG1
	case 6, 7: // KSEG2: only the cache-control registers
		if phys < 0x1ffe0130 || phys > 0x1ffe0200 {
			return regionInvalid, phys
		}
	default: // rest of KUSEG
		return regionInvalid, phys
	}

	switch {
	case phys <= 0x1fffff: // RAM, 2 MiB
		return regionRAM, phys & (memory.DefaultSize - 1)
	case phys >= 0x1f000000 && phys <= 0x1f00ffff: // parallel port
		return regionIgnoredRead, phys
	case phys >= 0x1f801810 && phys <= 0x1f801817: // GP0/GP1
		return regionGPU, phys
	case phys >= 0x1f802000 && phys <= 0x1f802fff: // expansion 2
		return regionIgnoredWrite, phys
	case phys >= 0x1f000000 && phys <= 0x1f7fffff: // expansion 1
		return regionIgnoredRead, phys
	case phys >= 0x1f801000 && phys <= 0x1f802fff: // hardware registers, generic
		return regionIgnoredWrite, phys
	case phys >= 0x1fc00000 && phys <= 0x1fc7ffff: // BIOS
		return regionBIOS, phys & (bios.Size - 1)
	case phys >= 0x1ffe0130 && phys <= 0x1ffe0200: // cache control
		return regionCacheControl, phys
	default:
		return regionInvalid, phys
	}
}

// ReadWord reads a 32-bit value.
func (b *Bus) ReadWord(addr uint32) (uint32, error) {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		return b.RAM.ReadWord(p), nil
	case regionBIOS:
		return b.BIOS.ReadWord(p), nil
	case regionGPU:
		return b.GPU.ReadPort(p), nil
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return 0, nil
	default:
		return 0, &FatalFault{Address: addr, Op: "read word"}
	}
}

// WriteWord writes a 32-bit value.
func (b *Bus) WriteWord(addr uint32, value uint32) error {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		b.RAM.WriteWord(p, value)
		return nil
	case regionBIOS:
		return &FatalFault{Address: addr, Op: "write word to BIOS"}
	case regionGPU:
		b.GPU.WritePort(p, value)
		return nil
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return nil
	default:
		return &FatalFault{Address: addr, Op: "write word"}
	}
}

// ReadHalfWord reads a 16-bit value.
func (b *Bus) ReadHalfWord(addr uint32) (uint16, error) {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		return b.RAM.ReadHalfWord(p), nil
	case regionBIOS:
		return b.BIOS.ReadHalfWord(p), nil
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return 0, nil
	case regionGPU:
		return uint16(b.GPU.ReadPort(p)), nil
	default:
		return 0, &FatalFault{Address: addr, Op: "read half-word"}
	}
}

// WriteHalfWord writes a 16-bit value.
func (b *Bus) WriteHalfWord(addr uint32, value uint16) error {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		b.RAM.WriteHalfWord(p, value)
		return nil
	case regionBIOS:
		return &FatalFault{Address: addr, Op: "write half-word to BIOS"}
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return nil
	case regionGPU:
		b.GPU.WritePort(p, uint32(value))
		return nil
	default:
		return &FatalFault{Address: addr, Op: "write half-word"}
	}
}

// ReadByte reads a single byte.
func (b *Bus) ReadByte(addr uint32) (uint8, error) {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		return b.RAM.ReadByte(p), nil
	case regionBIOS:
		return b.BIOS.ReadByte(p), nil
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return 0, nil
	case regionGPU:
		return uint8(b.GPU.ReadPort(p)), nil
	default:
		return 0, &FatalFault{Address: addr, Op: "read byte"}
	}
}

// WriteByte writes a single byte.
func (b *Bus) WriteByte(addr uint32, value uint8) error {
	r, p := classify(addr)
	switch r {
	case regionRAM:
		b.RAM.WriteByte(p, value)
		return nil
	case regionBIOS:
		return &FatalFault{Address: addr, Op: "write byte to BIOS"}
	case regionIgnoredRead, regionIgnoredWrite, regionCacheControl:
		return nil
	case regionGPU:
		b.GPU.WritePort(p, uint32(value))
		return nil
	default:
		return &FatalFault{Address: addr, Op: "write byte"}
	}
}
