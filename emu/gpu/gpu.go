/*
   GPU stub: GP0/GP1 command ports, GPUSTAT, a VRAM buffer, and the
   vblank/hblank edges the cycle driver consumes each step. Actual primitive
   rasterization is a non-goal (spec.md §1); this package only tracks enough
   state for the bus, timers and cycle driver to exercise their real PSX
   wiring against something.

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

package gpu

const (
	vramWidth  = 1024
	vramHeight = 512

	// Coarse NTSC-ish approximations, deliberately not cycle-exact
	// (spec.md §4.8 calls the GPU tick granularity out as coarse).
	cyclesPerScanline = 3413
	scanlinesPerFrame = 263
	hblankStartCycle  = 2560
)

// GP0/GP1 port addresses (physical, as the bus passes them to the GPU).
const (
	PortGP0 = 0x1f801810
	PortGP1 = 0x1f801814
)

// GPU holds command-port state, GPUSTAT, and the frame buffer.
type GPU struct {
	vram [vramWidth * vramHeight]uint16

	gpustat  uint32
	gp1Reset bool

	scanlineCycle int
	scanline      int

	vblank       bool
	hblank       bool
	frameReady   bool
	gp0WordsLeft int
}

// New constructs a GPU with GPUSTAT's always-ready bits set, mirroring a
// real BIOS boot where the GPU reports idle/ready immediately.
func New() *GPU {
	g := &GPU{}
	g.gpustat = 0x1c000000 // ready to receive cmd/DMA, idle
	return g
}

// ReadPort reads GP0 (return last value, PSX quirk simplified to 0) or
// GP1/GPUSTAT.
func (g *GPU) ReadPort(addr uint32) uint32 {
	switch addr {
	case PortGP0:
		return 0
	case PortGP1:
		return g.gpustat
	default:
		return 0
	}
}

// WritePort accepts a GP0 command word or a GP1 control word. Command
// parsing/rasterization is out of scope; GP1 resets are tracked so GPUSTAT
// reflects a believable post-reset state.
func (g *GPU) WritePort(addr uint32, value uint32) {
	switch addr {
	case PortGP0:
		// Command decoding/rasterization intentionally unimplemented.
	case PortGP1:
		cmd := value >> 24
		if cmd == 0x00 { // reset GPU
			g.gpustat = 0x1c000000
			g.gp1Reset = true
		}
	}
}

// GPUSTAT returns the current status word.
func (g *GPU) GPUSTAT() uint32 {
	return g.gpustat
}

// VRAM returns the frame buffer for debugger/frontend inspection.
func (g *GPU) VRAM() []uint16 {
	return g.vram[:]
}

// DisplayResolution reports the fixed NTSC 320x240 mode; real resolution
// switching via GP1(0x08) is not tracked (rasterization is out of scope).
func (g *GPU) DisplayResolution() (width, height int) {
	return 320, 240
}

// Tick advances the GPU's scanline/dot counters by one CPU cycle's worth of
// GPU clock, setting vblank/hblank edges exactly as original_source's
// consume_vblank/consume_hblank pair does.
func (g *GPU) Tick() {
	g.scanlineCycle++
	if g.scanlineCycle == hblankStartCycle {
		g.hblank = true
	}
	if g.scanlineCycle >= cyclesPerScanline {
		g.scanlineCycle = 0
		g.scanline++
		if g.scanline >= scanlinesPerFrame {
			g.scanline = 0
			g.frameReady = true
		}
		if g.scanline == 240 {
			g.vblank = true
		}
	}
}

// ConsumeVBlank reports and clears a pending vblank edge.
func (g *GPU) ConsumeVBlank() bool {
	v := g.vblank
	g.vblank = false
	return v
}

// ConsumeHBlank reports and clears a pending hblank edge.
func (g *GPU) ConsumeHBlank() bool {
	h := g.hblank
	g.hblank = false
	return h
}

// EndOfFrame reports and clears a pending end-of-frame condition, used by
// RunFrame to know when to stop stepping.
func (g *GPU) EndOfFrame() bool {
	f := g.frameReady
	g.frameReady = false
	return f
}

// FrameReady reports a pending end-of-frame condition without clearing it,
// for a debugger polling between RunFrame calls.
func (g *GPU) FrameReady() bool {
	return g.frameReady
}
