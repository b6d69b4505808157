/*
   CD-ROM stub: a disc slot, index/status register, and a pending-response
   queue shaped like original_source's cdrom/commands.rs PendingResponse.
   Command parsing and disc-image reading are non-goals (spec.md §1); only
   a handful of illustrative commands are implemented.

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

package cdrom

import "github.com/rcornwell/gopsx/emu/irq"

const (
	RegBase = 0x1f801800
	RegEnd  = 0x1f801803
)

// IntCause mirrors the cause codes original_source attaches to a
// PendingResponse (INT3 = first response, etc). Only INT3 is modeled.
type IntCause int

const (
	INT3 IntCause = 3
)

// PendingResponse is a queued command result awaiting its execution delay,
// grounded directly on cdrom/commands.rs's struct of the same shape.
type PendingResponse struct {
	Cause            IntCause
	Response         []byte
	ExecutionCycles  uint32
	ExtraResponse    *PendingResponse
}

// Disc is an inserted disc image. Track/sector parsing is out of scope;
// this only records that a disc is present.
type Disc struct {
	Path string
}

// Drive is the CD-ROM controller.
type Drive struct {
	disc *Disc

	index  uint8
	status uint8

	pending []*PendingResponse
	fifo    []byte

	irq irq.Sink
}

// New constructs an empty drive wired to the shared interrupt sink.
func New(sink irq.Sink) *Drive {
	return &Drive{irq: sink}
}

// LoadDisc inserts a disc.
func (d *Drive) LoadDisc(path string) {
	d.disc = &Disc{Path: path}
}

// RemoveDisc ejects the current disc, if any.
func (d *Drive) RemoveDisc() {
	d.disc = nil
}

// LoadedDisc returns the inserted disc, or nil.
func (d *Drive) LoadedDisc() *Disc {
	return d.disc
}

// getBiosDate is grounded on cdrom/commands.rs::get_bios_date.
func getBiosDate() *PendingResponse {
	return &PendingResponse{
		Cause:           INT3,
		Response:        []byte{0x97, 0x01, 0x10, 0xc2},
		ExecutionCycles: 20000,
	}
}

// getStat is grounded on cdrom/commands.rs::get_stat.
func getStat(status uint8) *PendingResponse {
	return &PendingResponse{
		Cause:           INT3,
		Response:        []byte{status},
		ExecutionCycles: 20000,
	}
}

// getID is grounded on cdrom/commands.rs::get_id.
func getID(hasDisc bool) *PendingResponse {
	if !hasDisc {
		return &PendingResponse{
			Cause:           INT3,
			Response:        []byte{0x08, 0x40, 0, 0, 'N', 'o', 'D', 'i', 's', 'c'},
			ExecutionCycles: 20000,
		}
	}
	return &PendingResponse{
		Cause:           INT3,
		Response:        []byte{0x02, 0x00, 0x20, 0x00, 'S', 'C', 'E', 'A'},
		ExecutionCycles: 20000,
	}
}

// init_ is grounded on cdrom/commands.rs::init.
func init_(status uint8) *PendingResponse {
	return &PendingResponse{
		Cause:           INT3,
		Response:        []byte{status},
		ExecutionCycles: 80000,
		ExtraResponse:   getStat(status),
	}
}

// commandCode values for the 1-byte command register.
const (
	cmdGetStat    = 0x01
	cmdGetID      = 0x1a
	cmdInit       = 0x0a
	cmdGetBiosDate = 0x19
)

// WriteByte handles the command register (index 1) by queuing a matching
// PendingResponse; all other registers are accepted and ignored.
func (d *Drive) WriteByte(addr uint32, value uint8) {
	off := addr - RegBase
	if off != 1 {
		return
	}
	switch value {
	case cmdGetStat:
		d.queue(getStat(d.status))
	case cmdGetID:
		d.queue(getID(d.disc != nil))
	case cmdInit:
		d.queue(init_(d.status))
	case cmdGetBiosDate:
		d.queue(getBiosDate())
	}
}

func (d *Drive) queue(r *PendingResponse) {
	d.pending = append(d.pending, r)
}

// ReadByte reads the index/status register (0) or the response FIFO (1).
func (d *Drive) ReadByte(addr uint32) uint8 {
	off := addr - RegBase
	switch off {
	case 0:
		return d.index
	case 1:
		if len(d.fifo) == 0 {
			return 0
		}
		b := d.fifo[0]
		d.fifo = d.fifo[1:]
		return b
	default:
		return 0
	}
}

// Tick decrements the head pending response's remaining execution cycles,
// posting CDROM and filling the response FIFO when it reaches zero.
func (d *Drive) Tick() {
	if len(d.pending) == 0 {
		return
	}
	head := d.pending[0]
	if head.ExecutionCycles > 0 {
		head.ExecutionCycles--
		return
	}
	d.fifo = append(d.fifo, head.Response...)
	d.irq.Post(irq.CDROM)
	d.pending = d.pending[1:]
	if head.ExtraResponse != nil {
		d.pending = append([]*PendingResponse{head.ExtraResponse}, d.pending...)
	}
}
