/*
   Tracer: an optional per-step instruction trace capability, replacing the
   teacher's package-global trace file with a constructor-supplied
   interface (spec.md §9: "remove it; thread an optional tracer capability
   through the CPU step as a config option").

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

package tracer

import (
	"fmt"
	"io"
)

// Tracer receives one call per retired instruction.
type Tracer interface {
	TraceStep(pc uint32, word uint32)
}

// noop discards every trace event; it is the default when no tracer is
// configured.
type noop struct{}

func (noop) TraceStep(uint32, uint32) {}

// Noop returns a Tracer that does nothing.
func Noop() Tracer {
	return noop{}
}

// writerTracer writes one "pc: word" line per step to an io.Writer, the
// direct replacement for the teacher's util/debug global trace file.
type writerTracer struct {
	w io.Writer
}

// NewWriter builds a Tracer that logs every step to w.
func NewWriter(w io.Writer) Tracer {
	return &writerTracer{w: w}
}

func (t *writerTracer) TraceStep(pc uint32, word uint32) {
	fmt.Fprintf(t.w, "%08x: %08x\n", pc, word)
}
