package tracer

import (
	"bytes"
	"strings"
	"testing"
)

func TestNoopDiscardsEvents(t *testing.T) {
	tr := Noop()
	tr.TraceStep(0x1000, 0xdeadbeef) // must not panic
}

func TestWriterTracerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriter(&buf)
	tr.TraceStep(0xbfc00000, 0x3c088001)
	if got := buf.String(); !strings.Contains(got, "bfc00000") || !strings.Contains(got, "3c088001") {
		t.Errorf("trace line = %q, missing expected fields", got)
	}
}
