package cdrom

import (
	"testing"

	"github.com/rcornwell/gopsx/emu/irq"
)

func TestLoadAndRemoveDisc(t *testing.T) {
	var ic irq.Controller
	d := New(&ic)
	if d.LoadedDisc() != nil {
		t.Fatal("expected no disc initially")
	}
	d.LoadDisc("game.bin")
	if d.LoadedDisc() == nil || d.LoadedDisc().Path != "game.bin" {
		t.Fatal("expected loaded disc with path game.bin")
	}
	d.RemoveDisc()
	if d.LoadedDisc() != nil {
		t.Fatal("expected no disc after remove")
	}
}

func TestGetStatCommandQueuesResponse(t *testing.T) {
	var ic irq.Controller
	d := New(&ic)
	d.WriteByte(RegBase+1, cmdGetStat)

	for i := 0; i < 20001; i++ {
		d.Tick()
	}
	if ic.Pending()&(1<<irq.CDROM) == 0 {
		t.Fatal("expected CDROM interrupt after response delay elapses")
	}
	if b := d.ReadByte(RegBase + 1); b != 0 {
		t.Errorf("status byte = %#x, want 0", b)
	}
}

func TestInitQueuesExtraResponse(t *testing.T) {
	var ic irq.Controller
	d := New(&ic)
	d.WriteByte(RegBase+1, cmdInit)
	if len(d.pending) != 1 {
		t.Fatalf("expected 1 queued response, got %d", len(d.pending))
	}
	for i := 0; i < 80001; i++ {
		d.Tick()
	}
	if len(d.pending) != 1 {
		t.Fatalf("expected extra response queued after init completes, got %d", len(d.pending))
	}
}
