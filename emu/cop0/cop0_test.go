package cop0

import "testing"

func TestPlainRegisterRoundTrip(t *testing.T) {
	var c COP0
	c.Write(8, 0x12345678) // BadVaddr, no semantic meaning here
	if got := c.Read(8); got != 0x12345678 {
		t.Errorf("Read(8) = %#x, want 0x12345678", got)
	}
}

func TestInterruptEnabled(t *testing.T) {
	var c COP0
	if c.InterruptEnabled() {
		t.Fatal("IEc should start clear")
	}
	c.SetStatus(StatusIEc)
	if !c.InterruptEnabled() {
		t.Fatal("IEc set, should be enabled")
	}
}

func TestCacheIsolated(t *testing.T) {
	var c COP0
	c.SetStatus(StatusIsC)
	if !c.CacheIsolated() {
		t.Fatal("IsC set, should report isolated")
	}
}

func TestEnterExceptionShiftsModeStack(t *testing.T) {
	var c COP0
	c.SetStatus(StatusIEc) // kernel, interrupts enabled
	c.EnterException(0x1000, ExcSys, false)

	if c.EPC() != 0x1000 {
		t.Errorf("EPC = %#x, want 0x1000", c.EPC())
	}
	if (c.Cause()>>2)&0x1f != ExcSys {
		t.Errorf("ExcCode = %d, want %d", (c.Cause()>>2)&0x1f, ExcSys)
	}
	// old IEc becomes new IEp; new IEc/KUc forced to kernel+disabled.
	if c.Status()&StatusIEc != 0 {
		t.Error("IEc should be cleared on exception entry")
	}
	if c.Status()&StatusIEp == 0 {
		t.Error("IEp should carry the prior IEc value")
	}
}

func TestEnterExceptionRecordsBranchDelay(t *testing.T) {
	var c COP0
	c.EnterException(0x2000, ExcOvf, true)
	if !c.BranchDelay() {
		t.Fatal("Cause bit 31 should be set for a delay-slot exception")
	}
}

func TestReturnFromExceptionPopsStack(t *testing.T) {
	var c COP0
	c.SetStatus(StatusIEc)
	c.EnterException(0, ExcSys, false)
	c.EnterException(0, ExcSys, false) // nested, two levels deep
	c.ReturnFromException()
	// after one rfe each slot moves down one: slot 0 takes slot 1 (IEp, clear
	// after the second entry), slot 1 takes slot 2 (IEo, set), slot 2 keeps
	// its value.
	if got := c.Status() & 0x3f; got != StatusIEp|StatusIEo {
		t.Errorf("Status low bits after rfe = %#x, want %#x", got, StatusIEp|StatusIEo)
	}
}

func TestExceptionVectorSelectsOnBEV(t *testing.T) {
	var c COP0
	if got := c.ExceptionVector(); got != 0x80000080 {
		t.Errorf("vector with BEV clear = %#x, want 0x80000080", got)
	}
	c.SetStatus(StatusBEV)
	if got := c.ExceptionVector(); got != 0xBFC00180 {
		t.Errorf("vector with BEV set = %#x, want 0xBFC00180", got)
	}
}

func TestSetCauseExcCodePreservesIP(t *testing.T) {
	var c COP0
	c.Write(RegCause, 0x300) // IP bits 8-9 set
	c.SetCauseExcCode(ExcAdEL)
	if c.Cause()&0x300 != 0x300 {
		t.Error("SetCauseExcCode must preserve IP bits")
	}
	if (c.Cause()>>2)&0x1f != ExcAdEL {
		t.Errorf("ExcCode = %d, want %d", (c.Cause()>>2)&0x1f, ExcAdEL)
	}
}
