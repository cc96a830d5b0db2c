package flashraid

import "testing"

func TestRegisterFileRoundTrip(t *testing.T) {
	var rf registerFile
	for addr := byte(0); addr < regCount; addr++ {
		val := addr ^ 0x5A
		rf.write(addr, val)
		if got := rf.read(addr); got != val {
			t.Errorf("read(0x%02X) = 0x%02X after write, want 0x%02X", addr, got, val)
		}
	}
}

func TestRegisterFileUndefinedAddress(t *testing.T) {
	var rf registerFile
	rf.write(RegControl, 0x42)

	for _, addr := range []byte{regCount, 0x20, 0xFF} {
		rf.write(addr, 0xAA)
		if got := rf.read(addr); got != 0 {
			t.Errorf("read(0x%02X) = 0x%02X, undefined address must read 0", addr, got)
		}
	}
	if got := rf.read(RegControl); got != 0x42 {
		t.Errorf("control register = 0x%02X after out-of-map writes, want 0x42", got)
	}
}

func TestRegisterFileReset(t *testing.T) {
	var rf registerFile
	for addr := byte(0); addr < regCount; addr++ {
		rf.write(addr, 0xFF)
	}
	rf.reset()
	for addr := byte(0); addr < regCount; addr++ {
		if got := rf.read(addr); got != 0 {
			t.Errorf("read(0x%02X) = 0x%02X after reset, want 0", addr, got)
		}
	}
}

func TestRegisterFileSnapshot(t *testing.T) {
	var rf registerFile

	// Range 1 at 0x06: base 0x123456, limit 0x7FFF00.
	for i, v := range []byte{0x12, 0x34, 0x56, 0x7F, 0xFF, 0x00} {
		rf.write(RangeReg(1)+byte(i), v)
	}
	rf.write(RegControl, byte(CtlEnable|CtlRange1))

	cfg := rf.snapshot()
	if cfg.Control != CtlEnable|CtlRange1 {
		t.Errorf("control = %s", cfg.Control)
	}
	if cfg.Ranges[0] != (AddrRange{}) {
		t.Errorf("range 0 = %s, want zero", cfg.Ranges[0])
	}
	want := AddrRange{Base: 0x123456, Limit: 0x7FFF00}
	if cfg.Ranges[1] != want {
		t.Errorf("range 1 = %s, want %s", cfg.Ranges[1], want)
	}
}
