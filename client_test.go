package flashraid

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestClientFraming(t *testing.T) {
	// Byte-exact wire format: command, register address, data.
	pb := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{MgmtCmdWrite, RegControl, 0x43}, R: []byte{0, 0, 0}},
				{W: []byte{MgmtCmdRead, RegControl, 0x00}, R: []byte{0, 0, 0x43}},
				{W: []byte{MgmtCmdWrite, RangeReg(1), 0x12}, R: []byte{0, 0, 0}},
			},
			DontPanic: true,
		},
	}
	conn, err := pb.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	cl := NewClient(conn, &gpiotest.Pin{N: "MGMT_CS"})

	if err := cl.SetControl(0x43); err != nil {
		t.Fatal(err)
	}
	ctl, err := cl.Control()
	if err != nil {
		t.Fatal(err)
	}
	if ctl != 0x43 {
		t.Errorf("control = %s, want 0x43", ctl)
	}
	if err := cl.WriteReg(RangeReg(1), 0x12); err != nil {
		t.Fatal(err)
	}

	if err := pb.Close(); err != nil {
		t.Errorf("unconsumed playback ops: %v", err)
	}
}

func TestClientModelRoundTrip(t *testing.T) {
	c := NewController()
	cl := NewClient(c.MgmtPort())

	want := Config{
		Control: CtlEnable | CtlSwitch | CtlRange0 | CtlSecondary,
		Ranges: [NumRanges]AddrRange{
			{Base: 0x000100, Limit: 0x3FFFFF},
			{Base: 0x400000, Limit: 0x7FFFFF},
		},
	}
	if err := cl.Apply(want); err != nil {
		t.Fatal(err)
	}

	got, err := cl.ReadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		spew.Dump(got)
		spew.Dump(want)
		t.Fatal("config read back differs from applied config")
	}

	// Undefined registers read 0 and swallow writes.
	if err := cl.WriteReg(0x40, 0xFF); err != nil {
		t.Fatal(err)
	}
	v, err := cl.ReadReg(0x40)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("undefined register = 0x%02X, want 0", v)
	}
	if got, _ := cl.Control(); got != want.Control {
		t.Errorf("control = %s disturbed by out-of-map write", got)
	}
}

func TestClientValidation(t *testing.T) {
	c := NewController()
	cl := NewClient(c.MgmtPort())

	if err := cl.SetRange(NumRanges, AddrRange{}); err == nil {
		t.Error("expected error for range index out of table")
	}
	if err := cl.SetRange(0, AddrRange{Base: 1 << 24, Limit: 1 << 24}); err == nil {
		t.Error("expected error for address above 24-bit space")
	}
	if err := cl.SetRange(0, AddrRange{Base: 0x200, Limit: 0x100}); err == nil {
		t.Error("expected error for base above limit")
	}
	if _, err := cl.Range(-1); err == nil {
		t.Error("expected error for negative range index")
	}
}
