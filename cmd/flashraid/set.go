package main

import (
	"flag"

	"github.com/gentam/flashraid"
)

func setCommand(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	var (
		enable string
		mode   string
		host   string
		range0 string
		range1 string
	)
	fs.StringVar(&enable, "enable", "", "master enable: on|off")
	fs.StringVar(&mode, "mode", "", "routing mode: share|switch")
	fs.StringVar(&host, "host", "", "active host: main|secondary")
	fs.StringVar(&range0, "range0", "", "range 0 matching: on|off")
	fs.StringVar(&range1, "range1", "", "range 1 matching: on|off")
	fs.Parse(args)

	d, err := flashraid.NewDevice()
	if err != nil {
		fatalf("%v", err)
	}

	ctl, err := d.Mgmt.Control()
	if err != nil {
		fatalf("read control register failed: %v", err)
	}

	ctl = applyBit(ctl, enable, flashraid.CtlEnable, "on", "off", "-enable")
	ctl = applyBit(ctl, mode, flashraid.CtlSwitch, "switch", "share", "-mode")
	ctl = applyBit(ctl, host, flashraid.CtlSecondary, "secondary", "main", "-host")
	ctl = applyBit(ctl, range0, flashraid.CtlRange0, "on", "off", "-range0")
	ctl = applyBit(ctl, range1, flashraid.CtlRange1, "on", "off", "-range1")

	if err := d.Mgmt.SetControl(ctl); err != nil {
		fatalf("write control register failed: %v", err)
	}
}

// applyBit leaves ctl untouched for an empty flag value. The change
// reaches a host domain at that host's next idle window, not the
// moment the write lands.
func applyBit(ctl flashraid.Control, val string, bit flashraid.Control, set, clear, name string) flashraid.Control {
	switch val {
	case "":
	case set:
		ctl |= bit
	case clear:
		ctl &^= bit
	default:
		fatalUsage("%s must be %q or %q", name, set, clear)
	}
	return ctl
}
