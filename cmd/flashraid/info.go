package main

import (
	"flag"
	"fmt"

	"github.com/gentam/flashraid"
)

func infoCommand(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	d, err := flashraid.NewDevice()
	if err != nil {
		fatalf("%v", err)
	}

	cfg, err := d.Mgmt.ReadConfig()
	if err != nil {
		fatalf("read config failed: %v", err)
	}

	fmt.Printf("Control:  %s\n", cfg.Control)
	fmt.Printf("Mode:     %s\n", modeName(cfg.Control))
	fmt.Printf("Host:     %s\n", cfg.Control.ActiveHost())
	for i, r := range cfg.Ranges {
		en := "disabled"
		if cfg.Control.RangeEnabled(i) {
			en = "enabled"
		}
		fmt.Printf("Range %d:  %s (%s)\n", i, r, en)
	}
}

func modeName(ctl flashraid.Control) string {
	if ctl.Switch() {
		return "SWITCH"
	}
	return "SHARE"
}
