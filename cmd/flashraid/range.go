package main

import (
	"flag"
	"strconv"

	"github.com/gentam/flashraid"
)

func rangeCommand(args []string) {
	fs := flag.NewFlagSet("range", flag.ExitOnError)
	var (
		index int
		base  string
		limit string
	)
	fs.IntVar(&index, "i", 0, "range table index")
	fs.StringVar(&base, "base", "", "range base address (e.g. 0x000000)")
	fs.StringVar(&limit, "limit", "", "range limit address, inclusive (e.g. 0x7FFFFF)")
	fs.Parse(args)

	if base == "" || limit == "" {
		fatalUsage("-base and -limit are required")
	}
	r := flashraid.AddrRange{
		Base:  parseAddr(base, "-base"),
		Limit: parseAddr(limit, "-limit"),
	}

	d, err := flashraid.NewDevice()
	if err != nil {
		fatalf("%v", err)
	}

	if err := d.Mgmt.SetRange(index, r); err != nil {
		fatalf("program range %d failed: %v", index, err)
	}
}

func parseAddr(s, name string) uint32 {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		fatalUsage("%s: %v", name, err)
	}
	if v > flashraid.AddrMask {
		fatalUsage("%s 0x%X out of 24-bit range", name, v)
	}
	return uint32(v)
}
