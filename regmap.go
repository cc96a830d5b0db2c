package flashraid

import (
	"fmt"
	"strings"
)

// Management register map. One 6-byte entry per address range followed
// by the control register, flat-addressed from 0x00:
//
//	0x00..0x05 | range 0 base H/M/L, limit H/M/L (big-endian 24-bit)
//	0x06..0x0B | range 1 base H/M/L, limit H/M/L
//	0x0C       | control register
const (
	NumRanges = 2

	rangeEntryLen = 6
	RegControl    = NumRanges * rangeEntryLen
	regCount      = RegControl + 1

	// AddrMask masks a flash address to the 24-bit space the range
	// table covers.
	AddrMask = 1<<24 - 1
)

// RangeReg returns the register address of the first byte of range i.
func RangeReg(i int) byte { return byte(i * rangeEntryLen) }

// Host identifies one of the two upstream SPI host ports.
type Host int

const (
	MainHost Host = iota
	SecondaryHost
	numHosts
)

func (h Host) String() string {
	switch h {
	case MainHost:
		return "main"
	case SecondaryHost:
		return "secondary"
	}
	return fmt.Sprintf("Host(%d)", int(h))
}

// Downstream flash port indices. FlashA is the designated primary:
// SHARE mode returns its MISO data to the host.
const (
	FlashA = 0
	FlashB = 1

	numFlash = 2
)

// Control is the controller's control register.
//
//	Bits| Meaning
//	----+----------------------------------------------------------
//	7   | Reserved (reads as written)
//	6   | HOST: active host, 0 = main, 1 = secondary
//	5:4 | Reserved (read as written)
//	3   | R1EN: range 1 enable
//	2   | R0EN: range 0 enable
//	1   | MODE: 0 = SHARE (mirror both), 1 = SWITCH (independent)
//	0   | EN: master enable
//
// The reset value 0x00 means disabled, SHARE, main host, no ranges.
type Control byte

const (
	CtlEnable    Control = 1 << 0
	CtlSwitch    Control = 1 << 1
	CtlRange0    Control = 1 << 2
	CtlRange1    Control = 1 << 3
	CtlSecondary Control = 1 << 6
)

func (c Control) Enabled() bool { return c&CtlEnable != 0 }
func (c Control) Switch() bool  { return c&CtlSwitch != 0 }

// RangeEnabled reports whether range i participates in matching.
func (c Control) RangeEnabled(i int) bool { return c&(CtlRange0<<uint(i)) != 0 }

// ActiveHost returns the host currently granted the shared flashes.
func (c Control) ActiveHost() Host {
	if c&CtlSecondary != 0 {
		return SecondaryHost
	}
	return MainHost
}

func (c Control) String() string {
	b := fmt.Sprintf("%08b", byte(c))
	s := []string{}
	if c.Enabled() {
		s = append(s, "EN")
	}
	if c.Switch() {
		s = append(s, "SWITCH")
	}
	for i := 0; i < NumRanges; i++ {
		if c.RangeEnabled(i) {
			s = append(s, fmt.Sprintf("R%dEN", i))
		}
	}
	if c.ActiveHost() == SecondaryHost {
		s = append(s, "HOST2")
	}
	if len(s) == 0 {
		return b
	}
	return b + " " + strings.Join(s, ",")
}

// AddrRange is one entry of the address-range table: a [Base, Limit]
// window of 24-bit flash addresses, both bounds inclusive. An entry
// with Base > Limit never matches.
type AddrRange struct {
	Base  uint32
	Limit uint32
}

// Contains reports whether addr falls inside the range.
func (r AddrRange) Contains(addr uint32) bool {
	return r.Base <= addr && addr <= r.Limit
}

func (r AddrRange) String() string {
	return fmt.Sprintf("0x%06X-0x%06X", r.Base, r.Limit)
}

// Config is a decoded snapshot of the whole register file. Host
// domains consume it only through their synchronized shadow copy.
type Config struct {
	Control Control
	Ranges  [NumRanges]AddrRange
}

// Match scans enabled ranges in index order and returns the index of
// the first one containing addr. Overlaps resolve to the lowest index.
func (c Config) Match(addr uint32) (int, bool) {
	addr &= AddrMask
	for i, r := range c.Ranges {
		if c.Control.RangeEnabled(i) && r.Contains(addr) {
			return i, true
		}
	}
	return 0, false
}

// anyRangeEnabled reports whether routing must wait for the
// transaction header before it can resolve.
func (c Config) anyRangeEnabled() bool {
	for i := 0; i < NumRanges; i++ {
		if c.Control.RangeEnabled(i) {
			return true
		}
	}
	return false
}
