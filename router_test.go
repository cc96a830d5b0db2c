package flashraid

import "testing"

func TestResolveGlobal(t *testing.T) {
	share := Config{Control: CtlEnable}
	shareSec := Config{Control: CtlEnable | CtlSecondary}
	swtch := Config{Control: CtlEnable | CtlSwitch}

	cases := []struct {
		name string
		cfg  Config
		host Host
		want route
	}{
		{"disabled", Config{}, MainHost, noRoute},
		{"share main granted", share, MainHost, route{sel: [numFlash]bool{true, true}, miso: FlashA}},
		{"share secondary blocked", share, SecondaryHost, noRoute},
		{"share grant moved", shareSec, SecondaryHost, route{sel: [numFlash]bool{true, true}, miso: FlashA}},
		{"share main blocked after grant moved", shareSec, MainHost, noRoute},
		{"switch main binds flash A", swtch, MainHost, oneFlash(FlashA)},
		{"switch secondary binds flash B", swtch, SecondaryHost, oneFlash(FlashB)},
	}
	for _, c := range cases {
		if got := resolveGlobal(c.cfg, c.host); got != c.want {
			t.Errorf("%s: resolveGlobal = %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestResolveAddr(t *testing.T) {
	ranges := [NumRanges]AddrRange{
		{Base: 0x000000, Limit: 0x3FFFFF},
		{Base: 0x400000, Limit: 0x7FFFFF},
	}
	share := Config{Control: CtlEnable | CtlRange0 | CtlRange1, Ranges: ranges}
	swtch := Config{Control: CtlEnable | CtlSwitch | CtlRange0 | CtlRange1, Ranges: ranges}

	cases := []struct {
		name string
		cfg  Config
		host Host
		addr uint32
		want route
	}{
		{"range 0 overrides to flash A", share, MainHost, 0x100000, oneFlash(FlashA)},
		{"range 1 overrides to flash B", share, MainHost, 0x450000, oneFlash(FlashB)},
		{"no match falls back to global", share, MainHost, 0x800000, route{sel: [numFlash]bool{true, true}, miso: FlashA}},
		{"share non-granted host stays blocked", share, SecondaryHost, 0x100000, noRoute},
		{"switch override retargets main", swtch, MainHost, 0x450000, oneFlash(FlashB)},
		{"switch override retargets secondary", swtch, SecondaryHost, 0x100000, oneFlash(FlashA)},
		{"disabled", Config{Ranges: ranges}, MainHost, 0x100000, noRoute},
	}
	for _, c := range cases {
		if got := resolveAddr(c.cfg, c.host, c.addr); got != c.want {
			t.Errorf("%s: resolveAddr = %+v, want %+v", c.name, got, c.want)
		}
	}
}
