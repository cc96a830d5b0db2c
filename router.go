package flashraid

import "periph.io/x/conn/v3/gpio"

type routerState uint8

const (
	stateIdle routerState = iota
	stateRouting
	stateActive
)

// headerBits is the routed part of a flash transaction: one command
// byte followed by a 24-bit address. The router consumes these bits to
// pick a target before any flash chip select is asserted.
const headerBits = 32

// route is a resolved routing decision for one transaction.
type route struct {
	sel  [numFlash]bool // flash chip selects to assert
	miso int            // flash index MISO is returned from
}

var noRoute = route{miso: -1}

// hostRouter is the per-host mode/routing state machine. It owns the
// host's synchronizer and the routing decision for the transaction in
// flight. All state is clocked by that host's domain.
type hostRouter struct {
	host Host
	sync synchronizer

	state    routerState
	lastSCLK gpio.Level
	header   uint32
	nbits    int
	route    route
	pins     HostPins // last sampled host lines, passed through while active
}

func (r *hostRouter) reset(cfg Config) {
	r.sync.reset(cfg)
	r.state = stateIdle
	r.lastSCLK = gpio.Low
	r.header = 0
	r.nbits = 0
	r.route = noRoute
	r.pins = HostPins{CSN: gpio.High}
}

// tick advances the router by one host-domain clock. src is the
// current management-domain register snapshot feeding the
// synchronizer; enable is the hardware enable line.
func (r *hostRouter) tick(pins HostPins, src Config, enable bool) {
	cs := pins.CSN == gpio.Low && enable
	r.sync.tick(src, !cs)
	r.pins = pins

	if !enable {
		r.state = stateIdle
		r.route = noRoute
		r.lastSCLK = pins.SCLK
		return
	}

	switch r.state {
	case stateIdle:
		if cs {
			r.header = 0
			r.nbits = 0
			r.route = noRoute
			r.state = stateRouting
			sh := r.sync.shadow
			if !sh.Control.Enabled() || !sh.anyRangeEnabled() {
				// Nothing address-dependent to wait for.
				r.route = resolveGlobal(sh, r.host)
				r.state = stateActive
			}
		}

	case stateRouting:
		if !cs {
			r.state = stateIdle
			r.route = noRoute
			break
		}
		if r.lastSCLK == gpio.Low && pins.SCLK == gpio.High {
			r.header = r.header<<1 | bitOf(pins.MOSI)
			r.nbits++
			if r.nbits == headerBits {
				r.route = resolveAddr(r.sync.shadow, r.host, r.header&AddrMask)
				r.state = stateActive
			}
		}

	case stateActive:
		if !cs {
			r.state = stateIdle
			r.route = noRoute
		}
	}

	r.lastSCLK = pins.SCLK
}

// resolveGlobal decides routing from the control register alone, used
// when no range is enabled or no enabled range matched.
func resolveGlobal(cfg Config, h Host) route {
	ctl := cfg.Control
	if !ctl.Enabled() {
		return noRoute
	}
	if !ctl.Switch() {
		// SHARE: the granted host mirrors to both flashes and reads
		// back from the primary. The other host's transaction runs on
		// the host side but never reaches a flash.
		if ctl.ActiveHost() != h {
			return noRoute
		}
		return route{sel: [numFlash]bool{true, true}, miso: FlashA}
	}
	// SWITCH: static binding, main to flash A, secondary to flash B.
	f := FlashA
	if h == SecondaryHost {
		f = FlashB
	}
	return oneFlash(f)
}

// resolveAddr decides routing once the transaction address is known.
// A matched range overrides the global mode and routes the transaction
// exclusively to flash (index & 1).
func resolveAddr(cfg Config, h Host, addr uint32) route {
	ctl := cfg.Control
	if !ctl.Enabled() {
		return noRoute
	}
	i, ok := cfg.Match(addr)
	if !ok {
		return resolveGlobal(cfg, h)
	}
	if !ctl.Switch() && ctl.ActiveHost() != h {
		return noRoute
	}
	return oneFlash(i & 1)
}

func oneFlash(f int) route {
	rt := route{miso: f}
	rt.sel[f] = true
	return rt
}

func bitOf(l gpio.Level) uint32 {
	if l == gpio.High {
		return 1
	}
	return 0
}
