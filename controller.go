package flashraid

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// HostPins are the lines one SPI host drives into the controller.
type HostPins struct {
	CSN  gpio.Level
	SCLK gpio.Level
	MOSI gpio.Level
}

// FlashPins are the lines the controller drives toward one flash.
type FlashPins struct {
	CSN  gpio.Level
	SCLK gpio.Level
	MOSI gpio.Level
}

var flashIdle = FlashPins{CSN: gpio.High, SCLK: gpio.Low, MOSI: gpio.Low}

// Controller is the flash RAID controller core: the management
// register file, one routing state machine per host domain, and the
// synchronizers between them.
//
// Each clock domain is advanced by its own tick method, one call per
// destination-domain sample: TickMgmt for the management port,
// TickHost for each host port. The methods are safe to call from one
// goroutine per domain; the mutex stands in for the flop boundaries of
// the silicon. Flash-side outputs are a combinational function of the
// post-tick state, read through FlashPins.
type Controller struct {
	mu sync.Mutex

	enable  gpio.Level
	regs    registerFile
	mgmt    mgmtEngine
	routers [numHosts]hostRouter

	flashMISO [numFlash]gpio.Level
	flashWPN  [numFlash]gpio.Level
}

// NewController returns a controller in its reset state with the
// hardware enable line asserted.
func NewController() *Controller {
	c := &Controller{enable: gpio.High}
	for h := range c.routers {
		c.routers[h].host = Host(h)
	}
	c.reset()
	return c
}

// Reset forces the register file to defaults (control 0x00, all range
// bytes zero), every state machine to idle, and all flash chip selects
// deasserted. This is the only recovery path from an indeterminate
// state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Controller) reset() {
	c.regs.reset()
	c.mgmt.reset()
	cfg := c.regs.snapshot()
	for h := range c.routers {
		c.routers[h].reset(cfg)
	}
	for f := range c.flashWPN {
		c.flashWPN[f] = gpio.High
	}
}

// SetEnable drives the hardware enable line. While low the controller
// is held in a safe inactive state: no flash chip select is asserted
// regardless of register contents. Register contents are retained.
func (c *Controller) SetEnable(l gpio.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enable = l
	if l == gpio.Low {
		for h := range c.routers {
			c.routers[h].state = stateIdle
			c.routers[h].route = noRoute
		}
	}
}

// TickMgmt advances the management clock domain by one sample of the
// management SPI lines and returns the MISO level to present.
func (c *Controller) TickMgmt(csn, sclk, mosi gpio.Level) gpio.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mgmt.tick(&c.regs, csn, sclk, mosi)
}

// TickHost advances host h's clock domain by one sample of its SPI
// lines and returns the MISO level presented back to that host.
func (c *Controller) TickHost(h Host, pins HostPins) gpio.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routers[h].tick(pins, c.regs.snapshot(), c.enable == gpio.High)
	return c.hostMISO(h)
}

// FlashPins returns the lines currently driven toward flash f. While
// no transaction owns the flash the port idles with chip select
// deasserted and clock gated low.
func (c *Controller) FlashPins(f int) FlashPins {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flashPins(f)
}

func (c *Controller) flashPins(f int) FlashPins {
	h, ok := c.flashOwner(f)
	if !ok {
		return flashIdle
	}
	r := &c.routers[h]
	return FlashPins{CSN: gpio.Low, SCLK: r.pins.SCLK, MOSI: r.pins.MOSI}
}

// flashOwner returns the host whose active transaction drives flash f.
// If both routers claim the same flash (shadows can disagree for a few
// cycles around an update) the main host wins; the loser's flash-side
// signals stay inactive rather than contending on the pins.
func (c *Controller) flashOwner(f int) (Host, bool) {
	if c.enable == gpio.Low {
		return 0, false
	}
	for h := range c.routers {
		r := &c.routers[h]
		if r.state == stateActive && r.route.sel[f] {
			return Host(h), true
		}
	}
	return 0, false
}

// hostMISO selects the MISO level returned to host h: the designated
// flash's MISO while its transaction is active and it owns that flash,
// idle low otherwise.
func (c *Controller) hostMISO(h Host) gpio.Level {
	r := &c.routers[h]
	if c.enable == gpio.Low || r.state != stateActive || r.route.miso < 0 {
		return gpio.Low
	}
	f := r.route.miso
	if owner, ok := c.flashOwner(f); !ok || owner != h {
		return gpio.Low
	}
	return c.flashMISO[f]
}

// SetFlashMISO drives flash f's MISO input into the controller.
func (c *Controller) SetFlashMISO(f int, l gpio.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flashMISO[f] = l
}

// SetFlashWP drives flash f's active-low write-protect input.
func (c *Controller) SetFlashWP(f int, l gpio.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flashWPN[f] = l
}

// WriteProtected reports whether flash f's write-protect input is
// asserted.
func (c *Controller) WriteProtected(f int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flashWPN[f] == gpio.Low
}

// Shadow returns host h's domain-local copy of the configuration. It
// changes only at that host's transaction boundaries.
func (c *Controller) Shadow(h Host) Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.routers[h].sync.shadow
}
