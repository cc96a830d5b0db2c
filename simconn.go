package flashraid

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
)

// MgmtPort exposes the model's management port as an SPI connection
// plus chip-select pin, so a Client can be exercised against the model
// the same way it drives real silicon. Each transferred byte is
// bit-banged into the management clock domain, mode 0, MSB first.
func (c *Controller) MgmtPort() (spi.Conn, gpio.PinIO) {
	pin := &simCSPin{
		Pin: gpiotest.Pin{N: "MGMT_CS", Num: 0, L: gpio.High},
		c:   c,
	}
	return &simConn{c: c, cs: pin}, pin
}

// simCSPin is the management chip-select line. Driving it ticks the
// management domain once so the framing engine observes the edge.
type simCSPin struct {
	gpiotest.Pin
	c *Controller
}

func (p *simCSPin) Out(l gpio.Level) error {
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	p.c.TickMgmt(l, gpio.Low, gpio.Low)
	return nil
}

type simConn struct {
	c  *Controller
	cs *simCSPin
}

func (s *simConn) String() string { return "flashraid(sim)" }

func (s *simConn) Duplex() conn.Duplex { return conn.Full }

func (s *simConn) Tx(w, r []byte) error {
	if len(w) != 0 && len(r) != 0 && len(w) != len(r) {
		return fmt.Errorf("unequal buffer lengths %d and %d", len(w), len(r))
	}
	n := len(w)
	if n == 0 {
		n = len(r)
	}
	cs := s.cs.Read()
	for i := 0; i < n; i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		in := s.txByte(cs, b)
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

func (s *simConn) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := s.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

func (s *simConn) txByte(cs gpio.Level, b byte) byte {
	var in byte
	for bit := 7; bit >= 0; bit-- {
		mosi := gpio.Low
		if b&(1<<uint(bit)) != 0 {
			mosi = gpio.High
		}
		s.c.TickMgmt(cs, gpio.Low, mosi)
		miso := s.c.TickMgmt(cs, gpio.High, mosi)
		in <<= 1
		if miso == gpio.High {
			in |= 1
		}
	}
	s.c.TickMgmt(cs, gpio.Low, gpio.Low)
	return in
}
