package flashraid

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Client accesses a controller's management register file over SPI.
// Every register access is one chip-select window carrying a command
// byte, a register address and a data byte.
type Client struct {
	conn spi.Conn
	cs   gpio.PinIO
}

func NewClient(conn spi.Conn, cs gpio.PinIO) *Client {
	return &Client{conn: conn, cs: cs}
}

// tx wraps one SPI transaction with CS assertion.
func (c *Client) tx(buf []byte) (err error) {
	if err = c.cs.Out(gpio.Low); err != nil {
		return err
	}
	defer func() {
		if csErr := c.cs.Out(gpio.High); csErr != nil && err == nil {
			err = csErr
		}
	}()
	err = c.conn.Tx(buf, buf)
	return
}

// WriteReg writes val to the management register at addr. Writes
// outside the register map are dropped by the controller.
func (c *Client) WriteReg(addr, val byte) error {
	buf := []byte{MgmtCmdWrite, addr, val}
	return c.tx(buf)
}

// ReadReg reads the management register at addr. Undefined addresses
// read as 0.
func (c *Client) ReadReg(addr byte) (byte, error) {
	buf := []byte{MgmtCmdRead, addr, 0}
	if err := c.tx(buf); err != nil {
		return 0, err
	}
	return buf[2], nil
}

// Control reads the control register.
func (c *Client) Control() (Control, error) {
	v, err := c.ReadReg(RegControl)
	return Control(v), err
}

// SetControl writes the control register. The routing change reaches a
// host domain at that host's next quiescent point, not immediately.
func (c *Client) SetControl(ctl Control) error {
	return c.WriteReg(RegControl, byte(ctl))
}

// Range reads range table entry i.
func (c *Client) Range(i int) (AddrRange, error) {
	var r AddrRange
	if i < 0 || i >= NumRanges {
		return r, fmt.Errorf("range index %d out of table (%d ranges)", i, NumRanges)
	}
	var e [rangeEntryLen]byte
	for j := range e {
		v, err := c.ReadReg(RangeReg(i) + byte(j))
		if err != nil {
			return r, err
		}
		e[j] = v
	}
	r.Base = uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2])
	r.Limit = uint32(e[3])<<16 | uint32(e[4])<<8 | uint32(e[5])
	return r, nil
}

// SetRange programs range table entry i. Both bounds must fit the
// 24-bit address space and satisfy Base <= Limit; a violating entry
// would silently never match.
func (c *Client) SetRange(i int, r AddrRange) error {
	if i < 0 || i >= NumRanges {
		return fmt.Errorf("range index %d out of table (%d ranges)", i, NumRanges)
	}
	if r.Base > AddrMask || r.Limit > AddrMask {
		return fmt.Errorf("range %s out of 24-bit address space", r)
	}
	if r.Base > r.Limit {
		return fmt.Errorf("range %s has base above limit", r)
	}
	e := [rangeEntryLen]byte{
		byte(r.Base >> 16), byte(r.Base >> 8), byte(r.Base),
		byte(r.Limit >> 16), byte(r.Limit >> 8), byte(r.Limit),
	}
	for j, v := range e {
		if err := c.WriteReg(RangeReg(i)+byte(j), v); err != nil {
			return err
		}
	}
	return nil
}

// ReadConfig reads back the whole register file.
func (c *Client) ReadConfig() (Config, error) {
	var cfg Config
	ctl, err := c.Control()
	if err != nil {
		return cfg, err
	}
	cfg.Control = ctl
	for i := 0; i < NumRanges; i++ {
		if cfg.Ranges[i], err = c.Range(i); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Apply programs the whole register file. Range bounds go in before
// the control byte so range enables never briefly gate stale bounds.
func (c *Client) Apply(cfg Config) error {
	for i, r := range cfg.Ranges {
		if err := c.SetRange(i, r); err != nil {
			return err
		}
	}
	return c.SetControl(cfg.Control)
}
