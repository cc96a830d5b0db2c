package flashraid

import (
	"errors"
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// Device is a controller board reached through an FT2232H wired to the
// management SPI port.
type Device struct {
	FTDI *ftdi.FT232H
	Mgmt *Client

	cs     gpio.PinIO // ADBUS4 management chip select
	reset  gpio.PinIO // ADBUS7 controller reset (active low)
	enable gpio.PinIO // ADBUS6 controller enable

	clock physic.Frequency
	conn  spi.Conn
}

var hostInitialized atomic.Bool

// NewDevice finds an FT2232H device and opens the MPSSE/SPI connection
// to the controller's management port.
func NewDevice() (*Device, error) {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	d := &Device{
		// The management port is the low-speed side of the controller;
		// 1MHz keeps well inside its sampling budget.
		clock: 1 * physic.MegaHertz,
	}
	if err := d.findFT2232H(); err != nil {
		return nil, err
	}

	// ADBUS0 | MGMT_SCLK
	// ADBUS1 | MGMT_MOSI
	// ADBUS2 | MGMT_MISO
	// ADBUS4 | MGMT_CS_B
	// ADBUS6 | CTRL_ENA
	// ADBUS7 | CTRL_RST_B
	d.cs = d.FTDI.D4
	d.enable = d.FTDI.D6
	d.reset = d.FTDI.D7

	if err := d.connectSPI(); err != nil {
		return nil, err
	}

	d.Mgmt = NewClient(d.conn, d.cs)

	return d, nil
}

// Reset asserts (low) or deasserts (high) the controller reset line.
// Reset returns the register file to defaults and idles all routing.
func (d *Device) Reset(l gpio.Level) error {
	return d.reset.Out(l)
}

// Enable drives the controller's hardware enable line. While low the
// controller holds every flash chip select deasserted.
func (d *Device) Enable(l gpio.Level) error {
	return d.enable.Out(l)
}

func (d *Device) findFT2232H() error {
	const (
		vendorID  = 0x0403 // FTDI
		productID = 0x6010 // FT2232H
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID || info.DevID != productID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			d.FTDI = ft
			return nil
		}
	}

	return errors.New("not found")
}

func (d *Device) connectSPI() (err error) {
	if d.FTDI == nil {
		return errors.New("FT2232H device not found")
	}

	port, err := d.FTDI.SPI()
	if err != nil {
		return fmt.Errorf("failed to get SPI port: %w", err)
	}

	// [FTDI AN_114|1.2]> FTDI device can only support mode 0 and mode 2
	// due to the limitation of MPSSE engine; the management port
	// samples on the rising edge (mode 0).
	mode := spi.Mode0
	d.conn, err = port.Connect(d.clock, mode, 8)
	return err
}
