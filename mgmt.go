package flashraid

import "periph.io/x/conn/v3/gpio"

// Management SPI opcodes, one transaction per chip-select window:
// command byte, register address byte, then one data byte written by
// the master (write) or shifted out by the controller (read).
const (
	MgmtCmdWrite = 0x02
	MgmtCmdRead  = 0x03
)

// mgmtEngine is the byte-framing engine of the management SPI slave
// port, mode 0, MSB first: MOSI sampled on the rising SCLK edge, MISO
// updated on the falling edge.
type mgmtEngine struct {
	lastCS   gpio.Level
	lastSCLK gpio.Level

	nbits    int
	shiftIn  byte
	shiftOut byte
	cmd      byte
	addr     byte
	miso     gpio.Level
}

func (e *mgmtEngine) reset() {
	e.lastCS = gpio.High
	e.lastSCLK = gpio.Low
	e.abort()
}

func (e *mgmtEngine) abort() {
	e.nbits = 0
	e.shiftIn = 0
	e.shiftOut = 0
	e.cmd = 0
	e.addr = 0
	e.miso = gpio.Low
}

// tick samples the management port lines once and returns the MISO
// level to present. Register accesses happen on the regfile the moment
// their framing completes.
func (e *mgmtEngine) tick(rf *registerFile, csn, sclk, mosi gpio.Level) gpio.Level {
	defer func() {
		e.lastCS = csn
		e.lastSCLK = sclk
	}()

	if csn == gpio.High {
		e.abort()
		return e.miso
	}
	if e.lastCS == gpio.High {
		// Chip select falling edge starts a fresh frame.
		e.abort()
	}

	switch {
	case e.lastSCLK == gpio.Low && sclk == gpio.High:
		e.shiftIn <<= 1
		if mosi == gpio.High {
			e.shiftIn |= 1
		}
		e.nbits++
		switch e.nbits {
		case 8:
			e.cmd = e.shiftIn
		case 16:
			e.addr = e.shiftIn
			if e.cmd == MgmtCmdRead {
				e.shiftOut = rf.read(e.addr)
			}
		case 24:
			if e.cmd == MgmtCmdWrite {
				rf.write(e.addr, e.shiftIn)
			}
		}
		// Bits past the data byte are ignored; the frame stays inert
		// until chip select rises.

	case e.lastSCLK == gpio.High && sclk == gpio.Low:
		if e.cmd == MgmtCmdRead && e.nbits >= 16 && e.nbits < 24 {
			if e.shiftOut&0x80 != 0 {
				e.miso = gpio.High
			} else {
				e.miso = gpio.Low
			}
			e.shiftOut <<= 1
		} else {
			e.miso = gpio.Low
		}
	}

	return e.miso
}
