package flashraid

// registerFile holds the management register space. It is owned by the
// management clock domain: only the management SPI engine writes it,
// and host domains see it exclusively through synchronized shadows.
type registerFile struct {
	mem [regCount]byte
}

func (rf *registerFile) reset() {
	rf.mem = [regCount]byte{}
}

// write stores val at addr. Writes outside the register map are
// silently dropped.
func (rf *registerFile) write(addr, val byte) {
	if int(addr) < len(rf.mem) {
		rf.mem[addr] = val
	}
}

// read returns the byte at addr, or 0 outside the register map.
func (rf *registerFile) read(addr byte) byte {
	if int(addr) < len(rf.mem) {
		return rf.mem[addr]
	}
	return 0
}

// snapshot decodes the register space into a Config value. Range
// bounds are stored big-endian, high byte first.
func (rf *registerFile) snapshot() Config {
	cfg := Config{Control: Control(rf.mem[RegControl])}
	for i := 0; i < NumRanges; i++ {
		e := rf.mem[i*rangeEntryLen : i*rangeEntryLen+rangeEntryLen]
		cfg.Ranges[i] = AddrRange{
			Base:  uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2]),
			Limit: uint32(e[3])<<16 | uint32(e[4])<<8 | uint32(e[5]),
		}
	}
	return cfg
}
