// Package flashraid models a dual SPI NOR flash RAID controller and
// provides the host-side management client for configuring one.
//
// The controller sits between two SPI hosts and two flash devices. In
// SHARE mode both flashes mirror the active host's transaction stream
// (RAID-1 style); in SWITCH mode each host drives its own flash. A
// low-speed management SPI port exposes a register file (one control
// byte plus an address-range table) that reconfigures routing at run
// time. Register values cross from the management clock domain into
// each host clock domain through a double-registered synchronizer
// whose output is only adopted while that host's chip select is
// deasserted, so a reconfiguration can never retarget a transaction
// with bits in flight.
//
// # References:
//
// SPI Flash
//   - [W25Q128]: W25Q128JV-DTR Winbond Serial Flash Memory (https://www.winbond.com/resource-files/W25Q128JV_DTR%20RevD%2012232024%20Plus.pdf)
//   - [N25Q32]: N25Q032A Micron Serial NOR Flash Memory datasheet (could not find the official public URL)
//
// Clock-domain crossing
//   - [CDC-SNUG]: Clock Domain Crossing (CDC) Design & Verification Techniques Using SystemVerilog (http://www.sunburst-design.com/papers/CummingsSNUG2008Boston_CDC.pdf)
//
// FTDI (management transport)
//   - [FTDI-AN_135]: FTDI MPSSE Basics (https://ftdichip.com/wp-content/uploads/2020/08/AN_135_MPSSE_Basics.pdf)
//   - [FTDI-AN_114]: Interfacing FT2232H Hi-Speed Devices To SPI Bus (https://ftdichip.com/wp-content/uploads/2020/08/AN_114_FTDI_Hi_Speed_USB_To_SPI_Example.pdf)
package flashraid
