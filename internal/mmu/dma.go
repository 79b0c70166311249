package mmu

import "github.com/thelolagemann/coreboy/internal/ppu"

// DMA is the OAM DMA controller. Writing n to types.DMA copies the
// 160 bytes at n<<8 into OAM, one byte every 4 cycles.
type DMA struct {
	enabled bool

	timer  uint32 // cycles since the transfer started
	source uint16
	index  uint8 // next OAM byte
}

// Start begins a transfer from value<<8, restarting any transfer
// in progress. Sources above the echo RAM read from work RAM, as the
// DMA controller can never read OAM.
func (d *DMA) Start(value uint8) {
	d.source = uint16(value) << 8
	if d.source >= 0xFE00 {
		d.source -= 0x2000
	}
	d.timer = 0
	d.index = 0
	d.enabled = true
}

// IsTransferring reports whether a transfer is in progress.
func (d *DMA) IsTransferring() bool {
	return d.enabled
}

// tickDMA runs the DMA controller for the given number of cycles.
func (m *MMU) tickDMA(cycles int) {
	d := m.dma
	for ; cycles > 0 && d.enabled; cycles-- {
		d.timer++

		// every 4 ticks, transfer a byte
		if d.timer%4 == 0 {
			m.Video.WriteOAM(d.index, m.read(d.source+uint16(d.index)))
			d.index++

			if int(d.index) == ppu.OAMSize {
				d.enabled = false
			}
		}
	}
}
