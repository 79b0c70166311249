package mmu

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/thelolagemann/coreboy/internal/boot"
	"github.com/thelolagemann/coreboy/internal/cartridge"
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/joypad"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/internal/ppu/lcd"
	"github.com/thelolagemann/coreboy/internal/serial"
	"github.com/thelolagemann/coreboy/internal/timer"
	"github.com/thelolagemann/coreboy/internal/types"
)

type fixture struct {
	bus   *MMU
	video *ppu.PPU
	irq   *interrupts.Service
	hook  *test.Hook
}

func newFixture(t *testing.T, program ...byte) *fixture {
	t.Helper()
	l, hook := test.NewNullLogger()
	cart, err := cartridge.New(cartridge.NewImage(cartridge.ROM, 0x00, 0x00, "BUS TEST", program...), l)
	if err != nil {
		t.Fatal(err)
	}

	irq := interrupts.NewService()
	video := ppu.New(irq, l)
	bus := NewMMU(cart, video, irq, joypad.New(), timer.NewController(irq), serial.NewController(irq), l)
	hook.Reset()
	return &fixture{bus: bus, video: video, irq: irq, hook: hook}
}

func (f *fixture) count(level logrus.Level) int {
	n := 0
	for _, e := range f.hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

func newBootROM(t *testing.T) *boot.ROM {
	t.Helper()
	raw := make([]byte, boot.Size)
	for i := range raw {
		raw[i] = 0xB0
	}
	rom, err := boot.LoadBootROM(raw)
	if err != nil {
		t.Fatal(err)
	}
	return rom
}

func TestMMU_Cartridge(t *testing.T) {
	f := newFixture(t, 0x3E, 0x42)

	if v := f.bus.Read(0x0150); v != 0x3E {
		t.Errorf("expected program byte 0x3E, got 0x%02X", v)
	}
	if v := f.bus.Read(0x0147); v != uint8(cartridge.ROM) {
		t.Errorf("expected cartridge type in header, got 0x%02X", v)
	}
	if f.bus.BootEnabled() {
		t.Errorf("boot overlay enabled without a boot ROM")
	}
}

func TestMMU_BootOverlay(t *testing.T) {
	f := newFixture(t)
	f.bus.SetBootROM(newBootROM(t))

	if !f.bus.BootEnabled() {
		t.Fatalf("expected the boot overlay to be enabled")
	}
	if v := f.bus.Read(0x0000); v != 0xB0 {
		t.Errorf("expected the boot ROM at 0x0000, got 0x%02X", v)
	}
	if v := f.bus.Read(0x0100); v != 0x00 {
		t.Errorf("expected the cartridge at 0x0100, got 0x%02X", v)
	}

	f.bus.Write(types.BOOT, 0x01)
	if f.bus.BootEnabled() {
		t.Fatalf("expected the boot overlay to be disabled")
	}

	// no value ever brings the overlay back
	for v := 0; v < 0x100; v++ {
		f.bus.Write(types.BOOT, uint8(v))
		if f.bus.BootEnabled() {
			t.Fatalf("writing 0x%02X re-enabled the boot overlay", v)
		}
	}
	if v := f.bus.Read(0x0000); v == 0xB0 {
		t.Errorf("boot ROM still visible")
	}
}

func TestMMU_BootOverlayIgnoresZero(t *testing.T) {
	f := newFixture(t)
	f.bus.SetBootROM(newBootROM(t))

	f.bus.Write(types.BOOT, 0x00)
	if !f.bus.BootEnabled() {
		t.Errorf("writing 0 disabled the boot overlay")
	}
	if v := f.bus.Read(types.BOOT); v != 0xFE {
		t.Errorf("expected BOOT to read 0xFE, got 0x%02X", v)
	}
}

func TestMMU_WorkRAM(t *testing.T) {
	f := newFixture(t)

	f.bus.Write(0xC123, 0x55)
	if v := f.bus.Read(0xE123); v != 0x55 {
		t.Errorf("expected echo of 0xC123 at 0xE123, got 0x%02X", v)
	}
	f.bus.Write(0xFDFF, 0x66)
	if v := f.bus.Read(0xDDFF); v != 0x66 {
		t.Errorf("expected echo write to reach 0xDDFF, got 0x%02X", v)
	}
}

func TestMMU_Unusable(t *testing.T) {
	f := newFixture(t)

	for _, address := range []uint16{0xFEA0, 0xFEFF} {
		if v := f.bus.Read(address); v != 0xFF {
			t.Errorf("expected 0xFF from 0x%04X, got 0x%02X", address, v)
		}
		f.bus.Write(address, 0x12)
	}
	if n := f.count(logrus.WarnLevel); n != 4 {
		t.Errorf("expected 4 warnings, got %d", n)
	}
}

func TestMMU_InterruptEnable(t *testing.T) {
	f := newFixture(t)

	f.bus.Write(0xFFFF, 0x1F)
	if v := f.irq.Enable.Value(); v != 0x1F {
		t.Errorf("expected IE 0x1F, got 0x%02X", v)
	}
	if v := f.bus.Read(0xFFFF); v != 0x1F {
		t.Errorf("expected 0xFFFF to read IE, got 0x%02X", v)
	}
	f.bus.Write(0xFFFF, 0x00)
	if v := f.bus.Read(0xFFFF); v != 0x00 {
		t.Errorf("expected IE to clear fully, got 0x%02X", v)
	}
	if v := f.bus.zRAM.Read(0x7F); v != 0x1F {
		t.Errorf("expected zero page RAM to hold the write, got 0x%02X", v)
	}

	f.bus.Write(0xFF80, 0x99)
	if v := f.bus.Read(0xFF80); v != 0x99 {
		t.Errorf("expected zero page RAM at 0xFF80, got 0x%02X", v)
	}
}

func TestMMU_LockedRegisters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		address uint16
		write   uint8
		want    uint8
	}{
		{types.IF, 0x00, 0xE0},
		{types.IF, 0x01, 0xE1},
		{types.TAC, 0x00, 0xF8},
		{types.SC, 0x00, 0x7E},
		{types.P1, 0x00, 0xCF},
		{types.BOOT, 0x00, 0xFF},
		{0xFF03, 0x00, 0xFF}, // undefined
		{0xFF7F, 0x00, 0xFF}, // undefined
		{0xFF51, 0x12, 0xFF}, // HDMA1, CGB only
		{0xFF55, 0x12, 0xFF}, // HDMA5, CGB only
	}
	for _, tt := range tests {
		f.bus.Write(tt.address, tt.write)
		if v := f.bus.Read(tt.address); v != tt.want {
			t.Errorf("0x%04X: wrote 0x%02X, expected 0x%02X, got 0x%02X", tt.address, tt.write, tt.want, v)
		}
	}
}

func TestMMU_Audio(t *testing.T) {
	f := newFixture(t)

	if v := f.bus.Read(0xFF26); v != 0xFF {
		t.Errorf("expected 0xFF from the audio block, got 0x%02X", v)
	}
	f.bus.Write(0xFF30, 0x12)
	if n := f.count(logrus.ErrorLevel); n != 2 {
		t.Errorf("expected 2 errors, got %d", n)
	}
}

func TestMMU_VideoRestriction(t *testing.T) {
	f := newFixture(t)
	f.bus.Write(0x8000, 0x11)
	f.bus.Write(types.LCDC, 0x80)
	f.bus.Advance(lcd.OAMCycles)

	if v := f.bus.Read(0x8000); v != 0xFF {
		t.Errorf("expected VRAM blocked during TransferringData, got 0x%02X", v)
	}
	f.bus.Advance(lcd.TransferCycles)
	if v := f.bus.Read(0x8000); v != 0x11 {
		t.Errorf("expected VRAM open during HBlank, got 0x%02X", v)
	}
	if v := f.bus.Read(types.STAT) & 0x03; v != uint8(lcd.HBlank) {
		t.Errorf("expected STAT to report HBlank, got %d", v)
	}
}

func TestMMU_Input(t *testing.T) {
	f := newFixture(t)
	f.bus.Write(types.P1, 0x10) // actions

	f.bus.SetInput(joypad.Input{A: true})
	if !f.irq.Requested(interrupts.JoypadFlag) {
		t.Fatalf("expected joypad interrupt")
	}
	if v := f.bus.Read(types.P1); v != 0xDE {
		t.Errorf("expected P1 0xDE, got 0x%02X", v)
	}

	// requests latch until cleared
	f.bus.SetInput(joypad.Input{A: true})
	if !f.irq.Requested(interrupts.JoypadFlag) {
		t.Errorf("expected request to persist")
	}
}

func TestMMU_DMA(t *testing.T) {
	f := newFixture(t)
	for i := uint16(0); i < ppu.OAMSize; i++ {
		f.bus.Write(0xC000+i, uint8(i))
	}

	f.bus.Write(types.DMA, 0xC0)
	if v := f.bus.Read(0xFE00); v != 0xFF {
		t.Errorf("expected OAM to read 0xFF during DMA, got 0x%02X", v)
	}

	f.bus.Advance(4 * ppu.OAMSize)
	for i := uint16(0); i < ppu.OAMSize; i++ {
		if v := f.bus.Read(0xFE00 + i); v != uint8(i) {
			t.Fatalf("OAM 0x%02X: expected 0x%02X, got 0x%02X", i, uint8(i), v)
		}
	}
	if v := f.bus.Read(types.DMA); v != 0xC0 {
		t.Errorf("expected DMA to read back 0xC0, got 0x%02X", v)
	}
}

func TestMMU_Timer(t *testing.T) {
	f := newFixture(t)
	f.bus.Write(types.TAC, 0x05)
	f.bus.Advance(16 * 4)

	if v := f.bus.Read(types.TIMA); v != 4 {
		t.Errorf("expected TIMA 4, got %d", v)
	}
	f.bus.Write(types.DIV, 0x00)
	if v := f.bus.Read(types.DIV); v != 0 {
		t.Errorf("expected DIV reset, got %d", v)
	}
}

func TestMMU_State(t *testing.T) {
	f := newFixture(t)
	f.bus.Write(0xC000, 0x12)
	f.bus.Write(0xFF90, 0x34)
	f.bus.Write(0xFFFF, 0x05)
	f.irq.Request(interrupts.TimerFlag)

	s := types.NewState()
	f.bus.Save(s)

	g := newFixture(t)
	g.bus.Load(types.StateFromBytes(s.Bytes()))

	if g.bus.Read(0xC000) != 0x12 || g.bus.Read(0xFF90) != 0x34 {
		t.Errorf("restored RAM differs")
	}
	if g.bus.Read(0xFFFF) != 0xE5 || !g.irq.Requested(interrupts.TimerFlag) {
		t.Errorf("restored interrupt registers differ")
	}
}
