package cartridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

// recorder is a log.Logger that counts warnings.
type recorder struct {
	warnings []string
}

func (r *recorder) Debugf(string, ...interface{}) {}
func (r *recorder) Infof(string, ...interface{})  {}
func (r *recorder) Errorf(string, ...interface{}) {}
func (r *recorder) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func TestHeader_Parse(t *testing.T) {
	rom := NewImage(MBC1RAM, 0x02, 0x03, "COREBOY TEST")
	rom[0x0040] = 0xD9
	FixChecksum(rom)

	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatal(err)
	}
	if h.Title != "COREBOY TEST" {
		t.Errorf("expected title %q, got %q", "COREBOY TEST", h.Title)
	}
	if h.CartridgeType != MBC1RAM {
		t.Errorf("expected MBC1+RAM, got %s", h.CartridgeType)
	}
	if h.ROMSize != 128*1024 || h.ROMBanks() != 8 {
		t.Errorf("expected 128kB in 8 banks, got %d in %d", h.ROMSize, h.ROMBanks())
	}
	if h.RAMSize != 32*1024 {
		t.Errorf("expected 32kB RAM, got %d", h.RAMSize)
	}
	if h.OldLicenseeCode != 0x33 || h.Destination != 0x01 {
		t.Errorf("unexpected licensee/destination %02X/%02X", h.OldLicenseeCode, h.Destination)
	}
	if !h.NoVBlankHandler || h.NoLCDHandler {
		t.Errorf("unexpected interrupt handler probes %v/%v", h.NoVBlankHandler, h.NoLCDHandler)
	}
	if err := h.Validate(rom); err != nil {
		t.Errorf("expected a valid header, got %v", err)
	}
}

func TestHeader_ExtendedROMSizes(t *testing.T) {
	for code, banks := range map[uint8]int{0x52: 72, 0x53: 80, 0x54: 96, 0x00: 2, 0x06: 128} {
		if got := decodeROMSize(code) / ROMBankSize; got != banks {
			t.Errorf("code %02X: expected %d banks, got %d", code, banks, got)
		}
	}
}

func TestNew_Checksum(t *testing.T) {
	rom := NewImage(ROM, 0x00, 0x00, "CHECKSUM")
	rom[0x014D] ^= 0xFF

	if _, err := New(rom, log.NewNullLogger()); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected checksum error, got %v", err)
	}

	FixChecksum(rom)
	if _, err := New(rom, log.NewNullLogger()); err != nil {
		t.Fatalf("expected corrected image to load, got %v", err)
	}
}

func TestNew_Length(t *testing.T) {
	rom := NewImage(ROM, 0x00, 0x00, "LENGTH")
	if _, err := New(rom[:0x4000], log.NewNullLogger()); !errors.Is(err, ErrROMSize) {
		t.Fatalf("expected length error, got %v", err)
	}
	if _, err := New(append(rom, 0x00), log.NewNullLogger()); !errors.Is(err, ErrROMSize) {
		t.Fatalf("expected length error for oversized image, got %v", err)
	}
}

func TestNew_ReportsEveryFailure(t *testing.T) {
	rom := NewImage(ROM, 0x00, 0x00, "BOTH")
	rom[0x014D]++
	_, err := New(rom[:0x6000], log.NewNullLogger())
	if !errors.Is(err, ErrROMSize) || !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestNew_Variants(t *testing.T) {
	c, err := New(NewImage(ROM, 0x00, 0x00, "ROM"), log.NewNullLogger())
	if err != nil || c.Kind() != KindROMOnly {
		t.Fatalf("expected ROM only, got %v %v", c, err)
	}
	c, err = New(NewImage(MBC1, 0x01, 0x00, "MBC1"), log.NewNullLogger())
	if err != nil || c.Kind() != KindMBC1 {
		t.Fatalf("expected MBC1, got %v %v", c, err)
	}
	if _, ok := c.(*MemoryBankedCartridge1); !ok {
		t.Errorf("expected *MemoryBankedCartridge1, got %T", c)
	}
	if c.Header().CartridgeType != MBC1 {
		t.Errorf("expected header type MBC1, got %s", c.Header().CartridgeType)
	}
	if _, err := New(NewImage(MBC3, 0x01, 0x00, "MBC3"), log.NewNullLogger()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if _, err := New(make([]byte, 0x100), log.NewNullLogger()); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated error, got %v", err)
	}
}

func TestROMOnly_Policy(t *testing.T) {
	rom := NewImage(ROM, 0x00, 0x00, "POLICY")
	rom[0x7FFF] = 0x42
	rec := &recorder{}
	c, err := New(rom, rec)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Read(0x7FFF); got != 0x42 {
		t.Errorf("expected 0x42, got 0x%02X", got)
	}
	c.Write(0x2000, 0x01)
	if got := c.Read(0xA000); got != 0xFF {
		t.Errorf("expected RAM read to return 0xFF, got 0x%02X", got)
	}
	c.Write(0xA000, 0x12)
	if len(rec.warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(rec.warnings), rec.warnings)
	}
	if c.Read(0x2000) != rom[0x2000] {
		t.Errorf("ROM write modified the image")
	}
}

// bankedImage returns an MBC1 image where the first byte of each
// bank holds the bank number.
func bankedImage(romCode, ramCode uint8) []byte {
	rom := NewImage(MBC1RAM, romCode, ramCode, "BANKS")
	for bank := 1; bank < len(rom)/ROMBankSize; bank++ {
		rom[bank*ROMBankSize] = uint8(bank)
	}
	return rom
}

func TestMBC1_ROMBanking(t *testing.T) {
	m, err := New(bankedImage(0x02, 0x00), log.NewNullLogger())
	if err != nil {
		t.Fatal(err)
	}

	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
	// only 8 banks, the number wraps
	m.Write(0x2000, 0x0B)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank 0x0B on 8 banks got %02X want 03", got)
	}
	// bits 5-7 of the ROM bank register are not decoded
	m.Write(0x2000, 0xE2)
	if got := m.Read(0x4000); got != 0x02 {
		t.Fatalf("bank 0xE2 got %02X want 02", got)
	}
}

func TestMBC1_LargeROMBankZeroAliasing(t *testing.T) {
	// 2MB, 128 banks
	m, err := New(bankedImage(0x06, 0x00), log.NewNullLogger())
	if err != nil {
		t.Fatal(err)
	}

	for high, want := range []uint8{0x01, 0x21, 0x41, 0x61} {
		m.Write(0x4000, uint8(high))
		m.Write(0x2000, 0x00)
		if got := m.Read(0x4000); got != want {
			t.Errorf("high bits %d: got bank %02X want %02X", high, got, want)
		}
	}

	m.Write(0x4000, 0x01)
	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 0x25 {
		t.Errorf("got bank %02X want 25", got)
	}

	// mode 1 maps the upper bits into 0x0000 - 0x3FFF
	if got := m.Read(0x0000); got != 0x00 {
		t.Errorf("mode 0 lower bank got %02X want 00", got)
	}
	m.Write(0x6000, 0x01)
	if got := m.Read(0x0000); got != 0x20 {
		t.Errorf("mode 1 lower bank got %02X want 20", got)
	}
}

func TestMBC1_RAM(t *testing.T) {
	rec := &recorder{}
	m, err := New(bankedImage(0x02, 0x03), rec)
	if err != nil {
		t.Fatal(err)
	}

	// disabled RAM
	m.Write(0xA000, 0x11)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %02X want FF", got)
	}
	if len(rec.warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", rec.warnings)
	}

	// only 0x0A in the lower nibble enables RAM
	m.Write(0x0000, 0x1A)
	m.Write(0xA000, 0x11)
	if got := m.Read(0xA000); got != 0x11 {
		t.Fatalf("RAM RW failed: got %02X", got)
	}
	m.Write(0x0000, 0x0B)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("expected RAM to be disabled, got %02X", got)
	}

	// mode 1 banks RAM on small ROMs
	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)
	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
	m.Write(0x6000, 0x00)
	if got := m.Read(0xA000); got != 0x11 {
		t.Fatalf("mode 0 RAM bank got %02X want 11", got)
	}
}

func TestMBC1_RAMOutOfRange(t *testing.T) {
	rec := &recorder{}
	// 2kB of RAM
	m, err := New(bankedImage(0x01, 0x01), rec)
	if err != nil {
		t.Fatal(err)
	}
	m.Write(0x0000, 0x0A)
	m.Write(0xA7FF, 0x01)
	if got := m.Read(0xA7FF); got != 0x01 {
		t.Fatalf("in range read got %02X", got)
	}
	m.Write(0xA800, 0x01)
	if got := m.Read(0xA800); got != 0xFF {
		t.Fatalf("out of range read got %02X want FF", got)
	}
	if len(rec.warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", rec.warnings)
	}
}

func TestMBC1_State(t *testing.T) {
	rom := bankedImage(0x02, 0x02)
	m, _ := New(rom, log.NewNullLogger())
	m.Write(0x0000, 0x0A)
	m.Write(0x2000, 0x05)
	m.Write(0xA123, 0x99)

	s := types.NewState()
	m.Save(s)

	loaded, _ := New(rom, log.NewNullLogger())
	loaded.Load(s)
	if s.Err() != nil {
		t.Fatal(s.Err())
	}
	if got := loaded.Read(0x4000); got != 0x05 {
		t.Errorf("expected bank 5, got %02X", got)
	}
	if got := loaded.Read(0xA123); got != 0x99 {
		t.Errorf("expected RAM to be restored, got %02X", got)
	}
}
