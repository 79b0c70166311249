package lcd

import "testing"

func TestDecode(t *testing.T) {
	c := Decode(0x91)
	if !c.Enabled || !c.BackgroundEnabled || c.WindowEnabled || c.SpriteEnabled {
		t.Errorf("unexpected flags for 0x91: %+v", c)
	}
	if c.TileDataAddress != 0x8000 || c.BackgroundTileMapAddress != 0x9800 {
		t.Errorf("unexpected addresses for 0x91: %+v", c)
	}

	c = Decode(0x4E)
	if c.WindowTileMapAddress != 0x9C00 || c.BackgroundTileMapAddress != 0x9C00 || c.SpriteSize != 16 {
		t.Errorf("unexpected decode for 0x4E: %+v", c)
	}
}

func TestController_TileAddress(t *testing.T) {
	unsigned := Decode(0x10)
	signed := Decode(0x00)

	tests := []struct {
		c     Controller
		index uint8
		want  uint16
	}{
		{unsigned, 0x00, 0x8000},
		{unsigned, 0xFF, 0x8FF0},
		{signed, 0x00, 0x9000},
		{signed, 0x7F, 0x97F0},
		{signed, 0x80, 0x8800},
		{signed, 0xFF, 0x8FF0},
	}
	for _, tt := range tests {
		if got := tt.c.TileAddress(tt.index); got != tt.want {
			t.Errorf("TileAddress(0x%02X) signed=%v: expected 0x%04X, got 0x%04X", tt.index, tt.c.UsingSignedTileData(), tt.want, got)
		}
	}
}

func TestInterruptBit(t *testing.T) {
	if _, ok := InterruptBit(TransferringData); ok {
		t.Errorf("TransferringData has no STAT interrupt")
	}
	if b, _ := InterruptBit(AccessingOAM); b != 5 {
		t.Errorf("expected OAM interrupt on bit 5, got %d", b)
	}
}
