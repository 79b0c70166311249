package gameboy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/thelolagemann/coreboy/internal/cartridge"
	"github.com/thelolagemann/coreboy/internal/types"
)

var (
	// ErrStateInvalid is returned when a save state can not be decoded.
	ErrStateInvalid = errors.New("gameboy: invalid save state")
	// ErrStateMismatch is returned when a save state was taken from
	// another cartridge.
	ErrStateMismatch = errors.New("gameboy: save state is for another cartridge")
)

const (
	stateMagic   = "CBST"
	stateVersion = 1
)

var _ types.Stater = (*GameBoy)(nil)

// Save saves the state of every component. The cartridge variant
// is written as a tag byte ahead of its state.
func (g *GameBoy) Save(s *types.State) {
	g.CPU.Save(s)
	g.MMU.Save(s)
	g.PPU.Save(s)
	g.Timer.Save(s)
	g.Serial.Save(s)
	s.Write8(uint8(g.Cartridge.Kind()))
	g.Cartridge.Save(s)
}

// Load loads the state of every component, in the order written by
// Save. The cartridge state is skipped when its tag does not match
// the cartridge in use.
func (g *GameBoy) Load(s *types.State) {
	g.CPU.Load(s)
	g.MMU.Load(s)
	g.PPU.Load(s)
	g.Timer.Load(s)
	g.Serial.Load(s)
	if cartridge.Kind(s.Read8()) != g.Cartridge.Kind() {
		g.Warnf("gameboy: save state cartridge variant does not match %s", g.Cartridge.Kind())
		return
	}
	g.Cartridge.Load(s)
}

// SaveState returns a brotli compressed snapshot of the GameBoy.
func (g *GameBoy) SaveState() ([]byte, error) {
	s := types.NewState()
	s.WriteData([]byte(stateMagic))
	s.Write8(stateVersion)
	header := g.Cartridge.Header()
	s.Write8(header.HeaderChecksum)
	s.Write16(header.GlobalChecksum)
	g.Save(s)

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(s.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadState restores a snapshot produced by SaveState. The GameBoy
// is left untouched if the snapshot can not be decoded or was taken
// from another cartridge.
func (g *GameBoy) LoadState(b []byte) error {
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateInvalid, err)
	}

	s := types.StateFromBytes(raw)
	magic := make([]byte, len(stateMagic))
	s.ReadData(magic)
	if string(magic) != stateMagic {
		return fmt.Errorf("%w: bad magic %q", ErrStateInvalid, magic)
	}
	if v := s.Read8(); v != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrStateInvalid, v)
	}
	checksum, global := s.Read8(), s.Read16()
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStateInvalid, err)
	}
	header := g.Cartridge.Header()
	if checksum != header.HeaderChecksum || global != header.GlobalChecksum {
		return ErrStateMismatch
	}

	// keep the current state, so that a truncated snapshot can be
	// rolled back
	backup := types.NewState()
	g.Save(backup)

	g.Load(s)
	if err := s.Err(); err != nil {
		g.Load(types.StateFromBytes(backup.Bytes()))
		return fmt.Errorf("%w: %v", ErrStateInvalid, err)
	}
	g.Infof("gameboy: loaded save state (%d bytes)", len(raw))
	return nil
}
