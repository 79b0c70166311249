package joypad

import "testing"

func TestState_Selection(t *testing.T) {
	s := New()
	s.Update(Input{A: true, Down: true})

	if v := s.Value(); v != 0xFF {
		t.Errorf("expected 0xFF with nothing selected, got 0x%02X", v)
	}

	// select directions
	s.Set(0x20)
	if v := s.Value(); v != 0xE7 {
		t.Errorf("expected 0xE7 (down), got 0x%02X", v)
	}

	// select actions
	s.Set(0x10)
	if v := s.Value(); v != 0xDE {
		t.Errorf("expected 0xDE (A), got 0x%02X", v)
	}

	// both groups share the lines
	s.Set(0x00)
	if v := s.Value(); v != 0xC6 {
		t.Errorf("expected 0xC6, got 0x%02X", v)
	}
}

func TestState_FallingEdge(t *testing.T) {
	s := New()
	s.Set(0x10) // actions

	if s.Update(Input{Up: true}) {
		t.Errorf("unselected group raised an edge")
	}
	if !s.Update(Input{Up: true, Start: true}) {
		t.Errorf("expected an edge when start is pressed")
	}
	if s.Update(Input{Up: true, Start: true}) {
		t.Errorf("held button raised a second edge")
	}
	if s.Update(Input{}) {
		t.Errorf("release raised an edge")
	}
}

func TestInput_PressRelease(t *testing.T) {
	in := Input{}.Press(ButtonStart).Press(ButtonLeft)
	if !in.Start || !in.Left || in.A {
		t.Errorf("unexpected input %+v", in)
	}
	in = in.Release(ButtonStart)
	if in.Start || !in.Left {
		t.Errorf("unexpected input %+v", in)
	}
}
