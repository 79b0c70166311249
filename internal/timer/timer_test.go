package timer

import (
	"testing"

	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/types"
)

func newTimer() (*Controller, *interrupts.Service) {
	irq := interrupts.NewService()
	return NewController(irq), irq
}

func TestController_Divider(t *testing.T) {
	c, _ := newTimer()
	div := c.Register(types.DIV)

	c.Advance(256 * 3)
	if v := div.Value(); v != 3 {
		t.Errorf("expected DIV 3, got %d", v)
	}

	div.Set(0x55)
	if v := div.Value(); v != 0 || c.Counter() != 0 {
		t.Errorf("expected write to reset the counter, got DIV %d counter %d", v, c.Counter())
	}
}

func TestController_Frequencies(t *testing.T) {
	for sel, period := range []int{1024, 16, 64, 256} {
		c, _ := newTimer()
		c.Register(types.TAC).Set(0x04 | uint8(sel))
		c.Advance(period * 10)

		if v := c.Register(types.TIMA).Value(); v != 10 {
			t.Errorf("TAC %d: expected 10 increments over %d cycles, got %d", sel, period*10, v)
		}
	}
}

func TestController_Disabled(t *testing.T) {
	c, _ := newTimer()
	c.Register(types.TAC).Set(0x01)
	c.Advance(4096)

	if v := c.Register(types.TIMA).Value(); v != 0 {
		t.Errorf("expected disabled timer to hold, got %d", v)
	}
	if v := c.Register(types.TAC).Value(); v != 0xF9 {
		t.Errorf("expected TAC upper bits to read 1, got 0x%02X", v)
	}
}

func TestController_Overflow(t *testing.T) {
	c, irq := newTimer()
	tima := c.Register(types.TIMA)
	c.Register(types.TMA).Set(0xF0)
	c.Register(types.TAC).Set(0x05) // 16 cycles per tick
	tima.Set(0xFF)

	c.Advance(16)
	if v := tima.Value(); v != 0 {
		t.Fatalf("expected TIMA to read 0 right after overflow, got 0x%02X", v)
	}
	if irq.Requested(interrupts.TimerFlag) {
		t.Fatalf("interrupt requested before the reload")
	}

	c.Advance(reloadDelay)
	if v := tima.Value(); v != 0xF0 {
		t.Errorf("expected TIMA reloaded with 0xF0, got 0x%02X", v)
	}
	if !irq.Requested(interrupts.TimerFlag) {
		t.Errorf("expected timer interrupt")
	}
}

func TestController_CancelReload(t *testing.T) {
	c, irq := newTimer()
	tima := c.Register(types.TIMA)
	c.Register(types.TMA).Set(0xF0)
	c.Register(types.TAC).Set(0x05)
	tima.Set(0xFF)

	c.Advance(16)
	tima.Set(0x10)
	c.Advance(reloadDelay)

	if v := tima.Value(); v != 0x10 {
		t.Errorf("expected written value to survive, got 0x%02X", v)
	}
	if irq.Requested(interrupts.TimerFlag) {
		t.Errorf("cancelled reload requested an interrupt")
	}
}

func TestController_DividerResetEdge(t *testing.T) {
	c, _ := newTimer()
	c.Register(types.TAC).Set(0x05) // bit 3
	c.Advance(8)                    // bit 3 now high

	c.Register(types.DIV).Set(0)
	if v := c.Register(types.TIMA).Value(); v != 1 {
		t.Errorf("expected DIV reset to tick TIMA, got %d", v)
	}
}

func TestController_State(t *testing.T) {
	c, _ := newTimer()
	c.Register(types.TAC).Set(0x06)
	c.Advance(1000)

	s := types.NewState()
	c.Save(s)

	d, _ := newTimer()
	d.Load(types.StateFromBytes(s.Bytes()))
	c.Advance(5000)
	d.Advance(5000)

	if c.Counter() != d.Counter() || c.Register(types.TIMA).Value() != d.Register(types.TIMA).Value() {
		t.Errorf("restored timer diverged")
	}
}
