// Package cpu provides an implementation of the Sharp LR35902, the
// processor core of the Game Boy. The CPU executes one instruction
// (or services one interrupt) per Step, and charges every memory
// access it makes to the Bus at 4 clock cycles apiece.
package cpu

import (
	"github.com/thelolagemann/coreboy/internal/interrupts"
	"github.com/thelolagemann/coreboy/internal/types"
	"github.com/thelolagemann/coreboy/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304

	// mCycle is the number of clock cycles taken by a single
	// memory access.
	mCycle = 4
)

// Bus is the interface the CPU uses to reach memory. Every Read and
// Write is followed by a call to Advance, so that the rest of the
// system observes time passing in step with the CPU.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Advance(cycles int)
}

// CPU represents the Game Boy's CPU.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC types.Word
	// SP is the stack pointer, it points to the top of the stack.
	SP types.Word

	// AF holds the accumulator in High and the flags in Low.
	AF types.Word
	BC types.Word
	DE types.Word
	HL types.Word

	// Debug enables the logging of every executed instruction.
	Debug bool

	ime        bool // interrupt master enable
	imePending bool // EI takes effect after the next instruction
	halted     bool
	haltBug    bool
	stopped    bool

	clock uint64
	ticks uint8

	bus Bus
	irq *interrupts.Service
	log log.Logger
}

// NewCPU creates a new CPU instance with the given bus and
// interrupt service. The CPU starts with every register cleared,
// as it would before running the boot ROM.
func NewCPU(bus Bus, irq *interrupts.Service, l log.Logger) *CPU {
	return &CPU{
		bus: bus,
		irq: irq,
		log: l,
	}
}

// Reset clears every register and flag, as at power on.
func (c *CPU) Reset() {
	c.AF.SetUint16(0)
	c.BC.SetUint16(0)
	c.DE.SetUint16(0)
	c.HL.SetUint16(0)
	c.SP.SetUint16(0)
	c.PC.SetUint16(0)
	c.ime, c.imePending = false, false
	c.halted, c.haltBug, c.stopped = false, false, false
	c.clock = 0
}

// SkipBoot loads the register values left behind by the DMG boot
// ROM, so that execution starts at the cartridge entry point.
func (c *CPU) SkipBoot() {
	c.Reset()
	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP.SetUint16(0xFFFE)
	c.PC.SetUint16(0x0100)
}

// A returns the accumulator.
func (c *CPU) A() uint8 { return c.AF.High }

// F returns the flags register.
func (c *CPU) F() uint8 { return c.AF.Low }

// IME reports whether the interrupt master enable is set.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is halted.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU is stopped.
func (c *CPU) Stopped() bool { return c.stopped }

// Clock returns the total number of clock cycles the CPU has spent.
func (c *CPU) Clock() uint64 { return c.clock }

// Step executes the next instruction, or services the highest
// priority interrupt, and returns the number of clock cycles it
// took. A halted or stopped CPU idles for 4 cycles.
//
// If the fetched opcode is not defined, Step returns an
// *UnknownOpcodeError and the CPU state is left as it was after
// the fetch.
func (c *CPU) Step() (uint8, error) {
	c.ticks = 0

	if c.ime && c.irq.HasInterrupts() {
		c.executeInterrupt()
		return c.ticks, nil
	}

	if c.stopped {
		if !c.irq.Requested(interrupts.JoypadFlag) {
			c.tickCycle()
			return c.ticks, nil
		}
		c.stopped = false
	}

	if c.halted {
		if !c.irq.HasInterrupts() {
			c.tickCycle()
			return c.ticks, nil
		}
		c.halted = false
	}

	enable := c.imePending
	if err := c.runInstruction(); err != nil {
		return c.ticks, err
	}
	if enable && c.imePending {
		c.ime = true
		c.imePending = false
	}

	return c.ticks, nil
}

func (c *CPU) runInstruction() error {
	address := c.PC.Uint16()
	opcode := c.readInstruction()

	prefixed := opcode == 0xCB
	instruction := InstructionSet[opcode]
	if prefixed {
		opcode = c.readOperand()
		instruction = InstructionSetCB[opcode]
	}

	if instruction.fn == nil {
		c.log.Errorf("cpu: unknown opcode %02X at %04X", opcode, address)
		return &UnknownOpcodeError{Opcode: opcode, Address: address, Prefixed: prefixed}
	}

	instruction.fn(c)

	if c.Debug {
		c.log.Debugf("%04X %-14s AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X",
			address, instruction.name, c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.SP.Uint16())
	}
	return nil
}

// executeInterrupt clears the request of the highest priority
// interrupt, pushes PC and jumps to its vector. It takes 5 M-cycles.
func (c *CPU) executeInterrupt() {
	vector, _ := c.irq.Next()
	c.ime = false
	c.imePending = false
	c.halted = false
	c.stopped = false

	c.tickCycle()
	c.tickCycle()
	c.push(c.PC.High, c.PC.Low)
	c.PC.SetUint16(vector)

	if c.Debug {
		c.log.Debugf("interrupt %04X", vector)
	}
}

// tickCycle spends a single M-cycle without accessing memory.
func (c *CPU) tickCycle() {
	c.ticks += mCycle
	c.clock += mCycle
	c.bus.Advance(mCycle)
}

// readByte reads a byte from memory, then advances the bus.
func (c *CPU) readByte(address uint16) uint8 {
	value := c.bus.Read(address)
	c.ticks += mCycle
	c.clock += mCycle
	c.bus.Advance(mCycle)
	return value
}

// writeByte writes a byte to memory, then advances the bus.
func (c *CPU) writeByte(address uint16, value uint8) {
	c.bus.Write(address, value)
	c.ticks += mCycle
	c.clock += mCycle
	c.bus.Advance(mCycle)
}

// readInstruction reads the opcode at PC. PC is not incremented when
// the halt bug has been triggered.
func (c *CPU) readInstruction() uint8 {
	opcode := c.readByte(c.PC.Uint16())
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC.Inc()
	}
	return opcode
}

// readOperand reads the byte at PC and increments it.
func (c *CPU) readOperand() uint8 {
	value := c.readByte(c.PC.Uint16())
	c.PC.Inc()
	return value
}

// readOperand16 reads a little endian word at PC.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return uint16(high)<<8 | uint16(low)
}

// push pushes a word onto the stack. It takes 3 M-cycles.
func (c *CPU) push(high, low uint8) {
	c.tickCycle()
	c.SP.Dec()
	c.writeByte(c.SP.Uint16(), high)
	c.SP.Dec()
	c.writeByte(c.SP.Uint16(), low)
}

// pop pops a word from the stack. It takes 2 M-cycles.
func (c *CPU) pop() (high, low uint8) {
	low = c.readByte(c.SP.Uint16())
	c.SP.Inc()
	high = c.readByte(c.SP.Uint16())
	c.SP.Inc()
	return high, low
}

var _ types.Stater = (*CPU)(nil)

// Load loads the state of the CPU.
func (c *CPU) Load(s *types.State) {
	c.PC.Load(s)
	c.SP.Load(s)
	c.AF.Load(s)
	c.BC.Load(s)
	c.DE.Load(s)
	c.HL.Load(s)
	c.ime = s.ReadBool()
	c.imePending = s.ReadBool()
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
	c.stopped = s.ReadBool()
	c.clock = s.Read64()
}

// Save saves the state of the CPU.
func (c *CPU) Save(s *types.State) {
	c.PC.Save(s)
	c.SP.Save(s)
	c.AF.Save(s)
	c.BC.Save(s)
	c.DE.Save(s)
	c.HL.Save(s)
	s.WriteBool(c.ime)
	s.WriteBool(c.imePending)
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
	s.WriteBool(c.stopped)
	s.Write64(c.clock)
}
