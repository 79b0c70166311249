package types

// Register is an I/O register as seen from the bus. A Cell is
// the plain implementation; components that must observe writes
// provide their own.
type Register interface {
	Value() uint8
	Set(v uint8)
}

var _ Register = (*Cell)(nil)

// Cell is an 8-bit storage cell used to model the hardware
// registers mapped into the I/O region. Individual bits of a
// Cell can be locked to a fixed value, after which every write
// to the Cell, whole or per bit, has the locked bits forced back
// to their pinned value.
//
// Locking is not a write mask: the pinned value is applied
// continuously, so locking a bit to 1 that currently reads 0
// changes the value immediately.
type Cell struct {
	value  uint8
	locked uint8 // mask of locked bits
	pinned uint8 // values of the locked bits
}

// NewCell returns a Cell holding the given value.
func NewCell(value uint8) *Cell {
	return &Cell{value: value}
}

// Value returns the current value of the cell.
func (c *Cell) Value() uint8 {
	return c.value
}

// Set writes v to the cell, subject to the locked bits.
func (c *Cell) Set(v uint8) {
	c.value = v&^c.locked | c.pinned&c.locked
}

// Bit reports whether bit i (0-7) is set.
func (c *Cell) Bit(i uint8) bool {
	return c.value&(1<<i) != 0
}

// SetBit writes a single bit of the cell, subject to the locked bits.
func (c *Cell) SetBit(i uint8, v bool) {
	if v {
		c.Set(c.value | 1<<i)
	} else {
		c.Set(c.value &^ (1 << i))
	}
}

// Lock pins bit i to v. Locking an already locked bit replaces
// its pinned value.
func (c *Cell) Lock(i uint8, v bool) {
	c.LockMask(1<<i, v)
}

// LockRange pins n consecutive bits starting at bit start to v.
func (c *Cell) LockRange(start, n uint8, v bool) {
	c.LockMask(BitRange(start, n), v)
}

// LockMask pins every bit set in mask to v.
func (c *Cell) LockMask(mask uint8, v bool) {
	c.locked |= mask
	if v {
		c.pinned |= mask
	} else {
		c.pinned &^= mask
	}
	c.Set(c.value)
}

// Unlock releases bit i. The bit keeps its pinned value until
// the next write.
func (c *Cell) Unlock(i uint8) {
	c.locked &^= 1 << i
	c.pinned &^= 1 << i
}

// Locked reports whether bit i is locked.
func (c *Cell) Locked(i uint8) bool {
	return c.locked&(1<<i) != 0
}

var _ Stater = (*Cell)(nil)

// Load implements the Stater interface.
func (c *Cell) Load(s *State) {
	c.value = s.Read8()
	c.locked = s.Read8()
	c.pinned = s.Read8()
}

// Save implements the Stater interface.
func (c *Cell) Save(s *State) {
	s.Write8(c.value)
	s.Write8(c.locked)
	s.Write8(c.pinned)
}
