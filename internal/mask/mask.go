// internal/mask/mask.go
package mask

import (
	"fmt"
	"strings"
)

// Width is the number of logical positions in every mask.
const Width = 16

// Position is one logical slot (0..15).
// Position 0 is the most-significant bit of the authored table.
type Position uint8

// ---- ACTION GROUP ----

const (
	Purge   Position = 7
	Load    Position = 8
	Analyze Position = 9
)

// ---- MODE GROUP ----

const (
	Discrete Position = 10
	Septum   Position = 11
	LoopA    Position = 12
	LoopB    Position = 13
)

// ---- OPTION GROUP ----

const (
	Dilute   Position = 14
	Standard Position = 15
)

const (
	FirstPosition Position = 0
	LastPosition  Position = Width - 1
)

var names = map[Position]string{
	Purge:    "purge",
	Load:     "load",
	Analyze:  "analyze",
	Discrete: "discrete",
	Septum:   "septum",
	LoopA:    "loop-a",
	LoopB:    "loop-b",
	Dilute:   "dilute",
	Standard: "standard",
}

func (p Position) String() string {
	if n, ok := names[p]; ok {
		return n
	}
	return fmt.Sprintf("unused-%d", uint8(p))
}

// Valid reports whether p is one of the 16 logical positions.
func (p Position) Valid() bool {
	return p <= LastPosition
}

// PhysicalBit translates a logical position (MSB-first numbering)
// into the LSB-first bit index used by shifts.
func PhysicalBit(p Position) uint {
	return uint(LastPosition - p)
}

// LogicalPosition is the inverse of PhysicalBit.
func LogicalPosition(bit uint) Position {
	return LastPosition - Position(bit)
}

// Mask is a 16-bit state word indexed by logical position.
// Bit 0 means active (pressed / lit / engaged), bit 1 means inactive.
type Mask uint16

// Inactive has every position inactive.
const Inactive Mask = 0xFFFF

// Bit returns the raw bit value (0 or 1) at p.
func (m Mask) Bit(p Position) uint8 {
	return uint8(m>>PhysicalBit(p)) & 1
}

// Active reports whether p is active (bit == 0).
func (m Mask) Active(p Position) bool {
	return m.Bit(p) == 0
}

// Activate returns m with p cleared to the active value.
func (m Mask) Activate(p Position) Mask {
	return m &^ (1 << PhysicalBit(p))
}

// Deactivate returns m with p set to the inactive value.
func (m Mask) Deactivate(p Position) Mask {
	return m | (1 << PhysicalBit(p))
}

// ActivePositions lists active positions in ascending logical order.
func (m Mask) ActivePositions() []Position {
	var out []Position
	for p := FirstPosition; p <= LastPosition; p++ {
		if m.Active(p) {
			out = append(out, p)
		}
	}
	return out
}

// String renders the mask as 16 binary digits, position 0 first.
// This is the same digit order the command table is written in.
func (m Mask) String() string {
	var b strings.Builder
	b.Grow(Width)
	for p := FirstPosition; p <= LastPosition; p++ {
		b.WriteByte('0' + m.Bit(p))
	}
	return b.String()
}

// Decimal returns the mask as an unsigned integer.
func (m Mask) Decimal() uint16 {
	return uint16(m)
}
