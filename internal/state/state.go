// Package state encodes the persisted selection register.
//
// The register is a single byte that survives power-off:
//
//	bit 7    lock flag
//	bits 0-6 badge index (0-127)
//
// Every byte value is legal. The index is a position in the badge directory,
// not a stable file identifier.
package state

import "fmt"

const (
	lockBit   = 0x80
	indexMask = 0x7F
)

// Sentinel is the index that means "reset to max". It is produced when a
// target index runs past the files actually present.
const Sentinel uint8 = 0x7F

// Decode splits a register byte into its lock flag and index.
func Decode(b byte) (lock bool, index uint8) {
	return b&lockBit != 0, b & indexMask
}

// Encode packs a lock flag and index into a register byte.
// Index bits above bit 6 are dropped.
func Encode(lock bool, index uint8) byte {
	b := index & indexMask
	if lock {
		b |= lockBit
	}
	return b
}

// Byte is the decoded view of the register.
type Byte uint8

// Locked reports whether the lock flag is set.
func (b Byte) Locked() bool { return b&lockBit != 0 }

// Index returns the 7-bit badge index.
func (b Byte) Index() uint8 { return uint8(b) & indexMask }

// ToggleLock flips bit 7 and leaves the index alone.
func (b Byte) ToggleLock() Byte { return b ^ lockBit }

// WithIndex replaces the index and keeps the lock flag.
func (b Byte) WithIndex(index uint8) Byte {
	return Byte(Encode(b.Locked(), index))
}

func (b Byte) String() string {
	return fmt.Sprintf("0x%02X(lock=%t index=%d)", uint8(b), b.Locked(), b.Index())
}
