// Package protocol implements NMRA DCC packet framing
package protocol

// Version represents the tinydcc library version
const Version = "0.0.1-alpha"

// Framing constants
const (
	PreambleOnes    = 15 // Ones written before the first start bit
	BitsPerByte     = 9  // Start bit + 8 data bits
	StopBits        = 1  // Trailing stop bit
	PayloadMax      = 4  // Largest payload the buffer is sized for
	PayloadBaseline = 3  // Address, instruction, checksum

	// MaxBits is enough to frame any common DCC packet
	MaxBits = PreambleOnes + PayloadMax*BitsPerByte + StopBits

	// BaselineBits is the frame length of every baseline packet (43)
	BaselineBits = PreambleOnes + PayloadBaseline*BitsPerByte + StopBits
)

// Bit values on the wire
const (
	StartBit = false
	StopBit  = true
)
