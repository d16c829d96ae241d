package protocol

// Preamble minimums
const (
	PreambleMin         = 14 // Command stations must send at least this many ones
	PreambleReceiverMin = 10 // Decoders accept a packet after this many ones
)

// Preamble is the number of one bits sent ahead of a packet
type Preamble uint8

// DefaultPreamble is the nominal preamble length. Serialize writes 15 ones;
// the stop bit of the previous packet on the rails is the sixteenth.
const DefaultPreamble Preamble = 16

// Valid reports whether p satisfies the command station minimum
func (p Preamble) Valid() bool {
	return p >= PreambleMin
}

// writePreamble writes PreambleOnes ones followed by the start bit of the
// first payload byte
func writePreamble(out OutputBuffer) int {
	out.SetByte(0, 0xFF)
	out.SetByte(8, 0xFE)
	return PreambleOnes
}
