// Package packet builds the NMRA baseline DCC packets and hands their
// payloads to the protocol framing engine.
package packet

import "tinydcc/protocol"

// Packet is any DCC packet that can produce its payload bytes, checksum
// included
type Packet interface {
	Payload() []byte
}

// Encode frames p into out and returns the number of bits written
func Encode(p Packet, out protocol.OutputBuffer) (int, error) {
	return protocol.Serialize(p.Payload(), out)
}

// withChecksum appends the error detection byte to data
func withChecksum(data ...byte) []byte {
	return append(data, protocol.Checksum(data...))
}
