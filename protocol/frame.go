package protocol

import (
	"fmt"
	"strings"
)

// FrameLen returns the number of bits needed to frame n payload bytes
func FrameLen(n int) int {
	return PreambleOnes + n*BitsPerByte + StopBits
}

// Serialize frames data into out: preamble, a start bit ahead of every
// byte, then the stop bit. The checksum must already be the last byte of
// data. Returns the total number of bits written.
//
// Nothing is written when an error is returned.
func Serialize(data []byte, out OutputBuffer) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyPayload
	}
	if required := FrameLen(len(data)); required > out.Cap() {
		return 0, fmt.Errorf("%w: %d bytes need %d bits, have %d",
			ErrTooLong, len(data), required, out.Cap())
	}

	pos := writePreamble(out)
	for _, b := range data {
		// Bit 15 is already zero from the preamble; rewriting it keeps the loop uniform
		out.SetBit(pos, StartBit)
		pos++
		out.SetByte(pos, b)
		pos += 8
	}

	out.SetBit(pos, StopBit)
	pos++

	return pos, nil
}

// FormatFrame renders the first n bits of a framed packet as space
// separated groups: preamble, then start bit and data byte pairs, then the
// stop bit. n must come from Serialize.
func FormatFrame(buf *BitBuffer, n int) string {
	bits := buf.Bits(n)
	if n < PreambleOnes+StopBits {
		return bits
	}

	var sb strings.Builder
	sb.WriteString(bits[:PreambleOnes])
	pos := PreambleOnes
	for pos+BitsPerByte < n {
		sb.WriteByte(' ')
		sb.WriteString(bits[pos : pos+1])
		sb.WriteByte(' ')
		sb.WriteString(bits[pos+1 : pos+BitsPerByte])
		pos += BitsPerByte
	}
	sb.WriteByte(' ')
	sb.WriteString(bits[pos:])
	return sb.String()
}
