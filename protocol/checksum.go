package protocol

// Checksum calculates the DCC error detection byte: the XOR of every byte
func Checksum(data ...byte) byte {
	var c byte
	for _, b := range data {
		c ^= b
	}
	return c
}

// Verify reports whether the final byte of payload is the checksum of the
// bytes before it
func Verify(payload []byte) bool {
	if len(payload) < 2 {
		return false
	}
	n := len(payload) - 1
	return Checksum(payload[:n]...) == payload[n]
}
