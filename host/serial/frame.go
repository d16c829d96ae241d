package serial

import (
	"fmt"
	"io"

	"tinydcc/protocol"
)

// WriteFrame sends the first n bits of buf as one record: a length byte
// holding n, then the bits packed MSB first
func WriteFrame(w io.Writer, buf *protocol.BitBuffer, n int) error {
	if n <= 0 || n > buf.Cap() {
		return fmt.Errorf("frame length %d out of range 1-%d", n, buf.Cap())
	}

	record := append([]byte{byte(n)}, buf.Packed(n)...)
	written, err := w.Write(record)
	if err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if written != len(record) {
		return fmt.Errorf("short frame write: %d of %d bytes", written, len(record))
	}
	return nil
}

// SendFrame writes a frame to p and flushes it
func SendFrame(p Port, buf *protocol.BitBuffer, n int) error {
	if err := WriteFrame(p, buf, n); err != nil {
		return err
	}
	return p.Flush()
}
