package protocol

// OutputBuffer provides an abstraction for writing framed packet bits
type OutputBuffer interface {
	// Cap returns the number of addressable bits
	Cap() int

	// SetBit sets the bit at pos
	SetBit(pos int, v bool)

	// SetByte overwrites the 8 bits starting at pos, MSB first
	SetByte(pos int, b byte)
}

// bufferBytes is the storage needed for MaxBits
const bufferBytes = (MaxBits + 7) / 8

// BitBuffer is a fixed-size, MSB-first bit array sized for MaxBits.
// The zero value is an empty buffer ready for use.
type BitBuffer struct {
	buf [bufferBytes]byte
}

// NewBitBuffer creates a new BitBuffer
func NewBitBuffer() *BitBuffer {
	return &BitBuffer{}
}

func (b *BitBuffer) Cap() int {
	return MaxBits
}

func (b *BitBuffer) check(pos, width int) {
	if pos < 0 || width < 0 || pos+width > MaxBits {
		panic("protocol: bit range out of buffer")
	}
}

// Bit returns the bit at pos
func (b *BitBuffer) Bit(pos int) bool {
	b.check(pos, 1)
	return b.buf[pos/8]&(0x80>>(pos%8)) != 0
}

func (b *BitBuffer) SetBit(pos int, v bool) {
	b.check(pos, 1)
	mask := byte(0x80 >> (pos % 8))
	if v {
		b.buf[pos/8] |= mask
	} else {
		b.buf[pos/8] &^= mask
	}
}

func (b *BitBuffer) SetByte(pos int, v byte) {
	b.SetBits(pos, v, 8)
}

// SetBits overwrites width bits starting at pos with the low width bits of
// v, most significant first
func (b *BitBuffer) SetBits(pos int, v byte, width int) {
	if width > 8 {
		panic("protocol: SetBits width exceeds a byte")
	}
	b.check(pos, width)

	// Fast path: byte aligned
	if width == 8 && pos%8 == 0 {
		b.buf[pos/8] = v
		return
	}
	for i := 0; i < width; i++ {
		b.SetBit(pos+i, v&(1<<(width-1-i)) != 0)
	}
}

// Bytes returns a copy of the packed storage. Bits past the end of the
// last frame are left as they were.
func (b *BitBuffer) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf[:])
	return out
}

// Packed returns the first n bits packed MSB first, with the unused low
// bits of the final byte cleared
func (b *BitBuffer) Packed(n int) []byte {
	b.check(0, n)
	out := make([]byte, (n+7)/8)
	copy(out, b.buf[:len(out)])
	if rem := n % 8; rem != 0 {
		out[len(out)-1] &= 0xFF << (8 - rem)
	}
	return out
}

// Bits renders the first n bits as '0' and '1'
func (b *BitBuffer) Bits(n int) string {
	b.check(0, n)
	s := make([]byte, n)
	for i := range s {
		if b.Bit(i) {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}

// Reset clears the buffer
func (b *BitBuffer) Reset() {
	b.buf = [bufferBytes]byte{}
}
