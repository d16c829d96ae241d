package packet

// Address identifies a decoder
type Address uint8

// Reserved and short-mode addresses
const (
	BroadcastAddress Address = 0x00
	IdleAddress      Address = 0xFF
	DefaultAddress   Address = 3

	ShortAddressMin Address = 1
	ShortAddressMax Address = 0x7F
)

// Valid reports whether a is a short (7-bit) locomotive address.
// Values from 128 up are reserved for long addresses.
func (a Address) Valid() bool {
	return a >= ShortAddressMin && a <= ShortAddressMax
}
