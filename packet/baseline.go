package packet

import (
	"fmt"

	"tinydcc/protocol"
)

// Speed limits for 28 step speed and direction packets
const (
	SpeedMin = 0
	SpeedMax = 28
)

// Instruction byte fields
const (
	instrSpeedDirection = 0b0100_0000 // packet type 01
	instrForward        = 0b0010_0000
	instrSpeedLSB       = 0b0001_0000
	instrSpeedHigh      = 0b0000_1111
	instrEStop          = 0b0000_0001
	instrStopFloat      = 0b0001_0000

	// speedOffset moves steps 1..28 clear of the stop and e-stop codes
	speedOffset = 3
)

// SpeedAndDirection commands a loco to move in the given direction at the
// given speed.
//
// The five bit speed field is sent with its LSB in bit 4 of the
// instruction and its upper four bits in bits 3-0:
//
//	0 4321 | meaning
//	-------+---------
//	0 0000 | stop
//	1 0000 | also stop
//	0 0001 | e-stop
//	1 0001 | also e-stop
//	0 0010 | speed 1 (0x04)
//	  ...  |
//	1 1111 | speed 28 (0x1f)
type SpeedAndDirection struct {
	address     Address
	instruction byte
}

// Builder returns an empty SpeedAndDirectionBuilder
func Builder() *SpeedAndDirectionBuilder {
	return &SpeedAndDirectionBuilder{}
}

func (p SpeedAndDirection) Address() Address {
	return p.address
}

func (p SpeedAndDirection) Instruction() byte {
	return p.instruction
}

func (p SpeedAndDirection) Payload() []byte {
	return withChecksum(byte(p.address), p.instruction)
}

// Serialize frames the packet into out
func (p SpeedAndDirection) Serialize(out protocol.OutputBuffer) (int, error) {
	return Encode(p, out)
}

func (p SpeedAndDirection) String() string {
	return fmt.Sprintf("speed-and-direction addr=%d instr=%08b", p.address, p.instruction)
}

// SpeedAndDirectionBuilder accumulates settings for a SpeedAndDirection
// packet. Setters validate their input so Build cannot fail.
type SpeedAndDirectionBuilder struct {
	address   *Address
	speed     *uint8
	eStop     bool
	direction *Direction
}

// NewSpeedAndDirectionBuilder creates an empty builder
func NewSpeedAndDirectionBuilder() *SpeedAndDirectionBuilder {
	return Builder()
}

// SetAddress sets the short address, which must be between 1 and 127.
// The builder is unchanged on error.
func (b *SpeedAndDirectionBuilder) SetAddress(address Address) error {
	if !address.Valid() {
		return fmt.Errorf("%w: %d (short address must be %d-%d)",
			protocol.ErrInvalidAddress, address, ShortAddressMin, ShortAddressMax)
	}
	b.address = &address
	return nil
}

// SetSpeed sets the speed step, 0 (stop) to 28.
// The builder is unchanged on error.
func (b *SpeedAndDirectionBuilder) SetSpeed(speed uint8) error {
	if speed > SpeedMax {
		return fmt.Errorf("%w: %d (must be %d-%d)",
			protocol.ErrInvalidSpeed, speed, SpeedMin, SpeedMax)
	}
	b.speed = &speed
	return nil
}

func (b *SpeedAndDirectionBuilder) SetDirection(direction Direction) *SpeedAndDirectionBuilder {
	b.direction = &direction
	return b
}

// SetEStop requests an emergency stop, overriding any speed
func (b *SpeedAndDirectionBuilder) SetEStop(eStop bool) *SpeedAndDirectionBuilder {
	b.eStop = eStop
	return b
}

// Build produces a packet from the current settings. Unset fields default
// to address 3, speed 0, Forward and no e-stop. The builder may be reused.
func (b *SpeedAndDirectionBuilder) Build() SpeedAndDirection {
	address := DefaultAddress
	if b.address != nil {
		address = *b.address
	}
	direction := Forward
	if b.direction != nil {
		direction = *b.direction
	}

	instruction := byte(instrSpeedDirection)
	if direction == Forward {
		instruction |= instrForward
	}

	if b.eStop {
		instruction |= instrEStop
	} else {
		field := speedField(b.speed)
		instruction |= (field >> 1) & instrSpeedHigh
		if field&0x01 != 0 {
			instruction |= instrSpeedLSB
		}
	}

	return SpeedAndDirection{
		address:     address,
		instruction: instruction,
	}
}

// speedField maps a speed step onto the five bit wire value
func speedField(speed *uint8) byte {
	if speed == nil || *speed == 0 {
		return 0
	}
	return *speed + speedOffset
}

// Reset returns every decoder to its power-up state. Address, instruction
// and checksum are all zero.
type Reset struct{}

func (Reset) Payload() []byte {
	return withChecksum(byte(BroadcastAddress), 0x00)
}

// Serialize frames the packet into out
func (p Reset) Serialize(out protocol.OutputBuffer) (int, error) {
	return Encode(p, out)
}

func (Reset) String() string {
	return "reset"
}

// Idle is addressed to 0xFF with a zero instruction; decoders take no new
// action on receipt.
type Idle struct{}

func (Idle) Payload() []byte {
	return withChecksum(byte(IdleAddress), 0x00)
}

// Serialize frames the packet into out
func (p Idle) Serialize(out protocol.OutputBuffer) (int, error) {
	return Encode(p, out)
}

func (Idle) String() string {
	return "idle"
}

// BroadcastStop stops every locomotive, either immediately or by removing
// motor power ("float"). The direction bit is not encoded.
type BroadcastStop struct {
	float bool
}

// BroadcastStopImmediate brings all locomotives to an immediate stop
func BroadcastStopImmediate() BroadcastStop {
	return BroadcastStop{float: false}
}

// BroadcastStopFloat lets all locomotives coast to a stop
func BroadcastStopFloat() BroadcastStop {
	return BroadcastStop{float: true}
}

// Float reports whether this is the floating variant
func (p BroadcastStop) Float() bool {
	return p.float
}

func (p BroadcastStop) Instruction() byte {
	if p.float {
		return instrSpeedDirection | instrStopFloat
	}
	return instrSpeedDirection
}

func (p BroadcastStop) Payload() []byte {
	return withChecksum(byte(BroadcastAddress), p.Instruction())
}

// Serialize frames the packet into out
func (p BroadcastStop) Serialize(out protocol.OutputBuffer) (int, error) {
	return Encode(p, out)
}

func (p BroadcastStop) String() string {
	if p.float {
		return "broadcast-stop float"
	}
	return "broadcast-stop immediate"
}
