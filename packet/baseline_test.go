package packet

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tinydcc/protocol"
)

func TestSpeedAndDirectionInstruction(t *testing.T) {
	b := Builder()
	if err := b.SetAddress(35); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	if err := b.SetSpeed(14); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	pkt := b.SetDirection(Forward).Build()

	if pkt.Address() != 35 {
		t.Errorf("Expected address 35, got %d", pkt.Address())
	}
	if pkt.Instruction() != 0b0111_1000 {
		t.Errorf("Expected instruction 01111000, got %08b", pkt.Instruction())
	}
}

func TestSpeedAndDirectionSpeedTable(t *testing.T) {
	testCases := []struct {
		speed     uint8
		direction Direction
		expected  byte
	}{
		{speed: 0, direction: Forward, expected: 0b0110_0000},
		{speed: 0, direction: Backward, expected: 0b0100_0000},
		{speed: 1, direction: Forward, expected: 0b0110_0010},   // field 00100
		{speed: 2, direction: Forward, expected: 0b0111_0010},   // field 00101
		{speed: 14, direction: Backward, expected: 0b0101_1000}, // field 10001
		{speed: 27, direction: Forward, expected: 0b0110_1111},  // field 11110
		{speed: 28, direction: Forward, expected: 0b0111_1111},  // field 11111
	}

	for _, tc := range testCases {
		b := Builder()
		if err := b.SetSpeed(tc.speed); err != nil {
			t.Fatalf("SetSpeed(%d) failed: %v", tc.speed, err)
		}
		got := b.SetDirection(tc.direction).Build().Instruction()
		if got != tc.expected {
			t.Errorf("Speed %d %s: expected %08b, got %08b", tc.speed, tc.direction, tc.expected, got)
		}
	}
}

func TestSpeedAndDirectionDefaults(t *testing.T) {
	pkt := NewSpeedAndDirectionBuilder().Build()

	if pkt.Address() != DefaultAddress {
		t.Errorf("Expected default address %d, got %d", DefaultAddress, pkt.Address())
	}
	if pkt.Instruction() != 0b0110_0000 {
		t.Errorf("Expected forward stop 01100000, got %08b", pkt.Instruction())
	}
}

func TestSpeedAndDirectionAddressValidation(t *testing.T) {
	for _, addr := range []Address{0, 128, 200, 255} {
		b := Builder()
		err := b.SetAddress(addr)
		if !errors.Is(err, protocol.ErrInvalidAddress) {
			t.Errorf("SetAddress(%d): expected ErrInvalidAddress, got %v", addr, err)
		}
		if got := b.Build().Address(); got != DefaultAddress {
			t.Errorf("Rejected address %d leaked into builder: %d", addr, got)
		}
	}

	for _, addr := range []Address{1, 64, 127} {
		b := Builder()
		if err := b.SetAddress(addr); err != nil {
			t.Errorf("SetAddress(%d) failed: %v", addr, err)
		}
		if got := b.Build().Address(); got != addr {
			t.Errorf("Expected address %d, got %d", addr, got)
		}
	}
}

func TestSpeedAndDirectionSpeedValidation(t *testing.T) {
	b := Builder()
	if err := b.SetSpeed(28); err != nil {
		t.Fatalf("SetSpeed(28) failed: %v", err)
	}
	if err := b.SetSpeed(29); !errors.Is(err, protocol.ErrInvalidSpeed) {
		t.Errorf("SetSpeed(29): expected ErrInvalidSpeed, got %v", err)
	}

	// Rejected speed leaves the previous one in place
	if got := b.Build().Instruction(); got != 0b0111_1111 {
		t.Errorf("Expected speed 28 retained, got %08b", got)
	}
}

func TestSpeedAndDirectionEStop(t *testing.T) {
	for speed := uint8(SpeedMin); speed <= SpeedMax; speed++ {
		b := Builder()
		if err := b.SetSpeed(speed); err != nil {
			t.Fatalf("SetSpeed(%d) failed: %v", speed, err)
		}
		got := b.SetEStop(true).Build().Instruction()
		if got&0x1F != 0b0_0001 {
			t.Errorf("Speed %d with e-stop: expected low bits 00001, got %05b", speed, got&0x1F)
		}
		if got&0xE0 != 0b0110_0000 {
			t.Errorf("Speed %d with e-stop: header bits changed: %08b", speed, got)
		}
	}

	// Clearing the flag restores the stored speed
	b := Builder()
	if err := b.SetSpeed(14); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	if got := b.SetEStop(true).SetEStop(false).Build().Instruction(); got != 0x78 {
		t.Errorf("Expected 0x78 after clearing e-stop, got 0x%02X", got)
	}
}

func TestSpeedAndDirectionBuildIdempotent(t *testing.T) {
	b := Builder()
	if err := b.SetAddress(99); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	b.SetDirection(Backward)

	first := b.Build()
	second := b.Build()
	if first != second {
		t.Errorf("Build not idempotent: %v vs %v", first, second)
	}
}

func TestSpeedAndDirectionSerialize(t *testing.T) {
	b := Builder()
	if err := b.SetAddress(35); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	if err := b.SetSpeed(14); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	pkt := b.SetDirection(Forward).Build()

	if diff := cmp.Diff([]byte{35, 0x78, 0x5B}, pkt.Payload()); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}

	// instruction is 01 D S SSSS = 01 1 1 1000
	want := []byte{
		0xFF,       // preamble
		0b11111110, // preamble + start
		35,         // address
		0b00111100, // start + instr[0:7]
		0b00010110, // instr[7] + start + ecc[0:6]
		0b11100000, // ecc[6:8] + stop + 5 zeroes
	}
	assertFrame(t, pkt, want)
}

func TestSpeedAndDirectionAllValid(t *testing.T) {
	for addr := ShortAddressMin; ; addr++ {
		for speed := uint8(SpeedMin); speed <= SpeedMax; speed++ {
			for _, dir := range []Direction{Forward, Backward} {
				b := Builder()
				if err := b.SetAddress(addr); err != nil {
					t.Fatalf("SetAddress(%d) failed: %v", addr, err)
				}
				if err := b.SetSpeed(speed); err != nil {
					t.Fatalf("SetSpeed(%d) failed: %v", speed, err)
				}
				pkt := b.SetDirection(dir).Build()

				buf := protocol.NewBitBuffer()
				n, err := pkt.Serialize(buf)
				if err != nil || n != protocol.BaselineBits {
					t.Fatalf("addr=%d speed=%d dir=%s: n=%d err=%v", addr, speed, dir, n, err)
				}
				payload := pkt.Payload()
				if payload[2] != payload[0]^payload[1] {
					t.Fatalf("addr=%d speed=%d dir=%s: bad checksum %v", addr, speed, dir, payload)
				}
			}
		}
		if addr == ShortAddressMax {
			break
		}
	}
}

func TestReset(t *testing.T) {
	if diff := cmp.Diff([]byte{0x00, 0x00, 0x00}, Reset{}.Payload()); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}
	assertFrame(t, Reset{}, []byte{
		0xFF,
		0b11111110,
		0x00,
		0b00000000,
		0b00000000,
		0b00100000,
	})
}

func TestIdle(t *testing.T) {
	if diff := cmp.Diff([]byte{0xFF, 0x00, 0xFF}, Idle{}.Payload()); diff != "" {
		t.Errorf("Payload mismatch (-want +got):\n%s", diff)
	}
	assertFrame(t, Idle{}, []byte{
		0xFF,
		0b11111110,
		0xFF,
		0b00000000,
		0b00111111,
		0b11100000,
	})
}

func TestBroadcastStop(t *testing.T) {
	float := BroadcastStopFloat()
	if !float.Float() || float.Instruction() != 0b0101_0000 {
		t.Errorf("Float stop: got float=%v instr=%08b", float.Float(), float.Instruction())
	}
	if diff := cmp.Diff([]byte{0x00, 0x50, 0x50}, float.Payload()); diff != "" {
		t.Errorf("Float payload mismatch (-want +got):\n%s", diff)
	}
	assertFrame(t, float, []byte{
		0xFF,
		0b11111110,
		0x00,
		0b00101000,
		0b00010100,
		0b00100000,
	})

	immediate := BroadcastStopImmediate()
	if immediate.Float() {
		t.Error("Immediate stop reports float")
	}
	if diff := cmp.Diff([]byte{0x00, 0x40, 0x40}, immediate.Payload()); diff != "" {
		t.Errorf("Immediate payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeConcurrent(t *testing.T) {
	packets := []Packet{Reset{}, Idle{}, BroadcastStopFloat(), BroadcastStopImmediate(), Builder().Build()}

	var wg sync.WaitGroup
	results := make([][]byte, len(packets))
	for i, p := range packets {
		wg.Add(1)
		go func(i int, p Packet) {
			defer wg.Done()
			buf := protocol.NewBitBuffer()
			n, err := Encode(p, buf)
			if err != nil {
				t.Errorf("Encode(%v) failed: %v", p, err)
				return
			}
			results[i] = buf.Packed(n)
		}(i, p)
	}
	wg.Wait()

	for i, p := range packets {
		buf := protocol.NewBitBuffer()
		n, _ := Encode(p, buf)
		if diff := cmp.Diff(buf.Packed(n), results[i]); diff != "" {
			t.Errorf("Concurrent encode of %v differs (-want +got):\n%s", p, diff)
		}
	}
}

// tooLong exercises the framing guard through the packet helper
type tooLong struct{}

func (tooLong) Payload() []byte { return withChecksum(1, 2, 3, 4) }

func TestEncodeTooLong(t *testing.T) {
	buf := protocol.NewBitBuffer()
	if _, err := Encode(tooLong{}, buf); !errors.Is(err, protocol.ErrTooLong) {
		t.Errorf("Expected ErrTooLong, got %v", err)
	}
}

func assertFrame(t *testing.T, p Packet, want []byte) {
	t.Helper()
	buf := protocol.NewBitBuffer()
	n, err := Encode(p, buf)
	if err != nil {
		t.Fatalf("Encode(%v) failed: %v", p, err)
	}
	if n != protocol.BaselineBits {
		t.Errorf("Expected %d bits, got %d", protocol.BaselineBits, n)
	}
	if diff := cmp.Diff(want, buf.Packed(n)); diff != "" {
		t.Errorf("Frame mismatch (-want +got):\n%s", diff)
	}
}
