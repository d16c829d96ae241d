package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"tinydcc/host/serial"
	"tinydcc/packet"
	"tinydcc/protocol"
)

var (
	kind    = flag.String("packet", "speed", "Packet kind: speed, reset, idle, stop, float")
	address = flag.Int("address", int(packet.DefaultAddress), "Short decoder address (1-127)")
	speed   = flag.Int("speed", 0, "Speed step (0-28)")
	reverse = flag.Bool("reverse", false, "Run backward")
	estop   = flag.Bool("estop", false, "Emergency stop (overrides -speed)")
	device  = flag.String("device", "", "Serial device of the signal bridge (print only when empty)")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	opts := options{
		kind:    *kind,
		address: *address,
		speed:   *speed,
		reverse: *reverse,
		estop:   *estop,
	}

	pkt, err := buildPacket(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	buf := protocol.NewBitBuffer()
	n, err := packet.Encode(pkt, buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode %v: %v\n", pkt, err)
		os.Exit(1)
	}

	printFrame(os.Stdout, pkt, buf, n, *verbose)

	if *device == "" {
		return
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	if err := serial.SendFrame(port, buf, n); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Sent %d bits to %s\n", n, *device)
	}
}

// options mirrors the command line flags
type options struct {
	kind    string
	address int
	speed   int
	reverse bool
	estop   bool
}

func buildPacket(opts options) (packet.Packet, error) {
	switch opts.kind {
	case "speed":
		return buildSpeedAndDirection(opts)
	case "reset":
		return packet.Reset{}, nil
	case "idle":
		return packet.Idle{}, nil
	case "stop":
		return packet.BroadcastStopImmediate(), nil
	case "float":
		return packet.BroadcastStopFloat(), nil
	default:
		return nil, fmt.Errorf("unknown packet kind %q", opts.kind)
	}
}

func buildSpeedAndDirection(opts options) (packet.Packet, error) {
	if opts.address < 0 || opts.address > 0xFF {
		return nil, fmt.Errorf("%w: %d", protocol.ErrInvalidAddress, opts.address)
	}
	if opts.speed < 0 || opts.speed > 0xFF {
		return nil, fmt.Errorf("%w: %d", protocol.ErrInvalidSpeed, opts.speed)
	}

	b := packet.Builder()
	if err := b.SetAddress(packet.Address(opts.address)); err != nil {
		return nil, err
	}
	if err := b.SetSpeed(uint8(opts.speed)); err != nil {
		return nil, err
	}

	direction := packet.Forward
	if opts.reverse {
		direction = direction.Opposite()
	}
	return b.SetDirection(direction).SetEStop(opts.estop).Build(), nil
}

func printFrame(w io.Writer, pkt packet.Packet, buf *protocol.BitBuffer, n int, verbose bool) {
	fmt.Fprintf(w, "%v (%d bits)\n", pkt, n)
	fmt.Fprintln(w, protocol.FormatFrame(buf, n))

	if !verbose {
		return
	}
	payload := pkt.Payload()
	fmt.Fprintf(w, "payload:  % X\n", payload)
	fmt.Fprintf(w, "checksum: ok=%v\n", protocol.Verify(payload))
	fmt.Fprintf(w, "packed:   % X\n", buf.Packed(n))
}
