// Package remote decodes the two IR control protocols: the discrete-button
// handset (NEC frames against a fixed code table) and the packed joystick
// protocol carried over pulse-distance frames.
package remote

// Protocol identifies the decode path a received frame came from.
type Protocol int

const (
	ProtocolUnknown Protocol = iota
	ProtocolNEC
	ProtocolPulseDistance
	ProtocolPulseWidth
)

// String returns the wire name used in events and config.
func (p Protocol) String() string {
	switch p {
	case ProtocolNEC:
		return "nec"
	case ProtocolPulseDistance:
		return "pulse_distance"
	case ProtocolPulseWidth:
		return "pulse_width"
	default:
		return "unknown"
	}
}

// ParseProtocol maps a wire name back to a protocol identifier.
func ParseProtocol(s string) (Protocol, bool) {
	switch s {
	case "nec":
		return ProtocolNEC, true
	case "pulse_distance":
		return ProtocolPulseDistance, true
	case "pulse_width":
		return ProtocolPulseWidth, true
	default:
		return ProtocolUnknown, false
	}
}

// Custom reports whether the protocol carries the packed joystick format.
// Two identifiers both decode as custom: the transmitter's frames sit right
// on the boundary where the decoder reports either, so they are equivalent.
func (p Protocol) Custom() bool {
	return p == ProtocolPulseDistance || p == ProtocolPulseWidth
}

// Message is one decoded IR frame.
type Message struct {
	Protocol Protocol
	Code     uint32
}

// Packet kinds for the packed joystick protocol.
const (
	PacketButton    = 1
	PacketJoystick1 = 2
	PacketJoystick2 = 3
)

// Packet is a decoded custom-protocol frame: a packet type plus a normalized
// joystick vector.
type Packet struct {
	Type int
	X    float64
	Y    float64
}

// DecodePacket unpacks a 32-bit custom frame laid out as
// type:8 | reserved:8 | x:8 | y:8. Unknown packet types are rejected.
func DecodePacket(code uint32) (Packet, bool) {
	typ := int(code >> 24)
	switch typ {
	case PacketButton, PacketJoystick1, PacketJoystick2:
	default:
		return Packet{}, false
	}

	return Packet{
		Type: typ,
		X:    normalizeAxis(uint8(code >> 8)),
		Y:    normalizeAxis(uint8(code)),
	}, true
}

// EncodePacket packs a frame for transmitter-side use and tests.
func EncodePacket(typ int, x, y float64) uint32 {
	return uint32(typ)<<24 | uint32(denormalizeAxis(x))<<8 | uint32(denormalizeAxis(y))
}

// normalizeAxis maps a raw byte onto [-1,1] with 127.5 as center.
func normalizeAxis(raw uint8) float64 {
	return (float64(raw) - 127.5) / 127.5
}

func denormalizeAxis(v float64) uint8 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	raw := v*127.5 + 127.5
	return uint8(raw + 0.5)
}
