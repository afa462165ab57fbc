package packet

import (
	"go.mcproto.dev/mcproto/pkg/proto"
	"go.mcproto.dev/mcproto/pkg/proto/codec"
	"go.mcproto.dev/mcproto/pkg/proto/varint"
)

// NextState is the state a client asks to transition into at the end of
// a Handshake (§4.8). It is the protocol's only enum-shaped field.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

func (s NextState) String() string {
	switch s {
	case NextStateStatus:
		return "Status"
	case NextStateLogin:
		return "Login"
	default:
		return "Unknown"
	}
}

func (s NextState) valid() bool {
	return s == NextStateStatus || s == NextStateLogin
}

// Handshake is the only packet a client ever sends in the Handshaking
// state, and the first packet sent on every connection. It carries the
// protocol version the client intends to speak, the address the client
// used to reach the server, and which state to transition to next.
//
// Field order on the wire, all in Handshaking/Serverbound: protocol
// version (varint i32), server address (string), server port (u16),
// next state (fixed u8, 1 or 2 — the smallest integer type sufficient
// for a two-variant enum, per §6.2).
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       NextState
}

var _ proto.Packet = (*Handshake)(nil)

// Decode implements proto.Packet. An unrecognized next-state value is
// ErrUnexpected, per §4.8's edge case for a malformed but well-framed
// Handshake.
func (h *Handshake) Decode(r proto.Reader) error {
	pv, err := varint.ParseInt[int32](r)
	if err != nil {
		return err
	}
	addr, err := codec.ParseString(r)
	if err != nil {
		return err
	}
	port, err := codec.ParseInt[uint16](r)
	if err != nil {
		return err
	}
	ns, err := codec.ParseInt[uint8](r)
	if err != nil {
		return err
	}
	next := NextState(ns)
	if !next.valid() {
		return proto.ErrUnexpected
	}
	h.ProtocolVersion = pv
	h.ServerAddress = addr
	h.ServerPort = port
	h.NextState = next
	return nil
}

// Encode implements proto.Packet. It fails with ErrUnrepresentable if
// NextState holds anything other than Status or Login: such a value
// could never have arrived via Decode and indicates the caller built a
// Handshake by hand incorrectly.
func (h *Handshake) Encode(w proto.Writer) error {
	if !h.NextState.valid() {
		return proto.ErrUnrepresentable
	}
	if err := varint.SerializeSigned(h.ProtocolVersion, w); err != nil {
		return err
	}
	if err := codec.SerializeString(h.ServerAddress, w); err != nil {
		return err
	}
	if err := codec.SerializeInt(h.ServerPort, w); err != nil {
		return err
	}
	return codec.SerializeInt(uint8(h.NextState), w)
}
