package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"go.mcproto.dev/mcproto/pkg/proto"
)

func TestHandshakeRoundTrip(t *testing.T) {
	h := &Handshake{
		ProtocolVersion: 316,
		ServerAddress:   "test",
		ServerPort:      25565,
		NextState:       NextStateStatus,
	}
	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf))

	var got Handshake
	require.NoError(t, got.Decode(&buf))
	require.Equal(t, *h, got)
}

func TestHandshakeWireBytes(t *testing.T) {
	h := &Handshake{
		ProtocolVersion: 316,
		ServerAddress:   "test",
		ServerPort:      25565,
		NextState:       NextStateStatus,
	}
	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf))
	require.Equal(t, []byte{0xBC, 0x02, 4, 't', 'e', 's', 't', 0x63, 0xDD, 1}, buf.Bytes())
}

func TestHandshakeDecodeInvalidNextState(t *testing.T) {
	h := &Handshake{ProtocolVersion: 1, ServerAddress: "x", ServerPort: 1, NextState: NextStateStatus}
	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf))
	wire := buf.Bytes()
	wire[len(wire)-1] = 99 // corrupt next_state to an unrecognized value

	var got Handshake
	err := got.Decode(bytes.NewReader(wire))
	require.ErrorIs(t, err, proto.ErrUnexpected)
}

func TestHandshakeDecodeNextStateIsFixedByteNotVarint(t *testing.T) {
	h := &Handshake{ProtocolVersion: 1, ServerAddress: "x", ServerPort: 1, NextState: NextStateStatus}
	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf))
	wire := buf.Bytes()
	// 0x81 has its continuation bit set; as a fixed byte it is simply the
	// unrecognized value 129 and must fail Unexpected after consuming
	// exactly this one byte, not be treated as the start of a multi-byte
	// varint.
	wire[len(wire)-1] = 0x81

	var got Handshake
	r := bytes.NewReader(wire)
	err := got.Decode(r)
	require.ErrorIs(t, err, proto.ErrUnexpected)
	require.Equal(t, 0, r.Len())
}

func TestHandshakeEncodeInvalidNextStateIsUnrepresentable(t *testing.T) {
	h := &Handshake{ProtocolVersion: 1, ServerAddress: "x", ServerPort: 1, NextState: NextState(99)}
	var buf bytes.Buffer
	err := h.Encode(&buf)
	require.ErrorIs(t, err, proto.ErrUnrepresentable)
}

func TestNextStateString(t *testing.T) {
	require.Equal(t, "Status", NextStateStatus.String())
	require.Equal(t, "Login", NextStateLogin.String())
	require.Equal(t, "Unknown", NextState(0).String())
}
