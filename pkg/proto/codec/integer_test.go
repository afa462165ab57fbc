package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"go.mcproto.dev/mcproto/pkg/proto"
)

func TestFixedIntRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeInt(uint16(25565), &buf))
	v, err := ParseInt[uint16](&buf)
	require.NoError(t, err)
	require.Equal(t, uint16(25565), v)
}

func TestFixedIntBigEndianByteOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeInt(uint16(0x63DD), &buf))
	require.Equal(t, []byte{0x63, 0xDD}, buf.Bytes())
}

func TestFixedIntSignedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeInt(int32(-42), &buf))
	v, err := ParseInt[int32](&buf)
	require.NoError(t, err)
	require.Equal(t, int32(-42), v)
}

func TestFixedIntShortReadFailsEndOfFile(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01})
	_, err := ParseInt[uint32](buf)
	require.ErrorIs(t, err, proto.ErrEndOfFile)
}

func TestFixedIntSinkOverflow(t *testing.T) {
	w := &shortWriter{max: 1}
	err := SerializeInt(uint16(1), w)
	var overflow *proto.SinkOverflowError
	require.ErrorAs(t, err, &overflow)
}

type shortWriter struct{ max int }

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		return w.max, nil
	}
	return len(p), nil
}
