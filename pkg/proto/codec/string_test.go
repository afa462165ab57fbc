package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"go.mcproto.dev/mcproto/pkg/proto"
)

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeString("test", &buf))
	s, err := ParseString(&buf)
	require.NoError(t, err)
	require.Equal(t, "test", s)
}

func TestStringEmptyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeString("", &buf))
	s, err := ParseString(&buf)
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestStringWireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SerializeString("test", &buf))
	require.Equal(t, []byte{4, 't', 'e', 's', 't'}, buf.Bytes())
}

func TestStringShortBodyFailsEndOfFile(t *testing.T) {
	buf := bytes.NewReader([]byte{4, 't', 'e'})
	_, err := ParseString(buf)
	require.ErrorIs(t, err, proto.ErrEndOfFile)
}

func TestStringLengthIsEncodedBytesNotCodePoints(t *testing.T) {
	var buf bytes.Buffer
	s := "héllo" // "é" is 2 bytes in UTF-8, 5 code points, 6 bytes.
	require.NoError(t, SerializeString(s, &buf))
	length, err := buf.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(len(s)), length)
}
