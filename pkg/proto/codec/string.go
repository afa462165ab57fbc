package codec

import (
	"io"
	"math"

	"go.mcproto.dev/mcproto/pkg/proto"
	"go.mcproto.dev/mcproto/pkg/proto/varint"
)

// ParseString reads a varint-prefixed UTF-8 string (§4.4). The length is
// in encoded bytes, not code points; well-formedness of the bytes as
// UTF-8 is not checked here — that is left to the application, per spec.
func ParseString(r proto.Reader) (string, error) {
	b, err := ParseBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseBytes reads a varint-prefixed byte string.
func ParseBytes(r proto.Reader) ([]byte, error) {
	length, err := varint.ParseUint[uint32](r)
	if err != nil {
		return nil, err
	}
	if uint64(length) > math.MaxInt32 {
		return nil, proto.ErrUnrepresentable
	}
	buf := make([]byte, length)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		return nil, proto.ErrEndOfFile
	}
	return buf, nil
}

// SerializeString writes s as a varint-prefixed UTF-8 string.
func SerializeString(s string, w proto.Writer) error {
	return SerializeBytes([]byte(s), w)
}

// SerializeBytes writes b as a varint-prefixed byte string. It fails
// with ErrUnrepresentable if len(b) does not fit a u32 length prefix.
func SerializeBytes(b []byte, w proto.Writer) error {
	if uint64(len(b)) > math.MaxUint32 {
		return proto.ErrUnrepresentable
	}
	if err := varint.Serialize(uint32(len(b)), w); err != nil {
		return err
	}
	n, err := w.Write(b)
	if err != nil {
		return proto.WrapTransportError(err)
	}
	if n != len(b) {
		return &proto.SinkOverflowError{Attempted: len(b), Actual: n}
	}
	return nil
}
