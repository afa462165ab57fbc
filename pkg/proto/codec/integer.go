// Package codec implements the protocol's fixed-width big-endian integer
// codec (§4.1) and its varint-prefixed UTF-8 string codec (§4.4). Both
// operate against a fully buffered Reader/Writer, mirroring the
// teacher's pkg/edition/java/proto/util reader.go/writer.go, which this
// package generalizes away from io.Reader/io.Writer calls scattered
// across many free functions into a pair of width-parameterized helpers.
package codec

import (
	"encoding/binary"
	"errors"
	"io"

	"go.mcproto.dev/mcproto/pkg/proto"
)

// Fixed is any fixed-width integer this package reads/writes big-endian.
type Fixed interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

func sizeOf[T Fixed]() int {
	switch any(T(0)).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32:
		return 4
	default:
		return 8
	}
}

// ParseInt reads a fixed-width big-endian integer. It fails with
// ErrEndOfFile if fewer than the required number of bytes are available.
func ParseInt[T Fixed](r proto.Reader) (T, error) {
	var zero T
	size := sizeOf[T]()
	var buf [8]byte
	_, err := io.ReadFull(r, buf[:size])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return zero, proto.ErrEndOfFile
		}
		return zero, proto.WrapTransportError(err)
	}
	switch size {
	case 1:
		return T(buf[0]), nil
	case 2:
		return reinterpret[T](uint64(binary.BigEndian.Uint16(buf[:2]))), nil
	case 4:
		return reinterpret[T](uint64(binary.BigEndian.Uint32(buf[:4]))), nil
	default:
		return reinterpret[T](binary.BigEndian.Uint64(buf[:8])), nil
	}
}

func reinterpret[T Fixed](u uint64) T {
	switch any(T(0)).(type) {
	case int8:
		return T(int8(uint8(u)))
	case int16:
		return T(int16(uint16(u)))
	case int32:
		return T(int32(uint32(u)))
	case int64:
		return T(int64(u))
	default:
		return T(u)
	}
}

func widen[T Fixed](val T) uint64 {
	switch v := any(val).(type) {
	case int8:
		return uint64(uint8(v))
	case int16:
		return uint64(uint16(v))
	case int32:
		return uint64(uint32(v))
	case int64:
		return uint64(v)
	default:
		return uint64(val)
	}
}

// SerializeInt writes val as a fixed-width big-endian integer. It fails
// with SinkOverflowError if the sink accepts fewer bytes than required.
func SerializeInt[T Fixed](val T, w proto.Writer) error {
	size := sizeOf[T]()
	u := widen(val)
	var buf [8]byte
	switch size {
	case 1:
		buf[0] = byte(u)
	case 2:
		binary.BigEndian.PutUint16(buf[:2], uint16(u))
	case 4:
		binary.BigEndian.PutUint32(buf[:4], uint32(u))
	default:
		binary.BigEndian.PutUint64(buf[:8], u)
	}
	n, err := w.Write(buf[:size])
	if err != nil {
		return proto.WrapTransportError(err)
	}
	if n != size {
		return &proto.SinkOverflowError{Attempted: size, Actual: n}
	}
	return nil
}
