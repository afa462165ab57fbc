package varint

import "go.mcproto.dev/mcproto/pkg/proto"

// Unsigned is any unsigned integer width this package parses and
// serializes as a varint.
type Unsigned interface {
	~uint16 | ~uint32 | ~uint64
}

// Signed is any signed integer width this package parses and serializes
// as a varint, either by two's-complement reinterpretation of the
// unsigned encoding or via ZigZag.
type Signed interface {
	~int16 | ~int32 | ~int64
}

func bitWidthOf(size int) int { return size * 8 }

// ParseUint parses an unsigned varint from a fully buffered Reader.
func ParseUint[T Unsigned](r proto.Reader) (T, error) {
	var zero T
	u, err := readAllRaw(r, bitWidthOf(sizeOfUnsigned[T]()))
	if err != nil {
		return zero, err
	}
	return T(u), nil
}

// ParseInt parses a signed varint from a fully buffered Reader by
// reinterpreting the unsigned parse result as two's complement.
func ParseInt[T Signed](r proto.Reader) (T, error) {
	var zero T
	u, err := readAllRaw(r, bitWidthOf(sizeOfSigned[T]()))
	if err != nil {
		return zero, err
	}
	return reinterpretSigned[T](u), nil
}

// ParseIntZigZag parses a signed varint that was encoded with ZigZag.
// The varint's maximum byte count and overflow checks are governed by
// T's own width, since ZigZag maps a signed value of width W onto an
// unsigned value of the same width W, not onto a fixed 64-bit carrier.
func ParseIntZigZag[T Signed](r proto.Reader) (T, error) {
	u, err := readAllRaw(r, bitWidthOf(sizeOfSigned[T]()))
	if err != nil {
		var zero T
		return zero, err
	}
	return fromZigZag[T](u), nil
}

// Serialize writes val as an unsigned varint, using the minimal
// sufficient number of bytes.
func Serialize[T Unsigned](val T, w proto.Writer) error {
	return serializeRaw(uint64(val), w)
}

// SerializeSigned writes val as a signed varint: the bytes of its
// unsigned (two's complement) reinterpretation.
func SerializeSigned[T Signed](val T, w proto.Writer) error {
	return serializeRaw(toUnsignedBits(val), w)
}

// SerializeZigZag writes val as a ZigZag-encoded signed varint.
func SerializeZigZag[T Signed](val T, w proto.Writer) error {
	return serializeRaw(toZigZag(val), w)
}

func serializeRaw(val uint64, w proto.Writer) error {
	var buf [10]byte // enough for the widest (64-bit) unsigned varint
	i := 0
	for {
		buf[i] = byte(val & 0x7F)
		val >>= bitsPerByte
		if val != 0 {
			buf[i] |= 0x80
			i++
			continue
		}
		i++
		break
	}
	n, err := w.Write(buf[:i])
	if err != nil {
		return proto.WrapTransportError(err)
	}
	if n != i {
		return &proto.SinkOverflowError{Attempted: i, Actual: n}
	}
	return nil
}

// toZigZag maps a signed value to its ZigZag-encoded unsigned
// representation: (n << 1) ^ (n >> (W-1)).
func toZigZag[T Signed](val T) uint64 {
	v := int64(val)
	if v < 0 {
		return uint64(^(v << 1))
	}
	return uint64(v << 1)
}

// fromZigZag is the inverse of toZigZag.
func fromZigZag[T Signed](u uint64) T {
	v := int64(u >> 1)
	if u&1 != 0 {
		v = ^v
	}
	return T(v)
}

func toUnsignedBits[T Signed](val T) uint64 {
	switch any(val).(type) {
	case int16:
		return uint64(uint16(val))
	case int32:
		return uint64(uint32(val))
	default:
		return uint64(val)
	}
}

func reinterpretSigned[T Signed](u uint64) T {
	switch any(T(0)).(type) {
	case int16:
		return T(int16(uint16(u)))
	case int32:
		return T(int32(uint32(u)))
	default:
		return T(int64(u))
	}
}

func sizeOfUnsigned[T Unsigned]() int {
	switch any(T(0)).(type) {
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func sizeOfSigned[T Signed]() int {
	switch any(T(0)).(type) {
	case int16:
		return 2
	case int32:
		return 4
	default:
		return 8
	}
}
