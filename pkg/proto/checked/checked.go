// Package checked implements narrowing casts and addition that report
// overflow as a value instead of wrapping or panicking, mirroring the
// original implementation's mcpp::checked::cast and mcpp::checked::add.
package checked

import (
	"math/bits"

	"go.mcproto.dev/mcproto/pkg/proto"
)

// Integer is any built-in integer type this package operates over.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// bounds of To expressed as int64/uint64 pairs computed from a zero value
// of To, used to range-check the widened intermediate value.
func signedBounds[To Integer]() (min, max int64) {
	var z To
	switch any(z).(type) {
	case int8:
		return int64(int8(-1) << 7), int64(1<<7 - 1)
	case int16:
		return int64(int16(-1) << 15), int64(1<<15 - 1)
	case int32:
		return int64(int32(-1) << 31), int64(1<<31 - 1)
	case int64, int:
		return int64(-1) << 63, 1<<63 - 1
	default:
		return 0, 0
	}
}

func unsignedMax[To Integer]() uint64 {
	var z To
	switch any(z).(type) {
	case uint8:
		return 1<<8 - 1
	case uint16:
		return 1<<16 - 1
	case uint32:
		return 1<<32 - 1
	default:
		return 1<<64 - 1
	}
}

func isSigned[T Integer]() bool {
	var z T
	switch any(z).(type) {
	case int, int8, int16, int32, int64:
		return true
	default:
		return false
	}
}

// Cast narrows val of type From into To, returning ErrOverflow if the
// value cannot be represented in To.
func Cast[To Integer, From Integer](val From) (To, error) {
	var zero To
	if isSigned[From]() {
		v := int64(val)
		if isSigned[To]() {
			min, max := signedBounds[To]()
			if v < min || v > max {
				return zero, proto.ErrOverflow
			}
			return To(v), nil
		}
		if v < 0 || uint64(v) > unsignedMax[To]() {
			return zero, proto.ErrOverflow
		}
		return To(v), nil
	}
	v := uint64(val)
	if isSigned[To]() {
		_, max := signedBounds[To]()
		if v > uint64(max) {
			return zero, proto.ErrOverflow
		}
		return To(v), nil
	}
	if v > unsignedMax[To]() {
		return zero, proto.ErrOverflow
	}
	return To(v), nil
}

// AddUnsigned adds a and b of type T, returning ErrOverflow if the sum
// does not fit in T.
func AddUnsigned[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) (T, error) {
	sum := a + b
	if sum < a {
		return 0, proto.ErrOverflow
	}
	return sum, nil
}

// AddSigned adds a and b of type T, returning ErrOverflow if the sum
// overflows T. The open question left by the original implementation
// (check_add for signed types was declared but never defined there) is
// resolved here by widening to the platform's widest signed integer,
// performing the addition, and bounds-checking the result — the same
// technique math/bits uses internally for Add64 overflow detection.
func AddSigned[T ~int | ~int8 | ~int16 | ~int32 | ~int64](a, b T) (T, error) {
	wa, wb := int64(a), int64(b)
	sum, _ := bits.Add64(uint64(wa), uint64(wb), 0)
	result := int64(sum)
	// Overflow occurred iff the operands have the same sign and the
	// result's sign differs from theirs.
	if (wa >= 0) == (wb >= 0) && (result >= 0) != (wa >= 0) {
		return 0, proto.ErrOverflow
	}
	var zero T
	min, max := signedBounds[T]()
	if result < min || result > max {
		return zero, proto.ErrOverflow
	}
	return T(result), nil
}
