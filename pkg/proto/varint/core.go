// Package varint implements the variable-width integer encoding used
// throughout the Minecraft Java Edition wire protocol: 7 bits of payload
// per byte, little-endian group order, continuation signalled by the
// high bit. It also implements the ZigZag mapping used for signed
// varints and an incremental parser that can resume across partial reads.
//
// The width-specific behavior (maximum byte count, the mask that detects
// bits that would not fit the destination type in the final byte) is
// grounded on the original implementation's varint_size / varint_overflow_mask
// machinery; here it is computed directly from a bit width rather than
// through template metaprogramming.
package varint

import (
	"errors"
	"io"

	"go.mcproto.dev/mcproto/pkg/proto"
)

const bitsPerByte = 7

// MaxBytes returns the maximum number of bytes a varint encoding of an
// integer with the given bit width can occupy: ceil(bits/7).
func MaxBytes(bitWidth int) int {
	return (bitWidth + bitsPerByte - 1) / bitsPerByte
}

// overflowMask returns, for the final permitted byte of a varint of the
// given bit width, the mask of payload bits that must be zero because
// they fall outside the destination type's width.
func overflowMask(bitWidth int) uint64 {
	maxBytes := MaxBytes(bitWidth)
	bitsInLastByte := bitWidth - bitsPerByte*(maxBytes-1)
	if bitsInLastByte <= 0 || bitsInLastByte > bitsPerByte {
		bitsInLastByte = bitsPerByte
	}
	return uint64(0x7F) &^ (uint64(1)<<uint(bitsInLastByte) - 1)
}

// rawState is the shared byte-group accumulator used by both the
// blocking parse functions in this package and the incremental Parser.
// feedByte is called one byte at a time by callers and accumulates result bits
// until a terminating byte (continuation flag clear) is seen.
type rawState struct {
	bitWidth int
	n        int // bytes consumed so far
	result   uint64
}

// status is the outcome of feeding a single byte to rawState.
type status int

const (
	statusPending status = iota
	statusDone
	statusErr
)

// feedByte consumes one more byte of a varint encoding. It returns
// statusDone once the terminating byte has been seen, statusErr (with a
// ProtocolError) if the encoding is invalid, and statusPending if more
// bytes are still needed.
func (s *rawState) feedByte(cur byte) (status, error) {
	maxBytes := MaxBytes(s.bitWidth)
	val := uint64(cur & 0x7F)
	s.n++
	isLast := s.n == maxBytes
	if isLast && (val&overflowMask(s.bitWidth)) != 0 {
		return statusErr, proto.ErrUnrepresentable
	}
	s.result |= val << uint(bitsPerByte*(s.n-1))
	if uint64(cur) == val {
		// Continuation flag clear: this byte terminates the encoding.
		if s.n > 1 && cur == 0 {
			return statusErr, proto.ErrOverlong
		}
		return statusDone, nil
	}
	if isLast {
		// Continuation flag set on the final permitted byte.
		return statusErr, proto.ErrUnrepresentable
	}
	return statusPending, nil
}

// readAllRaw parses a varint of the given bit width from a fully
// buffered, blocking Reader, returning ErrEndOfFile if the source runs
// out before the encoding terminates.
func readAllRaw(r proto.Reader, bitWidth int) (uint64, error) {
	s := rawState{bitWidth: bitWidth}
	var b [1]byte
	for {
		_, err := io.ReadFull(r, b[:])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, proto.ErrEndOfFile
			}
			return 0, proto.WrapTransportError(err)
		}
		st, err := s.feedByte(b[0])
		switch st {
		case statusDone:
			return s.result, nil
		case statusErr:
			return 0, err
		}
	}
}
