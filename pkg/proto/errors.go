package proto

import (
	"errors"
	"fmt"
)

// Sentinel ProtocolErrors. Every primitive codec, framing routine and
// packet codec in this module reports failures as one of these values
// (or one of the structured error types below), wrapped with errors.Is-
// compatible context where useful. None of them are ever panicked.
var (
	// ErrEndOfFile is returned when a parse needed more bytes than a
	// fully-buffered source could supply.
	ErrEndOfFile = errors.New("proto: end of file")
	// ErrUnrepresentable is returned when a parsed value cannot be
	// represented by the destination type, or a value to be serialized
	// cannot be represented on the wire.
	ErrUnrepresentable = errors.New("proto: value not representable")
	// ErrOverlong is returned when a varint encoding is longer than the
	// minimal sufficient encoding (its final byte is a literal 0x00 and
	// the encoding is more than one byte long).
	ErrOverlong = errors.New("proto: overlong varint encoding")
	// ErrOverflow is returned by checked arithmetic when an operation
	// cannot be represented in the result type.
	ErrOverflow = errors.New("proto: integer overflow")
	// ErrUnexpected is returned when a value is syntactically valid but
	// semantically unrecognized (e.g. an unknown enum discriminant).
	ErrUnexpected = errors.New("proto: unexpected value")
	// ErrInconsistentLength is returned when a known packet's codec
	// does not leave the body buffer's read cursor exactly at the
	// frame's declared length.
	ErrInconsistentLength = errors.New("proto: packet codec left body inconsistent with declared length")
	// ErrUncompressedWhereCompressedExpected is returned when a
	// compressed-mode frame claims to be literal (uncompressed_length
	// == 0) but its literal body is at or above the threshold.
	ErrUncompressedWhereCompressedExpected = errors.New("proto: literal body at or above compression threshold")
	// ErrCompressedWhereUncompressedExpected is returned when a
	// compressed-mode frame claims a non-zero uncompressed_length below
	// the compression threshold.
	ErrCompressedWhereUncompressedExpected = errors.New("proto: compressed body below compression threshold")
)

// SerializerMissingError is returned when Stream.Serialize is asked to
// serialize a packet value whose runtime type has no registered codec.
type SerializerMissingError struct {
	Type Type
}

func (e *SerializerMissingError) Error() string {
	return fmt.Sprintf("proto: no serializer registered for packet type %s", e.Type)
}

// SinkOverflowError is returned when a Sink accepted fewer bytes than were
// handed to it. This always indicates a caller bug (an undersized sink),
// never a transient condition, and is never silently truncated.
type SinkOverflowError struct {
	Attempted int
	Actual    int
}

func (e *SinkOverflowError) Error() string {
	return fmt.Sprintf("proto: sink overflow: attempted to write %d bytes, sink accepted %d", e.Attempted, e.Actual)
}

// TransportError wraps an opaque error from the caller-supplied transport
// (the underlying Source, Sink or network connection).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("proto: transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// WrapTransportError wraps err, which originated from a caller-supplied
// transport, as a TransportError. Returns nil if err is nil.
func WrapTransportError(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Err: err}
}
