// Package stream implements the stream serializer (§4.6, §4.7): the
// state machine that turns a raw byte source into typed packet values
// and back, composing the varint, codec and packet-registry layers with
// an optional zlib compression mode.
//
// It is grounded on the teacher's pkg/edition/java/proto/codec
// decoder.go/encoder.go, which drive the same three-layer pipeline
// (length prefix, optional zlib, packet codec) against a netty
// ByteBuf. Here the pipeline drives a bytebuf.Buffer instead, and the
// version-keyed codec lookup that decoder.go performs is replaced by
// the unversioned packet.Registry.
package stream

import (
	"bytes"
	"errors"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"go.mcproto.dev/mcproto/pkg/proto"
	"go.mcproto.dev/mcproto/pkg/proto/bytebuf"
	"go.mcproto.dev/mcproto/pkg/proto/packet"
	"go.mcproto.dev/mcproto/pkg/proto/varint"
)

// Outcome is the result of a single Parse call.
type Outcome int

const (
	// Pending means the frame is not yet complete; Parse must be called
	// again once more bytes are available from the source.
	Pending Outcome = iota
	// Done means a frame was fully parsed. LastPacket, LastIdentifier
	// and friends now describe it.
	Done
)

type parsePhase int

const (
	phaseOuterLength parsePhase = iota
	phaseInnerLength
	phaseLiteralBody
	phaseCompressedBody
)

// Stream is a stateful parse/serialize engine for one direction of one
// logical connection. It is not safe for concurrent use.
type Stream struct {
	registry  *packet.Registry
	direction proto.Direction
	state     proto.State
	threshold *int // nil: uncompressed mode. Non-nil: compression threshold T.

	// parse-side state
	phase              parsePhase
	lengthParser       *varint.Parser
	innerLenParser     *varint.Parser
	body               *bytebuf.Buffer
	compressedBuf      *bytebuf.Buffer
	outerLen           int
	uncompressedLen    int
	awaitingReset      bool
	lastPacket         proto.Packet
	lastID             proto.Identifier
	lastBody           []byte
	lastCompressed     bool
	lastCompressedSize int

	// serialize-side state
	serializeBody                *bytebuf.Buffer
	lastSerializedBody           []byte
	lastSerializedSize           int
	lastSerializedCompressed     bool
	lastSerializedCompressedSize int
}

// New returns a Stream that decodes/encodes packets of state and
// direction against reg, initially in uncompressed mode.
func New(reg *packet.Registry, direction proto.Direction, state proto.State) *Stream {
	return &Stream{
		registry:       reg,
		direction:      direction,
		state:          state,
		lengthParser:   varint.NewParser(32),
		innerLenParser: varint.NewParser(32),
		body:           bytebuf.New(),
		compressedBuf:  bytebuf.New(),
		serializeBody:  bytebuf.New(),
	}
}

// betweenFrames reports whether it is currently valid to reconfigure the
// engine. Doing so mid-frame is a programmer error.
func (s *Stream) betweenFrames() bool {
	return s.awaitingReset || (s.phase == phaseOuterLength && s.lengthParser.Empty())
}

func (s *Stream) requireBetweenFrames(what string) {
	if !s.betweenFrames() {
		panic("stream: " + what + " called mid-frame")
	}
}

// SetThreshold changes the compression threshold. A nil threshold
// switches to uncompressed mode.
func (s *Stream) SetThreshold(threshold *int) {
	s.requireBetweenFrames("SetThreshold")
	s.threshold = threshold
}

// SetDirection changes which direction's packet ids are looked up.
func (s *Stream) SetDirection(d proto.Direction) {
	s.requireBetweenFrames("SetDirection")
	s.direction = d
}

// SetState changes which protocol state's packet ids are looked up.
func (s *Stream) SetState(state proto.State) {
	s.requireBetweenFrames("SetState")
	s.state = state
}

// LastPacket returns the decoded value from the most recent Done
// result, or nil if that frame's id had no registered codec.
func (s *Stream) LastPacket() proto.Packet { return s.lastPacket }

// LastIdentifier returns the PacketIdentifier of the most recent Done
// result.
func (s *Stream) LastIdentifier() proto.Identifier { return s.lastID }

// LastBody returns the reassembled body of the most recent Done result,
// including the leading packet-id varint.
func (s *Stream) LastBody() []byte { return s.lastBody }

// LastBodySize returns len(LastBody()).
func (s *Stream) LastBodySize() int { return len(s.lastBody) }

// LastCompressed reports whether the most recently parsed frame was
// actually compressed on the wire.
func (s *Stream) LastCompressed() bool { return s.lastCompressed }

// LastCompressedSize returns the on-wire compressed byte count of the
// most recently parsed frame, or 0 if it was not compressed.
func (s *Stream) LastCompressedSize() int { return s.lastCompressedSize }

// Cached returns the number of input bytes currently buffered across
// both incremental parsers and the body buffer: the amount the engine
// will reuse on its next call if the current call returns Pending.
func (s *Stream) Cached() int {
	return s.lengthParser.Cached() + s.innerLenParser.Cached() + s.body.Len() + s.compressedBuf.Len()
}

func (s *Stream) resetFrame() {
	s.phase = phaseOuterLength
	s.lengthParser.Reset()
	s.innerLenParser.Reset()
	s.body.Reset()
	s.compressedBuf.Reset()
	s.outerLen = 0
	s.uncompressedLen = 0
}

// Parse drives the state machine against src. Call it again with more
// bytes whenever it returns Pending.
func (s *Stream) Parse(src proto.Source) (Outcome, error) {
	if s.awaitingReset {
		s.lastPacket = nil
		s.lastID = proto.Identifier{}
		s.lastBody = nil
		s.lastCompressed = false
		s.lastCompressedSize = 0
		s.resetFrame()
		s.awaitingReset = false
	}

	if s.phase == phaseOuterLength {
		outcome, val, err := s.lengthParser.Feed(src)
		if err != nil {
			return Pending, err
		}
		if outcome == varint.Pending {
			return Pending, nil
		}
		if val > math.MaxInt32 {
			return Pending, proto.ErrUnrepresentable
		}
		s.outerLen = int(val)
		if s.threshold == nil {
			s.phase = phaseLiteralBody
		} else {
			s.phase = phaseInnerLength
		}
	}

	if s.phase == phaseInnerLength {
		outcome, val, err := s.innerLenParser.Feed(src)
		if err != nil {
			return Pending, err
		}
		if outcome == varint.Pending {
			return Pending, nil
		}
		s.uncompressedLen = int(val)
		consumedByInner := s.innerLenParser.Cached()
		remaining := s.outerLen - consumedByInner
		if remaining < 0 {
			return Pending, proto.ErrInconsistentLength
		}
		T := *s.threshold
		if s.uncompressedLen == 0 {
			if remaining >= T {
				return Pending, proto.ErrUncompressedWhereCompressedExpected
			}
			s.phase = phaseLiteralBody
		} else {
			if s.uncompressedLen < T {
				return Pending, proto.ErrCompressedWhereUncompressedExpected
			}
			s.phase = phaseCompressedBody
		}
	}

	switch s.phase {
	case phaseLiteralBody:
		want := s.outerLen
		if s.threshold != nil {
			want = s.outerLen - s.innerLenParser.Cached()
		}
		complete, err := copyBounded(src, s.body, want)
		if err != nil {
			return Pending, err
		}
		if !complete {
			return Pending, nil
		}
		s.lastCompressed = false
		s.lastCompressedSize = 0
	case phaseCompressedBody:
		compressedLen := s.outerLen - s.innerLenParser.Cached()
		if compressedLen < 0 {
			return Pending, proto.ErrInconsistentLength
		}
		complete, err := copyBounded(src, s.compressedBuf, compressedLen)
		if err != nil {
			return Pending, err
		}
		if !complete {
			return Pending, nil
		}
		if err := inflateInto(s.compressedBuf.Bytes(), s.body); err != nil {
			return Pending, err
		}
		s.lastCompressed = true
		s.lastCompressedSize = compressedLen
	}

	// Decode against a plain bytes.Reader snapshot of the assembled body,
	// not s.body directly: s.body's Read follows the non-blocking Source
	// convention (0, nil on empty) it needs while still being filled,
	// which would spin forever if a packet codec over-reads a malformed
	// body. bytes.Reader gives the conventional blocking io.EOF instead.
	bodyBytes := append([]byte(nil), s.body.Bytes()...)
	bodyReader := bytes.NewReader(bodyBytes)
	id, err := varint.ParseUint[uint32](bodyReader)
	if err != nil {
		return Pending, err
	}
	identifier := proto.Identifier{ID: proto.ID(id), Direction: s.direction, State: s.state}
	p := s.registry.Create(identifier)
	if p != nil {
		if err := p.Decode(bodyReader); err != nil {
			return Pending, err
		}
		if bodyReader.Len() != 0 {
			return Pending, proto.ErrInconsistentLength
		}
	}

	s.lastPacket = p
	s.lastID = identifier
	s.lastBody = bodyBytes
	s.awaitingReset = true
	return Done, nil
}

// copyBounded copies bytes from src into dst until dst holds exactly
// want bytes (cumulative across calls), draining whatever src has
// immediately available without blocking. It returns (true, nil) once
// dst reaches want bytes, (false, nil) if src had nothing more to give
// right now, or a non-nil error if src reports EndOfFile before want is
// reached or fails outright.
func copyBounded(src proto.Source, dst *bytebuf.Buffer, want int) (bool, error) {
	for dst.Len() < want {
		need := want - dst.Len()
		buf := make([]byte, need)
		n, err := src.Read(buf)
		if n > 0 {
			_, _ = dst.Write(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if dst.Len() < want {
					return false, proto.ErrEndOfFile
				}
				break
			}
			return false, proto.WrapTransportError(err)
		}
		if n == 0 {
			return false, nil
		}
	}
	return dst.Len() >= want, nil
}

func inflateInto(compressed []byte, dst *bytebuf.Buffer) error {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return proto.ErrUnexpected
	}
	defer zr.Close()
	if _, err := io.Copy(dst, zr); err != nil {
		return proto.ErrUnexpected
	}
	return nil
}

// LastSerializedBody returns the body (id varint plus payload) of the
// most recent Serialize call.
func (s *Stream) LastSerializedBody() []byte { return s.lastSerializedBody }

// LastSerializedSize returns len(LastSerializedBody()).
func (s *Stream) LastSerializedSize() int { return s.lastSerializedSize }

// LastSerializedCompressed reports whether the most recent Serialize
// call emitted a compressed frame.
func (s *Stream) LastSerializedCompressed() bool { return s.lastSerializedCompressed }

// LastSerializedCompressedSize returns the compressed byte count of the
// most recent Serialize call, or 0 if it was not compressed.
func (s *Stream) LastSerializedCompressedSize() int { return s.lastSerializedCompressedSize }

// Serialize looks up p's codec by its runtime type, encodes it into a
// frame, and writes the frame to w. Unlike Parse this never suspends:
// §5 specifies no suspension points in the serialize path.
func (s *Stream) Serialize(p proto.Packet, w proto.Sink) error {
	id, ok := s.registry.IdentifierOf(p)
	if !ok {
		return &proto.SerializerMissingError{Type: proto.TypeOf(p)}
	}

	s.serializeBody.Reset()
	if err := varint.Serialize(uint32(id.ID), s.serializeBody); err != nil {
		return err
	}
	if err := p.Encode(s.serializeBody); err != nil {
		return err
	}
	body := s.serializeBody.Bytes()
	L := len(body)

	if s.threshold == nil {
		if uint64(L) > math.MaxUint32 {
			return proto.ErrUnrepresentable
		}
		if err := varint.Serialize(uint32(L), w); err != nil {
			return err
		}
		if err := writeAll(w, body); err != nil {
			return err
		}
		s.lastSerializedCompressed = false
		s.lastSerializedCompressedSize = 0
	} else {
		T := *s.threshold
		if L < T {
			if err := varint.Serialize(uint32(L+1), w); err != nil {
				return err
			}
			if err := varint.Serialize(uint32(0), w); err != nil {
				return err
			}
			if err := writeAll(w, body); err != nil {
				return err
			}
			s.lastSerializedCompressed = false
			s.lastSerializedCompressedSize = 0
		} else {
			compressed, err := deflate(body)
			if err != nil {
				return err
			}
			C := len(compressed)
			lenVarintSize := varintSize(uint32(L))
			if err := varint.Serialize(uint32(C+lenVarintSize), w); err != nil {
				return err
			}
			if err := varint.Serialize(uint32(L), w); err != nil {
				return err
			}
			if err := writeAll(w, compressed); err != nil {
				return err
			}
			s.lastSerializedCompressed = true
			s.lastSerializedCompressedSize = C
		}
	}

	s.lastSerializedBody = append([]byte(nil), body...)
	s.lastSerializedSize = L
	return nil
}

func writeAll(w proto.Sink, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return proto.WrapTransportError(err)
	}
	if n != len(b) {
		return &proto.SinkOverflowError{Attempted: len(b), Actual: n}
	}
	return nil
}

func deflate(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, proto.WrapTransportError(err)
	}
	if err := zw.Close(); err != nil {
		return nil, proto.WrapTransportError(err)
	}
	return buf.Bytes(), nil
}

func varintSize(v uint32) int {
	scratch := bytebuf.New()
	_ = varint.Serialize(v, scratch)
	return scratch.Len()
}
