package varint

import (
	"errors"
	"io"

	"go.mcproto.dev/mcproto/pkg/proto"
)

// Outcome is the result of a single Parser.Feed call.
type Outcome int

const (
	// Pending means the varint is not yet complete; Feed must be called
	// again with more bytes.
	Pending Outcome = iota
	// Done means the varint has been fully parsed. The value is latched:
	// further Feed calls return Done immediately without consuming any
	// more input until Reset is called.
	Done
	// Err means the encoding was invalid; see the returned error.
	Err
)

// Parser incrementally parses a single varint of a fixed bit width
// across arbitrarily chopped chunks of a Source, without buffering more
// than the maximum encoding length for that width.
//
// It mirrors the original implementation's incremental_varint_parser,
// simplified per the design note that favors a single owned buffer over
// a chain of composed streams: each Feed call copies newly read bytes
// into that buffer and decodes once the terminating byte is seen.
type Parser struct {
	state   rawState
	buf     []byte
	latched bool
}

// NewParser returns a Parser for varints of the given bit width (e.g. 16,
// 32 or 64).
func NewParser(bitWidth int) *Parser {
	return &Parser{
		state: rawState{bitWidth: bitWidth},
		buf:   make([]byte, 0, MaxBytes(bitWidth)),
	}
}

// Feed attempts to complete the varint using bytes already cached from
// previous calls as a prefix, followed by bytes freshly read from src.
// It never blocks: if src has no bytes immediately available it returns
// Pending without error.
func (p *Parser) Feed(src proto.Source) (Outcome, uint64, error) {
	if p.done() {
		return Done, p.state.result, nil
	}
	var b [1]byte
	for {
		n, err := src.Read(b[:])
		if n == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				return Pending, 0, nil
			}
			return Err, 0, proto.WrapTransportError(err)
		}
		p.buf = append(p.buf, b[0])
		st, ferr := p.state.feedByte(b[0])
		switch st {
		case statusDone:
			p.latched = true
			return Done, p.state.result, nil
		case statusErr:
			return Err, 0, ferr
		}
		// statusPending: loop, trying to drain whatever else src has
		// immediately available rather than returning to the caller
		// after every single byte.
	}
}

func (p *Parser) done() bool { return p.latched }

// Cached returns the number of bytes currently buffered by this parser,
// including the bytes of an already-completed value.
func (p *Parser) Cached() int { return len(p.buf) }

// Empty reports whether this parser has no cached bytes.
func (p *Parser) Empty() bool { return len(p.buf) == 0 }

// Reset clears all cached bytes and any latched result.
func (p *Parser) Reset() {
	p.state = rawState{bitWidth: p.state.bitWidth}
	p.buf = p.buf[:0]
	p.latched = false
}
