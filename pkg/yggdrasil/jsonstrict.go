package yggdrasil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"

	"go.mcproto.dev/mcproto/pkg/util/uuid"
)

// field describes one key a strict object decode accepts.
type field struct {
	name     string
	required bool
	decode   func(dec *json.Decoder) error
}

// decodeObject walks dec's next JSON value as an object, rejecting
// unknown keys, duplicate keys and missing required keys. fields need
// not be in wire order; object keys may arrive in any order.
func decodeObject(dec *json.Decoder, fields []field) error {
	tok, err := dec.Token()
	if err != nil {
		return wrapTokenErr(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &DecodeError{Kind: IncorrectType}
	}
	seen := make(map[string]bool, len(fields))
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return &DecodeError{Kind: InvalidJson}
		}
		if seen[key] {
			return &DecodeError{Kind: DuplicateKey, Key: key}
		}
		var matched *field
		for i := range fields {
			if fields[i].name == key {
				matched = &fields[i]
				break
			}
		}
		if matched == nil {
			return &DecodeError{Kind: UnexpectedKey, Key: key}
		}
		seen[key] = true
		if err := matched.decode(dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return wrapTokenErr(err)
	}
	for _, f := range fields {
		if f.required && !seen[f.name] {
			return &DecodeError{Kind: Incomplete, Key: f.name}
		}
	}
	return nil
}

func wrapTokenErr(err error) error {
	if errors.Is(err, io.EOF) {
		return &DecodeError{Kind: InvalidJson, Err: err}
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &DecodeError{Kind: InvalidJson, Err: err}
	}
	return &DecodeError{Kind: InvalidJson, Err: err}
}

// decodeString decodes the next value as a string into dst.
func decodeString(dst *string) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		tok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		s, ok := tok.(string)
		if !ok {
			return &DecodeError{Kind: IncorrectType}
		}
		*dst = s
		return nil
	}
}

// decodeOptionalString decodes the next value as a string into a newly
// allocated *string stored at dst.
func decodeOptionalString(dst **string) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		var s string
		if err := decodeString(&s)(dec); err != nil {
			return err
		}
		*dst = &s
		return nil
	}
}

// decodeUUID decodes the next value as a string holding a UUID (dashed
// or undashed) into dst.
func decodeUUID(dst *uuid.UUID) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		var s string
		if err := decodeString(&s)(dec); err != nil {
			return err
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return &DecodeError{Kind: IncorrectType}
		}
		*dst = u
		return nil
	}
}

// decodeBool decodes the next value as a boolean into dst.
func decodeBool(dst *bool) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		tok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		b, ok := tok.(bool)
		if !ok {
			return &DecodeError{Kind: IncorrectType}
		}
		*dst = b
		return nil
	}
}

// decodeNonNegativeInt decodes the next value as a non-negative integer
// into dst, failing with Overflow if it does not fit an int32 or is
// negative.
func decodeNonNegativeInt(dst *int) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		tok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return &DecodeError{Kind: IncorrectType}
		}
		f, err := num.Float64()
		if err != nil {
			return &DecodeError{Kind: IncorrectType}
		}
		if f != math.Trunc(f) {
			return &DecodeError{Kind: IncorrectType}
		}
		if f < 0 || f > math.MaxInt32 {
			return &DecodeError{Kind: Overflow}
		}
		*dst = int(f)
		return nil
	}
}

// decodeProperties decodes an array of {name, value} objects into a
// string->string map, failing with DuplicateKey if a name repeats.
func decodeProperties(dst *map[string]string) func(dec *json.Decoder) error {
	return func(dec *json.Decoder) error {
		tok, err := dec.Token()
		if err != nil {
			return wrapTokenErr(err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return &DecodeError{Kind: IncorrectType}
		}
		m := make(map[string]string)
		for dec.More() {
			var name, value string
			err := decodeObject(dec, []field{
				{name: "name", required: true, decode: decodeString(&name)},
				{name: "value", required: true, decode: decodeString(&value)},
			})
			if err != nil {
				return err
			}
			if _, dup := m[name]; dup {
				return &DecodeError{Kind: DuplicateKey, Key: name}
			}
			m[name] = value
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return wrapTokenErr(err)
		}
		*dst = m
		return nil
	}
}

// newStrictDecoder returns a json.Decoder over data configured to
// surface numbers as json.Number, so integer-ness and overflow can be
// checked precisely instead of silently truncating through float64.
func newStrictDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// decodeTopLevel decodes data as a single strict object and ensures no
// trailing tokens follow it.
func decodeTopLevel(data []byte, fields []field) error {
	dec := newStrictDecoder(data)
	if err := decodeObject(dec, fields); err != nil {
		return err
	}
	if dec.More() {
		return &DecodeError{Kind: InvalidJson}
	}
	return nil
}

// encodeProperties serializes m as an array of {name, value} objects.
// Go map iteration order is randomized, which is fine here: property
// sets are unordered per §4.9, unlike record fields themselves.
func encodeProperties(buf *bytes.Buffer, m map[string]string) {
	buf.WriteByte('[')
	first := true
	for name, value := range m {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`{"name":`)
		writeJSONString(buf, name)
		buf.WriteString(`,"value":`)
		writeJSONString(buf, value)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
