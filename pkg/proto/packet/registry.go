// Package packet holds the packet registry (§4.5) and the protocol's one
// retained example packet, Handshake (§4.8).
package packet

import (
	"fmt"
	"reflect"

	"go.mcproto.dev/mcproto/pkg/proto"
)

// Registry maps a packet's Identifier to the reflect.Type of its Go
// representation, and back. Both indices always hold exactly the same
// set of entries; the only way to populate a Registry is through
// Register, which maintains that invariant. A Registry is immutable
// after construction and is safe for concurrent reads.
type Registry struct {
	byIdentifier map[proto.Identifier]reflect.Type
	byType       map[reflect.Type]proto.Identifier
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byIdentifier: make(map[proto.Identifier]reflect.Type),
		byType:       make(map[reflect.Type]proto.Identifier),
	}
}

// Register associates id with the Go type of sample. sample is used only
// to derive the type; its field values are ignored. It panics if either
// id or sample's type is already registered, which is a programmer
// error: registration only happens at construction time.
func (r *Registry) Register(id proto.Identifier, sample proto.Packet) {
	t := proto.TypeOf(sample)
	if _, ok := r.byIdentifier[id]; ok {
		panic(fmt.Sprintf("packet: %s already registered", id))
	}
	if _, ok := r.byType[t]; ok {
		panic(fmt.Sprintf("packet: %s already registered", t))
	}
	r.byIdentifier[id] = t
	r.byType[t] = id
}

// Create returns a new zero-valued packet for id, or nil if id is not
// registered.
func (r *Registry) Create(id proto.Identifier) proto.Packet {
	t, ok := r.byIdentifier[id]
	if !ok {
		return nil
	}
	p, ok := reflect.New(t).Interface().(proto.Packet)
	if !ok {
		return nil
	}
	return p
}

// Lookup reports whether id is registered, without allocating a packet.
func (r *Registry) Lookup(id proto.Identifier) (reflect.Type, bool) {
	t, ok := r.byIdentifier[id]
	return t, ok
}

// IdentifierOf returns the Identifier a packet value's runtime type is
// registered under.
func (r *Registry) IdentifierOf(p proto.Packet) (proto.Identifier, bool) {
	id, ok := r.byType[proto.TypeOf(p)]
	return id, ok
}

// NewDefault returns a Registry populated with every packet type this
// module knows about. The wire protocol has exactly one known packet
// (Handshake); every other packet id is handled by the stream
// serializer's unknown-packet path (§4.6 step 3).
func NewDefault() *Registry {
	r := New()
	r.Register(proto.Identifier{ID: 0x00, Direction: proto.Serverbound, State: proto.Handshaking}, &Handshake{})
	return r
}
