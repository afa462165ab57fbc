package packet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.mcproto.dev/mcproto/pkg/proto"
)

func TestNewDefaultRegistersHandshake(t *testing.T) {
	r := NewDefault()
	id := proto.Identifier{ID: 0x00, Direction: proto.Serverbound, State: proto.Handshaking}

	typ, ok := r.Lookup(id)
	require.True(t, ok)
	require.Equal(t, proto.TypeOf(&Handshake{}), typ)

	p := r.Create(id)
	require.IsType(t, &Handshake{}, p)
}

func TestRegistryCreateUnknownIDReturnsNil(t *testing.T) {
	r := NewDefault()
	id := proto.Identifier{ID: 127, Direction: proto.Serverbound, State: proto.Handshaking}
	require.Nil(t, r.Create(id))
	_, ok := r.Lookup(id)
	require.False(t, ok)
}

func TestRegistryIdentifierOf(t *testing.T) {
	r := NewDefault()
	id, ok := r.IdentifierOf(&Handshake{})
	require.True(t, ok)
	require.Equal(t, proto.Identifier{ID: 0x00, Direction: proto.Serverbound, State: proto.Handshaking}, id)
}

func TestRegistryIdentifierOfUnknownType(t *testing.T) {
	r := New()
	_, ok := r.IdentifierOf(&Handshake{})
	require.False(t, ok)
}

func TestRegisterDuplicateIdentifierPanics(t *testing.T) {
	r := New()
	id := proto.Identifier{ID: 0x00, Direction: proto.Serverbound, State: proto.Handshaking}
	r.Register(id, &Handshake{})
	require.Panics(t, func() { r.Register(id, &Handshake{}) })
}
