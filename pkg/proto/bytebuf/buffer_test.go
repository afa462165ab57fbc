package bytebuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	b := New()
	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, b.Len())

	out := make([]byte, 3)
	n, err = b.Read(out)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "hel", string(out))
	require.Equal(t, 2, b.Len())
}

func TestReadOnEmptyReturnsZeroNotEOF(t *testing.T) {
	b := New()
	out := make([]byte, 4)
	n, err := b.Read(out)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDiscard(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("abcdef"))
	b.Discard(2)
	require.Equal(t, "cdef", string(b.Bytes()))
}

func TestDiscardBeyondLenPanics(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("ab"))
	require.Panics(t, func() { b.Discard(3) })
}

func TestSeekReadAndReadCursor(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("abcdef"))
	_, _ = b.Read(make([]byte, 4))
	require.Equal(t, 4, b.ReadCursor())
	b.SeekRead(1)
	require.Equal(t, 1, b.ReadCursor())
	require.Equal(t, "bcdef", string(b.Bytes()))
}

func TestSeekReadOutOfRangePanics(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("ab"))
	require.Panics(t, func() { b.SeekRead(5) })
}

func TestReset(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("abc"))
	b.Reset()
	require.Equal(t, 0, b.Len())
	require.Equal(t, 0, b.ReadCursor())
}

func TestCompact(t *testing.T) {
	b := New()
	_, _ = b.Write([]byte("abcdef"))
	_, _ = b.Read(make([]byte, 3))
	b.Compact()
	require.Equal(t, 0, b.ReadCursor())
	require.Equal(t, "def", string(b.Bytes()))
}
