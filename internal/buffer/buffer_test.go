package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		b := New(8, 64)
		require.True(t, b.Append([]byte("hello")))
		require.Equal(t, 5, b.SegmentLength())
		require.Equal(t, "hello", string(b.Finish()))

		require.True(t, b.Append([]byte("world")))
		first := b.Preview()
		require.Equal(t, "world", string(first))
		require.Equal(t, "world", string(b.Finish()))
		require.Equal(t, 0, b.SegmentLength())
	})

	t.Run("limit", func(t *testing.T) {
		b := New(0, 4)
		require.True(t, b.Append([]byte("abcd")))
		require.False(t, b.Append([]byte("e")))
		require.False(t, b.AppendByte('e'))
		require.Equal(t, "abcd", string(b.Finish()))
	})

	t.Run("trunc", func(t *testing.T) {
		b := New(0, 64)
		require.True(t, b.Append([]byte("first")))
		b.Finish()
		require.True(t, b.Append([]byte("second\r")))
		b.Trunc(1)
		require.Equal(t, "second", string(b.Finish()))
	})

	t.Run("clear", func(t *testing.T) {
		b := New(0, 4)
		require.True(t, b.Append([]byte("abcd")))
		b.Finish()
		b.Clear()
		require.True(t, b.Append([]byte("efgh")))
		require.Equal(t, "efgh", string(b.Finish()))
	})
}
