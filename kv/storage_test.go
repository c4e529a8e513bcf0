package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	t.Run("case-insensitive lookup", func(t *testing.T) {
		s := New().Add("Content-Type", "text/html")
		require.Equal(t, "text/html", s.Value("content-type"))
		require.Equal(t, "text/html", s.Value("CONTENT-TYPE"))
		require.True(t, s.Has("cOnTeNt-TyPe"))
		require.False(t, s.Has("content-length"))
	})

	t.Run("multiplicity and order", func(t *testing.T) {
		s := New().
			Add("Accept", "text/html").
			Add("Via", "a").
			Add("accept", "application/json")

		require.Equal(t, []string{"text/html", "application/json"}, s.Values("Accept"))
		require.Equal(t, "text/html", s.Value("Accept"))
		require.Equal(t, 3, s.Len())
	})

	t.Run("fallback", func(t *testing.T) {
		s := New()
		require.Equal(t, "", s.Value("Host"))
		require.Equal(t, "localhost", s.ValueOr("Host", "localhost"))
	})

	t.Run("iter", func(t *testing.T) {
		s := New().Add("a", "1").Add("b", "2")
		var got []string
		for k, v := range s.Iter() {
			got = append(got, k+"="+v)
		}
		require.Equal(t, []string{"a=1", "b=2"}, got)
	})

	t.Run("clear", func(t *testing.T) {
		s := New().Add("a", "1")
		s.Clear()
		require.True(t, s.Empty())
		require.Nil(t, s.Values("a"))
	})
}
