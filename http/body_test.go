package http

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type retrieverMock struct {
	pieces  [][]byte
	pointer int
	err     error
}

func (r *retrieverMock) Retrieve() ([]byte, error) {
	if r.pointer >= len(r.pieces) {
		if r.err != nil {
			return nil, r.err
		}

		return nil, io.EOF
	}

	piece := r.pieces[r.pointer]
	r.pointer++

	if r.pointer == len(r.pieces) && r.err == nil {
		return piece, io.EOF
	}

	return piece, nil
}

func TestBody(t *testing.T) {
	pieces := func(strs ...string) [][]byte {
		out := make([][]byte, len(strs))
		for i, s := range strs {
			out[i] = []byte(s)
		}

		return out
	}

	t.Run("bytes glues pieces", func(t *testing.T) {
		body := NewBody(&retrieverMock{pieces: pieces("Hel", "lo, ", "world!")})
		data, err := body.Bytes()
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))

		// repeated reads return the already accumulated value
		data, err = body.Bytes()
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))
	})

	t.Run("reader interface", func(t *testing.T) {
		body := NewBody(&retrieverMock{pieces: pieces("Hello, ", "world!")})
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(data))
	})

	t.Run("json", func(t *testing.T) {
		body := NewBody(&retrieverMock{pieces: pieces(`{"hello":`, `"world"}`)})

		var model struct {
			Hello string `json:"hello"`
		}
		require.NoError(t, body.JSON(&model))
		require.Equal(t, "world", model.Hello)
	})

	t.Run("source error is sticky", func(t *testing.T) {
		bang := errors.New("bang")
		body := NewBody(&retrieverMock{pieces: pieces("partial"), err: bang})

		_, err := body.Bytes()
		require.ErrorIs(t, err, bang)
		_, err = body.Bytes()
		require.ErrorIs(t, err, bang)
	})

	t.Run("reset re-arms the view", func(t *testing.T) {
		body := NewBody(&retrieverMock{pieces: pieces("first")})
		_, err := body.Bytes()
		require.NoError(t, err)

		body.src = &retrieverMock{pieces: pieces("second")}
		body.Reset()

		data, err := body.Bytes()
		require.NoError(t, err)
		require.Equal(t, "second", string(data))
	})
}
