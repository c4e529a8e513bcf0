package http1

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/kv"
	"github.com/lumen-web/lumen/transport/dummy"
)

func sizedRequest(n int) *http.Request {
	request := http.NewRequest(kv.New(), http.NewBody(nil), nil)
	request.ContentLength = n

	return request
}

func chunkedRequest() *http.Request {
	request := http.NewRequest(kv.New(), http.NewBody(nil), nil)
	request.Chunked = true

	return request
}

func drain(t *testing.T, body *Body) string {
	var out []byte

	for {
		piece, err := body.Retrieve()
		out = append(out, piece...)

		switch err {
		case nil:
		case io.EOF:
			return string(out)
		default:
			t.Fatalf("unexpected body error: %s", err)
		}
	}
}

func TestBody(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		client := dummy.NewClient([]byte("leftover"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(0))

		require.Empty(t, drain(t, body))
	})

	t.Run("sized across reads", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hel"), []byte("lo, wo"), []byte("rld!"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(13))

		require.Equal(t, "Hello, world!", drain(t, body))
	})

	t.Run("sized leaves the next head alone", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hello, world!GET / HTTP/1.1\r\n"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(13))

		require.Equal(t, "Hello, world!", drain(t, body))

		rest, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "GET / HTTP/1.1\r\n", string(rest))
	})

	t.Run("chunked", func(t *testing.T) {
		client := dummy.NewClient(
			[]byte("4\r\nWiki\r\n7\r\npedia"),
			[]byte(" i\r\nB\r\nn \r\nchunks.\r\n0\r\n\r\n"),
		)
		body := NewBody(client, 1024)
		body.Init(chunkedRequest())

		require.Equal(t, "Wikipedia in \r\nchunks.", drain(t, body))
	})

	t.Run("sized over the limit", func(t *testing.T) {
		client := dummy.NewClient([]byte("body"))
		body := NewBody(client, 3)
		body.Init(sizedRequest(4))

		_, err := body.Retrieve()
		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})

	t.Run("chunked over the limit", func(t *testing.T) {
		client := dummy.NewClient([]byte("5\r\nhello\r\n0\r\n\r\n"))
		body := NewBody(client, 3)
		body.Init(chunkedRequest())

		var err error
		for err == nil {
			_, err = body.Retrieve()
		}

		require.ErrorIs(t, err, status.ErrBodyTooLarge)
	})

	t.Run("discard within bound", func(t *testing.T) {
		client := dummy.NewClient([]byte("0123456789next"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(10))

		require.NoError(t, body.Discard(16))

		rest, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "next", string(rest))
	})

	t.Run("discard over the bound", func(t *testing.T) {
		// the whole remainder arrives in a single read, along with io.EOF
		client := dummy.NewClient([]byte("0123456789"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(10))

		require.ErrorIs(t, body.Discard(4), status.ErrBodyTooLarge)
	})

	t.Run("discard over the bound across reads", func(t *testing.T) {
		client := dummy.NewClient([]byte("0123"), []byte("4567"), []byte("89"))
		body := NewBody(client, 1024)
		body.Init(sizedRequest(10))

		require.ErrorIs(t, body.Discard(4), status.ErrBodyTooLarge)
	})

	t.Run("re-init after a body", func(t *testing.T) {
		client := dummy.NewClient([]byte("first"), []byte("second"))
		body := NewBody(client, 1024)

		body.Init(sizedRequest(5))
		require.Equal(t, "first", drain(t, body))

		body.Init(sizedRequest(6))
		require.Equal(t, "second", drain(t, body))
	})
}
