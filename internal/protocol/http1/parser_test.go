package http1

import (
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/require"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/proto"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/buffer"
	"github.com/lumen-web/lumen/kv"
)

func newTestParser(cfg *config.Config) (*Parser, *http.Request) {
	request := http.NewRequest(kv.New(), http.NewBody(nil), nil)
	requestLine := buffer.New(cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal)
	headers := buffer.New(cfg.Headers.Space.Default, cfg.Headers.Space.Maximal)

	return NewParser(cfg, request, requestLine, headers), request
}

// feed pushes the input into the parser in pieces of the given size,
// imitating reads of a fragmented stream.
func feed(t *testing.T, p *Parser, input string, pieceSize int) (extra []byte) {
	data := []byte(input)

	for len(data) > 0 {
		piece := data
		if len(piece) > pieceSize {
			piece = piece[:pieceSize]
		}
		data = data[len(piece):]

		done, rest, err := p.Parse(piece)
		require.NoError(t, err)

		if done {
			require.Empty(t, data, "the head ended before the input did")
			return rest
		}

		require.Empty(t, rest)
	}

	t.Fatal("the parser never completed the head")
	return nil
}

func TestParser(t *testing.T) {
	cfg := config.Default()

	t.Run("simple get", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		extra := feed(t, parser, "GET /path/to/resource HTTP/1.1\r\nHost: localhost\r\n\r\n", 1024)

		require.Empty(t, extra)
		require.Equal(t, "GET", request.Method)
		require.Equal(t, "/path/to/resource", request.Target)
		require.Equal(t, proto.HTTP11, request.Protocol)
		require.Equal(t, "localhost", request.Headers.Value("Host"))
	})

	t.Run("target is kept verbatim", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET /a%20b?key=value&x=%2F#nope HTTP/1.1\r\n\r\n", 1024)

		require.Equal(t, "/a%20b?key=value&x=%2F#nope", request.Target)
	})

	t.Run("byte by byte", func(t *testing.T) {
		target := "/" + uniuri.NewLen(500)
		value := uniuri.NewLen(600)
		raw := "POST " + target + " HTTP/1.0\r\nX-Random: " + value + "\r\n\r\n"

		parser, request := newTestParser(cfg)
		extra := feed(t, parser, raw, 1)

		require.Empty(t, extra)
		require.Equal(t, "POST", request.Method)
		require.Equal(t, target, request.Target)
		require.Equal(t, proto.HTTP10, request.Protocol)
		require.Equal(t, value, request.Headers.Value("X-Random"))
	})

	t.Run("headers are case-insensitive and multi-valued", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET / HTTP/1.1\r\nAccept: text/html\r\naccept: text/plain\r\n\r\n", 1024)

		require.Equal(t, []string{"text/html", "text/plain"}, request.Headers.Values("ACCEPT"))
	})

	t.Run("header value spaces are trimmed", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET / HTTP/1.1\r\nHost:    localhost\r\n\r\n", 1024)

		require.Equal(t, "localhost", request.Headers.Value("Host"))
	})

	t.Run("content-length", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		extra := feed(t, parser, "POST / HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!", 1024)

		require.Equal(t, 13, request.ContentLength)
		require.Equal(t, "Hello, world!", string(extra))
	})

	t.Run("chunked transfer encoding", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "POST / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n", 1024)

		require.True(t, request.Chunked)
	})

	t.Run("connection and content-type are latched", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET / HTTP/1.1\r\nConnection: close\r\nContent-Type: text/plain\r\n\r\n", 1024)

		require.Equal(t, "close", request.Connection)
		require.Equal(t, "text/plain", request.ContentType)
	})

	t.Run("accept-encoding tokens", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET / HTTP/1.1\r\nAccept-Encoding: gzip;q=1.0, identity, br ,zstd\r\n\r\n", 1024)

		require.Equal(t, []string{"gzip", "br", "zstd"}, request.AcceptEncoding)
	})

	t.Run("pipelined head leaves the next one intact", func(t *testing.T) {
		parser, _ := newTestParser(cfg)
		extra := feed(t, parser, "GET /first HTTP/1.1\r\n\r\nGET /second HTTP/1.1\r\n\r\n", 1024)

		require.Equal(t, "GET /second HTTP/1.1\r\n\r\n", string(extra))
	})

	t.Run("parser re-arms between requests", func(t *testing.T) {
		parser, request := newTestParser(cfg)
		feed(t, parser, "GET /first HTTP/1.1\r\nHost: a\r\n\r\n", 1024)

		request.Reset()

		feed(t, parser, "GET /second HTTP/1.1\r\nHost: b\r\n\r\n", 3)
		require.Equal(t, "/second", request.Target)
		require.Equal(t, "b", request.Headers.Value("Host"))
	})

	for _, tc := range []struct {
		name  string
		raw   string
		fails error
	}{
		{"empty method", " / HTTP/1.1\r\n\r\n", status.ErrBadRequest},
		{"empty target", "GET  HTTP/1.1\r\n\r\n", status.ErrBadRequest},
		{"control char in target", "GET /\x01 HTTP/1.1\r\n\r\n", status.ErrBadRequest},
		{"unknown protocol", "GET / HTTP/4.2\r\n\r\n", status.ErrHTTPVersionNotSupported},
		{"field line without a colon", "GET / HTTP/1.1\r\nweird\r\n\r\n", status.ErrBadRequest},
		{"bare cr between field lines", "GET / HTTP/1.1\r\nHost: a\r\n\rx", status.ErrBadRequest},
		{"negative content-length", "GET / HTTP/1.1\r\nContent-Length: -5\r\n\r\n", status.ErrBadContentLength},
		{"non-numeric content-length", "GET / HTTP/1.1\r\nContent-Length: five\r\n\r\n", status.ErrBadContentLength},
		{"content-length overflow", "GET / HTTP/1.1\r\nContent-Length: 9999999999999999999\r\n\r\n", status.ErrBadContentLength},
		{"duplicate transfer-encoding", "GET / HTTP/1.1\r\nTransfer-Encoding: chunked\r\nTransfer-Encoding: chunked\r\n\r\n", status.ErrBadEncoding},
		{"chunked is not the last coding", "GET / HTTP/1.1\r\nTransfer-Encoding: chunked, gzip\r\n\r\n", status.ErrBadEncoding},
		{"empty encoding token", "GET / HTTP/1.1\r\nAccept-Encoding: gzip,,br\r\n\r\n", status.ErrBadEncoding},
	} {
		t.Run(tc.name, func(t *testing.T) {
			parser, _ := newTestParser(cfg)
			_, _, err := parser.Parse([]byte(tc.raw))
			require.ErrorIs(t, err, tc.fails)
		})
	}

	t.Run("colon-less field line torn at the read boundary", func(t *testing.T) {
		for _, next := range []string{"\n\r\n", "\r\n\r\n"} {
			parser, _ := newTestParser(cfg)
			done, _, err := parser.Parse([]byte("GET / HTTP/1.1\r\nBadLine"))
			require.False(t, done)
			require.NoError(t, err)

			_, _, err = parser.Parse([]byte(next))
			require.ErrorIs(t, err, status.ErrBadRequest)
		}
	})

	t.Run("too long request line", func(t *testing.T) {
		tiny := config.Default()
		tiny.URI.RequestLineSize = config.RequestLineSize{Default: 16, Maximal: 64}

		parser, _ := newTestParser(tiny)
		_, _, err := parser.Parse([]byte("GET /" + uniuri.NewLen(128) + " HTTP/1.1\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrURITooLong)
	})

	t.Run("too many headers", func(t *testing.T) {
		tiny := config.Default()
		tiny.Headers.MaxNumber = 2

		raw := "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"
		parser, _ := newTestParser(tiny)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
	})

	t.Run("header space overflow", func(t *testing.T) {
		tiny := config.Default()
		tiny.Headers.Space = config.HeadersSpace{Default: 16, Maximal: 64}

		raw := "GET / HTTP/1.1\r\nX-Long: " + uniuri.NewLen(128) + "\r\n\r\n"
		parser, _ := newTestParser(tiny)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})
}
