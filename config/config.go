package config

import (
	"math"
	"time"
)

type (
	HeadersSpace struct {
		Default, Maximal int
	}

	RequestLineSize struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize is a shared buffer storing the method, target and protocol
		// tokens when they have to be preserved across reads. Setting the maximal
		// boundary too low results in 414 responses for long targets.
		RequestLineSize RequestLineSize
	}

	Headers struct {
		// Space limits the amount of memory occupied by request headers. The
		// default value sizes the initial allocation, the maximal one caps it
		// and maps overflow onto a 431 response.
		Space HeadersSpace
		// MaxNumber is the maximal number of header fields in a single request.
		MaxNumber int
		// MaxAcceptEncodingTokens limits the buffer storing the codings a client accepts.
		MaxAcceptEncodingTokens int
		// Default headers are included into every response implicitly, unless
		// explicitly overridden by a handler.
		Default map[string]string
	}

	Body struct {
		// MaxSize caps a request body. Exceeding requests are answered 413.
		// Set math.MaxUint64 to disable the limit.
		MaxSize uint64
		// DrainBound is the number of unread body bytes still worth discarding
		// to keep a connection reusable. A handler leaving more than this amount
		// behind costs the peer its keep-alive: closing is cheaper than reading.
		DrainBound uint64
	}

	NET struct {
		// ReadBufferSize is the size in bytes of the buffer used to read from a socket.
		ReadBufferSize int
		// WriteBufferSize is the size the response buffer tries to stay within
		// between flushes.
		WriteBufferSize int
		// ReadTimeout bounds waiting for the beginning of a request preamble.
		ReadTimeout time.Duration
		// KeepAliveTimeout bounds idling between requests on a persistent
		// connection. Expiry closes the connection silently.
		KeepAliveTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often a blocked Accept() call is
		// interrupted to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration
		// DrainDuration is how long a graceful shutdown waits for in-flight
		// connections before force-closing the stragglers.
		DrainDuration time.Duration
	}

	HTTP struct {
		// Compression enables transparent response compression for bodies of
		// unknown size whenever the client accepts one of the configured codings.
		Compression bool
	}
)

// Config holds the settings recognized across the engine: restrictions,
// timeouts and pre-allocations.
//
// Always modify defaults (returned via Default()) instead of constructing
// the struct manually, otherwise zero limits will reject everything.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
	HTTP    HTTP
}

// Default returns a well-balanced default config.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: RequestLineSize{
				Default: 2 * 1024,
				// most web entities limit the request line to 4-8kb, so 16kb is
				// pretty much tolerant
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Space: HeadersSpace{
				Default: 1 * 1024,  // must be fairly enough in most cases
				Maximal: 16 * 1024, // however, there also might be extremely long cookies
			},
			MaxNumber:               50,
			MaxAcceptEncodingTokens: 8,
			Default:                 map[string]string{"Server": "lumen"},
		},
		Body: Body{
			MaxSize:    math.MaxUint32, // 4 gigabytes
			DrainBound: 16 * 1024,
		},
		NET: NET{
			ReadBufferSize:            4 * 1024,
			WriteBufferSize:           4 * 1024,
			ReadTimeout:               90 * time.Second,
			KeepAliveTimeout:          90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			DrainDuration:             10 * time.Second,
		},
		HTTP: HTTP{
			Compression: true,
		},
	}
}
