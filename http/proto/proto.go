package proto

import "github.com/indigo-web/utils/uf"

type Protocol uint8

const (
	Unknown Protocol = iota
	HTTP10
	HTTP11
)

func (p Protocol) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return ""
	}
}

// Persistent tells whether connections are kept alive by default under the
// protocol version.
func (p Protocol) Persistent() bool {
	return p == HTTP11
}

const (
	tokenLength = len("HTTP/x.x")
	majorOffset = len("HTTP/x") - 1
	minorOffset = len("HTTP/x.x") - 1
	scheme      = "HTTP/"
)

// FromBytes parses a protocol token. Anything beyond HTTP/1.x maps to
// Unknown, as the engine speaks HTTP/1 only.
func FromBytes(raw []byte) Protocol {
	if len(raw) != tokenLength || uf.B2S(raw[:majorOffset]) != scheme || raw[majorOffset+1] != '.' {
		return Unknown
	}

	switch {
	case raw[majorOffset] == '1' && raw[minorOffset] == '0':
		return HTTP10
	case raw[majorOffset] == '1' && raw[minorOffset] == '1':
		return HTTP11
	default:
		return Unknown
	}
}
