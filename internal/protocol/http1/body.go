package http1

import (
	"io"
	"math"

	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/transport"
)

type bodyMode uint8

const (
	bodyNone bodyMode = iota
	bodySized
	bodyChunked
)

var _ http.Retriever = new(Body)

// Body produces decoded request body pieces straight out of the connection.
// Framing is picked per request at Init time: Transfer-Encoding: chunked wins
// over Content-Length, and absent both there is no body at all.
type Body struct {
	client    transport.Client
	parser    chunkedParser
	mode      bodyMode
	bytesLeft uint64
	received  uint64
	maxSize   uint64
}

func NewBody(client transport.Client, maxSize uint64) *Body {
	return &Body{
		client:  client,
		parser:  newChunkedParser(),
		maxSize: maxSize,
	}
}

// Init arms the body for the freshly parsed request.
func (b *Body) Init(request *http.Request) {
	b.received = 0

	switch {
	case request.Chunked:
		b.mode = bodyChunked
	case request.ContentLength > 0:
		b.mode = bodySized
		b.bytesLeft = uint64(request.ContentLength)
	default:
		b.mode = bodyNone
	}
}

// Retrieve returns the next decoded piece of the body. The piece may be
// empty with a nil error when the input held framing bytes only. io.EOF
// signals the end of the body; input past it is pushed back to the client
// untouched.
func (b *Body) Retrieve() ([]byte, error) {
	switch b.mode {
	case bodySized:
		return b.sized()
	case bodyChunked:
		return b.chunked()
	default:
		return nil, io.EOF
	}
}

// Discard consumes the rest of the body, dropping the contents. At most
// bound bytes are read past the current position: a connection whose unread
// body exceeds the bound is cheaper to close than to drain.
func (b *Body) Discard(bound uint64) error {
	var consumed uint64

	for {
		piece, err := b.Retrieve()
		// the last piece arrives together with io.EOF and still counts
		if consumed += uint64(len(piece)); consumed > bound {
			return status.ErrBodyTooLarge
		}

		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}

func (b *Body) sized() (body []byte, err error) {
	if b.bytesLeft == 0 {
		return nil, io.EOF
	}

	if b.bytesLeft > b.maxSize {
		return nil, status.ErrBodyTooLarge
	}

	data, err := b.client.Read()
	if err != nil {
		return nil, err
	}

	if size := uint64(len(data)); size >= b.bytesLeft {
		body, data = data[:b.bytesLeft], data[b.bytesLeft:]
		b.client.Pushback(data)
		b.bytesLeft = 0
		err = io.EOF
	} else {
		b.bytesLeft -= size
		body = data
	}

	return body, err
}

func (b *Body) chunked() (body []byte, err error) {
	data, err := b.client.Read()
	if err != nil {
		return nil, err
	}

	chunk, extra, err := b.parser.Parse(data)
	switch err {
	case nil, io.EOF:
	default:
		return nil, err
	}

	received, overflows := adduint(b.received, uint64(len(chunk)))
	if overflows || received > b.maxSize {
		return nil, status.ErrBodyTooLarge
	}

	b.received = received
	b.client.Pushback(extra)

	return chunk, err
}

func adduint(x, y uint64) (uint64, bool) {
	return x + y, math.MaxUint64-x < y
}
