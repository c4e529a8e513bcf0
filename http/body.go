package http

import (
	"io"

	"github.com/indigo-web/utils/uf"
	jsoniter "github.com/json-iterator/go"
)

// Retriever produces the next decoded piece of the request body. The
// returned slice stays valid until the next call. io.EOF signals the end,
// possibly along with the last piece.
type Retriever interface {
	Retrieve() ([]byte, error)
}

// Body is the handler-facing view of the request body. It reads lazily via
// the underlying Retriever and optionally accumulates the pieces when the
// whole body is requested at once.
type Body struct {
	src     Retriever
	buff    []byte
	pending []byte
	done    bool
	err     error
}

func NewBody(src Retriever) *Body {
	return &Body{src: src}
}

// Retrieve returns the next piece of the body. Implements Retriever, so the
// Body can be plugged wherever its source could.
func (b *Body) Retrieve() ([]byte, error) {
	if b.done {
		return nil, b.epilogue()
	}

	piece, err := b.src.Retrieve()
	switch err {
	case nil:
	case io.EOF:
		b.done = true
	default:
		b.done = true
		b.err = err
	}

	return piece, err
}

// Bytes reads the body till the end and returns it as a whole. The returned
// slice is valid until the next request on the connection.
func (b *Body) Bytes() ([]byte, error) {
	for !b.done {
		piece, err := b.src.Retrieve()
		b.buff = append(b.buff, piece...)

		switch err {
		case nil:
		case io.EOF:
			b.done = true
		default:
			b.done = true
			b.err = err

			return nil, err
		}
	}

	if b.err != nil {
		return nil, b.err
	}

	return b.buff, nil
}

// String reads the whole body as a string.
func (b *Body) String() (string, error) {
	bytes, err := b.Bytes()
	if err != nil {
		return "", err
	}

	return uf.B2S(bytes), nil
}

// Read implements io.Reader over the body.
func (b *Body) Read(into []byte) (int, error) {
	if len(b.pending) == 0 {
		piece, err := b.Retrieve()
		if err != nil && err != io.EOF {
			return 0, err
		}

		b.pending = piece
		if len(piece) == 0 {
			return 0, err
		}
	}

	n := copy(into, b.pending)
	b.pending = b.pending[n:]

	var err error
	if b.done && len(b.pending) == 0 {
		err = b.epilogue()
		if err == nil {
			err = io.EOF
		}
	}

	return n, err
}

// JSON decodes the whole body into the model.
func (b *Body) JSON(model any) error {
	bytes, err := b.Bytes()
	if err != nil {
		return err
	}

	return jsoniter.Unmarshal(bytes, model)
}

// Discard reads the body till the end, dropping the contents.
func (b *Body) Discard() error {
	_, err := b.Bytes()
	return err
}

// Reset drops the state accumulated over the previous request. The source
// itself is re-armed by the protocol, not here.
func (b *Body) Reset() {
	b.buff = b.buff[:0]
	b.pending = nil
	b.done = false
	b.err = nil
}

func (b *Body) epilogue() error {
	if b.err != nil {
		return b.err
	}

	return io.EOF
}
