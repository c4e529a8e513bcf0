package codec

import (
	"io"
	"strings"
)

// Codec produces compressors for a single content coding token.
type Codec interface {
	// Token returns the coding token associated with the codec itself.
	Token() string
	New() Compressor
}

// Compressor is a resettable compressing writer. Close flushes whatever the
// compressor buffered, but never touches the destination writer.
type Compressor interface {
	io.WriteCloser
	Reset(w io.Writer)
}

type instantiator = func() Compressor

type baseCodec struct {
	token   string
	newInst instantiator
}

func newBaseCodec(token string, newInst instantiator) baseCodec {
	return baseCodec{
		token:   token,
		newInst: newInst,
	}
}

func (b baseCodec) Token() string {
	return b.token
}

func (b baseCodec) New() Compressor {
	return b.newInst()
}

// Suggested returns the codecs enabled by default, in the order of the
// server's own preference.
func Suggested() []Codec {
	return []Codec{NewGZIP(), NewDeflate(), NewZSTD()}
}

// AcceptEncoding renders the Accept-Encoding header value advertising the
// given codecs.
func AcceptEncoding(codecs []Codec) string {
	if len(codecs) == 0 {
		return "identity"
	}

	var b strings.Builder

	b.WriteString(codecs[0].Token())
	for _, c := range codecs[1:] {
		b.WriteString(", ")
		b.WriteString(c.Token())
	}

	return b.String()
}
