package http

import (
	"net"

	"github.com/lumen-web/lumen/http/proto"
	"github.com/lumen-web/lumen/kv"
)

// Request carries everything the framer extracted from a single request head,
// plus the body reader. The method and the target are kept verbatim as they
// appeared on the wire: no normalization, no percent-decoding.
type Request struct {
	Method   string
	Target   string
	Protocol proto.Protocol
	Headers  *kv.Storage
	// ContentLength is meaningful only when Chunked is false.
	ContentLength  int
	Chunked        bool
	Connection     string
	AcceptEncoding []string
	ContentType    string
	Remote         net.Addr
	Body           *Body
}

func NewRequest(headers *kv.Storage, body *Body, remote net.Addr) *Request {
	return &Request{
		Headers: headers,
		Remote:  remote,
		Body:    body,
	}
}

// Reset prepares the request for reuse on the next message of the
// connection. The remote address and the body instance stay.
func (r *Request) Reset() {
	r.Method = ""
	r.Target = ""
	r.Protocol = proto.Unknown
	r.Headers.Clear()
	r.ContentLength = 0
	r.Chunked = false
	r.Connection = ""
	r.AcceptEncoding = nil
	r.ContentType = ""
	r.Body.Reset()
}
