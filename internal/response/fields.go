package response

import (
	"github.com/lumen-web/lumen/http/cookie"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/kv"
)

// Fields is the accumulated response state, handed over to the serializer at
// commit time. Past that point the struct is frozen: mutations coming from
// the handler are silently discarded by the owning Response.
type Fields struct {
	Code status.Code
	// Status overrides the canonical reason phrase when non-empty.
	Status      string
	Headers     *kv.Storage
	Cookies     []cookie.Cookie
	ContentType string
	// ContentLength below zero means the body length isn't known upfront,
	// in which case the serializer picks chunked framing.
	ContentLength int64
	Committed     bool
}

func NewFields() Fields {
	return Fields{
		Code:          status.OK,
		Headers:       kv.New(),
		ContentLength: -1,
	}
}

func (f *Fields) Clear() {
	f.Code = status.OK
	f.Status = ""
	f.Headers.Clear()
	f.Cookies = f.Cookies[:0]
	f.ContentType = ""
	f.ContentLength = -1
	f.Committed = false
}
