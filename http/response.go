package http

import (
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	jsoniter "github.com/json-iterator/go"

	"github.com/lumen-web/lumen/http/cookie"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/response"
)

// Committer is the downstream of a Response: it turns the accumulated fields
// into a serialized preamble on the first body write (or on finalization) and
// streams body bytes past that point.
type Committer interface {
	Commit(fields *response.Fields) error
	Write(b []byte) (int, error)
}

// Response is the handler-facing response builder. Metadata setters are
// effective until the first body write commits the response; afterwards they
// become no-ops, so a handler can't retroactively change an already serialized
// preamble.
type Response struct {
	fields response.Fields
	w      Committer
}

func NewResponse(w Committer) *Response {
	return &Response{
		fields: response.NewFields(),
		w:      w,
	}
}

// Code sets the response status code.
func (r *Response) Code(code status.Code) *Response {
	if !r.fields.Committed {
		r.fields.Code = code
	}

	return r
}

// Status sets a custom reason phrase. Has no effect on how clients treat
// the response, yet some of them render it.
func (r *Response) Status(text string) *Response {
	if !r.fields.Committed {
		r.fields.Status = text
	}

	return r
}

// Header appends values to the header key. Content-Type and Content-Length
// are routed into their dedicated fields instead, as the serializer treats
// them specially.
func (r *Response) Header(key string, values ...string) *Response {
	if r.fields.Committed || len(values) == 0 {
		return r
	}

	switch {
	case strcomp.EqualFold(key, "content-type"):
		return r.ContentType(values[0])
	case strcomp.EqualFold(key, "content-length"):
		if n, err := strconv.ParseInt(values[0], 10, 64); err == nil {
			return r.ContentLength(n)
		}

		return r
	}

	for _, value := range values {
		r.fields.Headers.Add(key, value)
	}

	return r
}

// ContentType sets the value of the Content-Type header.
func (r *Response) ContentType(value string) *Response {
	if !r.fields.Committed {
		r.fields.ContentType = value
	}

	return r
}

// ContentLength promises the exact body length upfront, making the
// serializer frame the body as identity instead of chunked.
func (r *Response) ContentLength(n int64) *Response {
	if !r.fields.Committed && n >= 0 {
		r.fields.ContentLength = n
	}

	return r
}

// Cookie schedules cookies to be sent via Set-Cookie headers.
func (r *Response) Cookie(cookies ...cookie.Cookie) *Response {
	if !r.fields.Committed {
		r.fields.Cookies = append(r.fields.Cookies, cookies...)
	}

	return r
}

// Committed reports whether the preamble has already been serialized.
func (r *Response) Committed() bool {
	return r.fields.Committed
}

// Write streams a piece of the response body. The first call commits the
// response.
func (r *Response) Write(b []byte) (int, error) {
	if err := r.commit(); err != nil {
		return 0, err
	}

	return r.w.Write(b)
}

// WriteString streams a string piece of the response body.
func (r *Response) WriteString(s string) (int, error) {
	return r.Write(uf.S2B(s))
}

// String is a shorthand for responding with a plain string body.
func (r *Response) String(s string) error {
	_, err := r.WriteString(s)
	return err
}

// Bytes is a shorthand for responding with a raw bytes body.
func (r *Response) Bytes(b []byte) error {
	_, err := r.Write(b)
	return err
}

// JSON marshals the model and sends it as an application/json body.
func (r *Response) JSON(model any) error {
	r.ContentType("application/json")

	b, err := jsoniter.Marshal(model)
	if err != nil {
		return err
	}

	_, err = r.Write(b)

	return err
}

// Error responds with the error message as a plain text body. For
// status.HTTPError the attached code is used, otherwise 500 is assumed.
func (r *Response) Error(err error) error {
	code := status.InternalServerError
	if http, ok := err.(status.HTTPError); ok {
		code = http.Code
	}

	return r.Code(code).String(err.Error())
}

func (r *Response) commit() error {
	if r.fields.Committed {
		return nil
	}

	r.fields.Committed = true

	return r.w.Commit(&r.fields)
}

// Expose grants access to the underlying fields. Intended for the protocol
// internals, not for handlers.
func (r *Response) Expose() *response.Fields {
	return &r.fields
}

// Clear resets the response to its initial state, keeping allocations.
func (r *Response) Clear() *Response {
	r.fields.Clear()
	return r
}
