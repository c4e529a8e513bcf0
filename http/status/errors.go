package status

import "errors"

// HTTPError is an error value carrying the status code a failure maps to on
// the wire. Handlers may return these directly; the engine synthesizes a
// response out of the code whenever the preamble hasn't been sent yet.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest              = NewError(BadRequest, "bad request")
	ErrTooLongRequestLine      = NewError(BadRequest, "request line is too long")
	ErrBadEncoding             = NewError(BadRequest, "bad request encoding")
	ErrBadChunk                = NewError(BadRequest, "malformed chunk-encoded data")
	ErrBadContentLength        = NewError(BadRequest, "malformed Content-Length value")
	ErrNotFound                = NewError(NotFound, "not found")
	ErrInternalServerError     = NewError(InternalServerError, "internal server error")
	ErrBodyTooLarge            = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeaderFieldsTooLarge    = NewError(HeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders          = NewError(HeaderFieldsTooLarge, "too many headers")
	ErrURITooLong              = NewError(RequestURITooLong, "request target is too long")
	ErrHTTPVersionNotSupported = NewError(HTTPVersionNotSupported, "HTTP version not supported")
)

// Sentinels steering the application lifecycle. They never reach the wire.
var (
	ErrShutdown         = errors.New("shutdown")
	ErrGracefulShutdown = errors.New("graceful shutdown")
	ErrCloseConnection  = errors.New("actively closing the connection")
)
