package http

// Handler processes a single parsed request and produces the response via
// the passed Response object. A returned error results in an error response
// if nothing has been committed yet, otherwise the connection is torn down.
type Handler interface {
	Serve(request *Request, resp *Response) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(request *Request, resp *Response) error

func (f HandlerFunc) Serve(request *Request, resp *Response) error {
	return f(request, resp)
}
