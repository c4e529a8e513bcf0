package http1

import (
	"errors"
	"sync/atomic"

	"github.com/indigo-web/utils/strcomp"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/event"
	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/codec"
	"github.com/lumen-web/lumen/http/proto"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/buffer"
	"github.com/lumen-web/lumen/kv"
	"github.com/lumen-web/lumen/transport"
)

// Session drives a single connection through its request-response cycles:
// read and parse the head, hand the request over to the handler, finalize
// the response, decide whether the connection survives into the next cycle.
type Session struct {
	cfg      *config.Config
	client   transport.Client
	obs      event.Observer
	stopping *atomic.Bool
	handler  http.Handler
	parser   *Parser
	body     *Body
	request  *http.Request
	resp     *http.Response
	ser      *serializer
}

func New(
	cfg *config.Config,
	client transport.Client,
	codecs codec.Cache,
	obs event.Observer,
	stopping *atomic.Bool,
	handler http.Handler,
) *Session {
	body := NewBody(client, cfg.Body.MaxSize)
	request := http.NewRequest(kv.New(), http.NewBody(body), client.Remote())
	requestLine := buffer.New(cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal)
	headers := buffer.New(cfg.Headers.Space.Default, cfg.Headers.Space.Maximal)
	ser := newSerializer(cfg, request, client, codecs)

	return &Session{
		cfg:      cfg,
		client:   client,
		obs:      obs,
		stopping: stopping,
		handler:  handler,
		parser:   NewParser(cfg, request, requestLine, headers),
		body:     body,
		request:  request,
		resp:     http.NewResponse(ser),
		ser:      ser,
	}
}

// Serve runs the connection until it dies: by the peer closing it, by an
// error, by the keep-alive decision or by a shutdown signal. The socket
// itself is closed by the transport owning it.
func (s *Session) Serve() {
	timeout := s.cfg.NET.ReadTimeout

	for {
		if s.stopping.Load() {
			return
		}

		s.client.SetTimeout(timeout)

		if !s.cycle() {
			return
		}

		s.request.Reset()
		s.resp.Clear()
		s.ser.Clear()

		timeout = s.cfg.NET.KeepAliveTimeout
	}
}

func (s *Session) cycle() (keepalive bool) {
	for {
		data, err := s.client.Read()
		if err != nil {
			// nothing to respond to: the peer is gone or went silent
			return false
		}

		done, extra, err := s.parser.Parse(data)
		if err != nil {
			s.obs.BadRequest()
			s.respondError(err)

			return false
		}

		if done {
			s.client.Pushback(extra)
			break
		}
	}

	s.body.Init(s.request)

	err := s.invoke()
	if err != nil {
		if errors.Is(err, status.ErrCloseConnection) {
			// the handler asked for a teardown: complete the response
			// properly, then close
			_ = s.ser.Finalize(s.resp.Expose())
			return false
		}

		if s.resp.Committed() {
			// the preamble is out: nothing coherent can be sent anymore
			return false
		}

		s.resp.Clear()
		_ = s.resp.Error(err)
	}

	if err = s.ser.Finalize(s.resp.Expose()); err != nil {
		return false
	}

	if !s.keepAlive() {
		return false
	}

	// the rest of the body has to leave the stream before the next head
	return s.body.Discard(s.cfg.Body.DrainBound) == nil
}

func (s *Session) invoke() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = status.ErrInternalServerError
		}
	}()

	return s.handler.Serve(s.request, s.resp)
}

// respondError sends an error response when the preamble hasn't left yet.
// The connection is done for either way, so failures are of no interest.
func (s *Session) respondError(err error) {
	if s.resp.Committed() {
		return
	}

	s.resp.Clear()
	_ = s.resp.Error(err)
	_ = s.ser.Finalize(s.resp.Expose())
}

func (s *Session) keepAlive() bool {
	if s.stopping.Load() {
		return false
	}

	if strcomp.EqualFold(s.request.Connection, "close") {
		return false
	}

	if strcomp.EqualFold(s.resp.Expose().Headers.Value("Connection"), "close") {
		return false
	}

	switch s.request.Protocol {
	case proto.HTTP11:
		return true
	case proto.HTTP10:
		return strcomp.EqualFold(s.request.Connection, "keep-alive")
	default:
		return false
	}
}
