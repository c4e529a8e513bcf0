package http1

import (
	"strconv"
	"time"

	"github.com/indigo-web/utils/strcomp"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/codec"
	"github.com/lumen-web/lumen/http/cookie"
	"github.com/lumen-web/lumen/http/proto"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/response"
	"github.com/lumen-web/lumen/transport"
)

var _ http.Committer = new(serializer)

// serializer turns the response fields into wire bytes. Commit freezes the
// framing decision and emits the preamble; everything written past that point
// goes through the framer picked at commit time. The decision is made once:
// an explicit Content-Length means identity framing, otherwise the body is
// chunked, compressed on top when the client and the config both agree.
type serializer struct {
	cfg      *config.Config
	request  *http.Request
	client   transport.Client
	codecs   codec.Cache
	buff     []byte
	defaults []defaultHeader

	// per-response framing state
	chunked    bool
	discard    bool
	compressor codec.Compressor
	bytesLeft  int64
}

type defaultHeader struct {
	key  string
	full string
}

func newSerializer(
	cfg *config.Config,
	request *http.Request,
	client transport.Client,
	codecs codec.Cache,
) *serializer {
	return &serializer{
		cfg:      cfg,
		request:  request,
		client:   client,
		codecs:   codecs,
		buff:     make([]byte, 0, cfg.NET.WriteBufferSize),
		defaults: preprocessDefaultHeaders(cfg.Headers.Default),
	}
}

func preprocessDefaultHeaders(hdrs map[string]string) []defaultHeader {
	defaults := make([]defaultHeader, 0, len(hdrs))

	for key, value := range hdrs {
		defaults = append(defaults, defaultHeader{
			key:  key,
			full: key + ": " + value + crlf,
		})
	}

	return defaults
}

// Commit serializes the preamble and locks the body framing in.
func (s *serializer) Commit(fields *response.Fields) error {
	s.appendProtocol(s.request.Protocol)
	s.appendStatus(fields)
	s.appendHeaders(fields)

	for _, c := range fields.Cookies {
		s.appendCookie(c)
	}

	if len(fields.ContentType) > 0 {
		s.appendKnownHeader("Content-Type: ", fields.ContentType)
	}

	bodyless := status.Bodyless(fields.Code)
	s.discard = bodyless || s.request.Method == "HEAD"

	switch {
	case bodyless:
		// such statuses carry neither a body nor its framing headers
	case fields.ContentLength >= 0:
		s.appendContentLength(fields.ContentLength)
		s.bytesLeft = fields.ContentLength
	default:
		s.chunked = true

		if s.cfg.HTTP.Compression {
			if token, compressor := s.codecs.Match(s.request.AcceptEncoding); compressor != nil {
				s.appendKnownHeader("Content-Encoding: ", token)
				compressor.Reset(chunkedWriter{s})
				s.compressor = compressor
			}
		}

		s.appendKnownHeader("Transfer-Encoding: ", "chunked")
	}

	s.crlf()

	return s.maybeFlush()
}

// Write streams a piece of the response body through the framer picked at
// commit time.
func (s *serializer) Write(b []byte) (int, error) {
	if s.discard {
		// the preamble promised the body framing, yet the bytes themselves
		// must not appear on the wire
		return len(b), nil
	}

	if s.compressor != nil {
		return s.compressor.Write(b)
	}

	if s.chunked {
		return len(b), s.appendChunk(b)
	}

	if int64(len(b)) > s.bytesLeft {
		return 0, status.ErrInternalServerError
	}

	s.bytesLeft -= int64(len(b))

	return len(b), s.push(b)
}

// Finalize completes the response. An uncommitted response is committed with
// an explicit zero length. A chunked body gets its terminal chunk, preceded
// by whatever the compressor still holds. A sized body delivered short is an
// unrecoverable protocol violation: the error poisons the connection.
func (s *serializer) Finalize(fields *response.Fields) error {
	if !fields.Committed {
		fields.Committed = true
		fields.ContentLength = 0

		if err := s.Commit(fields); err != nil {
			return err
		}
	}

	if err := s.epilogue(); err != nil {
		return err
	}

	return s.flush()
}

func (s *serializer) epilogue() error {
	if s.discard {
		return nil
	}

	if s.compressor != nil {
		// flushes the remaining compressed data through the chunked writer
		if err := s.compressor.Close(); err != nil {
			return err
		}
	}

	if s.chunked {
		s.buff = append(s.buff, "0\r\n\r\n"...)
		return nil
	}

	if s.bytesLeft > 0 {
		return status.ErrCloseConnection
	}

	return nil
}

// Clear re-arms the serializer for the next response on the connection.
func (s *serializer) Clear() {
	s.chunked = false
	s.discard = false
	s.compressor = nil
	s.bytesLeft = 0
	s.buff = s.buff[:0]
}

func (s *serializer) appendChunk(b []byte) error {
	if len(b) == 0 {
		// a zero-sized chunk would terminate the body prematurely
		return nil
	}

	s.buff = strconv.AppendUint(s.buff, uint64(len(b)), 16)
	s.crlf()

	if err := s.push(b); err != nil {
		return err
	}

	s.crlf()

	return s.maybeFlush()
}

func (s *serializer) push(b []byte) error {
	s.buff = append(s.buff, b...)
	return s.maybeFlush()
}

func (s *serializer) maybeFlush() error {
	if len(s.buff) < s.cfg.NET.WriteBufferSize {
		return nil
	}

	return s.flush()
}

func (s *serializer) flush() (err error) {
	if len(s.buff) > 0 {
		_, err = s.client.Write(s.buff)
		s.buff = s.buff[:0]
	}

	return err
}

func (s *serializer) appendProtocol(protocol proto.Protocol) {
	if protocol == proto.Unknown {
		// the parser may have failed before reaching the protocol
		protocol = proto.HTTP11
	}

	s.buff = append(s.buff, protocol.String()...)
	s.sp()
}

func (s *serializer) appendStatus(fields *response.Fields) {
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	s.sp()

	text := fields.Status
	if len(text) == 0 {
		text = status.Text(fields.Code)
	}

	s.buff = append(s.buff, text...)
	s.crlf()
}

func (s *serializer) appendHeaders(fields *response.Fields) {
	for _, header := range fields.Headers.Expose() {
		s.buff = append(s.buff, header.Key...)
		s.colonsp()
		s.buff = append(s.buff, header.Value...)
		s.crlf()
	}

	for _, def := range s.defaults {
		if fields.Headers.Has(def.key) ||
			(strcomp.EqualFold(def.key, "Content-Type") && len(fields.ContentType) > 0) {
			continue
		}

		s.buff = append(s.buff, def.full...)
	}
}

var zoneGMT = time.FixedZone("GMT", 0)

func (s *serializer) appendCookie(c cookie.Cookie) {
	s.buff = append(s.buff, "Set-Cookie: "...)
	s.buff = append(s.buff, c.Name...)
	s.buff = append(s.buff, '=')
	s.buff = append(s.buff, c.Value...)
	s.buff = append(s.buff, ';', ' ')

	if len(c.Path) > 0 {
		s.buff = append(s.buff, "Path="...)
		s.buff = append(s.buff, c.Path...)
		s.buff = append(s.buff, ';', ' ')
	}

	if len(c.Domain) > 0 {
		s.buff = append(s.buff, "Domain="...)
		s.buff = append(s.buff, c.Domain...)
		s.buff = append(s.buff, ';', ' ')
	}

	if !c.Expires.IsZero() {
		s.buff = append(s.buff, "Expires="...)
		s.buff = c.Expires.In(zoneGMT).AppendFormat(s.buff, time.RFC1123)
		s.buff = append(s.buff, ';', ' ')
	}

	if c.MaxAge != 0 {
		maxage := "0"
		if c.MaxAge > 0 {
			maxage = strconv.Itoa(c.MaxAge)
		}

		s.buff = append(s.buff, "Max-Age="...)
		s.buff = append(s.buff, maxage...)
		s.buff = append(s.buff, ';', ' ')
	}

	if len(c.SameSite) > 0 {
		s.buff = append(s.buff, "SameSite="...)
		s.buff = append(s.buff, c.SameSite...)
		s.buff = append(s.buff, ';', ' ')
	}

	if c.Secure {
		s.buff = append(s.buff, "Secure; "...)
	}

	if c.HttpOnly {
		s.buff = append(s.buff, "HttpOnly; "...)
	}

	// the tail is always a semicolon and a space
	s.buff = s.buff[:len(s.buff)-2]
	s.crlf()
}

func (s *serializer) appendContentLength(value int64) {
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendUint(s.buff, uint64(value), 10)
	s.crlf()
}

func (s *serializer) appendKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

const crlf = "\r\n"

func (s *serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}

// chunkedWriter adapts the serializer's chunk framer to io.Writer, so a
// compressor can sit on top of it.
type chunkedWriter struct {
	s *serializer
}

func (c chunkedWriter) Write(b []byte) (int, error) {
	return len(b), c.s.appendChunk(b)
}
