package http1

import (
	"bytes"
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/proto"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/buffer"
)

type parserState uint8

const (
	eMethod parserState = iota + 1
	eTarget
	eProtocol
	eHeaderKey
	eContentLength
	eContentLengthCR
	eHeaderValue
	eHeaderValueCRLFCR
)

// maxContentLengthDigits bounds the Content-Length value well below the
// int64 overflow point.
const maxContentLengthDigits = 18

// Parser is a resumable request head parser. Each call to Parse consumes one
// read's worth of input and picks up exactly where the previous one left off,
// so a head torn at any byte boundary is reassembled transparently.
//
// The method and the target are copied into the request line buffer verbatim:
// no percent-decoding, no normalization. Header keys and values are copied
// into the headers buffer, which bounds the total header block size.
type Parser struct {
	state            parserState
	metTransferEnc   bool
	headersNumber    int
	contentLength    int64
	contentLengthLen int
	cfg              *config.Config
	request          *http.Request
	requestLine      *buffer.Buffer
	headers          *buffer.Buffer
	key              string
	acceptEncoding   []string
	transferEncoding []string
}

func NewParser(cfg *config.Config, request *http.Request, requestLine, headers *buffer.Buffer) *Parser {
	return &Parser{
		state:            eMethod,
		cfg:              cfg,
		request:          request,
		requestLine:      requestLine,
		headers:          headers,
		acceptEncoding:   make([]string, 0, cfg.Headers.MaxAcceptEncodingTokens),
		transferEncoding: make([]string, 0, cfg.Headers.MaxAcceptEncodingTokens),
	}
}

// Parse consumes the next piece of input. Once the head is complete, done is
// true and extra holds the input past the head, belonging to the body or to
// the next request. A non-nil err renders the whole connection poisoned, as
// the position of the next message boundary is lost.
func (p *Parser) Parse(data []byte) (done bool, extra []byte, err error) {
	request := p.request
	requestLine := p.requestLine
	headers := p.headers
	headersCfg := p.cfg.Headers

	switch p.state {
	case eMethod:
		goto method
	case eTarget:
		goto target
	case eProtocol:
		goto protocol
	case eHeaderKey:
		goto headerKey
	case eContentLength:
		goto contentLength
	case eContentLengthCR:
		goto contentLengthCR
	case eHeaderValue:
		goto headerValue
	case eHeaderValueCRLFCR:
		goto headerValueCRLFCR
	default:
		panic("unreachable code")
	}

method:
	for i := 0; i < len(data); i++ {
		if data[i] == ' ' {
			if !requestLine.Append(data[:i]) {
				return true, nil, status.ErrTooLongRequestLine
			}

			method := uf.B2S(requestLine.Finish())
			if len(method) == 0 || !isToken(method) {
				return true, nil, status.ErrBadRequest
			}

			request.Method = method
			data = data[i+1:]
			goto target
		}
	}

	if !requestLine.Append(data) {
		return true, nil, status.ErrTooLongRequestLine
	}

	p.state = eMethod
	return false, nil, nil

target:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; {
		case char == ' ':
			if !requestLine.Append(data[:i]) {
				return true, nil, status.ErrURITooLong
			}

			request.Target = uf.B2S(requestLine.Finish())
			if len(request.Target) == 0 {
				return true, nil, status.ErrBadRequest
			}

			data = data[i+1:]
			goto protocol
		case isProhibitedChar(char):
			return true, nil, status.ErrBadRequest
		}
	}

	if !requestLine.Append(data) {
		return true, nil, status.ErrURITooLong
	}

	p.state = eTarget
	return false, nil, nil

protocol:
	{
		boundary := bytes.IndexByte(data, '\n')
		if boundary == -1 {
			if !requestLine.Append(data) {
				return true, nil, status.ErrTooLongRequestLine
			}

			p.state = eProtocol
			return false, nil, nil
		}

		var protocol proto.Protocol
		if requestLine.SegmentLength() == 0 {
			protocol = proto.FromBytes(stripCR(data[:boundary]))
		} else {
			if !requestLine.Append(data[:boundary]) {
				return true, nil, status.ErrTooLongRequestLine
			}

			protocol = proto.FromBytes(stripCR(requestLine.Preview()))
		}

		if protocol == proto.Unknown {
			return true, nil, status.ErrHTTPVersionNotSupported
		}

		request.Protocol = protocol
		data = data[boundary+1:]
		// fallthrough to headerKey
	}

headerKey:
	{
		if len(data) == 0 {
			p.state = eHeaderKey
			return false, nil, nil
		}

		switch data[0] {
		case '\n', '\r':
			if headers.SegmentLength() > 0 {
				// a colon-less field line buffered by the previous read
				return true, nil, status.ErrBadRequest
			}

			if data[0] == '\r' {
				data = data[1:]
				goto headerValueCRLFCR
			}

			p.cleanup()

			return true, data[1:], nil
		}

		colon := bytes.IndexByte(data, ':')
		if colon == -1 {
			if bytes.IndexByte(data, '\n') != -1 {
				// a field line without a colon in it
				return true, nil, status.ErrBadRequest
			}

			if !headers.Append(data) {
				return true, nil, status.ErrHeaderFieldsTooLarge
			}

			p.state = eHeaderKey
			return false, nil, nil
		}

		if bytes.IndexByte(data[:colon], '\n') != -1 {
			// the colon found belongs to a later field line
			return true, nil, status.ErrBadRequest
		}

		if !headers.Append(data[:colon]) {
			return true, nil, status.ErrHeaderFieldsTooLarge
		}

		key := uf.B2S(headers.Finish())
		if len(key) == 0 {
			return true, nil, status.ErrBadRequest
		}

		p.key = key
		data = data[colon+1:]

		if p.headersNumber++; p.headersNumber > headersCfg.MaxNumber {
			return true, nil, status.ErrTooManyHeaders
		}

		if strcomp.EqualFold(key, "Content-Length") {
			goto contentLength
		}

		// fallthrough to headerValue
	}

headerValue:
	{
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !headers.Append(data) {
				return true, nil, status.ErrHeaderFieldsTooLarge
			}

			p.state = eHeaderValue
			return false, nil, nil
		}

		if !headers.Append(data[:lf]) {
			return true, nil, status.ErrHeaderFieldsTooLarge
		}

		if headers.SegmentLength() > 0 && headers.Preview()[headers.SegmentLength()-1] == '\r' {
			headers.Trunc(1)
		}

		data = data[lf+1:]
		value := uf.B2S(trimPrefixSpaces(headers.Finish()))

		key := p.key
		request.Headers.Add(key, value)

		switch len(key) {
		case 10:
			if strcomp.EqualFold(key, "Connection") {
				request.Connection = value
			}
		case 12:
			if strcomp.EqualFold(key, "Content-Type") {
				request.ContentType = value
			}
		case 15:
			if strcomp.EqualFold(key, "Accept-Encoding") {
				p.acceptEncoding, request.AcceptEncoding, err = splitTokens(p.acceptEncoding, value)
				if err != nil {
					return true, nil, err
				}
			}
		case 17:
			if strcomp.EqualFold(key, "Transfer-Encoding") {
				if p.metTransferEnc {
					return true, nil, status.ErrBadEncoding
				}

				p.metTransferEnc = true

				var tokens []string
				p.transferEncoding, tokens, err = splitTokens(p.transferEncoding, value)
				if err != nil {
					return true, nil, err
				}

				if len(tokens) > 0 {
					if tokens[len(tokens)-1] != "chunked" {
						return true, nil, status.ErrBadEncoding
					}

					request.Chunked = true
				}
			}
		}

		goto headerKey
	}

headerValueCRLFCR:
	if len(data) == 0 {
		p.state = eHeaderValueCRLFCR
		return false, nil, nil
	}

	if data[0] == '\n' {
		p.cleanup()

		return true, data[1:], nil
	}

	return true, nil, status.ErrBadRequest

contentLength:
	for i, char := range data {
		if char == ' ' {
			if p.contentLengthLen > 0 {
				return true, nil, status.ErrBadContentLength
			}

			continue
		}

		if char < '0' || char > '9' {
			data = data[i:]
			goto contentLengthEnd
		}

		p.contentLength = p.contentLength*10 + int64(char-'0')
		if p.contentLengthLen++; p.contentLengthLen > maxContentLengthDigits {
			return true, nil, status.ErrBadContentLength
		}
	}

	p.state = eContentLength
	return false, nil, nil

contentLengthEnd:
	// data here contains at least one byte: the non-digit that broke the loop
	if p.contentLengthLen == 0 {
		return true, nil, status.ErrBadContentLength
	}

	request.ContentLength = int(p.contentLength)

	switch data[0] {
	case '\r':
		data = data[1:]
		goto contentLengthCR
	case '\n':
		data = data[1:]
		goto headerKey
	default:
		return true, nil, status.ErrBadContentLength
	}

contentLengthCR:
	if len(data) == 0 {
		p.state = eContentLengthCR
		return false, nil, nil
	}

	if data[0] != '\n' {
		return true, nil, status.ErrBadContentLength
	}

	data = data[1:]
	goto headerKey
}

func (p *Parser) cleanup() {
	p.state = eMethod
	p.metTransferEnc = false
	p.headersNumber = 0
	p.contentLength = 0
	p.contentLengthLen = 0
	p.requestLine.Clear()
	p.headers.Clear()
	p.acceptEncoding = p.acceptEncoding[:0]
	p.transferEncoding = p.transferEncoding[:0]
}

// splitTokens splits a comma-separated list of encoding tokens, trimming
// optional whitespace and quality qualifiers. The identity token carries no
// information and is dropped. The tokens are appended to buff, whose capacity
// bounds how many a single request may carry.
func splitTokens(buff []string, value string) (alteredBuff, tokens []string, err error) {
	var token string
	offset := len(buff)

	for len(value) > 0 {
		comma := strings.IndexByte(value, ',')
		if comma == -1 {
			token, value = value, ""
		} else {
			token, value = value[:comma], value[comma+1:]
		}

		token = trimSpaces(trimQualifier(token))
		if len(token) == 0 {
			return buff, nil, status.ErrBadEncoding
		}

		if len(buff) >= cap(buff) {
			return buff, nil, status.ErrBadEncoding
		}

		if strcomp.EqualFold(token, "identity") {
			continue
		}

		buff = append(buff, token)
	}

	return buff, buff[offset:], nil
}

func trimPrefixSpaces(b []byte) []byte {
	for i, char := range b {
		if char != ' ' && char != '\t' {
			return b[i:]
		}
	}

	return b[:0]
}

func trimSpaces(s string) string {
	s = uf.B2S(trimPrefixSpaces(uf.S2B(s)))

	for i := len(s); i > 0; i-- {
		if s[i-1] != ' ' && s[i-1] != '\t' {
			return s[:i]
		}
	}

	return s[:0]
}

func trimQualifier(s string) string {
	q := strings.IndexByte(s, ';')
	if q == -1 {
		return s
	}

	return s[:q]
}

func stripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}

	return b
}

func isProhibitedChar(c byte) bool {
	return c < 0x21 || c > 0x7e
}

func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		if isProhibitedChar(s[i]) {
			return false
		}
	}

	return true
}
