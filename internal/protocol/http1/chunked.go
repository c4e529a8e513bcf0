package http1

import (
	"bytes"
	"io"

	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/hexconv"
)

type chunkedState uint8

// The LF states expect the byte following an already consumed CR.
const (
	stSize chunkedState = iota
	stExt
	stSizeLF
	stData
	stDataEnd
	stDataLF
	stTrailerLine
	stTrailerSkip
	stFinalLF
)

// maxChunkSizeDigits implicitly caps a single chunk at 4GiB. Anything longer
// is virtually guaranteed to be garbage rather than a real chunk size.
const maxChunkSizeDigits = 8

// chunkedParser decodes the chunked transfer coding incrementally. Input may
// be torn at any byte; each call picks up where the previous one stopped and
// hands chunk data out piecewise instead of assembling whole chunks.
type chunkedParser struct {
	state      chunkedState
	chunkSize  uint64
	sizeDigits uint8
}

func newChunkedParser() chunkedParser {
	return chunkedParser{state: stSize}
}

// Parse decodes as much of data as possible. A piece of chunk data is handed
// out as soon as any of it is available, with the unconsumed input alongside.
// io.EOF reports the complete body, whatever followed it returned as extra,
// and the parser re-arms itself for the next body.
func (c *chunkedParser) Parse(data []byte) (chunk, extra []byte, err error) {
	for len(data) > 0 {
		switch c.state {
		case stSize:
			if data, err = c.size(data); err != nil {
				return nil, nil, err
			}
		case stExt:
			// chunk extensions are not supported and are skipped wholesale
			data = c.skipLine(data, c.afterSize())
		case stSizeLF:
			if data[0] != '\n' {
				return nil, nil, status.ErrBadChunk
			}

			data = data[1:]
			c.state = c.afterSize()
		case stData:
			n := min(c.chunkSize, uint64(len(data)))
			if c.chunkSize -= n; c.chunkSize == 0 {
				c.state = stDataEnd
			}

			return data[:n], data[n:], nil
		case stDataEnd:
			switch data[0] {
			case '\r':
				data = data[1:]
				c.state = stDataLF
			case '\n':
				data = data[1:]
				c.restart()
			default:
				return nil, nil, status.ErrBadChunk
			}
		case stDataLF:
			if data[0] != '\n' {
				return nil, nil, status.ErrBadChunk
			}

			data = data[1:]
			c.restart()
		case stTrailerLine:
			switch data[0] {
			case '\r':
				data = data[1:]
				c.state = stFinalLF
			case '\n':
				c.restart()
				return nil, data[1:], io.EOF
			default:
				// trailer fields are consumed for framing purposes but not stored
				c.state = stTrailerSkip
			}
		case stTrailerSkip:
			data = c.skipLine(data, stTrailerLine)
		case stFinalLF:
			if data[0] != '\n' {
				return nil, nil, status.ErrBadChunk
			}

			c.restart()
			return nil, data[1:], io.EOF
		default:
			panic("unreachable code")
		}
	}

	return nil, nil, nil
}

// size accumulates hex digits of the chunk size up to the line delimiter.
func (c *chunkedParser) size(data []byte) ([]byte, error) {
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r', '\n', ';':
			if c.sizeDigits == 0 {
				// a size line without a single digit, e.g. a bare CRLF
				return nil, status.ErrBadChunk
			}

			switch char {
			case '\r':
				c.state = stSizeLF
			case '\n':
				c.state = c.afterSize()
			default:
				c.state = stExt
			}

			return data[i+1:], nil
		default:
			halfbyte := hexconv.Halfbyte[char]
			if halfbyte == 0xFF {
				return nil, status.ErrBadChunk
			}

			c.chunkSize = c.chunkSize<<4 | uint64(halfbyte)
			if c.sizeDigits++; c.sizeDigits > maxChunkSizeDigits {
				return nil, status.ErrBadChunk
			}
		}
	}

	return nil, nil
}

// skipLine drops everything up to and including the next LF, entering the
// next state past it. Without the LF at hand the whole input is dropped and
// the state stays.
func (c *chunkedParser) skipLine(data []byte, next chunkedState) []byte {
	boundary := bytes.IndexByte(data, '\n')
	if boundary == -1 {
		return nil
	}

	c.state = next
	return data[boundary+1:]
}

// afterSize routes a finished size line: the zero chunk opens the trailer
// section, any other chunk its data.
func (c *chunkedParser) afterSize() chunkedState {
	if c.chunkSize == 0 {
		return stTrailerLine
	}

	return stData
}

// restart re-arms the parser for the next size line.
func (c *chunkedParser) restart() {
	c.state = stSize
	c.sizeDigits = 0
}
