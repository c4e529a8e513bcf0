package dummy

import (
	"io"
	"net"
	"time"

	"github.com/lumen-web/lumen/transport"
)

var _ transport.Client = new(Client)

// Client replays the pieces it was initialised with, one piece per read, and
// collects everything written into it. Once the pieces run out, reads report
// io.EOF. Used across protocol tests instead of a live socket.
type Client struct {
	Written []byte
	data    [][]byte
	tmp     []byte
	pointer int
	closed  bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{data: data}
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data := c.tmp
		c.tmp = nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		return nil, io.EOF
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(b []byte) (int, error) {
	c.Written = append(c.Written, b...)
	return len(b), nil
}

func (c *Client) SetTimeout(time.Duration) {}

func (c *Client) Conn() net.Conn {
	return nil
}

func (c *Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

func (c *Client) Closed() bool {
	return c.closed
}
