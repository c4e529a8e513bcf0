package transport

import (
	"net"
	"time"

	"github.com/lumen-web/lumen/event"
)

// Client is the engine's view of a single accepted byte stream. Exactly one
// goroutine owns a Client for its whole lifetime.
type Client interface {
	// Read returns the next piece of data, waiting no longer than the timeout
	// set via SetTimeout. The returned slice stays valid until the next call.
	Read() ([]byte, error)
	// Pushback preserves a chunk of data from the previous read, so it is
	// returned first by the next Read. This is how bytes over-read past a
	// message boundary are carried over to the next consumer.
	Pushback([]byte)
	Write([]byte) (int, error)
	// SetTimeout replaces the read timeout. Takes effect at the next Read.
	SetTimeout(timeout time.Duration)
	// Conn unwraps the underlying net.Conn.
	Conn() net.Conn
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    net.Conn
	obs     event.Observer
	buff    []byte
	pending []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte, obs event.Observer) Client {
	return &client{
		conn:    conn,
		obs:     obs,
		buff:    buff,
		timeout: timeout,
	}
}

func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)
	c.obs.BytesRead(n)

	return c.buff[:n], err
}

func (c *client) Pushback(b []byte) {
	c.pending = b
}

func (c *client) Write(b []byte) (int, error) {
	n, err := c.conn.Write(b)
	c.obs.BytesWritten(n)

	return n, err
}

func (c *client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

func (c *client) Conn() net.Conn {
	return c.conn
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
