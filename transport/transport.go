package transport

import (
	"net"

	"github.com/lumen-web/lumen/config"
)

// Transport is a bound listening socket together with its accept loop and
// the registry of connections it has spawned.
type Transport interface {
	Bind(addr string) error
	// Listen runs the accept loop until Stop is signalled or the socket is
	// closed. It never blocks on anything but accept.
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	// Stop makes the accept loop exit at its next wakeup.
	Stop()
	// Close closes the listening socket.
	Close()
	// ForceClose closes every connection still registered, terminating their
	// tasks ungracefully.
	ForceClose()
	// Wait blocks until all spawned connection tasks have terminated.
	Wait()
}
