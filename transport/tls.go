package transport

import (
	"crypto/tls"
	"net"

	"github.com/lumen-web/lumen/event"
)

// TLS decorates the plain TCP transport with a TLS listener. The engine past
// this point sees an opaque byte stream, exactly as with plain TCP.
type TLS struct {
	conf *tls.Config
	*TCP
}

func NewTLS(certs []tls.Certificate, obs event.Observer) *TLS {
	return NewTLSWith(&tls.Config{Certificates: certs}, obs)
}

// NewTLSWith accepts a complete TLS configuration, e.g. one resolving
// certificates dynamically.
func NewTLSWith(conf *tls.Config, obs event.Observer) *TLS {
	return &TLS{
		conf: conf,
		TCP:  NewTCP(obs),
	}
}

func (t *TLS) Bind(addr string) error {
	tcp, err := bindTCP(addr)
	if err != nil {
		return err
	}

	l := tls.NewListener(tcp, t.conf)
	t.TCP.l = tlsAdapter{tcp, l}

	return nil
}

type tlsAdapter struct {
	*net.TCPListener
	tls net.Listener
}

func (t tlsAdapter) Accept() (net.Conn, error) {
	return t.tls.Accept()
}
