package lumen

import (
	"crypto/tls"
	"errors"

	"github.com/lumen-web/lumen/event"
	"github.com/lumen-web/lumen/transport"
)

var (
	ErrNoCertificates = errors.New("no certificates were passed")
	ErrBadCertificate = errors.New("one or more passed certificates are empty")
)

// Transport describes a listener flavor before the application knows its
// observer. Construction errors are deferred: they surface when the
// application binds the listeners, as there is nobody to report them to
// earlier.
type Transport struct {
	spawn func(obs event.Observer) transport.Transport
	err   error
}

// TCP is a plaintext TCP listener.
func TCP() Transport {
	return Transport{
		spawn: func(obs event.Observer) transport.Transport {
			return transport.NewTCP(obs)
		},
	}
}

// TLS is an encrypted listener using the certificate and key stored in the
// named PEM files.
func TLS(cert, key string) Transport {
	c, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return Transport{err: err}
	}

	return HTTPS(c)
}

// HTTPS is an encrypted listener over already loaded certificates.
func HTTPS(certs ...tls.Certificate) Transport {
	switch {
	case len(certs) == 0:
		return Transport{err: ErrNoCertificates}
	case !noEmptyCerts(certs):
		return Transport{err: ErrBadCertificate}
	}

	return Transport{
		spawn: func(obs event.Observer) transport.Transport {
			return transport.NewTLS(certs, obs)
		},
	}
}

// Cert loads a certificate pair, deferring the possible error to the
// emptiness check inside HTTPS.
func Cert(cert, key string) tls.Certificate {
	c, _ := tls.LoadX509KeyPair(cert, key)
	return c
}

func noEmptyCerts(certs []tls.Certificate) bool {
	for _, c := range certs {
		if c.Certificate == nil {
			return false
		}
	}

	return true
}
