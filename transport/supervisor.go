package transport

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/lumen-web/lumen/config"
)

// Supervisor owns the bound transports and coordinates their shutdown. A
// graceful stop runs in phases: close the listeners, signal the in-flight
// tasks via the stopping flag, wait out the drain duration, force-close
// whoever is left.
type Supervisor struct {
	ts       []boundTransport
	stopping atomic.Bool
}

func NewSupervisor() *Supervisor {
	return new(Supervisor)
}

// Stopping exposes the cooperative cancellation flag consulted by connection
// tasks at their blocking boundaries.
func (s *Supervisor) Stopping() *atomic.Bool {
	return &s.stopping
}

func (s *Supervisor) Add(addr string, t Transport, cb func(net.Conn)) error {
	if err := t.Bind(addr); err != nil {
		s.closeAll()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  t,
	})

	return nil
}

// Launch starts every transport's accept loop on its own goroutine and
// returns the channel their exit statuses arrive on.
func (s *Supervisor) Launch(cfg config.NET) <-chan error {
	errch := make(chan error, len(s.ts))

	for _, t := range s.ts {
		go func(t boundTransport) {
			errch <- t.t.Listen(cfg, t.cb)
		}(t)
	}

	return errch
}

// Shutdown stops accepting new connections and lets the in-flight ones
// finish within the drain duration, measured from the moment of the call.
// Connections still alive afterwards are closed forcibly. Blocks until every
// task has terminated.
func (s *Supervisor) Shutdown(drain time.Duration) {
	s.stopping.Store(true)

	for _, t := range s.ts {
		t.t.Stop()
		t.t.Close()
	}

	if !s.waitFor(drain) {
		for _, t := range s.ts {
			t.t.ForceClose()
		}
	}

	for _, t := range s.ts {
		t.t.Wait()
	}
}

// Abort closes everything immediately, in-flight connections included.
func (s *Supervisor) Abort() {
	s.stopping.Store(true)

	for _, t := range s.ts {
		t.t.Stop()
		t.t.Close()
		t.t.ForceClose()
	}

	for _, t := range s.ts {
		t.t.Wait()
	}
}

func (s *Supervisor) waitFor(d time.Duration) bool {
	done := make(chan struct{})

	go func() {
		for _, t := range s.ts {
			t.t.Wait()
		}

		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func (s *Supervisor) closeAll() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb func(conn net.Conn)
	t  Transport
}
