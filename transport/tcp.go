package transport

import (
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/event"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

type TCP struct {
	l     listener
	obs   event.Observer
	wg    sync.WaitGroup
	stop  atomic.Bool
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewTCP(obs event.Observer) *TCP {
	return &TCP{
		obs:   obs,
		conns: map[net.Conn]struct{}{},
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr)
	return err
}

func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	t.obs.Ready()

	for !t.stop.Load() {
		if err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod)); err != nil {
			if t.stop.Load() || errors.Is(err, net.ErrClosed) {
				break
			}

			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			var neterr net.Error
			if errors.As(err, &neterr) && neterr.Timeout() {
				continue
			}

			if errors.Is(err, net.ErrClosed) {
				break
			}

			// transient failure, e.g. a descriptor shortage. The loop must survive it.
			log.Printf("lumen: accept: %s", err)
			continue
		}

		t.obs.ConnAccepted()
		// the connection is registered before its goroutine starts, so a
		// concurrent shutdown enumeration can never miss it
		t.register(conn)

		go func(conn net.Conn) {
			t.obs.TaskStarted()
			cb(conn)
			_ = conn.Close()
			t.unregister(conn)
			t.obs.TaskExited()
			t.wg.Done()
		}(conn)
	}

	return nil
}

func (t *TCP) register(conn net.Conn) {
	t.mu.Lock()
	t.conns[conn] = struct{}{}
	t.wg.Add(1)
	t.mu.Unlock()
}

func (t *TCP) unregister(conn net.Conn) {
	t.mu.Lock()
	delete(t.conns, conn)
	t.mu.Unlock()
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	_ = t.l.Close()
}

func (t *TCP) ForceClose() {
	t.mu.Lock()

	for conn := range t.conns {
		_ = conn.Close()
	}

	t.mu.Unlock()
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
