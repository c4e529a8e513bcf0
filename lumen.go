package lumen

import (
	"net"

	"github.com/lumen-web/lumen/config"
	"github.com/lumen-web/lumen/event"
	"github.com/lumen-web/lumen/http"
	"github.com/lumen-web/lumen/http/codec"
	"github.com/lumen-web/lumen/http/status"
	"github.com/lumen-web/lumen/internal/protocol/http1"
	"github.com/lumen-web/lumen/transport"
)

// App glues the engine together: the transports, the shutdown coordination
// and the handler every parsed request lands in.
type App struct {
	addr       string
	cfg        *config.Config
	obs        event.Observer
	hooks      hooks
	bindings   []binding
	supervisor *transport.Supervisor
	errCh      chan error
}

type binding struct {
	addr string
	t    Transport
}

type hooks struct {
	OnStart, OnStop func()
}

// New creates an application listening on addr over plain TCP. Additional
// listeners are attached via Listen.
func New(addr string) *App {
	return &App{
		addr:       addr,
		cfg:        config.Default(),
		obs:        event.Nop{},
		supervisor: transport.NewSupervisor(),
		errCh:      make(chan error),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Observe installs an observer receiving the engine's lifecycle events.
// event.Nop is used by default.
func (a *App) Observe(obs event.Observer) *App {
	a.obs = obs
	return a
}

// NotifyOnStart calls the callback once all the listeners are bound and
// their accept loops launched.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the last connection task has
// terminated.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Listen attaches an extra listener. The transport defines both the socket
// flavor and, implicitly, whether the byte stream is encrypted.
func (a *App) Listen(addr string, t Transport) *App {
	a.bindings = append(a.bindings, binding{addr: addr, t: t})
	return a
}

// Serve binds all the listeners and blocks until the application stops. The
// returned error is whatever brought it down: a bind failure, a listener
// failure or one of the shutdown sentinels.
func (a *App) Serve(handler http.Handler) error {
	if handler == nil {
		handler = http.HandlerFunc(func(request *http.Request, resp *http.Response) error {
			return status.ErrNotFound
		})
	}

	a.Listen(a.addr, TCP())

	for _, b := range a.bindings {
		if b.t.err != nil {
			return b.t.err
		}

		t := b.t.spawn(a.obs)
		if err := a.supervisor.Add(b.addr, t, a.callback(handler)); err != nil {
			return err
		}
	}

	launched := a.supervisor.Launch(a.cfg.NET)

	if a.hooks.OnStart != nil {
		a.hooks.OnStart()
	}

	var err error
	select {
	case err = <-launched:
		a.supervisor.Abort()
	case err = <-a.errCh:
		if err == status.ErrGracefulShutdown {
			a.supervisor.Shutdown(a.cfg.NET.DrainDuration)
		} else {
			a.supervisor.Abort()
		}
	}

	if a.hooks.OnStop != nil {
		a.hooks.OnStop()
	}

	return err
}

// GracefulStop stops accepting new connections and drains the in-flight
// ones, bounded by config.NET.DrainDuration. Blocks until Serve is ready to
// receive the signal, not until the shutdown completes.
func (a *App) GracefulStop() {
	a.errCh <- status.ErrGracefulShutdown
}

// Stop brings the application down immediately, in-flight connections
// included.
func (a *App) Stop() {
	a.errCh <- status.ErrShutdown
}

func (a *App) callback(handler http.Handler) func(net.Conn) {
	return func(conn net.Conn) {
		client := transport.NewClient(
			conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize), a.obs,
		)
		session := http1.New(
			a.cfg, client, codec.NewCache(codec.Suggested()),
			a.obs, a.supervisor.Stopping(), handler,
		)
		session.Serve()
	}
}
