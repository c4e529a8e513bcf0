package event

import "sync/atomic"

// Observer is a capability interface notified synchronously at defined points
// of the engine's life. Implementations must never panic, and cheapness is
// expected, as some events fire on the per-read path.
type Observer interface {
	// Ready fires once the server is able to accept connections.
	Ready()
	// ConnAccepted fires for every accepted connection.
	ConnAccepted()
	// BadRequest fires when a request preamble is rejected as malformed.
	BadRequest()
	// BytesRead reports the number of bytes received from a peer.
	BytesRead(n int)
	// BytesWritten reports the number of bytes sent to a peer.
	BytesWritten(n int)
	// TaskStarted fires when a connection's goroutine starts.
	TaskStarted()
	// TaskExited fires when a connection's goroutine terminates, no matter how.
	TaskExited()
}

// Nop discards all events.
type Nop struct{}

func (Nop) Ready()            {}
func (Nop) ConnAccepted()     {}
func (Nop) BadRequest()       {}
func (Nop) BytesRead(int)     {}
func (Nop) BytesWritten(int)  {}
func (Nop) TaskStarted()      {}
func (Nop) TaskExited()       {}

// Counter counts events without synchronization. Concurrent tasks may race
// on increments, so the numbers can undercount; in exchange, the overhead is
// a plain add. Use AtomicCounter when exact numbers matter.
type Counter struct {
	ReadySignals int64
	Conns        int64
	BadRequests  int64
	Read         int64
	Written      int64
	Started      int64
	Exited       int64
}

func (c *Counter) Ready()             { c.ReadySignals++ }
func (c *Counter) ConnAccepted()      { c.Conns++ }
func (c *Counter) BadRequest()        { c.BadRequests++ }
func (c *Counter) BytesRead(n int)    { c.Read += int64(n) }
func (c *Counter) BytesWritten(n int) { c.Written += int64(n) }
func (c *Counter) TaskStarted()       { c.Started++ }
func (c *Counter) TaskExited()        { c.Exited++ }

// AtomicCounter counts events with atomic increments and therefore never
// undercounts, whatever the concurrency.
type AtomicCounter struct {
	ReadySignals atomic.Int64
	Conns        atomic.Int64
	BadRequests  atomic.Int64
	Read         atomic.Int64
	Written      atomic.Int64
	Started      atomic.Int64
	Exited       atomic.Int64
}

func (c *AtomicCounter) Ready()             { c.ReadySignals.Add(1) }
func (c *AtomicCounter) ConnAccepted()      { c.Conns.Add(1) }
func (c *AtomicCounter) BadRequest()        { c.BadRequests.Add(1) }
func (c *AtomicCounter) BytesRead(n int)    { c.Read.Add(int64(n)) }
func (c *AtomicCounter) BytesWritten(n int) { c.Written.Add(int64(n)) }
func (c *AtomicCounter) TaskStarted()       { c.Started.Add(1) }
func (c *AtomicCounter) TaskExited()        { c.Exited.Add(1) }
