package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := new(Counter)
	c.ConnAccepted()
	c.BytesRead(10)
	c.BytesRead(5)
	c.BytesWritten(7)
	c.TaskStarted()
	c.TaskExited()
	c.BadRequest()
	c.Ready()

	require.EqualValues(t, 1, c.Conns)
	require.EqualValues(t, 15, c.Read)
	require.EqualValues(t, 7, c.Written)
	require.EqualValues(t, 1, c.Started)
	require.EqualValues(t, 1, c.Exited)
	require.EqualValues(t, 1, c.BadRequests)
	require.EqualValues(t, 1, c.ReadySignals)
}

func TestAtomicCounter(t *testing.T) {
	const (
		workers    = 16
		iterations = 1000
	)

	c := new(AtomicCounter)
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()

			for range iterations {
				c.ConnAccepted()
				c.BytesRead(3)
				c.TaskStarted()
				c.TaskExited()
			}
		}()
	}

	wg.Wait()
	require.EqualValues(t, workers*iterations, c.Conns.Load())
	require.EqualValues(t, 3*workers*iterations, c.Read.Load())
	require.EqualValues(t, workers*iterations, c.Started.Load())
	require.EqualValues(t, workers*iterations, c.Exited.Load())
}
