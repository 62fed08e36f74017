package skipqueue

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaiterQueueFIFO(t *testing.T) {
	q := newWaiterQueue()

	a := &waiter{ch: make(chan struct{}, 1)}
	b := &waiter{ch: make(chan struct{}, 1)}
	q.enqueue(a)
	q.enqueue(b)

	got, ok := q.dequeue()
	require.True(t, ok)
	require.Same(t, a, got)

	got, ok = q.dequeue()
	require.True(t, ok)
	require.Same(t, b, got)

	_, ok = q.dequeue()
	require.False(t, ok)
}

func TestAdmissionGateUnboundedNeverWaits(t *testing.T) {
	g := newAdmissionGate(0, nil)
	done := make(chan struct{})
	go func() {
		g.wait(func() uint32 { return 1_000_000 })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unbounded gate blocked")
	}
}

func TestAdmissionGateUsesConfiguredBackoff(t *testing.T) {
	var attempts atomic.Uint32
	backoff := func(attempt int) time.Duration {
		attempts.Add(1)
		return time.Millisecond
	}
	g := newAdmissionGate(1, backoff)

	var size atomic.Uint32
	size.Store(1)
	done := make(chan struct{})
	go func() {
		g.wait(size.Load)
		close(done)
	}()

	require.Eventually(t, func() bool { return attempts.Load() >= 3 }, time.Second, time.Millisecond)
	size.Store(0)
	g.signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not return once backoff-driven re-check saw room")
	}
}

func TestDefaultBackoffCapsAndDoubles(t *testing.T) {
	require.Equal(t, admissionPollInterval, DefaultBackoff(0))
	require.Equal(t, 2*admissionPollInterval, DefaultBackoff(1))
	require.Equal(t, maxAdmissionBackoff, DefaultBackoff(64))
}

func TestAdmissionGateWakesOnSignal(t *testing.T) {
	g := newAdmissionGate(1, nil)
	var size atomic.Uint32
	size.Store(1)

	var wg sync.WaitGroup
	wg.Add(1)
	waiting := make(chan struct{})
	go func() {
		defer wg.Done()
		close(waiting)
		g.wait(size.Load)
	}()

	<-waiting
	time.Sleep(20 * time.Millisecond) // let the goroutine enqueue its waiter

	size.Store(0)
	g.signal()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal did not wake a parked waiter")
	}
}
