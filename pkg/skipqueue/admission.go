package skipqueue

import (
	"sync/atomic"
	"time"
)

// =============================================================================
// admissionGate — bounded-queue admission wait
// =============================================================================

// waiter is one producer parked on a full bounded queue.
type waiter struct {
	ch   chan struct{}
	next atomic.Pointer[waiter]
}

// waiterQueue is a Michael-Scott lock-free FIFO of parked producers. It is
// the same enqueue/dequeue CAS protocol as a lock-free MPMC value queue,
// repurposed here to hand out wakeups instead of arbitrary payloads: it
// only ever holds *waiter, never caller data.
type waiterQueue struct {
	head atomic.Pointer[waiter]
	tail atomic.Pointer[waiter]
}

func newWaiterQueue() *waiterQueue {
	dummy := &waiter{}
	q := &waiterQueue{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

func (q *waiterQueue) enqueue(w *waiter) {
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail == q.tail.Load() {
			if next == nil {
				if tail.next.CompareAndSwap(nil, w) {
					q.tail.CompareAndSwap(tail, w)
					return
				}
			} else {
				// tail lagged behind a completed enqueue; help it along.
				q.tail.CompareAndSwap(tail, next)
			}
		}
	}
}

func (q *waiterQueue) dequeue() (*waiter, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			continue
		}
		if head == tail {
			if next == nil {
				return nil, false
			}
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if q.head.CompareAndSwap(head, next) {
			return next, true
		}
	}
}

// admissionGate implements spec's bounded-queue admission wait: Push must
// not return until size < maxSize at some observed moment. Rather than a
// bare spin on the atomic size counter, producers park on a channel and
// TryPop wakes one after every successful pop; the configured backoff
// covers the case where a wakeup is missed (e.g. the parked producer hadn't
// enqueued its waiter yet when signal ran).
type admissionGate struct {
	maxSize uint32
	backoff Backoff
	waiters *waiterQueue
}

func newAdmissionGate(maxSize uint32, backoff Backoff) *admissionGate {
	if backoff == nil {
		backoff = DefaultBackoff
	}
	return &admissionGate{maxSize: maxSize, backoff: backoff, waiters: newWaiterQueue()}
}

func (g *admissionGate) wait(currentSize func() uint32) {
	if g.maxSize == 0 {
		return
	}
	for attempt := 0; currentSize() >= g.maxSize; attempt++ {
		w := &waiter{ch: make(chan struct{}, 1)}
		g.waiters.enqueue(w)
		select {
		case <-w.ch:
		case <-time.After(g.backoff(attempt)):
		}
	}
}

func (g *admissionGate) signal() {
	if g.maxSize == 0 {
		return
	}
	if w, ok := g.waiters.dequeue(); ok {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
}
