package skipqueue

import (
	"cmp"
	"sync/atomic"
)

// =============================================================================
// list — the shared skip-list engine behind Queue and KVQueue
// =============================================================================

// list is the internal skip list shared by the priority-only Queue and the
// key-value KVQueue: both are thin wrappers around a list[K, V], with V
// instantiated to struct{} for the priority-only variant. Duplicating this
// ~300 line engine per variant (the way a C++ template would) buys nothing
// in Go, since the unused V field costs nothing when V is struct{}.
type list[K cmp.Ordered, V any] struct {
	levelCap uint32 // L: levels run 0..levelCap, height <= levelCap+1
	head     *node[K, V]

	size  atomic.Uint32
	gate  *admissionGate
	stats *diagnostics

	noCopy noCopy
}

// noCopy embeds into list so `go vet`'s copylocks-style analysis (via
// sync.Locker satisfaction) flags accidental duplication of list's state.
// Queue/KVQueue hold a *list, so ordinary use never trips this; it exists to
// catch someone reaching past the wrapper and copying the engine directly.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func newList[K cmp.Ordered, V any](cfg Config) *list[K, V] {
	cfg = cfg.withDefaults()
	return &list[K, V]{
		levelCap: cfg.LevelCap,
		head:     newHead[K, V](cfg.LevelCap + 1),
		gate:     newAdmissionGate(cfg.MaxSize, cfg.Backoff),
		stats:    newDiagnostics(),
	}
}

func (l *list[K, V]) Size() uint32 {
	return l.size.Load()
}

// locate finds, at every level from levelCap down to 0, the last
// predecessor with priority < target and the corresponding successor with
// priority >= target (or nil). Along the way it helps unlink any marked
// node it steps over. If helping loses a race (the predecessor it tried to
// snip has itself changed), the whole search restarts from the head: the
// preds/succs arrays are only meaningful if they were built as one
// consistent traversal.
func (l *list[K, V]) locate(priority K) (preds, succs []*node[K, V]) {
	preds = make([]*node[K, V], l.levelCap+1)
	succs = make([]*node[K, V], l.levelCap+1)

restart:
	pred := l.head
	for level := int(l.levelCap); level >= 0; level-- {
		curr := pred.getNext(uint32(level))
		for curr != nil {
			succ, marked := curr.getNextAndMark(uint32(level))
			for marked {
				if !pred.casNext(uint32(level), curr, succ) {
					l.stats.recordLocateRestart()
					goto restart
				}
				curr = succ
				if curr == nil {
					marked = false
				} else {
					succ, marked = curr.getNextAndMark(uint32(level))
				}
			}
			if curr == nil {
				break
			}
			if cmp.Less(curr.priority, priority) {
				pred = curr
				curr = succ
			} else {
				break
			}
		}
		preds[level] = pred
		succs[level] = curr
	}
	return preds, succs
}

// findFirst returns the first non-marked node reachable from head, helping
// unlink marked predecessors along the way. It returns nil if the list is
// empty.
func (l *list[K, V]) findFirst() *node[K, V] {
restart:
	pred := l.head
	for level := int(l.levelCap); level >= 0; level-- {
		curr := pred.getNext(uint32(level))
		if curr == nil {
			if level == 0 {
				return nil
			}
			continue
		}
		succ, marked := curr.getNextAndMark(uint32(level))
		for marked {
			if !pred.casNext(uint32(level), curr, succ) {
				l.stats.recordLocateRestart()
				goto restart
			}
			curr = succ
			if curr == nil {
				marked = false
			} else {
				succ, marked = curr.getNextAndMark(uint32(level))
			}
		}
		if level == 0 {
			return curr
		}
	}
	return nil
}

// push inserts priority/value at the position locate finds, first waiting
// on the admission gate if the queue is bounded and currently full.
func (l *list[K, V]) push(priority K, value V) {
	l.gate.wait(func() uint32 { return l.size.Load() })

	height := randomLevel(l.levelCap)
	newNode := newNode(priority, value, height)

	preds, succs := l.locate(priority)
	for level := uint32(0); level < height; level++ {
		newNode.setNext(level, succs[level])
	}

	for !preds[0].casNext(0, succs[0], newNode) {
		l.stats.recordPushRetry()
		preds, succs = l.locate(priority)
		for level := uint32(0); level < height; level++ {
			newNode.setNext(level, succs[level])
		}
	}

	for level := uint32(1); level < height; level++ {
		for !preds[level].casNext(level, succs[level], newNode) {
			l.stats.recordPushRetry()
			preds, succs = l.locate(priority)
		}
	}

	newNode.setDoneInserting()
	l.size.Add(1)
}

// tryPop removes and returns the minimum-priority node, or reports false if
// the list is empty, the candidate is still mid-insertion, or this attempt
// lost a race to another consumer (or a concurrent push). Callers may retry
// on false.
func (l *list[K, V]) tryPop() (K, V, bool) {
	var zeroK K
	var zeroV V

	first := l.findFirst()
	if first == nil {
		return zeroK, zeroV, false
	}
	if first.isInserting() {
		return zeroK, zeroV, false
	}

	for level := int(first.height()) - 1; level >= 1; level-- {
		first.setMark(uint32(level))
	}

	succ := first.getNext(0)
	priority := first.priority
	value := first.value

	if !first.trySetMark(0, succ) {
		l.stats.recordPopRetry()
		return zeroK, zeroV, false
	}

	l.size.Add(^uint32(0)) // -1
	l.gate.signal()
	return priority, value, true
}
