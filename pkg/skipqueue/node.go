package skipqueue

import (
	"cmp"
	"sync/atomic"
)

// =============================================================================
// node — a skip list entry with atomic marked-pointer links
// =============================================================================

// linkState is the (successor, mark) pair for one level of one node. The
// pair is never mutated in place: a level transition is always installed by
// swapping in a brand new linkState via CompareAndSwap on the atomic.Pointer
// that holds it, so a single word-sized CAS compares the ref and the mark
// together. This is the same shape as Herlihy & Shavit's
// AtomicMarkableReference; it avoids the ABA-prone route of packing a mark
// bit into a raw pointer's low bit, which Go's GC does not tolerate anyway.
type linkState[K cmp.Ordered, V any] struct {
	next   *node[K, V]
	marked bool
}

// node is one entry in the skip list. Its priority and value are immutable
// after construction; height is fixed at construction; only the per-level
// links and the inserting flag ever change after that.
type node[K cmp.Ordered, V any] struct {
	priority K
	value    V

	// links holds one atomic (successor, mark) cell per level, indices
	// 0..height). Level 0 is the full list; higher levels are express
	// lanes skipping over runs of lower-level nodes.
	links []atomic.Pointer[linkState[K, V]]

	// inserting is true from allocation until the node's links are fully
	// installed. Consumers must not pop a node while this is set: its
	// lower-level links may still be partially wired up.
	inserting atomic.Bool
}

func newNode[K cmp.Ordered, V any](priority K, value V, height uint32) *node[K, V] {
	n := &node[K, V]{
		priority: priority,
		value:    value,
		links:    make([]atomic.Pointer[linkState[K, V]], height),
	}
	n.inserting.Store(true)
	empty := &linkState[K, V]{}
	for level := range n.links {
		n.links[level].Store(empty)
	}
	return n
}

// newHead builds the sentinel head of maximum height. Its priority is
// nominal: comparisons never consult it, since every traversal starts from
// its successors.
func newHead[K cmp.Ordered, V any](height uint32) *node[K, V] {
	var zeroKey K
	var zeroVal V
	h := newNode[K, V](zeroKey, zeroVal, height)
	h.inserting.Store(false)
	return h
}

func (n *node[K, V]) height() uint32 {
	return uint32(len(n.links))
}

// getNext loads the current successor at level, stripping the mark.
func (n *node[K, V]) getNext(level uint32) *node[K, V] {
	return n.links[level].Load().next
}

// getNextAndMark is an atomic snapshot of both the successor and the mark
// at level.
func (n *node[K, V]) getNextAndMark(level uint32) (*node[K, V], bool) {
	s := n.links[level].Load()
	return s.next, s.marked
}

// setNext is a plain, non-CAS store. It must only be used before n is
// reachable from any other node, i.e. during construction/installation.
func (n *node[K, V]) setNext(level uint32, next *node[K, V]) {
	n.links[level].Store(&linkState[K, V]{next: next})
}

// casNext installs newNext at level if the current cell is exactly
// (expected, unmarked). It fails if the level has already been marked,
// which is what stops a successor from ever being installed onto a
// logically dead link.
func (n *node[K, V]) casNext(level uint32, expected, newNext *node[K, V]) bool {
	cell := &n.links[level]
	cur := cell.Load()
	if cur.marked || cur.next != expected {
		return false
	}
	return cell.CompareAndSwap(cur, &linkState[K, V]{next: newNext})
}

// trySetMark is the single-CAS deletion commit point: it flips the mark at
// level from false to true, but only if the successor there is still
// expected. Used for level 0 in TryPop.
func (n *node[K, V]) trySetMark(level uint32, expected *node[K, V]) bool {
	cell := &n.links[level]
	cur := cell.Load()
	if cur.marked || cur.next != expected {
		return false
	}
	return cell.CompareAndSwap(cur, &linkState[K, V]{next: expected, marked: true})
}

// setMark marks level unconditionally, retrying against whatever successor
// is currently there until the mark sticks (or is already set by someone
// else). Used only for levels >= 1 during TryPop, where the exact instant
// the mark takes effect is not the linearization point.
func (n *node[K, V]) setMark(level uint32) {
	cell := &n.links[level]
	for {
		cur := cell.Load()
		if cur.marked {
			return
		}
		if cell.CompareAndSwap(cur, &linkState[K, V]{next: cur.next, marked: true}) {
			return
		}
	}
}

func (n *node[K, V]) setDoneInserting() {
	n.inserting.Store(false)
}

func (n *node[K, V]) isInserting() bool {
	return n.inserting.Load()
}
