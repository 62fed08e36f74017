package skipqueue

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// =============================================================================
// dump — diagnostic rendering
// =============================================================================
//
// Everything in this file is a read-only convenience for tests and manual
// inspection. It deliberately does not help unlink marked nodes the way
// locate/findFirst do, so that inspecting a queue never mutates it; the
// tradeoff is that a dump is not linearizable with concurrent Push/TryPop
// and should never be used to make a correctness decision.

func dumpString[K cmp.Ordered, V any](l *list[K, V], allLevels bool) string {
	var b strings.Builder
	top := uint32(0)
	if allLevels {
		top = l.levelCap
	}
	for level := uint32(0); level <= top; level++ {
		if allLevels {
			fmt.Fprintf(&b, "Queue at level %d:\n", level)
		} else {
			b.WriteString("Queue: \n")
		}
		walkLevel(l, level, func(n *node[K, V], marked bool) {
			if marked {
				fmt.Fprintf(&b, "\tKey: %v (Marked)\n", n.priority)
			} else {
				fmt.Fprintf(&b, "\tKey: %v\n", n.priority)
			}
		})
	}
	return b.String()
}

func dumpLevel[K cmp.Ordered, V any](l *list[K, V], level uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Queue at level %d:\n", level)
	walkLevel(l, level, func(n *node[K, V], marked bool) {
		if marked {
			fmt.Fprintf(&b, "\tKey: %v (Marked)\n", n.priority)
		} else {
			fmt.Fprintf(&b, "\tKey: %v\n", n.priority)
		}
	})
	return b.String()
}

func dumpStringKV[K cmp.Ordered, V any](l *list[K, V], allLevels bool) string {
	var b strings.Builder
	top := uint32(0)
	if allLevels {
		top = l.levelCap
	}
	for level := uint32(0); level <= top; level++ {
		if allLevels {
			fmt.Fprintf(&b, "Queue at level %d:\n", level)
		} else {
			b.WriteString("Queue: \n")
		}
		walkLevel(l, level, func(n *node[K, V], marked bool) {
			if marked {
				fmt.Fprintf(&b, "\tKey: %v, Value: %v (Marked)\n", n.priority, n.value)
			} else {
				fmt.Fprintf(&b, "\tKey: %v, Value: %v\n", n.priority, n.value)
			}
		})
	}
	return b.String()
}

func dumpLevelKV[K cmp.Ordered, V any](l *list[K, V], level uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Queue at level %d:\n", level)
	walkLevel(l, level, func(n *node[K, V], marked bool) {
		if marked {
			fmt.Fprintf(&b, "\tKey: %v, Value: %v (Marked)\n", n.priority, n.value)
		} else {
			fmt.Fprintf(&b, "\tKey: %v, Value: %v\n", n.priority, n.value)
		}
	})
	return b.String()
}

// walkLevel visits every node reachable from head at level, in list order,
// reporting each node's current mark at that level. It does not help.
//
// Each node's mark is fetched fresh from that node itself at the top of the
// loop, the same way the original ToString recomputes
// (nnode, marked) = node->GetNextPointerAndMark(level) on every iteration:
// the mark printed for a node must be its own, never a value carried over
// from whatever node preceded it.
func walkLevel[K cmp.Ordered, V any](l *list[K, V], level uint32, visit func(n *node[K, V], marked bool)) {
	if level > l.levelCap {
		return
	}
	n := l.head.getNext(level)
	for n != nil {
		next, marked := n.getNextAndMark(level)
		visit(n, marked)
		n = next
	}
}

// checksum hashes the live, bottom-level contents of l in list order. It is
// a testing convenience for detecting "did this change between two
// observations" without a full diff; it is not a cryptographic digest and
// says nothing about values in the KV variant.
func checksum[K cmp.Ordered, V any](l *list[K, V]) uint64 {
	h := xxhash.New()
	walkLevel(l, 0, func(n *node[K, V], marked bool) {
		if marked {
			return
		}
		fmt.Fprintf(h, "%v|", n.priority)
	})
	return h.Sum64()
}
