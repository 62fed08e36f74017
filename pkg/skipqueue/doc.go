// Package skipqueue implements a concurrent, lock-free priority queue on top
// of a probabilistically balanced skip list.
//
// Many producers may Push and many consumers may TryPop at the same time
// without any of them holding a lock. Insertion and extraction are built
// entirely from compare-and-swap loops on per-level "marked pointer" cells:
// a node is logically removed by flipping a mark bit on its bottom-level
// link, and any traversal that later walks past a marked link helps finish
// the physical unlink before continuing its own search.
//
// The queue is lock-free, not wait-free: system-wide progress is
// guaranteed, but an individual Push or TryPop may retry an unbounded
// number of times under heavy contention. Ties among equal priorities break
// by physical list order, which is a function of insertion race outcomes —
// callers must not rely on arrival order among equal keys.
package skipqueue
