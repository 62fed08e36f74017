package skipqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeCasNextFailsWhenMarked(t *testing.T) {
	n := newNode(1, struct{}{}, 2)
	other := newNode(2, struct{}{}, 1)

	require.True(t, n.trySetMark(0, nil))
	require.False(t, n.casNext(0, nil, other))
}

func TestNodeCasNextFailsOnStaleExpected(t *testing.T) {
	n := newNode(1, struct{}{}, 1)
	a := newNode(2, struct{}{}, 1)
	b := newNode(3, struct{}{}, 1)

	require.True(t, n.casNext(0, nil, a))
	require.False(t, n.casNext(0, nil, b))

	got := n.getNext(0)
	require.Same(t, a, got)
}

func TestNodeTrySetMarkIsSingleCommit(t *testing.T) {
	n := newNode(1, struct{}{}, 1)
	succ := newNode(2, struct{}{}, 1)
	n.setNext(0, succ)

	require.True(t, n.trySetMark(0, succ))
	require.False(t, n.trySetMark(0, succ))

	_, marked := n.getNextAndMark(0)
	require.True(t, marked)
}

func TestNodeSetMarkIsIdempotent(t *testing.T) {
	n := newNode(1, struct{}{}, 2)

	n.setMark(1)
	_, marked := n.getNextAndMark(1)
	require.True(t, marked)

	n.setMark(1) // must not panic, must not clear the mark
	_, marked = n.getNextAndMark(1)
	require.True(t, marked)
}

func TestNodeInsertingFlag(t *testing.T) {
	n := newNode(1, struct{}{}, 1)
	require.True(t, n.isInserting())

	n.setDoneInserting()
	require.False(t, n.isInserting())
}

func TestNewHeadIsLiveAtFullHeight(t *testing.T) {
	h := newHead[int, struct{}](DefaultLevelCap + 1)
	require.False(t, h.isInserting())
	require.Equal(t, uint32(DefaultLevelCap+1), h.height())
}
