package skipqueue

import (
	"runtime"
	"sync/atomic"
)

// =============================================================================
// diagnostics — sharded, best-effort retry counters
// =============================================================================

// statShard holds one shard's worth of counters. It is padded to 64 bytes
// so that increments landing on neighbouring shards do not share a cache
// line.
type statShard struct {
	pushRetries    atomic.Uint64
	popRetries     atomic.Uint64
	locateRestarts atomic.Uint64
	_              [40]byte // pad struct to 64 bytes
}

// diagnostics aggregates sharded retry counters, one shard per GOMAXPROCS
// rounded up to a power of two. Contention on Push/TryPop
// shows up here as retry counts long before it shows up as latency, which
// is what makes this worth exposing to an embedder deciding whether to
// shard its own workload across multiple queues.
type diagnostics struct {
	shards []statShard
	mask   uint32
	next   atomic.Uint32
}

func newDiagnostics() *diagnostics {
	n := nextPowerOfTwo(runtime.GOMAXPROCS(0))
	return &diagnostics{
		shards: make([]statShard, n),
		mask:   uint32(n - 1),
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// shard picks a counter shard by simple round robin. There is no cheap
// per-call key worth hashing here (the priority itself is on the hot path
// of Push/TryPop already), so successive calls simply rotate through the
// shards; a goroutine has no shard of its own.
func (d *diagnostics) shard() *statShard {
	idx := d.next.Add(1) & d.mask
	return &d.shards[idx]
}

func (d *diagnostics) recordPushRetry()     { d.shard().pushRetries.Add(1) }
func (d *diagnostics) recordPopRetry()      { d.shard().popRetries.Add(1) }
func (d *diagnostics) recordLocateRestart() { d.shard().locateRestarts.Add(1) }

// Stats is a best-effort, point-in-time snapshot of retry counters. Like
// Size, it is never a synchronization barrier: shards are summed without
// coordinating with concurrent writers.
type Stats struct {
	PushRetries    uint64
	PopRetries     uint64
	LocateRestarts uint64
}

func (d *diagnostics) snapshot() Stats {
	var s Stats
	for i := range d.shards {
		s.PushRetries += d.shards[i].pushRetries.Load()
		s.PopRetries += d.shards[i].popRetries.Load()
		s.LocateRestarts += d.shards[i].locateRestarts.Load()
	}
	return s
}
