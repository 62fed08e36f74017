// Package main is the runnable entry point for exercising a skipqueue.Queue
// under concurrent load.
//
// Usage:
//
//	# run with 4 producers, 2 consumers, unbounded, for 10s
//	go run cmd/skipqueue-demo/main.go --producers 4 --consumers 2 --duration 10s
//
//	# run bounded to 1000 elements
//	go run cmd/skipqueue-demo/main.go --bound 1000 --level-cap 6
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lf-ds/skipqueue/pkg/skipqueue"
)

var (
	levelCap  = flag.Uint("level-cap", uint(skipqueue.DefaultLevelCap), "maximum skip-list level")
	bound     = flag.Uint("bound", 0, "maximum queue size, 0 means unbounded")
	producers = flag.Int("producers", 4, "number of producer goroutines")
	consumers = flag.Int("consumers", 2, "number of consumer goroutines")
	duration  = flag.Duration("duration", 10*time.Second, "how long to run before shutting down")
	verbose   = flag.Bool("verbose", false, "verbose logging")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}

	cfg := skipqueue.Config{
		LevelCap: uint32(*levelCap),
		MaxSize:  uint32(*bound),
	}
	q := skipqueue.New[int](cfg)

	log.Printf("====================================")
	log.Printf("skipqueue demo starting")
	log.Printf("level cap: %d", cfg.LevelCap)
	if cfg.MaxSize > 0 {
		log.Printf("bound: %d", cfg.MaxSize)
	} else {
		log.Printf("bound: unbounded")
	}
	log.Printf("producers: %d, consumers: %d", *producers, *consumers)
	log.Printf("====================================")

	stop := make(chan struct{})
	prodDone := make(chan struct{})
	var pushed, popped atomic.Uint64

	var prodWg, consWg sync.WaitGroup
	for i := 0; i < *producers; i++ {
		prodWg.Add(1)
		go func(id int) {
			defer prodWg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				q.Push(rand.Intn(1_000_000))
				pushed.Add(1)
			}
		}(i)
	}

	for i := 0; i < *consumers; i++ {
		consWg.Add(1)
		go func(id int) {
			defer consWg.Done()
			for {
				select {
				case <-prodDone:
					return
				default:
				}
				if _, ok := q.TryPop(); ok {
					popped.Add(1)
				}
			}
		}(i)
	}

	go statusLoop(q, &pushed, &popped, stop)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("signal received: %v, shutting down...", sig)
	case <-time.After(*duration):
		log.Printf("duration elapsed, shutting down...")
	}

	close(stop)
	// Consumers keep popping until every producer has returned, so a
	// producer blocked on a full bounded queue can still finish its Push.
	prodWg.Wait()
	close(prodDone)
	consWg.Wait()

	stats := q.Stats()
	log.Printf("====================================")
	log.Printf("final size: %d", q.Size())
	log.Printf("pushed: %d, popped: %d", pushed.Load(), popped.Load())
	log.Printf("push retries: %d, pop retries: %d, locate restarts: %d",
		stats.PushRetries, stats.PopRetries, stats.LocateRestarts)
	log.Printf("checksum: %x", q.Checksum())
	log.Printf("shut down")
}

// statusLoop periodically reports queue depth and contention diagnostics.
func statusLoop(q *skipqueue.Queue[int], pushed, popped *atomic.Uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := q.Stats()
			log.Printf("[status] size=%d pushed=%d popped=%d retries(push=%d pop=%d locate=%d)",
				q.Size(), pushed.Load(), popped.Load(),
				stats.PushRetries, stats.PopRetries, stats.LocateRestarts)
		}
	}
}
