// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides unbounded, intrusive-linked-list lock-free FIFO
// queues, plus bounded and blocking wrappers built on top of them.
//
// # Quick Start
//
//	q := queue.NewMPSC[Event]()
//	ev := Event{ID: 1}
//	_ = q.Offer(&ev)
//	got, err := q.Poll()
//
// # Queue Family
//
//   - MPSC: multi-producer, single-consumer. Producers race a get-and-set
//     on an atomic head pointer; there is exactly one consumer thread.
//   - MPMC: multi-producer, multi-consumer. Both head and tail are atomic;
//     Poll CAS-advances tail and tolerates racing consumers.
//   - BoundedMPSC / BoundedMPMC: the same queues with a conservative
//     ingress/egress counter pair enforcing an approximate capacity.
//   - BlockingMPSC / BlockingMPMC: Put waits on a free-slot semaphore;
//     Take tries a bounded spin and then parks on a channel, with no
//     yield phase in between. Both have context-driven cancellation and
//     timeouts.
//
// # Basic Usage
//
//	q := queue.NewMPMC[Job]()
//
//	// Producers (any number of goroutines)
//	job := Job{ID: 7}
//	if err := q.Offer(&job); err != nil {
//	    // only ErrNullElement; unbounded Offer never blocks or fails otherwise
//	}
//
//	// Consumers (any number of goroutines for MPMC; exactly one for MPSC)
//	j, err := q.Poll()
//	if err == nil {
//	    j.Run()
//	} else if queue.IsWouldBlock(err) {
//	    // queue empty, retry later
//	}
//
// # Bounded Usage
//
//	bq := queue.NewBoundedMPMC[Job](1024)
//	if err := bq.Offer(&job); err != nil {
//	    if errors.Is(err, queue.ErrCapacityExceeded) {
//	        // backpressure
//	    }
//	}
//
// The bounded counters are eventually consistent (§9 of the design notes):
// concurrent producers may push the true in-flight size momentarily above
// capacity by at most O(producers). This is an accepted trade-off, not a
// bug — tighten it with a combined CAS token if strict capacity is ever
// required.
//
// # Blocking Usage
//
//	bq := queue.NewBlockingMPSC[Job](1024)
//
//	// Producer
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	if err := bq.Put(ctx, &job); err != nil {
//	    // context.Canceled or context.DeadlineExceeded
//	}
//
//	// Consumer (single goroutine for the MPSC variant)
//	j, err := bq.Take(context.Background())
//
// # Graceful Shutdown
//
// FAA-free though this package is, it still borrows the teacher lfq
// package's Drainer hint for graceful shutdown of blocking consumers:
//
//	prodWg.Wait()
//	if d, ok := any(bq).(queue.Drainer); ok {
//	    d.Drain()
//	}
//	// Take calls no longer wait for new producer activity once the
//	// underlying queue is empty — they return ErrWouldBlock immediately.
//
// # Error Handling
//
// Unbounded Offer/Poll/Peek return [ErrWouldBlock] (sourced from
// [code.hybscloud.com/iox]) or [ErrNullElement]; bounded Offer additionally
// returns [ErrCapacityExceeded]. Blocking operations return context errors
// on cancellation or timeout instead of blocking forever.
//
//	backoff := iox.Backoff{}
//	for {
//	    item, err := q.Poll()
//	    if err == nil {
//	        backoff.Reset()
//	        process(item)
//	        break
//	    }
//	    if !queue.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Thread Safety
//
//   - MPSC: multiple producer goroutines, exactly one consumer goroutine.
//   - MPMC: multiple producer and consumer goroutines.
//
// Violating these constraints (e.g. two consumers on an MPSC) causes
// undefined behavior, including lost or duplicated elements.
//
// # Race Detection
//
// As with the teacher lfq package, Go's race detector tracks explicit
// synchronization primitives (mutex, channel, WaitGroup) but cannot
// observe happens-before relationships established purely through
// acquire/release atomics on separate variables. The CAS/FAA loops in
// this package are correct under the memory model but may produce false
// positives under -race for certain interleavings; see [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for bounded-spin back-off.
package queue
