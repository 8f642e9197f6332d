// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

// Producer is the interface for enqueueing elements onto an unbounded
// linked queue.
//
// Offer never blocks and never fails for the unbounded variants: it only
// returns an error when elem is nil. Bounded wrappers additionally return
// ErrCapacityExceeded.
type Producer[T any] interface {
	// Offer adds an element to the queue. elem must not be nil.
	Offer(elem *T) error
}

// Consumer is the interface for dequeueing elements from a linked queue.
type Consumer[T any] interface {
	// Poll removes and returns the element at the head of the queue.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Poll() (T, error)

	// Peek returns the element at the head of the queue without removing it.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Peek() (T, error)
}

// Queue is the combined producer/consumer surface shared by MPSC and MPMC.
//
// Size is intentionally approximate — see §3 of the design notes: the
// linked list is walked node-by-node, so Size is meant for debugging and
// metrics, not capacity decisions (bounded wrappers track their own
// monotonic counters for that).
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Size walks the queue and returns an approximate element count.
	Size() int
}

// Bounded adds a capacity-tracked view on top of an unbounded Queue.
type Bounded[T any] interface {
	Queue[T]

	// Cap returns the configured capacity.
	Cap() int

	// RemainingCapacity returns Cap() minus the current conservative size
	// estimate, floored at zero.
	RemainingCapacity() int
}

// Drainer signals that no more Offers will occur, letting a blocking
// Consumer stop waiting for producers that have already finished.
//
// Mirrors the teacher lfq package's Drainer interface: a hint, not an
// enforced invariant — the caller must ensure no further Offer is made
// after calling Drain.
type Drainer interface {
	// Drain marks the queue as draining. Offer after Drain has undefined
	// effects on blocking consumers' wake-up guarantees.
	Drain()
}
