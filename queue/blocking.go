// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"

	"code.hybscloud.com/atomix"
	"golang.org/x/sync/semaphore"

	"code.hybscloud.com/concur/internal/backoff"
)

// BlockingMPSC adds blocking Put/Take on top of a BoundedMPSC.
//
// Put blocks until a free slot exists (a golang.org/x/sync/semaphore
// weighted unit, one per free slot); Take blocks until an element is
// available, first retrying through a bounded spin, then parking
// on a single-slot wake-up channel — there is exactly one consumer, so a
// single slot (rather than a waiter queue) suffices. Both honor ctx for
// cancellation and deadlines in place of the source's per-thread
// interrupt flag, per the design notes' explicit sanction of that
// substitution.
type BlockingMPSC[T any] struct {
	q        *BoundedMPSC[T]
	free     *semaphore.Weighted
	wake     chan struct{}
	draining atomix.Bool
}

// NewBlockingMPSC creates a BlockingMPSC wrapping a fresh BoundedMPSC.
func NewBlockingMPSC[T any](capacity int) *BlockingMPSC[T] {
	q := &BlockingMPSC[T]{
		q:    NewBoundedMPSC[T](capacity),
		free: semaphore.NewWeighted(int64(capacity)),
		wake: make(chan struct{}, 1),
	}
	return q
}

// Offer is the non-blocking fast path: see BoundedMPSC.Offer.
func (q *BlockingMPSC[T]) Offer(elem *T) error { return q.q.Offer(elem) }

// Poll is the non-blocking fast path: see BoundedMPSC.Poll.
func (q *BlockingMPSC[T]) Poll() (T, error) { return q.q.Poll() }

// Peek delegates to the underlying BoundedMPSC.
func (q *BlockingMPSC[T]) Peek() (T, error) { return q.q.Peek() }

// Size delegates to the underlying BoundedMPSC.
func (q *BlockingMPSC[T]) Size() int { return q.q.Size() }

// Cap delegates to the underlying BoundedMPSC.
func (q *BlockingMPSC[T]) Cap() int { return q.q.Cap() }

// Drain marks the queue as draining: Take no longer waits for producer
// activity once the queue is empty, returning ErrWouldBlock immediately
// instead of parking. The caller must ensure no further Put/Offer will
// be made.
func (q *BlockingMPSC[T]) Drain() { q.draining.StoreRelease(true) }

// Put blocks until a free slot exists, or ctx is done.
func (q *BlockingMPSC[T]) Put(ctx context.Context, elem *T) error {
	if elem == nil {
		return ErrNullElement
	}
	if err := q.free.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := q.q.Offer(elem); err != nil {
		// capacity accounting cannot disagree with the semaphore under
		// correct usage; surface it rather than leak the acquired unit.
		q.free.Release(1)
		return err
	}
	q.notify()
	return nil
}

// Take blocks until an element is available, or ctx is done.
func (q *BlockingMPSC[T]) Take(ctx context.Context) (T, error) {
	var bo backoff.Backoff
	for {
		elem, err := q.q.Poll()
		if err == nil {
			q.free.Release(1)
			return elem, nil
		}
		if q.draining.LoadAcquire() {
			var zero T
			return zero, ErrWouldBlock
		}
		if bo.Spinning() {
			bo.Once()
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}
		if err := q.park(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}

// notify wakes the single parked consumer, if any, closing the missed-
// wakeup race by using a buffered channel: a send that finds the slot
// already full is a no-op, since a wake-up is already pending.
func (q *BlockingMPSC[T]) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// park waits for a wake-up, ctx cancellation, or a spurious return —
// the caller re-checks Poll on every iteration regardless, so a
// spurious wake is indistinguishable from a real one and costs only one
// extra Poll.
func (q *BlockingMPSC[T]) park(ctx context.Context) error {
	select {
	case <-q.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
