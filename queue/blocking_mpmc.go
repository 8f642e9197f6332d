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

// BlockingMPMC adds blocking Put/Take on top of a BoundedMPMC; Take
// retries through a bounded spin, then parks.
//
// Unlike BlockingMPSC's single wake-up slot, multiple consumers may be
// parked at once, so the consumer list is itself an MPMC queue of
// wake-up channels — exactly the "consumer list is itself an MPMC queue
// of thread handles" construction the design notes describe. A consumer
// that cannot make progress registers its channel, polls once more to
// close the missed-wakeup race, then parks; a producer that successfully
// offers an element wakes every currently registered waiter rather than
// just one, since more than one waiter may be racing for the single
// element that became available.
type BlockingMPMC[T any] struct {
	q        *BoundedMPMC[T]
	free     *semaphore.Weighted
	waiters  *MPMC[chan struct{}]
	draining atomix.Bool
}

// NewBlockingMPMC creates a BlockingMPMC wrapping a fresh BoundedMPMC.
func NewBlockingMPMC[T any](capacity int) *BlockingMPMC[T] {
	return &BlockingMPMC[T]{
		q:       NewBoundedMPMC[T](capacity),
		free:    semaphore.NewWeighted(int64(capacity)),
		waiters: NewMPMC[chan struct{}](),
	}
}

// Offer is the non-blocking fast path: see BoundedMPMC.Offer.
func (q *BlockingMPMC[T]) Offer(elem *T) error { return q.q.Offer(elem) }

// Poll is the non-blocking fast path: see BoundedMPMC.Poll.
func (q *BlockingMPMC[T]) Poll() (T, error) { return q.q.Poll() }

// Peek delegates to the underlying BoundedMPMC.
func (q *BlockingMPMC[T]) Peek() (T, error) { return q.q.Peek() }

// Size delegates to the underlying BoundedMPMC.
func (q *BlockingMPMC[T]) Size() int { return q.q.Size() }

// Cap delegates to the underlying BoundedMPMC.
func (q *BlockingMPMC[T]) Cap() int { return q.q.Cap() }

// Drain marks the queue as draining: Take no longer waits for producer
// activity once the queue is empty. The caller must ensure no further
// Put/Offer will be made.
func (q *BlockingMPMC[T]) Drain() { q.draining.StoreRelease(true) }

// Put blocks until a free slot exists, or ctx is done.
func (q *BlockingMPMC[T]) Put(ctx context.Context, elem *T) error {
	if elem == nil {
		return ErrNullElement
	}
	if err := q.free.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := q.q.Offer(elem); err != nil {
		q.free.Release(1)
		return err
	}
	q.wakeAll()
	return nil
}

// Take blocks until an element is available, or ctx is done.
func (q *BlockingMPMC[T]) Take(ctx context.Context) (T, error) {
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

		ch := make(chan struct{}, 1)
		_ = q.waiters.Offer(&ch)

		// Close the missed-wakeup race: a Put may have succeeded and
		// woken only waiters registered before it ran.
		elem, err = q.q.Poll()
		if err == nil {
			q.free.Release(1)
			return elem, nil
		}

		select {
		case <-ch:
			continue
		case <-ctx.Done():
			return elem, ctx.Err()
		}
	}
}

// wakeAll pops every currently registered waiter and signals it. Waiters
// that gave up (ctx canceled) while registered are simply discarded —
// their channel is never read again and is collected normally.
func (q *BlockingMPMC[T]) wakeAll() {
	for {
		chp, err := q.waiters.Poll()
		if err != nil {
			return
		}
		select {
		case chp <- struct{}{}:
		default:
		}
	}
}
