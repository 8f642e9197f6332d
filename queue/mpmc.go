// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "code.hybscloud.com/atomix"

// MPMC is an unbounded, intrusive-linked-list multi-producer,
// multi-consumer queue.
//
// Both head and tail are atomic. Offer behaves exactly as MPSC.Offer.
// Poll CAS-advances tail to tail.next, then atomically exchanges the
// advanced node's element with nil; if that race is lost to another
// consumer (or the node was already logically removed), it retries.
// Nodes whose element has been cleared to nil are tombstones: they stay
// linked until the next traversal (Poll, Peek, Remove or ForEach) prunes
// them from the front of the chain.
type MPMC[T any] struct {
	_    pad
	head atomix.Pointer[node[T]] // producers: get-and-set target
	_    pad
	tail atomix.Pointer[node[T]] // consumers: CAS-advance target
}

// NewMPMC creates an empty unbounded MPMC queue.
func NewMPMC[T any]() *MPMC[T] {
	sentinel := newSentinel[T]()
	q := &MPMC[T]{}
	q.head.StoreRelease(sentinel)
	q.tail.StoreRelease(sentinel)
	return q
}

// Offer links elem onto the queue. Never blocks, never fails for a
// non-nil elem; returns ErrNullElement if elem is nil.
func (q *MPMC[T]) Offer(elem *T) error {
	if elem == nil {
		return ErrNullElement
	}
	n := newNode(elem)
	prev := swapNode(&q.head, n)
	prev.next.StoreRelease(n)
	return nil
}

// Poll removes and returns an element from the front of the queue.
// Safe for any number of concurrent callers.
func (q *MPMC[T]) Poll() (T, error) {
	for {
		cur := q.tail.LoadAcquire()
		next := cur.next.LoadAcquire()
		if next == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		if !q.tail.CompareAndSwapAcqRel(cur, next) {
			continue
		}
		elem := swapElement(&next.element, nil)
		if elem != nil {
			return *elem, nil
		}
		// next was already logically removed by a concurrent Remove;
		// tail has still been advanced past it, so just retry.
	}
}

// Peek returns the element at the front of the queue without removing
// it, pruning any tombstones it walks past along the way.
func (q *MPMC[T]) Peek() (T, error) {
	for {
		cur := q.tail.LoadAcquire()
		next := cur.next.LoadAcquire()
		if next == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		elem := next.element.LoadAcquire()
		if elem != nil {
			return *elem, nil
		}
		// Tombstone at the front: prune by advancing tail, keep looking.
		q.tail.CompareAndSwapAcqRel(cur, next)
	}
}

// Remove atomically clears to nil the element of the first live node
// whose element equals o according to eq. Tombstoned nodes stay linked
// and are pruned lazily by a later traversal. Returns true if a matching,
// live element was found and removed.
func (q *MPMC[T]) Remove(o T, eq func(T, T) bool) bool {
	cur := q.tail.LoadAcquire()
	for {
		next := cur.next.LoadAcquire()
		if next == nil {
			return false
		}
		elem := next.element.LoadAcquire()
		if elem != nil && eq(*elem, o) {
			if next.element.CompareAndSwapAcqRel(elem, nil) {
				return true
			}
			// lost the race to a concurrent Poll/Remove — treat as absent
			return false
		}
		cur = next
	}
}

// ForEach calls action for every live element currently in the queue,
// front to back, pruning tombstones it encounters along the way.
func (q *MPMC[T]) ForEach(action func(T)) {
	var prev *node[T]
	cur := q.tail.LoadAcquire()
	for {
		next := cur.next.LoadAcquire()
		if next == nil {
			return
		}
		elem := next.element.LoadAcquire()
		if elem == nil {
			q.pruneAfter(prev, cur, next)
			cur = next
			continue
		}
		action(*elem)
		prev, cur = cur, next
	}
}

// pruneAfter unlinks the tombstoned node next, whose predecessor is cur.
// At chain start (prev == nil, cur loaded from tail) it advances tail
// onto next, which becomes the new sentinel; mid-chain it links cur
// directly to next's successor. A tombstone with no successor stays
// linked, since producers link new nodes onto the last node.
// Best-effort: if the CAS loses to a concurrent mutation, a later
// traversal will retry it.
func (q *MPMC[T]) pruneAfter(prev, cur, next *node[T]) {
	if prev == nil {
		q.tail.CompareAndSwapAcqRel(cur, next)
		return
	}
	if after := next.next.LoadAcquire(); after != nil {
		cur.next.CompareAndSwapAcqRel(next, after)
	}
}

// Size walks the tail→next chain and returns an approximate element
// count, excluding tombstones. Intended for debugging/metrics.
func (q *MPMC[T]) Size() int {
	n := 0
	cur := q.tail.LoadAcquire()
	for {
		next := cur.next.LoadAcquire()
		if next == nil {
			return n
		}
		if next.element.LoadAcquire() != nil {
			n++
		}
		cur = next
	}
}

// Clear discards all queued elements. Installs a fresh sentinel as the
// new head first, then as the new tail — that order matters: if tail
// were updated first, a producer racing in between could link its node
// onto the node about to be discarded and lose it.
func (q *MPMC[T]) Clear() {
	sentinel := newSentinel[T]()
	q.head.StoreRelease(sentinel)
	q.tail.StoreRelease(sentinel)
}

// swapElement atomically exchanges slot with next, returning the
// previous value. See node.go's swapNode for why this is a CAS loop
// rather than a dedicated exchange call.
func swapElement[T any](slot *atomix.Pointer[T], next *T) *T {
	for {
		prev := slot.LoadAcquire()
		if prev == nil {
			return nil
		}
		if slot.CompareAndSwapAcqRel(prev, next) {
			return prev
		}
	}
}
