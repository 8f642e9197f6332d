// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "code.hybscloud.com/atomix"

// MPSC is an unbounded, intrusive-linked-list multi-producer,
// single-consumer queue.
//
// Producers race a get-and-set on head; head always points at the most
// recently linked node. tail is consumer-only and walks forward along
// next pointers. The list is always non-empty: tail never goes below the
// current sentinel. Offer is wait-free per producer; Poll must only ever
// be called from a single consumer goroutine.
type MPSC[T any] struct {
	_    pad
	head atomix.Pointer[node[T]] // producers: get-and-set target
	_    pad
	tail *node[T] // consumer-only sentinel walk
}

// NewMPSC creates an empty unbounded MPSC queue.
func NewMPSC[T any]() *MPSC[T] {
	sentinel := newSentinel[T]()
	q := &MPSC[T]{tail: sentinel}
	q.head.StoreRelease(sentinel)
	return q
}

// Offer links elem onto the queue. Never blocks, never fails for a
// non-nil elem; returns ErrNullElement if elem is nil.
func (q *MPSC[T]) Offer(elem *T) error {
	if elem == nil {
		return ErrNullElement
	}
	n := newNode(elem)
	prev := swapNode(&q.head, n)
	prev.next.StoreRelease(n)
	return nil
}

// Poll removes and returns the element at the head of the queue.
// Must only be called from the single consumer goroutine.
func (q *MPSC[T]) Poll() (T, error) {
	next := q.tail.next.LoadAcquire()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	elem := next.element.LoadAcquire()
	next.element.StoreRelease(nil) // aid reclamation
	q.tail = next
	return *elem, nil
}

// Peek returns the element at the head of the queue without removing it.
// Must only be called from the single consumer goroutine.
func (q *MPSC[T]) Peek() (T, error) {
	next := q.tail.next.LoadAcquire()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	elem := next.element.LoadAcquire()
	if elem == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	return *elem, nil
}

// Size walks the tail→next chain and returns an approximate element
// count. Intended for debugging/metrics, not capacity decisions.
func (q *MPSC[T]) Size() int {
	n := 0
	for cur := q.tail.next.LoadAcquire(); cur != nil; cur = cur.next.LoadAcquire() {
		n++
	}
	return n
}

// Clear discards all queued elements. Consumer-only: installs a fresh
// empty sentinel as both tail and head, exactly as on construction.
func (q *MPSC[T]) Clear() {
	sentinel := newSentinel[T]()
	q.tail = sentinel
	q.head.StoreRelease(sentinel)
}
