// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "code.hybscloud.com/atomix"

// BoundedMPSC wraps an MPSC with a conservative, eventually consistent
// capacity check.
//
// ingress/egress are monotonic counters: ingress increments after a
// successful Offer, egress after a successful Poll. Their difference is
// an upper bound on the current size — racy against concurrent
// producers, so the true in-flight size may momentarily exceed capacity
// by up to O(producers). See the design notes §9 for why this trade-off
// is accepted rather than paid for with a combined CAS token.
type BoundedMPSC[T any] struct {
	_        pad
	ingress  atomix.Int64
	_        pad
	egress   atomix.Int64
	_        pad
	capacity int64
	q        *MPSC[T]
}

// NewBoundedMPSC wraps a fresh unbounded MPSC with the given capacity.
func NewBoundedMPSC[T any](capacity int) *BoundedMPSC[T] {
	if capacity <= 0 {
		panic("queue: capacity must be > 0")
	}
	return &BoundedMPSC[T]{capacity: int64(capacity), q: NewMPSC[T]()}
}

// Offer delegates to the underlying MPSC if the conservative size bound
// has not reached capacity, incrementing ingress on success. Returns
// ErrCapacityExceeded if the bound is already at capacity.
func (b *BoundedMPSC[T]) Offer(elem *T) error {
	if b.ingress.LoadAcquire()-b.egress.LoadAcquire() >= b.capacity {
		return ErrCapacityExceeded
	}
	if err := b.q.Offer(elem); err != nil {
		return err
	}
	b.ingress.AddAcqRel(1)
	return nil
}

// Poll delegates to the underlying MPSC, incrementing egress on success.
func (b *BoundedMPSC[T]) Poll() (T, error) {
	elem, err := b.q.Poll()
	if err != nil {
		return elem, err
	}
	b.egress.AddAcqRel(1)
	return elem, nil
}

// Peek delegates to the underlying MPSC without affecting the counters.
func (b *BoundedMPSC[T]) Peek() (T, error) { return b.q.Peek() }

// Size returns max(0, ingress-egress), the conservative size bound.
func (b *BoundedMPSC[T]) Size() int {
	return boundedSize(b.ingress.LoadAcquire(), b.egress.LoadAcquire())
}

// Cap returns the configured capacity.
func (b *BoundedMPSC[T]) Cap() int { return int(b.capacity) }

// RemainingCapacity returns Cap() minus the current size bound, floored
// at zero.
func (b *BoundedMPSC[T]) RemainingCapacity() int {
	r := b.Cap() - b.Size()
	if r < 0 {
		return 0
	}
	return r
}

// Clear discards all queued elements and resets both counters.
func (b *BoundedMPSC[T]) Clear() {
	b.q.Clear()
	b.ingress.StoreRelease(0)
	b.egress.StoreRelease(0)
}

// BoundedMPMC wraps an MPMC with the same ingress/egress capacity
// accounting as BoundedMPSC.
type BoundedMPMC[T any] struct {
	_        pad
	ingress  atomix.Int64
	_        pad
	egress   atomix.Int64
	_        pad
	capacity int64
	q        *MPMC[T]
}

// NewBoundedMPMC wraps a fresh unbounded MPMC with the given capacity.
func NewBoundedMPMC[T any](capacity int) *BoundedMPMC[T] {
	if capacity <= 0 {
		panic("queue: capacity must be > 0")
	}
	return &BoundedMPMC[T]{capacity: int64(capacity), q: NewMPMC[T]()}
}

// Offer delegates to the underlying MPMC if the conservative size bound
// has not reached capacity, incrementing ingress on success.
func (b *BoundedMPMC[T]) Offer(elem *T) error {
	if b.ingress.LoadAcquire()-b.egress.LoadAcquire() >= b.capacity {
		return ErrCapacityExceeded
	}
	if err := b.q.Offer(elem); err != nil {
		return err
	}
	b.ingress.AddAcqRel(1)
	return nil
}

// Poll delegates to the underlying MPMC, incrementing egress on success.
func (b *BoundedMPMC[T]) Poll() (T, error) {
	elem, err := b.q.Poll()
	if err != nil {
		return elem, err
	}
	b.egress.AddAcqRel(1)
	return elem, nil
}

// Peek delegates to the underlying MPMC without affecting the counters.
func (b *BoundedMPMC[T]) Peek() (T, error) { return b.q.Peek() }

// Size returns max(0, ingress-egress), the conservative size bound.
func (b *BoundedMPMC[T]) Size() int {
	return boundedSize(b.ingress.LoadAcquire(), b.egress.LoadAcquire())
}

// Cap returns the configured capacity.
func (b *BoundedMPMC[T]) Cap() int { return int(b.capacity) }

// RemainingCapacity returns Cap() minus the current size bound, floored
// at zero.
func (b *BoundedMPMC[T]) RemainingCapacity() int {
	r := b.Cap() - b.Size()
	if r < 0 {
		return 0
	}
	return r
}

// Clear discards all queued elements and resets both counters.
func (b *BoundedMPMC[T]) Clear() {
	b.q.Clear()
	b.ingress.StoreRelease(0)
	b.egress.StoreRelease(0)
}

func boundedSize(ingress, egress int64) int {
	n := ingress - egress
	if n < 0 {
		return 0
	}
	return int(n)
}
