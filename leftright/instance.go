// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package leftright implements the left-right concurrency pattern: a
// double-buffered mutable state with wait-free reads and a single
// serialized writer, at the cost of applying every mutation twice.
package leftright

import (
	"context"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/concur/internal/backoff"
	"code.hybscloud.com/concur/rlock"
)

// Instance holds two copies of an S and arbitrates access to them so
// that readers never block and a writer never mutates a copy a reader
// might still be looking at.
//
// A write is a function applied to S in place; because left-right keeps
// two independent copies in sync by replaying the same mutation against
// each, Write's mutate func is called twice per call, once per copy, and
// must be deterministic and side-effect-free beyond mutating its
// argument.
type Instance[S any] struct {
	_         pad
	readIndex atomix.Int64 // 0 or 1: which slot readers currently use
	_         pad
	state     [2]atomix.Pointer[S]
	counter   ReaderCounter
	writeLock *rlock.Lock
	writeTok  *rlock.Token
}

// NewInstance creates an Instance with both slots initialized by calling
// factory, tracking readers with counter (NewPairCounter or
// NewStripedCounter).
//
// factory is called twice, once per slot, rather than constructing one S
// and copying it: a Go value copy of an S containing a map, slice, or
// pointer field aliases the same underlying data instead of producing an
// independent second copy, which would defeat the entire point of
// keeping two copies — a writer mutating "its" slot in place (e.g.
// inserting into a shared map) would be mutating the slot a reader is
// concurrently ranging over. factory must return a fresh, independent
// value every call.
func NewInstance[S any](factory func() S, counter ReaderCounter) *Instance[S] {
	inst := &Instance[S]{
		counter:   counter,
		writeLock: rlock.New(),
		writeTok:  rlock.NewToken(),
	}
	left, right := factory(), factory()
	inst.state[0].StoreRelease(&left)
	inst.state[1].StoreRelease(&right)
	return inst
}

// Read calls fn with the current, consistent copy of S. Wait-free: it
// never contends with a writer or with another reader beyond a single
// atomic increment and decrement.
func (inst *Instance[S]) Read(fn func(S)) {
	slot := int(inst.readIndex.LoadAcquire())
	inst.counter.Arrive(slot)
	defer inst.counter.Depart(slot)
	fn(*inst.state[slot].LoadAcquire())
}

// Write serializes with any other Write via an internal rlock.Lock, then
// runs the left-right write protocol: mutate the slot no reader is
// currently directed to, swap readers onto it, wait for readers still on
// the old slot to drain, then replay the same mutation against the old
// slot so both copies converge again. Returns ctx's error if ctx is done
// before the drain completes; the mutation has already been committed to
// one slot in that case; no reader ever observes a torn mutation.
func (inst *Instance[S]) Write(ctx context.Context, mutate func(*S)) error {
	if err := inst.writeLock.Lock(ctx, inst.writeTok); err != nil {
		return err
	}
	defer inst.writeLock.Unlock(inst.writeTok)

	readersSlot := int(inst.readIndex.LoadAcquire())
	writerSlot := 1 - readersSlot

	mutate(inst.state[writerSlot].LoadAcquire())
	inst.readIndex.StoreRelease(int64(writerSlot))

	if err := inst.waitForDrain(ctx, readersSlot); err != nil {
		return err
	}

	mutate(inst.state[readersSlot].LoadAcquire())
	return nil
}

// waitForDrain bounded-spins, then yields, until no reader remains on
// slot, or ctx is done.
func (inst *Instance[S]) waitForDrain(ctx context.Context, slot int) error {
	var bo backoff.Backoff
	for !inst.counter.IsEmpty(slot) {
		if err := ctx.Err(); err != nil {
			return err
		}
		bo.Once()
	}
	return nil
}
