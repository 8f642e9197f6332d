// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock

import (
	"context"

	"code.hybscloud.com/concur/queue"
)

// Condition is a monitor-condition bridge over a Lock: Await fully
// releases the lock (across every level of reentrancy), parks until
// signaled, then reacquires it and restores the reentrancy count that
// was in effect before the release — the same save/restore-on-await
// contract as a monitor condition variable bound to an intrinsic lock.
//
// A Condition's waiter chain is independent of its Lock's: a goroutine
// parked in Await is not competing for the lock, it is waiting for a
// Signal, so it needs its own queue rather than reusing the Lock's.
type Condition struct {
	lock    *Lock
	waiters *queue.MPMC[chan struct{}]
}

// NewCondition binds a new Condition to l. l must already exist; several
// Conditions may be bound to the same Lock.
func NewCondition(l *Lock) *Condition {
	return &Condition{lock: l, waiters: queue.NewMPMC[chan struct{}]()}
}

// Await releases l, waits for a Signal/SignalAll or ctx to be done, then
// reacquires l before returning — even when ctx is done or canceled,
// mirroring the monitor contract that a waiter never returns without
// holding the lock again. tok must currently own l.
func (c *Condition) Await(ctx context.Context, tok *Token) error {
	if !c.lock.isHeldBy(tok) {
		return ErrNotOwner
	}
	saved := c.lock.lockCount

	ch := make(chan struct{}, 1)
	_ = c.waiters.Offer(&ch)

	c.lock.lockCount = 0
	c.lock.owner.StoreRelease(nil)
	c.lock.releaseChain()

	var waitErr error
	select {
	case <-ch:
	case <-ctx.Done():
		waitErr = ctx.Err()
	}

	// Reacquire unconditionally: a canceled ctx must not leave the
	// caller believing it still holds a lock it no longer does.
	if err := c.lock.Lock(context.Background(), tok); err != nil {
		return err
	}
	c.lock.lockCount = saved
	return waitErr
}

// Signal wakes the oldest currently waiting goroutine, if any. No-op if
// no goroutine is currently parked in Await.
func (c *Condition) Signal() {
	ch, err := c.waiters.Poll()
	if err != nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// SignalAll wakes every goroutine currently parked in Await.
func (c *Condition) SignalAll() {
	for {
		ch, err := c.waiters.Poll()
		if err != nil {
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
