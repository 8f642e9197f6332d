// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rlock provides a hybrid reentrant mutual-exclusion lock: an
// uncontended acquisition is a single CAS on an atomic owner field, and a
// contended one parks the caller on a chain of waiters instead of
// spinning indefinitely.
package rlock

import (
	"context"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/concur/internal/backoff"
)

// Lock is a reentrant mutual-exclusion lock identified by caller-supplied
// Tokens rather than goroutine identity; see Token's doc comment for why.
//
// The fast path is a single CompareAndSwapAcqRel on owner. A losing
// caller links a waiter onto the tail of a chain rooted at head, retries
// the fast path once more to close the missed-wakeup race, then parks.
// Release walks the chain from head, skipping already-claimed waiters,
// and unparks the first live one it finds; if none remain it closes the
// chain with an invalidated marker so the next contending Lock call
// starts a fresh one. Fairness is approximately FIFO among waiters that
// actually reached the parked state; an uncontended caller hitting the
// fast path may still barge ahead of them — the trade-off the design
// notes call out in exchange for not paying queueing overhead on the
// common, uncontended path.
type Lock struct {
	_         pad
	owner     atomix.Pointer[Token]
	_         pad
	lockCount int64 // touched only by the current owner
	_         pad
	head      atomix.Pointer[waiter] // front: releaser's traversal root, nil when no one is waiting
	tail      atomix.Pointer[waiter] // back: racy, eventually-consistent append hint
}

// New creates an unlocked Lock.
func New() *Lock { return &Lock{} }

// TryLock attempts to acquire the lock without blocking, returning
// whether it succeeded. Reentrant: if tok already owns the lock, it
// succeeds and increments the reentrancy count.
func (l *Lock) TryLock(tok *Token) bool { return l.tryAcquire(tok) }

// Lock blocks until tok acquires the lock, or ctx is done.
func (l *Lock) Lock(ctx context.Context, tok *Token) error {
	if l.tryAcquire(tok) {
		return nil
	}

	var bo backoff.Backoff
	for {
		if bo.Spinning() {
			bo.Once()
			if l.tryAcquire(tok) {
				return nil
			}
			continue
		}

		w := &waiter{tok: tok}
		ch := make(chan struct{}, 1)
		w.thread.StoreRelease(&wakeSignal{ch: ch})
		l.push(w)

		if l.tryAcquire(tok) {
			// Missed-wakeup close: acquired via the fast path despite
			// being registered. Claim our own slot so a releaser never
			// tries to wake a goroutine that already moved on.
			w.thread.CompareAndSwapAcqRel(w.thread.LoadAcquire(), nil)
			return nil
		}

		if err := l.waitOn(ctx, w, ch); err != nil {
			return err
		}
		if l.tryAcquire(tok) {
			return nil
		}
		// Woken but lost a barging race to an uncontended acquirer:
		// loop back into bounded spin and re-registration.
	}
}

// waitOn parks until ch fires or ctx is done, honoring step 4 of the
// acquisition state machine: on ctx cancellation, try to atomically
// clear the waiter's own thread field; if that succeeds, the caller
// truly unregistered before any releaser noticed it. If it fails, a
// releaser has already claimed and is waking this waiter, so waitOn
// finishes draining that wake-up before returning — ownership must not
// be left dangling on a goroutine that is about to give up.
func (l *Lock) waitOn(ctx context.Context, w *waiter, ch chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		if cur := w.thread.LoadAcquire(); cur != nil && w.thread.CompareAndSwapAcqRel(cur, nil) {
			return ctx.Err()
		}
		<-ch
		return nil
	}
}

// Unlock releases one level of tok's reentrant hold, returning
// ErrNotOwner if tok does not currently own the lock instead of acting on
// it.
func (l *Lock) Unlock(tok *Token) error {
	if l.owner.LoadAcquire() != tok {
		return ErrNotOwner
	}
	if l.lockCount > 1 {
		l.lockCount--
		return nil
	}
	l.lockCount = 0
	l.owner.StoreRelease(nil)
	l.releaseChain()
	return nil
}

// tryAcquire is the shared fast path for TryLock and Lock's retries.
func (l *Lock) tryAcquire(tok *Token) bool {
	cur := l.owner.LoadAcquire()
	if cur == tok {
		l.lockCount++
		return true
	}
	if cur != nil {
		return false
	}
	if l.owner.CompareAndSwapAcqRel(nil, tok) {
		l.lockCount = 1
		return true
	}
	return false
}

// push links w onto the tail of the waiter chain, Michael-Scott style:
// walk forward from the cached (possibly stale) tail until a genuinely
// nil next is found, then CAS w into it. A nil cached tail, or a tail
// whose next is the invalidated marker, means the chain is currently
// empty or was just closed, so w becomes its first node instead.
func (l *Lock) push(w *waiter) {
	for {
		tail := l.tail.LoadRelaxed()
		if tail == nil {
			if l.head.CompareAndSwapAcqRel(nil, w) {
				l.tail.StoreRelaxed(w)
				return
			}
			continue
		}
		next := tail.next.LoadAcquire()
		switch next {
		case nil:
			if tail.next.CompareAndSwapAcqRel(nil, w) {
				l.tail.StoreRelaxed(w)
				return
			}
		case invalidated:
			l.tail.StoreRelaxed(nil)
		default:
			l.tail.StoreRelaxed(next)
		}
	}
}

// releaseChain walks the waiter chain from head, skipping waiters
// already claimed (thread == nil), and unparks the first live one it
// finds, leaving head at that waiter; its thread is now nil, so the next
// release skips past it. If it walks off the end without
// finding one, it closes the chain with the invalidated marker so the
// next contending Lock call starts a fresh chain rather than linking
// onto a node no one will ever look at again.
func (l *Lock) releaseChain() {
	for {
		cur := l.head.LoadAcquire()
		if cur == nil {
			return
		}

		if signal := cur.thread.LoadAcquire(); signal != nil {
			if !cur.thread.CompareAndSwapAcqRel(signal, nil) {
				continue // the waiter itself just claimed and is giving up
			}
			select {
			case signal.ch <- struct{}{}:
			default:
			}
			return
		}

		next := cur.next.LoadAcquire()
		if next == nil {
			if cur.next.CompareAndSwapAcqRel(nil, invalidated) {
				if l.head.CompareAndSwapAcqRel(cur, nil) {
					l.tail.CompareAndSwapAcqRel(cur, nil)
				}
				return
			}
			continue // a push raced in; re-read next on the next loop
		}
		if next == invalidated {
			return
		}
		l.head.CompareAndSwapAcqRel(cur, next)
	}
}

// isHeldBy reports whether tok currently owns the lock. Used by
// Condition to validate the monitor-state precondition on Await.
func (l *Lock) isHeldBy(tok *Token) bool { return l.owner.LoadAcquire() == tok }
