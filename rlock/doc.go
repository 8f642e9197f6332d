// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rlock implements a reentrant mutual-exclusion lock and a
// monitor-condition bridge over it.
//
// # Quick Start
//
//	l := rlock.New()
//	tok := rlock.NewToken()
//	if err := l.Lock(ctx, tok); err != nil {
//		return err
//	}
//	defer l.Unlock(tok)
//
// # Ownership
//
// Tokens, not goroutines, identify an owner: see Token's doc comment.
// Every Lock/TryLock/Unlock/Await call along a logical chain of
// reentrant acquisitions must pass the same *Token.
//
// # Condition
//
// Condition bridges a Lock to a wait/notify protocol modeled on a
// monitor condition variable: Await releases the lock and parks, Signal
// and SignalAll wake parked waiters. Reentrancy depth is saved across
// Await and restored once the lock is reacquired.
package rlock
