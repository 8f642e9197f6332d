// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/concur/rlock"
)

func TestConditionAwaitSignal(t *testing.T) {
	l := rlock.New()
	cond := rlock.NewCondition(l)
	tok := rlock.NewToken()

	if err := l.Lock(context.Background(), tok); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	woke := make(chan error, 1)
	go func() {
		if err := l.Lock(context.Background(), tok); err != nil {
			woke <- err
			return
		}
		defer func() { _ = l.Unlock(tok) }()
		woke <- cond.Await(context.Background(), tok)
	}()

	time.Sleep(20 * time.Millisecond)
	cond.Signal()

	select {
	case err := <-woke:
		if err != nil {
			t.Fatalf("Await: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Await never woke up after Signal")
	}
	_ = l.Unlock(tok)
}

func TestConditionAwaitRestoresReentrancyCount(t *testing.T) {
	l := rlock.New()
	cond := rlock.NewCondition(l)
	tok := rlock.NewToken()

	_ = l.TryLock(tok)
	_ = l.TryLock(tok) // reentrant, count now 2

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cond.Await(context.Background(), tok); err != nil {
			t.Errorf("Await: %v", err)
		}
		// If reentrancy count wasn't restored to 2, a single Unlock here
		// would fully release the lock instead of dropping to 1.
		other := rlock.NewToken()
		_ = l.Unlock(tok)
		if l.TryLock(other) {
			t.Error("lock released after only one Unlock post-Await; reentrancy count not restored")
			_ = l.Unlock(other)
		}
		_ = l.Unlock(tok)
	}()

	time.Sleep(20 * time.Millisecond)
	cond.Signal()
	<-done
}

func TestConditionAwaitByNonOwnerReturnsErrNotOwner(t *testing.T) {
	l := rlock.New()
	cond := rlock.NewCondition(l)
	tok := rlock.NewToken()

	if err := cond.Await(context.Background(), tok); !errors.Is(err, rlock.ErrNotOwner) {
		t.Fatalf("Await by a token that never locked: got %v, want ErrNotOwner", err)
	}
}

func TestConditionSignalAll(t *testing.T) {
	l := rlock.New()
	cond := rlock.NewCondition(l)

	const waiters = 5
	done := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			tok := rlock.NewToken()
			if err := l.Lock(context.Background(), tok); err != nil {
				return
			}
			defer func() { _ = l.Unlock(tok) }()
			_ = cond.Await(context.Background(), tok)
			done <- struct{}{}
		}()
	}

	time.Sleep(30 * time.Millisecond)
	cond.SignalAll()

	for i := 0; i < waiters; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("only %d/%d waiters woke up after SignalAll", i, waiters)
		}
	}
}
