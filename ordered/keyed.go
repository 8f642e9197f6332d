// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ordered serializes otherwise out-of-order task execution per
// key on top of an arbitrary executor, without dedicating a goroutine to
// a key. The executor call that starts a key's chain keeps its worker for
// the whole chain: it runs every task submitted to that key until none
// is left.
package ordered

import (
	"code.hybscloud.com/spin"
	"github.com/hashicorp/go-multierror"
	"github.com/puzpuzpuz/xsync/v3"
)

// Executor runs a task, however it sees fit — inline, on a worker pool,
// on a single dedicated goroutine. Any callable sink conforms; no
// adapter is required.
type Executor func(func())

// Keyed serializes task execution per key: for a fixed key, wrapped
// tasks run one at a time in submission order; across keys, there is no
// ordering guarantee, and the executor is free to run different keys'
// chains concurrently.
type Keyed[K comparable] struct {
	tasks   *xsync.MapOf[K, *wrapper[K]]
	exec    Executor
	onError func(key K, err error)
}

// NewKeyed creates a Keyed that hands chain-owning runs to exec. onError,
// if non-nil, is called with the combined error of every task a single
// chain-owning run executed, once that run exits — the propagation
// boundary called for by never silently discarding a wrapped task's
// error. The combined error's chain is built with
// github.com/hashicorp/go-multierror: the first error is its primary
// (reachable via errors.Unwrap), later ones are attached alongside it —
// this package's rendition of "first kept, rest suppressed", since Go has
// no notion of one error suppressing another the way a thrown exception
// does.
func NewKeyed[K comparable](exec Executor, onError func(key K, err error)) *Keyed[K] {
	return &Keyed[K]{tasks: xsync.NewMapOf[K, *wrapper[K]](), exec: exec, onError: onError}
}

// Submit wraps task, links it onto key's chain, and hands it to the
// executor. Submit does not call task itself; whether it blocks, or runs
// task inline, depends on the executor.
func (k *Keyed[K]) Submit(key K, task func() error) {
	w := newWrapper[K](task)

	var prev *wrapper[K]
	k.tasks.Compute(key, func(old *wrapper[K], loaded bool) (*wrapper[K], bool) {
		if loaded {
			prev = old
		}
		return w, false
	})

	if prev == nil {
		w.state.StoreRelease(stateFirst)
	} else {
		w.state.StoreRelease(stateChained)
		prev.next.StoreRelease(w)
	}

	k.exec(func() { k.run(key, w) })
}

// run is what Submit hands to the executor. It claims w and returns at
// once unless claim observed stateFirst, that is, unless w had no
// predecessor when it was submitted. The run that owns a chain executes
// every later wrapper of the key itself, one after another, until the
// chain is empty; a successor is never handed back to its own scheduled
// run, which therefore never executes a chained wrapper's task.
func (k *Keyed[K]) run(key K, w *wrapper[K]) {
	if w.claim() != stateFirst {
		return
	}

	var errs *multierror.Error
	cur := w
	for {
		if err := cur.task(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if k.removeIfLast(key, cur) {
			break
		}
		next := waitForNext(cur)
		next.claim()
		cur = next
	}

	if err := errs.ErrorOrNil(); err != nil && k.onError != nil {
		k.onError(key, err)
	}
}

// removeIfLast atomically removes cur from the map if it is still the
// most recently submitted wrapper for key (compare-and-remove by
// identity). Returns whether it removed it.
func (k *Keyed[K]) removeIfLast(key K, cur *wrapper[K]) bool {
	removed := false
	k.tasks.Compute(key, func(old *wrapper[K], loaded bool) (*wrapper[K], bool) {
		if loaded && old == cur {
			removed = true
			return nil, true
		}
		return old, false
	})
	return removed
}

// waitForNext spins until cur.next becomes visible — a short window
// between a successor's Submit publishing itself into the map and
// publishing the predecessor's next link. Spins only; per the ordering
// contract a chain-owning run never parks.
func waitForNext[K comparable](cur *wrapper[K]) *wrapper[K] {
	var sw spin.Wait
	for {
		if next := cur.next.LoadAcquire(); next != nil {
			return next
		}
		sw.Once()
	}
}
