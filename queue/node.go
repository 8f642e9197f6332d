// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "code.hybscloud.com/atomix"

// node is the carrier linked through every queue in this package. Writes
// to element and next use release semantics; reads use acquire semantics,
// so that a consumer observing a non-nil next also observes the fully
// constructed node behind it.
//
// A node's element may become nil after removal — nil is the sentinel for
// "empty"/"removed", never a valid enqueued value. The initial sentinel
// node of every queue is constructed with a nil element and is never
// itself returned to a caller.
type node[T any] struct {
	element atomix.Pointer[T]
	next    atomix.Pointer[node[T]]
}

// newNode allocates a node carrying elem. elem must not be nil; callers
// enforce the NullElement check before calling this.
func newNode[T any](elem *T) *node[T] {
	n := &node[T]{}
	n.element.StoreRelease(elem)
	return n
}

// newSentinel allocates an empty node with a nil element, used as the
// initial tail of a fresh queue and after Clear.
func newSentinel[T any]() *node[T] {
	return &node[T]{}
}

// swapNode performs an atomic exchange of slot, returning its previous
// value. atomix does not expose a dedicated exchange primitive for
// generic pointers, so this falls back to a CAS loop — the same
// trade-off the design notes call out explicitly ("atomic exchange on
// references... if unavailable, a CAS loop suffices at a small
// throughput cost").
func swapNode[T any](slot *atomix.Pointer[node[T]], next *node[T]) *node[T] {
	for {
		prev := slot.LoadAcquire()
		if slot.CompareAndSwapAcqRel(prev, next) {
			return prev
		}
	}
}
