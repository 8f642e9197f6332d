// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock

import "code.hybscloud.com/atomix"

// wakeSignal is the payload a waiter publishes into its own thread
// field: a single-slot channel a releaser sends to once it has claimed
// exclusive right to wake this waiter.
type wakeSignal struct {
	ch chan struct{}
}

// waiter is one node of the parked-waiter chain. thread is non-nil while
// the waiter is parked and unclaimed; clearing it (CAS to nil) is how
// either a releaser (to wake it) or the waiter itself (giving up on
// ctx cancellation) claims the exclusive right to act on this waiter —
// whichever side wins the CAS proceeds, the other backs off.
type waiter struct {
	_      pad
	thread atomix.Pointer[wakeSignal]
	_      pad
	next   atomix.Pointer[waiter]
	tok    *Token
}

// invalidated is a sentinel next-pointer value meaning "the chain was
// closed here because no live waiter remained downstream of it, so start
// a fresh chain instead of linking after this node." It is never a real
// waiter; only its address is ever compared against.
var invalidated = &waiter{}
