// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backoff implements the "bounded spin, then yield" back-off used
// by the blocking queue facade and the hybrid reentrant lock's fast path.
//
// It composes two stages on top of [code.hybscloud.com/spin]'s CPU-pause
// primitive: a bounded run of spin.Wait, then cooperative scheduler
// yields once the spin budget is exhausted. Parking (the third and final
// stage for operations that may actually block) is the caller's
// responsibility, since what a caller parks on differs per use site (a
// single-slot channel for an SC consumer, a waiter chain for the lock).
package backoff

import (
	"runtime"

	"code.hybscloud.com/spin"
)

// Spins is the default number of bounded-spin iterations attempted before
// falling back to a scheduler yield.
const Spins = 5

// Backoff tracks spin/yield progress across repeated retries of one
// logical operation. The zero value starts in the spin stage.
type Backoff struct {
	attempts int
	sw       spin.Wait
}

// Once advances the back-off by one step: a CPU-pause while within the
// spin budget, a runtime.Gosched once it is exhausted.
func (b *Backoff) Once() {
	if b.attempts < Spins {
		b.sw.Once()
		b.attempts++
		return
	}
	runtime.Gosched()
}

// Spinning reports whether the next Once call will still be in the
// bounded-spin stage rather than the yield stage. Callers that park as
// soon as the spin budget is exhausted, skipping the yield stage, can
// poll this.
func (b *Backoff) Spinning() bool {
	return b.attempts < Spins
}

// Reset returns the back-off to its initial spin stage.
func (b *Backoff) Reset() {
	b.attempts = 0
	b.sw = spin.Wait{}
}
