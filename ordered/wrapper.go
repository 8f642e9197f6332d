// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ordered

import "code.hybscloud.com/atomix"

// wrapper state values. A wrapper starts FIRST if it has no predecessor
// at submission time, otherwise CHAINED. Both the wrapper's own scheduled
// run and a predecessor's chain walk exchange it to TRIGGERED. A FIRST
// wrapper is executed by its own run; a CHAINED wrapper is always
// executed by the predecessor's chain walk, whichever of the two claims
// it first. State never moves beyond TRIGGERED.
const (
	stateFirst int64 = iota
	stateChained
	stateTriggered
)

// wrapper carries one submitted task through the per-key chain.
type wrapper[K comparable] struct {
	_     pad
	state atomix.Int64
	_     pad
	next  atomix.Pointer[wrapper[K]]
	task  func() error
}

func newWrapper[K comparable](task func() error) *wrapper[K] {
	return &wrapper[K]{task: task}
}

// claim exchanges state to TRIGGERED and reports the prior value. Only
// the own scheduled run of a wrapper that started FIRST observes
// stateFirst and starts a chain; the chain walk in Keyed.run calls claim
// on each successor and executes it whatever claim reports.
func (w *wrapper[K]) claim() int64 {
	for {
		prior := w.state.LoadAcquire()
		if w.state.CompareAndSwapAcqRel(prior, stateTriggered) {
			return prior
		}
	}
}
