// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leftright_test

import (
	"testing"

	"code.hybscloud.com/concur/leftright"
)

func testReaderCounter(t *testing.T, counter leftright.ReaderCounter) {
	t.Helper()
	if !counter.IsEmpty(0) || !counter.IsEmpty(1) {
		t.Fatal("fresh counter: want both slots empty")
	}

	counter.Arrive(0)
	if counter.IsEmpty(0) {
		t.Fatal("slot 0 after Arrive: want non-empty")
	}
	if !counter.IsEmpty(1) {
		t.Fatal("slot 1: want unaffected by slot 0's Arrive")
	}

	counter.Arrive(0)
	counter.Depart(0)
	if counter.IsEmpty(0) {
		t.Fatal("slot 0 after one Depart of two Arrives: want still non-empty")
	}

	counter.Depart(0)
	if !counter.IsEmpty(0) {
		t.Fatal("slot 0 after matching Departs: want empty")
	}
}

func TestPairCounter(t *testing.T) {
	testReaderCounter(t, leftright.NewPairCounter())
}

func TestStripedCounter(t *testing.T) {
	testReaderCounter(t, leftright.NewStripedCounter())
}
