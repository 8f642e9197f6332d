// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/concur/queue"
)

func TestMPMCRoundTrip(t *testing.T) {
	q := queue.NewMPMC[string]()
	s := "hello"
	if err := q.Offer(&s); err != nil {
		t.Fatalf("Offer: %v", err)
	}
	got, err := q.Poll()
	if err != nil || got != "hello" {
		t.Fatalf("Poll: got (%v, %v), want (hello, nil)", got, err)
	}
	if _, err := q.Poll(); !errors.Is(err, queue.ErrWouldBlock) {
		t.Fatalf("Poll on drained queue: got %v, want ErrWouldBlock", err)
	}
}

func TestMPMCRemoveAndForEach(t *testing.T) {
	q := queue.NewMPMC[int]()
	for i := 0; i < 5; i++ {
		v := i
		_ = q.Offer(&v)
	}
	eq := func(a, b int) bool { return a == b }
	if !q.Remove(2, eq) {
		t.Fatalf("Remove(2): want true")
	}
	if q.Remove(99, eq) {
		t.Fatalf("Remove(99): want false, not present")
	}

	var seen []int
	q.ForEach(func(v int) { seen = append(seen, v) })
	want := []int{0, 1, 3, 4}
	if len(seen) != len(want) {
		t.Fatalf("ForEach: got %v, want %v", seen, want)
	}
	for i, v := range want {
		if seen[i] != v {
			t.Fatalf("ForEach: got %v, want %v", seen, want)
		}
	}
}

// TestMPMCAtMostOnce checks invariant 2: each successful Offer is consumed
// by exactly one successful Poll, with concurrent producers and consumers.
func TestMPMCAtMostOnce(t *testing.T) {
	if queue.RaceEnabled {
		t.Skip("skip: relies on cross-variable happens-before the race detector cannot see")
	}

	const producers = 4
	const perProducer = 25000
	const consumers = 4
	total := producers * perProducer

	q := queue.NewMPMC[int]()
	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(p int) {
			defer pwg.Done()
			for seq := 0; seq < perProducer; seq++ {
				v := p*perProducer + seq
				_ = q.Offer(&v)
			}
		}(p)
	}

	seen := make([]bool, total)
	var mu sync.Mutex
	var dups int

	var cwg sync.WaitGroup
	var drained atomix.Int64
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for drained.LoadAcquire() < int64(total) {
				v, err := q.Poll()
				if err != nil {
					continue
				}
				mu.Lock()
				if seen[v] {
					dups++
				}
				seen[v] = true
				mu.Unlock()
				drained.AddAcqRel(1)
			}
		}()
	}

	pwg.Wait()
	cwg.Wait()

	if dups != 0 {
		t.Fatalf("at-most-once violated: %d duplicate deliveries", dups)
	}
	for v, ok := range seen {
		if !ok {
			t.Fatalf("value %d was produced but never consumed", v)
		}
	}
}
