// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/concur/queue"
)

func TestBoundedMPSCCapacity(t *testing.T) {
	q := queue.NewBoundedMPSC[int](2)
	a, b, c := 1, 2, 3
	if err := q.Offer(&a); err != nil {
		t.Fatalf("Offer 1: %v", err)
	}
	if err := q.Offer(&b); err != nil {
		t.Fatalf("Offer 2: %v", err)
	}
	if err := q.Offer(&c); !errors.Is(err, queue.ErrCapacityExceeded) {
		t.Fatalf("Offer 3: got %v, want ErrCapacityExceeded", err)
	}
	if got := q.RemainingCapacity(); got != 0 {
		t.Fatalf("RemainingCapacity: got %d, want 0", got)
	}
	if _, err := q.Poll(); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := q.RemainingCapacity(); got != 1 {
		t.Fatalf("RemainingCapacity after drain: got %d, want 1", got)
	}
}

// TestBoundedMPMCSizeNeverExceedsSlack checks invariant 4: size() never
// reports more than capacity + producers - 1 under concurrent producers
// racing the conservative ingress/egress bound.
func TestBoundedMPMCSizeNeverExceedsSlack(t *testing.T) {
	if queue.RaceEnabled {
		t.Skip("skip: relies on cross-variable happens-before the race detector cannot see")
	}

	const capacity = 64
	const producers = 8
	q := queue.NewBoundedMPMC[int](capacity)

	var wg sync.WaitGroup
	var maxSeen int
	var mu sync.Mutex
	stop := make(chan struct{})
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			v := p
			for {
				select {
				case <-stop:
					return
				default:
				}
				if q.Offer(&v) == nil {
					mu.Lock()
					if got := q.Size(); got > maxSeen {
						maxSeen = got
					}
					mu.Unlock()
				}
			}
		}(p)
	}

	for i := 0; i < 5000; i++ {
		_, _ = q.Poll()
	}
	close(stop)
	wg.Wait()

	if maxSeen > capacity+producers-1 {
		t.Fatalf("size slack violated: observed %d, bound is %d", maxSeen, capacity+producers-1)
	}
}
