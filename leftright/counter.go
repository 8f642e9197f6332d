// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package leftright

import (
	"code.hybscloud.com/atomix"
	"github.com/puzpuzpuz/xsync/v3"
)

// ReaderCounter tracks in-flight readers on each of an Instance's two
// state slots, so a writer can tell when it is safe to mutate a slot no
// reader is currently using. Arrive and Depart must never block: every
// Instance read calls them on every access.
type ReaderCounter interface {
	Arrive(slot int)
	Depart(slot int)
	IsEmpty(slot int) bool
}

// pairCounter is the default ReaderCounter: one padded atomic accumulator
// per slot. Cheap and exact, but every reader contends the same cache
// line regardless of which CPU it runs on.
type pairCounter struct {
	_ pad
	n [2]atomix.Int64
	_ pad
}

// NewPairCounter creates a ReaderCounter backed by two atomic counters,
// one per slot.
func NewPairCounter() ReaderCounter { return &pairCounter{} }

func (c *pairCounter) Arrive(slot int)      { c.n[slot].AddAcqRel(1) }
func (c *pairCounter) Depart(slot int)      { c.n[slot].AddAcqRel(-1) }
func (c *pairCounter) IsEmpty(slot int) bool { return c.n[slot].LoadAcquire() == 0 }

// stripedCounter is a ReaderCounter for read-heavy workloads with many
// concurrent readers: each slot is backed by its own xsync.Counter, which
// shards its accumulator across CPUs internally, trading memory for
// eliminating the cache-line contention pairCounter pays under heavy
// read concurrency.
type stripedCounter struct {
	n [2]*xsync.Counter
}

// NewStripedCounter creates a ReaderCounter backed by two sharded
// counters, one per slot. Prefer this over NewPairCounter when many
// goroutines read concurrently from many CPUs.
func NewStripedCounter() ReaderCounter {
	return &stripedCounter{n: [2]*xsync.Counter{xsync.NewCounter(), xsync.NewCounter()}}
}

func (c *stripedCounter) Arrive(slot int)       { c.n[slot].Add(1) }
func (c *stripedCounter) Depart(slot int)       { c.n[slot].Add(-1) }
func (c *stripedCounter) IsEmpty(slot int) bool { return c.n[slot].Value() == 0 }
