// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed immediately.
//
// For Poll/Peek: the queue is empty (no data available).
// Offer never returns it: an unbounded Offer fails only on a nil element,
// and a full bounded queue reports ErrCapacityExceeded instead.
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (with backoff or yield) rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    item, err := q.Poll()
//	    if err == nil {
//	        backoff.Reset()
//	        process(item)
//	        break
//	    }
//	    if queue.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNullElement is returned by Offer when the caller passes a nil element
// pointer. Null elements are forbidden at construction time; nil is reserved
// as the sentinel meaning "removed" internally.
var ErrNullElement = errors.New("queue: element must not be nil")

// ErrCapacityExceeded is returned by a bounded wrapper's Offer when the
// queue's conservative size bound has reached capacity. It is a control
// flow signal, not a failure — see §7 of the design notes.
var ErrCapacityExceeded = errors.New("queue: capacity exceeded")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Treats ErrCapacityExceeded the same as iox's own semantic errors, since a
// full bounded queue is an expected steady-state condition, not a fault.
func IsSemantic(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) || iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, ErrCapacityExceeded, or any other
// iox non-failure signal.
func IsNonFailure(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) || iox.IsNonFailure(err)
}
