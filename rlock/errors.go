// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock

import "errors"

// ErrNotOwner is returned by Unlock and Await when called with a Token
// that does not currently own the lock.
var ErrNotOwner = errors.New("rlock: caller does not own the lock")
