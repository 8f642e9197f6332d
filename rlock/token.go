// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock

// Token is an opaque ownership identity.
//
// The source this package is modeled on identifies a lock's owner by the
// calling thread, so a reentrant acquisition on the same thread is simply
// detected by comparing the current thread to the stored owner. Go has no
// such identity: goroutines are not addressable and a goroutine may
// migrate across OS threads at any yield point. A Token stands in for
// that identity instead — callers that want reentrant acquisition across
// a logical call chain create one Token at the top of that chain (for
// example, store it in a context.Context, or thread it as a parameter)
// and pass the same Token into every Lock/Unlock/Await call along the
// chain. Two Tokens are never equal except by pointer identity, and a
// zero-value Token is never a valid owner, so the zero value of *Token
// (nil) unambiguously means "no owner".
type Token struct{}

// NewToken allocates a fresh ownership identity. Each call returns a
// distinct Token, comparable only to itself.
func NewToken() *Token { return &Token{} }
