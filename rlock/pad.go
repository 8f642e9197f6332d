// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rlock

// pad is cache line padding to prevent false sharing between hot atomic
// fields that are read by every contending goroutine.
type pad [64]byte
