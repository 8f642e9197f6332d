// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

// pad is cache line padding to prevent false sharing between the hot
// head/tail/size fields of a queue and whatever is adjacent to them.
type pad [64]byte
