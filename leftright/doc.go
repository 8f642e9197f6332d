// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package leftright, see Instance's doc comment for the core contract.
//
// # Quick Start
//
//	inst := leftright.NewInstance(func() map[string]int { return map[string]int{} }, leftright.NewPairCounter())
//	inst.Read(func(m map[string]int) { _ = m["k"] })
//	err := inst.Write(ctx, func(m *map[string]int) { (*m)["k"]++ })
//
// Reads are wait-free. Writes serialize against each other and apply
// their mutation twice — once per internal copy — so mutate must be a
// deterministic in-place edit with the same effect on each copy, never a full replacement
// allocation (that would desync the two copies). NewInstance calls
// factory twice so the two copies are genuinely independent, rather than
// accepting a single initial value and copying it: a shallow Go copy of
// a map, slice, or pointer field would alias the same underlying data in
// both slots instead of producing a second, separate one.
package leftright
