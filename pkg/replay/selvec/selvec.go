// Copyright 2026 The Delta Replay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package selvec implements the per-batch selection vector, backed by a
// roaring bitmap of the "true" positions. This follows the teacher's own
// pattern of returning a roaring.Bitmap of surviving row positions from a
// pruning pass (pkg/vm/engine/tae/index/access/impl/block.go's
// MayContainsAnyKeys), just inverted into a persistent per-batch vector
// instead of a one-shot result.
package selvec

import "github.com/RoaringBitmap/roaring"

// Vector is a boolean vector of fixed length, narrowed monotonically
// (true->false only) as spec §3 requires.
type Vector struct {
	bits *roaring.Bitmap
	n    int
}

// NewAllTrue returns a vector of length n with every bit set.
func NewAllTrue(n int) *Vector {
	v := &Vector{bits: roaring.New(), n: n}
	if n > 0 {
		v.bits.AddRange(0, uint64(n))
	}
	return v
}

// NewAllFalse returns a vector of length n with every bit clear.
func NewAllFalse(n int) *Vector {
	return &Vector{bits: roaring.New(), n: n}
}

// FromBools builds a Vector with the same length and bit pattern as bs.
func FromBools(bs []bool) *Vector {
	v := NewAllFalse(len(bs))
	for i, b := range bs {
		if b {
			v.bits.Add(uint32(i))
		}
	}
	return v
}

// Len returns the vector's fixed length (the batch's row count).
func (v *Vector) Len() int { return v.n }

// Get reports whether row i is currently selected.
func (v *Vector) Get(i int) bool { return v.bits.Contains(uint32(i)) }

// Set assigns row i's selection bit.
func (v *Vector) Set(i int, val bool) {
	if val {
		v.bits.Add(uint32(i))
	} else {
		v.bits.Remove(uint32(i))
	}
}

// Clear narrows row i to false. Set(i, true) is the only method that turns
// a cleared bit back to true; the data-skipping filter narrows only through
// Clear.
func (v *Vector) Clear(i int) { v.bits.Remove(uint32(i)) }

// Any reports whether any bit is set; scan_action_iter drops a batch whose
// vector has no true bit at all (spec §4.6).
func (v *Vector) Any() bool { return !v.bits.IsEmpty() }

// Count returns the number of set bits.
func (v *Vector) Count() int { return int(v.bits.GetCardinality()) }

// ToBools materializes the vector as a []bool, matching the boundary type
// spec §3 defines the selection vector as.
func (v *Vector) ToBools() []bool {
	out := make([]bool, v.n)
	it := v.bits.Iterator()
	for it.HasNext() {
		out[it.Next()] = true
	}
	return out
}

// LessEqual reports whether v is element-wise <= other, i.e. every bit set
// in v is also set in other. Used to check the monotone-pruning invariant:
// the dedup+partition-pruned vector must never have a true bit the
// data-skipping vector didn't already have.
func (v *Vector) LessEqual(other *Vector) bool {
	diff := v.bits.Clone()
	diff.AndNot(other.bits)
	return diff.IsEmpty()
}

// Clone returns an independent copy.
func (v *Vector) Clone() *Vector {
	return &Vector{bits: v.bits.Clone(), n: v.n}
}
