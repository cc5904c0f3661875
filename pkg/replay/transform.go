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

package replay

import (
	"github.com/deltareplay/kernel/pkg/replay/errs"
	"github.com/deltareplay/kernel/pkg/replay/expr"
)

// TransformExprKind distinguishes the two slot variants a Transform is built
// from.
type TransformExprKind int

const (
	// TransformPartition names a logical field index whose value must be
	// filled in per-file from the add's parsed partition values.
	TransformPartition TransformExprKind = iota
	// TransformStatic carries a prebuilt expression shared by every file,
	// e.g. a plain physical column reference.
	TransformStatic
)

// TransformExpr is one slot of a Transform: a closed tagged variant, not an
// interface hierarchy, matching the rest of this package's expression types.
type TransformExpr struct {
	Kind     TransformExprKind
	FieldIdx int             // valid when Kind == TransformPartition
	Static   expr.Expression // valid when Kind == TransformStatic
}

// Partition builds a TransformPartition slot for logical field index idx.
func Partition(idx int) TransformExpr {
	return TransformExpr{Kind: TransformPartition, FieldIdx: idx}
}

// Static builds a TransformStatic slot wrapping e.
func Static(e expr.Expression) TransformExpr {
	return TransformExpr{Kind: TransformStatic, Static: e}
}

// Transform is the ordered recipe mapping a file's physical columns to the
// logical schema: one slot per logical field.
type Transform []TransformExpr

// TransformList is the sparse, index-aligned, per-batch list of transform
// expressions produced by AddRemoveDedupVisitor: one optional slot per
// surviving row position. It grows lazily to the highest touched index
// rather than being pre-sized to the batch length (spec design note on
// sparse per-row transforms).
type TransformList struct {
	slots []*expr.Expression
}

// GrowTo extends the list with nil slots up to (but not including) index i,
// matching Vec::resize_with(i, Default::default) in the source.
func (l *TransformList) GrowTo(i int) {
	for len(l.slots) < i {
		l.slots = append(l.slots, nil)
	}
}

// Push appends e (which may be nil) as the next slot.
func (l *TransformList) Push(e *expr.Expression) {
	l.slots = append(l.slots, e)
}

// Len returns the number of slots currently in the list.
func (l *TransformList) Len() int { return len(l.slots) }

// Get returns the slot at i, or (nil, false) if i is out of range.
func (l *TransformList) Get(i int) (*expr.Expression, bool) {
	if i < 0 || i >= len(l.slots) {
		return nil, false
	}
	return l.slots[i], true
}

// IsEmpty reports whether no transform was ever pushed: either no transform
// was configured for this scan, or no add in the batch survived.
func (l *TransformList) IsEmpty() bool { return len(l.slots) == 0 }

// BuildTransformExpression synthesizes the physical-to-logical expression
// for one surviving add: every TransformPartition(idx) slot is replaced by a
// literal of its parsed scalar (consumed out of partitionValues, matching
// the source's HashMap::remove), and every TransformStatic(e) slot is
// reused as-is. Consuming the map lets the caller detect a value that was
// parsed but never assigned to a slot, though that situation never arises
// here since ParsePartitionValues only ever produces entries transform asks
// for.
func BuildTransformExpression(transform Transform, partitionValues map[int]ParsedPartitionValue) (expr.Expression, error) {
	children := make([]expr.Expression, len(transform))
	for i, slot := range transform {
		switch slot.Kind {
		case TransformPartition:
			pv, ok := partitionValues[slot.FieldIdx]
			if !ok {
				return expr.Expression{}, errs.NewInternalError("missing partition value for field index %d", slot.FieldIdx)
			}
			delete(partitionValues, slot.FieldIdx)
			children[i] = expr.Lit(pv.Value)
		case TransformStatic:
			children[i] = slot.Static
		}
	}
	return expr.Struct(children...), nil
}
