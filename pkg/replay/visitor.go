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

var logAddRemoveNames = []string{
	"add.path",
	"add.partitionValues",
	"add.deletionVector.storageType",
	"add.deletionVector.pathOrInlineDv",
	"add.deletionVector.offset",
	"remove.path",
	"remove.deletionVector.storageType",
	"remove.deletionVector.pathOrInlineDv",
	"remove.deletionVector.offset",
}

var logAddRemoveTypes = []expr.DataType{
	expr.String,
	expr.NewMapType(expr.String, expr.String, true),
	expr.String, expr.String, expr.Integer,
	expr.String,
	expr.String, expr.String, expr.Integer,
}

// LogAddRemoveColumnNames returns the visitor's column projection: all 9
// add+remove columns for a log batch, or just the 5 add columns for a
// checkpoint batch (whose remove actions are vacuum tombstones only).
func LogAddRemoveColumnNames(isLogBatch bool) []string {
	if isLogBatch {
		return logAddRemoveNames
	}
	return logAddRemoveNames[:5]
}

// LogAddRemoveColumnTypes mirrors LogAddRemoveColumnNames for types.
func LogAddRemoveColumnTypes(isLogBatch bool) []expr.DataType {
	if isLogBatch {
		return logAddRemoveTypes
	}
	return logAddRemoveTypes[:5]
}

// AddRemoveDedupVisitor drives dedup, partition pruning, and transform
// synthesis over one batch's add/remove rows, narrowing the selection
// vector it was constructed with. It assumes the schema it declares is
// exactly what the engine will hand back: adds first, removes (if any)
// after.
type AddRemoveDedupVisitor struct {
	deduplicator    *FileActionDeduplicator
	selectionVector []bool
	logicalSchema   *expr.StructType
	transform       Transform
	hasTransform    bool
	partitionFilter *expr.Expression
	rowTransforms   TransformList
}

// NewAddRemoveDedupVisitor builds a visitor sharing seen with the rest of
// the scan. transform may be nil if no logical transform was requested for
// this scan.
func NewAddRemoveDedupVisitor(
	seen map[FileActionKey]struct{},
	selectionVector []bool,
	logicalSchema *expr.StructType,
	transform Transform,
	hasTransform bool,
	partitionFilter *expr.Expression,
	isLogBatch bool,
) *AddRemoveDedupVisitor {
	return &AddRemoveDedupVisitor{
		deduplicator:    NewFileActionDeduplicator(seen, isLogBatch),
		selectionVector: selectionVector,
		logicalSchema:   logicalSchema,
		transform:       transform,
		hasTransform:    hasTransform,
		partitionFilter: partitionFilter,
	}
}

// SelectionVector returns the (possibly narrowed) selection vector after
// Visit has run.
func (v *AddRemoveDedupVisitor) SelectionVector() []bool { return v.selectionVector }

// RowTransforms returns the per-row transform list built during Visit.
func (v *AddRemoveDedupVisitor) RowTransforms() TransformList { return v.rowTransforms }

func (v *AddRemoveDedupVisitor) SelectedColumnNamesAndTypes() ([]string, []expr.DataType) {
	isLogBatch := v.deduplicator.IsLogBatch()
	return LogAddRemoveColumnNames(isLogBatch), LogAddRemoveColumnTypes(isLogBatch)
}

func (v *AddRemoveDedupVisitor) Visit(rowCount int, getters []GetData) error {
	isLogBatch := v.deduplicator.IsLogBatch()
	expected := 5
	if isLogBatch {
		expected = 9
	}
	if len(getters) != expected {
		return errs.NewInternalError("wrong number of AddRemoveDedupVisitor getters: %d", len(getters))
	}
	for i := 0; i < rowCount; i++ {
		if !v.selectionVector[i] {
			continue
		}
		valid, err := v.isValidAdd(i, getters)
		if err != nil {
			return err
		}
		v.selectionVector[i] = valid
	}
	return nil
}

// isValidAdd implements the per-row procedure of spec §4.5: extract, prune
// (adds only, before the seen check so pruned files are never recorded),
// dedup, and transform synthesis for survivors.
func (v *AddRemoveDedupVisitor) isValidAdd(i int, getters []GetData) (bool, error) {
	key, isAdd, ok := v.deduplicator.ExtractFileAction(i, getters, !v.deduplicator.IsLogBatch())
	if !ok {
		return false, nil
	}

	var partitionValues map[int]ParsedPartitionValue
	if v.hasTransform && isAdd {
		rawMap, _ := getters[addPartitionValuesIdx].GetStringMap(i)
		parsed, err := ParsePartitionValues(v.transform, rawMap, v.logicalSchema)
		if err != nil {
			return false, err
		}
		if IsFilePartitionPruned(parsed, v.partitionFilter) {
			return false, nil
		}
		partitionValues = parsed
	}

	if v.deduplicator.CheckAndRecordSeen(key) || !isAdd {
		return false, nil
	}

	if v.hasTransform {
		transformExpr, err := BuildTransformExpression(v.transform, partitionValues)
		if err != nil {
			return false, err
		}
		v.rowTransforms.GrowTo(i)
		v.rowTransforms.Push(&transformExpr)
	}
	return true, nil
}
