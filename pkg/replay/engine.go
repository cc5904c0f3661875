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

// Package replay implements the log-replay core of a Delta Lake table
// reader: reconciling add/remove actions read newest-first into the set of
// live files, synthesizing per-row physical-to-logical transforms, and
// scanning SetTransaction markers. It is a pure, single-threaded, in-memory
// reader over an immutable snapshot; it owns no I/O and no persisted state.
//
// Everything outside that boundary - the log segment enumerator, the
// columnar execution engine, predicate parsing, deletion-vector
// materialization - is an external collaborator named here only by the
// interface it exposes.
package replay

import (
	"github.com/deltareplay/kernel/pkg/replay/expr"
)

// GetData reads a single typed value out of row i of a column. The engine
// collaborator supplies one GetData per selected column, in the order its
// RowVisitor declared them.
type GetData interface {
	// GetString returns the string value at row i, or ("", false) if null.
	GetString(i int) (string, bool)
	// GetInt returns the int32 value at row i, or (0, false) if null.
	GetInt(i int) (int32, bool)
	// GetLong returns the int64 value at row i, or (0, false) if null.
	GetLong(i int) (int64, bool)
	// GetStringMap returns the string->string map at row i, or (nil, false)
	// if null. Used for add.partitionValues.
	GetStringMap(i int) (map[string]string, bool)
}

// RowVisitor is implemented by this package and driven by the engine
// collaborator: the engine calls SelectedColumnNamesAndTypes to learn which
// columns to project, then Visit once with the corresponding getters.
type RowVisitor interface {
	SelectedColumnNamesAndTypes() ([]string, []expr.DataType)
	Visit(rowCount int, getters []GetData) error
}

// EngineData is an opaque batch of rows produced by the engine collaborator.
// The core never inspects it directly; it only passes it to VisitRows (to
// drive a RowVisitor) or to an Evaluator (to project it into a new batch).
type EngineData interface {
	Len() int
	VisitRows(v RowVisitor) error
}

// Evaluator projects an EngineData batch through a previously bound
// expression, e.g. the add-to-scan-row projection.
type Evaluator interface {
	Evaluate(batch EngineData) (EngineData, error)
}

// ExpressionHandler binds an expression against an input/output schema pair
// once, returning a reusable Evaluator. Implementations are expected to
// cache evaluators by identity of the (schema, expr, outputType) triple
// (spec's static-schema design note), which is why the schemas and
// projection expressions this package builds are process-wide singletons.
type ExpressionHandler interface {
	GetEvaluator(inputSchema *expr.StructType, e expr.Expression, outputType expr.DataType) Evaluator
}

// Engine is the full collaborator surface this package consumes.
type Engine interface {
	GetExpressionHandler() ExpressionHandler
}

// ActionSource is a pull-based iterator of (batch, isLogBatch) produced by
// the log reader. A call returns (nil, false, nil) when the stream is
// exhausted; a non-nil error always ends the stream.
type ActionSource func() (batch EngineData, isLogBatch bool, err error)

// LogReader is the out-of-scope log segment enumerator: it knows how to
// locate and order commit and checkpoint files and hands back their actions
// newest-first, projected down to physicalSchema/logicalSchema and filtered
// by metaPredicate (a data-skipping hint, not a correctness filter).
type LogReader interface {
	ReadActions(
		engine Engine,
		physicalSchema, logicalSchema *expr.StructType,
		metaPredicate expr.Expression,
	) (ActionSource, error)
}

// ScanData is one emission of the scan iterator: a batch already projected
// into the scan-row schema, its selection vector, and the per-row transform
// list (empty if no transform was configured for this scan).
type ScanData struct {
	Batch             EngineData
	SelectionVector   []bool
	RowTransformExprs TransformList
}
