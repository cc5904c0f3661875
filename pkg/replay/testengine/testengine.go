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

// Package testengine is an in-memory stand-in for the engine collaborator
// (spec §6), used only by this module's own tests. It mirrors the style of
// the teacher's sync/in-memory test engines: rows are plain maps rather than
// a real columnar batch, and the only evaluator it knows how to build is the
// one projection this core ever actually requests.
package testengine

import (
	"github.com/deltareplay/kernel/pkg/replay"
	"github.com/deltareplay/kernel/pkg/replay/expr"
)

// Row is one action row, keyed by its dotted physical column path
// ("add.path", "add.deletionVector.storageType", "txn.appId", ...). A
// missing key or a nil value both mean "null" at that column.
type Row map[string]any

// Batch is a fixed-size, fixed-schema slice of Rows implementing
// replay.EngineData.
type Batch struct {
	rows []Row
}

// NewBatch wraps rows as an EngineData batch.
func NewBatch(rows ...Row) *Batch {
	return &Batch{rows: rows}
}

func (b *Batch) Len() int { return len(b.rows) }

// VisitRows asks v which columns it wants, builds one getter per column
// reading straight out of each row's dotted keys, and calls v.Visit once.
func (b *Batch) VisitRows(v replay.RowVisitor) error {
	names, _ := v.SelectedColumnNamesAndTypes()
	getters := make([]replay.GetData, len(names))
	for i, name := range names {
		getters[i] = &columnGetter{name: name, rows: b.rows}
	}
	return v.Visit(len(b.rows), getters)
}

type columnGetter struct {
	name string
	rows []Row
}

func (g *columnGetter) value(i int) (any, bool) {
	v, ok := g.rows[i][g.name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (g *columnGetter) GetString(i int) (string, bool) {
	v, ok := g.value(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (g *columnGetter) GetInt(i int) (int32, bool) {
	v, ok := g.value(i)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		return int32(n), true
	}
	return 0, false
}

func (g *columnGetter) GetLong(i int) (int64, bool) {
	v, ok := g.value(i)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func (g *columnGetter) GetStringMap(i int) (map[string]string, bool) {
	v, ok := g.value(i)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]string)
	return m, ok
}

// Engine is the test double for replay.Engine.
type Engine struct{}

// New returns a ready-to-use test Engine.
func New() *Engine { return &Engine{} }

func (e *Engine) GetExpressionHandler() replay.ExpressionHandler { return expressionHandler{} }

type expressionHandler struct{}

// GetEvaluator ignores the requested schema/expression/outputType triple:
// this test engine only ever needs to satisfy the add-to-scan-row
// projection that scan_action_iter binds, so it always hands back that one
// evaluator. A real engine would compile the expression against the schema.
func (expressionHandler) GetEvaluator(_ *expr.StructType, _ expr.Expression, _ expr.DataType) replay.Evaluator {
	return addProjectionEvaluator{}
}

type addProjectionEvaluator struct{}

func (addProjectionEvaluator) Evaluate(batch replay.EngineData) (replay.EngineData, error) {
	b, ok := batch.(*Batch)
	if !ok {
		return batch, nil
	}
	out := make([]Row, len(b.rows))
	for i, row := range b.rows {
		out[i] = projectAddToScanRow(row)
	}
	return NewBatch(out...), nil
}

// projectAddToScanRow reshapes an add row's columns into the scan-row
// schema's dotted keys, matching AddTransformExpr's field order.
func projectAddToScanRow(row Row) Row {
	out := Row{
		"path":             row["add.path"],
		"size":             row["add.size"],
		"modificationTime": row["add.modificationTime"],
		"stats":            row["add.stats"],
	}
	for _, sub := range []string{"storageType", "pathOrInlineDv", "offset", "sizeInBytes", "cardinality"} {
		if v, ok := row["add.deletionVector."+sub]; ok {
			out["deletionVector."+sub] = v
		}
	}
	out["fileConstantValues.partitionValues"] = row["add.partitionValues"]
	return out
}

// Getters builds one GetData per name in names, reading straight out of
// rows's dotted keys. Tests use this to drive a visitor's extraction logic
// directly, without a full VisitRows round trip.
func Getters(names []string, rows []Row) []replay.GetData {
	getters := make([]replay.GetData, len(names))
	for i, name := range names {
		getters[i] = &columnGetter{name: name, rows: rows}
	}
	return getters
}

// ActionSource adapts a fixed slice of (rows, isLogBatch) batches into a
// replay.ActionSource.
func ActionSource(batches []BatchSpec) replay.ActionSource {
	i := 0
	return func() (replay.EngineData, bool, error) {
		if i >= len(batches) {
			return nil, false, nil
		}
		b := batches[i]
		i++
		return NewBatch(b.Rows...), b.IsLogBatch, nil
	}
}

// BatchSpec is one batch in a fixture's fixed action stream.
type BatchSpec struct {
	Rows       []Row
	IsLogBatch bool
}

// LogReader is a fixed-script test double for replay.LogReader: it always
// produces the same ActionSource regardless of the arguments it is called
// with, which is sufficient for exercising the scan/settxn orchestration
// logic against a scripted log.
type LogReader struct {
	Batches []BatchSpec
}

func (r LogReader) ReadActions(
	_ replay.Engine,
	_, _ *expr.StructType,
	_ expr.Expression,
) (replay.ActionSource, error) {
	return ActionSource(r.Batches), nil
}
