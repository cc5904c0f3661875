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

package replay_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deltareplay/kernel/pkg/replay"
	"github.com/deltareplay/kernel/pkg/replay/errs"
	"github.com/deltareplay/kernel/pkg/replay/expr"
	"github.com/deltareplay/kernel/pkg/replay/testengine"
)

func TestDataSkippingFilterPrunesOutOfRangeFile(t *testing.T) {
	schema := expr.NewSchema(expr.NullableField("value", expr.Integer))
	predicate := expr.Compare(expr.OpGt, expr.Column("value"), expr.Lit(expr.IntegerScalar(100)))
	filter, err := replay.NewDataSkippingFilter(predicate, schema, replay.DefaultReplayOptions())
	require.NoError(t, err)

	batch := testengine.NewBatch(
		testengine.Row{"add.stats": `{"numRecords":5,"minValues":{"value":1},"maxValues":{"value":10},"nullCount":{"value":0}}`},
		testengine.Row{"add.stats": `{"numRecords":5,"minValues":{"value":200},"maxValues":{"value":300},"nullCount":{"value":0}}`},
	)
	sel, err := filter.Apply(batch)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, sel.ToBools())
}

func TestDataSkippingFilterKeepsUnparseableStats(t *testing.T) {
	schema := expr.NewSchema(expr.NullableField("value", expr.Integer))
	predicate := expr.Compare(expr.OpGt, expr.Column("value"), expr.Lit(expr.IntegerScalar(100)))
	filter, err := replay.NewDataSkippingFilter(predicate, schema, replay.DefaultReplayOptions())
	require.NoError(t, err)

	batch := testengine.NewBatch(testengine.Row{"add.stats": "not json"})
	sel, err := filter.Apply(batch)
	require.NoError(t, err)
	require.True(t, sel.Get(0))
}

func TestNewDataSkippingFilterRejectsMalformedPredicate(t *testing.T) {
	schema := expr.NewSchema(expr.NullableField("value", expr.Integer))
	malformed := expr.Expression{Kind: expr.ExprCompare, Children: []expr.Expression{expr.Column("value")}}

	_, err := replay.NewDataSkippingFilter(malformed, schema, replay.DefaultReplayOptions())
	require.Error(t, err)
	kind, ok := errs.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errs.KindGeneric, kind)
}

func TestDataSkippingFilterNeverPromotesFalseToTrue(t *testing.T) {
	schema := expr.NewSchema(expr.NullableField("value", expr.Integer))
	predicate := expr.Compare(expr.OpEq, expr.Column("value"), expr.Lit(expr.IntegerScalar(5)))
	filter, err := replay.NewDataSkippingFilter(predicate, schema, replay.DefaultReplayOptions())
	require.NoError(t, err)

	batch := testengine.NewBatch(
		testengine.Row{"add.stats": `{"numRecords":1,"minValues":{"value":5},"maxValues":{"value":5}}`},
	)
	sel, err := filter.Apply(batch)
	require.NoError(t, err)
	require.True(t, sel.Get(0))
}
