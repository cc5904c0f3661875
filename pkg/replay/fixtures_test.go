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
	"github.com/deltareplay/kernel/pkg/replay/expr"
	"github.com/deltareplay/kernel/pkg/replay/testengine"
)

func TestScenarioBasicPartitionedNoTxn(t *testing.T) {
	reader := testengine.LogReader{Batches: testengine.BasicPartitioned()}
	scanner := replay.NewSetTransactionScanner(testengine.New(), reader, replay.DefaultReplayOptions())
	schema := expr.NewSchema()

	txn, err := scanner.ApplicationTransaction(schema, schema, "test")
	require.NoError(t, err)
	require.Nil(t, txn)

	all, err := scanner.ApplicationTransactions(schema, schema)
	require.NoError(t, err)
	require.Len(t, all, 0)
}

func TestScenarioAppTxnNoCheckpoint(t *testing.T) {
	reader := testengine.LogReader{Batches: testengine.AppTxnNoCheckpoint()}
	scanner := replay.NewSetTransactionScanner(testengine.New(), reader, replay.DefaultReplayOptions())
	schema := expr.NewSchema()

	txn, err := scanner.ApplicationTransaction(schema, schema, "my-app")
	require.NoError(t, err)
	require.NotNil(t, txn)

	all, err := scanner.ApplicationTransactions(schema, schema)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(2), all["my-app2"].Version)
	require.Nil(t, all["my-app2"].LastUpdated)
}

func TestScenarioAppTxnCheckpointMatchesNoCheckpoint(t *testing.T) {
	reader := testengine.LogReader{Batches: testengine.AppTxnCheckpoint()}
	scanner := replay.NewSetTransactionScanner(testengine.New(), reader, replay.DefaultReplayOptions())
	schema := expr.NewSchema()

	all, err := scanner.ApplicationTransactions(schema, schema)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(2), all["my-app2"].Version)
}

func TestScenarioFivePartCheckpointFindsBothApps(t *testing.T) {
	reader := testengine.LogReader{Batches: testengine.FivePartCheckpoint()}
	scanner := replay.NewSetTransactionScanner(testengine.New(), reader, replay.DefaultReplayOptions())
	schema := expr.NewSchema()

	all, err := scanner.ApplicationTransactions(schema, schema)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Contains(t, all, "app-a")
	require.Contains(t, all, "app-b")
}

func TestScenarioRemoveSuppressionBatch(t *testing.T) {
	batches := testengine.RemoveSuppressionBatch()
	source := testengine.ActionSource(batches)
	logicalSchema := expr.NewSchema()
	next, err := replay.ScanActionIter(testengine.New(), source, logicalSchema, nil, false, nil, replay.DefaultReplayOptions())
	require.NoError(t, err)

	data, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []bool{false, false, false, true}, data.SelectionVector)
}

func TestScenarioPartitionTransformBatch(t *testing.T) {
	schema := expr.NewSchema(
		expr.NullableField("size", expr.Long),
		expr.NullableField("date", expr.Date),
	)
	transform := replay.Transform{replay.Static(expr.Column("add.size")), replay.Partition(1)}
	batches := testengine.PartitionTransformBatch()
	source := testengine.ActionSource(batches)
	next, err := replay.ScanActionIter(testengine.New(), source, schema, transform, true, nil, replay.DefaultReplayOptions())
	require.NoError(t, err)

	data, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, data.RowTransformExprs.Len())
	slot0, _ := data.RowTransformExprs.Get(0)
	require.Nil(t, slot0)
	slot2, _ := data.RowTransformExprs.Get(2)
	require.Nil(t, slot2)
	slot1, _ := data.RowTransformExprs.Get(1)
	require.NotNil(t, slot1)
	require.Equal(t, int64(17532), slot1.Children[1].Literal.Int)
	slot3, _ := data.RowTransformExprs.Get(3)
	require.NotNil(t, slot3)
	require.Equal(t, int64(17531), slot3.Children[1].Literal.Int)
}
