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

func addRow(path string) testengine.Row {
	return testengine.Row{
		"add.path":             path,
		"add.size":             int64(635),
		"add.modificationTime": int64(100),
		"add.stats":            `{"numRecords":10}`,
	}
}

func TestScanActionIterNoTransforms(t *testing.T) {
	batches := []testengine.BatchSpec{
		{Rows: []testengine.Row{addRow("f1.parquet")}, IsLogBatch: true},
	}
	source := testengine.ActionSource(batches)
	logicalSchema := expr.NewSchema()
	next, err := replay.ScanActionIter(testengine.New(), source, logicalSchema, nil, false, nil, replay.DefaultReplayOptions())
	require.NoError(t, err)

	data, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, data.RowTransformExprs.IsEmpty(), "should have no transforms")

	_, ok, err = next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScanActionIterDropsAllFalseBatches(t *testing.T) {
	batches := []testengine.BatchSpec{
		{Rows: []testengine.Row{addRow("dup.parquet")}, IsLogBatch: true},
		{Rows: []testengine.Row{addRow("dup.parquet")}, IsLogBatch: true},
	}
	source := testengine.ActionSource(batches)
	logicalSchema := expr.NewSchema()
	next, err := replay.ScanActionIter(testengine.New(), source, logicalSchema, nil, false, nil, replay.DefaultReplayOptions())
	require.NoError(t, err)

	data, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, data.SelectionVector[0])

	_, ok, err = next()
	require.NoError(t, err)
	require.False(t, ok, "second batch duplicates the first and should be filtered out entirely")
}

func TestScanActionIterSimpleTransform(t *testing.T) {
	schema := expr.NewSchema(
		expr.NullableField("value", expr.Integer),
		expr.NullableField("date", expr.Date),
	)
	transform := replay.Transform{replay.Static(expr.Column("value")), replay.Partition(1)}
	rows := []testengine.Row{
		{},
		mergeRows(addRow("f1.parquet"), testengine.Row{"add.partitionValues": map[string]string{"date": "2018-01-01"}}),
		{},
		mergeRows(addRow("f2.parquet"), testengine.Row{"add.partitionValues": map[string]string{"date": "2017-12-31"}}),
	}
	batches := []testengine.BatchSpec{{Rows: rows, IsLogBatch: true}}
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
	slot3, _ := data.RowTransformExprs.Get(3)
	require.NotNil(t, slot3)
	require.Equal(t, int64(17532), slot1.Children[1].Literal.Int)
	require.Equal(t, int64(17531), slot3.Children[1].Literal.Int)
}

func TestScanActionIterReadAheadPullsUpToDepth(t *testing.T) {
	batches := []testengine.BatchSpec{
		{Rows: []testengine.Row{addRow("f1.parquet")}, IsLogBatch: true},
		{Rows: []testengine.Row{addRow("f2.parquet")}, IsLogBatch: true},
		{Rows: []testengine.Row{addRow("f3.parquet")}, IsLogBatch: true},
	}
	pulls := 0
	i := 0
	source := func() (replay.EngineData, bool, error) {
		pulls++
		if i >= len(batches) {
			return nil, false, nil
		}
		b := batches[i]
		i++
		return testengine.NewBatch(b.Rows...), b.IsLogBatch, nil
	}
	logicalSchema := expr.NewSchema()
	opts := replay.ReplayOptions{ReadAheadFiles: 2}
	next, err := replay.ScanActionIter(testengine.New(), source, logicalSchema, nil, false, nil, opts)
	require.NoError(t, err)

	_, ok, err := next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, pulls, "the first call should have pulled the current batch plus two batches of read-ahead")
}

func mergeRows(rows ...testengine.Row) testengine.Row {
	out := testengine.Row{}
	for _, r := range rows {
		for k, v := range r {
			out[k] = v
		}
	}
	return out
}
