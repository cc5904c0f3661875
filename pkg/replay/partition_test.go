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
)

func TestParsePartitionValueDate(t *testing.T) {
	raw := "2018-01-01"
	v, err := replay.ParsePartitionValue(&raw, expr.Date)
	require.NoError(t, err)
	require.Equal(t, int64(17532), v.Int)

	raw2 := "2017-12-31"
	v2, err := replay.ParsePartitionValue(&raw2, expr.Date)
	require.NoError(t, err)
	require.Equal(t, int64(17531), v2.Int)
}

func TestParsePartitionValueNull(t *testing.T) {
	v, err := replay.ParsePartitionValue(nil, expr.Integer)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestParsePartitionValueInvalid(t *testing.T) {
	raw := "not-a-number"
	_, err := replay.ParsePartitionValue(&raw, expr.Integer)
	require.Error(t, err)
	kind, ok := errs.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errs.KindInvalidPartitionValue, kind)
}

func TestParsePartitionValuesAndPruning(t *testing.T) {
	schema := expr.NewSchema(
		expr.NullableField("value", expr.Integer),
		expr.NullableField("date", expr.Date),
	)
	transform := replay.Transform{replay.Static(expr.Column("value")), replay.Partition(1)}
	raw := map[string]string{"date": "2017-12-10"}
	parsed, err := replay.ParsePartitionValues(transform, raw, schema)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.Equal(t, "date", parsed[1].PhysicalName)

	pruningFilter := expr.Compare(expr.OpEq, expr.Column("date"), expr.Lit(expr.DateScalar(1)))
	require.True(t, replay.IsFilePartitionPruned(parsed, &pruningFilter))

	matchingFilter := expr.Compare(expr.OpEq, expr.Column("date"), expr.Lit(parsed[1].Value))
	require.False(t, replay.IsFilePartitionPruned(parsed, &matchingFilter))

	require.False(t, replay.IsFilePartitionPruned(parsed, nil))
	require.False(t, replay.IsFilePartitionPruned(map[int]replay.ParsedPartitionValue{}, &pruningFilter))
}
