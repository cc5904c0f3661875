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
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/deltareplay/kernel/pkg/replay/errs"
	"github.com/deltareplay/kernel/pkg/replay/expr"
	"github.com/deltareplay/kernel/pkg/replay/rlog"
	"github.com/deltareplay/kernel/pkg/replay/selvec"
)

var statsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// statsDoc mirrors the Delta stats JSON shape: per-column min/max keyed by
// physical name, plus a row count and per-column null counts.
type statsDoc struct {
	NumRecords int64                          `json:"numRecords"`
	MinValues  map[string]jsoniter.RawMessage `json:"minValues"`
	MaxValues  map[string]jsoniter.RawMessage `json:"maxValues"`
	NullCount  map[string]int64               `json:"nullCount"`
}

// DataSkippingFilter prunes add rows of a batch using the file-level
// min/max/nullCount statistics serialized into add.stats, evaluated against
// a physical predicate under existential three-valued semantics (spec §4.2).
// It is sound but not complete: it only ever turns true bits to false.
type DataSkippingFilter struct {
	predicate   expr.Expression
	columnTypes map[string]expr.DataType
	bufSize     int
}

// NewDataSkippingFilter builds a filter for predicate over physicalSchema.
// Stats values are decoded according to each column's declared type so a
// numeric predicate compares against a same-kind scalar rather than a
// guessed one; a stats column absent from physicalSchema is decoded as
// String and so will simply never resolve to a pruning decision.
//
// predicate is validated for well-formed arity before the filter is built:
// an engine collaborator handing back a malformed Compare/Not/IsNull node
// would otherwise only fail later, with an index-out-of-range panic deep
// inside EvalStatsWhere.
func NewDataSkippingFilter(predicate expr.Expression, physicalSchema *expr.StructType, opts ReplayOptions) (*DataSkippingFilter, error) {
	if err := validatePredicateArity(predicate); err != nil {
		return nil, errs.NewGeneric("data skipping predicate is malformed: %s", err)
	}
	types := make(map[string]expr.DataType, len(physicalSchema.Fields))
	for _, f := range physicalSchema.Fields {
		types[f.Name] = f.Type
	}
	return &DataSkippingFilter{predicate: predicate, columnTypes: types, bufSize: opts.statsBufferSize()}, nil
}

// validatePredicateArity walks e checking that every node carries the
// number of children its kind requires, the same shape the Compare/Not/And/
// Or/IsNull/IsNotNull constructors always produce for a well-formed tree.
func validatePredicateArity(e expr.Expression) error {
	switch e.Kind {
	case expr.ExprColumn, expr.ExprLiteral:
		return nil
	case expr.ExprNot, expr.ExprIsNull, expr.ExprIsNotNull:
		if len(e.Children) != 1 {
			return fmt.Errorf("kind %d: expected 1 child, got %d", e.Kind, len(e.Children))
		}
	case expr.ExprCompare:
		if len(e.Children) != 2 {
			return fmt.Errorf("kind %d: expected 2 children, got %d", e.Kind, len(e.Children))
		}
	case expr.ExprAnd, expr.ExprOr:
		if len(e.Children) == 0 {
			return fmt.Errorf("kind %d: expected at least 1 child, got 0", e.Kind)
		}
	case expr.ExprStruct:
	default:
		return fmt.Errorf("unknown expression kind %d", e.Kind)
	}
	for _, c := range e.Children {
		if err := validatePredicateArity(c); err != nil {
			return err
		}
	}
	return nil
}

// Apply computes the selection vector for actions: false means the
// predicate provably cannot match any row of that file and it is safe to
// skip. actions is visited as a RowVisitor over its add.stats column.
func (f *DataSkippingFilter) Apply(actions EngineData) (*selvec.Vector, error) {
	v := &dataSkippingVisitor{
		predicate:   f.predicate,
		columnTypes: f.columnTypes,
		bufSize:     f.bufSize,
		sel:         selvec.NewAllTrue(actions.Len()),
	}
	if err := actions.VisitRows(v); err != nil {
		return nil, err
	}
	return v.sel, nil
}

type dataSkippingVisitor struct {
	predicate   expr.Expression
	columnTypes map[string]expr.DataType
	bufSize     int
	sel         *selvec.Vector
}

func (v *dataSkippingVisitor) SelectedColumnNamesAndTypes() ([]string, []expr.DataType) {
	return []string{"add.stats"}, []expr.DataType{expr.String}
}

func (v *dataSkippingVisitor) Visit(rowCount int, getters []GetData) error {
	for i := 0; i < rowCount; i++ {
		raw, ok := getters[0].GetString(i)
		if !ok {
			continue
		}
		stats, numRecords, err := parseStatsJSON(raw, v.columnTypes, v.bufSize)
		if err != nil {
			rlog.Warn("[dataskipping]", "unparseable stats json, keeping row", zap.Int("row", i), zap.Error(err))
			continue
		}
		result := expr.EvalStatsWhere(v.predicate, stats, numRecords)
		if result != nil && !*result {
			v.sel.Clear(i)
		}
	}
	return nil
}

// parseStatsJSON decodes raw through a jsoniter stream iterator sized by
// bufSize (spec §2.3's decode-buffer knob), rather than a one-shot Unmarshal
// over the whole string.
func parseStatsJSON(raw string, columnTypes map[string]expr.DataType, bufSize int) (map[string]expr.ColStat, int64, error) {
	var doc statsDoc
	iter := jsoniter.Parse(statsJSON, strings.NewReader(raw), bufSize)
	iter.ReadVal(&doc)
	if err := iter.Error; err != nil && err != io.EOF {
		return nil, 0, errs.Wrap(err, "decode add.stats json")
	}
	stats := make(map[string]expr.ColStat)
	for name, msg := range doc.MinValues {
		st := stats[name]
		if scalar, err := decodeStatScalar(msg, columnTypes[name]); err == nil {
			st.Min, st.HasMin = scalar, true
		}
		stats[name] = st
	}
	for name, msg := range doc.MaxValues {
		st := stats[name]
		if scalar, err := decodeStatScalar(msg, columnTypes[name]); err == nil {
			st.Max, st.HasMax = scalar, true
		}
		stats[name] = st
	}
	for name, n := range doc.NullCount {
		st := stats[name]
		st.HasNullCount = true
		st.NullCount = n
		stats[name] = st
	}
	return stats, doc.NumRecords, nil
}

// decodeStatScalar decodes one min/max JSON value according to the column's
// declared physical type, the same type-directed approach
// ParsePartitionValue uses for partition strings.
func decodeStatScalar(raw jsoniter.RawMessage, dt expr.DataType) (expr.Scalar, error) {
	switch dt.Kind {
	case expr.KindString:
		var s string
		if err := statsJSON.Unmarshal(raw, &s); err != nil {
			return expr.Scalar{}, err
		}
		return expr.StringScalar(s), nil
	case expr.KindBoolean:
		var b bool
		if err := statsJSON.Unmarshal(raw, &b); err != nil {
			return expr.Scalar{}, err
		}
		return expr.BooleanScalar(b), nil
	case expr.KindByte, expr.KindShort, expr.KindInteger, expr.KindLong:
		var n int64
		if err := statsJSON.Unmarshal(raw, &n); err != nil {
			return expr.Scalar{}, err
		}
		switch dt.Kind {
		case expr.KindByte:
			return expr.ByteScalar(int8(n)), nil
		case expr.KindShort:
			return expr.ShortScalar(int16(n)), nil
		case expr.KindInteger:
			return expr.IntegerScalar(int32(n)), nil
		default:
			return expr.LongScalar(n), nil
		}
	case expr.KindFloat:
		var f float64
		if err := statsJSON.Unmarshal(raw, &f); err != nil {
			return expr.Scalar{}, err
		}
		return expr.FloatScalar(float32(f)), nil
	case expr.KindDouble:
		var f float64
		if err := statsJSON.Unmarshal(raw, &f); err != nil {
			return expr.Scalar{}, err
		}
		return expr.DoubleScalar(f), nil
	case expr.KindDate:
		var s string
		if err := statsJSON.Unmarshal(raw, &s); err != nil {
			return expr.Scalar{}, err
		}
		t, err := time.Parse(partitionDateLayout, s)
		if err != nil {
			return expr.Scalar{}, err
		}
		return expr.DateScalar(int32(t.Sub(epoch).Hours() / 24)), nil
	case expr.KindTimestamp:
		var s string
		if err := statsJSON.Unmarshal(raw, &s); err != nil {
			return expr.Scalar{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return expr.Scalar{}, err
		}
		return expr.TimestampScalar(t.Sub(epoch).Microseconds()), nil
	default:
		var s string
		if err := statsJSON.Unmarshal(raw, &s); err != nil {
			return expr.Scalar{}, err
		}
		return expr.StringScalar(s), nil
	}
}
