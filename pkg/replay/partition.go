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
	"strconv"
	"time"

	"github.com/deltareplay/kernel/pkg/replay/errs"
	"github.com/deltareplay/kernel/pkg/replay/expr"
)

// ParsedPartitionValue is a parsed partition column's physical name and
// typed scalar value, keyed elsewhere by the logical field index it fills.
type ParsedPartitionValue struct {
	PhysicalName string
	Value        expr.Scalar
}

const partitionDateLayout = "2006-01-02"

// epoch is the Delta/Parquet DATE epoch (days since 1970-01-01).
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// ParsePartitionValue parses the Delta partition-value encoding (a null
// sentinel represented by a nil raw pointer, otherwise a type-specific
// textual form) into a typed Scalar.
func ParsePartitionValue(raw *string, dt expr.DataType) (expr.Scalar, error) {
	if raw == nil {
		return partitionNullScalar(dt), nil
	}
	s := *raw
	switch dt.Kind {
	case expr.KindString:
		return expr.StringScalar(s), nil
	case expr.KindBoolean:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid boolean partition value %q: %v", s, err)
		}
		return expr.BooleanScalar(v), nil
	case expr.KindByte:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid byte partition value %q: %v", s, err)
		}
		return expr.ByteScalar(int8(v)), nil
	case expr.KindShort:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid short partition value %q: %v", s, err)
		}
		return expr.ShortScalar(int16(v)), nil
	case expr.KindInteger:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid integer partition value %q: %v", s, err)
		}
		return expr.IntegerScalar(int32(v)), nil
	case expr.KindLong:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid long partition value %q: %v", s, err)
		}
		return expr.LongScalar(v), nil
	case expr.KindFloat:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid float partition value %q: %v", s, err)
		}
		return expr.FloatScalar(float32(v)), nil
	case expr.KindDouble:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid double partition value %q: %v", s, err)
		}
		return expr.DoubleScalar(v), nil
	case expr.KindDate:
		t, err := time.Parse(partitionDateLayout, s)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid date partition value %q: %v", s, err)
		}
		days := int32(t.Sub(epoch).Hours() / 24)
		return expr.DateScalar(days), nil
	case expr.KindTimestamp:
		t, err := time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			return expr.Scalar{}, errs.NewInvalidPartitionValue("invalid timestamp partition value %q: %v", s, err)
		}
		return expr.TimestampScalar(t.Sub(epoch).Microseconds()), nil
	case expr.KindBinary:
		return expr.BinaryScalar([]byte(s)), nil
	default:
		return expr.Scalar{}, errs.NewInvalidPartitionValue("unsupported partition value type for %q", s)
	}
}

func partitionNullScalar(dt expr.DataType) expr.Scalar {
	switch dt.Kind {
	case expr.KindString:
		return expr.NullScalar(expr.ScalarString)
	case expr.KindBoolean:
		return expr.NullScalar(expr.ScalarBoolean)
	case expr.KindByte:
		return expr.NullScalar(expr.ScalarByte)
	case expr.KindShort:
		return expr.NullScalar(expr.ScalarShort)
	case expr.KindInteger:
		return expr.NullScalar(expr.ScalarInteger)
	case expr.KindLong:
		return expr.NullScalar(expr.ScalarLong)
	case expr.KindFloat:
		return expr.NullScalar(expr.ScalarFloat)
	case expr.KindDouble:
		return expr.NullScalar(expr.ScalarDouble)
	case expr.KindDate:
		return expr.NullScalar(expr.ScalarDate)
	case expr.KindTimestamp:
		return expr.NullScalar(expr.ScalarTimestamp)
	case expr.KindBinary:
		return expr.NullScalar(expr.ScalarBinary)
	default:
		return expr.NullScalar(expr.ScalarNull)
	}
}

// ParsePartitionValues resolves every TransformPartition(field_idx) slot of
// transform against rawMap (the raw add.partitionValues map), looking up
// each field's physical name in logicalSchema and parsing its textual value.
// TransformStatic slots are ignored.
func ParsePartitionValues(transform Transform, rawMap map[string]string, logicalSchema *expr.StructType) (map[int]ParsedPartitionValue, error) {
	out := make(map[int]ParsedPartitionValue, len(transform))
	for _, slot := range transform {
		if slot.Kind != TransformPartition {
			continue
		}
		field, ok := logicalSchema.FieldAt(slot.FieldIdx)
		if !ok {
			return nil, errs.NewInternalError("out of bounds partition column field index %d", slot.FieldIdx)
		}
		var raw *string
		if v, present := rawMap[field.Name]; present {
			raw = &v
		}
		value, err := ParsePartitionValue(raw, field.Type)
		if err != nil {
			return nil, err
		}
		out[slot.FieldIdx] = ParsedPartitionValue{PhysicalName: field.Name, Value: value}
	}
	return out, nil
}

// IsFilePartitionPruned evaluates partitionFilter (if any) against the
// exact-value environment built from parsed, under SQL WHERE semantics.
// Returns true iff evaluation is exactly false. A nil filter or an empty
// parsed map both mean "cannot prune" (spec §4.3).
func IsFilePartitionPruned(parsed map[int]ParsedPartitionValue, partitionFilter *expr.Expression) bool {
	if len(parsed) == 0 || partitionFilter == nil {
		return false
	}
	env := make(map[string]expr.Scalar, len(parsed))
	for _, pv := range parsed {
		env[pv.PhysicalName] = pv.Value
	}
	result := expr.EvalWhere(*partitionFilter, env)
	return result != nil && !*result
}
