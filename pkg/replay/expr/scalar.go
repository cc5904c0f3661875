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

package expr

import "bytes"

// ScalarKind mirrors DataKind but adds Null, since a scalar (unlike a
// column's declared type) can be the null value of any of those types.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarString
	ScalarByte
	ScalarShort
	ScalarInteger
	ScalarLong
	ScalarFloat
	ScalarDouble
	ScalarBoolean
	ScalarDate
	ScalarTimestamp
	ScalarBinary
)

// Scalar is a closed sum of the primitive types the core ever needs to hold
// a literal value of: parsed partition values, stats min/max bounds, and the
// literals embedded in a synthesized transform expression.
type Scalar struct {
	Kind  ScalarKind
	Str   string
	Int   int64 // also carries Byte/Short/Integer/Date(epoch days)/Timestamp(epoch micros)
	Float float64
	Bool  bool
	Bytes []byte
}

func NullScalar(kind ScalarKind) Scalar { return Scalar{Kind: kind} }
func StringScalar(v string) Scalar      { return Scalar{Kind: ScalarString, Str: v} }
func BooleanScalar(v bool) Scalar       { return Scalar{Kind: ScalarBoolean, Bool: v} }
func IntegerScalar(v int32) Scalar      { return Scalar{Kind: ScalarInteger, Int: int64(v)} }
func LongScalar(v int64) Scalar         { return Scalar{Kind: ScalarLong, Int: v} }
func ShortScalar(v int16) Scalar        { return Scalar{Kind: ScalarShort, Int: int64(v)} }
func ByteScalar(v int8) Scalar          { return Scalar{Kind: ScalarByte, Int: int64(v)} }
func DoubleScalar(v float64) Scalar     { return Scalar{Kind: ScalarDouble, Float: v} }
func FloatScalar(v float32) Scalar      { return Scalar{Kind: ScalarFloat, Float: float64(v)} }
func DateScalar(epochDays int32) Scalar { return Scalar{Kind: ScalarDate, Int: int64(epochDays)} }
func TimestampScalar(epochMicros int64) Scalar {
	return Scalar{Kind: ScalarTimestamp, Int: epochMicros}
}
func BinaryScalar(v []byte) Scalar { return Scalar{Kind: ScalarBinary, Bytes: v} }

// IsNull reports whether the scalar represents SQL NULL.
func (s Scalar) IsNull() bool { return s.Kind == ScalarNull }

// compare returns (cmp, ok): ok is false when the two scalars aren't
// comparable (different kinds, either null, or an unsupported kind pairing).
// cmp follows the usual convention: <0, 0, >0.
func compare(a, b Scalar) (int, bool) {
	if a.Kind == ScalarNull || b.Kind == ScalarNull {
		return 0, false
	}
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case ScalarString:
		switch {
		case a.Str < b.Str:
			return -1, true
		case a.Str > b.Str:
			return 1, true
		default:
			return 0, true
		}
	case ScalarBoolean:
		switch {
		case a.Bool == b.Bool:
			return 0, true
		case !a.Bool && b.Bool:
			return -1, true
		default:
			return 1, true
		}
	case ScalarByte, ScalarShort, ScalarInteger, ScalarLong, ScalarDate, ScalarTimestamp:
		switch {
		case a.Int < b.Int:
			return -1, true
		case a.Int > b.Int:
			return 1, true
		default:
			return 0, true
		}
	case ScalarFloat, ScalarDouble:
		switch {
		case a.Float < b.Float:
			return -1, true
		case a.Float > b.Float:
			return 1, true
		default:
			return 0, true
		}
	case ScalarBinary:
		return bytes.Compare(a.Bytes, b.Bytes), true
	default:
		return 0, false
	}
}
