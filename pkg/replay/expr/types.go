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

// Package expr provides the minimal physical/logical expression and scalar
// types the log-replay core needs: column references, literals, struct
// construction for transform synthesis, and the three-valued predicates used
// by data skipping and partition pruning. It deliberately does not attempt
// to be a general expression evaluator for an execution engine — that job
// belongs to the external engine collaborator (spec §1, §6).
package expr

// DataKind is a closed sum of the primitive and container types partition
// values, stats, and scan rows are built from.
type DataKind int

const (
	KindString DataKind = iota
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindDate
	KindTimestamp
	KindBinary
	KindMap
	KindStruct
)

// DataType describes the type of a column or scalar. Map and Struct carry
// their element/field descriptions; all other kinds are self-contained.
type DataType struct {
	Kind DataKind

	// Map
	KeyType, ValueType *DataType
	ValueContainsNull  bool

	// Struct
	Fields []StructField
}

// StructField is one field of a Struct DataType or schema.
type StructField struct {
	Name     string
	Type     DataType
	Nullable bool
}

var (
	String    = DataType{Kind: KindString}
	Byte      = DataType{Kind: KindByte}
	Short     = DataType{Kind: KindShort}
	Integer   = DataType{Kind: KindInteger}
	Long      = DataType{Kind: KindLong}
	Float     = DataType{Kind: KindFloat}
	Double    = DataType{Kind: KindDouble}
	Boolean   = DataType{Kind: KindBoolean}
	Date      = DataType{Kind: KindDate}
	Timestamp = DataType{Kind: KindTimestamp}
	Binary    = DataType{Kind: KindBinary}
)

// NewMapType builds a Map(keyType, valueType) data type.
func NewMapType(key, value DataType, valueContainsNull bool) DataType {
	k, v := key, value
	return DataType{Kind: KindMap, KeyType: &k, ValueType: &v, ValueContainsNull: valueContainsNull}
}

// NewStructType builds a Struct(fields...) data type.
func NewStructType(fields ...StructField) DataType {
	return DataType{Kind: KindStruct, Fields: fields}
}

// NullableField is shorthand for a nullable StructField.
func NullableField(name string, t DataType) StructField {
	return StructField{Name: name, Type: t, Nullable: true}
}

// Field is shorthand for a non-nullable StructField.
func Field(name string, t DataType) StructField {
	return StructField{Name: name, Type: t, Nullable: false}
}

// StructType is the schema type used for logical/physical schemas.
type StructType struct {
	Fields []StructField
}

// NewSchema builds a StructType from fields, matching teacher-style
// constructors that take an ordered field list.
func NewSchema(fields ...StructField) *StructType {
	return &StructType{Fields: fields}
}

// FieldAt returns the field at a logical schema index, used by partition
// value parsing to resolve a transform's field_idx to a physical name.
func (s *StructType) FieldAt(idx int) (StructField, bool) {
	if s == nil || idx < 0 || idx >= len(s.Fields) {
		return StructField{}, false
	}
	return s.Fields[idx], true
}
