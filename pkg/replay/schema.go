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
	"sync"

	"github.com/deltareplay/kernel/pkg/replay/expr"
)

// scanRowSchema, scanRowType, addTransformExpr and the txn schema are
// process-wide immutables built on first use (spec design note on static
// schemas): engine-side evaluator caching depends on them being addressable
// by a stable identity rather than rebuilt per scan.
var (
	scanRowOnce   sync.Once
	scanRowSchema *expr.StructType
	scanRowType   expr.DataType

	addTransformOnce sync.Once
	addTransformExpr expr.Expression

	logAddSchemaOnce sync.Once
	logAddSchemaVal  *expr.StructType

	txnSchemaOnce sync.Once
	txnSchemaVal  *expr.StructType

	txnMetaPredicateOnce sync.Once
	txnMetaPredicateVal  expr.Expression
)

// ScanRowSchema returns the bit-exact, stable scan-row output schema (§6).
// Field order is load-bearing: downstream visitors index into it positionally.
func ScanRowSchema() *expr.StructType {
	scanRowOnce.Do(func() {
		partitionValues := expr.NewMapType(expr.String, expr.String, true)
		fileConstantValues := expr.NewStructType(
			expr.NullableField("partitionValues", partitionValues),
		)
		deletionVector := expr.NewStructType(
			expr.NullableField("storageType", expr.String),
			expr.NullableField("pathOrInlineDv", expr.String),
			expr.NullableField("offset", expr.Integer),
			expr.NullableField("sizeInBytes", expr.Integer),
			expr.NullableField("cardinality", expr.Long),
		)
		scanRowSchema = expr.NewSchema(
			expr.NullableField("path", expr.String),
			expr.NullableField("size", expr.Long),
			expr.NullableField("modificationTime", expr.Long),
			expr.NullableField("stats", expr.String),
			expr.NullableField("deletionVector", expr.DataType{Kind: expr.KindStruct, Fields: deletionVector.Fields}),
			expr.NullableField("fileConstantValues", expr.DataType{Kind: expr.KindStruct, Fields: fileConstantValues.Fields}),
		)
		scanRowType = expr.DataType{Kind: expr.KindStruct, Fields: scanRowSchema.Fields}
	})
	return scanRowSchema
}

// ScanRowDataType is ScanRowSchema expressed as a DataType, for use as an
// evaluator's output type.
func ScanRowDataType() expr.DataType {
	ScanRowSchema()
	return scanRowType
}

// AddTransformExpr is the fixed projection Struct(add.path, add.size,
// add.modificationTime, add.stats, add.deletionVector,
// Struct(add.partitionValues)) that reshapes raw add columns into the
// scan-row schema (§6).
func AddTransformExpr() expr.Expression {
	addTransformOnce.Do(func() {
		addTransformExpr = expr.Struct(
			expr.Column("add.path"),
			expr.Column("add.size"),
			expr.Column("add.modificationTime"),
			expr.Column("add.stats"),
			expr.Column("add.deletionVector"),
			expr.Struct(expr.Column("add.partitionValues")),
		)
	})
	return addTransformExpr
}

// LogAddSchema is the physical schema of the add columns the projection
// above reads from, used as the evaluator's input schema.
func LogAddSchema() *expr.StructType {
	logAddSchemaOnce.Do(func() {
		deletionVector := expr.NewStructType(
			expr.NullableField("storageType", expr.String),
			expr.NullableField("pathOrInlineDv", expr.String),
			expr.NullableField("offset", expr.Integer),
			expr.NullableField("sizeInBytes", expr.Integer),
			expr.NullableField("cardinality", expr.Long),
		)
		logAddSchemaVal = expr.NewSchema(
			expr.NullableField("path", expr.String),
			expr.NullableField("partitionValues", expr.NewMapType(expr.String, expr.String, true)),
			expr.NullableField("size", expr.Long),
			expr.NullableField("modificationTime", expr.Long),
			expr.NullableField("stats", expr.String),
			expr.NullableField("deletionVector", expr.DataType{Kind: expr.KindStruct, Fields: deletionVector.Fields}),
		)
	})
	return logAddSchemaVal
}

// TxnSchema is the projection of a txn action: {appId, version, lastUpdated}.
func TxnSchema() *expr.StructType {
	txnSchemaOnce.Do(func() {
		txnSchemaVal = expr.NewSchema(
			expr.NullableField("appId", expr.String),
			expr.NullableField("version", expr.Long),
			expr.NullableField("lastUpdated", expr.Long),
		)
	})
	return txnSchemaVal
}

// TxnMetaPredicate is the data-skipping hint `txn.appId IS NOT NULL` passed
// to the log reader so checkpoint parts with no txn action can be elided.
// It is advisory only: it never filters by a specific app id (§4.7).
func TxnMetaPredicate() expr.Expression {
	txnMetaPredicateOnce.Do(func() {
		txnMetaPredicateVal = expr.IsNotNull(expr.Column("txn.appId"))
	})
	return txnMetaPredicateVal
}
