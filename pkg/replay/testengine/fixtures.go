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

package testengine

import "github.com/google/uuid"

// syntheticDV returns a deletion-vector triple that exercises a distinct,
// stable dv_unique_id per fixture file, in place of a real engine's
// generated inline DVs.
func syntheticDV(seed string) (storageType, pathOrInlineDv string) {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	return "uuid", id.String()
}

// BasicPartitioned is an empty partitioned table with no commits beyond its
// initial metadata/protocol actions: no file actions, no txn actions.
func BasicPartitioned() []BatchSpec {
	return []BatchSpec{
		{Rows: []Row{{}}, IsLogBatch: true},
	}
}

// AppTxnNoCheckpoint is a commit-only log recording two applications' write
// transactions, newest-first.
func AppTxnNoCheckpoint() []BatchSpec {
	return []BatchSpec{
		{Rows: []Row{{"txn.appId": "my-app2", "txn.version": int64(2)}}, IsLogBatch: true},
		{Rows: []Row{{"txn.appId": "my-app", "txn.version": int64(3), "txn.lastUpdated": int64(1000)}}, IsLogBatch: true},
	}
}

// AppTxnCheckpoint is the same two applications reconciled through a
// checkpoint part instead of individual commits.
func AppTxnCheckpoint() []BatchSpec {
	return []BatchSpec{
		{Rows: []Row{
			{"txn.appId": "my-app2", "txn.version": int64(2)},
			{"txn.appId": "my-app", "txn.version": int64(3), "txn.lastUpdated": int64(1000)},
		}, IsLogBatch: false},
	}
}

// FivePartCheckpoint simulates a checkpoint split into five single-action
// parts, only two of which contain a txn action.
func FivePartCheckpoint() []BatchSpec {
	return []BatchSpec{
		{Rows: []Row{{"add.path": "p0.parquet"}}, IsLogBatch: false},
		{Rows: []Row{{"txn.appId": "app-a", "txn.version": int64(1)}}, IsLogBatch: false},
		{Rows: []Row{{"add.path": "p2.parquet"}}, IsLogBatch: false},
		{Rows: []Row{{"txn.appId": "app-b", "txn.version": int64(1)}}, IsLogBatch: false},
		{Rows: []Row{{"add.path": "p4.parquet"}}, IsLogBatch: false},
	}
}

// RemoveSuppressionBatch is a single log batch where a remove suppresses a
// duplicate add for the same file, and a second add survives.
func RemoveSuppressionBatch() []BatchSpec {
	dvStorage, dvPath := syntheticDV("remove-suppression/f1")
	return []BatchSpec{
		{Rows: []Row{
			{"remove.path": "f1.parquet", "remove.deletionVector.storageType": dvStorage, "remove.deletionVector.pathOrInlineDv": dvPath},
			{"remove.path": "f1.parquet", "remove.deletionVector.storageType": dvStorage, "remove.deletionVector.pathOrInlineDv": dvPath},
			{"add.path": "f1.parquet", "add.deletionVector.storageType": dvStorage, "add.deletionVector.pathOrInlineDv": dvPath},
			{"add.path": "f2.parquet"},
		}, IsLogBatch: true},
	}
}

// PartitionTransformBatch is a 4-row batch interleaving non-file actions
// with two partitioned adds, for exercising transform synthesis.
func PartitionTransformBatch() []BatchSpec {
	return []BatchSpec{
		{Rows: []Row{
			{},
			{"add.path": "f1.parquet", "add.size": int64(100), "add.partitionValues": map[string]string{"date": "2018-01-01"}},
			{},
			{"add.path": "f2.parquet", "add.size": int64(200), "add.partitionValues": map[string]string{"date": "2017-12-31"}},
		}, IsLogBatch: true},
	}
}
