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
	"github.com/deltareplay/kernel/pkg/replay/testengine"
)

func TestExtractFileActionAdd(t *testing.T) {
	row := testengine.Row{"add.path": "f1.parquet"}
	getters := testengine.Getters(replay.LogAddRemoveColumnNames(true), []testengine.Row{row})
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, true)
	key, isAdd, ok := dedup.ExtractFileAction(0, getters, false)
	require.True(t, ok)
	require.True(t, isAdd)
	require.Equal(t, "f1.parquet", key.Path)
	require.False(t, key.HasDV)
}

func TestExtractFileActionRemove(t *testing.T) {
	row := testengine.Row{
		"remove.path":                         "f2.parquet",
		"remove.deletionVector.storageType":   "uuid",
		"remove.deletionVector.pathOrInlineDv": "abc",
		"remove.deletionVector.offset":         int32(3),
	}
	getters := testengine.Getters(replay.LogAddRemoveColumnNames(true), []testengine.Row{row})
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, true)
	key, isAdd, ok := dedup.ExtractFileAction(0, getters, false)
	require.True(t, ok)
	require.False(t, isAdd)
	require.Equal(t, "f2.parquet", key.Path)
	require.True(t, key.HasDV)
	require.Equal(t, "uuidabc@3", key.DVUniqueID)
}

func TestExtractFileActionSkipRemoves(t *testing.T) {
	row := testengine.Row{"remove.path": "f2.parquet"}
	getters := testengine.Getters(replay.LogAddRemoveColumnNames(true), []testengine.Row{row})
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, false)
	_, _, ok := dedup.ExtractFileAction(0, getters, true)
	require.False(t, ok)
}

func TestExtractFileActionNeither(t *testing.T) {
	row := testengine.Row{}
	getters := testengine.Getters(replay.LogAddRemoveColumnNames(true), []testengine.Row{row})
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, true)
	_, _, ok := dedup.ExtractFileAction(0, getters, false)
	require.False(t, ok)
}

func TestCheckAndRecordSeen(t *testing.T) {
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, true)
	key := replay.FileActionKey{Path: "f1.parquet"}
	require.False(t, dedup.CheckAndRecordSeen(key))
	require.True(t, dedup.CheckAndRecordSeen(key))
}

func TestDVUniqueIDDerivationMatchesAcrossAddAndRemove(t *testing.T) {
	addRow := testengine.Row{
		"add.path":                           "f3.parquet",
		"add.deletionVector.storageType":     "uuid",
		"add.deletionVector.pathOrInlineDv":   "xyz",
		"add.deletionVector.offset":           int32(7),
	}
	removeRow := testengine.Row{
		"remove.path":                         "f3.parquet",
		"remove.deletionVector.storageType":   "uuid",
		"remove.deletionVector.pathOrInlineDv": "xyz",
		"remove.deletionVector.offset":         int32(7),
	}
	names := replay.LogAddRemoveColumnNames(true)
	addGetters := testengine.Getters(names, []testengine.Row{addRow})
	removeGetters := testengine.Getters(names, []testengine.Row{removeRow})
	dedup := replay.NewFileActionDeduplicator(map[replay.FileActionKey]struct{}{}, true)
	addKey, _, _ := dedup.ExtractFileAction(0, addGetters, false)
	removeKey, _, _ := dedup.ExtractFileAction(0, removeGetters, false)
	require.Equal(t, addKey, removeKey)
}
