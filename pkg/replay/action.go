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

import "strconv"

// FileActionKey identifies the physical file a row's add/remove action
// refers to. Two actions name the same file iff their keys compare equal.
type FileActionKey struct {
	Path       string
	DVUniqueID string
	HasDV      bool
}

// dvUniqueID canonically encodes a deletion-vector triple into a single
// string. Add and remove extraction must derive this identically or dedup
// silently fails (spec design note on seen-set identity).
func dvUniqueID(storageType, pathOrInlineDv string, offset int32, hasOffset bool) string {
	id := storageType + pathOrInlineDv
	if hasOffset {
		id += "@" + strconv.FormatInt(int64(offset), 10)
	}
	return id
}

// The index position in the row getters for the following columns.
const (
	addPathIdx             = 0
	addPartitionValuesIdx  = 1
	addDVStorageTypeIdx    = 2
	addDVPathOrInlineIdx   = 3
	addDVOffsetIdx         = 4
	removePathIdx          = 5
	removeDVStorageTypeIdx = 6
	removeDVPathOrInlineIdx = 7
	removeDVOffsetIdx       = 8
)

// FileActionDeduplicator extracts a FileActionKey from a row and tracks the
// set of keys seen so far across one scan's replay. The seen set is shared
// across every batch of the scan: once a key is inserted it is never removed.
type FileActionDeduplicator struct {
	seen      map[FileActionKey]struct{}
	isLogBatch bool
}

// NewFileActionDeduplicator builds a deduplicator sharing the given seen set
// with the rest of the scan.
func NewFileActionDeduplicator(seen map[FileActionKey]struct{}, isLogBatch bool) *FileActionDeduplicator {
	return &FileActionDeduplicator{seen: seen, isLogBatch: isLogBatch}
}

// IsLogBatch reports whether this batch's removes are semantically live
// (log batch) or mere vacuum tombstones already reconciled (checkpoint batch).
func (d *FileActionDeduplicator) IsLogBatch() bool { return d.isLogBatch }

// ExtractFileAction reads the add/remove columns of row i and classifies it.
// If the add-path getter yields a non-null value, the row is an add. Else if
// the remove-path getter yields a non-null value and skipRemoves is false,
// the row is a remove. Otherwise the row is neither and (key, false, false)
// is returned with ok=false.
func (d *FileActionDeduplicator) ExtractFileAction(i int, getters []GetData, skipRemoves bool) (key FileActionKey, isAdd bool, ok bool) {
	if path, present := getters[addPathIdx].GetString(i); present {
		key := FileActionKey{Path: path}
		storageType, hasST := getters[addDVStorageTypeIdx].GetString(i)
		pathOrInline, hasPI := getters[addDVPathOrInlineIdx].GetString(i)
		offset, hasOffset := getters[addDVOffsetIdx].GetInt(i)
		if hasST || hasPI {
			key.HasDV = true
			key.DVUniqueID = dvUniqueID(storageType, pathOrInline, offset, hasOffset)
		}
		return key, true, true
	}
	if skipRemoves {
		return FileActionKey{}, false, false
	}
	if path, present := getters[removePathIdx].GetString(i); present {
		key := FileActionKey{Path: path}
		storageType, hasST := getters[removeDVStorageTypeIdx].GetString(i)
		pathOrInline, hasPI := getters[removeDVPathOrInlineIdx].GetString(i)
		offset, hasOffset := getters[removeDVOffsetIdx].GetInt(i)
		if hasST || hasPI {
			key.HasDV = true
			key.DVUniqueID = dvUniqueID(storageType, pathOrInline, offset, hasOffset)
		}
		return key, false, true
	}
	return FileActionKey{}, false, false
}

// CheckAndRecordSeen reports whether key was already present in the seen
// set; if not, it records it. Once inserted, a key is never removed within
// a scan.
func (d *FileActionDeduplicator) CheckAndRecordSeen(key FileActionKey) bool {
	if _, seen := d.seen[key]; seen {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}
