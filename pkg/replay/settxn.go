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
	"github.com/deltareplay/kernel/pkg/replay/expr"
	"github.com/deltareplay/kernel/pkg/replay/rlog"
)

// SetTransaction is one application's idempotent-write marker.
type SetTransaction struct {
	AppID       string
	Version     int64
	LastUpdated *int64
}

// SetTransactionMap collects one SetTransaction per application id.
type SetTransactionMap map[string]SetTransaction

// setTransactionVisitor inserts only when an app id is absent: newest-first
// log order means the first occurrence of an app id is authoritative.
type setTransactionVisitor struct {
	filterAppID *string
	found       SetTransactionMap
}

func (v *setTransactionVisitor) SelectedColumnNamesAndTypes() ([]string, []expr.DataType) {
	return []string{"txn.appId", "txn.version", "txn.lastUpdated"}, []expr.DataType{expr.String, expr.Long, expr.Long}
}

func (v *setTransactionVisitor) Visit(rowCount int, getters []GetData) error {
	for i := 0; i < rowCount; i++ {
		appID, ok := getters[0].GetString(i)
		if !ok {
			continue
		}
		if v.filterAppID != nil && appID != *v.filterAppID {
			continue
		}
		if _, seen := v.found[appID]; seen {
			continue
		}
		version, _ := getters[1].GetLong(i)
		var lastUpdated *int64
		if lu, ok := getters[2].GetLong(i); ok {
			lastUpdated = &lu
		}
		v.found[appID] = SetTransaction{AppID: appID, Version: version, LastUpdated: lastUpdated}
	}
	return nil
}

// SetTransactionScanner replays the log's txn actions into a map of the
// latest (i.e. first-seen, since the stream is newest-first) SetTransaction
// per application id.
type SetTransactionScanner struct {
	logReader LogReader
	engine    Engine
	opts      ReplayOptions
}

// NewSetTransactionScanner builds a scanner reading through logReader. opts
// bounds how many upcoming log batches are buffered ahead of the scan
// (spec §2.3); pass DefaultReplayOptions() for the module's own defaults.
func NewSetTransactionScanner(engine Engine, logReader LogReader, opts ReplayOptions) *SetTransactionScanner {
	return &SetTransactionScanner{logReader: logReader, engine: engine, opts: opts}
}

// ApplicationTransaction looks up a single application id, terminating the
// log scan as soon as any batch has populated an entry for it (spec §4.7).
// It does not filter the log reader by app id; the meta-predicate only ever
// filters by "has any txn action at all", since txn ids cluster too widely
// within a checkpoint part for a per-id range to help.
func (s *SetTransactionScanner) ApplicationTransaction(physicalSchema, logicalSchema *expr.StructType, appID string) (*SetTransaction, error) {
	found, err := s.scan(physicalSchema, logicalSchema, &appID)
	if err != nil {
		return nil, err
	}
	if txn, ok := found[appID]; ok {
		return &txn, nil
	}
	return nil, nil
}

// ApplicationTransactions drains the full log and returns every application
// id's latest transaction.
func (s *SetTransactionScanner) ApplicationTransactions(physicalSchema, logicalSchema *expr.StructType) (SetTransactionMap, error) {
	return s.scan(physicalSchema, logicalSchema, nil)
}

func (s *SetTransactionScanner) scan(physicalSchema, logicalSchema *expr.StructType, filterAppID *string) (SetTransactionMap, error) {
	source, err := s.logReader.ReadActions(s.engine, physicalSchema, logicalSchema, TxnMetaPredicate())
	if err != nil {
		return nil, err
	}
	found := make(SetTransactionMap)
	var queue []pulledBatch
	exhausted := false
	for {
		var err error
		queue, err = fillReadAhead(queue, &exhausted, source, s.opts)
		if err != nil {
			return nil, err
		}
		if len(queue) == 0 {
			return found, nil
		}
		p := queue[0]
		queue = queue[1:]
		v := &setTransactionVisitor{filterAppID: filterAppID, found: found}
		if err := p.batch.VisitRows(v); err != nil {
			return nil, err
		}
		if filterAppID != nil {
			if _, ok := found[*filterAppID]; ok {
				rlog.Debug("[settxn]", "early-terminating application_transaction scan")
				return found, nil
			}
		}
	}
}
