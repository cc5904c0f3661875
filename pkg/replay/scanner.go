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
)

// PhysicalPredicate pairs a predicate expression with the physical schema
// it is written against, the unit LogReplayScanner needs to build both its
// partition filter and its data-skipping filter.
type PhysicalPredicate struct {
	Expr   expr.Expression
	Schema *expr.StructType
}

// LogReplayScanner carries the state that must survive across every batch
// of one scan: the seen set, the optional partition filter, and the
// optional data-skipping filter. It is not safe for concurrent use; one
// scanner belongs to exactly one scan.
type LogReplayScanner struct {
	partitionFilter    *expr.Expression
	dataSkippingFilter *DataSkippingFilter
	seen               map[FileActionKey]struct{}
}

// NewLogReplayScanner builds a scanner for one scan. physicalPredicate may
// be nil if the scan has no predicate to push down. opts tunes the
// data-skipping decode buffer (spec §2.3); pass DefaultReplayOptions() for
// the module's own defaults.
func NewLogReplayScanner(physicalPredicate *PhysicalPredicate, opts ReplayOptions) (*LogReplayScanner, error) {
	s := &LogReplayScanner{seen: make(map[FileActionKey]struct{})}
	if physicalPredicate != nil {
		e := physicalPredicate.Expr
		s.partitionFilter = &e
		filter, err := NewDataSkippingFilter(physicalPredicate.Expr, physicalPredicate.Schema, opts)
		if err != nil {
			return nil, err
		}
		s.dataSkippingFilter = filter
	}
	return s, nil
}

// ProcessScanBatch runs data skipping, dedup/pruning, and the fixed
// add-to-scan-row projection over one batch (spec §4.6). addTransform is
// the evaluator bound to AddTransformExpr/LogAddSchema/ScanRowDataType.
func (s *LogReplayScanner) ProcessScanBatch(
	addTransform Evaluator,
	actions EngineData,
	logicalSchema *expr.StructType,
	transform Transform,
	hasTransform bool,
	isLogBatch bool,
) (ScanData, error) {
	var sel []bool
	if s.dataSkippingFilter != nil {
		vec, err := s.dataSkippingFilter.Apply(actions)
		if err != nil {
			return ScanData{}, err
		}
		sel = vec.ToBools()
	} else {
		sel = make([]bool, actions.Len())
		for i := range sel {
			sel[i] = true
		}
	}

	visitor := NewAddRemoveDedupVisitor(s.seen, sel, logicalSchema, transform, hasTransform, s.partitionFilter, isLogBatch)
	if err := actions.VisitRows(visitor); err != nil {
		return ScanData{}, err
	}

	projected, err := addTransform.Evaluate(actions)
	if err != nil {
		return ScanData{}, err
	}
	return ScanData{
		Batch:             projected,
		SelectionVector:   visitor.SelectionVector(),
		RowTransformExprs: visitor.RowTransforms(),
	}, nil
}

func anyTrue(sel []bool) bool {
	for _, b := range sel {
		if b {
			return true
		}
	}
	return false
}

// pulledBatch is one batch buffered ahead of consumption by the read-ahead
// queue ScanActionIter and SetTransactionScanner.scan both use.
type pulledBatch struct {
	batch      EngineData
	isLogBatch bool
}

// fillReadAhead keeps queue topped up to opts.readAhead()+1 entries (the
// one in flight plus the configured look-ahead depth) by repeatedly pulling
// from source, stopping once source reports exhaustion.
func fillReadAhead(queue []pulledBatch, exhausted *bool, source ActionSource, opts ReplayOptions) ([]pulledBatch, error) {
	for !*exhausted && len(queue) <= opts.readAhead() {
		batch, isLogBatch, err := source()
		if err != nil {
			return queue, err
		}
		if batch == nil {
			*exhausted = true
			break
		}
		queue = append(queue, pulledBatch{batch: batch, isLogBatch: isLogBatch})
	}
	return queue, nil
}

// ScanActionIter drives scan_action_iter (spec §4.6): it binds the
// add-to-scan-row evaluator once, then pulls batches newest-first from
// source through a read-ahead queue bounded by opts.ReadAheadFiles,
// processing each through scanner. Emissions whose selection vector has no
// true bit are dropped; the decision to still compute and discard the
// transform list for such a batch follows the documented open-question
// resolution (see DESIGN.md): transform state for an all-false batch is
// simply never observed by any caller, so dropping it is safe.
func ScanActionIter(
	engine Engine,
	source ActionSource,
	logicalSchema *expr.StructType,
	transform Transform,
	hasTransform bool,
	physicalPredicate *PhysicalPredicate,
	opts ReplayOptions,
) (func() (ScanData, bool, error), error) {
	scanner, err := NewLogReplayScanner(physicalPredicate, opts)
	if err != nil {
		return nil, err
	}
	addTransform := engine.GetExpressionHandler().GetEvaluator(LogAddSchema(), AddTransformExpr(), ScanRowDataType())

	var queue []pulledBatch
	exhausted := false

	next := func() (ScanData, bool, error) {
		for {
			var err error
			queue, err = fillReadAhead(queue, &exhausted, source, opts)
			if err != nil {
				return ScanData{}, false, err
			}
			if len(queue) == 0 {
				return ScanData{}, false, nil
			}
			p := queue[0]
			queue = queue[1:]
			data, err := scanner.ProcessScanBatch(addTransform, p.batch, logicalSchema, transform, hasTransform, p.isLogBatch)
			if err != nil {
				return ScanData{}, false, err
			}
			if !anyTrue(data.SelectionVector) {
				continue
			}
			return data, true, nil
		}
	}
	return next, nil
}
