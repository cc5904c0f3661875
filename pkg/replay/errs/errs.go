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

// Package errs mirrors the teacher's moerr convention (typed, wrapped error
// constructors) but is built directly on cockroachdb/errors, since moerr
// itself lives inside the matrixone module and isn't importable from here.
package errs

import (
	"github.com/cockroachdb/errors"
)

// Kind tags an error with one of the categories log replay distinguishes in
// its propagation policy.
type Kind int

const (
	// KindInternal marks an invariant violation: wrong getter count, missing
	// partition value for a required field, out-of-bounds field index.
	KindInternal Kind = iota
	// KindInvalidPartitionValue marks an unparseable partition string for a
	// declared type.
	KindInvalidPartitionValue
	// KindGeneric marks a malformed predicate rejected before evaluation,
	// e.g. a Compare/Not/IsNull node with the wrong number of children.
	KindGeneric
)

type replayError struct {
	kind Kind
	error
}

// NewInternalError reports an invariant violation inside the core.
func NewInternalError(format string, args ...any) error {
	return &replayError{kind: KindInternal, error: errors.Newf(format, args...)}
}

// NewInvalidPartitionValue reports an unparseable partition string.
func NewInvalidPartitionValue(format string, args ...any) error {
	return &replayError{kind: KindInvalidPartitionValue, error: errors.Newf(format, args...)}
}

// NewGeneric reports a predicate rejected as malformed before evaluation.
func NewGeneric(format string, args ...any) error {
	return &replayError{kind: KindGeneric, error: errors.Newf(format, args...)}
}

// Wrap attaches context to an underlying engine/IO error without changing its
// kind classification; such errors propagate unchanged per the error model.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// KindOf reports the Kind of err, if it was constructed by this package.
func KindOf(err error) (Kind, bool) {
	var re *replayError
	if errors.As(err, &re) {
		return re.kind, true
	}
	return 0, false
}

// Unwrap lets errors.Is / errors.As see through the kind wrapper.
func (e *replayError) Unwrap() error { return e.error }
