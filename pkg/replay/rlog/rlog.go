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

// Package rlog is a package-scoped zap logger, standing in for the
// teacher's internal logutil package (which isn't importable outside
// matrixone). Log replay never fails a batch because of a logging call; this
// package only records the advisory conditions spec §7 calls out as
// non-errors.
package rlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// SetLogger installs the process-wide logger. Call once at startup; the
// zero value is a no-op logger so tests don't need to call this at all.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Warn logs an advisory condition under the given bracketed component tag,
// e.g. rlog.Warn("[skipping]", "unparseable stats json", zap.String("path", p)).
func Warn(tag, msg string, fields ...zap.Field) {
	get().Warn(tag+" "+msg, fields...)
}

// Debug logs a non-advisory diagnostic, e.g. early-termination decisions.
func Debug(tag, msg string, fields ...zap.Field) {
	get().Debug(tag+" "+msg, fields...)
}
