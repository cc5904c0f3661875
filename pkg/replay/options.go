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

// ReplayOptions is the one knob the domain stack needs even though the core
// itself is a pure function of its inputs: how many log segment batches to
// keep resident ahead of the consumer, and how large a buffer to hand the
// stats JSON decoder. Mirrors the teacher's small option structs passed to
// New* constructors (fileservice.Config, NewTxnTable(blockSize int, ...)).
type ReplayOptions struct {
	// ReadAheadFiles bounds how many upcoming batches ScanActionIter and
	// SetTransactionScanner pull from their action source before the
	// caller has consumed the current one. Zero means no read-ahead: one
	// batch pulled at a time. Negative values are treated as zero.
	ReadAheadFiles int

	// StatsDecodeBufferSize sizes the byte buffer DataSkippingFilter hands
	// jsoniter when parsing add.stats. Zero or negative falls back to a
	// small default buffer.
	StatsDecodeBufferSize int
}

// DefaultReplayOptions returns the tuning this module uses when the caller
// has no specific need to override it.
func DefaultReplayOptions() ReplayOptions {
	return ReplayOptions{
		ReadAheadFiles:        4,
		StatsDecodeBufferSize: 4096,
	}
}

func (o ReplayOptions) readAhead() int {
	if o.ReadAheadFiles < 0 {
		return 0
	}
	return o.ReadAheadFiles
}

func (o ReplayOptions) statsBufferSize() int {
	if o.StatsDecodeBufferSize <= 0 {
		return 512
	}
	return o.StatsDecodeBufferSize
}
