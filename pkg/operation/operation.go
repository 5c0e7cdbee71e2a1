// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// Kind names an operation
type Kind string

const (
	KindRename   Kind = "rename"
	KindCompress Kind = "compress"
	KindConvert  Kind = "convert"
	KindClean    Kind = "clean"
)

// CollisionPolicy decides what happens when a destination is taken
type CollisionPolicy int

const (
	// PolicyDisambiguate appends `_n` until the destination is free. In
	// preview a taken destination is reported as a collision instead.
	PolicyDisambiguate CollisionPolicy = iota
	// PolicyOverwrite replaces an existing destination
	PolicyOverwrite
	// PolicySkipExisting skips items whose destination exists
	PolicySkipExisting
	// PolicyNone is for operations without a destination
	PolicyNone
)

// String returns a string representation of CollisionPolicy
func (p CollisionPolicy) String() string {
	switch p {
	case PolicyDisambiguate:
		return "disambiguate"
	case PolicyOverwrite:
		return "overwrite"
	case PolicySkipExisting:
		return "skip-existing"
	case PolicyNone:
		return "none"
	default:
		return "unknown"
	}
}

// Target is the planned outcome for one candidate
type Target struct {
	// Destination is empty for operations that only remove
	Destination string
	Policy      CollisionPolicy

	// SkipReason, when set, skips the item without touching it
	SkipReason string
}

// Item is one planned unit of work
type Item struct {
	Kind        Kind
	Index       int // 1-based position in processing order
	Total       int
	Candidate   *scan.Candidate
	Destination string
}

// Source is the candidate path
func (i *Item) Source() string {
	return i.Candidate.Path
}

// 🎯 Operation is what the engine applies to every candidate.
//
// Target must be pure with respect to the filesystem: the engine handles
// collisions. Apply does the work for a single item and must not touch
// anything but the item's source and destination.
type Operation interface {
	Kind() Kind
	Validate() error
	Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error)
	Apply(ctx context.Context, item *Item) error
}

// ScanAdjuster is implemented by operations that constrain the scan (an
// extension filter, directories only, a fixed pattern).
type ScanAdjuster interface {
	AdjustScan(cfg *scan.Config)
}

// Preparer is implemented by operations that need the whole candidate list
// before planning, to reorder it or precompute state. It must return the
// same candidates it was given.
type Preparer interface {
	Prepare(ctx context.Context, cands []*scan.Candidate) ([]*scan.Candidate, error)
}

// Observer is implemented by operations whose later targets depend on how
// earlier items ended. Observe is called once per result, in order.
type Observer interface {
	Observe(ctx context.Context, r status.OperationResult)
}
