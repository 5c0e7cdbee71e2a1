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

// Package progress holds the counters and the cancellation flag shared by the
// scanner, the engine and whatever renders progress to the user.
package progress

import (
	"sync/atomic"
)

// State is safe for concurrent use. The zero value is ready to use.
type State struct {
	cancelled atomic.Bool

	dirsVisited atomic.Int64
	candidates  atomic.Int64
	processed   atomic.Int64
	total       atomic.Int64
}

// Snapshot is a point-in-time copy of State
type Snapshot struct {
	DirsVisited int64
	Candidates  int64
	Processed   int64
	Total       int64
	Cancelled   bool
}

// 🏭 New creates a fresh progress state
func New() *State {
	return &State{}
}

// 🛑 Cancel requests cancellation. It is idempotent.
func (s *State) Cancel() {
	if s == nil {
		return
	}
	s.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called. A nil State is never cancelled.
func (s *State) Cancelled() bool {
	if s == nil {
		return false
	}
	return s.cancelled.Load()
}

func (s *State) AddDirVisited() int64 {
	if s == nil {
		return 0
	}
	return s.dirsVisited.Add(1)
}

func (s *State) AddCandidate() int64 {
	if s == nil {
		return 0
	}
	return s.candidates.Add(1)
}

func (s *State) AddProcessed() int64 {
	if s == nil {
		return 0
	}
	return s.processed.Add(1)
}

func (s *State) SetTotal(n int) {
	if s == nil {
		return
	}
	s.total.Store(int64(n))
	s.processed.Store(0)
}

func (s *State) DirsVisited() int64 {
	if s == nil {
		return 0
	}
	return s.dirsVisited.Load()
}

func (s *State) Candidates() int64 {
	if s == nil {
		return 0
	}
	return s.candidates.Load()
}

func (s *State) Processed() int64 {
	if s == nil {
		return 0
	}
	return s.processed.Load()
}

func (s *State) Total() int64 {
	if s == nil {
		return 0
	}
	return s.total.Load()
}

// 📸 Snapshot returns the current counters
func (s *State) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		DirsVisited: s.dirsVisited.Load(),
		Candidates:  s.candidates.Load(),
		Processed:   s.processed.Load(),
		Total:       s.total.Load(),
		Cancelled:   s.cancelled.Load(),
	}
}
