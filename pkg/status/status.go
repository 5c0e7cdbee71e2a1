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

package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 📊 Status is the outcome of one item in a batch
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 OperationResult is the per-file outcome of a batch
type OperationResult struct {
	Index       int    // 1-based rank in the sorted candidate list
	Source      string // Source path
	Destination string // Final destination, empty for operations without one
	Status      Status // Outcome
	Reason      string // Why an item was skipped
	Err         error  // Why an item failed
	Preview     bool   // Computed only, nothing was touched
}

// 📈 RunSummary aggregates the results of one batch. It is derived once the
// batch is done and never changed afterwards.
type RunSummary struct {
	Attempted   int
	Succeeded   int
	Failed      int
	Skipped     int
	SkippedDirs int
	Elapsed     time.Duration
	Cancelled   bool
	Preview     bool
}

// 🧮 Summarize derives a RunSummary from a result list
func Summarize(results []OperationResult, elapsed time.Duration) RunSummary {
	sum := RunSummary{Elapsed: elapsed}
	for _, r := range results {
		sum.Attempted++
		switch r.Status {
		case StatusSuccess:
			sum.Succeeded++
		case StatusSkipped:
			sum.Skipped++
		case StatusFailed:
			sum.Failed++
		}
		if r.Preview {
			sum.Preview = true
		}
	}
	return sum
}

// 📢 Reporter tracks item outcomes and reports batch progress
type Reporter interface {
	// Result tracking
	Track(ctx context.Context, result OperationResult)
	Results(ctx context.Context) []OperationResult

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager is the default Reporter. It keeps every tracked result in order
// and writes progress through the context logger.
type Manager struct {
	formatter FileFormatter

	mu      sync.RWMutex
	results []OperationResult

	total     int
	processed int
}

var _ Reporter = (*Manager)(nil)

// 🏭 New creates a new status manager
func New() *Manager {
	return &Manager{
		formatter: NewDefaultFileFormatter(),
	}
}

func (m *Manager) Track(ctx context.Context, result OperationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, result)

	logger := zerolog.Ctx(ctx)
	evt := logger.Info()
	switch result.Status {
	case StatusFailed:
		evt = logger.Warn().Err(result.Err)
	case StatusSkipped:
		evt = logger.Debug().Str("reason", result.Reason)
	}
	evt.
		Int("index", result.Index).
		Str("source", result.Source).
		Str("destination", result.Destination).
		Str("status", result.Status.String()).
		Bool("preview", result.Preview).
		Msg(m.formatter.FormatResult(result))
}

func (m *Manager) Results(ctx context.Context) []OperationResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]OperationResult, len(m.results))
	copy(out, m.results)
	return out
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.results = nil
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Progress returns the last reported progress
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
