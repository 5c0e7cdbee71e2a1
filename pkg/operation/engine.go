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
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/collision"
	"github.com/walteh/hekit/pkg/progress"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// Skip reasons recorded on results
const (
	ReasonCancelled         = "cancelled"
	ReasonDeclined          = "declined"
	ReasonConfirmAborted    = "confirmation aborted"
	ReasonSameAsSource      = "destination equals source"
	ReasonDestinationExists = "destination exists"
)

// Mode selects whether items are executed, only planned, or confirmed one by
// one.
type Mode int

const (
	ModeExecute Mode = iota
	ModePreview
	ModeInteractive
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeExecute:
		return "execute"
	case ModePreview:
		return "preview"
	case ModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// Phase is the engine lifecycle:
//
//	Idle → Scanning → (Preview | Confirming ⇄ Executing) → Done
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhasePreview
	PhaseConfirming
	PhaseExecuting
	PhaseDone
)

// String returns a string representation of Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScanning:
		return "scanning"
	case PhasePreview:
		return "preview"
	case PhaseConfirming:
		return "confirming"
	case PhaseExecuting:
		return "executing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// 🔧 Options configures an Engine
type Options struct {
	// Scan is the base scan; operations may narrow it (see ScanAdjuster)
	Scan scan.Config
	Mode Mode

	// Confirmer is required in ModeInteractive
	Confirmer Confirmer

	// Reporter defaults to status.New()
	Reporter status.Reporter

	// State is shared with whoever can cancel the run; defaults to a fresh one
	State *progress.State

	// Resolver defaults to a fresh filesystem resolver per run
	Resolver *collision.Resolver

	// ScanOptions are passed to scan.New after the progress option
	ScanOptions []scan.Option
}

// 📋 Run is everything a batch produced
type Run struct {
	Kind    Kind
	Results []status.OperationResult
	Summary status.RunSummary
	Scan    *scan.Result
}

// ⚙️ Engine runs one operation over one scan at a time. Items are processed
// sequentially in candidate order.
type Engine struct {
	opts Options

	phase   atomic.Int32
	running atomic.Bool
}

// 🏭 New creates an engine. All errors are configuration errors.
func New(opts Options) (*Engine, error) {
	switch opts.Mode {
	case ModeExecute, ModePreview:
	case ModeInteractive:
		if opts.Confirmer == nil {
			return nil, errors.Errorf("interactive mode needs a confirmer: %w", status.ErrConfiguration)
		}
	default:
		return nil, errors.Errorf("unknown mode %d: %w", opts.Mode, status.ErrConfiguration)
	}

	if opts.Reporter == nil {
		opts.Reporter = status.New()
	}
	if opts.State == nil {
		opts.State = progress.New()
	}

	return &Engine{opts: opts}, nil
}

// Phase returns the current lifecycle phase
func (e *Engine) Phase() Phase {
	return Phase(e.phase.Load())
}

// State returns the shared progress and cancellation state
func (e *Engine) State() *progress.State {
	return e.opts.State
}

func (e *Engine) Mode() Mode {
	return e.opts.Mode
}

func (e *Engine) setPhase(p Phase) {
	e.phase.Store(int32(p))
}

// 🚀 Run validates op, scans, plans and applies op to every candidate.
//
// Configuration problems are returned before anything is scanned, with a nil
// Run. Per-item problems are recorded on the results; when any item failed
// the Run is returned together with an ErrBatchFailed error. Cancellation is
// not an error: unprocessed items are recorded as skipped.
func (e *Engine) Run(ctx context.Context, op Operation) (*Run, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, errors.New("engine is already running")
	}
	defer e.running.Store(false)

	logger := zerolog.Ctx(ctx)
	start := time.Now()
	e.setPhase(PhaseIdle)

	if op == nil {
		return nil, errors.Errorf("no operation: %w", status.ErrConfiguration)
	}
	if err := op.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", op.Kind(), status.Classify(err, status.ErrConfiguration))
	}

	cfg := e.opts.Scan
	if adj, ok := op.(ScanAdjuster); ok {
		adj.AdjustScan(&cfg)
	}

	scanOpts := append([]scan.Option{scan.WithProgress(e.opts.State)}, e.opts.ScanOptions...)
	scanner, err := scan.New(cfg, scanOpts...)
	if err != nil {
		return nil, errors.Errorf("preparing scan: %w", err)
	}

	e.setPhase(PhaseScanning)
	res, err := scanner.Scan(ctx)
	if err != nil {
		return nil, errors.Errorf("scanning: %w", err)
	}

	cands := res.Candidates
	if p, ok := op.(Preparer); ok {
		if cands, err = p.Prepare(ctx, cands); err != nil {
			return nil, errors.Errorf("preparing %s: %w", op.Kind(), err)
		}
	}

	resolver := e.opts.Resolver
	if resolver == nil {
		resolver = collision.New()
	}

	e.setPhase(e.workPhase())

	total := len(cands)
	e.opts.Reporter.StartOperation(ctx, total)
	e.opts.State.SetTotal(total)

	results := make([]status.OperationResult, 0, total)
	cancelled := res.Cancelled

	for i, cand := range cands {
		index := i + 1

		if !cancelled && e.cancelRequested(ctx) {
			cancelled = true
			logger.Warn().Int("processed", i).Int("total", total).Msg("cancellation requested, skipping remaining items")
		}

		var r status.OperationResult
		if cancelled {
			r = e.skipped(cand, index, ReasonCancelled)
		} else {
			var quit bool
			r, quit = e.process(ctx, op, resolver, cand, index, total)
			if quit {
				cancelled = true
			}
		}

		results = append(results, r)
		if obs, ok := op.(Observer); ok {
			obs.Observe(ctx, r)
		}
		e.opts.Reporter.Track(ctx, r)
		e.opts.Reporter.UpdateProgress(ctx, int(e.opts.State.AddProcessed()))
	}

	e.opts.Reporter.FinishOperation(ctx)

	summary := status.Summarize(results, time.Since(start))
	summary.SkippedDirs = res.SkippedDirs
	summary.Cancelled = cancelled
	summary.Preview = e.opts.Mode == ModePreview

	e.setPhase(PhaseDone)

	logger.Info().
		Str("operation", string(op.Kind())).
		Str("mode", e.opts.Mode.String()).
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Int("skipped_dirs", summary.SkippedDirs).
		Bool("cancelled", summary.Cancelled).
		Dur("elapsed", summary.Elapsed).
		Msg("batch finished")

	run := &Run{
		Kind:    op.Kind(),
		Results: results,
		Summary: summary,
		Scan:    res,
	}

	if summary.Failed > 0 {
		return run, errors.Errorf("%d of %d items failed: %w", summary.Failed, summary.Attempted, status.ErrBatchFailed)
	}
	return run, nil
}

func (e *Engine) workPhase() Phase {
	switch e.opts.Mode {
	case ModePreview:
		return PhasePreview
	case ModeInteractive:
		return PhaseConfirming
	default:
		return PhaseExecuting
	}
}

func (e *Engine) cancelRequested(ctx context.Context) bool {
	return ctx.Err() != nil || e.opts.State.Cancelled()
}

// process plans and, outside preview, applies one item. quit reports that
// the user asked to stop the batch.
func (e *Engine) process(ctx context.Context, op Operation, resolver *collision.Resolver, cand *scan.Candidate, index, total int) (r status.OperationResult, quit bool) {
	logger := zerolog.Ctx(ctx)
	preview := e.opts.Mode == ModePreview

	target, err := op.Target(ctx, cand, index, total)
	if err != nil {
		return e.failed(cand, index, "", status.Classify(err, status.ErrTransform)), false
	}
	if target.SkipReason != "" {
		return e.skipped(cand, index, target.SkipReason), false
	}

	dest := target.Destination
	if dest != "" {
		dest = filepath.Clean(dest)
		if dest == filepath.Clean(cand.Path) {
			return e.skipped(cand, index, ReasonSameAsSource), false
		}
	}

	dest, skipReason, err := e.place(resolver, target.Policy, dest)
	if err != nil {
		return e.failed(cand, index, dest, err), false
	}
	if skipReason != "" {
		r = e.skipped(cand, index, skipReason)
		r.Destination = dest
		return r, false
	}

	if preview {
		return e.succeeded(cand, index, dest), false
	}

	item := &Item{
		Kind:        op.Kind(),
		Index:       index,
		Total:       total,
		Candidate:   cand,
		Destination: dest,
	}

	if e.opts.Mode == ModeInteractive {
		e.setPhase(PhaseConfirming)
		decision, err := e.opts.Confirmer.Confirm(ctx, *item)
		if err != nil {
			logger.Warn().Err(err).Str("source", cand.Path).Msg("confirmation failed, stopping")
			e.release(resolver, dest)
			return e.skipped(cand, index, ReasonConfirmAborted), true
		}

		switch decision {
		case DecisionYes:
		case DecisionQuit:
			e.release(resolver, dest)
			return e.skipped(cand, index, ReasonCancelled), true
		default:
			e.release(resolver, dest)
			return e.skipped(cand, index, ReasonDeclined), false
		}
		e.setPhase(PhaseExecuting)
	}

	if err := op.Apply(ctx, item); err != nil {
		e.release(resolver, dest)
		return e.failed(cand, index, dest, status.Classify(err, status.ErrExecution)), false
	}

	return e.succeeded(cand, index, dest), false
}

// place applies the collision policy to dest and claims the final path.
func (e *Engine) place(resolver *collision.Resolver, policy CollisionPolicy, dest string) (string, string, error) {
	if dest == "" || policy == PolicyNone {
		return dest, "", nil
	}

	switch policy {
	case PolicyDisambiguate:
		if e.opts.Mode == ModePreview {
			// existing files are reported, not renamed around
			if err := resolver.Check(dest); err != nil {
				return dest, "", err
			}
		}
		final, err := resolver.Resolve(dest)
		if err != nil {
			return dest, "", err
		}
		resolver.Claim(final)
		return final, "", nil

	case PolicySkipExisting:
		if resolver.Taken(dest) {
			return dest, ReasonDestinationExists, nil
		}
		resolver.Claim(dest)
		return dest, "", nil

	case PolicyOverwrite:
		if resolver.Claimed(dest) {
			return dest, "", errors.Errorf("destination %s is produced twice in this batch: %w", dest, status.ErrCollision)
		}
		resolver.Claim(dest)
		return dest, "", nil

	default:
		return dest, "", errors.Errorf("unknown collision policy %d: %w", policy, status.ErrConfiguration)
	}
}

func (e *Engine) release(resolver *collision.Resolver, dest string) {
	if dest != "" {
		resolver.Release(dest)
	}
}

func (e *Engine) result(cand *scan.Candidate, index int) status.OperationResult {
	return status.OperationResult{
		Index:   index,
		Source:  cand.Path,
		Preview: e.opts.Mode == ModePreview,
	}
}

func (e *Engine) succeeded(cand *scan.Candidate, index int, dest string) status.OperationResult {
	r := e.result(cand, index)
	r.Destination = dest
	r.Status = status.StatusSuccess
	return r
}

func (e *Engine) skipped(cand *scan.Candidate, index int, reason string) status.OperationResult {
	r := e.result(cand, index)
	r.Status = status.StatusSkipped
	r.Reason = reason
	return r
}

func (e *Engine) failed(cand *scan.Candidate, index int, dest string, err error) status.OperationResult {
	r := e.result(cand, index)
	r.Destination = dest
	r.Status = status.StatusFailed
	r.Err = err
	return r
}
