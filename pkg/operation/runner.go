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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/walteh/hekit/pkg/progress"
)

// DefaultProgressInterval is how often the runner samples progress
const DefaultProgressInterval = 100 * time.Millisecond

// ProgressFunc receives progress samples while a batch runs. The last call
// happens after the batch finished.
type ProgressFunc func(progress.Snapshot)

// 🏃 OperationRunner runs an operation on an engine, optionally sampling
// progress alongside it.
type OperationRunner struct {
	engine     *Engine
	interval   time.Duration
	onProgress ProgressFunc
}

// 🏗️ NewRunner creates a new runner. A nil onProgress runs synchronously.
func NewRunner(engine *Engine, interval time.Duration, onProgress ProgressFunc) *OperationRunner {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &OperationRunner{
		engine:     engine,
		interval:   interval,
		onProgress: onProgress,
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) (*Run, error) {
	if r.onProgress != nil {
		return r.runAsync(ctx, op)
	}
	return r.runSync(ctx, op)
}

// 🔄 runSync runs an operation synchronously
func (r *OperationRunner) runSync(ctx context.Context, op Operation) (*Run, error) {
	return r.engine.Run(ctx, op)
}

// ⚡ runAsync runs the engine and a progress sampler side by side
func (r *OperationRunner) runAsync(ctx context.Context, op Operation) (*Run, error) {
	var (
		run    *Run
		runErr error
		done   = make(chan struct{})
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		defer close(done)
		run, runErr = r.engine.Run(ctx, op)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				r.onProgress(r.engine.State().Snapshot())
				return nil
			case <-ticker.C:
				r.onProgress(r.engine.State().Snapshot())
			}
		}
	})

	_ = g.Wait()
	return run, runErr
}
