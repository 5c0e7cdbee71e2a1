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

package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/cmd/hekit/opts"
	"github.com/walteh/hekit/pkg/config"
	"github.com/walteh/hekit/pkg/log"
	"github.com/walteh/hekit/pkg/operation"
	"github.com/walteh/hekit/pkg/progress"
	"github.com/walteh/hekit/pkg/status"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// 🏃 Execute runs job and prints its results to out
func Execute(ctx context.Context, root *opts.RootOpts, job *config.Job, out io.Writer) error {
	logger := zerolog.Ctx(ctx)

	engineOpts, op, err := job.Options()
	if err != nil {
		return err
	}

	tty := IsTerminal(out)
	state := progress.New()
	engineOpts.State = state

	console := log.New(out, *logger)
	manager := status.New()
	showProgress := root.Progress && tty
	if showProgress {
		engineOpts.Reporter = manager
	} else {
		engineOpts.Reporter = log.NewReporter(console, manager)
	}

	if engineOpts.Mode == operation.ModeInteractive {
		if !tty {
			return errors.Errorf("interactive mode needs a terminal: %w", status.ErrConfiguration)
		}
		engineOpts.Confirmer = newSelectConfirmer(engineOpts.Scan.Root)
	}

	engine, err := operation.New(engineOpts)
	if err != nil {
		return err
	}

	var onProgress operation.ProgressFunc
	view := &progressView{phase: engine.Phase}
	if showProgress {
		onProgress = view.Update
		stop := watchKeys(ctx, state)
		defer stop()
	}

	absRoot, err := filepath.Abs(engineOpts.Scan.Root)
	if err != nil {
		absRoot = engineOpts.Scan.Root
	}

	console.Header(job.String())
	console.StartBatch(ctx, log.Batch{
		Operation: string(op.Kind()),
		Root:      absRoot,
		Mode:      engineOpts.Mode.String(),
	})
	if engineOpts.Mode == operation.ModePreview {
		console.Info("preview only, nothing is changed on disk")
	}
	if showProgress {
		console.Info("press q or esc to cancel")
	}

	run, err := operation.NewRunner(engine, operation.DefaultProgressInterval, onProgress).Run(ctx, op)
	view.Stop()
	console.EndBatch(ctx)

	if run != nil {
		console.LogNewline()
		console.Summary(run.Summary)
	}
	if err != nil {
		return errors.Errorf("running %s: %w", op.Kind(), err)
	}
	return nil
}
