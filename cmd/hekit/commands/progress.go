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
	"fmt"

	"github.com/pterm/pterm"

	"github.com/walteh/hekit/pkg/operation"
	"github.com/walteh/hekit/pkg/progress"
)

// 📊 progressView shows a spinner while scanning and a bar while items run.
// Update is only called from the runner's sampler goroutine.
type progressView struct {
	phase   func() operation.Phase
	spinner *pterm.SpinnerPrinter
	bar     *pterm.ProgressbarPrinter
	title   string
}

func (v *progressView) Update(s progress.Snapshot) {
	if v.bar == nil && s.Total == 0 {
		text := fmt.Sprintf("scanning: %d dirs, %d matches", s.DirsVisited, s.Candidates)
		if v.spinner == nil {
			v.spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
			return
		}
		v.spinner.UpdateText(text)
		return
	}

	phase := operation.PhaseExecuting
	if v.phase != nil {
		phase = v.phase()
	}
	title := barTitle(phase, s.Cancelled)

	if v.bar == nil {
		v.stopSpinner()
		v.bar, _ = pterm.DefaultProgressbar.
			WithTotal(int(s.Total)).
			WithTitle(title).
			Start()
		if v.bar == nil {
			return
		}
		v.title = title
	}

	if delta := int(s.Processed) - v.bar.Current; delta > 0 {
		v.bar.Add(delta)
	}
	if title != v.title {
		v.bar.UpdateTitle(title)
		v.title = title
	}
}

func barTitle(phase operation.Phase, cancelled bool) string {
	if cancelled {
		return "cancelling"
	}
	switch phase {
	case operation.PhasePreview:
		return "previewing"
	case operation.PhaseConfirming:
		return "waiting for confirmation"
	case operation.PhaseDone:
		return "done"
	default:
		return "processing"
	}
}

func (v *progressView) stopSpinner() {
	if v.spinner != nil {
		_ = v.spinner.Stop()
		v.spinner = nil
	}
}

func (v *progressView) Stop() {
	v.stopSpinner()
	if v.bar != nil {
		_, _ = v.bar.Stop()
		v.bar = nil
	}
}
