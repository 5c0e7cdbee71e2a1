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
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/operation"
)

var decisionOptions = []string{"yes", "no", "skip", "quit"}

var decisions = map[string]operation.Decision{
	"yes":  operation.DecisionYes,
	"no":   operation.DecisionNo,
	"skip": operation.DecisionSkip,
	"quit": operation.DecisionQuit,
}

// 🙋 selectConfirmer asks with a pterm select menu
type selectConfirmer struct {
	root string
}

func newSelectConfirmer(root string) *selectConfirmer {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &selectConfirmer{root: abs}
}

func (c *selectConfirmer) Confirm(ctx context.Context, item operation.Item) (operation.Decision, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(decisionOptions).
		WithDefaultOption("yes").
		Show(confirmPrompt(c.root, item))
	if err != nil {
		return operation.DecisionQuit, errors.Errorf("reading answer: %w", err)
	}

	d, ok := decisions[choice]
	if !ok {
		return operation.DecisionQuit, errors.Errorf("unexpected answer %q", choice)
	}
	return d, nil
}

func confirmPrompt(root string, item operation.Item) string {
	src := relTo(root, item.Source())
	if item.Destination == "" {
		return fmt.Sprintf("[%d/%d] %s %s?", item.Index, item.Total, item.Kind, src)
	}
	return fmt.Sprintf("[%d/%d] %s %s → %s?", item.Index, item.Total, item.Kind, src, relTo(root, item.Destination))
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && rel != "" && rel[0] != '.' {
		return filepath.ToSlash(rel)
	}
	return path
}
