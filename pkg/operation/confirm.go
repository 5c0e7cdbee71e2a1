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
)

// Decision is the answer to a confirmation prompt
type Decision int

const (
	DecisionYes Decision = iota
	DecisionNo
	DecisionSkip
	DecisionQuit
)

// String returns a string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionYes:
		return "yes"
	case DecisionNo:
		return "no"
	case DecisionSkip:
		return "skip"
	case DecisionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// 🙋 Confirmer is asked before each item in interactive mode. No and Skip
// both move on without touching the item; Quit stops the batch.
type Confirmer interface {
	Confirm(ctx context.Context, item Item) (Decision, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, item Item) (Decision, error)

func (f ConfirmFunc) Confirm(ctx context.Context, item Item) (Decision, error) {
	return f(ctx, item)
}

// AlwaysConfirm answers every prompt with d
func AlwaysConfirm(d Decision) Confirmer {
	return ConfirmFunc(func(context.Context, Item) (Decision, error) {
		return d, nil
	})
}
