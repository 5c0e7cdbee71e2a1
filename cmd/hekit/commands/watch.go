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
	"strings"
	"sync/atomic"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/rs/zerolog"

	"github.com/walteh/hekit/pkg/progress"
)

// ⌨️ watchKeys cancels st when q, Esc or Ctrl+C is pressed. The returned
// func ends the watch.
func watchKeys(ctx context.Context, st *progress.State) (stop func()) {
	logger := zerolog.Ctx(ctx)

	var done, listening atomic.Bool
	listening.Store(true)

	go func() {
		defer listening.Store(false)
		err := keyboard.Listen(func(key keys.Key) (bool, error) {
			if done.Load() {
				return true, nil
			}
			if isCancelKey(key) {
				logger.Warn().Str("key", key.String()).Msg("cancel requested")
				st.Cancel()
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			logger.Debug().Err(err).Msg("keyboard watch ended")
		}
	}()

	return func() {
		if done.CompareAndSwap(false, true) && listening.Load() {
			// wakes the listener so it can return
			go func() { _ = keyboard.SimulateKeyPress(keys.Escape) }()
		}
	}
}

func isCancelKey(key keys.Key) bool {
	switch key.Code {
	case keys.CtrlC, keys.Escape:
		return true
	case keys.RuneKey:
		return strings.EqualFold(key.String(), "q")
	}
	return false
}
