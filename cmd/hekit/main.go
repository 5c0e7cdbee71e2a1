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

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
)

// Exit codes
const (
	exitOK          = 0
	exitFailed      = 1
	exitConfigError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = log.Logger.WithContext(ctx)

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)

	code := exitCode(err)
	if code != exitOK && !errors.Is(err, status.ErrBatchFailed) {
		// batch failures were already summarised per item
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(err.Error())
		zerolog.Ctx(ctx).Debug().Err(err).Msg("command failed")
	}
	stop()
	os.Exit(code)
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, status.ErrConfiguration):
		return exitConfigError
	default:
		return exitFailed
	}
}
