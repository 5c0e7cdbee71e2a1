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
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/walteh/hekit/cmd/hekit/commands"
	"github.com/walteh/hekit/cmd/hekit/opts"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "hekit",
		Short: "Batch rename, compress, convert and clean files",
		Long: `hekit finds files under a folder by name pattern, size, extension and
age, works out what each one should become, and applies it. Every command
can preview its plan first (--preview) or ask before each file (--interactive).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(rootOpts.Debug)
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))

			if !commands.IsTerminal(cmd.OutOrStdout()) {
				color.NoColor = true
				pterm.DisableStyling()
			}
		},
	}

	rootOpts.AddFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewRenameCmd(rootOpts),
		commands.NewCompressCmd(rootOpts),
		commands.NewConvertCmd(rootOpts),
		commands.NewCleanCmd(rootOpts),
		commands.NewScanCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// setupLogging configures zerolog based on flags. Per-item outcomes are
// already printed for humans, so the default level only lets warnings through.
func setupLogging(debug bool) {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !commands.IsTerminal(os.Stderr)}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
