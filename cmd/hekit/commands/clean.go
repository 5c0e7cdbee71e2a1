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
	"github.com/spf13/cobra"

	"github.com/walteh/hekit/cmd/hekit/opts"
	"github.com/walteh/hekit/pkg/config"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(root *opts.RootOpts) *cobra.Command {
	var (
		mode          string
		days, passes  int
		matchPatterns []string
	)

	cmd := &cobra.Command{
		Use:   "clean [root]",
		Short: "Remove unwanted files or empty folders",
		Long: `Clean removes files or folders depending on --mode:
  empty   folders with nothing left in them, deepest first
  temp    .tmp .bak .temp .log .cache files
  log     files not modified for --days days
  secure  matching files, overwritten with zeros first
  custom  files matching any --match pattern`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := root.Job(ctx, cmd, "clean", args)
			if err != nil {
				return err
			}
			if job.Clean == nil {
				job.Clean = &config.CleanJob{Mode: mode}
			}

			c := job.Clean
			changed := cmd.Flags().Changed
			if changed("mode") {
				c.Mode = mode
			}
			if changed("days") {
				c.Days = &days
			}
			if changed("passes") {
				c.Passes = &passes
			}
			if changed("match") {
				c.Patterns = matchPatterns
			}

			return Execute(ctx, root, job, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&mode, "mode", "m", "temp", "empty, temp, log, secure or custom")
	fs.IntVar(&days, "days", 7, "minimum age in days for log mode")
	fs.IntVar(&passes, "passes", 3, "overwrite passes for secure mode")
	fs.StringSliceVar(&matchPatterns, "match", nil, "patterns for custom mode; a bare word matches names containing it")

	return cmd
}
