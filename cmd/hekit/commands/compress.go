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

// NewCompressCmd creates a new compress command
func NewCompressCmd(root *opts.RootOpts) *cobra.Command {
	var (
		format, output string
		level          int
	)

	cmd := &cobra.Command{
		Use:   "compress [root]",
		Short: "Compress every matching file into its own archive",
		Long: `Compress writes one archive per matching file and keeps the sources.
Formats: zip, tar.gz, tar.bz2, zst. Levels run from 1 (fastest) to 9 (smallest).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := root.Job(ctx, cmd, "compress", args)
			if err != nil {
				return err
			}
			if job.Compress == nil {
				job.Compress = &config.CompressJob{Format: format}
			}

			c := job.Compress
			changed := cmd.Flags().Changed
			if changed("format") {
				c.Format = format
			}
			if changed("level") {
				c.Level = level
			}
			if changed("output") {
				c.OutputDir = output
			}

			return Execute(ctx, root, job, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", "zip", "archive format: zip, tar.gz, tar.bz2, zst")
	fs.IntVarP(&level, "level", "l", 6, "compression level 1-9")
	fs.StringVarP(&output, "output", "o", "", "directory for the archives (default: next to each file)")

	return cmd
}
