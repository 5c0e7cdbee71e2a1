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

// NewConvertCmd creates a new convert command
func NewConvertCmd(root *opts.RootOpts) *cobra.Command {
	var (
		from, to, output       string
		quality, width, height int
		overwrite, uniq        bool
	)

	cmd := &cobra.Command{
		Use:   "convert [root]",
		Short: "Convert images between formats",
		Long: `Convert re-encodes every file with the --from extension as --to.
Sources: jpg, jpeg, png, gif, bmp, tiff, webp. Targets: the same without webp.
An existing output is skipped unless --overwrite or --unique is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := root.Job(ctx, cmd, "convert", args)
			if err != nil {
				return err
			}
			if job.Convert == nil {
				job.Convert = &config.ConvertJob{}
			}

			c := job.Convert
			changed := cmd.Flags().Changed
			if changed("from") {
				c.From = from
			}
			if changed("to") {
				c.To = to
			}
			if changed("output") {
				c.OutputDir = output
			}
			if changed("quality") {
				c.Quality = quality
			}
			if changed("width") {
				c.Width = width
			}
			if changed("height") {
				c.Height = height
			}
			if changed("overwrite") {
				c.Overwrite = overwrite
			}
			if changed("unique") {
				c.Disambiguate = uniq
			}

			return Execute(ctx, root, job, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&from, "from", "", "source format")
	fs.StringVar(&to, "to", "", "target format")
	fs.StringVarP(&output, "output", "o", "", "directory for the converted files (default: next to each file)")
	fs.IntVarP(&quality, "quality", "q", 0, "jpeg quality 1-100")
	fs.IntVar(&width, "width", 0, "resize to this width (needs --height)")
	fs.IntVar(&height, "height", 0, "resize to this height (needs --width)")
	fs.BoolVar(&overwrite, "overwrite", false, "replace existing outputs")
	fs.BoolVar(&uniq, "unique", false, "pick a free name when the output exists")

	return cmd
}
