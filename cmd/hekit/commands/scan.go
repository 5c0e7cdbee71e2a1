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
	"path/filepath"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/cmd/hekit/opts"
	"github.com/walteh/hekit/pkg/scan"
)

// NewScanCmd creates a new scan command
func NewScanCmd(root *opts.RootOpts) *cobra.Command {
	var dirs bool

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "List the files a command would work on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := root.Job(ctx, cmd, opts.ScanOnly, args)
			if err != nil {
				return err
			}

			cfg := job.ScanConfig()
			cfg.IncludeDirs = dirs

			scanner, err := scan.New(cfg)
			if err != nil {
				return err
			}
			res, err := scanner.Scan(ctx)
			if err != nil {
				return errors.Errorf("scanning: %w", err)
			}

			data := pterm.TableData{{"path", "size", "modified"}}
			for _, c := range res.Candidates {
				size, modified := "-", "-"
				if !c.IsDir {
					if info, err := c.Info(); err == nil {
						size = strconv.FormatInt(info.Size(), 10)
						modified = info.ModTime().Format(time.DateTime)
					}
				}
				path := filepath.ToSlash(c.RelPath)
				if c.IsDir {
					path += "/"
				}
				data = append(data, []string{path, size, modified})
			}

			out := cmd.OutOrStdout()
			if err := pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			_, _ = fmt.Fprintf(out, "%d matches in %d dirs (%d unreadable) in %s\n",
				len(res.Candidates), res.DirsVisited, res.SkippedDirs, res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dirs, "dirs", false, "list matching directories too")

	return cmd
}
