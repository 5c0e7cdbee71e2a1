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

// NewRenameCmd creates a new rename command
func NewRenameCmd(root *opts.RootOpts) *cobra.Command {
	var (
		prefix, suffix, replace, ext string
		seqStart, seqWidth          int
		backup                      bool
	)

	cmd := &cobra.Command{
		Use:   "rename [root]",
		Short: "Rename matching files",
		Long: `Rename builds a new name for every matching file:
1. prefix + name + suffix
2. --replace applied to that (old=new, /regex/replacement/, or a bare
   literal that is deleted)
3. _<number> appended when a sequence is requested
4. the extension swapped when --to-ext is given

Names that already exist get _1, _2, ... before the extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := root.Job(ctx, cmd, "rename", args)
			if err != nil {
				return err
			}
			if job.Rename == nil {
				job.Rename = &config.RenameJob{}
			}

			r := job.Rename
			changed := cmd.Flags().Changed
			if changed("prefix") {
				r.Prefix = prefix
			}
			if changed("suffix") {
				r.Suffix = suffix
			}
			if changed("replace") {
				r.Replace = replace
			}
			if changed("seq") {
				r.SequenceStart = &seqStart
			}
			if changed("seq-width") {
				r.SequenceWidth = &seqWidth
			}
			if changed("to-ext") {
				r.Extension = &ext
			}
			if changed("backup") {
				r.Backup = backup
			}

			return Execute(ctx, root, job, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&prefix, "prefix", "", "text put before the name")
	fs.StringVar(&suffix, "suffix", "", "text put after the name, before the extension")
	fs.StringVar(&replace, "replace", "", "old=new, /regex/replacement/, or text to delete")
	fs.IntVar(&seqStart, "seq", 1, "append a sequence number starting here")
	fs.IntVar(&seqWidth, "seq-width", 3, "zero padding of the sequence number")
	fs.StringVar(&ext, "to-ext", "", "new extension without the dot; empty removes it")
	fs.BoolVar(&backup, "backup", false, "copy each file to <name>.bak before renaming")

	return cmd
}
