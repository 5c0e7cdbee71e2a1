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

package opts

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/config"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	JobFile string
	Debug   bool

	Preview     bool
	Interactive bool
	Progress    bool

	Pattern    string
	Recursive  bool
	IgnoreCase bool
	MinSize    int64
	MaxSize    int64
	Extension  string
	DepthFirst bool
}

// AddFlags registers the shared flags on the root command
func (o *RootOpts) AddFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVarP(&o.JobFile, "job", "j", "", "job file (json, yaml or hcl); flags override its values")
	fs.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")

	fs.BoolVarP(&o.Preview, "preview", "n", false, "show what would happen without touching any file")
	fs.BoolVarP(&o.Interactive, "interactive", "i", false, "confirm every item")
	fs.BoolVar(&o.Progress, "progress", false, "show a progress bar instead of per-file lines; press q to cancel")

	fs.StringVarP(&o.Pattern, "pattern", "p", "*", "file name glob (*, ?, [...], {a,b})")
	fs.BoolVarP(&o.Recursive, "recursive", "r", false, "descend into subdirectories")
	fs.BoolVar(&o.IgnoreCase, "ignore-case", false, "match pattern and extension case-insensitively")
	fs.Int64Var(&o.MinSize, "min-size", 0, "minimum file size in bytes")
	fs.Int64Var(&o.MaxSize, "max-size", 0, "maximum file size in bytes")
	fs.StringVar(&o.Extension, "ext", "", "only files with this extension")
	fs.BoolVar(&o.DepthFirst, "depth-first", false, "scan depth first instead of breadth first")
}

// ScanOnly is the kind used by commands that only scan; it accepts a job
// file of any operation.
const ScanOnly = "scan"

// Job builds the job for operation kind. A job file is the base when given;
// only flags set on the command line override it.
func (o *RootOpts) Job(ctx context.Context, cmd *cobra.Command, kind string, args []string) (*config.Job, error) {
	job := &config.Job{Operation: kind, Root: ".", Pattern: "*"}

	if o.JobFile != "" {
		loaded, err := config.Load(ctx, o.JobFile)
		if err != nil {
			return nil, err
		}
		if kind != ScanOnly && !strings.EqualFold(loaded.Operation, kind) {
			return nil, errors.Errorf("job %s is a %s job, not %s: %w", o.JobFile, loaded.Operation, kind, status.ErrConfiguration)
		}
		job = loaded
	}

	if len(args) > 0 {
		job.Root = args[0]
	}

	changed := cmd.Flags().Changed
	if changed("pattern") {
		job.Pattern = o.Pattern
	}
	if changed("recursive") {
		job.Recursive = o.Recursive
	}
	if changed("ignore-case") {
		job.CaseInsensitive = o.IgnoreCase
	}
	if changed("min-size") {
		job.MinSize = scan.Int64(o.MinSize)
	}
	if changed("max-size") {
		job.MaxSize = scan.Int64(o.MaxSize)
	}
	if changed("ext") {
		job.Extension = o.Extension
	}
	if changed("depth-first") {
		job.DepthFirst = o.DepthFirst
	}
	if changed("preview") {
		job.Preview = o.Preview
	}
	if changed("interactive") {
		job.Interactive = o.Interactive
	}

	return job, nil
}
