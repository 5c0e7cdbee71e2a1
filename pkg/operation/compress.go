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
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/archive"
	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// 🗜️ CompressOperation writes one archive per candidate. Sources are kept.
type CompressOperation struct {
	Format archive.Format
	Level  int

	// OutputDir receives the archives; empty means next to each source
	OutputDir string
}

var _ Operation = (*CompressOperation)(nil)

// 🏭 NewCompressOperation creates a compress operation. A zero level means
// archive.DefaultLevel.
func NewCompressOperation(format archive.Format, level int, outputDir string) *CompressOperation {
	if level == 0 {
		level = archive.DefaultLevel
	}
	return &CompressOperation{Format: format, Level: level, OutputDir: outputDir}
}

func (op *CompressOperation) Kind() Kind {
	return KindCompress
}

func (op *CompressOperation) Validate() error {
	if _, err := archive.ParseFormat(string(op.Format)); err != nil {
		return err
	}
	if err := archive.ValidateLevel(op.Level); err != nil {
		return err
	}
	if op.OutputDir != "" {
		if info, err := os.Stat(op.OutputDir); err == nil && !info.IsDir() {
			return errors.Errorf("output %q is not a directory: %w", op.OutputDir, status.ErrConfiguration)
		}
	}
	return nil
}

func (op *CompressOperation) AdjustScan(cfg *scan.Config) {
	cfg.IncludeDirs = false
	cfg.ExcludeFiles = false
}

// Target names the archive `<stem>.<ext>`, or `<stem>_<index>.<ext>` when
// the batch holds more than one file.
func (op *CompressOperation) Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error) {
	stem, _ := rename.SplitName(cand.Name())
	if stem == "" {
		return Target{}, errors.Errorf("%s has no stem: %w", cand.Path, status.ErrTransform)
	}

	name := stem + op.Format.Extension()
	if total > 1 {
		name = fmt.Sprintf("%s_%d%s", stem, index, op.Format.Extension())
	}

	dir := op.OutputDir
	if dir == "" {
		dir = cand.Dir()
	}

	return Target{Destination: filepath.Join(dir, name), Policy: PolicyDisambiguate}, nil
}

func (op *CompressOperation) Apply(ctx context.Context, item *Item) error {
	return archive.Compress(ctx, item.Source(), item.Destination, op.Format, op.Level)
}
