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
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/imageconv"
	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// 🖼️ ConvertOperation converts images from one format to another. Sources
// are kept.
type ConvertOperation struct {
	From imageconv.Format
	To   imageconv.Format

	// OutputDir receives the converted files; empty means next to each source
	OutputDir string

	Options imageconv.Options

	// Overwrite replaces existing destinations. Without it an existing
	// destination is skipped, or disambiguated when Disambiguate is set.
	Overwrite    bool
	Disambiguate bool
}

var _ Operation = (*ConvertOperation)(nil)

func (op *ConvertOperation) Kind() Kind {
	return KindConvert
}

func (op *ConvertOperation) Validate() error {
	if _, err := imageconv.ParseSource(string(op.From)); err != nil {
		return err
	}
	if _, err := imageconv.ParseTarget(string(op.To)); err != nil {
		return err
	}
	if imageconv.Same(op.From, op.To) {
		return errors.Errorf("source and target format are both %s: %w", op.To, status.ErrConfiguration)
	}
	if op.Overwrite && op.Disambiguate {
		return errors.Errorf("overwrite and disambiguate are mutually exclusive: %w", status.ErrConfiguration)
	}
	if op.OutputDir != "" {
		if info, err := os.Stat(op.OutputDir); err == nil && !info.IsDir() {
			return errors.Errorf("output %q is not a directory: %w", op.OutputDir, status.ErrConfiguration)
		}
	}
	return op.Options.Validate()
}

// AdjustScan restricts the scan to files with the source extension
func (op *ConvertOperation) AdjustScan(cfg *scan.Config) {
	cfg.Extension = string(op.From)
	cfg.IncludeDirs = false
	cfg.ExcludeFiles = false
}

func (op *ConvertOperation) Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error) {
	stem, _ := rename.SplitName(cand.Name())
	if stem == "" {
		return Target{}, errors.Errorf("%s has no stem: %w", cand.Path, status.ErrTransform)
	}

	dir := op.OutputDir
	if dir == "" {
		dir = cand.Dir()
	}

	policy := PolicySkipExisting
	switch {
	case op.Overwrite:
		policy = PolicyOverwrite
	case op.Disambiguate:
		policy = PolicyDisambiguate
	}

	return Target{
		Destination: filepath.Join(dir, stem+"."+string(op.To)),
		Policy:      policy,
	}, nil
}

func (op *ConvertOperation) Apply(ctx context.Context, item *Item) error {
	return imageconv.Convert(ctx, item.Source(), item.Destination, op.To, op.Options)
}
