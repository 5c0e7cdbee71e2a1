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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/fsx"
	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
	"github.com/walteh/hekit/pkg/text"
)

// BackupSuffix is appended to the source path when backups are enabled
const BackupSuffix = ".bak"

// ✏️ RenameOperation renames every candidate in place using a rule
type RenameOperation struct {
	Rule *rename.Rule

	// Backup copies the source to `<source>.bak` before renaming it
	Backup bool
}

var _ Operation = (*RenameOperation)(nil)

// 🏭 NewRenameOperation creates a rename operation
func NewRenameOperation(rule *rename.Rule, backup bool) *RenameOperation {
	return &RenameOperation{Rule: rule, Backup: backup}
}

func (op *RenameOperation) Kind() Kind {
	return KindRename
}

func (op *RenameOperation) Validate() error {
	if err := op.Rule.Validate(); err != nil {
		return err
	}
	return nil
}

// AdjustScan keeps directories out: only files are renamed
func (op *RenameOperation) AdjustScan(cfg *scan.Config) {
	cfg.IncludeDirs = false
	cfg.ExcludeFiles = false
}

// Prepare warns once about the legacy delete-only replace syntax
func (op *RenameOperation) Prepare(ctx context.Context, cands []*scan.Candidate) ([]*scan.Candidate, error) {
	if op.Rule != nil && op.Rule.Replace != nil && op.Rule.Replace.Mode == text.ModeDeleteLiteral {
		zerolog.Ctx(ctx).Warn().
			Str("text", op.Rule.Replace.FromText).
			Msg("replace rule has neither '=' nor /pattern/replacement/: every occurrence will be deleted")
	}
	return cands, nil
}

func (op *RenameOperation) Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error) {
	dest, err := rename.Generate(cand.Path, index, op.Rule)
	if err != nil {
		return Target{}, err
	}
	return Target{Destination: dest, Policy: PolicyDisambiguate}, nil
}

func (op *RenameOperation) Apply(ctx context.Context, item *Item) error {
	src := item.Source()

	if op.Backup {
		backup := src + BackupSuffix
		if err := fsx.CopyFile(src, backup); err != nil {
			return errors.Errorf("backing up %s: %w", src, status.Classify(err, status.ErrExecution))
		}
		zerolog.Ctx(ctx).Debug().Str("backup", backup).Msg("backup written")
	}

	if err := fsx.Rename(src, item.Destination); err != nil {
		return status.Classify(err, status.ErrExecution)
	}
	return nil
}
