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
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/fsx"
	"github.com/walteh/hekit/pkg/match"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
)

// CleanMode selects what a clean removes
type CleanMode string

const (
	// CleanEmpty removes empty directories, deepest first. A directory that
	// only holds directories removed in the same batch counts as empty.
	CleanEmpty CleanMode = "empty"
	// CleanTemp removes files with a temporary extension
	CleanTemp CleanMode = "temp"
	// CleanLog removes files not modified for Days days
	CleanLog CleanMode = "log"
	// CleanSecure overwrites matching files with zeros before removing them
	CleanSecure CleanMode = "secure"
	// CleanCustom removes files matching any of Patterns
	CleanCustom CleanMode = "custom"
)

const (
	DefaultLogAgeDays = 7
	ReasonNotEmpty    = "not empty"
)

// TempExtensions are matched case-insensitively by CleanTemp
var TempExtensions = []string{"tmp", "bak", "temp", "log", "cache"}

// ParseCleanMode parses a clean mode name
func ParseCleanMode(s string) (CleanMode, error) {
	switch m := CleanMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CleanEmpty, CleanTemp, CleanLog, CleanSecure, CleanCustom:
		return m, nil
	default:
		return "", errors.Errorf("unknown clean mode %q: %w", s, status.ErrConfiguration)
	}
}

// 🧹 CleanOperation removes matching files or empty directories
type CleanOperation struct {
	Mode CleanMode

	// Days is the minimum age for CleanLog. Zero removes every matching
	// file modified before now.
	Days int

	// Patterns are name globs for CleanCustom. A bare word without glob
	// characters matches names containing it.
	Patterns []string

	// Passes is the overwrite count for CleanSecure
	Passes int

	now       func() time.Time
	removable map[string]bool
	kept      map[string]bool
}

var (
	_ Operation = (*CleanOperation)(nil)
	_ Observer  = (*CleanOperation)(nil)
)

// 🏭 NewCleanOperation creates a clean operation with default age and passes
func NewCleanOperation(mode CleanMode) *CleanOperation {
	return &CleanOperation{
		Mode:   mode,
		Days:   DefaultLogAgeDays,
		Passes: fsx.DefaultShredPasses,
		now:    time.Now,
	}
}

func (op *CleanOperation) Kind() Kind {
	return KindClean
}

func (op *CleanOperation) Validate() error {
	if _, err := ParseCleanMode(string(op.Mode)); err != nil {
		return err
	}

	switch op.Mode {
	case CleanLog:
		if op.Days < 0 {
			return errors.Errorf("log age %d days is negative: %w", op.Days, status.ErrConfiguration)
		}
	case CleanSecure:
		if op.Passes < 0 {
			return errors.Errorf("overwrite passes %d is negative: %w", op.Passes, status.ErrConfiguration)
		}
	case CleanCustom:
		if _, err := customPattern(op.Patterns); err != nil {
			return err
		}
	}
	return nil
}

// AdjustScan narrows the scan to what the mode removes
func (op *CleanOperation) AdjustScan(cfg *scan.Config) {
	cfg.IncludeDirs = false
	cfg.ExcludeFiles = false
	if cfg.Pattern == "" {
		cfg.Pattern = "*"
	}

	switch op.Mode {
	case CleanEmpty:
		cfg.Pattern = "*"
		cfg.IncludeDirs = true
		cfg.ExcludeFiles = true
	case CleanTemp:
		cfg.Pattern = "*.{" + strings.Join(TempExtensions, ",") + "}"
		cfg.CaseInsensitive = true
	case CleanLog:
		now := time.Now
		if op.now != nil {
			now = op.now
		}
		cfg.ModifiedBefore = now().Add(-time.Duration(op.Days) * 24 * time.Hour)
	case CleanCustom:
		// validated already
		cfg.Pattern, _ = customPattern(op.Patterns)
	}
}

// Prepare orders directories deepest first and works out which of them end
// up empty. Other modes keep the scan order.
func (op *CleanOperation) Prepare(ctx context.Context, cands []*scan.Candidate) ([]*scan.Candidate, error) {
	if op.Mode != CleanEmpty {
		return cands, nil
	}

	logger := zerolog.Ctx(ctx)

	// children sort after their parent, so reverse order visits them first
	ordered := make([]*scan.Candidate, len(cands))
	for i, c := range cands {
		ordered[len(cands)-1-i] = c
	}

	op.removable = make(map[string]bool, len(ordered))
	op.kept = make(map[string]bool)
	for _, c := range ordered {
		entries, err := os.ReadDir(c.Path)
		if err != nil {
			logger.Debug().Err(err).Str("dir", c.Path).Msg("cannot read directory, keeping it")
			continue
		}

		empty := true
		for _, e := range entries {
			if !e.IsDir() || !op.removable[filepath.Join(c.Path, e.Name())] {
				empty = false
				break
			}
		}
		op.removable[c.Path] = empty
	}

	return ordered, nil
}

func (op *CleanOperation) Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error) {
	if op.Mode == CleanEmpty && (!op.removable[cand.Path] || op.kept[cand.Path]) {
		return Target{SkipReason: ReasonNotEmpty}, nil
	}
	return Target{Policy: PolicyNone}, nil
}

// Observe keeps the parent of a directory that was not removed, declined
// or failed. Children come first, so the parent has not been planned yet.
func (op *CleanOperation) Observe(ctx context.Context, r status.OperationResult) {
	if op.Mode != CleanEmpty || r.Status == status.StatusSuccess {
		return
	}
	if op.kept == nil {
		op.kept = make(map[string]bool)
	}
	op.kept[filepath.Dir(r.Source)] = true
}

func (op *CleanOperation) Apply(ctx context.Context, item *Item) error {
	path := item.Source()

	switch op.Mode {
	case CleanSecure:
		if err := fsx.Shred(path, op.Passes); err != nil {
			return errors.Errorf("secure delete: %w", err)
		}
	default:
		if err := os.Remove(path); err != nil {
			return errors.Errorf("removing: %w", err)
		}
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("mode", string(op.Mode)).Msg("removed")
	return nil
}

// customPattern folds patterns into one glob. A bare word becomes *word*.
func customPattern(patterns []string) (string, error) {
	if len(patterns) == 0 {
		return "", errors.Errorf("custom clean needs at least one pattern: %w", status.ErrConfiguration)
	}

	globs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			return "", errors.Errorf("empty clean pattern: %w", status.ErrUserInput)
		}
		if !strings.ContainsAny(p, "*?[{") {
			p = "*" + p + "*"
		}
		if len(patterns) > 1 && strings.ContainsAny(p, "{},") {
			return "", errors.Errorf("clean pattern %q: alternatives can only be used on their own: %w", p, status.ErrUserInput)
		}
		if _, err := match.New(p, false); err != nil {
			return "", err
		}
		globs = append(globs, p)
	}

	if len(globs) == 1 {
		return globs[0], nil
	}
	return "{" + strings.Join(globs, ",") + "}", nil
}
