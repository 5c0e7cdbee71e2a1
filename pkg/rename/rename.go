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

// Package rename computes destination names from rename rules. Everything
// here is pure: no filesystem access, same inputs give the same output.
package rename

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
	"github.com/walteh/hekit/pkg/text"
)

const DefaultSequenceWidth = 3

// Sequence appends `_<n>` zero-padded to Width, n = Start + index - 1
type Sequence struct {
	Start int
	Width int
}

func (s *Sequence) width() int {
	if s.Width <= 0 {
		return DefaultSequenceWidth
	}
	return s.Width
}

// Rule is an ordered set of optional transforms. They always apply as
// prefix, suffix, replace, sequence, extension.
type Rule struct {
	Prefix   string
	Suffix   string
	Replace  *text.ReplacementRule
	Sequence *Sequence

	// Extension overrides the extension when non-nil. An empty string removes
	// it. The value has no leading dot.
	Extension *string
}

// IsEmpty reports whether no transform is set
func (r *Rule) IsEmpty() bool {
	return r == nil || (r.Prefix == "" &&
		r.Suffix == "" &&
		r.Replace == nil &&
		r.Sequence == nil &&
		r.Extension == nil)
}

// ✅ Validate returns a configuration error for rules that cannot produce a
// usable name.
func (r *Rule) Validate() error {
	if r.IsEmpty() {
		return errors.Errorf("no rename rule set (prefix, suffix, replace, sequence or extension): %w", status.ErrConfiguration)
	}
	if hasSeparator(r.Prefix) {
		return errors.Errorf("prefix %q contains a path separator: %w", r.Prefix, status.ErrConfiguration)
	}
	if hasSeparator(r.Suffix) {
		return errors.Errorf("suffix %q contains a path separator: %w", r.Suffix, status.ErrConfiguration)
	}
	if r.Extension != nil {
		if strings.Contains(*r.Extension, ".") {
			return errors.Errorf("extension %q must not contain '.': %w", *r.Extension, status.ErrConfiguration)
		}
		if hasSeparator(*r.Extension) {
			return errors.Errorf("extension %q contains a path separator: %w", *r.Extension, status.ErrConfiguration)
		}
	}
	if r.Sequence != nil {
		if r.Sequence.Start < 1 {
			return errors.Errorf("sequence start %d must be at least 1: %w", r.Sequence.Start, status.ErrConfiguration)
		}
		if r.Sequence.Width < 0 {
			return errors.Errorf("sequence width %d is negative: %w", r.Sequence.Width, status.ErrConfiguration)
		}
	}
	if r.Replace != nil {
		if err := r.Replace.Validate(); err != nil {
			return errors.Errorf("replace rule: %w", err)
		}
	}
	return nil
}

// 🔄 Generate returns the destination path for source, the index-th (1-based)
// candidate of a batch. The destination stays in the source directory.
func Generate(source string, index int, rule *Rule) (string, error) {
	if index < 1 {
		return "", errors.Errorf("index %d: must be 1-based: %w", index, status.ErrTransform)
	}
	if rule == nil {
		return "", errors.Errorf("nil rule: %w", status.ErrTransform)
	}

	dir, base := filepath.Split(source)
	if base == "" || base == "." || base == ".." {
		return "", errors.Errorf("%q has no file name: %w", source, status.ErrTransform)
	}

	stem, ext := SplitName(base)

	name := rule.Prefix + stem + rule.Suffix

	if rule.Replace != nil {
		name, _ = rule.Replace.Apply(name)
	}

	if rule.Sequence != nil {
		name = fmt.Sprintf("%s_%0*d", name, rule.Sequence.width(), rule.Sequence.Start+index-1)
	}

	if rule.Extension != nil {
		ext = ""
		if *rule.Extension != "" {
			ext = "." + *rule.Extension
		}
	}

	name += ext

	if name == "" || name == "." || name == ".." {
		return "", errors.Errorf("%q: rule produced an empty name: %w", source, status.ErrTransform)
	}
	if hasSeparator(name) {
		return "", errors.Errorf("%q: rule produced %q which contains a path separator: %w", source, name, status.ErrTransform)
	}

	return filepath.Join(dir, name), nil
}

// SplitName splits a base name into stem and extension (with its dot). A
// leading dot does not start an extension, so ".bashrc" has none.
func SplitName(base string) (stem, ext string) {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base, ""
	}
	return base[:i], base[i:]
}

// String returns a pointer to s, for Rule.Extension
func String(s string) *string {
	return &s
}

func hasSeparator(s string) bool {
	return strings.ContainsRune(s, '/') || strings.ContainsRune(s, filepath.Separator)
}
