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

// Package match answers whether a file name matches a glob pattern.
package match

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
)

// Matcher wraps one validated pattern. It is immutable and safe to share.
type Matcher struct {
	pattern         string
	caseInsensitive bool
}

// 🏭 New validates pattern and returns a matcher for it.
//
// Supported wildcards are `*`, `?`, character classes and `{a,b}`
// alternatives. `**` and path separators are rejected: the matcher only ever
// sees a single name, recursion belongs to the scanner.
func New(pattern string, caseInsensitive bool) (*Matcher, error) {
	if pattern == "" {
		return nil, errors.Errorf("empty pattern: %w", status.ErrUserInput)
	}
	if strings.Contains(pattern, "**") {
		return nil, errors.Errorf("pattern %q: recursive wildcard not supported: %w", pattern, status.ErrUserInput)
	}
	if strings.ContainsAny(pattern, `/\`) {
		return nil, errors.Errorf("pattern %q: must match a name, not a path: %w", pattern, status.ErrUserInput)
	}
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("pattern %q: malformed: %w", pattern, status.ErrUserInput)
	}

	return &Matcher{pattern: pattern, caseInsensitive: caseInsensitive}, nil
}

// Match reports whether name matches. name is a base name, not a path.
func (m *Matcher) Match(name string) bool {
	if m.caseInsensitive {
		name = strings.ToLower(name)
	}
	ok, err := doublestar.Match(m.pattern, name)
	return err == nil && ok
}

func (m *Matcher) Pattern() string {
	return m.pattern
}

func (m *Matcher) CaseInsensitive() bool {
	return m.caseInsensitive
}
