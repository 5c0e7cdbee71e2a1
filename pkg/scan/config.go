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

package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
)

// Order selects how directories are queued during a recursive scan
type Order int

const (
	// OrderBreadthFirst enumerates a whole level before descending
	OrderBreadthFirst Order = iota
	// OrderDepthFirst descends into each subdirectory before its siblings
	OrderDepthFirst
)

// String returns a string representation of Order
func (o Order) String() string {
	switch o {
	case OrderBreadthFirst:
		return "breadth-first"
	case OrderDepthFirst:
		return "depth-first"
	default:
		return "unknown"
	}
}

// Config describes one scan. Treat it as immutable once passed to New.
type Config struct {
	Root            string
	Pattern         string
	Recursive       bool
	CaseInsensitive bool

	// Optional filters
	MinSize        *int64    // inclusive, bytes
	MaxSize        *int64    // inclusive, bytes
	Extension      string    // without the leading dot
	ModifiedBefore time.Time // zero means no mtime filter

	// IncludeDirs reports directories that match the pattern as candidates.
	// Size, extension and mtime filters only apply to files.
	IncludeDirs bool

	// ExcludeFiles drops regular files. With IncludeDirs it yields
	// directories only.
	ExcludeFiles bool

	Order Order
}

// ✅ Validate checks the config against the filesystem. It is called by New
// before any traversal starts.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.Errorf("root directory not set: %w", status.ErrConfiguration)
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.Errorf("root %q: %v: %w", c.Root, err, status.ErrConfiguration)
	}
	if !info.IsDir() {
		return errors.Errorf("root %q is not a directory: %w", c.Root, status.ErrConfiguration)
	}

	if c.MinSize != nil && *c.MinSize < 0 {
		return errors.Errorf("min size %d is negative: %w", *c.MinSize, status.ErrConfiguration)
	}
	if c.MaxSize != nil && *c.MaxSize < 0 {
		return errors.Errorf("max size %d is negative: %w", *c.MaxSize, status.ErrConfiguration)
	}
	if c.MinSize != nil && c.MaxSize != nil && *c.MinSize > *c.MaxSize {
		return errors.Errorf("min size %d exceeds max size %d: %w", *c.MinSize, *c.MaxSize, status.ErrConfiguration)
	}

	if c.Order != OrderBreadthFirst && c.Order != OrderDepthFirst {
		return errors.Errorf("unknown traversal order %d: %w", c.Order, status.ErrConfiguration)
	}

	return nil
}

func (c *Config) needsInfo() bool {
	return c.MinSize != nil || c.MaxSize != nil || !c.ModifiedBefore.IsZero()
}

func (c *Config) extensionMatches(name string) bool {
	if c.Extension == "" {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	want := strings.TrimPrefix(c.Extension, ".")
	if c.CaseInsensitive {
		return strings.EqualFold(ext, want)
	}
	return ext == want
}

func (c *Config) infoMatches(info fs.FileInfo) bool {
	if c.MinSize != nil && info.Size() < *c.MinSize {
		return false
	}
	if c.MaxSize != nil && info.Size() > *c.MaxSize {
		return false
	}
	if !c.ModifiedBefore.IsZero() && !info.ModTime().Before(c.ModifiedBefore) {
		return false
	}
	return true
}

// Int64 returns a pointer to v, for the optional size bounds.
func Int64(v int64) *int64 {
	return &v
}
