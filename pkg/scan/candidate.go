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
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 📄 Candidate is a path produced by a scan. Metadata is fetched on first use
// and cached.
type Candidate struct {
	Path    string // absolute
	RelPath string // relative to the scan root
	IsDir   bool

	once sync.Once
	info fs.FileInfo
	err  error
	stat func(string) (fs.FileInfo, error)
}

// NewCandidate builds a candidate outside of a scan, mostly for tests and
// callers that already hold a path list.
func NewCandidate(root, path string, isDir bool) *Candidate {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return &Candidate{Path: path, RelPath: rel, IsDir: isDir}
}

// Name returns the base name
func (c *Candidate) Name() string {
	return filepath.Base(c.Path)
}

// Ext returns the extension including the dot, case preserved
func (c *Candidate) Ext() string {
	if c.IsDir {
		return ""
	}
	return filepath.Ext(c.Path)
}

// Dir returns the containing directory
func (c *Candidate) Dir() string {
	return filepath.Dir(c.Path)
}

// Info stats the candidate once. Symlinks are resolved.
func (c *Candidate) Info() (fs.FileInfo, error) {
	c.once.Do(func() {
		if c.info != nil {
			return
		}
		stat := c.stat
		if stat == nil {
			stat = os.Stat
		}
		c.info, c.err = stat(c.Path)
		if c.err != nil {
			c.err = errors.Errorf("stat %s: %w", c.Path, c.err)
		}
	})
	return c.info, c.err
}

// Size returns the size in bytes
func (c *Candidate) Size() (int64, error) {
	info, err := c.Info()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
