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

// Package collision picks free destination paths.
//
// Resolution is check-then-act: a path reported free can be created by
// another process before the caller uses it. Nothing here locks across
// processes.
package collision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/status"
)

const DefaultMaxAttempts = 10000

// compoundExtensions are kept whole when a disambiguator is inserted
var compoundExtensions = []string{".tar.gz", ".tar.bz2", ".tar.zst", ".tar.xz"}

// 🎯 Resolver finds free destinations. Paths claimed through Claim count as
// taken even before they exist on disk, so one batch never hands the same
// destination to two sources.
type Resolver struct {
	exists      func(string) bool
	maxAttempts int

	mu      sync.Mutex
	claimed map[string]struct{}
}

// Option configures a Resolver
type Option func(*Resolver)

// WithExists replaces the filesystem existence check
func WithExists(fn func(string) bool) Option {
	return func(r *Resolver) {
		r.exists = fn
	}
}

// WithMaxAttempts bounds how many `_n` suffixes are tried
func WithMaxAttempts(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// 🏭 New creates a resolver backed by the filesystem
func New(opts ...Option) *Resolver {
	r := &Resolver{
		exists:      pathExists,
		maxAttempts: DefaultMaxAttempts,
		claimed:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Taken reports whether path exists or was claimed
func (r *Resolver) Taken(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenLocked(filepath.Clean(path))
}

func (r *Resolver) takenLocked(path string) bool {
	if _, ok := r.claimed[path]; ok {
		return true
	}
	return r.exists(path)
}

// 🔄 Resolve returns dest when it is free, otherwise the first free
// `stem_n.ext` with n counting from 1. Existence is re-checked on every
// attempt.
func (r *Resolver) Resolve(dest string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dest = filepath.Clean(dest)
	if !r.takenLocked(dest) {
		return dest, nil
	}

	for n := 1; n <= r.maxAttempts; n++ {
		candidate := WithSuffix(dest, n)
		if !r.takenLocked(candidate) {
			return candidate, nil
		}
	}

	return "", errors.Errorf("no free name for %s after %d attempts: %w", dest, r.maxAttempts, status.ErrCollision)
}

// Check returns a collision error when dest already exists on disk. Claims
// are ignored: preview uses it to show clashes with files that are there
// now, and resolves clashes within the batch the way execution does.
func (r *Resolver) Check(dest string) error {
	if r.exists(filepath.Clean(dest)) {
		return errors.Errorf("destination %s already exists: %w", dest, status.ErrCollision)
	}
	return nil
}

// Claimed reports whether path was claimed earlier in the batch
func (r *Resolver) Claimed(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.claimed[filepath.Clean(path)]
	return ok
}

// Claim marks path as taken for the rest of the batch
func (r *Resolver) Claim(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claimed[filepath.Clean(path)] = struct{}{}
}

// Release forgets a claim, for items that failed before creating their
// destination.
func (r *Resolver) Release(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, filepath.Clean(path))
}

// WithSuffix inserts `_n` before the extension of path
func WithSuffix(path string, n int) string {
	dir, base := filepath.Split(path)
	stem, ext := splitExt(base)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
}

func splitExt(base string) (string, string) {
	lower := strings.ToLower(base)
	for _, ce := range compoundExtensions {
		if strings.HasSuffix(lower, ce) && len(base) > len(ce) {
			cut := len(base) - len(ce)
			return base[:cut], base[cut:]
		}
	}
	return rename.SplitName(base)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
