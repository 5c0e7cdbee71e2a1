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

package fsx

import (
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

const (
	DefaultShredPasses = 3
	shredBlockSize     = 4096
)

// 🔥 Shred overwrites the whole file with zeros `passes` times, syncing after
// each pass, then removes it.
//
// This is best-effort. Journaling and copy-on-write filesystems, snapshots
// and SSD wear levelling can all keep the old blocks around.
func Shred(path string, passes int) error {
	if passes < 1 {
		passes = DefaultShredPasses
	}

	info, err := os.Lstat(path)
	if err != nil {
		return errors.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("%s is not a regular file", path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Errorf("opening %s for overwrite: %w", path, err)
	}

	zeros := make([]byte, shredBlockSize)
	size := info.Size()

	for pass := 0; pass < passes; pass++ {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return errors.Errorf("pass %d: seek: %w", pass+1, err)
		}
		for remaining := size; remaining > 0; {
			n := int64(len(zeros))
			if remaining < n {
				n = remaining
			}
			if _, err := f.Write(zeros[:n]); err != nil {
				f.Close()
				return errors.Errorf("pass %d: write: %w", pass+1, err)
			}
			remaining -= n
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return errors.Errorf("pass %d: sync: %w", pass+1, err)
		}
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}
