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

// Package fsx wraps the filesystem calls the operations make: rename, copy,
// temp-file-then-rename writes and overwrite-then-delete.
package fsx

import (
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// swapped in tests
var renameFunc = os.Rename

// CrossDeviceError marks a rename that failed with EXDEV. Nothing here falls
// back to copy+delete silently.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return "cross-device rename " + e.Src + " -> " + e.Dst + ": " + e.Err.Error()
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// Rename wraps os.Rename and marks EXDEV failures
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if errors.Is(err, syscall.EXDEV) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return errors.Errorf("renaming %s: %w", src, err)
	}
	return nil
}

// Exists reports whether path can be lstat'ed
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// 📝 AtomicWrite streams into a uniquely named temp file next to dst and
// renames it over dst once write returns nil. On any error the temp file is
// removed and dst is untouched.
func AtomicWrite(dst string, perm os.FileMode, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating directory %s: %w", dir, err)
	}

	tmpName := filepath.Join(dir, "."+filepath.Base(dst)+".tmp-"+uuid.NewString())
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Errorf("setting mode on temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err = Rename(tmpName, dst); err != nil {
		return err
	}
	return nil
}

// 📋 CopyFile copies src to dst through AtomicWrite, keeping the source mode
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}

	return AtomicWrite(dst, info.Mode().Perm(), func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return errors.Errorf("copying %s: %w", src, err)
		}
		return nil
	})
}
