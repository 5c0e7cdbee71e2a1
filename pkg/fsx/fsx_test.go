package fsx

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRenameMarksCrossDevice(t *testing.T) {
	orig := renameFunc
	t.Cleanup(func() { renameFunc = orig })

	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	err := Rename("/a", "/b")
	require.Error(t, err)
	var xdev *CrossDeviceError
	require.ErrorAs(t, err, &xdev)
	assert.Equal(t, "/b", xdev.Dst)
	assert.ErrorIs(t, err, syscall.EXDEV)
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	require.NoError(t, Rename(src, dst))
	assert.False(t, Exists(src))
	assert.True(t, Exists(dst))

	err := Rename(src, dst)
	require.Error(t, err)
	var xdev *CrossDeviceError
	assert.False(t, errors.As(err, &xdev))
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "out.bin")

	err := AtomicWrite(dst, 0o600, func(w io.Writer) error {
		_, err := w.Write([]byte("payload"))
		return err
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")
}

func TestAtomicWriteFailureLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dst, []byte("original"), 0o644))

	err := AtomicWrite(dst, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be removed")
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "src.txt.bak")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o640))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), dst))
}

func TestShred(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "empty", size: 0},
		{name: "small", size: 10},
		{name: "block_aligned", size: shredBlockSize * 2},
		{name: "unaligned", size: shredBlockSize*3 + 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "secret")
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = 0xAA
			}
			require.NoError(t, os.WriteFile(path, data, 0o600))

			require.NoError(t, Shred(path, DefaultShredPasses))
			assert.False(t, Exists(path))
		})
	}
}

func TestShredRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Shred(dir, 1))
	assert.True(t, Exists(dir))
}
