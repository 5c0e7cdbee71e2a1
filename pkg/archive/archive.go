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

// Package archive compresses single files into zip, tar.gz, tar.bz2 or zstd
// output. The codecs are used as black boxes.
package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/fsx"
	"github.com/walteh/hekit/pkg/status"
)

const (
	MinLevel     = 1
	MaxLevel     = 9
	DefaultLevel = 6
)

// 📦 Format is an output container
type Format string

const (
	FormatZip    Format = "zip"
	FormatTarGz  Format = "tar.gz"
	FormatTarBz2 Format = "tar.bz2"
	FormatZstd   Format = "zst"
)

// Formats lists every supported format
var Formats = []Format{FormatZip, FormatTarGz, FormatTarBz2, FormatZstd}

// ParseFormat accepts the format names and a few common aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "zip":
		return FormatZip, nil
	case "tar.gz", "tgz", "gz", "gzip":
		return FormatTarGz, nil
	case "tar.bz2", "tbz2", "bz2", "bzip2":
		return FormatTarBz2, nil
	case "zst", "zstd":
		return FormatZstd, nil
	default:
		return "", errors.Errorf("unsupported compression format %q: %w", s, status.ErrConfiguration)
	}
}

// Extension returns the file extension including the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}

// ValidateLevel checks level against the 1-9 range
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return errors.Errorf("compression level %d outside %d-%d: %w", level, MinLevel, MaxLevel, status.ErrConfiguration)
	}
	return nil
}

// 🗜️ Compress writes src into dst using format at level. dst is written
// through a temp file in its directory and only appears once complete.
func Compress(ctx context.Context, src, dst string, format Format, level int) error {
	if err := ValidateLevel(level); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("%s is not a regular file", src)
	}

	r := &ctxReader{ctx: ctx, r: in}

	zerolog.Ctx(ctx).Debug().
		Str("source", src).
		Str("destination", dst).
		Str("format", string(format)).
		Int("level", level).
		Msg("compressing")

	return fsx.AtomicWrite(dst, 0o644, func(w io.Writer) error {
		switch format {
		case FormatZip:
			return writeZip(w, r, info, level)
		case FormatTarGz:
			return writeTarGz(w, r, info, level)
		case FormatTarBz2:
			return writeTarBz2(w, r, info, level)
		case FormatZstd:
			return writeZstd(w, r, level)
		default:
			return errors.Errorf("unsupported compression format %q: %w", format, status.ErrConfiguration)
		}
	})
}

func writeZip(w io.Writer, r io.Reader, info os.FileInfo, level int) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Errorf("building zip header: %w", err)
	}
	hdr.Name = filepath.Base(info.Name())
	hdr.Method = zip.Deflate

	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Errorf("creating zip entry: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return errors.Errorf("writing zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return errors.Errorf("closing zip: %w", err)
	}
	return nil
}

func writeTarGz(w io.Writer, r io.Reader, info os.FileInfo, level int) error {
	gz, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return errors.Errorf("creating gzip writer: %w", err)
	}
	if err := writeTar(gz, r, info); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.Errorf("closing gzip: %w", err)
	}
	return nil
}

func writeTarBz2(w io.Writer, r io.Reader, info os.FileInfo, level int) error {
	bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
	if err != nil {
		return errors.Errorf("creating bzip2 writer: %w", err)
	}
	if err := writeTar(bz, r, info); err != nil {
		return err
	}
	if err := bz.Close(); err != nil {
		return errors.Errorf("closing bzip2: %w", err)
	}
	return nil
}

func writeTar(w io.Writer, r io.Reader, info os.FileInfo) error {
	tw := tar.NewWriter(w)

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Errorf("building tar header: %w", err)
	}
	hdr.Name = filepath.Base(info.Name())

	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Errorf("writing tar header: %w", err)
	}
	if _, err := io.Copy(tw, r); err != nil {
		return errors.Errorf("writing tar entry: %w", err)
	}
	if err := tw.Close(); err != nil {
		return errors.Errorf("closing tar: %w", err)
	}
	return nil
}

func writeZstd(w io.Writer, r io.Reader, level int) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return errors.Errorf("creating zstd writer: %w", err)
	}
	if _, err := io.Copy(zw, r); err != nil {
		zw.Close()
		return errors.Errorf("writing zstd stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return errors.Errorf("closing zstd: %w", err)
	}
	return nil
}

// ctxReader stops a long copy once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
