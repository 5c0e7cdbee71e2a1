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

// Package imageconv converts images between formats, optionally resizing
// them. Decoding and encoding are delegated to imaging.
package imageconv

import (
	"context"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	_ "golang.org/x/image/webp"

	"github.com/walteh/hekit/pkg/fsx"
	"github.com/walteh/hekit/pkg/status"
)

const (
	MinQuality = 1
	MaxQuality = 100
)

// 🖼️ Format is an image format name as it appears in file extensions
type Format string

const (
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

var (
	sourceFormats = []Format{FormatJPG, FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF, FormatWebP}
	targetFormats = []Format{FormatJPG, FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF}
)

// ParseSource parses a format that can be decoded
func ParseSource(s string) (Format, error) {
	return parse(s, sourceFormats, "source")
}

// ParseTarget parses a format that can be encoded. webp is decode-only.
func ParseTarget(s string) (Format, error) {
	return parse(s, targetFormats, "target")
}

func parse(s string, allowed []Format, role string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "tif" {
		f = FormatTIFF
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", errors.Errorf("unsupported %s format %q: %w", role, s, status.ErrConfiguration)
}

// Same reports whether a and b name the same codec (jpg and jpeg do)
func Same(a, b Format) bool {
	return canonical(a) == canonical(b)
}

func canonical(f Format) Format {
	if f == FormatJPEG {
		return FormatJPG
	}
	return f
}

// Options tunes the encoder
type Options struct {
	// Quality applies to JPEG output, 1-100. Zero keeps the encoder default.
	Quality int

	// Width and Height resize the image when both are set
	Width  int
	Height int
}

// Validate checks quality and resize bounds
func (o Options) Validate() error {
	if o.Quality != 0 && (o.Quality < MinQuality || o.Quality > MaxQuality) {
		return errors.Errorf("quality %d outside %d-%d: %w", o.Quality, MinQuality, MaxQuality, status.ErrConfiguration)
	}
	if o.Width < 0 || o.Height < 0 || (o.Width == 0) != (o.Height == 0) {
		return errors.Errorf("resize %dx%d: both dimensions must be positive: %w", o.Width, o.Height, status.ErrConfiguration)
	}
	return nil
}

// 🔄 Convert decodes src and encodes it as target into dst. dst only
// appears once fully written.
func Convert(ctx context.Context, src, dst string, target Format, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := ParseTarget(string(target)); err != nil {
		return err
	}

	encFormat, err := imaging.FormatFromExtension(string(canonical(target)))
	if err != nil {
		return errors.Errorf("resolving encoder for %s: %w", target, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return errors.Errorf("decoding %s: %w", src, err)
	}

	if opts.Width > 0 && opts.Height > 0 {
		img = imaging.Resize(img, opts.Width, opts.Height, imaging.Lanczos)
	}

	var encOpts []imaging.EncodeOption
	if opts.Quality > 0 {
		encOpts = append(encOpts, imaging.JPEGQuality(opts.Quality))
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", src).
		Str("destination", dst).
		Str("format", string(target)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("converting image")

	return fsx.AtomicWrite(dst, 0o644, func(w io.Writer) error {
		if err := imaging.Encode(w, img, encFormat, encOpts...); err != nil {
			return errors.Errorf("encoding %s: %w", dst, err)
		}
		return nil
	})
}
