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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/archive"
	"github.com/walteh/hekit/pkg/imageconv"
	"github.com/walteh/hekit/pkg/operation"
	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
	"github.com/walteh/hekit/pkg/text"
)

// 🔌 Parser is the interface for job file parsers
type Parser interface {
	// 📝 Parse decodes a job from bytes. Validation happens in Load.
	Parse(ctx context.Context, data []byte) (*Job, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🏷️ RenameJob is the rename block of a job
type RenameJob struct {
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	Suffix  string `json:"suffix,omitempty" yaml:"suffix,omitempty" hcl:"suffix,optional"`
	Replace string `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"` // old=new, /regex/repl/ or a literal to delete

	SequenceStart *int `json:"sequence_start,omitempty" yaml:"sequence_start,omitempty" hcl:"sequence_start,optional"`
	SequenceWidth *int `json:"sequence_width,omitempty" yaml:"sequence_width,omitempty" hcl:"sequence_width,optional"`

	// Extension replaces the extension; an empty string removes it
	Extension *string `json:"extension,omitempty" yaml:"extension,omitempty" hcl:"extension,optional"`

	Backup bool `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
}

// 🗜️ CompressJob is the compress block of a job
type CompressJob struct {
	Format    string `json:"format" yaml:"format" hcl:"format"`
	Level     int    `json:"level,omitempty" yaml:"level,omitempty" hcl:"level,optional"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
}

// 🖼️ ConvertJob is the convert block of a job
type ConvertJob struct {
	From         string `json:"from" yaml:"from" hcl:"from"`
	To           string `json:"to" yaml:"to" hcl:"to"`
	OutputDir    string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	Quality      int    `json:"quality,omitempty" yaml:"quality,omitempty" hcl:"quality,optional"`
	Width        int    `json:"width,omitempty" yaml:"width,omitempty" hcl:"width,optional"`
	Height       int    `json:"height,omitempty" yaml:"height,omitempty" hcl:"height,optional"`
	Overwrite    bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty" hcl:"overwrite,optional"`
	Disambiguate bool   `json:"disambiguate,omitempty" yaml:"disambiguate,omitempty" hcl:"disambiguate,optional"`
}

// 🧹 CleanJob is the clean block of a job
type CleanJob struct {
	Mode     string   `json:"mode" yaml:"mode" hcl:"mode"`
	Days     *int     `json:"days,omitempty" yaml:"days,omitempty" hcl:"days,optional"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`
	Passes   *int     `json:"passes,omitempty" yaml:"passes,omitempty" hcl:"passes,optional"`
}

// 📚 Job is a complete batch description: what to scan and what to do
type Job struct {
	Operation string `json:"operation" yaml:"operation" hcl:"operation"`

	Root            string `json:"root" yaml:"root" hcl:"root"`
	Pattern         string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
	Recursive       bool   `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty" hcl:"case_insensitive,optional"`
	MinSize         *int64 `json:"min_size,omitempty" yaml:"min_size,omitempty" hcl:"min_size,optional"`
	MaxSize         *int64 `json:"max_size,omitempty" yaml:"max_size,omitempty" hcl:"max_size,optional"`
	Extension       string `json:"extension,omitempty" yaml:"extension,omitempty" hcl:"extension,optional"`
	DepthFirst      bool   `json:"depth_first,omitempty" yaml:"depth_first,omitempty" hcl:"depth_first,optional"`

	Preview     bool `json:"preview,omitempty" yaml:"preview,omitempty" hcl:"preview,optional"`
	Interactive bool `json:"interactive,omitempty" yaml:"interactive,omitempty" hcl:"interactive,optional"`

	Rename   *RenameJob   `json:"rename,omitempty" yaml:"rename,omitempty" hcl:"rename,block"`
	Compress *CompressJob `json:"compress,omitempty" yaml:"compress,omitempty" hcl:"compress,block"`
	Convert  *ConvertJob  `json:"convert,omitempty" yaml:"convert,omitempty" hcl:"convert,block"`
	Clean    *CleanJob    `json:"clean,omitempty" yaml:"clean,omitempty" hcl:"clean,block"`

	location string
}

// 🎯 Load reads, decodes and validates a job file. A relative root is
// resolved against the job file's directory.
func Load(ctx context.Context, path string) (*Job, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading job")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading job file: %w", status.Classify(err, status.ErrConfiguration))
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file %s: %w", path, status.ErrConfiguration)
	}

	job, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing job: %w", status.Classify(err, status.ErrConfiguration))
	}

	job.location = path
	if job.Pattern == "" {
		job.Pattern = "*"
	}
	if job.Root != "" && !filepath.IsAbs(job.Root) {
		job.Root = filepath.Join(filepath.Dir(path), job.Root)
	}

	if err := job.Validate(); err != nil {
		return nil, errors.Errorf("validating job: %w", err)
	}

	logger.Debug().Str("job", job.String()).Msg("job loaded")
	return job, nil
}

// Location is the file the job was loaded from, if any
func (j *Job) Location() string {
	return j.location
}

// 🔍 Validate checks that the job names one operation with its block
func (j *Job) Validate() error {
	if j.Root == "" {
		return errors.Errorf("root is required: %w", status.ErrConfiguration)
	}
	if j.Preview && j.Interactive {
		return errors.Errorf("preview and interactive are mutually exclusive: %w", status.ErrConfiguration)
	}

	blocks := map[operation.Kind]bool{
		operation.KindRename:   j.Rename != nil,
		operation.KindCompress: j.Compress != nil,
		operation.KindConvert:  j.Convert != nil,
		operation.KindClean:    j.Clean != nil,
	}

	kind := operation.Kind(strings.ToLower(strings.TrimSpace(j.Operation)))
	present, known := blocks[kind]
	if !known {
		return errors.Errorf("unknown operation %q: %w", j.Operation, status.ErrConfiguration)
	}
	if !present {
		return errors.Errorf("operation %s needs a %s block: %w", kind, kind, status.ErrConfiguration)
	}
	for other, set := range blocks {
		if set && other != kind {
			return errors.Errorf("%s block given for a %s job: %w", other, kind, status.ErrConfiguration)
		}
	}
	return nil
}

// ⚙️ Options turns the job into engine options and the operation to run
func (j *Job) Options() (operation.Options, operation.Operation, error) {
	if err := j.Validate(); err != nil {
		return operation.Options{}, nil, err
	}

	opts := operation.Options{
		Scan: j.ScanConfig(),
		Mode: operation.ModeExecute,
	}
	switch {
	case j.Preview:
		opts.Mode = operation.ModePreview
	case j.Interactive:
		opts.Mode = operation.ModeInteractive
	}

	op, err := j.operation()
	if err != nil {
		return operation.Options{}, nil, err
	}
	return opts, op, nil
}

// ScanConfig is the scan half of the job
func (j *Job) ScanConfig() scan.Config {
	cfg := scan.Config{
		Root:            j.Root,
		Pattern:         j.Pattern,
		Recursive:       j.Recursive,
		CaseInsensitive: j.CaseInsensitive,
		MinSize:         j.MinSize,
		MaxSize:         j.MaxSize,
		Extension:       j.Extension,
	}
	if j.DepthFirst {
		cfg.Order = scan.OrderDepthFirst
	}
	return cfg
}

func (j *Job) operation() (operation.Operation, error) {
	switch operation.Kind(strings.ToLower(strings.TrimSpace(j.Operation))) {
	case operation.KindRename:
		rule, err := j.Rename.Rule()
		if err != nil {
			return nil, err
		}
		return operation.NewRenameOperation(rule, j.Rename.Backup), nil

	case operation.KindCompress:
		format, err := archive.ParseFormat(j.Compress.Format)
		if err != nil {
			return nil, err
		}
		return operation.NewCompressOperation(format, j.Compress.Level, j.Compress.OutputDir), nil

	case operation.KindConvert:
		from, err := imageconv.ParseSource(j.Convert.From)
		if err != nil {
			return nil, err
		}
		to, err := imageconv.ParseTarget(j.Convert.To)
		if err != nil {
			return nil, err
		}
		return &operation.ConvertOperation{
			From:      from,
			To:        to,
			OutputDir: j.Convert.OutputDir,
			Options: imageconv.Options{
				Quality: j.Convert.Quality,
				Width:   j.Convert.Width,
				Height:  j.Convert.Height,
			},
			Overwrite:    j.Convert.Overwrite,
			Disambiguate: j.Convert.Disambiguate,
		}, nil

	case operation.KindClean:
		mode, err := operation.ParseCleanMode(j.Clean.Mode)
		if err != nil {
			return nil, err
		}
		op := operation.NewCleanOperation(mode)
		op.Patterns = j.Clean.Patterns
		if j.Clean.Days != nil {
			op.Days = *j.Clean.Days
		}
		if j.Clean.Passes != nil {
			op.Passes = *j.Clean.Passes
		}
		return op, nil
	}

	return nil, errors.Errorf("unknown operation %q: %w", j.Operation, status.ErrConfiguration)
}

// Rule builds the rename rule described by the block
func (r *RenameJob) Rule() (*rename.Rule, error) {
	rule := &rename.Rule{
		Prefix:    r.Prefix,
		Suffix:    r.Suffix,
		Extension: r.Extension,
	}

	if r.Replace != "" {
		replace, err := text.ParseReplace(r.Replace)
		if err != nil {
			return nil, err
		}
		rule.Replace = replace
	}

	if r.SequenceStart != nil || r.SequenceWidth != nil {
		seq := &rename.Sequence{Start: 1, Width: rename.DefaultSequenceWidth}
		if r.SequenceStart != nil {
			seq.Start = *r.SequenceStart
		}
		if r.SequenceWidth != nil {
			seq.Width = *r.SequenceWidth
		}
		rule.Sequence = seq
	}

	return rule, nil
}

// 📝 String returns a string representation of the job
func (j *Job) String() string {
	scope := "top level"
	if j.Recursive {
		scope = "recursive"
	}
	return fmt.Sprintf("%s %s in %s (%s)", j.Operation, j.Pattern, j.Root, scope)
}
