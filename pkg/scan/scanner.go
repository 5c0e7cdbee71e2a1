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
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/match"
	"github.com/walteh/hekit/pkg/progress"
	"github.com/walteh/hekit/pkg/status"
)

const (
	DefaultPollEvery    = 10
	DefaultPollInterval = 100 * time.Millisecond
)

// Result is the output of one scan. A cancelled scan is not an error: it
// returns whatever was collected with Cancelled set.
type Result struct {
	Candidates  []*Candidate
	SkippedDirs int
	// Warnings holds one status.ErrScan error per skipped directory
	Warnings    []error
	DirsVisited int
	Cancelled   bool
	Elapsed     time.Duration
}

// Paths returns candidate paths in order
func (r *Result) Paths() []string {
	out := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Path
	}
	return out
}

// 🔍 Scanner walks one directory tree
type Scanner struct {
	cfg     Config
	root    string
	matcher *match.Matcher

	state      *progress.State
	cancelFunc func() bool

	pollEvery    int
	pollInterval time.Duration

	readDir func(string) ([]fs.DirEntry, error)
	stat    func(string) (fs.FileInfo, error)
	now     func() time.Time
}

// Option configures a Scanner
type Option func(*Scanner)

// WithProgress shares counters and the cancellation flag with the caller.
func WithProgress(st *progress.State) Option {
	return func(s *Scanner) {
		s.state = st
	}
}

// WithCancelFunc installs an extra cancellation predicate, evaluated at the
// same checkpoints as the progress flag.
func WithCancelFunc(fn func() bool) Option {
	return func(s *Scanner) {
		s.cancelFunc = fn
	}
}

// WithPollCadence sets how often cancellation is checked: before every
// `every`-th directory, and no more than once per `interval`.
func WithPollCadence(every int, interval time.Duration) Option {
	return func(s *Scanner) {
		if every < 1 {
			every = 1
		}
		if interval < 0 {
			interval = 0
		}
		s.pollEvery = every
		s.pollInterval = interval
	}
}

// WithReadDir replaces os.ReadDir
func WithReadDir(fn func(string) ([]fs.DirEntry, error)) Option {
	return func(s *Scanner) {
		s.readDir = fn
	}
}

// WithStat replaces os.Stat for metadata lookups
func WithStat(fn func(string) (fs.FileInfo, error)) Option {
	return func(s *Scanner) {
		s.stat = fn
	}
}

// 🏭 New validates cfg and builds a scanner. All errors are configuration
// errors; nothing has been traversed yet.
func New(cfg Config, opts ...Option) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, err := match.New(cfg.Pattern, cfg.CaseInsensitive)
	if err != nil {
		return nil, errors.Errorf("building matcher: %w", err)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	s := &Scanner{
		cfg:          cfg,
		root:         filepath.Clean(root),
		matcher:      m,
		pollEvery:    DefaultPollEvery,
		pollInterval: DefaultPollInterval,
		readDir:      os.ReadDir,
		stat:         os.Stat,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute scan root
func (s *Scanner) Root() string {
	return s.root
}

// 🚀 Scan walks the tree and returns sorted, de-duplicated candidates.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	start := s.now()

	res := &Result{}
	queue := []string{s.root}

	var lastPoll time.Time
	processed := 0

	for len(queue) > 0 {
		if processed%s.pollEvery == 0 {
			if now := s.now(); lastPoll.IsZero() || now.Sub(lastPoll) >= s.pollInterval {
				lastPoll = now
				if s.shouldCancel(ctx) {
					res.Cancelled = true
					logger.Warn().
						Int("dirs_visited", res.DirsVisited).
						Int("candidates", len(res.Candidates)).
						Msg("scan cancelled, returning partial results")
					break
				}
			}
		}

		var dir string
		switch s.cfg.Order {
		case OrderDepthFirst:
			dir = queue[len(queue)-1]
			queue = queue[:len(queue)-1]
		default:
			dir = queue[0]
			queue = queue[1:]
		}
		processed++

		subdirs, err := s.visit(ctx, dir, res)
		if err != nil {
			err = status.Classify(err, status.ErrScan)
			res.SkippedDirs++
			res.Warnings = append(res.Warnings, err)
			logger.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
			continue
		}

		if !s.cfg.Recursive {
			continue
		}

		if s.cfg.Order == OrderDepthFirst {
			// stack: push in reverse so the lexically first child is popped first
			for i := len(subdirs) - 1; i >= 0; i-- {
				queue = append(queue, subdirs[i])
			}
		} else {
			queue = append(queue, subdirs...)
		}
	}

	res.Candidates = sortUnique(res.Candidates)
	res.Elapsed = s.now().Sub(start)

	logger.Debug().
		Str("root", s.root).
		Int("candidates", len(res.Candidates)).
		Int("dirs_visited", res.DirsVisited).
		Int("skipped_dirs", res.SkippedDirs).
		Bool("cancelled", res.Cancelled).
		Dur("elapsed", res.Elapsed).
		Msg("scan finished")

	return res, nil
}

func (s *Scanner) shouldCancel(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if s.state.Cancelled() {
		return true
	}
	return s.cancelFunc != nil && s.cancelFunc()
}

// visit reads one directory, appends matching entries to res and returns the
// subdirectories to descend into.
func (s *Scanner) visit(ctx context.Context, dir string, res *Result) ([]string, error) {
	entries, err := s.readDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", dir, err)
	}

	res.DirsVisited++
	s.state.AddDirVisited()

	logger := zerolog.Ctx(ctx)
	var subdirs []string

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		mode := entry.Type()

		var info fs.FileInfo
		switch {
		case mode&fs.ModeSymlink != 0:
			// symlinked directories are never followed
			target, err := s.stat(full)
			if err != nil || !target.Mode().IsRegular() {
				logger.Debug().Str("path", full).Msg("ignoring symlink")
				continue
			}
			info = target
		case entry.IsDir():
			subdirs = append(subdirs, full)
			if s.cfg.IncludeDirs && s.matcher.Match(name) {
				s.add(res, full, true, nil)
			}
			continue
		case !mode.IsRegular():
			continue
		}

		if s.cfg.ExcludeFiles || !s.matcher.Match(name) {
			continue
		}
		if !s.cfg.extensionMatches(name) {
			continue
		}

		cand := s.newCandidate(full, false, info)
		if s.cfg.needsInfo() {
			fi, err := cand.Info()
			if err != nil {
				logger.Debug().Err(err).Str("path", full).Msg("dropping candidate without metadata")
				continue
			}
			if !s.cfg.infoMatches(fi) {
				continue
			}
		}

		res.Candidates = append(res.Candidates, cand)
		s.state.AddCandidate()
	}

	return subdirs, nil
}

func (s *Scanner) add(res *Result, path string, isDir bool, info fs.FileInfo) {
	res.Candidates = append(res.Candidates, s.newCandidate(path, isDir, info))
	s.state.AddCandidate()
}

func (s *Scanner) newCandidate(path string, isDir bool, info fs.FileInfo) *Candidate {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	return &Candidate{
		Path:    path,
		RelPath: rel,
		IsDir:   isDir,
		info:    info,
		stat:    s.stat,
	}
}

func sortUnique(in []*Candidate) []*Candidate {
	sort.Slice(in, func(i, j int) bool {
		return in[i].Path < in[j].Path
	})

	out := in[:0]
	for _, c := range in {
		if len(out) > 0 && out[len(out)-1].Path == c.Path {
			continue
		}
		out = append(out, c)
	}
	return out
}
