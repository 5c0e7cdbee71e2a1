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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/progress"
	"github.com/walteh/hekit/pkg/rename"
	"github.com/walteh/hekit/pkg/scan"
	"github.com/walteh/hekit/pkg/status"
	"github.com/walteh/hekit/pkg/text"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("content of "+f), 0o644))
	}
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return out
}

func destNames(run *Run) []string {
	out := make([]string, len(run.Results))
	for i, r := range run.Results {
		out[i] = filepath.Base(r.Destination)
	}
	return out
}

func mustParseReplace(t *testing.T, s string) *text.ReplacementRule {
	t.Helper()
	rule, err := text.ParseReplace(s)
	require.NoError(t, err)
	return rule
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestEngineRename(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		pattern   string
		rule      *rename.Rule
		wantDest  []string
		wantFiles []string
	}{
		{
			name:      "prefix",
			files:     []string{"a.txt", "b.txt"},
			pattern:   "*.txt",
			rule:      &rename.Rule{Prefix: "x_"},
			wantDest:  []string{"x_a.txt", "x_b.txt"},
			wantFiles: []string{"x_a.txt", "x_b.txt"},
		},
		{
			name:      "sequence_follows_index",
			files:     []string{"a.txt", "b.txt"},
			pattern:   "*.txt",
			rule:      &rename.Rule{Sequence: &rename.Sequence{Start: 1}},
			wantDest:  []string{"a_001.txt", "b_002.txt"},
			wantFiles: []string{"a_001.txt", "b_002.txt"},
		},
		{
			name:      "existing_destination_is_disambiguated",
			files:     []string{"a.txt", "x_a.txt"},
			pattern:   "a.txt",
			rule:      &rename.Rule{Prefix: "x_"},
			wantDest:  []string{"x_a_1.txt"},
			wantFiles: []string{"x_a.txt", "x_a_1.txt"},
		},
		{
			name:      "two_sources_same_destination",
			files:     []string{"a-1.txt", "a_1.txt"},
			pattern:   "*.txt",
			rule:      &rename.Rule{Replace: mustParseReplace(t, "/[-_]1$/_one/")},
			wantDest:  []string{"a_one.txt", "a_one_1.txt"},
			wantFiles: []string{"a_one.txt", "a_one_1.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files...)

			e := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: tt.pattern}})
			run, err := e.Run(testContext(t), NewRenameOperation(tt.rule, false))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDest, destNames(run))
			for _, r := range run.Results {
				assert.Equal(t, status.StatusSuccess, r.Status)
			}
			assert.Equal(t, tt.wantFiles, listFiles(t, root))
			assert.Equal(t, len(tt.wantDest), run.Summary.Succeeded)
			assert.Equal(t, PhaseDone, e.Phase())
		})
	}
}

func TestEnginePreviewReportsCollisions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "x_a.txt")

	e := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "a.txt"}, Mode: ModePreview})
	run, err := e.Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.ErrorIs(t, err, status.ErrBatchFailed)
	require.NotNil(t, run)

	require.Len(t, run.Results, 1)
	r := run.Results[0]
	assert.Equal(t, status.StatusFailed, r.Status)
	assert.ErrorIs(t, r.Err, status.ErrCollision)
	assert.Equal(t, "x_a.txt", filepath.Base(r.Destination), "preview shows the undisambiguated name")
	assert.True(t, run.Summary.Preview)

	assert.Equal(t, []string{"a.txt", "x_a.txt"}, listFiles(t, root), "preview never touches the filesystem")
}

func TestEnginePreviewMatchesExecution(t *testing.T) {
	files := []string{"img 1.JPG", "img 2.jpg", "notes.txt", "sub/img 3.jpg"}
	rule := &rename.Rule{
		Prefix:   "trip_",
		Replace:  mustParseReplace(t, " =-"),
		Sequence: &rename.Sequence{Start: 10, Width: 4},
	}

	root := t.TempDir()
	writeFiles(t, root, files...)
	cfg := scan.Config{Root: root, Pattern: "*.jpg", CaseInsensitive: true, Recursive: true}

	preview, err := newEngine(t, Options{Scan: cfg, Mode: ModePreview}).Run(testContext(t), NewRenameOperation(rule, false))
	require.NoError(t, err)
	assert.Equal(t, []string{"img 1.JPG", "img 2.jpg", "notes.txt", "sub/", "sub/img 3.jpg"}, listFiles(t, root))

	executed, err := newEngine(t, Options{Scan: cfg}).Run(testContext(t), NewRenameOperation(rule, false))
	require.NoError(t, err)

	require.Len(t, preview.Results, 3)
	for i := range preview.Results {
		assert.Equal(t, executed.Results[i].Source, preview.Results[i].Source)
		assert.Equal(t, executed.Results[i].Destination, preview.Results[i].Destination)
		assert.True(t, preview.Results[i].Preview)
		assert.False(t, executed.Results[i].Preview)
	}
	assert.Equal(t, []string{"trip_img-1_0010.JPG", "trip_img-2_0011.jpg", "trip_img-3_0012.jpg"}, destNames(executed))
}

func TestEnginePreviewResolvesClashesWithinBatch(t *testing.T) {
	rule := &rename.Rule{Replace: mustParseReplace(t, `/\d+//`)}

	root := t.TempDir()
	writeFiles(t, root, "a1.txt", "a2.txt")
	cfg := scan.Config{Root: root, Pattern: "*.txt"}

	preview, err := newEngine(t, Options{Scan: cfg, Mode: ModePreview}).Run(testContext(t), NewRenameOperation(rule, false))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1.txt", "a2.txt"}, listFiles(t, root))
	assert.Equal(t, 2, preview.Summary.Succeeded)
	assert.Equal(t, []string{"a.txt", "a_1.txt"}, destNames(preview))

	executed, err := newEngine(t, Options{Scan: cfg}).Run(testContext(t), NewRenameOperation(rule, false))
	require.NoError(t, err)
	assert.Equal(t, destNames(preview), destNames(executed))
	assert.Equal(t, []string{"a.txt", "a_1.txt"}, listFiles(t, root))
}

func TestEngineSameDestinationIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	run, err := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}}).
		Run(testContext(t), NewRenameOperation(&rename.Rule{Extension: rename.String("txt")}, false))
	require.NoError(t, err)

	require.Len(t, run.Results, 1)
	assert.Equal(t, status.StatusSkipped, run.Results[0].Status)
	assert.Equal(t, ReasonSameAsSource, run.Results[0].Reason)
	assert.Equal(t, 1, run.Summary.Skipped)
}

func TestEngineBackup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	run, err := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*.txt"}}).
		Run(testContext(t), NewRenameOperation(&rename.Rule{Suffix: "_v2"}, true))
	require.NoError(t, err)
	require.Equal(t, 1, run.Summary.Succeeded)

	assert.Equal(t, []string{"a.txt.bak", "a_v2.txt"}, listFiles(t, root))
	data, err := os.ReadFile(filepath.Join(root, "a.txt.bak"))
	require.NoError(t, err)
	assert.Equal(t, "content of a.txt", string(data))
}

func TestEngineConfigurationErrors(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		opts Options
		op   Operation
	}{
		{
			name: "missing_root",
			opts: Options{Scan: scan.Config{Root: filepath.Join(root, "missing"), Pattern: "*"}},
			op:   NewRenameOperation(&rename.Rule{Prefix: "x"}, false),
		},
		{
			name: "empty_rule",
			opts: Options{Scan: scan.Config{Root: root, Pattern: "*"}},
			op:   NewRenameOperation(&rename.Rule{}, false),
		},
		{
			name: "contradictory_sizes",
			opts: Options{Scan: scan.Config{Root: root, Pattern: "*", MinSize: scan.Int64(5), MaxSize: scan.Int64(1)}},
			op:   NewRenameOperation(&rename.Rule{Prefix: "x"}, false),
		},
		{
			name: "nil_operation",
			opts: Options{Scan: scan.Config{Root: root, Pattern: "*"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.opts)
			run, err := e.Run(testContext(t), tt.op)
			require.Error(t, err)
			assert.ErrorIs(t, err, status.ErrConfiguration)
			assert.Nil(t, run, "no results on configuration errors")
		})
	}

	_, err := New(Options{Mode: ModeInteractive})
	assert.ErrorIs(t, err, status.ErrConfiguration, "interactive mode needs a confirmer")

	_, err = New(Options{Mode: Mode(42)})
	assert.ErrorIs(t, err, status.ErrConfiguration)
}

// fakeOperation fails Apply for sources whose name contains failOn
type fakeOperation struct {
	failOn  string
	mu      sync.Mutex
	applied []string
}

func (f *fakeOperation) Kind() Kind      { return Kind("fake") }
func (f *fakeOperation) Validate() error { return nil }

func (f *fakeOperation) Target(ctx context.Context, cand *scan.Candidate, index, total int) (Target, error) {
	if strings.Contains(cand.Name(), "untransformable") {
		return Target{}, errors.New("no stem")
	}
	return Target{Destination: cand.Path + ".out", Policy: PolicyDisambiguate}, nil
}

func (f *fakeOperation) Apply(ctx context.Context, item *Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && strings.Contains(item.Candidate.Name(), f.failOn) {
		return errors.New("disk on fire")
	}
	f.applied = append(f.applied, item.Candidate.Name())
	return nil
}

func TestEngineFailuresDoNotAbortBatch(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "c.txt", "untransformable.txt")

	op := &fakeOperation{failOn: "b"}
	run, err := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}}).Run(testContext(t), op)
	require.ErrorIs(t, err, status.ErrBatchFailed)
	require.NotNil(t, run)

	assert.Equal(t, []string{"a.txt", "c.txt"}, op.applied)
	assert.Equal(t, 4, run.Summary.Attempted)
	assert.Equal(t, 2, run.Summary.Succeeded)
	assert.Equal(t, 2, run.Summary.Failed)

	assert.ErrorIs(t, run.Results[1].Err, status.ErrExecution)
	assert.Contains(t, run.Results[1].Err.Error(), "disk on fire")
	assert.ErrorIs(t, run.Results[3].Err, status.ErrTransform)

	for i, r := range run.Results {
		assert.Equal(t, i+1, r.Index)
	}
}

func TestEngineInteractive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "c.txt", "d.txt")

	var asked []string
	confirmer := ConfirmFunc(func(ctx context.Context, item Item) (Decision, error) {
		asked = append(asked, item.Candidate.Name())
		switch item.Candidate.Name() {
		case "a.txt":
			return DecisionYes, nil
		case "b.txt":
			return DecisionNo, nil
		default:
			return DecisionQuit, nil
		}
	})

	e := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*.txt"}, Mode: ModeInteractive, Confirmer: confirmer})
	run, err := e.Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "ok_"}, false))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, asked, "nothing is asked after quit")
	require.Len(t, run.Results, 4)
	assert.Equal(t, status.StatusSuccess, run.Results[0].Status)
	assert.Equal(t, ReasonDeclined, run.Results[1].Reason)
	assert.Equal(t, ReasonCancelled, run.Results[2].Reason)
	assert.Equal(t, ReasonCancelled, run.Results[3].Reason)
	assert.True(t, run.Summary.Cancelled)

	assert.Equal(t, []string{"b.txt", "c.txt", "d.txt", "ok_a.txt"}, listFiles(t, root))
}

func TestEngineConfirmErrorStops(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt")

	confirmer := ConfirmFunc(func(ctx context.Context, item Item) (Decision, error) {
		return DecisionNo, assert.AnError
	})

	e := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*.txt"}, Mode: ModeInteractive, Confirmer: confirmer})
	run, err := e.Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "ok_"}, false))
	require.NoError(t, err)
	assert.Equal(t, ReasonConfirmAborted, run.Results[0].Reason)
	assert.Equal(t, ReasonCancelled, run.Results[1].Reason)
	assert.Equal(t, []string{"a.txt", "b.txt"}, listFiles(t, root))
}

func TestEngineCancelMidBatch(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "c.txt")

	st := progress.New()
	confirmer := ConfirmFunc(func(ctx context.Context, item Item) (Decision, error) {
		// an external watcher flips the flag while the first item runs
		st.Cancel()
		return DecisionYes, nil
	})

	e := newEngine(t, Options{
		Scan:      scan.Config{Root: root, Pattern: "*.txt"},
		Mode:      ModeInteractive,
		Confirmer: confirmer,
		State:     st,
	})
	run, err := e.Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err, "cancellation is not an error")

	require.Len(t, run.Results, 3, "one result per candidate")
	assert.Equal(t, status.StatusSuccess, run.Results[0].Status)
	assert.Equal(t, ReasonCancelled, run.Results[1].Reason)
	assert.Equal(t, ReasonCancelled, run.Results[2].Reason)
	assert.True(t, run.Summary.Cancelled)
	assert.Equal(t, int64(3), st.Processed())
}

func TestEngineCancelledBeforeScan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	st := progress.New()
	st.Cancel()

	run, err := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}, State: st}).
		Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err)
	assert.True(t, run.Summary.Cancelled)
	assert.True(t, run.Scan.Cancelled)
	assert.Empty(t, run.Results)
	assert.Equal(t, []string{"a.txt"}, listFiles(t, root))
}

func TestEngineReportsSkippedDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "ok/a.txt", "locked/b.txt")

	readDir := func(dir string) ([]os.DirEntry, error) {
		if filepath.Base(dir) == "locked" {
			return nil, os.ErrPermission
		}
		return os.ReadDir(dir)
	}

	run, err := newEngine(t, Options{
		Scan:        scan.Config{Root: root, Pattern: "*.txt", Recursive: true},
		Mode:        ModePreview,
		ScanOptions: []scan.Option{scan.WithReadDir(readDir)},
	}).Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err)

	assert.Equal(t, 1, run.Summary.SkippedDirs)
	assert.Equal(t, []string{"x_a.txt"}, destNames(run))
}

func TestEngineTracksResultsThroughReporter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt")

	reporter := status.New()
	run, err := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}, Mode: ModePreview, Reporter: reporter}).
		Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err)

	assert.Equal(t, run.Results, reporter.Results(context.Background()))
	processed, total := reporter.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, total)
}

func TestRunnerSamplesProgress(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "c.txt")

	var mu sync.Mutex
	var samples []progress.Snapshot

	e := newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}, Mode: ModePreview})
	runner := NewRunner(e, 0, func(s progress.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		samples = append(samples, s)
	})

	run, err := runner.Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err)
	require.Len(t, run.Results, 3)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, samples)
	last := samples[len(samples)-1]
	assert.Equal(t, int64(3), last.Processed)
	assert.Equal(t, int64(3), last.Total)

	syncRun, err := NewRunner(newEngine(t, Options{Scan: scan.Config{Root: root, Pattern: "*"}, Mode: ModePreview}), 0, nil).
		Run(testContext(t), NewRenameOperation(&rename.Rule{Prefix: "x_"}, false))
	require.NoError(t, err)
	assert.Equal(t, destNames(run), destNames(syncRun))
}
