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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/hekit/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), Batch{
					Operation: "rename",
					Root:      "/photos",
					Mode:      "preview",
				})
			},
			wantLogs: []string{
				"[rename /photos]",
				"◆ rename • preview",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("renaming files")
			},
			wantLogs: []string{
				"hekit • renaming files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
		{
			name: "summary_success",
			op: func(t *testing.T, logger *Logger) {
				logger.Summary(status.RunSummary{Attempted: 3, Succeeded: 2, Skipped: 1, Elapsed: 1500 * time.Microsecond})
			},
			wantLogs: []string{
				"✅ 2 succeeded • 1 skipped • 0 failed (2ms)",
			},
		},
		{
			name: "summary_failed_preview",
			op: func(t *testing.T, logger *Logger) {
				logger.Summary(status.RunSummary{Attempted: 2, Succeeded: 1, Failed: 1, SkippedDirs: 2, Preview: true})
			},
			wantLogs: []string{
				"❌ preview: 1 succeeded • 0 skipped • 1 failed • 2 unreadable dirs (0s)",
			},
		},
		{
			name: "summary_cancelled",
			op: func(t *testing.T, logger *Logger) {
				logger.Summary(status.RunSummary{Attempted: 4, Succeeded: 1, Skipped: 3, Cancelled: true})
			},
			wantLogs: []string{
				"⚠️  1 succeeded • 3 skipped • 0 failed • cancelled (0s)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestResultFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name   string
		result status.OperationResult
		want   string
	}{
		{
			name: "renamed",
			result: status.OperationResult{
				Source:      "/photos/a.jpg",
				Destination: "/photos/x_a.jpg",
				Status:      status.StatusSuccess,
			},
			want: "    ✓ a.jpg                          → x_a.jpg                        done",
		},
		{
			name: "preview_nested",
			result: status.OperationResult{
				Source:      "/photos/2024/a.jpg",
				Destination: "/photos/2024/a_001.jpg",
				Status:      status.StatusSuccess,
				Preview:     true,
			},
			want: "    ✓ 2024/a.jpg                     → 2024/a_001.jpg                 preview",
		},
		{
			name: "removed",
			result: status.OperationResult{
				Source: "/photos/a.tmp",
				Status: status.StatusSuccess,
			},
			want: "    ✓ a.tmp                          → -                              done",
		},
		{
			name: "skipped",
			result: status.OperationResult{
				Source: "/photos/old",
				Status: status.StatusSkipped,
				Reason: "not empty",
			},
			want: "    - old                            → -                              not empty",
		},
		{
			name: "failed_outside_root",
			result: status.OperationResult{
				Source:      "/photos/a.jpg",
				Destination: "/archive/a.zip",
				Status:      status.StatusFailed,
				Err:         errors.Errorf("disk full: %w", status.ErrExecution),
			},
			want: "    ✗ a.jpg                          → /archive/a.zip                 [execution] disk full: execution error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())
			logger.StartBatch(context.Background(), Batch{Operation: "rename", Root: "/photos", Mode: "execute"})
			buf.Reset()

			logger.LogResult(context.Background(), tt.result)

			assert.Equal(t, tt.want, strings.TrimRight(buf.String(), "\n"))
		})
	}
}

func TestReporterPrintsTrackedResults(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Nop())
	reporter := NewReporter(logger, nil)

	ctx := context.Background()
	reporter.StartOperation(ctx, 1)
	reporter.Track(ctx, status.OperationResult{Index: 1, Source: "a.txt", Status: status.StatusSkipped, Reason: "declined"})

	require.Len(t, reporter.Results(ctx), 1)
	assert.Contains(t, buf.String(), "declined")
}
