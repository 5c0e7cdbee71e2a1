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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/hekit/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 30 // Base width for source and destination names
)

// 📦 Batch describes the run being printed
type Batch struct {
	Operation string // rename, compress, convert, clean
	Root      string // scan root; result paths are shown relative to it
	Mode      string // execute, preview, interactive
}

// 🎯 Logger prints batch progress for humans and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *Batch
	results int
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// display shortens path relative to the batch root when it lies inside it
func (l *Logger) display(path string) string {
	if path == "" {
		return "-"
	}
	if l.batch != nil && l.batch.Root != "" {
		if rel, err := filepath.Rel(l.batch.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// 📝 formatResult formats one item outcome for display
func (l *Logger) formatResult(r status.OperationResult) string {
	symbol := '✓'
	symbolColor := color.FgGreen
	state := "done"

	switch r.Status {
	case status.StatusSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
		state = r.Reason
	case status.StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
		state = "failed"
		if r.Err != nil {
			state = status.NewDefaultFileFormatter().FormatError(r.Err)
		}
	default:
		if r.Preview {
			state = "preview"
		}
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, l.display(r.Source)),
		color.New(color.Faint).Sprint("→"),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", nameWidth, l.display(r.Destination))),
		color.New(symbolColor).Sprint(state))
}

// 📝 LogResult prints one item outcome
func (l *Logger) LogResult(ctx context.Context, r status.OperationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results++
	fmt.Fprintln(l.console, l.formatResult(r))

	l.zlog.Debug().
		Int("index", r.Index).
		Str("source", r.Source).
		Str("destination", r.Destination).
		Str("status", r.Status.String()).
		Str("reason", r.Reason).
		Err(r.Err).
		Msg("item result")
}

// 📝 StartBatch prints the batch header
func (l *Logger) StartBatch(ctx context.Context, b Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &b
	l.results = 0

	fmt.Fprintf(l.console, "[%s %s]\n",
		b.Operation,
		color.New(color.FgCyan).Sprint(b.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(b.Operation),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(b.Mode))

	l.zlog.Info().
		Str("operation", b.Operation).
		Str("root", b.Root).
		Str("mode", b.Mode).
		Msg("starting batch")
}

// 📝 EndBatch closes the current batch
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		return
	}

	l.zlog.Info().
		Str("operation", l.batch.Operation).
		Int("results", l.results).
		Msg("batch complete")

	l.batch = nil
	l.results = 0
}

// 📝 formatSummary formats the counters of a finished batch
func formatSummary(s status.RunSummary) string {
	parts := []string{
		fmt.Sprintf("%d succeeded", s.Succeeded),
		fmt.Sprintf("%d skipped", s.Skipped),
		fmt.Sprintf("%d failed", s.Failed),
	}
	if s.SkippedDirs > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable dirs", s.SkippedDirs))
	}
	if s.Cancelled {
		parts = append(parts, "cancelled")
	}

	line := strings.Join(parts, " • ")
	if s.Preview {
		line = "preview: " + line
	}
	return fmt.Sprintf("%s (%s)", line, s.Elapsed.Round(time.Millisecond))
}

// 📝 Summary prints the counters of a finished batch
func (l *Logger) Summary(s status.RunSummary) {
	line := formatSummary(s)
	switch {
	case s.Failed > 0:
		l.Error(line)
	case s.Cancelled:
		l.Warning(line)
	default:
		l.Success(line)
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("hekit")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) message(symbol string, attr color.Attribute, evt *zerolog.Event, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", symbol, color.New(attr).Sprint(msg))
	evt.Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) { l.message("✅", color.FgGreen, l.zlog.Info(), msg) }

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) { l.message("⚠️ ", color.FgYellow, l.zlog.Warn(), msg) }

// 📝 Error logs an error message
func (l *Logger) Error(msg string) { l.message("❌", color.FgRed, l.zlog.Error(), msg) }

// Info logs a hint the user may act on
func (l *Logger) Info(msg string) { l.message("ℹ️ ", color.FgCyan, l.zlog.Info(), msg) }
