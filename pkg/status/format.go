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

package status

import (
	"fmt"
	"path/filepath"
)

// FileFormatter defines how results and progress should be formatted
type FileFormatter interface {
	// FormatResult formats a single item outcome
	FormatResult(result OperationResult) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"

	MsgProgress = "%s Progress: %d/%d (%.0f%%)"
)

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatResult formats an item outcome with emojis
func (f *DefaultFileFormatter) FormatResult(r OperationResult) string {
	src := filepath.Base(r.Source)
	dst := filepath.Base(r.Destination)
	switch {
	case r.Status == StatusFailed:
		return fmt.Sprintf("❌ Failed %s: %s", src, f.FormatError(r.Err))
	case r.Status == StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s (%s)", src, r.Reason)
	case r.Preview && r.Destination == "":
		return fmt.Sprintf("👀 Would process %s", src)
	case r.Preview:
		return fmt.Sprintf("👀 Would move %s → %s", src, dst)
	case r.Destination == "":
		return fmt.Sprintf("🗑️  Removed %s", src)
	default:
		return fmt.Sprintf("✨ Created %s → %s", src, dst)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	if total > 0 {
		percentage = float64(current) / float64(total) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	emoji := EmojiProgress
	if total == 0 || current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}

// FormatError formats an error message
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if class := Class(err); class != "" && class != "unknown" {
		return fmt.Sprintf("[%s] %v", class, err)
	}
	return err.Error()
}
