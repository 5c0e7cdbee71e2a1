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
	"gitlab.com/tozd/go/errors"
)

// 🚨 Error classes. Match them with errors.Is.
var (
	// ErrConfiguration is fatal and returned before any scanning starts.
	ErrConfiguration = errors.Base("configuration error")

	// ErrUserInput is a configuration error caused by a malformed user value
	// (empty pattern, unparsable replace rule).
	ErrUserInput = errors.BaseWrap(ErrConfiguration, "invalid input")

	// ErrScan marks a per-directory read failure. It is only ever counted.
	ErrScan = errors.Base("scan warning")

	// ErrTransform marks a destination name that could not be computed.
	ErrTransform = errors.Base("transform error")

	// ErrCollision marks a destination that exists when the mode forbids
	// disambiguating it.
	ErrCollision = errors.Base("collision error")

	// ErrExecution marks a failed filesystem operation for one item.
	ErrExecution = errors.Base("execution error")

	// ErrBatchFailed is returned after a batch that recorded failures.
	ErrBatchFailed = errors.Base("batch finished with failures")
)

// 🏷️ Class returns the name of the error class err belongs to, or "" if none.
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserInput):
		return "input"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTransform):
		return "transform"
	case errors.Is(err, ErrCollision):
		return "collision"
	case errors.Is(err, ErrExecution):
		return "execution"
	case errors.Is(err, ErrScan):
		return "scan"
	case errors.Is(err, ErrBatchFailed):
		return "batch"
	default:
		return "unknown"
	}
}

// 🏷️ Classify tags err with class unless it already belongs to it. The
// message stays err's own and both chains remain reachable with errors.Is.
func Classify(err, class error) error {
	if err == nil || errors.Is(err, class) {
		return err
	}
	return &classified{err: err, class: class}
}

type classified struct {
	err   error
	class error
}

func (c *classified) Error() string { return c.err.Error() }

func (c *classified) Unwrap() []error { return []error{c.err, c.class} }
