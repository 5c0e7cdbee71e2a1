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

	"github.com/walteh/hekit/pkg/status"
)

// 📊 Reporter records results like status.Manager and prints each one as it
// arrives.
type Reporter struct {
	*status.Manager
	logger *Logger
}

var _ status.Reporter = (*Reporter)(nil)

// NewReporter wraps manager so tracked results are also printed by l
func NewReporter(l *Logger, manager *status.Manager) *Reporter {
	if manager == nil {
		manager = status.New()
	}
	return &Reporter{Manager: manager, logger: l}
}

func (r *Reporter) Track(ctx context.Context, result status.OperationResult) {
	r.Manager.Track(ctx, result)
	r.logger.LogResult(ctx, result)
}
