// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package giterror

import (
	"errors"
	"fmt"
	"testing"

	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
)

func TestGitHubErrorInspector_Classify(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want relaierrors.Kind
	}{
		{"nil error", nil, relaierrors.Kind("")},
		{"401 unauthorized", errors.New("401 Unauthorized"), relaierrors.Unauthorized},
		{"bad credentials", errors.New("Bad credentials"), relaierrors.Unauthorized},
		{"403 forbidden", errors.New("403 Forbidden"), relaierrors.Forbidden},
		{"resource not accessible", errors.New("Resource not accessible by integration"), relaierrors.Forbidden},
		{"404 not found", errors.New("404 Not Found"), relaierrors.NotFound},
		{"could not resolve repository", errors.New("Could not resolve to a Repository with the name 'x/y'"), relaierrors.NotFound},
		{"rate limit", errors.New("API rate limit exceeded for installation"), relaierrors.RateLimited},
		{"429", errors.New("429 Too Many Requests"), relaierrors.RateLimited},
		{"secondary rate limit takes priority over 403", errors.New("403: You have exceeded a secondary rate limit"), relaierrors.RateLimited},
		{"wrapped not found error", fmt.Errorf("failed to query: %w", errors.New("404 Not Found")), relaierrors.NotFound},
		{"unrecognized shape falls back to transport", errors.New("unexpected EOF"), relaierrors.Transport},
		{"typed error kind is passed through", relaierrors.New(relaierrors.BadRequest, "missing owner", nil), relaierrors.BadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
