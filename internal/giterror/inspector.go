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
	"strings"

	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
)

// Inspector classifies a raw error returned by the GraphQL transport into
// one of the core's error kinds (see internal/errors).
type Inspector interface {
	Classify(err error) relaierrors.Kind
}

// GitHubErrorInspector implements Inspector. It first checks whether err
// already carries a typed kind (via errors.As against *relaierrors.Error
// somewhere in its chain, through relaierrors.KindOf), then falls back to
// substring matching against GitHub's known error message shapes. Rate
// limit is checked before auth/scope, since GitHub reports both an
// exhausted secondary rate limit and a missing-scope rejection as HTTP 403.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// Classify returns the Kind that best matches err. An error that already
// carries a Kind other than Transport (including BadRequest) is returned
// with that Kind unchanged; other errors are classified by their message.
func (i *GitHubErrorInspector) Classify(err error) relaierrors.Kind {
	if err == nil {
		return ""
	}
	if kind := relaierrors.KindOf(err); kind != relaierrors.Transport {
		return kind
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case containsAny(errStr, "rate limit", "429", "api rate limit exceeded", "secondary rate limit"):
		return relaierrors.RateLimited
	case containsAny(errStr, "401", "bad credentials", "requires authentication"):
		return relaierrors.Unauthorized
	case containsAny(errStr, "403", "forbidden", "resource not accessible", "must have push access"):
		return relaierrors.Forbidden
	case containsAny(errStr, "404", "not found", "could not resolve to a repository",
		"could not resolve to a commit", "could not resolve to a ref"):
		return relaierrors.NotFound
	default:
		return relaierrors.Transport
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
