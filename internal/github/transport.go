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

package github

import (
	"fmt"
	"net/http"
	"time"

	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/giterror"
)

// retryTransport adds exponential backoff retry logic for transient
// failures. It is never installed on the core's request-serving path (the
// core never retries internally, see SPEC_FULL.md §7) — it is only
// available to wrap a GraphQLClient's underlying http.Client for the
// cache-warm batch command (C10), an explicit outer caller that runs
// offline and may wait out GitHub's own rate limit.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	inspector  giterror.Inspector
}

// newRetryTransport wraps base with retry-with-backoff. maxRetries caps the
// number of attempts per request; a value <= 0 defaults to 5.
func newRetryTransport(base http.RoundTripper, maxRetries int) http.RoundTripper {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &retryTransport{
		base:       base,
		maxRetries: maxRetries,
		inspector:  giterror.NewInspector(),
	}
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		clonedReq := req.Clone(req.Context())

		resp, err := t.base.RoundTrip(clonedReq)

		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			if !t.isRetryable(err) {
				return nil, err
			}
			lastErr = fmt.Errorf("attempt %d/%d: %w", attempt+1, t.maxRetries, err)
		} else {
			lastErr = fmt.Errorf("attempt %d/%d: received status %d", attempt+1, t.maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt < t.maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, fmt.Errorf("network connection failed after %d attempts, please check your internet connection and try again: %w", t.maxRetries, lastErr)
}

// isRetryable reports whether err represents a transient failure worth
// retrying. Rate limit and auth/permission failures are never retried here
// — those are the caller's decision, not the transport's.
func (t *retryTransport) isRetryable(err error) bool {
	switch t.inspector.Classify(err) {
	case relaierrors.Transport:
		return true
	default:
		return false
	}
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
