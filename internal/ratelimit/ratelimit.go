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

// Package ratelimit throttles outbound GraphQL calls on the client side so
// a single aggregation's concurrent branch fan-out cannot exceed a
// configured queries-per-second budget, independent of whatever limit
// GitHub itself enforces. This is distinct from the rate-limit *surface*
// (exposing GitHub's own rate-limit headers to API callers), which is out
// of scope for the core.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps golang.org/x/time/rate.Limiter with the one method the
// GraphQL transport needs: block until a token is available or ctx is
// done. A single Limiter is shared by every goroutine in one aggregation's
// branch fan-out, so concurrency never inflates the outbound QPS.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter allowing qps requests per second with the given
// burst capacity. A non-positive qps disables throttling entirely (the
// limiter always allows immediately) — used in tests and for GitHub
// Enterprise deployments that front their own gateway-level throttle.
func New(qps float64, burst int) *Limiter {
	if qps <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 0)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(qps), burst)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
