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
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/giterror"
)

// RetryConfig configures the retry behavior for API calls. It is used only
// by the cache-warm batch command (C10) — the core's request-serving path
// never retries, see SPEC_FULL.md §7.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Client with automatic retry logic for rate limits and
// transient network errors using exponential backoff with jitter.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector giterror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration. A
// nil config falls back to DefaultRetryConfig.
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: giterror.NewInspector(),
	}
}

// ListBranches implements Client with retry logic.
func (r *RetryClient) ListBranches(ctx context.Context, owner, name string, opts BranchListOptions) ([]domain.Branch, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		branches, err := r.client.ListBranches(ctx, owner, name, opts)
		if err == nil {
			return branches, nil
		}

		lastErr = err
		if !r.shouldRetry(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		r.waitBeforeRetry(ctx, err, attempt)
	}

	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// GetCommitHistory implements Client with retry logic.
func (r *RetryClient) GetCommitHistory(ctx context.Context, owner, name, startOID string, opts CommitHistoryOptions) ([]domain.Commit, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		commits, err := r.client.GetCommitHistory(ctx, owner, name, startOID, opts)
		if err == nil {
			return commits, nil
		}

		lastErr = err
		if !r.shouldRetry(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		r.waitBeforeRetry(ctx, err, attempt)
	}

	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// waitBeforeRetry sleeps for the backoff duration appropriate to attempt,
// printing a short progress note to stderr, honoring context cancellation.
// After the final attempt no retry follows, so it returns at once.
func (r *RetryClient) waitBeforeRetry(ctx context.Context, err error, attempt int) {
	if attempt >= r.config.MaxRetries {
		return
	}
	backoff := r.calculateBackoff(attempt)

	if r.inspector.Classify(err) == relaierrors.RateLimited {
		fmt.Fprintf(os.Stderr, "\nrate limit hit, waiting %v before retry (attempt %d/%d)...\n",
			backoff, attempt+1, r.config.MaxRetries)
	} else {
		fmt.Fprintf(os.Stderr, "\nnetwork error, retrying in %v (attempt %d/%d)...\n",
			backoff, attempt+1, r.config.MaxRetries)
	}

	select {
	case <-time.After(backoff):
	case <-ctx.Done():
	}
}

// shouldRetry determines if an error is retryable: rate limits and
// transient transport failures are, auth/permission/not-found errors
// are not.
func (r *RetryClient) shouldRetry(err error) bool {
	switch r.inspector.Classify(err) {
	case relaierrors.RateLimited, relaierrors.Transport:
		return true
	default:
		return false
	}
}

// calculateBackoff calculates the backoff duration for the given attempt,
// applying the configured exponential multiplier, the max-backoff ceiling,
// and +/-10% jitter to avoid a thundering herd against GitHub's API.
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
