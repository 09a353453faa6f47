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

// Package metadata provides a Tracker the aggregation engine (C3) updates
// as it issues GraphQL calls and visits commits, and a FetchMetadata
// record the request boundary (C6) logs once a request finishes.
package metadata

import (
	"sync/atomic"
	"time"
)

// Tracker collects statistics during one aggregation. It is created at the
// start of a request and read via Finish once the response is ready.
// IncrementAPICall is safe to call concurrently from the per-branch fetch
// goroutines C3's errgroup fan-out spawns; AddCommits is only ever called
// from the single-threaded merge step, per SPEC_FULL.md §5.
type Tracker struct {
	startTime    time.Time
	apiCallCount int64
	commitCount  int
}

// New creates a Tracker and starts its clock.
func New() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// IncrementAPICall records one getCommitHistory or listBranches call.
func (t *Tracker) IncrementAPICall() {
	atomic.AddInt64(&t.apiCallCount, 1)
}

// AddCommits records how many commits a single merge step inserted or
// updated in the traversal state.
func (t *Tracker) AddCommits(n int) {
	t.commitCount += n
}

// Finish builds the FetchMetadata record for the completed request.
func (t *Tracker) Finish(requestID, owner, repo, branchFilter string) *FetchMetadata {
	completedAt := time.Now()
	return &FetchMetadata{
		RequestID:    requestID,
		Owner:        owner,
		Repo:         repo,
		BranchFilter: branchFilter,
		APICallCount: int(atomic.LoadInt64(&t.apiCallCount)),
		CommitCount:  t.commitCount,
		Duration:     completedAt.Sub(t.startTime),
		StartedAt:    t.startTime,
		CompletedAt:  completedAt,
	}
}
