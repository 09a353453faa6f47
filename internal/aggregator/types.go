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

package aggregator

import "github.com/sirseerhq/commitgraph-service/internal/domain"

// Options configures one aggregation. Zero values are replaced with the
// package defaults by withDefaults.
type Options struct {
	// InitialCommitsPerBranch is the per-branch history depth requested
	// on the first fetch of each distinct branch tip.
	InitialCommitsPerBranch int

	// MaxCommitsToDisplay caps the returned, date-sorted commit list.
	MaxCommitsToDisplay int

	// CommitsPerFetch caps how many frontier OIDs FetchMoreCommits drains
	// in one call.
	CommitsPerFetch int
}

const (
	defaultInitialCommitsPerBranch = 10
	defaultMaxCommitsToDisplay     = 35
	defaultCommitsPerFetch         = 20
)

func (o Options) withDefaults() Options {
	if o.InitialCommitsPerBranch <= 0 {
		o.InitialCommitsPerBranch = defaultInitialCommitsPerBranch
	}
	if o.MaxCommitsToDisplay <= 0 {
		o.MaxCommitsToDisplay = defaultMaxCommitsToDisplay
	}
	if o.CommitsPerFetch <= 0 {
		o.CommitsPerFetch = defaultCommitsPerFetch
	}
	return o
}

// tipFetchResult is the output of one concurrent per-tip fetch goroutine,
// joined back into the single-threaded merge step. Keying by tip OID
// rather than by branch means two branches sharing a tip (co-located
// heads) only pay for one GraphQL call.
type tipFetchResult struct {
	tip     string
	commits []domain.Commit
	err     error
}
