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

// Package aggregator holds the main algorithm: fanning a repository's
// branch heads out to concurrent GraphQL fetches, merging the results into
// a traversal state, propagating branch membership by reachability, and
// producing the paginated, date-ordered commit list the lane assigner
// consumes next.
//
// Per-branch fetches are issued concurrently with golang.org/x/sync/errgroup,
// but deliberately not via errgroup.WithContext: a branch fetch failure must
// be contained to that branch and logged, not used to cancel its siblings
// (SPEC_FULL.md §4.3's failure semantics — a single branch's outage should
// never blank out a repository's whole graph). The merge step that writes
// into the traversal state always runs after every goroutine has joined, in
// a single logical sequence, per SPEC_FULL.md §5.
package aggregator
