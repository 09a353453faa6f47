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

// BranchListOptions configures ListBranches.
type BranchListOptions struct {
	// First caps how many refs/heads/* entries are requested. The default
	// branch is always included even if it would fall outside this page,
	// since it is fetched via defaultBranchRef rather than the refs
	// connection. Branch-list pagination beyond the first page is out of
	// scope — see SPEC_FULL.md §9(c).
	First int
}

// CommitHistoryOptions configures GetCommitHistory.
type CommitHistoryOptions struct {
	// Limit is the number of commits to fetch, newest-first, starting at
	// the startOID argument. GraphQLClient uses defaultInitialPerBranch for
	// a non-positive Limit and caps it at maxCommitHistoryPageSize.
	Limit int
}

// Default values for fetch operations.
const (
	defaultBranchPageSize    = 100
	defaultInitialPerBranch  = 10
	maxCommitHistoryPageSize = 20
)
