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

	"github.com/sirseerhq/commitgraph-service/internal/domain"
)

// Client defines the interface the aggregation engine (C3) uses to reach
// GitHub's GraphQL API. This interface allows the mock transport in
// mock.go to stand in for the real client in tests.
type Client interface {
	// ListBranches enumerates at least the default branch and the
	// top-level named branches of owner/name. Branch-list pagination
	// itself is out of scope; only the first page is returned.
	ListBranches(ctx context.Context, owner, name string, opts BranchListOptions) ([]domain.Branch, error)

	// GetCommitHistory returns up to opts.Limit commits starting at
	// startOID, newest-first. owner, name, and startOID must be non-empty.
	GetCommitHistory(ctx context.Context, owner, name, startOID string, opts CommitHistoryOptions) ([]domain.Commit, error)
}
