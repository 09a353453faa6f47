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

import (
	"sort"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	"github.com/sirseerhq/commitgraph-service/internal/travstate"
)

// buildPayload sorts every visited commit by committedDate descending
// (OID lexicographic tie-break), truncates to max, and computes the
// hasMore/cursor pagination hints. Branches and heads are carried through
// unchanged from the caller's already-resolved branch list, so a branch
// whose fetch failed is still listed even though it has no commits.
func buildPayload(state *travstate.State, branches []domain.Branch, max int) *domain.CommitGraphPayload {
	sorted := sortedCommits(state)
	total := len(sorted)

	if len(sorted) > max {
		sorted = sorted[:max]
	}

	hasMore := total > max || state.FrontierLen() > 0
	var cursor string
	if front := state.FrontierPeek(); len(front) > 0 {
		cursor = front[0]
	}

	heads := make([]domain.HeadRef, 0, len(branches))
	for _, b := range branches {
		heads = append(heads, domain.HeadRef{Name: b.Name, OID: b.Target.OID})
	}

	return &domain.CommitGraphPayload{
		Commits:  sorted,
		Branches: branches,
		Heads:    heads,
		HasMore:  hasMore,
		Cursor:   cursor,
	}
}

// sortedCommits returns every visited commit ordered by committedDate
// descending, OID ascending on ties. The lane assigner's determinism
// depends on this ordering being independent of fetch/insertion order.
func sortedCommits(state *travstate.State) []domain.Commit {
	out := make([]domain.Commit, 0, len(state.Commits))
	for _, c := range state.Commits {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CommittedDate.Equal(out[j].CommittedDate) {
			return out[i].CommittedDate.After(out[j].CommittedDate)
		}
		return out[i].OID < out[j].OID
	})
	return out
}
