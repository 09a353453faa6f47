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

// Package travstate is the typed bag of mutable collections the
// aggregation engine (internal/aggregator) accumulates into during one
// commit-graph traversal: the visited set, the commit-by-OID index, the
// per-branch membership index, and the pending frontier. It makes no
// algorithmic decisions of its own — see SPEC_FULL.md §4.2.
package travstate

import "github.com/sirseerhq/commitgraph-service/internal/domain"

// CurrentVersion is the schema version of a persisted snapshot.
const CurrentVersion = 1

// State holds the traversal's mutable collections. A State is scoped to
// one repository's aggregation and is not safe for concurrent mutation by
// more than one caller; the aggregation engine serializes all writes to it
// per SPEC_FULL.md §5.
type State struct {
	// Visited is the set of commit OIDs already inserted into Commits.
	Visited map[string]struct{}

	// Commits indexes every visited commit by OID.
	Commits map[string]*domain.Commit

	// BranchCommits maps a branch name to the set of OIDs associated with
	// it: those fetched from the branch's own tip plus those the
	// aggregator's propagation and re-association passes attribute to it.
	BranchCommits map[string]map[string]struct{}

	// frontierOrder preserves insertion order so frontier draining is
	// deterministic, as spec.md §4.3 step 1 of fetchMoreCommits requires.
	frontierOrder []string
	frontierSet   map[string]struct{}
}

// New creates an empty State ready for a fresh traversal.
func New() *State {
	return &State{
		Visited:       make(map[string]struct{}),
		Commits:       make(map[string]*domain.Commit),
		BranchCommits: make(map[string]map[string]struct{}),
		frontierSet:   make(map[string]struct{}),
	}
}

// MarkVisited inserts a commit into the visited set and commit index and
// drops its OID from the frontier if it was queued there, so the frontier
// never holds a visited OID. It is a no-op if the OID is already visited.
func (s *State) MarkVisited(c *domain.Commit) {
	if _, ok := s.Visited[c.OID]; ok {
		return
	}
	s.Visited[c.OID] = struct{}{}
	s.Commits[c.OID] = c
	s.RemoveFrontier(c.OID)
}

// IsVisited reports whether oid has already been inserted.
func (s *State) IsVisited(oid string) bool {
	_, ok := s.Visited[oid]
	return ok
}

// Commit returns the indexed commit for oid, if any.
func (s *State) Commit(oid string) (*domain.Commit, bool) {
	c, ok := s.Commits[oid]
	return c, ok
}

// AddFrontier enqueues oid as a pending parent to fetch, unless it is
// already visited or already queued.
func (s *State) AddFrontier(oid string) {
	if s.IsVisited(oid) {
		return
	}
	if _, ok := s.frontierSet[oid]; ok {
		return
	}
	s.frontierSet[oid] = struct{}{}
	s.frontierOrder = append(s.frontierOrder, oid)
}

// RemoveFrontier dequeues oid, if present.
func (s *State) RemoveFrontier(oid string) {
	if _, ok := s.frontierSet[oid]; !ok {
		return
	}
	delete(s.frontierSet, oid)
	for i, o := range s.frontierOrder {
		if o == oid {
			s.frontierOrder = append(s.frontierOrder[:i], s.frontierOrder[i+1:]...)
			break
		}
	}
}

// FrontierLen reports how many OIDs are pending.
func (s *State) FrontierLen() int {
	return len(s.frontierOrder)
}

// FrontierPeek returns a copy of the current frontier in insertion order,
// without draining it. Used to compute the response's opaque cursor.
func (s *State) FrontierPeek() []string {
	out := make([]string, len(s.frontierOrder))
	copy(out, s.frontierOrder)
	return out
}

// DrainFrontier removes and returns up to n OIDs from the front of the
// frontier, in insertion order. It returns fewer than n if the frontier is
// shorter.
func (s *State) DrainFrontier(n int) []string {
	if n > len(s.frontierOrder) {
		n = len(s.frontierOrder)
	}
	drained := make([]string, n)
	copy(drained, s.frontierOrder[:n])

	for _, oid := range drained {
		delete(s.frontierSet, oid)
	}
	s.frontierOrder = s.frontierOrder[n:]

	return drained
}

// Associate records that oid is reachable from branch, adding branch to
// the commit's Branches set and recording the OID under BranchCommits.
func (s *State) Associate(branch, oid string) {
	if s.BranchCommits[branch] == nil {
		s.BranchCommits[branch] = make(map[string]struct{})
	}
	s.BranchCommits[branch][oid] = struct{}{}

	c, ok := s.Commits[oid]
	if !ok {
		return
	}
	for _, b := range c.Branches {
		if b == branch {
			return
		}
	}
	c.Branches = append(c.Branches, branch)
}
