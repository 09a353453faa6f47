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

package travstate

import (
	"testing"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
)

func TestMarkVisited(t *testing.T) {
	s := New()
	c := &domain.Commit{OID: "abc"}

	s.MarkVisited(c)
	if !s.IsVisited("abc") {
		t.Fatal("expected abc to be visited")
	}

	got, ok := s.Commit("abc")
	if !ok || got.OID != "abc" {
		t.Fatalf("Commit(abc) = %v, %v", got, ok)
	}

	// Re-marking is a no-op, not an overwrite.
	c2 := &domain.Commit{OID: "abc", MessageHeadline: "different"}
	s.MarkVisited(c2)
	got, _ = s.Commit("abc")
	if got.MessageHeadline != "" {
		t.Error("expected first insert to win on duplicate MarkVisited")
	}
}

func TestFrontierOrderingAndDrain(t *testing.T) {
	s := New()
	s.AddFrontier("c")
	s.AddFrontier("a")
	s.AddFrontier("b")

	if s.FrontierLen() != 3 {
		t.Fatalf("expected 3 pending, got %d", s.FrontierLen())
	}

	drained := s.DrainFrontier(2)
	if len(drained) != 2 || drained[0] != "c" || drained[1] != "a" {
		t.Fatalf("expected insertion-order drain [c a], got %v", drained)
	}
	if s.FrontierLen() != 1 {
		t.Fatalf("expected 1 remaining, got %d", s.FrontierLen())
	}
}

func TestAddFrontierSkipsVisitedAndDuplicates(t *testing.T) {
	s := New()
	s.MarkVisited(&domain.Commit{OID: "visited"})

	s.AddFrontier("visited")
	s.AddFrontier("new")
	s.AddFrontier("new")

	if s.FrontierLen() != 1 {
		t.Fatalf("expected only 'new' queued, got %d entries", s.FrontierLen())
	}
}

func TestRemoveFrontier(t *testing.T) {
	s := New()
	s.AddFrontier("a")
	s.AddFrontier("b")

	s.RemoveFrontier("a")
	if s.FrontierLen() != 1 {
		t.Fatalf("expected 1 remaining, got %d", s.FrontierLen())
	}
	peek := s.FrontierPeek()
	if len(peek) != 1 || peek[0] != "b" {
		t.Fatalf("expected [b], got %v", peek)
	}

	// Removing something not present is a no-op.
	s.RemoveFrontier("does-not-exist")
	if s.FrontierLen() != 1 {
		t.Fatal("expected remove of absent oid to be a no-op")
	}
}

func TestAssociate(t *testing.T) {
	s := New()
	s.MarkVisited(&domain.Commit{OID: "c1"})

	s.Associate("main", "c1")
	s.Associate("main", "c1") // idempotent

	c, _ := s.Commit("c1")
	if len(c.Branches) != 1 || c.Branches[0] != "main" {
		t.Fatalf("expected branches [main], got %v", c.Branches)
	}
	if _, ok := s.BranchCommits["main"]["c1"]; !ok {
		t.Fatal("expected c1 recorded under BranchCommits[main]")
	}

	s.Associate("develop", "c1")
	c, _ = s.Commit("c1")
	if len(c.Branches) != 2 {
		t.Fatalf("expected 2 branches after second association, got %v", c.Branches)
	}
}
