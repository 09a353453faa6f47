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

// Package lanes assigns a deterministic lane (vertical column) and color
// to each commit in an already date-sorted commit list, and computes the
// occupancy matrix the renderer uses to draw branch lines between rows.
// Assign is a pure function of its input: no I/O, no randomness, no
// time-based choices — see SPEC_FULL.md §4.4.
package lanes

import (
	"container/heap"
	"sort"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
)

// Palette is the fixed, bit-exact 9-entry color sequence. Lane n is
// colored Palette[n % len(Palette)].
var Palette = [9]string{
	"#fd7f6f", "#beb9db", "#7eb0d5", "#b2e061", "#bd7ebe",
	"#ffb55a", "#ffee65", "#fdcce5", "#8bd3c7",
}

// Assign stamps LineIndex, Color, and IsHead on every commit in commits
// (which must already be sorted newest-first, per SPEC_FULL.md §4.3 step
// 4) and returns the occupancy matrix: one row per commit, each row the
// ascending sorted list of lanes alive at that row.
//
// Assign holds no state across calls. A row's lane depends on the rows
// processed before it and on which parent OIDs are present in commits.
// Re-running it over a commit list extended with older commits at the
// tail (as fetchMoreCommits does) therefore keeps every already-present
// commit's lane unless an appended commit is a parent that was missing
// from the shorter list: that parent now holds its child's lane, so a
// later row that had reused the released lane can move to another one.
func Assign(commits []*domain.Commit, heads []domain.HeadRef) []domain.OccupancyRow {
	headSet := make(map[string]bool, len(heads))
	for _, h := range heads {
		headSet[h.OID] = true
	}

	present := make(map[string]bool, len(commits))
	for _, c := range commits {
		present[c.OID] = true
	}

	a := newAssigner(present)
	occupancy := make([]domain.OccupancyRow, len(commits))

	for i, c := range commits {
		lane := a.laneFor(c.OID)

		c.LineIndex = lane
		c.Color = Palette[lane%len(Palette)]
		c.IsHead = headSet[c.OID]

		for pi, p := range c.Parents {
			a.reserveParent(p.OID, lane, pi == 0)
		}

		occupancy[i] = a.occupancyRow(lane)
		a.releaseIfUnclaimed(lane)
	}

	return occupancy
}

// assigner holds the free-lane pool and the in-flight reservations for
// one Assign call.
type assigner struct {
	laneOfOID  map[string]int
	reservedBy map[int]string
	free       *intHeap
	nextLane   int

	// present is the set of OIDs in this call's commit list. A parent OID
	// outside this set falls outside the fetched/displayed window and will
	// never appear as a row to claim or release its reservation — per
	// SPEC_FULL.md §4.4 such a parent is treated as having no reservation
	// at all, rather than leaking a lane forever.
	present map[string]bool
}

func newAssigner(present map[string]bool) *assigner {
	free := &intHeap{}
	heap.Init(free)
	return &assigner{
		laneOfOID:  make(map[string]int),
		reservedBy: make(map[int]string),
		free:       free,
		present:    present,
	}
}

// laneFor returns the lane reserved for oid by an earlier row (a child
// whose first parent is oid), or allocates a fresh lane if oid is a head
// with no prior claim. The reservation, if any, is consumed — oid's own
// row will re-reserve the lane below if its first parent inherits it.
func (a *assigner) laneFor(oid string) int {
	lane, ok := a.laneOfOID[oid]
	if !ok {
		lane = a.allocate()
		a.laneOfOID[oid] = lane
	}
	delete(a.reservedBy, lane)
	return lane
}

// reserveParent assigns parentOID a lane: isFirstParent inherits the
// current row's lane (mainline continuity); any other parent gets a
// fresh lane. A parent OID that already has a lane reservation from an
// earlier row (a criss-cross merge target) is left untouched — the first
// claimant wins. A parent OID outside the fetched/displayed window is
// never reserved at all, since no later row exists to release it.
func (a *assigner) reserveParent(parentOID string, currentLane int, isFirstParent bool) {
	if !a.present[parentOID] {
		return
	}
	if _, claimed := a.laneOfOID[parentOID]; claimed {
		return
	}

	lane := currentLane
	if !isFirstParent {
		lane = a.allocate()
	}
	a.laneOfOID[parentOID] = lane
	a.reservedBy[lane] = parentOID
}

// occupancyRow reports the sorted set of lanes alive at this row: every
// lane with a pending reservation, plus the row's own lane.
func (a *assigner) occupancyRow(lane int) domain.OccupancyRow {
	alive := make(map[int]struct{}, len(a.reservedBy)+1)
	alive[lane] = struct{}{}
	for l := range a.reservedBy {
		alive[l] = struct{}{}
	}

	row := make(domain.OccupancyRow, 0, len(alive))
	for l := range alive {
		row = append(row, l)
	}
	sort.Ints(row)
	return row
}

// releaseIfUnclaimed returns lane to the free pool if no parent claimed
// it this row — i.e., this row was the lane's last consumer.
func (a *assigner) releaseIfUnclaimed(lane int) {
	if _, stillReserved := a.reservedBy[lane]; !stillReserved {
		heap.Push(a.free, lane)
	}
}

// allocate pops the lowest free lane, or grows by one if the pool is
// empty.
func (a *assigner) allocate() int {
	if a.free.Len() > 0 {
		return heap.Pop(a.free).(int)
	}
	lane := a.nextLane
	a.nextLane++
	return lane
}

// intHeap is a min-heap of lane indices, giving Assign "reuse the lowest
// free lane first" behavior via container/heap.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
