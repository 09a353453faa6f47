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

// Package lanes is grounded conceptually on the pack's TUI commit-graph
// renderer (internal/ui/components/graph/renderer.go in the lazygit-lite
// example): both assign a vertical lane per commit, reuse lanes the
// renderer no longer needs, and map lane index to a fixed color palette.
// The two diverge on the precise reuse/release rule — this package
// implements SPEC_FULL.md §4.4's exact "lowest free lane first, release
// when unclaimed" algorithm via a container/heap min-heap, rather than the
// renderer's findAvailableLane scan, and has no terminal-rendering
// concerns (no lipgloss, no line drawing).
//
// Usage:
//
//	occupancy := lanes.Assign(commits, heads)
//
// Assign mutates each commit's Color, LineIndex, and IsHead fields in
// place and returns the occupancy matrix alongside.
package lanes
