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

// Package metadata tracks per-request fetch statistics (API call count,
// commit count, duration) and logs them as an audit record when an
// aggregation completes. Unlike the teacher's fetch-metadata system, this
// is never persisted to disk or serialized into the commit-graph response
// body — it exists solely to give the request boundary (C6) something
// structured to log (SPEC_FULL.md §2, C9).
package metadata

import "time"

// FetchMetadata is the audit record for one aggregation. It is built by a
// Tracker at request completion and passed to slog, never to a JSON
// encoder aimed at a client.
type FetchMetadata struct {
	RequestID    string
	Owner        string
	Repo         string
	BranchFilter string // empty when no branch narrowing was requested
	APICallCount int
	CommitCount  int
	Duration     time.Duration
	StartedAt    time.Time
	CompletedAt  time.Time
}
