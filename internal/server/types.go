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

package server

import "github.com/sirseerhq/commitgraph-service/internal/domain"

// commitGraphRequest is the body of POST /api/commit-graph.
type commitGraphRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// moreRequest is the body of POST /api/commit-graph/more. Cursor is
// carried for symmetry with the wire contract (spec.md §6) but the server
// resolves the actual frontier from the session's TraversalState; Cursor
// itself is never read. The response carries a fresh cursor taken from
// the session's frontier after the fetch.
type moreRequest struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Cursor  string `json:"cursor"`
	Session string `json:"session"`
}

// commitGraphResponse is the wire shape of both endpoints' success body:
// spec.md §6's CommitGraphPayload plus the opaque session handle a
// load-more call must echo back.
type commitGraphResponse struct {
	Commits  []domain.Commit    `json:"commits"`
	Branches []domain.Branch    `json:"branches"`
	Heads    []domain.HeadRef   `json:"heads"`
	HasMore  bool               `json:"hasMore"`
	Cursor   string             `json:"cursor,omitempty"`
	Session  string             `json:"session,omitempty"`
}

// errorResponse is the wire shape of any non-2xx response.
type errorResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}
