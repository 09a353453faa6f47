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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirseerhq/commitgraph-service/internal/config"
	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/github"
)

func testServer(client github.Client) *Server {
	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(cfg, logger)
	s.newClient = func(string) github.Client { return client }
	return s
}

func baseTime2() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func linearCommits() []domain.Commit {
	t := baseTime2()
	return []domain.Commit{
		{OID: "c3", CommittedDate: t, Author: domain.Author{Name: "a"}, Parents: []domain.ParentRef{{OID: "c2"}}},
		{OID: "c2", CommittedDate: t.Add(-time.Hour), Author: domain.Author{Name: "a"}, Parents: []domain.ParentRef{{OID: "c1"}}},
		{OID: "c1", CommittedDate: t.Add(-2 * time.Hour), Author: domain.Author{Name: "a"}},
	}
}

// TestHandleCommitGraph_LinearHistory exercises scenario S1 end-to-end
// through the HTTP handler.
func TestHandleCommitGraph_LinearHistory(t *testing.T) {
	client := github.NewMockClientWithOptions(
		github.WithBranches([]domain.Branch{{Name: "main", Target: domain.BranchTarget{OID: "c3"}}}),
		github.WithHistory("c3", linearCommits()),
	)
	s := testServer(client)

	body, _ := json.Marshal(commitGraphRequest{Owner: "acme", Repo: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/commit-graph", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp commitGraphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(resp.Commits))
	}
	for _, c := range resp.Commits {
		if c.LineIndex != 0 {
			t.Errorf("commit %s lineIndex = %d, want 0", c.OID, c.LineIndex)
		}
		if c.Color != "#fd7f6f" {
			t.Errorf("commit %s color = %s, want #fd7f6f", c.OID, c.Color)
		}
	}
	if !resp.Commits[0].IsHead {
		t.Error("newest commit should be marked isHead")
	}
	if resp.HasMore {
		t.Error("HasMore = true, want false")
	}
	if resp.Session == "" {
		t.Error("expected a non-empty session token")
	}
}

func TestHandleCommitGraph_MissingOwnerIsBadRequest(t *testing.T) {
	s := testServer(github.NewMockClient())

	body, _ := json.Marshal(commitGraphRequest{Repo: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/commit-graph", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errResp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Kind != string(relaierrors.BadRequest) {
		t.Errorf("Kind = %s, want BadRequest", errResp.Kind)
	}
}

// TestHandleCommitGraph_PartialBranchFailure exercises scenario S6: one
// branch's fetch fails, the response still succeeds and still lists the
// broken branch.
func TestHandleCommitGraph_PartialBranchFailure(t *testing.T) {
	client := github.NewMockClientWithOptions(
		github.WithBranches([]domain.Branch{
			{Name: "main", Target: domain.BranchTarget{OID: "c1"}},
			{Name: "broken", Target: domain.BranchTarget{OID: "b1"}},
		}),
		github.WithHistory("c1", []domain.Commit{{OID: "c1", CommittedDate: baseTime2(), Author: domain.Author{Name: "a"}}}),
		github.WithHistoryError("b1", fmt.Errorf("boom: %w", relaierrors.ErrTransport)),
	)
	s := testServer(client)

	body, _ := json.Marshal(commitGraphRequest{Owner: "acme", Repo: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/commit-graph", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp commitGraphResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Branches) != 2 {
		t.Fatalf("Branches = %v, want both listed", resp.Branches)
	}
	if len(resp.Commits) != 1 || resp.Commits[0].OID != "c1" {
		t.Fatalf("Commits = %v, want only c1", resp.Commits)
	}
}

func TestHandleMore_RoundTrip(t *testing.T) {
	client := github.NewMockClientWithOptions(
		github.WithBranches([]domain.Branch{{Name: "main", Target: domain.BranchTarget{OID: "c2"}}}),
		github.WithHistory("c2", []domain.Commit{
			{OID: "c2", CommittedDate: baseTime2(), Author: domain.Author{Name: "a"}, Parents: []domain.ParentRef{{OID: "c1"}}},
		}),
		github.WithHistory("c1", []domain.Commit{
			{OID: "c1", CommittedDate: baseTime2().Add(-time.Hour), Author: domain.Author{Name: "a"}},
		}),
	)
	s := testServer(client)

	initialBody, _ := json.Marshal(commitGraphRequest{Owner: "acme", Repo: "widgets"})
	initialReq := httptest.NewRequest(http.MethodPost, "/api/commit-graph", bytes.NewReader(initialBody))
	initialRec := httptest.NewRecorder()
	s.Router().ServeHTTP(initialRec, initialReq)

	var initial commitGraphResponse
	if err := json.Unmarshal(initialRec.Body.Bytes(), &initial); err != nil {
		t.Fatalf("decode initial response: %v", err)
	}
	if !initial.HasMore || initial.Cursor == "" {
		t.Fatalf("expected HasMore with a cursor, got %+v", initial)
	}

	moreBody, _ := json.Marshal(moreRequest{Owner: "acme", Repo: "widgets", Cursor: initial.Cursor, Session: initial.Session})
	moreReq := httptest.NewRequest(http.MethodPost, "/api/commit-graph/more", bytes.NewReader(moreBody))
	moreRec := httptest.NewRecorder()
	s.Router().ServeHTTP(moreRec, moreReq)

	if moreRec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", moreRec.Code, moreRec.Body.String())
	}
	var more commitGraphResponse
	if err := json.Unmarshal(moreRec.Body.Bytes(), &more); err != nil {
		t.Fatalf("decode more response: %v", err)
	}
	if len(more.Commits) != 2 {
		t.Fatalf("got %d commits after load-more, want 2", len(more.Commits))
	}
	if more.HasMore {
		t.Error("HasMore = true after fully draining the frontier")
	}
}

func TestHandleMore_UnknownSessionIsNotFound(t *testing.T) {
	s := testServer(github.NewMockClient())

	body, _ := json.Marshal(moreRequest{Owner: "acme", Repo: "widgets", Session: "does-not-exist"})
	req := httptest.NewRequest(http.MethodPost, "/api/commit-graph/more", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
