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
	"errors"
	"testing"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
)

// Compile-time check that MockClient implements Client.
var _ Client = (*MockClient)(nil)

func TestMockClient_ListBranches(t *testing.T) {
	ctx := context.Background()

	t.Run("returns default test data", func(t *testing.T) {
		mock := NewMockClient()

		branches, err := mock.ListBranches(ctx, "test", "repo", BranchListOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(branches) != 1 {
			t.Fatalf("expected 1 branch, got %d", len(branches))
		}
		if branches[0].Name != "main" {
			t.Errorf("expected branch 'main', got %q", branches[0].Name)
		}

		if mock.ListBranchesCalls != 1 {
			t.Errorf("expected 1 call, got %d", mock.ListBranchesCalls)
		}
		if mock.LastOwner != "test" || mock.LastRepo != "repo" {
			t.Errorf("expected owner/repo test/repo, got %s/%s", mock.LastOwner, mock.LastRepo)
		}
	})

	t.Run("simulates auth failure", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithAuthFailure())

		_, err := mock.ListBranches(ctx, "test", "repo", BranchListOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, relaierrors.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("simulates network failure", func(t *testing.T) {
		mock := NewMockClient()
		mock.ShouldFailNetwork = true

		_, err := mock.ListBranches(ctx, "test", "repo", BranchListOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, relaierrors.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("simulates repo not found", func(t *testing.T) {
		mock := NewMockClient()

		_, err := mock.ListBranches(ctx, "nonexistent", "repo", BranchListOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, relaierrors.ErrRepoNotFound) {
			t.Errorf("expected ErrRepoNotFound, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		mock := NewMockClient()

		cancelCtx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.ListBranches(cancelCtx, "test", "repo", BranchListOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("custom branches", func(t *testing.T) {
		custom := []domain.Branch{{Name: "develop", Target: domain.BranchTarget{OID: "abc123"}}}
		mock := NewMockClientWithOptions(WithBranches(custom))

		branches, err := mock.ListBranches(ctx, "test", "repo", BranchListOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(branches) != 1 || branches[0].Name != "develop" {
			t.Errorf("expected [develop], got %v", branches)
		}
	})
}

func TestMockClient_GetCommitHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns registered history", func(t *testing.T) {
		mock := NewMockClient()
		head := mock.Branches[0].Target.OID

		commits, err := mock.GetCommitHistory(ctx, "test", "repo", head, CommitHistoryOptions{Limit: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(commits) != 3 {
			t.Errorf("expected 3 commits, got %d", len(commits))
		}
		if commits[0].OID != head {
			t.Errorf("expected first commit to be %s, got %s", head, commits[0].OID)
		}
	})

	t.Run("unregistered oid errors", func(t *testing.T) {
		mock := NewMockClient()

		_, err := mock.GetCommitHistory(ctx, "test", "repo", "does-not-exist", CommitHistoryOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("custom error", func(t *testing.T) {
		customErr := errors.New("boom")
		mock := NewMockClientWithOptions(WithError(customErr))

		_, err := mock.GetCommitHistory(ctx, "test", "repo", "whatever", CommitHistoryOptions{})
		if !errors.Is(err, customErr) {
			t.Errorf("expected custom error, got %v", err)
		}
	})
}

func TestGenerateLinearHistory(t *testing.T) {
	commits := generateLinearHistory("main", 5)

	if len(commits) != 5 {
		t.Fatalf("expected 5 commits, got %d", len(commits))
	}

	for i, c := range commits {
		if i < len(commits)-1 && len(c.Parents) != 1 {
			t.Errorf("commit %d: expected exactly one parent, got %d", i, len(c.Parents))
		}
	}
	if len(commits[len(commits)-1].Parents) != 0 {
		t.Error("root commit should have no parents")
	}

	for i := 0; i < len(commits)-1; i++ {
		if commits[i].Parents[0].OID != commits[i+1].OID {
			t.Errorf("commit %d parent OID %s does not match commit %d OID %s",
				i, commits[i].Parents[0].OID, i+1, commits[i+1].OID)
		}
	}
}
