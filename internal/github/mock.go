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
	"fmt"
	"time"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
)

// MockClient is a mock implementation of Client for testing the aggregator
// and server packages without reaching the real GitHub API.
type MockClient struct {
	// Branches to return from ListBranches.
	Branches []domain.Branch

	// History maps a starting OID to the commits GetCommitHistory should
	// return for it, newest-first.
	History map[string][]domain.Commit

	// HistoryErrors maps a starting OID to an error GetCommitHistory
	// should return for that OID specifically, leaving every other OID
	// unaffected. Used to simulate one branch's fetch failing while its
	// siblings succeed.
	HistoryErrors map[string]error

	// Error, when set, is returned by both methods.
	Error error

	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Call tracking for assertions.
	ListBranchesCalls int
	HistoryCalls      int
	LastOwner         string
	LastRepo          string
}

// NewMockClient creates a mock client preloaded with a small linear commit
// graph on a single "main" branch.
func NewMockClient() *MockClient {
	commits := generateLinearHistory("main", 5)
	return &MockClient{
		Branches: []domain.Branch{
			{Name: "main", Target: domain.BranchTarget{OID: commits[0].OID}},
		},
		History: map[string][]domain.Commit{
			commits[0].OID: commits,
		},
	}
}

// ListBranches implements Client.
func (m *MockClient) ListBranches(ctx context.Context, owner, name string, opts BranchListOptions) ([]domain.Branch, error) {
	m.ListBranchesCalls++
	m.LastOwner = owner
	m.LastRepo = name

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.simulatedError(owner, name); err != nil {
		return nil, err
	}

	return m.Branches, nil
}

// GetCommitHistory implements Client.
func (m *MockClient) GetCommitHistory(ctx context.Context, owner, name, startOID string, opts CommitHistoryOptions) ([]domain.Commit, error) {
	m.HistoryCalls++
	m.LastOwner = owner
	m.LastRepo = name

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := m.simulatedError(owner, name); err != nil {
		return nil, err
	}
	if err, ok := m.HistoryErrors[startOID]; ok {
		return nil, err
	}

	history, ok := m.History[startOID]
	if !ok {
		return nil, fmt.Errorf("mock: no history registered for oid %s", startOID)
	}

	limit := opts.Limit
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}
	return history[:limit], nil
}

func (m *MockClient) simulatedError(owner, repo string) error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relaierrors.ErrUnauthorized)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relaierrors.ErrTransport)
	}
	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return fmt.Errorf("repository not found: %w", relaierrors.ErrRepoNotFound)
	}
	if m.Error != nil {
		return m.Error
	}
	return nil
}

// generateLinearHistory builds n synthetic commits on a single lineage,
// newest-first, each pointing to the next as its sole parent.
func generateLinearHistory(branch string, n int) []domain.Commit {
	now := time.Now().UTC()
	commits := make([]domain.Commit, n)
	for i := 0; i < n; i++ {
		oid := fmt.Sprintf("%s-commit-%d", branch, n-i)
		commits[i] = domain.Commit{
			OID:             oid,
			MessageHeadline: fmt.Sprintf("%s commit %d", branch, n-i),
			CommittedDate:   now.Add(-time.Duration(i) * time.Hour),
			Author:          domain.Author{Name: "Test Author", Email: "test@example.com"},
		}
		if i < n-1 {
			commits[i].Parents = []domain.ParentRef{{OID: fmt.Sprintf("%s-commit-%d", branch, n-i-1)}}
		}
	}
	return commits
}

// MockClientOption allows configuring the mock client.
type MockClientOption func(*MockClient)

// WithBranches sets specific branches to return.
func WithBranches(branches []domain.Branch) MockClientOption {
	return func(m *MockClient) {
		m.Branches = branches
	}
}

// WithHistory registers the commit history returned for a given starting OID.
func WithHistory(startOID string, commits []domain.Commit) MockClientOption {
	return func(m *MockClient) {
		if m.History == nil {
			m.History = make(map[string][]domain.Commit)
		}
		m.History[startOID] = commits
	}
}

// WithHistoryError makes GetCommitHistory fail for one specific starting
// OID only, leaving every other OID's registered history untouched.
func WithHistoryError(startOID string, err error) MockClientOption {
	return func(m *MockClient) {
		if m.HistoryErrors == nil {
			m.HistoryErrors = make(map[string]error)
		}
		m.HistoryErrors[startOID] = err
	}
}

// WithError makes the client return a specific error.
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure.
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options applied on
// top of the default linear history.
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
