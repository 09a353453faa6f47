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
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	"github.com/sirseerhq/commitgraph-service/internal/travstate"
)

// session is one in-flight traversal a load-more call can resume. The core
// itself is stateless by design (spec.md §9: "the core does not manage
// session storage") — this is the surrounding HTTP server's own choice to
// hold state in memory for the lifetime of the process, per SPEC_FULL.md's
// C8 expansion.
type session struct {
	owner    string
	repo     string
	branches []domain.Branch
	state    *travstate.State
}

// sessionStore holds every live session keyed by its opaque token. It is
// safe for concurrent use across requests.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// put creates and stores a new session, returning its opaque token.
func (s *sessionStore) put(owner, repo string, branches []domain.Branch, state *travstate.State) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &session{owner: owner, repo: repo, branches: branches, state: state}
	return token, nil
}

// get looks up a session by token. The bool is false if the token is
// unknown or has never been created.
func (s *sessionStore) get(token string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

// newSessionToken generates an opaque, unguessable session handle.
func newSessionToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
