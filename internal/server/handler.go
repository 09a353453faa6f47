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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sirseerhq/commitgraph-service/internal/aggregator"
	"github.com/sirseerhq/commitgraph-service/internal/config"
	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/github"
	"github.com/sirseerhq/commitgraph-service/internal/lanes"
	"github.com/sirseerhq/commitgraph-service/internal/metadata"
	"github.com/sirseerhq/commitgraph-service/internal/ratelimit"
)

const maxRequestLimit = 100

// Server is the request boundary (C5) and HTTP transport (C6). It holds
// the process-wide service token, a shared rate limiter (so concurrent
// requests never collectively exceed the configured GraphQL QPS budget),
// and the in-memory session store load-more calls resume from.
type Server struct {
	cfg          *config.Config
	logger       *slog.Logger
	limiter      *ratelimit.Limiter
	sessions     *sessionStore
	serviceToken string

	// newClient builds a C1 client for one request's chosen token. A field
	// rather than a direct call to github.NewGraphQLClient so tests can
	// substitute a MockClient-backed factory.
	newClient func(token string) github.Client
}

// New builds a Server from cfg. The process-wide service token is read
// from the environment variable cfg.GitHub.TokenEnv names.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	limiter := ratelimit.New(cfg.RateLimit.QPS, cfg.RateLimit.Burst)
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		limiter:      limiter,
		sessions:     newSessionStore(),
		serviceToken: os.Getenv(cfg.GitHub.TokenEnv),
	}
	s.newClient = func(token string) github.Client {
		return github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint, limiter)
	}
	return s
}

// Router builds the gorilla/mux router exposing both commit-graph routes,
// wrapped in the logging middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)
	r.HandleFunc("/api/commit-graph", s.handleCommitGraph).Methods(http.MethodPost)
	r.HandleFunc("/api/commit-graph/more", s.handleMore).Methods(http.MethodPost)
	return r
}

// selectToken implements spec.md §4.5's preference order: a per-request
// user token passed via Authorization: Bearer, falling back to the
// process-wide service token. C6 only extracts the header; the
// preference decision itself lives here in C5.
func (s *Server) selectToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if tok := strings.TrimPrefix(auth, "Bearer "); tok != "" {
			return tok
		}
	}
	return s.serviceToken
}

func (s *Server) handleCommitGraph(w http.ResponseWriter, r *http.Request) {
	var req commitGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, relaierrors.New(relaierrors.BadRequest, "request body is not valid JSON", err))
		return
	}

	resp, err := s.fetchInitial(r.Context(), s.selectToken(r), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	var req moreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, relaierrors.New(relaierrors.BadRequest, "request body is not valid JSON", err))
		return
	}

	resp, err := s.fetchMore(r.Context(), s.selectToken(r), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// fetchInitial validates req, obtains the branch list, dispatches to the
// aggregation engine (C3), runs lane assignment (C4), and shapes the wire
// response — the whole of C5's responsibility for the initial fetch.
func (s *Server) fetchInitial(ctx context.Context, token string, req commitGraphRequest) (*commitGraphResponse, error) {
	if err := validateCoordinate(req.Owner, req.Repo); err != nil {
		return nil, err
	}
	limit, err := s.resolveLimit(req.Owner, req.Repo, req.Limit)
	if err != nil {
		return nil, err
	}

	client := s.newClient(token)
	tracker := metadata.New()

	tracker.IncrementAPICall()
	branches, err := client.ListBranches(ctx, req.Owner, req.Repo, github.BranchListOptions{})
	if err != nil {
		return nil, err
	}

	if req.Branch != "" {
		branches = filterBranch(branches, req.Branch)
		if len(branches) == 0 {
			return nil, relaierrors.New(relaierrors.NotFound,
				fmt.Sprintf("branch %q not found in %s/%s", req.Branch, req.Owner, req.Repo), relaierrors.ErrRepoNotFound)
		}
	}

	opts := aggregator.Options{
		InitialCommitsPerBranch: s.cfg.Defaults.InitialCommitsPerBranch,
		MaxCommitsToDisplay:     limit,
	}
	payload, state, err := aggregator.FetchCommitGraph(ctx, client, tracker, s.logger, req.Owner, req.Repo, branches, opts)
	if err != nil {
		return nil, err
	}

	assignLanes(payload)

	sessionToken, err := s.sessions.put(req.Owner, req.Repo, branches, state)
	if err != nil {
		return nil, relaierrors.New(relaierrors.Transport, "failed to allocate a session token", err)
	}

	s.logCompletion(tracker, req.Owner, req.Repo, req.Branch)
	return toResponse(payload, sessionToken), nil
}

// fetchMore resumes a session's traversal state and produces the next page.
func (s *Server) fetchMore(ctx context.Context, token string, req moreRequest) (*commitGraphResponse, error) {
	if err := validateCoordinate(req.Owner, req.Repo); err != nil {
		return nil, err
	}
	if req.Session == "" {
		return nil, relaierrors.New(relaierrors.BadRequest, "session is required", nil)
	}

	sess, ok := s.sessions.get(req.Session)
	if !ok {
		return nil, relaierrors.New(relaierrors.NotFound, "unknown or expired session", nil)
	}

	client := s.newClient(token)
	tracker := metadata.New()

	opts := aggregator.Options{
		CommitsPerFetch:     aggregatorCommitsPerFetch(s.cfg),
		MaxCommitsToDisplay: s.cfg.MaxCommitsForRepo(sess.owner + "/" + sess.repo),
	}
	payload, err := aggregator.FetchMoreCommits(ctx, client, tracker, s.logger, sess.owner, sess.repo, sess.state, sess.branches, opts)
	if err != nil {
		return nil, err
	}

	assignLanes(payload)
	s.logCompletion(tracker, sess.owner, sess.repo, "")
	return toResponse(payload, req.Session), nil
}

func aggregatorCommitsPerFetch(cfg *config.Config) int {
	if cfg.Defaults.InitialCommitsPerBranch <= 0 {
		return 0
	}
	return 2 * cfg.Defaults.InitialCommitsPerBranch
}

// resolveLimit applies spec.md §4.5's default-35/cap-100 rule, honoring a
// per-repository override (internal/config.MaxCommitsForRepo) when the
// caller did not specify an explicit limit.
func (s *Server) resolveLimit(owner, repo string, requested int) (int, error) {
	if requested == 0 {
		return s.cfg.MaxCommitsForRepo(owner + "/" + repo), nil
	}
	if requested < 1 || requested > maxRequestLimit {
		return 0, relaierrors.New(relaierrors.BadRequest,
			fmt.Sprintf("limit must be between 1 and %d, got %d", maxRequestLimit, requested), nil)
	}
	return requested, nil
}

func validateCoordinate(owner, repo string) error {
	if strings.TrimSpace(owner) == "" {
		return relaierrors.New(relaierrors.BadRequest, "owner is required", nil)
	}
	if strings.TrimSpace(repo) == "" {
		return relaierrors.New(relaierrors.BadRequest, "repo is required", nil)
	}
	return nil
}

func filterBranch(branches []domain.Branch, name string) []domain.Branch {
	for _, b := range branches {
		if b.Name == name {
			return []domain.Branch{b}
		}
	}
	return nil
}

// assignLanes runs C4 over the sorted commit list C3 produced. Lane
// assignment is pure CPU per spec.md §5 and must not perform I/O; it
// mutates payload.Commits in place via pointers into the same backing
// array the JSON encoder will serialize.
func assignLanes(payload *domain.CommitGraphPayload) {
	ptrs := make([]*domain.Commit, len(payload.Commits))
	for i := range payload.Commits {
		ptrs[i] = &payload.Commits[i]
	}
	lanes.Assign(ptrs, payload.Heads)
}

func toResponse(payload *domain.CommitGraphPayload, session string) *commitGraphResponse {
	return &commitGraphResponse{
		Commits:  payload.Commits,
		Branches: payload.Branches,
		Heads:    payload.Heads,
		HasMore:  payload.HasMore,
		Cursor:   payload.Cursor,
		Session:  session,
	}
}

func (s *Server) logCompletion(tracker *metadata.Tracker, owner, repo, branchFilter string) {
	requestID, err := newSessionToken()
	if err != nil {
		requestID = "unknown"
	}
	m := tracker.Finish(requestID, owner, repo, branchFilter)
	s.logger.Info("commit graph request completed",
		"requestID", m.RequestID,
		"owner", m.Owner,
		"repo", m.Repo,
		"branchFilter", m.BranchFilter,
		"apiCallCount", m.APICallCount,
		"commitCount", m.CommitCount,
		"duration", m.Duration,
	)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := relaierrors.KindOf(err)
	s.writeJSON(w, relaierrors.HTTPStatus(kind), errorResponse{
		Kind:   string(kind),
		Detail: err.Error(),
	})
}
