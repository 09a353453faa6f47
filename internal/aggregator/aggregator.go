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

package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/github"
	"github.com/sirseerhq/commitgraph-service/internal/metadata"
	"github.com/sirseerhq/commitgraph-service/internal/travstate"
)

// FetchCommitGraph produces a CommitGraphPayload for owner/repo from the
// already-resolved branch set (the request boundary obtains this via
// client.ListBranches before calling in, since a NotFound/Unauthorized/
// Forbidden on that call is fatal and belongs to the boundary, not here).
// The returned *travstate.State is the traversal's live state, handed back
// to the caller so a later FetchMoreCommits call can resume it.
//
// Outbound GraphQL calls are throttled once, at client's transport layer
// (see github.NewGraphQLClient) — per SPEC_FULL.md §5's single-throttle-
// point design, this package never waits on a limiter itself.
func FetchCommitGraph(
	ctx context.Context,
	client github.Client,
	tracker *metadata.Tracker,
	logger *slog.Logger,
	owner, repo string,
	branches []domain.Branch,
	opts Options,
) (*domain.CommitGraphPayload, *travstate.State, error) {
	opts = opts.withDefaults()
	state := travstate.New()

	tipToBranches := make(map[string][]string)
	var tips []string
	for _, b := range branches {
		if _, seen := tipToBranches[b.Target.OID]; !seen {
			tips = append(tips, b.Target.OID)
		}
		tipToBranches[b.Target.OID] = append(tipToBranches[b.Target.OID], b.Name)
	}

	results, err := fetchTips(ctx, client, tracker, logger, owner, repo, tips, opts.InitialCommitsPerBranch)
	if err != nil {
		return nil, nil, err
	}

	for _, r := range results {
		if r.err != nil {
			logger.Warn("branch fetch failed, skipping",
				"owner", owner, "repo", repo, "tip", r.tip, "error", r.err)
			continue
		}
		mergeCommits(state, r.commits, tipToBranches[r.tip])
		tracker.AddCommits(len(r.commits))
	}

	for _, b := range branches {
		propagateBranchAssociation(state, b.Name, b.Target.OID)
	}

	payload := buildPayload(state, branches, opts.MaxCommitsToDisplay)
	return payload, state, nil
}

// FetchMoreCommits drains the frontier of an existing traversal state,
// fetches one commit's worth of history per drained OID, runs the
// restricted re-association pass, and returns the refreshed payload.
func FetchMoreCommits(
	ctx context.Context,
	client github.Client,
	tracker *metadata.Tracker,
	logger *slog.Logger,
	owner, repo string,
	state *travstate.State,
	branches []domain.Branch,
	opts Options,
) (*domain.CommitGraphPayload, error) {
	opts = opts.withDefaults()

	drained := state.DrainFrontier(opts.CommitsPerFetch)
	results, err := fetchTips(ctx, client, tracker, logger, owner, repo, drained, 1)
	if err != nil {
		return nil, err
	}

	var inserted []string
	for _, r := range results {
		if r.err != nil {
			logger.Warn("load-more fetch failed, skipping",
				"owner", owner, "repo", repo, "oid", r.tip, "error", r.err)
			continue
		}
		for _, c := range r.commits {
			if state.IsVisited(c.OID) {
				continue
			}
			commit := c
			state.MarkVisited(&commit)
			for _, p := range commit.Parents {
				if !state.IsVisited(p.OID) {
					state.AddFrontier(p.OID)
				}
			}
			inserted = append(inserted, commit.OID)
		}
		tracker.AddCommits(len(r.commits))
	}

	restrictedReassociate(state, inserted)

	return buildPayload(state, branches, opts.MaxCommitsToDisplay), nil
}

// fetchTips issues one getCommitHistory call per OID in oids, concurrently,
// via a plain errgroup.Group — deliberately not errgroup.WithContext, so
// one OID's failure never cancels its siblings' in-flight requests. The
// first fatal error kind (RateLimited) aborts the whole aggregation and
// propagates unchanged; any other per-OID failure is captured in that
// OID's result and handled by the caller's merge step. Rate limiting
// itself happens once, inside client's transport (the shared limiter
// guards every outbound HTTP request there, including this call's).
func fetchTips(
	ctx context.Context,
	client github.Client,
	tracker *metadata.Tracker,
	logger *slog.Logger,
	owner, repo string,
	oids []string,
	limit int,
) ([]tipFetchResult, error) {
	results := make([]tipFetchResult, len(oids))
	g := &errgroup.Group{}

	for i, oid := range oids {
		i, oid := i, oid
		g.Go(func() error {
			commits, err := client.GetCommitHistory(ctx, owner, repo, oid, github.CommitHistoryOptions{Limit: limit})
			tracker.IncrementAPICall()
			if err != nil {
				if relaierrors.KindOf(err) == relaierrors.RateLimited {
					return err
				}
				results[i] = tipFetchResult{tip: oid, err: err}
				return nil
			}
			results[i] = tipFetchResult{tip: oid, commits: commits}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// mergeCommits folds one tip's fetched commits into state, attributing
// every fetched commit to each branch name that shares this tip.
func mergeCommits(state *travstate.State, commits []domain.Commit, branchNames []string) {
	for _, c := range commits {
		commit := c
		if !state.IsVisited(commit.OID) {
			state.MarkVisited(&commit)
			for _, p := range commit.Parents {
				if !state.IsVisited(p.OID) {
					state.AddFrontier(p.OID)
				}
			}
		}
		for _, name := range branchNames {
			state.Associate(name, commit.OID)
		}
	}
}

// propagateBranchAssociation walks descendant→parent edges from a branch's
// tip, using only edges whose target is already visited, marking branch on
// every reached commit. This repairs the case where two branches share
// ancestry: commits fetched via one branch's tip are still correctly
// labeled as reachable from another branch whose own fetch never visited
// them directly.
func propagateBranchAssociation(state *travstate.State, branch, tip string) {
	if !state.IsVisited(tip) {
		return
	}
	queue := []string{tip}
	seen := map[string]struct{}{tip: {}}
	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		state.Associate(branch, oid)

		c, ok := state.Commit(oid)
		if !ok {
			continue
		}
		for _, p := range c.Parents {
			if !state.IsVisited(p.OID) {
				continue
			}
			if _, already := seen[p.OID]; already {
				continue
			}
			seen[p.OID] = struct{}{}
			queue = append(queue, p.OID)
		}
	}
}

// restrictedReassociate runs the cheaper re-association pass used after a
// load-more batch: a newly inserted commit belongs to branch b iff some
// commit already attributed to b lists it as a parent. Each new commit is
// checked once, in insertion order; one whose only link to b runs through
// a commit not yet attributed to b at that moment is left without b, and
// later load-more calls do not check it again.
func restrictedReassociate(state *travstate.State, inserted []string) {
	for _, newOID := range inserted {
		for branch, oids := range state.BranchCommits {
			if branchClaims(state, oids, newOID) {
				state.Associate(branch, newOID)
			}
		}
	}
}

func branchClaims(state *travstate.State, oids map[string]struct{}, candidate string) bool {
	for oid := range oids {
		c, ok := state.Commit(oid)
		if !ok {
			continue
		}
		for _, p := range c.Parents {
			if p.OID == candidate {
				return true
			}
		}
	}
	return false
}
