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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/commitgraph-service/internal/domain"
	relaierrors "github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/giterror"
	"github.com/sirseerhq/commitgraph-service/internal/ratelimit"
	"github.com/sirseerhq/commitgraph-service/pkg/version"
)

// GraphQLClient implements Client using GitHub's GraphQL API via the
// shurcooL/graphql library. It is configured with authentication, a
// client-side rate limiter, and a response-size limit to prevent a
// misbehaving upstream from exhausting memory.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a client against endpoint (typically
// https://api.github.com/graphql, or a GitHub Enterprise equivalent),
// authenticating with token. limiter throttles outbound requests; pass
// ratelimit.New(0, 0) to disable throttling.
func NewGraphQLClient(token, endpoint string, limiter *ratelimit.Limiter) *GraphQLClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &rateLimitedAuthTransport{
			token:   token,
			limiter: limiter,
			base:    transport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// ListBranches implements Client.
func (c *GraphQLClient) ListBranches(ctx context.Context, owner, name string, opts BranchListOptions) ([]domain.Branch, error) {
	first := opts.First
	if first <= 0 || first > defaultBranchPageSize {
		first = defaultBranchPageSize
	}

	var query struct {
		Repository struct {
			DefaultBranchRef *struct {
				Name   graphql.String
				Target struct {
					OID graphql.String `graphql:"oid"`
				}
			} `graphql:"defaultBranchRef"`
			Refs struct {
				Nodes []struct {
					Name   graphql.String
					Target struct {
						OID graphql.String `graphql:"oid"`
					}
				}
			} `graphql:"refs(refPrefix: \"refs/heads/\", first: $first)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(name),
		"first": graphql.Int(int32(first)),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, name)
	}

	seen := make(map[string]bool)
	branches := make([]domain.Branch, 0, len(query.Repository.Refs.Nodes)+1)

	if query.Repository.DefaultBranchRef != nil {
		b := domain.Branch{
			Name:   string(query.Repository.DefaultBranchRef.Name),
			Target: domain.BranchTarget{OID: string(query.Repository.DefaultBranchRef.Target.OID)},
		}
		branches = append(branches, b)
		seen[b.Name] = true
	}

	for _, node := range query.Repository.Refs.Nodes {
		name := string(node.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, domain.Branch{
			Name:   name,
			Target: domain.BranchTarget{OID: string(node.Target.OID)},
		})
	}

	return branches, nil
}

// GetCommitHistory implements Client.
func (c *GraphQLClient) GetCommitHistory(ctx context.Context, owner, name, startOID string, opts CommitHistoryOptions) ([]domain.Commit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultInitialPerBranch
	}
	if limit > maxCommitHistoryPageSize {
		limit = maxCommitHistoryPageSize
	}

	var query struct {
		Repository struct {
			Object struct {
				Commit struct {
					History struct {
						Nodes []commitNode
					} `graphql:"history(first: $limit)"`
				} `graphql:"... on Commit"`
			} `graphql:"object(oid: $oid)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(name),
		"oid":   graphql.GitObjectID(startOID),
		"limit": graphql.Int(int32(limit)),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, name)
	}

	nodes := query.Repository.Object.Commit.History.Nodes
	if len(nodes) == 0 {
		return nil, relaierrors.New(relaierrors.NotFound,
			fmt.Sprintf("commit %s not found in %s/%s", startOID, owner, name), relaierrors.ErrRepoNotFound)
	}

	commits := make([]domain.Commit, 0, len(nodes))
	for _, n := range nodes {
		commits = append(commits, n.toDomain())
	}
	return commits, nil
}

// commitNode mirrors the GraphQL shape of a single Commit history entry.
// Kept as a named type (rather than inline in the query struct above) so
// toDomain has one place to live.
type commitNode struct {
	OID             graphql.String `graphql:"oid"`
	MessageHeadline graphql.String
	MessageBody     graphql.String
	CommittedDate   time.Time
	Additions       graphql.Int
	Deletions       graphql.Int
	Author          struct {
		Name  graphql.String
		Email graphql.String
		User  *struct {
			Login     graphql.String
			AvatarURL graphql.String `graphql:"avatarUrl"`
		}
	}
	Parents struct {
		Nodes []struct {
			OID graphql.String `graphql:"oid"`
		}
	} `graphql:"parents(first: 10)"`
	StatusCheckRollup *struct {
		State graphql.String
	}
}

func (n commitNode) toDomain() domain.Commit {
	c := domain.Commit{
		OID:             string(n.OID),
		MessageHeadline: string(n.MessageHeadline),
		MessageBody:     string(n.MessageBody),
		CommittedDate:   n.CommittedDate,
		Additions:       int(n.Additions),
		Deletions:       int(n.Deletions),
		Author: domain.Author{
			Name:  string(n.Author.Name),
			Email: string(n.Author.Email),
		},
	}

	if n.Author.User != nil {
		c.Author.User = &domain.UserRef{
			Login:     string(n.Author.User.Login),
			AvatarURL: string(n.Author.User.AvatarURL),
		}
	}

	c.Parents = make([]domain.ParentRef, 0, len(n.Parents.Nodes))
	for _, p := range n.Parents.Nodes {
		c.Parents = append(c.Parents, domain.ParentRef{OID: string(p.OID)})
	}

	if n.StatusCheckRollup != nil {
		state := domain.RollupState(n.StatusCheckRollup.State)
		c.StatusCheckRollup = &state
	}

	return c
}

// mapError maps a raw GraphQL/transport error to the core's typed error
// kinds with an actionable message.
func (c *GraphQLClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	switch c.inspector.Classify(err) {
	case relaierrors.RateLimited:
		// A 429 caught in rateLimitedAuthTransport.RoundTrip already carries
		// GitHub's reset hint in its Detail; reuse it rather than overwrite
		// it with the generic message below, which is reached only when
		// classification instead came from the secondary-rate-limit 403
		// body-matching path (no header available at that point).
		var typed *relaierrors.Error
		if errors.As(err, &typed) && typed.Kind == relaierrors.RateLimited {
			return typed
		}
		return relaierrors.New(relaierrors.RateLimited,
			"GitHub API rate limit exceeded, please wait before retrying", relaierrors.ErrRateLimit)
	case relaierrors.Unauthorized:
		return relaierrors.New(relaierrors.Unauthorized,
			"GitHub API authentication failed; provide a valid token", relaierrors.ErrUnauthorized)
	case relaierrors.Forbidden:
		return relaierrors.New(relaierrors.Forbidden,
			"GitHub API token lacks the scope required for this repository", relaierrors.ErrForbidden)
	case relaierrors.NotFound:
		return relaierrors.New(relaierrors.NotFound,
			fmt.Sprintf("repository '%s/%s' not found or not accessible", owner, repo), relaierrors.ErrRepoNotFound)
	default:
		return relaierrors.New(relaierrors.Transport,
			fmt.Sprintf("failed to query GitHub GraphQL API: %v", err), relaierrors.ErrTransport)
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive
// memory usage from an unexpectedly large response.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)
	return n, err
}

// rateLimitedAuthTransport adds the bearer token, a user agent, the
// client-side rate-limit wait, and the response size cap to every request.
type rateLimitedAuthTransport struct {
	token   string
	limiter *ratelimit.Limiter
	base    http.RoundTripper
}

func (t *rateLimitedAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", fmt.Sprintf("commitgraph-service/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// GitHub's primary rate limit always responds 429, unambiguously —
	// unlike the secondary (abuse) rate limit, which shares 403 with plain
	// scope-forbidden rejections and is instead disambiguated later, from
	// the response body, by giterror.Inspector. Catch it here, while the
	// reset headers are still available, and fold the hint into the
	// detail mapError surfaces to the caller.
	if resp.StatusCode == http.StatusTooManyRequests {
		detail := "GitHub API rate limit exceeded, please wait before retrying"
		if hint := rateLimitResetHint(resp.Header); hint != "" {
			detail = fmt.Sprintf("GitHub API rate limit exceeded; %s", hint)
		}
		_ = resp.Body.Close()
		return nil, relaierrors.New(relaierrors.RateLimited, detail, relaierrors.ErrRateLimit)
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{ReadCloser: resp.Body, limit: 10 * 1024 * 1024}
	}

	return resp, nil
}

// rateLimitResetHint extracts GitHub's rate-limit reset signal from an HTTP
// response's headers, preferring Retry-After (seconds until the window
// reopens) over X-RateLimit-Reset (a Unix timestamp), since the former is
// what GitHub actually sets on a 429. Returns "" if neither is present or
// parseable.
func rateLimitResetHint(h http.Header) string {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("retry after %ds", secs)
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			return fmt.Sprintf("resets at %s", time.Unix(unix, 0).UTC().Format(time.RFC3339))
		}
	}
	return ""
}
