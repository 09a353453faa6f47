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

// Package github provides a client for interacting with GitHub's GraphQL
// API to fetch the data the commit-graph aggregator needs: a repository's
// branches and the commit history reachable from any OID. It abstracts the
// GraphQL query shapes and provides a simple interface with error
// classification and rate limiting. Results are single pages: neither
// call follows GraphQL pagination cursors.
//
// The package includes:
//   - A Client interface for listing branches and fetching commit history
//   - A GraphQL implementation using the shurcooL/graphql library
//   - A MockClient for testing the aggregator and server packages
//   - A RetryClient decorator used only by the cache-warm batch command
//
// Basic usage:
//
//	limiter := ratelimit.New(10, 20)
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql", limiter)
//	branches, err := client.ListBranches(ctx, "golang", "go", github.BranchListOptions{})
//	if err != nil {
//	    // Handle error
//	}
//	for _, b := range branches {
//	    // Process branch
//	}
package github
