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

// Package main implements the commitgraph-service command-line interface:
// a long-running HTTP server that renders commit graphs for GitHub
// repositories, plus an offline batch command that warms caches ahead of
// time.
//
// The CLI supports:
//   - serve: run the HTTP server exposing POST /api/commit-graph and
//     POST /api/commit-graph/more
//   - warm: pre-fetch commit graphs for a list of repositories, retrying
//     transient failures with backoff, and report results as NDJSON
//
// Usage:
//
//	export GITHUB_TOKEN=your_token
//	commitgraph-service serve --config config.yaml
//	commitgraph-service warm --repos repos.txt --output warm-report.ndjson
package main
