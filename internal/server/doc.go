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

// Package server is the request boundary (C5) and its HTTP transport
// (C6): a gorilla/mux router exposing POST /api/commit-graph and POST
// /api/commit-graph/more, translating each request into a call into
// internal/aggregator and internal/lanes, and shaping the result into the
// wire response spec.md §6 defines.
//
// The boundary holds no GitHub credentials of its own beyond the
// process-wide service token; a per-request Authorization: Bearer header
// takes precedence when present. It selects the token, builds a
// short-lived GraphQL client, and is the only layer that decides which
// token to use — the HTTP handlers in handler.go only extract the header
// and pass it down.
package server
