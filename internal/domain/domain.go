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

// Package domain defines the shared value types that flow between the
// GraphQL client, the aggregation engine, the lane assigner, and the HTTP
// request boundary. These are plain value records; nothing in this package
// performs I/O or owns a lifetime longer than one aggregation.
package domain

import "time"

// RollupState is the status-check rollup state GitHub reports for a commit.
type RollupState string

// Known rollup states. An absent rollup is represented by a nil
// *RollupState on Commit, never one of these four.
const (
	RollupSuccess RollupState = "SUCCESS"
	RollupFailure RollupState = "FAILURE"
	RollupPending RollupState = "PENDING"
	RollupError   RollupState = "ERROR"
)

// UserRef identifies the GitHub account associated with a commit author,
// when GitHub could resolve the commit's email to an account.
type UserRef struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// Author is the name/email/account triple GitHub attaches to a commit.
// Email and User are both optional; User is only present when GitHub
// resolved the commit's author email to a registered account.
type Author struct {
	Name  string   `json:"name"`
	Email string   `json:"email,omitempty"`
	User  *UserRef `json:"user,omitempty"`
}

// ParentRef is a single parent edge, identified by OID only.
type ParentRef struct {
	OID string `json:"oid"`
}

// Commit is one node in the commit DAG. OID is unique within a response.
// Parents lists every direct parent the GitHub API returned for this
// commit; a parent OID that never appears as another Commit.OID in the same
// response marks the edge of the fetched window, not a data error.
//
// Branches is filled in by the aggregation engine (C3) as it associates
// commits with branches. Color, LineIndex, and IsHead are rendering-time
// attributes stamped by the lane assigner (C4); they are zero-valued until
// that pass runs.
type Commit struct {
	OID               string       `json:"oid"`
	MessageHeadline   string       `json:"messageHeadline"`
	MessageBody       string       `json:"messageBody"`
	CommittedDate     time.Time    `json:"committedDate"`
	Author            Author       `json:"author"`
	Parents           []ParentRef  `json:"parents"`
	Additions         int          `json:"additions"`
	Deletions         int          `json:"deletions"`
	StatusCheckRollup *RollupState `json:"statusCheckRollup,omitempty"`

	Branches  []string `json:"branches"`
	Color     string   `json:"color"`
	LineIndex int      `json:"lineIndex"`
	IsHead    bool     `json:"isHead"`
}

// BranchTarget is the tip commit identity carried on a Branch record.
type BranchTarget struct {
	OID string `json:"oid"`
}

// Branch is a named ref and the OID its tip currently points at.
type Branch struct {
	Name   string       `json:"name"`
	Target BranchTarget `json:"target"`
}

// HeadRef is a (name, oid) pair materialized from Branches for label
// placement. Multiple heads may share an OID when two branches are
// co-located at the same commit.
type HeadRef struct {
	Name string `json:"name"`
	OID  string `json:"oid"`
}

// CommitGraphPayload is the wire-level result of one aggregation: the
// ordered, lane-stamped commit list plus enough branch/head/pagination
// metadata for a renderer to paint the graph and, if needed, ask for more.
type CommitGraphPayload struct {
	Commits  []Commit `json:"commits"`
	Branches []Branch `json:"branches"`
	Heads    []HeadRef `json:"heads"`
	HasMore  bool     `json:"hasMore"`
	Cursor   string   `json:"cursor,omitempty"`
}

// OccupancyRow is the set of lanes "live" between commit row i and row i+1,
// in left-to-right rendering order. It is parallel to CommitGraphPayload's
// Commits slice: OccupancyRow[i] describes the row at Commits[i].
type OccupancyRow []int
