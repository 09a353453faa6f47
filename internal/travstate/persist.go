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

package travstate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
)

// Snapshot is the durable, JSON-serializable form of a State. It flattens
// the frontier's order/set split into a single ordered slice and is the
// unit SaveSnapshot/LoadSnapshot operate on.
//
// Snapshotting is opt-in (SPEC_FULL.md §4.2, C8): the default HTTP flow
// keeps a State in memory for the life of one session object. A caller
// that wants load-more to survive a process restart persists a Snapshot
// explicitly between calls.
type Snapshot struct {
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the snapshot content (excluding
	// this field), used to detect corruption.
	Checksum string `json:"checksum"`

	Repository    string                         `json:"repository"`
	Visited       []string                       `json:"visited"`
	Commits       map[string]*domain.Commit      `json:"commits"`
	BranchCommits map[string]map[string]struct{} `json:"branch_commits"`
	Frontier      []string                       `json:"frontier"`
}

// ToSnapshot captures s's current contents for persistence.
func (s *State) ToSnapshot(repository string) *Snapshot {
	visited := make([]string, 0, len(s.Visited))
	for oid := range s.Visited {
		visited = append(visited, oid)
	}

	return &Snapshot{
		Version:       CurrentVersion,
		Repository:    repository,
		Visited:       visited,
		Commits:       s.Commits,
		BranchCommits: s.BranchCommits,
		Frontier:      s.FrontierPeek(),
	}
}

// FromSnapshot rebuilds a State from a previously saved Snapshot.
func FromSnapshot(snap *Snapshot) *State {
	s := New()
	for _, oid := range snap.Visited {
		s.Visited[oid] = struct{}{}
	}
	for oid, c := range snap.Commits {
		s.Commits[oid] = c
	}
	for branch, oids := range snap.BranchCommits {
		s.BranchCommits[branch] = oids
	}
	for _, oid := range snap.Frontier {
		s.AddFrontier(oid)
	}
	return s
}

// SnapshotFilePath returns the standard path for a repository's traversal
// snapshot, analogous to the teacher's GetStateFilePath for fetch
// bookmarks: ~/.commitgraph-service/sessions/org-repo.session
func SnapshotFilePath(repository string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	safeRepoName := strings.ReplaceAll(repository, "/", "-")
	return filepath.Join(homeDir, ".commitgraph-service", "sessions", safeRepoName+".session")
}

// SaveSnapshot atomically writes snap to path using a write-to-temp-and-
// rename pattern with a SHA256 integrity checksum, exactly as the
// teacher's SaveState does for fetch bookmarks.
func SaveSnapshot(snap *Snapshot, path string) error {
	snap.Version = CurrentVersion

	checksum, err := calculateChecksum(snap)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	snap.Checksum = checksum

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tempFile := path + ".tmp"

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary session file: %w", err)
	}

	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadSnapshot reads and validates a snapshot from path, verifying the
// checksum and version compatibility.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no previous session found at %s", path)
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("session file is corrupted (invalid JSON): %w", err)
	}

	if snap.Version != CurrentVersion {
		return nil, fmt.Errorf("session file version (%d) is incompatible with current version (%d)",
			snap.Version, CurrentVersion)
	}

	savedChecksum := snap.Checksum
	snap.Checksum = ""

	calculated, err := calculateChecksum(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if savedChecksum != calculated {
		return nil, fmt.Errorf("session file is corrupted (checksum mismatch)")
	}
	snap.Checksum = savedChecksum

	return &snap, nil
}

// DeleteSnapshot removes the session file for a repository, if any.
func DeleteSnapshot(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// calculateChecksum computes the SHA256 hash of snap's content, excluding
// the Checksum field itself.
func calculateChecksum(snap *Snapshot) (string, error) {
	snapCopy := *snap
	snapCopy.Checksum = ""

	data, err := json.Marshal(snapCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
