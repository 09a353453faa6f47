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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/commitgraph-service/internal/domain"
)

func TestSnapshotFilePath(t *testing.T) {
	got := SnapshotFilePath("octocat/hello-world")
	wantSuffix := filepath.Join(".commitgraph-service", "sessions", "octocat-hello-world.session")
	if !strings.HasSuffix(got, wantSuffix) {
		t.Errorf("SnapshotFilePath = %q, want suffix %q", got, wantSuffix)
	}
}

func writeRawSnapshot(path string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func TestSaveAndLoadSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "octocat-hello-world.session")

	s := New()
	s.MarkVisited(&domain.Commit{OID: "c1", MessageHeadline: "first"})
	s.Associate("main", "c1")
	s.AddFrontier("parent-of-c1")

	snap := s.ToSnapshot("octocat/hello-world")
	if err := SaveSnapshot(snap, path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	restored := FromSnapshot(loaded)
	if !restored.IsVisited("c1") {
		t.Error("expected c1 to be visited after restore")
	}
	if restored.FrontierLen() != 1 {
		t.Fatalf("expected 1 frontier entry, got %d", restored.FrontierLen())
	}
	c, ok := restored.Commit("c1")
	if !ok || c.MessageHeadline != "first" {
		t.Errorf("expected commit c1 restored with headline 'first', got %v", c)
	}
}

func TestLoadSnapshotDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.session")

	s := New()
	s.MarkVisited(&domain.Commit{OID: "c1"})
	snap := s.ToSnapshot("octocat/hello-world")
	if err := SaveSnapshot(snap, path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	loaded.Repository = "tampered/repo"

	// Re-saving with a stale checksum would require going through
	// SaveSnapshot again; simulate tampering by checking LoadSnapshot
	// rejects a hand-edited file with a mismatched checksum.
	tampered := *loaded
	tampered.Checksum = "0000000000000000000000000000000000000000000000000000000000000000"
	if err := writeRawSnapshot(path, &tampered); err != nil {
		t.Fatalf("failed to write tampered snapshot: %v", err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Fatal("expected checksum mismatch error, got nil")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.session"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestDeleteSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "octocat-hello-world.session")

	s := New()
	snap := s.ToSnapshot("octocat/hello-world")
	if err := SaveSnapshot(snap, path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if err := DeleteSnapshot(path); err != nil {
		t.Fatalf("DeleteSnapshot failed: %v", err)
	}
	if err := DeleteSnapshot(path); err != nil {
		t.Fatalf("DeleteSnapshot on missing file should be a no-op, got: %v", err)
	}
}
