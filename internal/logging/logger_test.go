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

package logging

import (
	"log/slog"
	"testing"
)

func TestNew_TextAndJSON(t *testing.T) {
	textLogger := New(Config{Level: slog.LevelInfo})
	if textLogger == nil {
		t.Fatal("expected non-nil text logger")
	}

	jsonLogger := New(Config{Level: slog.LevelDebug, JSON: true, AddSource: true})
	if jsonLogger == nil {
		t.Fatal("expected non-nil JSON logger")
	}

	if !jsonLogger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected debug-level logger to be enabled for debug records")
	}
	if textLogger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected info-level logger to reject debug records")
	}
}
