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

// Package logging builds the structured logger every request-serving
// component logs through. It is a thin, server-shaped adaptation of the
// teacher-adjacent pack's slog-based logger (coderisk's internal/logging):
// this version drops file rotation and the global-singleton Initialize
// pattern, since a long-running HTTP server logs to stdout/stderr under a
// process supervisor rather than managing its own log files.
package logging

import (
	"log/slog"
	"os"
)

// Config controls the logger's verbosity and encoding.
type Config struct {
	// Level is the minimum level that will be emitted.
	Level slog.Level

	// JSON selects JSON encoding; the zero value uses human-readable text,
	// appropriate for local development.
	JSON bool

	// AddSource annotates each record with the calling file:line.
	AddSource bool
}

// New builds a *slog.Logger per cfg, writing to stderr so stdout stays free
// for any piped command output (the warm command's NDJSON report, for
// instance).
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
