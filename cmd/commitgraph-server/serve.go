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

package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/commitgraph-service/internal/config"
	"github.com/sirseerhq/commitgraph-service/internal/logging"
	"github.com/sirseerhq/commitgraph-service/internal/server"
)

// newServeCommand creates the 'serve' subcommand, which runs the HTTP
// server until it receives SIGINT or SIGTERM, then drains in-flight
// requests before exiting.
func newServeCommand(configFile *string) *cobra.Command {
	var (
		listenAddress string
		jsonLogs      bool
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the commit-graph HTTP server",
		Long: `Run the HTTP server exposing:

  POST /api/commit-graph       fetch the initial page of a commit graph
  POST /api/commit-graph/more  resume a prior request's session and fetch the next page

Authentication is supplied per-request via an Authorization: Bearer header,
or falls back to the service-wide token named by the configured token
environment variable (default: GITHUB_TOKEN).

Examples:
  # Run with defaults on :8080
  commitgraph-service serve

  # Run against a custom configuration, listening on :9090
  commitgraph-service serve --config config.yaml --listen :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if listenAddress != "" {
				cfg.Server.ListenAddress = listenAddress
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := logging.New(logging.Config{Level: level, JSON: jsonLogs})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, logger)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddress, "listen", "", "Address to listen on (overrides config file)")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON instead of human-readable text")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug-level logging")

	return cmd
}
