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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/commitgraph-service/internal/aggregator"
	"github.com/sirseerhq/commitgraph-service/internal/config"
	"github.com/sirseerhq/commitgraph-service/internal/errors"
	"github.com/sirseerhq/commitgraph-service/internal/github"
	"github.com/sirseerhq/commitgraph-service/internal/logging"
	"github.com/sirseerhq/commitgraph-service/internal/metadata"
	"github.com/sirseerhq/commitgraph-service/internal/output"
	"github.com/sirseerhq/commitgraph-service/internal/ratelimit"
)

// warmResult is one line of the warm command's NDJSON report.
type warmResult struct {
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	CommitCount  int    `json:"commitCount"`
	APICallCount int    `json:"apiCallCount"`
	DurationMS   int64  `json:"durationMs"`
}

// newWarmCommand creates the 'warm' subcommand: an offline batch job that
// pre-fetches commit graphs for a list of repositories, so the first
// interactive request against each one is already warm. Unlike the HTTP
// server's request path, this command retries transient failures with
// backoff (github.RetryClient) since nothing is waiting on a live response.
func newWarmCommand(configFile *string) *cobra.Command {
	var (
		reposFile  string
		outputFile string
		maxRetries int
	)

	cmd := &cobra.Command{
		Use:   "warm <org>/<repo> [<org>/<repo> ...]",
		Short: "Pre-fetch commit graphs for a batch of repositories",
		Long: `Pre-fetch commit graphs for one or more repositories and report the
outcome of each as an NDJSON line. Repositories may be given as positional
arguments, listed one per line in a file via --repos, or both.

Transient failures (rate limiting, network errors) are retried with
exponential backoff; a repository that still fails after retries is
reported with its error but does not stop the batch.

Examples:
  commitgraph-service warm golang/go kubernetes/kubernetes
  commitgraph-service warm --repos repos.txt --output warm-report.ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := collectRepoArgs(args, reposFile)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				return fmt.Errorf("no repositories given: pass <org>/<repo> arguments or --repos")
			}

			cfg, err := config.LoadConfig(*configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.New(logging.Config{Level: slog.LevelInfo})

			var writer output.OutputWriter
			if outputFile == "" {
				writer = output.NewWriter(os.Stdout)
			} else {
				fileWriter, wErr := output.NewFileWriter(outputFile)
				if wErr != nil {
					return fmt.Errorf("failed to create output file: %w", wErr)
				}
				writer = fileWriter
			}
			defer writer.Close()

			return runWarm(cmd.Context(), cfg, logger, repos, maxRetries, writer)
		},
	}

	cmd.Flags().StringVar(&reposFile, "repos", "", "Path to a file listing one <org>/<repo> per line")
	cmd.Flags().StringVar(&outputFile, "output", "", "NDJSON report output path (default: stdout)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Maximum retry attempts per repository on transient failure")

	return cmd
}

func runWarm(ctx context.Context, cfg *config.Config, logger *slog.Logger, repos []string, maxRetries int, writer output.OutputWriter) error {
	token := os.Getenv(cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found: set %s", cfg.GitHub.TokenEnv)
	}

	limiter := ratelimit.New(cfg.RateLimit.QPS, cfg.RateLimit.Burst)
	retryCfg := github.DefaultRetryConfig()
	retryCfg.MaxRetries = maxRetries
	client := github.NewRetryClient(github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint, limiter), retryCfg)

	var failures int
	for _, coord := range repos {
		owner, repo, err := parseRepoCoordinate(coord)
		if err != nil {
			logger.Error("skipping malformed repository", "input", coord, "error", err)
			failures++
			continue
		}

		result := warmOne(ctx, client, logger, owner, repo, cfg)
		if !result.OK {
			failures++
		}
		if err := writer.Write(result); err != nil {
			return fmt.Errorf("failed to write report for %s/%s: %w", owner, repo, err)
		}
	}

	logger.Info("warm batch complete", "repositories", len(repos), "failures", failures)
	if failures == len(repos) {
		return fmt.Errorf("all %d repositories failed to warm", failures)
	}
	return nil
}

func warmOne(ctx context.Context, client github.Client, logger *slog.Logger, owner, repo string, cfg *config.Config) warmResult {
	start := time.Now()
	tracker := metadata.New()

	tracker.IncrementAPICall()
	branches, err := client.ListBranches(ctx, owner, repo, github.BranchListOptions{})
	if err != nil {
		return warmResult{Owner: owner, Repo: repo, OK: false, Error: describeError(err), DurationMS: time.Since(start).Milliseconds()}
	}

	opts := aggregator.Options{
		InitialCommitsPerBranch: cfg.Defaults.InitialCommitsPerBranch,
		MaxCommitsToDisplay:     cfg.MaxCommitsForRepo(owner + "/" + repo),
	}
	payload, _, err := aggregator.FetchCommitGraph(ctx, client, tracker, logger, owner, repo, branches, opts)
	if err != nil {
		return warmResult{Owner: owner, Repo: repo, OK: false, Error: describeError(err), DurationMS: time.Since(start).Milliseconds()}
	}

	m := tracker.Finish("", owner, repo, "")
	return warmResult{
		Owner:        owner,
		Repo:         repo,
		OK:           true,
		CommitCount:  len(payload.Commits),
		APICallCount: m.APICallCount,
		DurationMS:   time.Since(start).Milliseconds(),
	}
}

func describeError(err error) string {
	return fmt.Sprintf("%s: %v", errors.KindOf(err), err)
}

func collectRepoArgs(args []string, reposFile string) ([]string, error) {
	repos := append([]string{}, args...)
	if reposFile == "" {
		return repos, nil
	}

	f, err := os.Open(reposFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open --repos file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, line)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read --repos file: %w", err)
	}
	return repos, nil
}

func parseRepoCoordinate(coord string) (owner, repo string, err error) {
	parts := strings.Split(coord, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format, expected <org>/<repo>, got: %s", coord)
	}
	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format, expected <org>/<repo>, got: %s", coord)
	}
	return owner, repo, nil
}
