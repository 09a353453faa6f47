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

// Package config provides configuration management for the commit-graph
// service with support for multiple configuration sources and a
// well-defined precedence order. It enables enterprise deployments to
// customize behavior through configuration files while maintaining
// flexibility with environment variables and command-line overrides.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Repository-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
//
// The one exception is the display cap: a repository-specific
// max_commits_to_display is applied on top of the loaded configuration,
// so it takes precedence over COMMITGRAPH_MAX_COMMITS for that repository.
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations. It's designed to work
// seamlessly with GitHub Enterprise deployments and supports
// repository-specific display-cap overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .commitgraph-service.yaml (current directory)
//   - .commitgraph-service.yml (current directory)
//   - ~/.commitgraph-service/config.yaml
//   - ~/.commitgraph-service/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".commitgraph-service.yaml",
			".commitgraph-service.yml",
			filepath.Join(os.Getenv("HOME"), ".commitgraph-service", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".commitgraph-service", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadConfigForRepo loads configuration and applies repository-specific
// display-cap overrides. The repo parameter should be in "owner/repo"
// format.
func LoadConfigForRepo(configPath, repo string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if repoConfig, ok := cfg.Repositories[repo]; ok && repoConfig.MaxCommitsToDisplay > 0 {
		cfg.Defaults.MaxCommitsToDisplay = repoConfig.MaxCommitsToDisplay
	}

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if addr := os.Getenv("COMMITGRAPH_LISTEN_ADDRESS"); addr != "" {
		cfg.Server.ListenAddress = addr
	}

	if maxDisplay := os.Getenv("COMMITGRAPH_MAX_COMMITS"); maxDisplay != "" {
		if n, err := parsePositiveInt(maxDisplay); err == nil {
			cfg.Defaults.MaxCommitsToDisplay = n
		}
	}

	if qps := os.Getenv("COMMITGRAPH_RATE_LIMIT_QPS"); qps != "" {
		if f, err := strconv.ParseFloat(qps, 64); err == nil && f > 0 {
			cfg.RateLimit.QPS = f
		}
	}
}

// parsePositiveInt parses s as a positive integer.
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// MaxCommitsForRepo returns the effective max-commits-to-display for a
// repository, taking into account its repository-specific override, if
// any.
func (c *Config) MaxCommitsForRepo(repo string) int {
	if repoConfig, ok := c.Repositories[repo]; ok && repoConfig.MaxCommitsToDisplay > 0 {
		return repoConfig.MaxCommitsToDisplay
	}
	return c.Defaults.MaxCommitsToDisplay
}

// Validate checks if the configuration contains valid values. It ensures
// display caps are within GitHub's response-size practicalities, endpoints
// are not empty, and other constraints are met. This should be called
// after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.MaxCommitsToDisplay <= 0 {
		return fmt.Errorf("max commits to display must be positive, got: %d", c.Defaults.MaxCommitsToDisplay)
	}
	if c.Defaults.MaxCommitsToDisplay > 100 {
		return fmt.Errorf("max commits to display %d exceeds the request boundary's cap of 100", c.Defaults.MaxCommitsToDisplay)
	}
	if c.Defaults.InitialCommitsPerBranch <= 0 {
		return fmt.Errorf("initial commits per branch must be positive, got: %d", c.Defaults.InitialCommitsPerBranch)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.Server.ListenAddress == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	return nil
}
