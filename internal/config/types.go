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

// Package config types define the configuration structures for the
// commit-graph service: settings can be loaded from a YAML file,
// overridden by environment variables, and overridden again by CLI flags.
package config

import "time"

// Config is the complete configuration for the commit-graph server and its
// warm-cache batch command.
type Config struct {
	Server       ServerConfig          `yaml:"server"`
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	RateLimit    RateLimitConfig       `yaml:"rate_limit"`
}

// ServerConfig controls the HTTP transport (C6).
type ServerConfig struct {
	ListenAddress string        `yaml:"listen_address"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints
// and the environment variable holding the service's bearer token. This
// allows easy configuration for GitHub Enterprise deployments by specifying
// custom endpoints.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig contains the aggregation defaults applied to every request
// unless overridden by a repository-specific entry or a request's own
// "limit" field.
type DefaultsConfig struct {
	InitialCommitsPerBranch int `yaml:"initial_commits_per_branch"`
	MaxCommitsToDisplay     int `yaml:"max_commits_to_display"`
}

// RepoConfig contains repository-specific overrides, keyed by "owner/repo"
// in Config.Repositories. Useful for repositories whose history is large
// enough to warrant a smaller display cap.
type RepoConfig struct {
	MaxCommitsToDisplay int `yaml:"max_commits_to_display"`
}

// RateLimitConfig configures the client-side GraphQL throttle (C7).
type RateLimitConfig struct {
	QPS   float64 `yaml:"qps"`
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns a Config with sensible defaults for a public
// GitHub.com deployment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress: ":8080",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  30 * time.Second,
		},
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			InitialCommitsPerBranch: 10,
			MaxCommitsToDisplay:     35,
		},
		Repositories: make(map[string]RepoConfig),
		RateLimit: RateLimitConfig{
			QPS:   5,
			Burst: 10,
		},
	}
}
