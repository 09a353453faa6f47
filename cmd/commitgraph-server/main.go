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
	"os"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/commitgraph-service/pkg/version"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "commitgraph-service",
		Short: "Render interactive commit graphs for GitHub repositories",
		Long: `commitgraph-service is an HTTP service that renders an interactive,
multi-branch commit graph for GitHub repositories. It fetches branch heads and
commit history over GitHub's GraphQL API, assigns each commit a deterministic
lane and color, and serves the result with cursor-based pagination for
incremental loading.`,
		Version: version.Version,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(newServeCommand(&configFile))
	rootCmd.AddCommand(newWarmCommand(&configFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
