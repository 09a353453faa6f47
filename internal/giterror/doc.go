// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for classifying raw errors returned by the GitHub
// GraphQL API into the core's typed error Kind, eliminating the need for
// string-based error checking throughout the codebase.
package giterror
