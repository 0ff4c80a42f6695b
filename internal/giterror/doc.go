// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for classifying failures reported by the GraphQL
// executor, most importantly whether a failure is the transient "bad gateway"
// class that the fetcher is allowed to retry.
package giterror
