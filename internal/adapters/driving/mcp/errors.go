// Package mcp exposes labelkit's stores as Model Context Protocol tools so
// an AI assistant can browse, approve and label documents.
package mcp

import "errors"

var (
	// ErrMissingWorkspace is returned when the workspace is not provided.
	ErrMissingWorkspace = errors.New("mcp: workspace is required")

	// ErrNoProject is returned by tools called without a project when no
	// default project is configured.
	ErrNoProject = errors.New("mcp: project is required")
)
