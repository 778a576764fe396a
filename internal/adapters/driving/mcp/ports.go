package mcp

import (
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Workspace provides the per-project stores.
	Workspace driving.Workspace

	// DefaultProject is used by tools called without a project id.
	DefaultProject int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	return nil
}

func (p *Ports) project(id int) (int, error) {
	if id > 0 {
		return id, nil
	}
	if p.DefaultProject > 0 {
		return p.DefaultProject, nil
	}
	return 0, ErrNoProject
}
