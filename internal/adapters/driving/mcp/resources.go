package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "labelkit://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/relations",
		Name:        "project-relations",
		Description: "Relation types defined in a project",
		MIMEType:    "application/json",
	}, s.handleRelationsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/documents/{documentId}",
		Name:        "document-text",
		Description: "Text of a document",
		MIMEType:    "text/plain",
	}, s.handleDocumentTextResource)
}

// handleRelationsResource returns a project's relation types as JSON.
func (s *Server) handleRelationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ids, ok := parseResourceURI(req.Params.URI, "relations")
	if !ok || len(ids) != 1 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	store := s.ports.Workspace.Relations(ids[0])
	if err := store.List(ctx); err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}

	data, err := json.MarshalIndent(store.Items(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling relations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentTextResource returns the text of one document.
func (s *Server) handleDocumentTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ids, ok := parseResourceURI(req.Params.URI, "documents")
	if !ok || len(ids) != 2 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Workspace.Documents(ids[0]).Document(ctx, ids[1])
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Text,
		}},
	}, nil
}

// parseResourceURI extracts the ids from labelkit://projects/{p}/{kind}
// and labelkit://projects/{p}/{kind}/{id}.
func parseResourceURI(uri, kind string) ([]int, bool) {
	rest, ok := strings.CutPrefix(uri, uriScheme+"projects/")
	if !ok {
		return nil, false
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || len(parts) > 3 || parts[1] != kind {
		return nil, false
	}
	parts = append(parts[:1], parts[2:]...)

	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}
