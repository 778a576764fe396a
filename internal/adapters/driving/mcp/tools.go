package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// ProjectInput selects a project; zero means the default project.
type ProjectInput struct {
	Project int `json:"project,omitempty" jsonschema:"project id (default: the configured default project)"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Project int    `json:"project,omitempty" jsonschema:"project id (default: the configured default project)"`
	Limit   int    `json:"limit,omitempty" jsonschema:"documents per page (default 10)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"index of the first document"`
	Query   string `json:"query,omitempty" jsonschema:"full-text search"`
	Checked string `json:"checked,omitempty" jsonschema:"true for checked documents only, false for unchecked only"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Project   int               `json:"project"`
	Total     int               `json:"total"`
	Offset    int               `json:"offset"`
	Documents []DocumentSummary `json:"documents"`
}

// DocumentSummary is one row of list_documents.
type DocumentSummary struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Approver    string `json:"approver,omitempty"`
	Annotations int    `json:"annotations"`
	Connections int    `json:"connections"`
}

// DocumentInput names one document.
type DocumentInput struct {
	Project    int `json:"project,omitempty" jsonschema:"project id (default: the configured default project)"`
	DocumentID int `json:"document_id" jsonschema:"document id"`
}

// DocumentOutput is a document with its annotations and connections.
type DocumentOutput struct {
	ID              int                `json:"id"`
	Text            string             `json:"text"`
	Approved        bool               `json:"approved"`
	Approver        string             `json:"approver,omitempty"`
	AnnotatorAssign []string           `json:"annotator_assign,omitempty"`
	ApproverAssign  []string           `json:"approver_assign,omitempty"`
	Annotations     []AnnotationOutput `json:"annotations"`
	Connections     []ConnectionOutput `json:"connections"`
}

// AnnotationOutput is a labeled span of a document.
type AnnotationOutput struct {
	ID          int    `json:"id"`
	Label       int    `json:"label"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Text        string `json:"text"`
}

// ConnectionOutput links two annotations.
type ConnectionOutput struct {
	ID       int `json:"id"`
	Source   int `json:"source"`
	To       int `json:"to"`
	Relation int `json:"relation"`
}

// RelationsOutput is the output schema for the list_relations tool.
type RelationsOutput struct {
	Project   int               `json:"project"`
	Relations []domain.Relation `json:"relations"`
}

// CreateRelationInput is the input schema for the create_relation tool.
type CreateRelationInput struct {
	Project int    `json:"project,omitempty" jsonschema:"project id (default: the configured default project)"`
	Text    string `json:"text" jsonschema:"relation name"`
	Color   string `json:"color,omitempty" jsonschema:"display color such as #ff0000"`
}

// RelationOutput wraps a single relation.
type RelationOutput struct {
	Relation domain.Relation `json:"relation"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List one page of a project's documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get a document with its annotations and the connections between them",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "approve_document",
		Description: "Toggle the approval of a document",
	}, s.handleApproveDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_relations",
		Description: "List the relation types of a project",
	}, s.handleListRelations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_relation",
		Description: "Create a relation type in a project",
	}, s.handleCreateRelation)
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	pid, err := s.ports.project(input.Project)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	store := s.ports.Workspace.Documents(pid)

	store.ResetSearchOptions()
	patch := domain.SearchOptionsPatch{
		Offset:    &input.Offset,
		Query:     &input.Query,
		IsChecked: &input.Checked,
	}
	if input.Limit > 0 {
		patch.Limit = &input.Limit
	}
	store.UpdateSearchOptions(patch)

	if err := store.List(ctx); err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	docs := store.Items()
	out := ListDocumentsOutput{
		Project:   pid,
		Total:     store.Total(),
		Offset:    store.SearchOptions().Offset,
		Documents: make([]DocumentSummary, len(docs)),
	}
	for i := range docs {
		out.Documents[i] = DocumentSummary{
			ID:          docs[i].ID,
			Text:        docs[i].Text,
			Approver:    approver(&docs[i]),
			Annotations: len(docs[i].Annotations),
			Connections: len(docs[i].Connections),
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	pid, err := s.ports.project(input.Project)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	store := s.ports.Workspace.Documents(pid)

	doc, err := store.Document(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(&doc), nil
}

func (s *Server) handleApproveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	pid, err := s.ports.project(input.Project)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	store := s.ports.Workspace.Documents(pid)

	doc, err := store.ApproveDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(&doc), nil
}

func (s *Server) handleListRelations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProjectInput,
) (*mcp.CallToolResult, RelationsOutput, error) {
	pid, err := s.ports.project(input.Project)
	if err != nil {
		return nil, RelationsOutput{}, err
	}
	store := s.ports.Workspace.Relations(pid)

	if err := store.List(ctx); err != nil {
		return nil, RelationsOutput{}, err
	}
	return nil, RelationsOutput{Project: pid, Relations: store.Items()}, nil
}

func (s *Server) handleCreateRelation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateRelationInput,
) (*mcp.CallToolResult, RelationOutput, error) {
	pid, err := s.ports.project(input.Project)
	if err != nil {
		return nil, RelationOutput{}, err
	}
	if input.Text == "" {
		return nil, RelationOutput{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}

	fields := domain.Fields{"text": input.Text}
	if input.Color != "" {
		fields["color"] = input.Color
	}
	rel, err := s.ports.Workspace.Relations(pid).Create(ctx, fields)
	if err != nil {
		return nil, RelationOutput{}, err
	}
	return nil, RelationOutput{Relation: rel}, nil
}

func approver(doc *domain.Document) string {
	if doc.AnnotationApprover == nil {
		return ""
	}
	return *doc.AnnotationApprover
}

func documentOutput(doc *domain.Document) DocumentOutput {
	out := DocumentOutput{
		ID:              doc.ID,
		Text:            doc.Text,
		Approved:        doc.IsApproved(),
		Approver:        approver(doc),
		AnnotatorAssign: doc.AnnotatorAssign,
		ApproverAssign:  doc.ApproverAssign,
		Annotations:     make([]AnnotationOutput, len(doc.Annotations)),
		Connections:     make([]ConnectionOutput, len(doc.Connections)),
	}
	for i, a := range doc.Annotations {
		out.Annotations[i] = AnnotationOutput{
			ID:          a.ID,
			Label:       a.Label,
			StartOffset: a.StartOffset,
			EndOffset:   a.EndOffset,
			Text:        doc.Span(a),
		}
	}
	for i, c := range doc.Connections {
		out.Connections[i] = ConnectionOutput{
			ID:       c.ID,
			Source:   c.Source,
			To:       c.To,
			Relation: c.Relation,
		}
	}
	return out
}
