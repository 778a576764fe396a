package domain

import "slices"

// Document is a unit of text under annotation within a project.
type Document struct {
	// ID is the server-assigned identifier.
	ID int `json:"id"`

	// Text is the content being annotated.
	Text string `json:"text"`

	// Annotations are the labelled spans, in server order.
	Annotations []Annotation `json:"annotations"`

	// Connections are the typed links between annotations, in server order.
	Connections []Connection `json:"connections"`

	// AnnotationApprover is the username of the approver.
	// Nil means the document's annotations are not approved.
	AnnotationApprover *string `json:"annotation_approver"`

	// AnnotatorAssign lists usernames assigned to annotate this document.
	AnnotatorAssign []string `json:"annotator_assign"`

	// ApproverAssign lists usernames assigned to approve this document.
	ApproverAssign []string `json:"approver_assign"`

	// EntityConcordance is the inter-annotator agreement on entities.
	EntityConcordance float64 `json:"entity_concordance"`

	// RelationConcordance is the inter-annotator agreement on connections.
	RelationConcordance float64 `json:"relation_concordance"`
}

// IsApproved reports whether an approver has signed off the annotations.
func (d *Document) IsApproved() bool {
	return d.AnnotationApprover != nil
}

// IsAssigned reports whether username appears in either assignment list.
func (d *Document) IsAssigned(username string) bool {
	return slices.Contains(d.AnnotatorAssign, username) ||
		slices.Contains(d.ApproverAssign, username)
}

// HasAnnotation reports whether an annotation with the given id exists.
func (d *Document) HasAnnotation(id int) bool {
	return slices.ContainsFunc(d.Annotations, func(a Annotation) bool {
		return a.ID == id
	})
}

// RemoveAnnotation deletes the annotation and every connection that uses
// it as source or target. It reports whether the annotation was present.
func (d *Document) RemoveAnnotation(id int) bool {
	before := len(d.Annotations)
	d.Annotations = slices.DeleteFunc(d.Annotations, func(a Annotation) bool {
		return a.ID == id
	})
	d.Connections = slices.DeleteFunc(d.Connections, func(c Connection) bool {
		return c.Source == id || c.To == id
	})
	return len(d.Annotations) != before
}

// RemoveConnection deletes the connection with the given id.
func (d *Document) RemoveConnection(id int) bool {
	before := len(d.Connections)
	d.Connections = slices.DeleteFunc(d.Connections, func(c Connection) bool {
		return c.ID == id
	})
	return len(d.Connections) != before
}

// Span returns the text an annotation covers. Offsets count runes; an
// annotation outside the text yields "".
func (d *Document) Span(a Annotation) string {
	r := []rune(d.Text)
	if a.StartOffset < 0 || a.EndOffset > len(r) || a.StartOffset > a.EndOffset {
		return ""
	}
	return string(r[a.StartOffset:a.EndOffset])
}

// Clone returns a deep copy so callers cannot alias store state.
func (d *Document) Clone() Document {
	out := *d
	out.Annotations = slices.Clone(d.Annotations)
	out.Connections = slices.Clone(d.Connections)
	out.AnnotatorAssign = slices.Clone(d.AnnotatorAssign)
	out.ApproverAssign = slices.Clone(d.ApproverAssign)
	if d.AnnotationApprover != nil {
		approver := *d.AnnotationApprover
		out.AnnotationApprover = &approver
	}
	return out
}

// DocumentPage is one page of a paginated document listing.
type DocumentPage struct {
	// Count is the total number of documents matching the query.
	Count int `json:"count"`

	// Results holds the documents on this page.
	Results []Document `json:"results"`
}
