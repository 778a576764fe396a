package domain

import (
	"strconv"
	"time"
)

// Operation names carried by notifications.
const (
	OpListDocuments    = "documents.list"
	OpUploadDocuments  = "documents.upload"
	OpExportDocuments  = "documents.export"
	OpUpdateDocument   = "documents.update"
	OpDeleteDocument   = "documents.delete"
	OpAddMapping       = "documents.mapping.add"
	OpRemoveMapping    = "documents.mapping.remove"
	OpRandomMapping    = "documents.mapping.random"
	OpApproveDocument  = "documents.approve"
	OpAddAnnotation    = "annotations.add"
	OpUpdateAnnotation = "annotations.update"
	OpDeleteAnnotation = "annotations.delete"
	OpAddConnection    = "connections.add"
	OpUpdateConnection = "connections.update"
	OpDeleteConnection = "connections.delete"
	OpListRelations    = "relations.list"
	OpUpdateRelation   = "relations.update"
	OpDeleteRelation   = "relations.delete"
	OpImportRelations  = "relations.import"
	OpExportRelations  = "relations.export"
	OpUploadRelations  = "relations.upload"
)

// Notification reports the failure of a store operation to whatever
// presents errors to the user.
type Notification struct {
	// Op is the operation name, one of the Op constants.
	Op string

	// ProjectID is the project the operation ran against.
	ProjectID int

	// ItemID is the document, annotation, connection or relation id
	// involved. Zero for list-level operations.
	ItemID int

	// Err is the failure.
	Err error

	// At is when the failure was observed.
	At time.Time
}

// String formats the notification for a single status line.
func (n Notification) String() string {
	msg := "unknown error"
	if n.Err != nil {
		msg = n.Err.Error()
	}
	if n.ItemID != 0 {
		return n.Op + " #" + strconv.Itoa(n.ItemID) + ": " + msg
	}
	return n.Op + ": " + msg
}
