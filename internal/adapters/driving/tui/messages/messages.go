// Package messages defines the Bubbletea messages of the document browser.
// Store calls run inside tea.Cmds and report back with one of these.
package messages

import (
	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// ViewType identifies the active page.
type ViewType int

const (
	// ViewList is the page of documents.
	ViewList ViewType = iota
	// ViewDocument shows one document with its annotations and connections.
	ViewDocument
)

// String returns the name of the view.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDocument:
		return "document"
	default:
		return "unknown"
	}
}

// ViewChanged switches the active page.
type ViewChanged struct {
	View ViewType
}

// PageLoaded reports the end of a List call. The page itself is read
// from the store.
type PageLoaded struct {
	Err error
}

// DocumentsDeleted carries the outcome of deleting the selection.
type DocumentsDeleted struct {
	Result domain.BulkResult
}

// ApprovalToggled reports the end of an Approve call.
type ApprovalToggled struct {
	DocumentID int
	Approved   bool
	Err        error
}

// Notified carries one failure published on the notification bus.
type Notified struct {
	Notification domain.Notification
}
