// Package domain defines the core entities for labelkit.
//
// This package is the innermost layer of the hexagon. It holds the
// annotation project's records as the server returns them:
//
//   - Document: a unit of text under annotation
//   - Annotation: a labelled span within a Document
//   - Connection: a typed link between two Annotations of one Document
//   - Relation: a reusable connection type shared by a project
//
// Alongside the records it defines the value objects the stores work
// with (SearchOptions, Fields, BulkResult, Notification, Settings) and
// the sentinel errors shared by every layer.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
