// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentAPI, AnnotationAPI, ConnectionAPI, RelationAPI: the remote
//     annotation server, one method per REST action
//   - LocalFiles: reading files to upload and writing downloads
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: receives failure notifications; without it failures are
//     only returned to the caller.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
