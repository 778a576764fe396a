// Package services implements the driving port interfaces.
//
// The stores here own the client-side mirror of a project: a page of
// documents with the current document's annotations and connections, and
// the project's relation types. Each store method issues its request
// through a driven port and, once the server has answered, commits the
// result to memory under the store's mutex.
//
// Bulk operations fan out with a bounded errgroup and return only after
// every item has settled, so selection resets never race the requests
// they describe. Failures are returned to the caller and published to the
// optional Notifier.
package services
