// Package rest is the HTTP adapter for the annotation server's REST API.
//
// A single Client carries the base URL, the token (sent through an
// oauth2.Transport as "Authorization: Token <key>"), a request timeout
// and a proactive rate limiter. Resource services wrap the client and
// implement the driven API ports:
//
//   - DocumentService   -> driven.DocumentAPI
//   - AnnotationService -> driven.AnnotationAPI
//   - ConnectionService -> driven.ConnectionAPI
//   - RelationService   -> driven.RelationAPI
//
// Every method issues exactly one request. Nothing is retried; a 429
// only delays the requests that follow it. Non-2xx responses become
// *APIError values, which match domain.ErrNotFound for 404.
package rest
