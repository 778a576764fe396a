package tui

import "errors"

// ErrMissingDocumentStore is returned when Ports has no document store.
var ErrMissingDocumentStore = errors.New("tui: document store is required")
